package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"central-lost-found/backend/internal/feed"
	identityservice "central-lost-found/backend/internal/identity/service"
	"central-lost-found/backend/internal/item/domain"
)

// Error codes of the JSON error envelope.
const (
	codeInvalidRequest   = "invalid_request"
	codeValidationFailed = "validation_failed"
	codeUnauthorized     = "unauthorized"
	codeNotFound         = "not_found"
	codeFeedDownload     = "feed_download_failed"
	codeFeedInvalidXML   = "feed_invalid_xml"
	codeInternal         = "internal_error"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// badRequestError is a request that could not be decoded.
type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(msg string) error { return &badRequestError{msg: msg} }

// writeError translates a domain error to a status code and the JSON error envelope.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *domain.ValidationError
		berr *badRequestError
	)
	status := http.StatusInternalServerError
	body := errorResponse{Error: codeInternal}
	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		body = errorResponse{Error: codeValidationFailed, Fields: verr.Fields}
	case errors.As(err, &berr):
		status = http.StatusBadRequest
		body = errorResponse{Error: codeInvalidRequest, Detail: berr.msg}
	case errors.Is(err, identityservice.ErrInvalidEmail):
		status = http.StatusUnprocessableEntity
		body = errorResponse{Error: codeValidationFailed, Fields: map[string]string{"email": err.Error()}}
	case errors.Is(err, identityservice.ErrUnauthenticated):
		status = http.StatusUnauthorized
		body = errorResponse{Error: codeUnauthorized, Detail: identityservice.ErrUnauthenticated.Error()}
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		body = errorResponse{Error: codeNotFound, Detail: domain.ErrNotFound.Error()}
	case errors.Is(err, feed.ErrDownload):
		status = http.StatusBadRequest
		body = errorResponse{Error: codeFeedDownload, Detail: err.Error()}
	case errors.Is(err, feed.ErrInvalidXML):
		status = http.StatusBadRequest
		body = errorResponse{Error: codeFeedInvalidXML, Detail: err.Error()}
	default:
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		if h.opts.ExposeStorageErrors {
			body.Detail = err.Error()
		}
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
