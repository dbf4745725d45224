package httpapi

import (
	"context"
	"net/http"
	"strings"

	"central-lost-found/backend/internal/dataset"
	"central-lost-found/backend/internal/item/domain"
)

// handleImportFeed runs the import to completion even if the client disconnects.
func (h *Handler) handleImportFeed(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		var verr domain.ValidationError
		verr.Add("url", "is required")
		h.writeError(w, r, verr.Err())
		return
	}
	res, err := h.importer.Import(context.WithoutCancel(r.Context()), url)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writePayload(w, r, http.StatusOK, importPayload(res))
}

func (h *Handler) handleMetadata(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(dataset.MetadataXML())
}

func (h *Handler) handleSample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sample.csv"`)
	_, _ = w.Write(dataset.SampleCSV())
}
