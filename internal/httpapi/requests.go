package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"central-lost-found/backend/internal/item/domain"
)

const maxBodyBytes = 1 << 20

type loginRequest struct {
	Email string `json:"email"`
}

type createItemRequest struct {
	Title            string  `json:"title"`
	Category         string  `json:"category"`
	DominantColor    string  `json:"dominant_color"`
	LocationFound    string  `json:"location_found"`
	DateFound        *string `json:"date_found"`
	Description      *string `json:"description"`
	DistinctiveMarks *string `json:"distinctive_marks"`
	// Email identifies the reporter in email auth mode when the query parameter is absent.
	Email string `json:"email"`
}

// toNewItem converts the request. date_found accepts YYYY-MM-DD or an RFC 3339 timestamp.
func (req *createItemRequest) toNewItem() (domain.NewItem, error) {
	n := domain.NewItem{
		Title:            req.Title,
		Category:         req.Category,
		DominantColor:    req.DominantColor,
		LocationFound:    req.LocationFound,
		Description:      req.Description,
		DistinctiveMarks: req.DistinctiveMarks,
	}
	if req.DateFound != nil && strings.TrimSpace(*req.DateFound) != "" {
		d, err := parseDate(*req.DateFound)
		if err != nil {
			var verr domain.ValidationError
			verr.Add("date_found", "must be a date in YYYY-MM-DD format")
			return n, verr.Err()
		}
		n.DateFound = &d
	}
	return n, nil
}

// decodeJSON decodes the request body into dst. Empty, oversized, or malformed bodies are bad requests.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return badRequest("request body is empty")
		case errors.As(err, &maxErr):
			return badRequest("request body too large")
		default:
			return badRequest("invalid JSON body")
		}
	}
	return nil
}

// parseFilter reads list filters from the query. "region" and "voivodeship" are synonyms.
func parseFilter(q url.Values) (domain.Filter, error) {
	var (
		f    domain.Filter
		verr domain.ValidationError
	)
	f.Voivodeship = q.Get("region")
	if f.Voivodeship == "" {
		f.Voivodeship = q.Get("voivodeship")
	}
	f.DominantColor = q.Get("dominant_color")
	f.DateFrom = queryDate(q, "date_from", &verr)
	f.DateTo = queryDate(q, "date_to", &verr)
	f.Limit = queryInt(q, "limit", 0, &verr)
	f.Offset = queryInt(q, "offset", 0, &verr)
	if q.Get("limit") != "" && f.Limit == 0 {
		verr.Add("limit", "must be between 1 and 500")
	}
	return f, verr.Err()
}

func queryDate(q url.Values, key string, verr *domain.ValidationError) *time.Time {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	d, err := parseDate(raw)
	if err != nil {
		verr.Add(key, "must be a date in YYYY-MM-DD format")
		return nil
	}
	return &d
}

func queryInt(q url.Values, key string, def int, verr *domain.ValidationError) int {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(key, "must be an integer")
		return def
	}
	return n
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.Parse(domain.DateLayout, raw); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return domain.DateOf(t), nil
}

// sessionToken reads the token from X-Session-Token, falling back to an Authorization bearer token.
func sessionToken(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get("X-Session-Token")); t != "" {
		return t
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
