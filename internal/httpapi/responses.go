package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"central-lost-found/backend/internal/feed"
	"central-lost-found/backend/internal/item/domain"
	"central-lost-found/backend/internal/render"
	sessiondomain "central-lost-found/backend/internal/session/domain"
)

type loginResponse struct {
	Token           string     `json:"token"`
	Voivodeship     *string    `json:"voivodeship"`
	City            *string    `json:"city"`
	ReportingEntity string     `json:"reporting_entity"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

func newLoginResponse(s *sessiondomain.Session) loginResponse {
	return loginResponse{
		Token:           s.Token,
		Voivodeship:     nullable(s.Identity.Region),
		City:            nullable(s.Identity.Locality),
		ReportingEntity: s.Identity.ReportingEntity,
		ExpiresAt:       s.ExpiresAt,
	}
}

type createItemResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

type itemResponse struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Category         *string `json:"category"`
	DominantColor    string  `json:"dominant_color"`
	Description      *string `json:"description"`
	DistinctiveMarks *string `json:"distinctive_marks"`
	LocationFound    string  `json:"location_found"`
	DateFound        string  `json:"date_found"`
	Voivodeship      string  `json:"voivodeship"`
	ReportingEntity  string  `json:"reporting_entity"`
}

func newItemResponse(i *domain.FoundItem) itemResponse {
	return itemResponse{
		ID:               i.ID,
		Title:            i.Title,
		Category:         nullable(i.Category),
		DominantColor:    i.DominantColor,
		Description:      i.Description,
		DistinctiveMarks: i.DistinctiveMarks,
		LocationFound:    i.LocationFound,
		DateFound:        i.DateFound.Format(domain.DateLayout),
		Voivodeship:      i.Voivodeship,
		ReportingEntity:  i.ReportingEntity,
	}
}

type itemsResponse struct {
	Count int            `json:"count"`
	Items []itemResponse `json:"items"`
}

func newItemsResponse(items []*domain.FoundItem) itemsResponse {
	out := itemsResponse{Count: len(items), Items: make([]itemResponse, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, newItemResponse(it))
	}
	return out
}

// countedItemsPayload renders {count, items}; in XML the count is the first child of <items>.
func countedItemsPayload(items []*domain.FoundItem) render.Payload {
	p := render.Items("items", items, newItemsResponse(items))
	p.Fields = append([][2]string{{"count", strconv.Itoa(len(items))}}, p.Fields...)
	return p
}

// importPayload renders the import summary; in XML every stored id is its own <id> element.
func importPayload(res *feed.Result) render.Payload {
	fields := [][2]string{
		{"importedCount", strconv.Itoa(res.ImportedCount)},
		{"dialect", string(res.Dialect)},
	}
	for _, id := range res.IDs {
		fields = append(fields, [2]string{"id", id})
	}
	return render.Map("import", fields, res)
}

// writePayload negotiates the representation of p from the request's Accept header.
func (h *Handler) writePayload(w http.ResponseWriter, r *http.Request, status int, p render.Payload) {
	body, contentType, err := render.Render(p, r.Header.Get("Accept"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Vary", "Accept")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
