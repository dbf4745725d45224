package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"central-lost-found/backend/internal/config"
	"central-lost-found/backend/internal/render"
	sessiondomain "central-lost-found/backend/internal/session/domain"
)

func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// In session mode the token is checked before the body is read.
	var reporter sessiondomain.Identity
	if h.opts.AuthMode != config.AuthModeEmail {
		identity, err := h.auth.Authenticate(ctx, sessionToken(r))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		reporter = *identity
	}

	var req createItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if h.opts.AuthMode == config.AuthModeEmail {
		email := r.URL.Query().Get("email")
		if email == "" {
			email = req.Email
		}
		if email != "" {
			reporter = h.auth.IdentityFor(email)
		}
	}

	in, err := req.toNewItem()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	item, err := h.items.Create(ctx, reporter, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, createItemResponse{Status: "ok", ID: item.ID})
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, err := h.items.List(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writePayload(w, r, http.StatusOK, countedItemsPayload(items))
}

func (h *Handler) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writePayload(w, r, http.StatusOK, countedItemsPayload(items))
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writePayload(w, r, http.StatusOK, render.Item("item", item, newItemResponse(item)))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.Export(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writePayload(w, r, http.StatusOK, render.Items("items", items, newItemsResponse(items)))
}
