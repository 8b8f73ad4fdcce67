package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rentnest/internal/domain"
)

func (h *Handlers) pendingListings(w http.ResponseWriter, r *http.Request) {
	items, err := h.Admin.PendingListings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []domain.ListingView{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": items})
}

func (h *Handlers) setListingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a UUID")
		return
	}
	l, err := h.Admin.SetStatus(r.Context(), chi.URLParam(r, "action"), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handlers) analytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.Admin.Analytics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
