package httpserver

import (
	"net/http"

	"rentnest/internal/domain"
)

func (h *Handlers) listFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.Favorites.List(r.Context(), callerFrom(r.Context()).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if favs == nil {
		favs = []domain.FavoriteView{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"favorites": favs})
}

func (h *Handlers) addFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(r, "listingID")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "listingID must be a UUID")
		return
	}
	fav, err := h.Favorites.Add(r.Context(), callerFrom(r.Context()).ID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

func (h *Handlers) removeFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(r, "listingID")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "listingID must be a UUID")
		return
	}
	// idempotent: removing an absent pair is still a 200
	if err := h.Favorites.Remove(r.Context(), callerFrom(r.Context()).ID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
