package httpserver

import (
	"net/http"

	"rentnest/internal/domain"
)

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(r, "listingID")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "listingID must be a UUID")
		return
	}
	sum, err := h.Reviews.ListForListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if sum.Reviews == nil {
		sum.Reviews = []domain.ReviewView{}
	}
	writeWithETag(w, r, sum)
}

type reviewInput struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(r, "listingID")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "listingID must be a UUID")
		return
	}
	var in reviewInput
	if err := decodeJSON(r, &in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	rv, err := h.Reviews.Create(r.Context(), callerFrom(r.Context()).ID, id, in.Rating, in.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

type reviewPatchInput struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *Handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(r, "listingID")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "listingID must be a UUID")
		return
	}
	var in reviewPatchInput
	if err := decodeJSON(r, &in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	rv, err := h.Reviews.Update(r.Context(), callerFrom(r.Context()).ID, id, domain.ReviewPatch{
		Rating:  in.Rating,
		Comment: in.Comment,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(r, "listingID")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "listingID must be a UUID")
		return
	}
	if err := h.Reviews.Delete(r.Context(), callerFrom(r.Context()).ID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
