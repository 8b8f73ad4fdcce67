package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"rentnest/internal/domain"
)

type searchResponse struct {
	Listings   []domain.ListingView `json:"listings"`
	Pagination pagination           `json:"pagination"`
}

type pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

func (h *Handlers) searchListings(w http.ResponseWriter, r *http.Request) {
	q, err := parseListingsQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := h.Listings.Search(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	items := page.Items
	if items == nil {
		items = []domain.ListingView{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Listings:   items,
		Pagination: pagination{Page: page.Page, Limit: page.Limit, HasMore: page.HasMore},
	})
}

func parseListingsQuery(r *http.Request) (domain.ListingsQuery, error) {
	var q domain.ListingsQuery
	vals := r.URL.Query()

	if s := vals.Get("location"); s != "" {
		q.Location = &s
	}
	if s := vals.Get("propertyType"); s != "" {
		q.PropertyType = &s
	}
	if s := vals.Get("occupancy"); s != "" {
		q.Occupancy = &s
	}
	if s := vals.Get("minPrice"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return q, errBadParam("minPrice")
		}
		q.MinRent = &n
	}
	if s := vals.Get("maxPrice"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return q, errBadParam("maxPrice")
		}
		q.MaxRent = &n
	}
	if s := vals.Get("furnished"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, errBadParam("furnished")
		}
		q.Furnished = &b
	}
	if s := vals.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, errBadParam("page")
		}
		q.Page = n
	}
	if s := vals.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, errBadParam("limit")
		}
		q.Limit = n
	}
	return q, nil
}

func errBadParam(name string) error {
	return fmt.Errorf("invalid query parameter %s: %w", name, domain.ErrInvalid)
}

// listingDetail joins the public listing view with its review summary.
type listingDetail struct {
	domain.ListingView
	Reviews       []domain.ReviewView `json:"reviews"`
	AverageRating float64             `json:"averageRating"`
	TotalReviews  int                 `json:"totalReviews"`
}

func (h *Handlers) getListing(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a UUID")
		return
	}
	lv, err := h.Listings.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
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
	writeWithETag(w, r, listingDetail{
		ListingView:   lv,
		Reviews:       sum.Reviews,
		AverageRating: sum.AverageRating,
		TotalReviews:  sum.TotalReviews,
	})
}

type listingInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Rent         int64  `json:"rent"`
	PropertyType string `json:"property_type"`
	Occupancy    string `json:"occupancy_preference"`
	Furnished    bool   `json:"furnished"`
}

func (h *Handlers) createListing(w http.ResponseWriter, r *http.Request) {
	var in listingInput
	if err := decodeJSON(r, &in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	l, err := h.Listings.Create(r.Context(), callerFrom(r.Context()), domain.NewListingInput{
		Title:        in.Title,
		Description:  in.Description,
		Address:      in.Address,
		City:         in.City,
		Rent:         in.Rent,
		PropertyType: in.PropertyType,
		Occupancy:    in.Occupancy,
		Furnished:    in.Furnished,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

type listingPatchInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	Rent         *int64  `json:"rent"`
	PropertyType *string `json:"property_type"`
	Occupancy    *string `json:"occupancy_preference"`
	Furnished    *bool   `json:"furnished"`
}

func (h *Handlers) updateListing(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a UUID")
		return
	}
	var in listingPatchInput
	if err := decodeJSON(r, &in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if in.Rent != nil && *in.Rent <= 0 {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "rent must be positive")
		return
	}
	l, err := h.Listings.Update(r.Context(), callerFrom(r.Context()), id, domain.ListingPatch{
		Title:        in.Title,
		Description:  in.Description,
		Address:      in.Address,
		City:         in.City,
		Rent:         in.Rent,
		PropertyType: in.PropertyType,
		Occupancy:    in.Occupancy,
		Furnished:    in.Furnished,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handlers) deleteListing(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(r, "id")
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a UUID")
		return
	}
	if err := h.Listings.Delete(r.Context(), callerFrom(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
