package domain

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ListingID uuid.UUID `json:"listing_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewView is a review joined with the reviewer's display name.
type ReviewView struct {
	Review
	Author string `json:"author"`
}

// ReviewsSummary is the read model for a listing's review section.
// AverageRating is derived at read time, rounded to one decimal.
type ReviewsSummary struct {
	Reviews       []ReviewView `json:"reviews"`
	AverageRating float64      `json:"averageRating"`
	TotalReviews  int          `json:"totalReviews"`
}

// ReviewPatch is a partial update. A non-nil empty Comment clears the
// comment; a nil Comment leaves it unchanged.
type ReviewPatch struct {
	Rating  *int
	Comment *string
}

// RatingInRange reports whether r is a valid rating value.
func RatingInRange(r int) bool { return r >= 1 && r <= 5 }
