package domain

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ListingID uuid.UUID `json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteView is a favorite joined with its listing and the listing
// owner's contact info.
type FavoriteView struct {
	Favorite
	Listing ListingView `json:"listing"`
}
