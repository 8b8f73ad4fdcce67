package domain

import (
	"time"

	"github.com/google/uuid"
)

type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusVerified ListingStatus = "verified"
	StatusBlocked  ListingStatus = "blocked"
)

type Listing struct {
	ID           uuid.UUID     `json:"id"`
	OwnerID      uuid.UUID     `json:"owner_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Address      string        `json:"address"`
	City         string        `json:"city"`
	Rent         int64         `json:"rent"`
	PropertyType string        `json:"property_type"`
	Occupancy    string        `json:"occupancy_preference"`
	Furnished    bool          `json:"furnished"`
	Coords       *Coords       `json:"coords,omitempty"`
	Status       ListingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ListingView is a listing joined with its owner's contact summary.
type ListingView struct {
	Listing
	Owner OwnerContact `json:"owner"`
}

// NewListingInput carries the caller-supplied fields of a create request.
// Status and owner are never taken from the client.
type NewListingInput struct {
	Title        string
	Description  string
	Address      string
	City         string
	Rent         int64
	PropertyType string
	Occupancy    string
	Furnished    bool
}

// ListingPatch is a partial update; nil fields are left unchanged.
type ListingPatch struct {
	Title        *string
	Description  *string
	Address      *string
	City         *string
	Rent         *int64
	PropertyType *string
	Occupancy    *string
	Furnished    *bool
	Coords       *Coords
}

// ListingsQuery holds the public search filters. Nil means "not filtered".
type ListingsQuery struct {
	Location     *string // case-insensitive substring over city or address
	MinRent      *int64
	MaxRent      *int64
	PropertyType *string
	Occupancy    *string
	Furnished    *bool
	Page         int
	Limit        int
}

type ListingsPage struct {
	Items   []ListingView `json:"listings"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
	HasMore bool          `json:"hasMore"`
}
