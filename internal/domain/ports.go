package domain

import (
	"context"

	"github.com/google/uuid"
)

type ListingRepository interface {
	// Read paths
	Search(ctx context.Context, q ListingsQuery) (ListingsPage, error)
	GetVerified(ctx context.Context, id uuid.UUID) (ListingView, error)
	GetOwnerID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	ListPending(ctx context.Context) ([]ListingView, error)
	ListMissingCoords(ctx context.Context) ([]Listing, error)

	// Write paths
	Create(ctx context.Context, l Listing) (Listing, error)
	UpdateOwned(ctx context.Context, ownerID, id uuid.UUID, p ListingPatch) (Listing, error)
	DeleteOwned(ctx context.Context, ownerID, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, s ListingStatus) (Listing, error)
	SetCoords(ctx context.Context, id uuid.UUID, c Coords) error
}

type UserRepository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
}

type FavoriteRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]FavoriteView, error)
	Add(ctx context.Context, userID, listingID uuid.UUID) (Favorite, error)
	Remove(ctx context.Context, userID, listingID uuid.UUID) error
}

type ReviewRepository interface {
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]ReviewView, error)
	Create(ctx context.Context, rv Review) (ReviewView, error)
	UpdateOwned(ctx context.Context, userID, listingID uuid.UUID, p ReviewPatch) (ReviewView, error)
	DeleteOwned(ctx context.Context, userID, listingID uuid.UUID) error
	ListingExists(ctx context.Context, listingID uuid.UUID) (bool, error)
}

type AnalyticsRepository interface {
	CountListings(ctx context.Context) (int64, error)
	CountPendingListings(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, r Role) (int64, error)
	TopCities(ctx context.Context, n int) ([]CityCount, error)
	AverageRent(ctx context.Context) (float64, error)
	PropertyTypeCounts(ctx context.Context) (map[string]int64, error)
}

type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// AnalyticsReport is the admin dashboard read model, assembled fresh on
// every request.
type AnalyticsReport struct {
	Totals struct {
		Listings        int64 `json:"listings"`
		Users           int64 `json:"users"`
		Owners          int64 `json:"owners"`
		PendingListings int64 `json:"pendingListings"`
	} `json:"totals"`
	PopularCities            []CityCount      `json:"popularCities"`
	AverageRent              int64            `json:"averageRent"`
	PropertyTypeDistribution map[string]int64 `json:"propertyTypeDistribution"`
}

// Identity is the provider-side account behind a bearer token.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// Session is what the provider returns on a successful password grant.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// IdentityProvider is the hosted auth service. Tokens are opaque here;
// the provider owns their format and lifetime.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignIn(ctx context.Context, email, password string) (Identity, Session, error)
	GetUser(ctx context.Context, token string) (Identity, error)
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coords, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
