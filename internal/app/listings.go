package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"rentnest/internal/domain"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// ListingService covers the public query path and the owner-scoped
// mutation path. Geocoding is best-effort: a dead geocoder never fails
// a write, it just leaves coordinates empty.
type ListingService struct {
	repo     domain.ListingRepository
	geo      domain.Geocoder
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewListingService(r domain.ListingRepository, g domain.Geocoder, c domain.Cache, ttl time.Duration) *ListingService {
	return &ListingService{repo: r, geo: g, cache: c, cacheTTL: ttl}
}

func listingCacheKey(id uuid.UUID) string { return "listing:" + id.String() }

func (s *ListingService) Search(ctx context.Context, q domain.ListingsQuery) (domain.ListingsPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	return s.repo.Search(ctx, q)
}

// Get returns a verified listing. Pending and blocked listings are not
// found here, owner or not.
func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (domain.ListingView, error) {
	key := listingCacheKey(id)
	var lv domain.ListingView
	if ok, _ := s.cache.Get(ctx, key, &lv); ok {
		return lv, nil
	}
	lv, err := s.repo.GetVerified(ctx, id)
	if err != nil {
		return domain.ListingView{}, err
	}
	_ = s.cache.Set(ctx, key, lv, int(s.cacheTTL.Seconds()))
	return lv, nil
}

func (s *ListingService) Create(ctx context.Context, caller domain.User, in domain.NewListingInput) (domain.Listing, error) {
	if !domain.Allow(caller.Role, domain.ActionCreateListing, false) {
		return domain.Listing{}, fmt.Errorf("only owners can create listings: %w", domain.ErrForbidden)
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Address) == "" || strings.TrimSpace(in.City) == "" {
		return domain.Listing{}, fmt.Errorf("title, address, and city are required: %w", domain.ErrInvalid)
	}
	if in.Rent <= 0 {
		return domain.Listing{}, fmt.Errorf("rent must be positive: %w", domain.ErrInvalid)
	}

	l := domain.Listing{
		ID:           uuid.New(),
		OwnerID:      caller.ID, // never taken from the payload
		Title:        in.Title,
		Description:  in.Description,
		Address:      in.Address,
		City:         in.City,
		Rent:         in.Rent,
		PropertyType: in.PropertyType,
		Occupancy:    in.Occupancy,
		Furnished:    in.Furnished,
		Status:       domain.StatusPending, // admin verification gate
		Coords:       s.geocode(ctx, in.Address),
	}
	return s.repo.Create(ctx, l)
}

// Update patches the caller's own listing. Admins get no special path
// here: the scope is ownership, full stop. The policy check runs before
// any geocoding so a denied caller never spends a provider call.
func (s *ListingService) Update(ctx context.Context, caller domain.User, id uuid.UUID, p domain.ListingPatch) (domain.Listing, error) {
	if err := s.authorizeOwned(ctx, caller, domain.ActionEditListing, id); err != nil {
		return domain.Listing{}, err
	}
	if p.Address != nil {
		p.Coords = s.geocode(ctx, *p.Address)
	}
	l, err := s.repo.UpdateOwned(ctx, caller.ID, id, p)
	if err != nil {
		return domain.Listing{}, err
	}
	_ = s.cache.Del(ctx, listingCacheKey(id))
	return l, nil
}

func (s *ListingService) Delete(ctx context.Context, caller domain.User, id uuid.UUID) error {
	if err := s.authorizeOwned(ctx, caller, domain.ActionDeleteListing, id); err != nil {
		return err
	}
	if err := s.repo.DeleteOwned(ctx, caller.ID, id); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, listingCacheKey(id))
	return nil
}

// authorizeOwned resolves who owns the listing and runs the policy
// check. A denial reads as not-found so the response never confirms
// that someone else's listing exists. The owner-scoped SQL behind the
// actual write keeps this safe against a concurrent owner change.
func (s *ListingService) authorizeOwned(ctx context.Context, caller domain.User, action domain.Action, id uuid.UUID) error {
	ownerID, err := s.repo.GetOwnerID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.Allow(caller.Role, action, ownerID == caller.ID) {
		return fmt.Errorf("listing %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// geocode swallows every failure: logged, never surfaced.
func (s *ListingService) geocode(ctx context.Context, address string) *domain.Coords {
	if s.geo == nil || strings.TrimSpace(address) == "" {
		return nil
	}
	c, err := s.geo.Geocode(ctx, address)
	if err != nil {
		log.Warn().Err(err).Str("address", address).Msg("geocoding failed; leaving coordinates empty")
		return nil
	}
	return &c
}
