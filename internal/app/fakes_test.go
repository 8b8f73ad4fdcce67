package app_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"rentnest/internal/domain"
)

// ---- in-memory fakes shared by the service tests ----

func ptr[T any](v T) *T { return &v }

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if d, ok2 := dst.(*domain.ListingView); ok2 {
		*d = v.(domain.ListingView)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

// fakeGeocoder returns fixed coordinates, or an error when broken.
type fakeGeocoder struct {
	coords domain.Coords
	err    error
	calls  int
}

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (domain.Coords, error) {
	g.calls++
	if g.err != nil {
		return domain.Coords{}, g.err
	}
	return g.coords, nil
}

// fakeListingRepo keeps listings in a map and mimics the repository's
// ownership scoping and status filtering.
type fakeListingRepo struct {
	listings map[uuid.UUID]domain.Listing
	owners   map[uuid.UUID]domain.OwnerContact
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		listings: map[uuid.UUID]domain.Listing{},
		owners:   map[uuid.UUID]domain.OwnerContact{},
	}
}

func (f *fakeListingRepo) view(l domain.Listing) domain.ListingView {
	return domain.ListingView{Listing: l, Owner: f.owners[l.OwnerID]}
}

func (f *fakeListingRepo) Search(ctx context.Context, q domain.ListingsQuery) (domain.ListingsPage, error) {
	var all []domain.Listing
	for _, l := range f.listings {
		if l.Status != domain.StatusVerified {
			continue
		}
		if q.MinRent != nil && l.Rent < *q.MinRent {
			continue
		}
		if q.MaxRent != nil && l.Rent > *q.MaxRent {
			continue
		}
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := (q.Page - 1) * q.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	items := make([]domain.ListingView, 0, end-start)
	for _, l := range all[start:end] {
		items = append(items, f.view(l))
	}
	return domain.ListingsPage{Items: items, Page: q.Page, Limit: q.Limit, HasMore: len(items) == q.Limit}, nil
}

func (f *fakeListingRepo) GetVerified(ctx context.Context, id uuid.UUID) (domain.ListingView, error) {
	l, ok := f.listings[id]
	if !ok || l.Status != domain.StatusVerified {
		return domain.ListingView{}, domain.ErrNotFound
	}
	return f.view(l), nil
}

func (f *fakeListingRepo) GetOwnerID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	l, ok := f.listings[id]
	if !ok {
		return uuid.Nil, domain.ErrNotFound
	}
	return l.OwnerID, nil
}

func (f *fakeListingRepo) ListPending(ctx context.Context) ([]domain.ListingView, error) {
	var out []domain.ListingView
	for _, l := range f.listings {
		if l.Status == domain.StatusPending {
			out = append(out, f.view(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeListingRepo) ListMissingCoords(ctx context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range f.listings {
		if l.Coords == nil {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) Create(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	f.listings[l.ID] = l
	return l, nil
}

func (f *fakeListingRepo) UpdateOwned(ctx context.Context, ownerID, id uuid.UUID, p domain.ListingPatch) (domain.Listing, error) {
	l, ok := f.listings[id]
	if !ok || l.OwnerID != ownerID {
		return domain.Listing{}, domain.ErrNotFound
	}
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.City != nil {
		l.City = *p.City
	}
	if p.Rent != nil {
		l.Rent = *p.Rent
	}
	if p.Coords != nil {
		l.Coords = p.Coords
	}
	l.UpdatedAt = time.Now()
	f.listings[id] = l
	return l, nil
}

func (f *fakeListingRepo) DeleteOwned(ctx context.Context, ownerID, id uuid.UUID) error {
	l, ok := f.listings[id]
	if !ok || l.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(f.listings, id)
	return nil
}

func (f *fakeListingRepo) SetStatus(ctx context.Context, id uuid.UUID, s domain.ListingStatus) (domain.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return domain.Listing{}, domain.ErrNotFound
	}
	l.Status = s
	f.listings[id] = l
	return l, nil
}

func (f *fakeListingRepo) SetCoords(ctx context.Context, id uuid.UUID, c domain.Coords) error {
	l, ok := f.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Coords = &c
	f.listings[id] = l
	return nil
}

// fakeFavoriteRepo enforces the unique pair and the verified-target rule
// the same way the unique index and pre-check do.
type fakeFavoriteRepo struct {
	listings *fakeListingRepo
	pairs    map[[2]uuid.UUID]domain.Favorite
}

func newFakeFavoriteRepo(l *fakeListingRepo) *fakeFavoriteRepo {
	return &fakeFavoriteRepo{listings: l, pairs: map[[2]uuid.UUID]domain.Favorite{}}
}

func (f *fakeFavoriteRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FavoriteView, error) {
	var out []domain.FavoriteView
	for _, fav := range f.pairs {
		if fav.UserID != userID {
			continue
		}
		l := f.listings.listings[fav.ListingID]
		out = append(out, domain.FavoriteView{Favorite: fav, Listing: f.listings.view(l)})
	}
	return out, nil
}

func (f *fakeFavoriteRepo) Add(ctx context.Context, userID, listingID uuid.UUID) (domain.Favorite, error) {
	l, ok := f.listings.listings[listingID]
	if !ok || l.Status != domain.StatusVerified {
		return domain.Favorite{}, domain.ErrNotFound
	}
	key := [2]uuid.UUID{userID, listingID}
	if _, dup := f.pairs[key]; dup {
		return domain.Favorite{}, fmt.Errorf("favorite: %w", domain.ErrDuplicate)
	}
	fav := domain.Favorite{ID: uuid.New(), UserID: userID, ListingID: listingID, CreatedAt: time.Now()}
	f.pairs[key] = fav
	return fav, nil
}

func (f *fakeFavoriteRepo) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	delete(f.pairs, [2]uuid.UUID{userID, listingID})
	return nil
}

// fakeReviewRepo mirrors the (user, listing) uniqueness rule.
type fakeReviewRepo struct {
	listings *fakeListingRepo
	authors  map[uuid.UUID]string
	reviews  map[[2]uuid.UUID]domain.Review
}

func newFakeReviewRepo(l *fakeListingRepo) *fakeReviewRepo {
	return &fakeReviewRepo{
		listings: l,
		authors:  map[uuid.UUID]string{},
		reviews:  map[[2]uuid.UUID]domain.Review{},
	}
}

func (f *fakeReviewRepo) ListByListing(ctx context.Context, listingID uuid.UUID) ([]domain.ReviewView, error) {
	var out []domain.ReviewView
	for _, rv := range f.reviews {
		if rv.ListingID == listingID {
			out = append(out, domain.ReviewView{Review: rv, Author: f.authors[rv.UserID]})
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) ListingExists(ctx context.Context, listingID uuid.UUID) (bool, error) {
	_, ok := f.listings.listings[listingID]
	return ok, nil
}

func (f *fakeReviewRepo) Create(ctx context.Context, rv domain.Review) (domain.ReviewView, error) {
	key := [2]uuid.UUID{rv.UserID, rv.ListingID}
	if _, dup := f.reviews[key]; dup {
		return domain.ReviewView{}, fmt.Errorf("review: %w", domain.ErrDuplicate)
	}
	rv.ID = uuid.New()
	rv.CreatedAt = time.Now()
	rv.UpdatedAt = rv.CreatedAt
	f.reviews[key] = rv
	return domain.ReviewView{Review: rv, Author: f.authors[rv.UserID]}, nil
}

func (f *fakeReviewRepo) UpdateOwned(ctx context.Context, userID, listingID uuid.UUID, p domain.ReviewPatch) (domain.ReviewView, error) {
	key := [2]uuid.UUID{userID, listingID}
	rv, ok := f.reviews[key]
	if !ok {
		return domain.ReviewView{}, domain.ErrNotFound
	}
	if p.Rating != nil {
		rv.Rating = *p.Rating
	}
	if p.Comment != nil {
		rv.Comment = p.Comment
	}
	rv.UpdatedAt = time.Now()
	f.reviews[key] = rv
	return domain.ReviewView{Review: rv, Author: f.authors[userID]}, nil
}

func (f *fakeReviewRepo) DeleteOwned(ctx context.Context, userID, listingID uuid.UUID) error {
	delete(f.reviews, [2]uuid.UUID{userID, listingID})
	return nil
}

// fakeAnalyticsRepo serves canned aggregates.
type fakeAnalyticsRepo struct {
	listings, pending, users, owners int64
	cities                           []domain.CityCount
	avgRent                          float64
	types                            map[string]int64
}

func (f *fakeAnalyticsRepo) CountListings(ctx context.Context) (int64, error) { return f.listings, nil }
func (f *fakeAnalyticsRepo) CountPendingListings(ctx context.Context) (int64, error) {
	return f.pending, nil
}
func (f *fakeAnalyticsRepo) CountUsersByRole(ctx context.Context, r domain.Role) (int64, error) {
	if r == domain.RoleOwner {
		return f.owners, nil
	}
	return f.users, nil
}
func (f *fakeAnalyticsRepo) TopCities(ctx context.Context, n int) ([]domain.CityCount, error) {
	if len(f.cities) > n {
		return f.cities[:n], nil
	}
	return f.cities, nil
}
func (f *fakeAnalyticsRepo) AverageRent(ctx context.Context) (float64, error) { return f.avgRent, nil }
func (f *fakeAnalyticsRepo) PropertyTypeCounts(ctx context.Context) (map[string]int64, error) {
	return f.types, nil
}

// fakeIdentity is a canned identity provider.
type fakeIdentity struct {
	id     domain.Identity
	sess   domain.Session
	err    error
	tokens map[string]domain.Identity
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string) (domain.Identity, error) {
	if f.err != nil {
		return domain.Identity{}, f.err
	}
	return f.id, nil
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (domain.Identity, domain.Session, error) {
	if f.err != nil {
		return domain.Identity{}, domain.Session{}, f.err
	}
	return f.id, f.sess, nil
}

func (f *fakeIdentity) GetUser(ctx context.Context, token string) (domain.Identity, error) {
	if f.err != nil {
		return domain.Identity{}, f.err
	}
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return domain.Identity{}, domain.ErrUnauthorized
}

// fakeUserRepo stores users by id.
type fakeUserRepo struct {
	users map[uuid.UUID]domain.User
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{users: map[uuid.UUID]domain.User{}} }

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return fmt.Errorf("user %s: %w", u.Email, domain.ErrDuplicate)
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}
