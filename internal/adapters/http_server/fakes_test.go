package httpserver_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"rentnest/internal/domain"
)

// In-memory ports backing the handler tests. The router is wired with
// the real services on top of these.

func uuidNew() string { return uuid.New().String() }

type memStore struct {
	listings map[uuid.UUID]domain.Listing
	owners   map[uuid.UUID]domain.OwnerContact
	users    map[uuid.UUID]domain.User
	favs     map[[2]uuid.UUID]domain.Favorite
	reviews  map[[2]uuid.UUID]domain.Review
	tokens   map[string]uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		listings: map[uuid.UUID]domain.Listing{},
		owners:   map[uuid.UUID]domain.OwnerContact{},
		users:    map[uuid.UUID]domain.User{},
		favs:     map[[2]uuid.UUID]domain.Favorite{},
		reviews:  map[[2]uuid.UUID]domain.Review{},
		tokens:   map[string]uuid.UUID{},
	}
}

func (m *memStore) addUser(role domain.Role, token string) domain.User {
	u := domain.User{ID: uuid.New(), Name: string(role) + " tester", Email: string(role) + "@example.com", Role: role}
	m.users[u.ID] = u
	m.owners[u.ID] = domain.OwnerContact{Name: u.Name, Email: u.Email}
	m.tokens[token] = u.ID
	return u
}

func (m *memStore) addListing(owner domain.User, status domain.ListingStatus, rent int64) domain.Listing {
	l := domain.Listing{
		ID:      uuid.New(),
		OwnerID: owner.ID,
		Title:   "flat", Address: "12 Main St", City: "Dhaka",
		Rent: rent, PropertyType: "apartment", Status: status,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.listings[l.ID] = l
	return l
}

func (m *memStore) view(l domain.Listing) domain.ListingView {
	return domain.ListingView{Listing: l, Owner: m.owners[l.OwnerID]}
}

// ---- domain.ListingRepository ----

type memListings struct{ *memStore }

func (m memListings) Search(ctx context.Context, q domain.ListingsQuery) (domain.ListingsPage, error) {
	var all []domain.Listing
	for _, l := range m.listings {
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
	items := make([]domain.ListingView, 0, len(all))
	for _, l := range all {
		items = append(items, m.view(l))
	}
	if len(items) > q.Limit {
		items = items[:q.Limit]
	}
	return domain.ListingsPage{Items: items, Page: q.Page, Limit: q.Limit, HasMore: len(items) == q.Limit}, nil
}

func (m memListings) GetVerified(ctx context.Context, id uuid.UUID) (domain.ListingView, error) {
	l, ok := m.listings[id]
	if !ok || l.Status != domain.StatusVerified {
		return domain.ListingView{}, domain.ErrNotFound
	}
	return m.view(l), nil
}

func (m memListings) GetOwnerID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	l, ok := m.listings[id]
	if !ok {
		return uuid.Nil, domain.ErrNotFound
	}
	return l.OwnerID, nil
}

func (m memListings) ListPending(ctx context.Context) ([]domain.ListingView, error) {
	var out []domain.ListingView
	for _, l := range m.listings {
		if l.Status == domain.StatusPending {
			out = append(out, m.view(l))
		}
	}
	return out, nil
}

func (m memListings) ListMissingCoords(ctx context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range m.listings {
		if l.Coords == nil {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m memListings) Create(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	m.listings[l.ID] = l
	return l, nil
}

func (m memListings) UpdateOwned(ctx context.Context, ownerID, id uuid.UUID, p domain.ListingPatch) (domain.Listing, error) {
	l, ok := m.listings[id]
	if !ok || l.OwnerID != ownerID {
		return domain.Listing{}, domain.ErrNotFound
	}
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Rent != nil {
		l.Rent = *p.Rent
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.Coords != nil {
		l.Coords = p.Coords
	}
	l.UpdatedAt = time.Now()
	m.listings[id] = l
	return l, nil
}

func (m memListings) DeleteOwned(ctx context.Context, ownerID, id uuid.UUID) error {
	l, ok := m.listings[id]
	if !ok || l.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(m.listings, id)
	return nil
}

func (m memListings) SetStatus(ctx context.Context, id uuid.UUID, s domain.ListingStatus) (domain.Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return domain.Listing{}, domain.ErrNotFound
	}
	l.Status = s
	m.listings[id] = l
	return l, nil
}

func (m memListings) SetCoords(ctx context.Context, id uuid.UUID, c domain.Coords) error {
	l, ok := m.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Coords = &c
	m.listings[id] = l
	return nil
}

// ---- domain.FavoriteRepository ----

type memFavorites struct{ *memStore }

func (m memFavorites) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FavoriteView, error) {
	var out []domain.FavoriteView
	for _, f := range m.favs {
		if f.UserID == userID {
			out = append(out, domain.FavoriteView{Favorite: f, Listing: m.view(m.listings[f.ListingID])})
		}
	}
	return out, nil
}

func (m memFavorites) Add(ctx context.Context, userID, listingID uuid.UUID) (domain.Favorite, error) {
	l, ok := m.listings[listingID]
	if !ok || l.Status != domain.StatusVerified {
		return domain.Favorite{}, domain.ErrNotFound
	}
	key := [2]uuid.UUID{userID, listingID}
	if _, dup := m.favs[key]; dup {
		return domain.Favorite{}, fmt.Errorf("favorite: %w", domain.ErrDuplicate)
	}
	f := domain.Favorite{ID: uuid.New(), UserID: userID, ListingID: listingID, CreatedAt: time.Now()}
	m.favs[key] = f
	return f, nil
}

func (m memFavorites) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	delete(m.favs, [2]uuid.UUID{userID, listingID})
	return nil
}

// ---- domain.ReviewRepository ----

type memReviews struct{ *memStore }

func (m memReviews) ListByListing(ctx context.Context, listingID uuid.UUID) ([]domain.ReviewView, error) {
	var out []domain.ReviewView
	for _, rv := range m.reviews {
		if rv.ListingID == listingID {
			out = append(out, domain.ReviewView{Review: rv, Author: m.users[rv.UserID].Name})
		}
	}
	return out, nil
}

func (m memReviews) ListingExists(ctx context.Context, listingID uuid.UUID) (bool, error) {
	_, ok := m.listings[listingID]
	return ok, nil
}

func (m memReviews) Create(ctx context.Context, rv domain.Review) (domain.ReviewView, error) {
	key := [2]uuid.UUID{rv.UserID, rv.ListingID}
	if _, dup := m.reviews[key]; dup {
		return domain.ReviewView{}, fmt.Errorf("review: %w", domain.ErrDuplicate)
	}
	rv.ID = uuid.New()
	rv.CreatedAt = time.Now()
	rv.UpdatedAt = rv.CreatedAt
	m.reviews[key] = rv
	return domain.ReviewView{Review: rv, Author: m.users[rv.UserID].Name}, nil
}

func (m memReviews) UpdateOwned(ctx context.Context, userID, listingID uuid.UUID, p domain.ReviewPatch) (domain.ReviewView, error) {
	key := [2]uuid.UUID{userID, listingID}
	rv, ok := m.reviews[key]
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
	m.reviews[key] = rv
	return domain.ReviewView{Review: rv, Author: m.users[userID].Name}, nil
}

func (m memReviews) DeleteOwned(ctx context.Context, userID, listingID uuid.UUID) error {
	delete(m.reviews, [2]uuid.UUID{userID, listingID})
	return nil
}

// ---- domain.AnalyticsRepository ----

type memAnalytics struct{ *memStore }

func (m memAnalytics) CountListings(ctx context.Context) (int64, error) {
	return int64(len(m.listings)), nil
}

func (m memAnalytics) CountPendingListings(ctx context.Context) (int64, error) {
	var n int64
	for _, l := range m.listings {
		if l.Status == domain.StatusPending {
			n++
		}
	}
	return n, nil
}

func (m memAnalytics) CountUsersByRole(ctx context.Context, r domain.Role) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Role == r {
			n++
		}
	}
	return n, nil
}

func (m memAnalytics) TopCities(ctx context.Context, n int) ([]domain.CityCount, error) {
	counts := map[string]int64{}
	for _, l := range m.listings {
		if l.Status == domain.StatusVerified {
			counts[l.City]++
		}
	}
	var out []domain.CityCount
	for c, cnt := range counts {
		out = append(out, domain.CityCount{City: c, Count: cnt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m memAnalytics) AverageRent(ctx context.Context) (float64, error) {
	var sum, n int64
	for _, l := range m.listings {
		if l.Status == domain.StatusVerified {
			sum += l.Rent
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

func (m memAnalytics) PropertyTypeCounts(ctx context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, l := range m.listings {
		if l.Status == domain.StatusVerified {
			out[l.PropertyType]++
		}
	}
	return out, nil
}

// ---- domain.IdentityProvider + domain.UserRepository ----

type memIdentity struct{ *memStore }

func (m memIdentity) SignUp(ctx context.Context, email, password string) (domain.Identity, error) {
	return domain.Identity{ID: uuid.New(), Email: email}, nil
}

func (m memIdentity) SignIn(ctx context.Context, email, password string) (domain.Identity, domain.Session, error) {
	if password == "wrong" {
		return domain.Identity{}, domain.Session{}, domain.ErrUnauthorized
	}
	for id, u := range m.users {
		if u.Email == email {
			return domain.Identity{ID: id, Email: email}, domain.Session{AccessToken: "session-" + email}, nil
		}
	}
	return domain.Identity{}, domain.Session{}, domain.ErrUnauthorized
}

func (m memIdentity) GetUser(ctx context.Context, token string) (domain.Identity, error) {
	id, ok := m.tokens[token]
	if !ok {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return domain.Identity{ID: id, Email: m.users[id].Email}, nil
}

type memUsers struct{ *memStore }

func (m memUsers) Create(ctx context.Context, u domain.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("user %s: %w", u.Email, domain.ErrDuplicate)
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m memUsers) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

// ---- cache and geocoder ----

// memCache is a pass-through; handler tests exercise the HTTP contract,
// not the cache adapter.
type memCache struct{}

func (memCache) Get(ctx context.Context, key string, dst any) (bool, error)   { return false, nil }
func (memCache) Set(ctx context.Context, key string, v any, ttlSec int) error { return nil }
func (memCache) Del(ctx context.Context, key string) error                    { return nil }

type memGeocoder struct{}

func (memGeocoder) Geocode(ctx context.Context, address string) (domain.Coords, error) {
	return domain.Coords{Lat: 23.8103, Lon: 90.4125}, nil
}
