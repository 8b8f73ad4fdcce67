package app

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rentnest/internal/domain"
)

// AdminService is the moderation and dashboard surface. Callers are
// role-gated at the HTTP layer; the service assumes an admin.
type AdminService struct {
	listings  domain.ListingRepository
	analytics domain.AnalyticsRepository
	cache     domain.Cache
}

func NewAdminService(l domain.ListingRepository, a domain.AnalyticsRepository, c domain.Cache) *AdminService {
	return &AdminService{listings: l, analytics: a, cache: c}
}

func (s *AdminService) PendingListings(ctx context.Context) ([]domain.ListingView, error) {
	return s.listings.ListPending(ctx)
}

// SetStatus maps a path action onto a target status. The graph only
// moves forward: nothing ever returns to pending. Last writer wins.
func (s *AdminService) SetStatus(ctx context.Context, action string, id uuid.UUID) (domain.Listing, error) {
	var status domain.ListingStatus
	switch action {
	case "verify":
		status = domain.StatusVerified
	case "block":
		status = domain.StatusBlocked
	default:
		return domain.Listing{}, fmt.Errorf("invalid action %q, use verify or block: %w", action, domain.ErrInvalid)
	}

	l, err := s.listings.SetStatus(ctx, id, status)
	if err != nil {
		return domain.Listing{}, err
	}
	// a blocked listing must drop out of the public detail read at once
	_ = s.cache.Del(ctx, listingCacheKey(id))
	return l, nil
}

// Analytics fans the aggregates out in parallel and assembles the
// report. Nothing here is cached.
func (s *AdminService) Analytics(ctx context.Context) (domain.AnalyticsReport, error) {
	var (
		report  domain.AnalyticsReport
		avgRent float64
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.Totals.Listings, err = s.analytics.CountListings(ctx)
		return
	})
	g.Go(func() (err error) {
		report.Totals.Users, err = s.analytics.CountUsersByRole(ctx, domain.RoleUser)
		return
	})
	g.Go(func() (err error) {
		report.Totals.Owners, err = s.analytics.CountUsersByRole(ctx, domain.RoleOwner)
		return
	})
	g.Go(func() (err error) {
		report.Totals.PendingListings, err = s.analytics.CountPendingListings(ctx)
		return
	})
	g.Go(func() (err error) {
		report.PopularCities, err = s.analytics.TopCities(ctx, 5)
		return
	})
	g.Go(func() (err error) {
		avgRent, err = s.analytics.AverageRent(ctx)
		return
	})
	g.Go(func() (err error) {
		report.PropertyTypeDistribution, err = s.analytics.PropertyTypeCounts(ctx)
		return
	})
	if err := g.Wait(); err != nil {
		return domain.AnalyticsReport{}, err
	}

	report.AverageRent = int64(math.Round(avgRent))
	if report.PopularCities == nil {
		report.PopularCities = []domain.CityCount{}
	}
	if report.PropertyTypeDistribution == nil {
		report.PropertyTypeDistribution = map[string]int64{}
	}
	return report, nil
}
