package postgres

import (
	"context"

	"rentnest/internal/domain"
)

func (r *AnalyticsRepo) CountListings(ctx context.Context) (int64, error) {
	return r.count(ctx, countListingsSQL)
}

func (r *AnalyticsRepo) CountPendingListings(ctx context.Context) (int64, error) {
	return r.count(ctx, countPendingListingsSQL)
}

func (r *AnalyticsRepo) CountUsersByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, countUsersByRoleSQL, role).Scan(&n)
	return n, err
}

func (r *AnalyticsRepo) count(ctx context.Context, query string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}

func (r *AnalyticsRepo) TopCities(ctx context.Context, n int) ([]domain.CityCount, error) {
	rows, err := r.db.QueryContext(ctx, topCitiesSQL, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CityCount
	for rows.Next() {
		var cc domain.CityCount
		if err := rows.Scan(&cc.City, &cc.Count); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) AverageRent(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.QueryRowContext(ctx, averageRentSQL).Scan(&avg)
	return avg, err
}

func (r *AnalyticsRepo) PropertyTypeCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, propertyTypeCountsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var (
			pt string
			n  int64
		)
		if err := rows.Scan(&pt, &n); err != nil {
			return nil, err
		}
		out[pt] = n
	}
	return out, rows.Err()
}
