package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"rentnest/internal/domain"
)

// One small repo per aggregate, all over the same *sql.DB.
type ListingRepo struct{ db *sql.DB }
type UserRepo struct{ db *sql.DB }
type FavoriteRepo struct{ db *sql.DB }
type ReviewRepo struct{ db *sql.DB }
type AnalyticsRepo struct{ db *sql.DB }

func NewListingRepo(db *sql.DB) *ListingRepo     { return &ListingRepo{db: db} }
func NewUserRepo(db *sql.DB) *UserRepo           { return &UserRepo{db: db} }
func NewFavoriteRepo(db *sql.DB) *FavoriteRepo   { return &FavoriteRepo{db: db} }
func NewReviewRepo(db *sql.DB) *ReviewRepo       { return &ReviewRepo{db: db} }
func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// isUnique reports a Postgres unique-constraint violation (SQLSTATE 23505).
// The unique indexes on favorites and reviews are the only concurrency
// guard for duplicate inserts, so this is where 409s come from.
func isUnique(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func coordsArgs(c *domain.Coords) (any, any) {
	if c == nil {
		return nil, nil
	}
	return c.Lat, c.Lon
}

func scanCoords(lat, lon sql.NullFloat64) *domain.Coords {
	if lat.Valid && lon.Valid {
		return &domain.Coords{Lat: lat.Float64, Lon: lon.Float64}
	}
	return nil
}
