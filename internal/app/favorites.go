package app

import (
	"context"

	"github.com/google/uuid"

	"rentnest/internal/domain"
)

type FavoriteService struct {
	favs domain.FavoriteRepository
}

func NewFavoriteService(f domain.FavoriteRepository) *FavoriteService {
	return &FavoriteService{favs: f}
}

func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]domain.FavoriteView, error) {
	return s.favs.ListByUser(ctx, userID)
}

// Add favorites a verified listing. The repository reports a missing or
// unverified target as ErrNotFound and a duplicate pair as ErrDuplicate.
func (s *FavoriteService) Add(ctx context.Context, userID, listingID uuid.UUID) (domain.Favorite, error) {
	return s.favs.Add(ctx, userID, listingID)
}

// Remove is idempotent; removing a pair that was never added succeeds.
func (s *FavoriteService) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	return s.favs.Remove(ctx, userID, listingID)
}
