package app

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"rentnest/internal/domain"
)

type ReviewService struct {
	reviews domain.ReviewRepository
}

func NewReviewService(r domain.ReviewRepository) *ReviewService {
	return &ReviewService{reviews: r}
}

// ListForListing returns the reviews plus the derived average, rounded
// to one decimal. The average is never persisted.
func (s *ReviewService) ListForListing(ctx context.Context, listingID uuid.UUID) (domain.ReviewsSummary, error) {
	rs, err := s.reviews.ListByListing(ctx, listingID)
	if err != nil {
		return domain.ReviewsSummary{}, err
	}
	out := domain.ReviewsSummary{Reviews: rs, TotalReviews: len(rs)}
	if len(rs) > 0 {
		var sum int
		for _, rv := range rs {
			sum += rv.Rating
		}
		avg := float64(sum) / float64(len(rs))
		out.AverageRating = math.Round(avg*10) / 10
	}
	return out, nil
}

// Create requires the listing to exist; verification status is not
// checked, a pending listing can already collect reviews.
func (s *ReviewService) Create(ctx context.Context, userID, listingID uuid.UUID, rating int, comment *string) (domain.ReviewView, error) {
	if !domain.RatingInRange(rating) {
		return domain.ReviewView{}, fmt.Errorf("rating must be between 1 and 5: %w", domain.ErrInvalid)
	}
	ok, err := s.reviews.ListingExists(ctx, listingID)
	if err != nil {
		return domain.ReviewView{}, err
	}
	if !ok {
		return domain.ReviewView{}, fmt.Errorf("listing %s: %w", listingID, domain.ErrNotFound)
	}
	return s.reviews.Create(ctx, domain.Review{
		UserID:    userID,
		ListingID: listingID,
		Rating:    rating,
		Comment:   comment,
	})
}

func (s *ReviewService) Update(ctx context.Context, userID, listingID uuid.UUID, p domain.ReviewPatch) (domain.ReviewView, error) {
	if p.Rating != nil && !domain.RatingInRange(*p.Rating) {
		return domain.ReviewView{}, fmt.Errorf("rating must be between 1 and 5: %w", domain.ErrInvalid)
	}
	return s.reviews.UpdateOwned(ctx, userID, listingID, p)
}

// Delete is idempotent; the repository treats an absent row as success.
func (s *ReviewService) Delete(ctx context.Context, userID, listingID uuid.UUID) error {
	return s.reviews.DeleteOwned(ctx, userID, listingID)
}
