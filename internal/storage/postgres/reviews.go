package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"rentnest/internal/domain"
)

func scanReviewView(s rowScanner) (domain.ReviewView, error) {
	var (
		rv      domain.ReviewView
		comment sql.NullString
	)
	err := s.Scan(
		&rv.ID, &rv.UserID, &rv.ListingID, &rv.Rating, &comment,
		&rv.CreatedAt, &rv.UpdatedAt, &rv.Author,
	)
	if err != nil {
		return domain.ReviewView{}, err
	}
	rv.Comment = nullStr(comment)
	return rv, nil
}

func (r *ReviewRepo) ListByListing(ctx context.Context, listingID uuid.UUID) ([]domain.ReviewView, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReviewView
	for rows.Next() {
		rv, err := scanReviewView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *ReviewRepo) ListingExists(ctx context.Context, listingID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, listingExistsSQL, listingID).Scan(&ok)
	return ok, err
}

// Create inserts a review; the unique (user, listing) index turns a
// second review from the same user into ErrDuplicate.
func (r *ReviewRepo) Create(ctx context.Context, rv domain.Review) (domain.ReviewView, error) {
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	err := r.db.QueryRowContext(ctx, insertReviewSQL,
		rv.ID, rv.UserID, rv.ListingID, rv.Rating, valStr(rv.Comment),
	).Scan(&rv.CreatedAt, &rv.UpdatedAt)
	if isUnique(err) {
		return domain.ReviewView{}, fmt.Errorf("review: %w", domain.ErrDuplicate)
	}
	if err != nil {
		return domain.ReviewView{}, err
	}
	return r.withAuthor(ctx, rv)
}

// UpdateOwned patches the caller's review of a listing. A nil Comment
// leaves the comment alone; a non-nil one overwrites it, empty string
// included.
func (r *ReviewRepo) UpdateOwned(ctx context.Context, userID, listingID uuid.UUID, p domain.ReviewPatch) (domain.ReviewView, error) {
	set := []string{"updated_at = now()"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if p.Rating != nil {
		set = append(set, "rating = "+arg(*p.Rating))
	}
	if p.Comment != nil {
		set = append(set, "comment = "+arg(*p.Comment))
	}

	query := `UPDATE reviews SET ` + strings.Join(set, ", ") +
		` WHERE user_id = ` + arg(userID) + ` AND listing_id = ` + arg(listingID) +
		` RETURNING id, user_id, listing_id, rating, comment, created_at, updated_at`

	var (
		rv      domain.Review
		comment sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&rv.ID, &rv.UserID, &rv.ListingID, &rv.Rating, &comment, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.ReviewView{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ReviewView{}, err
	}
	rv.Comment = nullStr(comment)
	return r.withAuthor(ctx, rv)
}

// DeleteOwned is idempotent: deleting an absent review is not an error.
func (r *ReviewRepo) DeleteOwned(ctx context.Context, userID, listingID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, deleteOwnedReviewSQL, userID, listingID)
	return err
}

func (r *ReviewRepo) withAuthor(ctx context.Context, rv domain.Review) (domain.ReviewView, error) {
	out := domain.ReviewView{Review: rv}
	if err := r.db.QueryRowContext(ctx, reviewAuthorSQL, rv.UserID).Scan(&out.Author); err != nil {
		return domain.ReviewView{}, err
	}
	return out, nil
}
