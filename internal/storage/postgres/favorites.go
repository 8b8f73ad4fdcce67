package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"rentnest/internal/domain"
)

func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FavoriteView, error) {
	rows, err := r.db.QueryContext(ctx, listFavoritesSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FavoriteView
	for rows.Next() {
		fv, err := scanFavoriteView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fv)
	}
	return out, rows.Err()
}

// favorite columns come first, then the joined listing + owner.
func scanFavoriteView(s rowScanner) (domain.FavoriteView, error) {
	var (
		fv       domain.FavoriteView
		lat, lon sql.NullFloat64
		phone    sql.NullString
	)
	lv := &fv.Listing
	err := s.Scan(
		&fv.ID, &fv.UserID, &fv.ListingID, &fv.CreatedAt,
		&lv.ID, &lv.OwnerID, &lv.Title, &lv.Description, &lv.Address, &lv.City,
		&lv.Rent, &lv.PropertyType, &lv.Occupancy, &lv.Furnished,
		&lat, &lon, &lv.Status, &lv.CreatedAt, &lv.UpdatedAt,
		&lv.Owner.Name, &lv.Owner.Email, &phone,
	)
	if err != nil {
		return domain.FavoriteView{}, err
	}
	lv.Coords = scanCoords(lat, lon)
	lv.Owner.Phone = nullStr(phone)
	return fv, nil
}

// Add inserts the (user, listing) pair. The target must exist and be
// verified; the unique index turns a duplicate add into ErrDuplicate.
func (r *FavoriteRepo) Add(ctx context.Context, userID, listingID uuid.UUID) (domain.Favorite, error) {
	var verified bool
	if err := r.db.QueryRowContext(ctx, listingVerifiedExistsSQL, listingID).Scan(&verified); err != nil {
		return domain.Favorite{}, err
	}
	if !verified {
		return domain.Favorite{}, fmt.Errorf("listing %s not found or not verified: %w", listingID, domain.ErrNotFound)
	}

	f := domain.Favorite{ID: uuid.New(), UserID: userID, ListingID: listingID}
	err := r.db.QueryRowContext(ctx, insertFavoriteSQL, f.ID, userID, listingID).Scan(&f.CreatedAt)
	if isUnique(err) {
		return domain.Favorite{}, fmt.Errorf("favorite: %w", domain.ErrDuplicate)
	}
	if err != nil {
		return domain.Favorite{}, err
	}
	return f, nil
}

// Remove is idempotent: deleting an absent pair is not an error.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, deleteFavoriteSQL, userID, listingID)
	return err
}
