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

func scanListingView(s rowScanner) (domain.ListingView, error) {
	var (
		lv       domain.ListingView
		lat, lon sql.NullFloat64
		phone    sql.NullString
	)
	err := s.Scan(
		&lv.ID, &lv.OwnerID, &lv.Title, &lv.Description, &lv.Address, &lv.City,
		&lv.Rent, &lv.PropertyType, &lv.Occupancy, &lv.Furnished,
		&lat, &lon, &lv.Status, &lv.CreatedAt, &lv.UpdatedAt,
		&lv.Owner.Name, &lv.Owner.Email, &phone,
	)
	if err != nil {
		return domain.ListingView{}, err
	}
	lv.Coords = scanCoords(lat, lon)
	lv.Owner.Phone = nullStr(phone)
	return lv, nil
}

func scanListing(s rowScanner) (domain.Listing, error) {
	var (
		l        domain.Listing
		lat, lon sql.NullFloat64
	)
	err := s.Scan(
		&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Address, &l.City,
		&l.Rent, &l.PropertyType, &l.Occupancy, &l.Furnished,
		&lat, &lon, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return domain.Listing{}, err
	}
	l.Coords = scanCoords(lat, lon)
	return l, nil
}

// Search runs the public filtered read. Only verified listings are
// eligible; filters are ANDed and pagination is plain LIMIT/OFFSET.
func (r *ListingRepo) Search(ctx context.Context, q domain.ListingsQuery) (domain.ListingsPage, error) {
	where := []string{"l.status = 'verified'"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.Location != nil {
		p := arg("%" + *q.Location + "%")
		where = append(where, fmt.Sprintf("(l.city ILIKE %s OR l.address ILIKE %s)", p, p))
	}
	if q.MinRent != nil {
		where = append(where, "l.rent >= "+arg(*q.MinRent))
	}
	if q.MaxRent != nil {
		where = append(where, "l.rent <= "+arg(*q.MaxRent))
	}
	if q.PropertyType != nil {
		where = append(where, "l.property_type = "+arg(*q.PropertyType))
	}
	if q.Occupancy != nil {
		where = append(where, "l.occupancy_preference = "+arg(*q.Occupancy))
	}
	if q.Furnished != nil {
		where = append(where, "l.furnished = "+arg(*q.Furnished))
	}

	offset := (q.Page - 1) * q.Limit
	query := `SELECT` + listingCols + `,
  ` + ownerCols + `
FROM listings l
JOIN users u ON u.id = l.owner_id
WHERE ` + strings.Join(where, " AND ") + `
ORDER BY l.created_at DESC, l.id DESC
LIMIT ` + arg(q.Limit) + ` OFFSET ` + arg(offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.ListingsPage{}, err
	}
	defer rows.Close()

	var items []domain.ListingView
	for rows.Next() {
		lv, err := scanListingView(rows)
		if err != nil {
			return domain.ListingsPage{}, err
		}
		items = append(items, lv)
	}
	if err := rows.Err(); err != nil {
		return domain.ListingsPage{}, err
	}
	return domain.ListingsPage{
		Items:   items,
		Page:    q.Page,
		Limit:   q.Limit,
		HasMore: len(items) == q.Limit,
	}, nil
}

func (r *ListingRepo) GetVerified(ctx context.Context, id uuid.UUID) (domain.ListingView, error) {
	lv, err := scanListingView(r.db.QueryRowContext(ctx, getVerifiedListingSQL, id))
	if err == sql.ErrNoRows {
		return domain.ListingView{}, domain.ErrNotFound
	}
	return lv, err
}

func (r *ListingRepo) GetOwnerID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.db.QueryRowContext(ctx, getListingOwnerSQL, id).Scan(&owner)
	if err == sql.ErrNoRows {
		return uuid.Nil, domain.ErrNotFound
	}
	return owner, err
}

func (r *ListingRepo) ListPending(ctx context.Context) ([]domain.ListingView, error) {
	rows, err := r.db.QueryContext(ctx, listPendingSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ListingView
	for rows.Next() {
		lv, err := scanListingView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lv)
	}
	return out, rows.Err()
}

func (r *ListingRepo) Create(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	lat, lon := coordsArgs(l.Coords)
	err := r.db.QueryRowContext(ctx, insertListingSQL,
		l.ID, l.OwnerID, l.Title, l.Description, l.Address, l.City, l.Rent,
		l.PropertyType, l.Occupancy, l.Furnished, lat, lon, l.Status,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return domain.Listing{}, err
	}
	return l, nil
}

// UpdateOwned patches a listing scoped to its owner. Zero matched rows
// surface as ErrNotFound regardless of whether the listing exists under
// another owner.
func (r *ListingRepo) UpdateOwned(ctx context.Context, ownerID, id uuid.UUID, p domain.ListingPatch) (domain.Listing, error) {
	set := []string{"updated_at = now()"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if p.Title != nil {
		set = append(set, "title = "+arg(*p.Title))
	}
	if p.Description != nil {
		set = append(set, "description = "+arg(*p.Description))
	}
	if p.Address != nil {
		set = append(set, "address = "+arg(*p.Address))
	}
	if p.City != nil {
		set = append(set, "city = "+arg(*p.City))
	}
	if p.Rent != nil {
		set = append(set, "rent = "+arg(*p.Rent))
	}
	if p.PropertyType != nil {
		set = append(set, "property_type = "+arg(*p.PropertyType))
	}
	if p.Occupancy != nil {
		set = append(set, "occupancy_preference = "+arg(*p.Occupancy))
	}
	if p.Furnished != nil {
		set = append(set, "furnished = "+arg(*p.Furnished))
	}
	if p.Coords != nil {
		set = append(set, "lat = "+arg(p.Coords.Lat))
		set = append(set, "lon = "+arg(p.Coords.Lon))
	}

	query := `UPDATE listings SET ` + strings.Join(set, ", ") +
		` WHERE id = ` + arg(id) + ` AND owner_id = ` + arg(ownerID) +
		` RETURNING` + listingColsBare

	l, err := scanListing(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return domain.Listing{}, domain.ErrNotFound
	}
	return l, err
}

func (r *ListingRepo) DeleteOwned(ctx context.Context, ownerID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteOwnedListingSQL, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ListingRepo) SetStatus(ctx context.Context, id uuid.UUID, s domain.ListingStatus) (domain.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx, setListingStatusSQL, s, id))
	if err == sql.ErrNoRows {
		return domain.Listing{}, domain.ErrNotFound
	}
	return l, err
}

func (r *ListingRepo) ListMissingCoords(ctx context.Context) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx, listMissingCoordsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *ListingRepo) SetCoords(ctx context.Context, id uuid.UUID, c domain.Coords) error {
	_, err := r.db.ExecContext(ctx, setCoordsSQL, c.Lat, c.Lon, id)
	return err
}
