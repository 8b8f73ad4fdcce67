package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"rentnest/internal/domain"
)

func (r *UserRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Name, u.Email, valStr(u.Phone), u.Role)
	if isUnique(err) {
		return fmt.Errorf("user %s: %w", u.Email, domain.ErrDuplicate)
	}
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var (
		u     domain.User
		phone sql.NullString
	)
	err := r.db.QueryRowContext(ctx, getUserSQL, id).Scan(
		&u.ID, &u.Name, &u.Email, &phone, &u.Role, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	u.Phone = nullStr(phone)
	return u, nil
}
