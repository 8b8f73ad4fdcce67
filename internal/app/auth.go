package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentnest/internal/domain"
)

// AuthService fronts the hosted identity provider and the users table.
// The stored role is re-read on every authenticated call; nothing is
// derived from the token itself.
type AuthService struct {
	provider domain.IdentityProvider
	users    domain.UserRepository
}

func NewAuthService(p domain.IdentityProvider, u domain.UserRepository) *AuthService {
	return &AuthService{provider: p, users: u}
}

type SignupInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Phone    *string     `json:"phone,omitempty"`
	Role     domain.Role `json:"role"`
}

func (s *AuthService) SignUp(ctx context.Context, in SignupInput) (domain.User, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		return domain.User{}, fmt.Errorf("email, password, and name are required: %w", domain.ErrInvalid)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return domain.User{}, fmt.Errorf("unknown role %q: %w", role, domain.ErrInvalid)
	}

	id, err := s.provider.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:    id.ID,
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
		Role:  role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, domain.Session, error) {
	if email == "" || password == "" {
		return domain.User{}, domain.Session{}, fmt.Errorf("email and password are required: %w", domain.ErrInvalid)
	}
	id, sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return domain.User{}, domain.Session{}, err
	}
	u, err := s.users.GetByID(ctx, id.ID)
	if err != nil {
		return domain.User{}, domain.Session{}, err
	}
	return u, sess, nil
}

// Authenticate resolves a bearer token to a stored profile. The
// provider validates the token; the role comes from the database.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	id, err := s.provider.GetUser(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.users.GetByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, err
	}
	return u, nil
}
