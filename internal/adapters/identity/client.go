package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentnest/internal/adapters/observability"
	"rentnest/internal/domain"
)

// Client talks to the hosted identity provider (GoTrue-shaped API).
// Tokens stay opaque: we hand them back to the provider to resolve the
// account, we never decode them locally.
type Client struct {
	base string
	key  string
	hc   *http.Client
}

func New(base, key string) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("service key is required")
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		hc:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type providerUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         providerUser `json:"user"`
}

// statusError carries the provider's HTTP status so callers can map it
// into the domain taxonomy per endpoint.
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("identity: status %d: %s", e.status, e.msg)
}

func (c *Client) SignUp(ctx context.Context, email, password string) (domain.Identity, error) {
	body := map[string]string{"email": email, "password": password}
	var out providerUser
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &out); err != nil {
		var se *statusError
		if errors.As(err, &se) {
			switch se.status {
			case http.StatusConflict, http.StatusUnprocessableEntity:
				return domain.Identity{}, fmt.Errorf("%s: %w", se.msg, domain.ErrDuplicate)
			case http.StatusBadRequest:
				return domain.Identity{}, fmt.Errorf("%s: %w", se.msg, domain.ErrInvalid)
			}
		}
		return domain.Identity{}, err
	}
	return toIdentity(out)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (domain.Identity, domain.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &out); err != nil {
		var se *statusError
		if errors.As(err, &se) && (se.status == http.StatusBadRequest || se.status == http.StatusUnauthorized) {
			return domain.Identity{}, domain.Session{}, domain.ErrUnauthorized
		}
		return domain.Identity{}, domain.Session{}, err
	}
	id, err := toIdentity(out.User)
	if err != nil {
		return domain.Identity{}, domain.Session{}, err
	}
	sess := domain.Session{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
	}
	return id, sess, nil
}

func (c *Client) GetUser(ctx context.Context, token string) (domain.Identity, error) {
	var out providerUser
	if err := c.do(ctx, http.MethodGet, "/user", token, nil, &out); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status >= 400 && se.status < 500 {
			return domain.Identity{}, domain.ErrUnauthorized
		}
		return domain.Identity{}, err
	}
	return toIdentity(out)
}

func toIdentity(u providerUser) (domain.Identity, error) {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("identity: bad user id %q: %w", u.ID, err)
	}
	return domain.Identity{ID: id, Email: u.Email}, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.key)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	endpoint := strings.SplitN(path, "?", 2)[0]
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("identity", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("identity", endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &statusError{status: resp.StatusCode, msg: strings.TrimSpace(string(b))}
}
