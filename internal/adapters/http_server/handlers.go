package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"rentnest/internal/app"
	"rentnest/internal/domain"
)

type Handlers struct {
	Auth      *app.AuthService
	Listings  *app.ListingService
	Favorites *app.FavoriteService
	Reviews   *app.ReviewService
	Admin     *app.AdminService
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/listings", h.searchListings)
	s.mux.Get("/v1/listings/{id}", h.getListing)
	s.mux.Get("/v1/reviews/{listingID}", h.listReviews)

	s.mux.Post("/v1/auth/signup", h.signup)
	s.mux.Post("/v1/auth/login", h.login)

	s.mux.Group(func(r chi.Router) {
		r.Use(h.requireUser)

		r.Get("/v1/auth/me", h.me)

		r.Post("/v1/listings", h.createListing)
		r.Put("/v1/listings/{id}", h.updateListing)
		r.Delete("/v1/listings/{id}", h.deleteListing)

		r.Get("/v1/favorites", h.listFavorites)
		r.Post("/v1/favorites/{listingID}", h.addFavorite)
		r.Delete("/v1/favorites/{listingID}", h.removeFavorite)

		r.Post("/v1/reviews/{listingID}", h.createReview)
		r.Put("/v1/reviews/{listingID}", h.updateReview)
		r.Delete("/v1/reviews/{listingID}", h.deleteReview)
	})

	s.mux.Group(func(r chi.Router) {
		r.Use(h.requireUser, h.require(domain.ActionModerateListing))

		r.Get("/v1/admin/listings/pending", h.pendingListings)
		r.Put("/v1/admin/listings/{action}/{id}", h.setListingStatus)
	})

	s.mux.Group(func(r chi.Router) {
		r.Use(h.requireUser, h.require(domain.ActionViewAnalytics))

		r.Get("/v1/admin/analytics", h.analytics)
	})
}

// ---- caller identity ----

type ctxKey int

const userKey ctxKey = 0

func callerFrom(ctx context.Context) domain.User {
	u, _ := ctx.Value(userKey).(domain.User)
	return u
}

// requireUser resolves the bearer token into a stored profile and puts
// it on the request context. The stored role wins over anything the
// token might claim.
func (h *Handlers) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		u, err := h.Auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// require gates a route group on the role policy. Ownership never
// enters these decisions; owner-scoped writes resolve it per listing
// inside the service instead.
func (h *Handlers) require(action domain.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !domain.Allow(callerFrom(r.Context()).Role, action, false) {
				writeProblem(w, http.StatusForbidden, "Forbidden", "not allowed: "+string(action))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// ---- problem+json errors ----

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain sentinels onto HTTP statuses. Anything
// unmapped becomes a 500 with the raw message in detail.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrInvalid):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}

// ---- JSON plumbing ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decodeJSON is deliberately lenient about unknown fields: clients may
// send columns the server owns (status, owner_id) and they are ignored,
// never rejected.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeWithETag serves v with a weak ETag and honors If-None-Match.
func writeWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func urlUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}
