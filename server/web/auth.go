package web

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/clubsphere/clubsphere/server/auth"
	"github.com/clubsphere/clubsphere/server/database"
)

// authenticated verifies the bearer token, loads (or provisions on first
// sign-in) the user row and stashes it on the request context.
func (h *handler) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, ok := bearerToken(r)
		if !ok {
			h.message(w, r, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		identity, err := h.Auth.Verify(ctx, token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				h.message(w, r, http.StatusUnauthorized, "Invalid bearer token")
				return
			}
			slog.ErrorContext(ctx, "Failed to verify bearer token", slog.Any("err", err))
			h.message(w, r, http.StatusInternalServerError, "Failed to verify bearer token")
			return
		}

		user, err := h.DB.GetUser(ctx, identity.Email)
		if errors.Is(err, database.ErrNotFound) {
			user = &database.User{
				Email:     identity.Email,
				Name:      identity.Name,
				PhotoURL:  identity.Picture,
				Role:      database.RoleMember,
				CreatedAt: time.Now(),
			}
			if _, err = h.DB.UpsertUser(ctx, *user); err != nil {
				slog.ErrorContext(ctx, "Failed to provision user", slog.Any("err", err))
				h.message(w, r, http.StatusInternalServerError, "Internal server error")
				return
			}
		} else if err != nil {
			slog.ErrorContext(ctx, "Failed to load user", slog.Any("err", err))
			h.message(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}

		if slices.Contains(h.Cfg.Auth.Admins, user.Email) {
			user.Role = database.RoleAdmin
		}

		next(w, r.WithContext(auth.SetUser(ctx, *user)))
	}
}

// requireRole gates a route on a role. Admins pass every gate.
func (h *handler) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return h.authenticated(func(w http.ResponseWriter, r *http.Request) {
		user, _ := auth.GetUser(r.Context())
		if user.Role != role && user.Role != database.RoleAdmin {
			h.message(w, r, http.StatusForbidden, "Forbidden")
			return
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// canActFor reports whether the authenticated user may act on resources owned
// by email.
func canActFor(user database.User, email string) bool {
	return user.Email == email || user.Role == database.RoleAdmin
}
