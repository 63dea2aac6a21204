package web

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/clubsphere/clubsphere/server/auth"
	"github.com/clubsphere/clubsphere/server/database"
)

type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// CreateUser is the first-sign-in upsert. An existing email is answered
// without modification; new users always start as members.
func (h *handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	var rq CreateUserRequest
	if err := decode(r, &rq); err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if rq.Email == "" {
		rq.Email = user.Email
	}
	if !canActFor(user, rq.Email) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	newRow := database.User{
		Email:     rq.Email,
		Name:      rq.Name,
		PhotoURL:  rq.PhotoURL,
		Role:      database.RoleMember,
		CreatedAt: time.Now(),
	}

	inserted, err := h.DB.UpsertUser(ctx, newRow)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !inserted {
		existing, err := h.DB.GetUser(ctx, rq.Email)
		if err != nil {
			h.storeError(w, r, err)
			return
		}
		h.json(w, r, http.StatusOK, newUser(*existing))
		return
	}

	h.json(w, r, http.StatusCreated, newUser(newRow))
}

func (h *handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.DB.GetUsers(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	out := make([]User, 0, len(users))
	for _, user := range users {
		out = append(out, newUser(user))
	}

	h.json(w, r, http.StatusOK, out)
}

func (h *handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	email := r.PathValue("email")
	if !canActFor(user, email) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	row, err := h.DB.GetUser(ctx, email)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, newUser(*row))
}

func (h *handler) GetUserRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	email := r.PathValue("email")
	if !canActFor(user, email) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	row, err := h.DB.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.message(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.storeError(w, r, err)
		return
	}

	role := row.Role
	if slices.Contains(h.Cfg.Auth.Admins, row.Email) {
		role = database.RoleAdmin
	}

	h.json(w, r, http.StatusOK, map[string]string{"role": role})
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

func (h *handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.PathValue("email")

	var rq UpdateUserRoleRequest
	if err := decode(r, &rq); err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if rq.Role != database.RoleMember && rq.Role != database.RoleManager && rq.Role != database.RoleAdmin {
		h.message(w, r, http.StatusBadRequest, "Invalid role")
		return
	}

	if err := h.DB.UpdateUserRole(ctx, email, rq.Role); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.message(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.storeError(w, r, err)
		return
	}

	h.message(w, r, http.StatusOK, "Role updated")
}
