package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clubsphere/clubsphere/server/auth"
	"github.com/clubsphere/clubsphere/server/database"
)

type JoinClubRequest struct {
	ClubID    string `json:"clubId"`
	UserEmail string `json:"userEmail"`
}

// JoinClub creates an active membership for a free club. Paid clubs go
// through the checkout flow instead; the membership is created on payment
// confirmation.
func (h *handler) JoinClub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	var rq JoinClubRequest
	if err := decode(r, &rq); err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if rq.UserEmail == "" {
		rq.UserEmail = user.Email
	}
	if !canActFor(user, rq.UserEmail) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	clubID, err := uuid.Parse(rq.ClubID)
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid club id")
		return
	}

	club, err := h.DB.GetClub(ctx, clubID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if club.Status != database.ClubStatusApproved {
		h.message(w, r, http.StatusBadRequest, "Club is not approved")
		return
	}
	if club.MembershipFee > 0 {
		h.message(w, r, http.StatusBadRequest, "Club membership requires payment")
		return
	}

	membership := database.Membership{
		ID:        uuid.New(),
		UserEmail: rq.UserEmail,
		ClubID:    club.ID,
		ClubName:  club.Name,
		Status:    database.MembershipStatusActive,
		JoinedAt:  time.Now(),
		Fee:       club.MembershipFee,
	}

	if err = h.DB.CreateMembership(ctx, membership); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusCreated, newMembership(membership))
}

func (h *handler) GetMemberships(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	email := r.URL.Query().Get("userEmail")
	if email == "" {
		email = user.Email
	}
	if !canActFor(user, email) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	memberships, err := h.DB.GetActiveMemberships(ctx, email)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, newMemberships(memberships))
}

func (h *handler) CheckMembership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)
	query := r.URL.Query()

	email := query.Get("userEmail")
	if email == "" {
		email = user.Email
	}
	if !canActFor(user, email) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	clubID, err := uuid.Parse(query.Get("clubId"))
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid club id")
		return
	}

	isMember, err := h.DB.HasLiveMembership(ctx, email, clubID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, map[string]bool{"isMember": isMember})
}

func (h *handler) LeaveClub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	membershipID, err := uuid.Parse(r.PathValue("membership_id"))
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid membership id")
		return
	}

	membership, err := h.DB.GetMembership(ctx, membershipID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !canActFor(user, membership.UserEmail) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	if err = h.DB.DeleteMembership(ctx, membershipID); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.message(w, r, http.StatusOK, "Left club")
}

// ExpireMembership marks a membership expired. Expiry is terminal; re-joining
// creates a new membership.
func (h *handler) ExpireMembership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	membershipID, err := uuid.Parse(r.PathValue("membership_id"))
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid membership id")
		return
	}

	membership, err := h.DB.GetMembership(ctx, membershipID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !canActFor(user, membership.UserEmail) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	if err = h.DB.ExpireMembership(ctx, membershipID); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.message(w, r, http.StatusOK, "Membership expired")
}
