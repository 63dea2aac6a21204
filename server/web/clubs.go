package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clubsphere/clubsphere/server/auth"
	"github.com/clubsphere/clubsphere/server/database"
)

const featuredClubLimit = 8

func (h *handler) GetClubs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	clubs, err := h.DB.GetClubs(ctx, database.ClubFilter{
		Status:       query.Get("status"),
		ManagerEmail: query.Get("managerEmail"),
	})
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, newClubs(clubs))
}

func (h *handler) GetFeaturedClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.DB.GetFeaturedClubs(r.Context(), featuredClubLimit)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, newClubs(clubs))
}

func (h *handler) GetClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := uuid.Parse(r.PathValue("club_id"))
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid club id")
		return
	}

	club, err := h.DB.GetClub(r.Context(), clubID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, newClub(*club))
}

type CreateClubRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Location      string  `json:"location"`
	BannerImage   string  `json:"bannerImage"`
	MembershipFee float64 `json:"membershipFee"`
}

func (h *handler) CreateClub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	var rq CreateClubRequest
	if err := decode(r, &rq); err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(rq.Name) == "" {
		h.message(w, r, http.StatusBadRequest, "Club name is required")
		return
	}
	if rq.MembershipFee < 0 {
		h.message(w, r, http.StatusBadRequest, "Membership fee cannot be negative")
		return
	}

	now := time.Now()
	club := database.Club{
		ID:            uuid.New(),
		Name:          rq.Name,
		Description:   rq.Description,
		Category:      rq.Category,
		Location:      rq.Location,
		BannerImage:   rq.BannerImage,
		MembershipFee: rq.MembershipFee,
		ManagerEmail:  user.Email,
		Status:        database.ClubStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.DB.InsertClub(ctx, club); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.SendNotification(ctx, fmt.Sprintf("New club submitted: `%s` by `%s`", club.Name, club.ManagerEmail))

	h.json(w, r, http.StatusCreated, newClub(club))
}

func (h *handler) UpdateClub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	clubID, err := uuid.Parse(r.PathValue("club_id"))
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid club id")
		return
	}

	club, err := h.DB.GetClub(ctx, clubID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !canActFor(user, club.ManagerEmail) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	var rq CreateClubRequest
	if err = decode(r, &rq); err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(rq.Name) == "" {
		h.message(w, r, http.StatusBadRequest, "Club name is required")
		return
	}

	if err = h.DB.UpdateClub(ctx, clubID, database.ClubUpdate{
		Name:          rq.Name,
		Description:   rq.Description,
		Category:      rq.Category,
		Location:      rq.Location,
		BannerImage:   rq.BannerImage,
		MembershipFee: rq.MembershipFee,
	}); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.message(w, r, http.StatusOK, "Club updated")
}

func (h *handler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	clubID, err := uuid.Parse(r.PathValue("club_id"))
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid club id")
		return
	}

	club, err := h.DB.GetClub(ctx, clubID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !canActFor(user, club.ManagerEmail) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	if err = h.DB.DeleteClub(ctx, clubID); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.message(w, r, http.StatusOK, "Club deleted")
}

func (h *handler) ApproveClub(w http.ResponseWriter, r *http.Request) {
	h.decideClub(w, r, database.ClubStatusApproved)
}

func (h *handler) RejectClub(w http.ResponseWriter, r *http.Request) {
	h.decideClub(w, r, database.ClubStatusRejected)
}

func (h *handler) decideClub(w http.ResponseWriter, r *http.Request, status string) {
	ctx := r.Context()

	clubID, err := uuid.Parse(r.PathValue("club_id"))
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid club id")
		return
	}

	if err = h.DB.DecideClub(ctx, clubID, status); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.message(w, r, http.StatusOK, "Club %s", status)
}

func (h *handler) GetClubMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	clubID, err := uuid.Parse(r.PathValue("club_id"))
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid club id")
		return
	}

	club, err := h.DB.GetClub(ctx, clubID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !canActFor(user, club.ManagerEmail) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	memberships, err := h.DB.GetMembershipsByClub(ctx, clubID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	members, err := h.mergeMembers(ctx, memberships)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, members)
}

func (h *handler) mergeMembers(ctx context.Context, memberships []database.Membership) ([]ClubMember, error) {
	emails := make([]string, 0, len(memberships))
	for _, membership := range memberships {
		emails = append(emails, membership.UserEmail)
	}

	users, err := h.DB.GetUsersByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	usersByEmail := make(map[string]database.User, len(users))
	for _, u := range users {
		usersByEmail[u.Email] = u
	}

	members := make([]ClubMember, 0, len(memberships))
	for _, membership := range memberships {
		u := usersByEmail[membership.UserEmail]
		members = append(members, ClubMember{
			Membership: newMembership(membership),
			Name:       u.Name,
			PhotoURL:   u.PhotoURL,
		})
	}
	return members, nil
}
