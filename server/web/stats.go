package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/clubsphere/clubsphere/server/auth"
	"github.com/clubsphere/clubsphere/server/database"
)

// MemberEvent is an event merged with the caller's registration.
type MemberEvent struct {
	Event
	RegistrationStatus string    `json:"registrationStatus"`
	RegisteredAt       time.Time `json:"registeredAt"`
}

type MemberStatsResponse struct {
	ClubsJoined      int     `json:"clubsJoined"`
	EventsRegistered int     `json:"eventsRegistered"`
	TotalSpent       float64 `json:"totalSpent"`
}

type ManagerStatsResponse struct {
	TotalClubs   int `json:"totalClubs"`
	PendingClubs int `json:"pendingClubs"`
	TotalMembers int `json:"totalMembers"`
	TotalEvents  int `json:"totalEvents"`
}

type AdminStatsResponse struct {
	TotalClubs   int     `json:"totalClubs"`
	TotalUsers   int     `json:"totalUsers"`
	TotalEvents  int     `json:"totalEvents"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// dashboardEmail resolves the email a dashboard request is about, defaulting
// to the caller. It writes the error response itself when ok is false.
func (h *handler) dashboardEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, _ := auth.GetUser(r.Context())

	email := r.URL.Query().Get("email")
	if email == "" {
		email = user.Email
	}
	if !canActFor(user, email) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return "", false
	}

	return email, true
}

func (h *handler) MemberEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, ok := h.dashboardEmail(w, r)
	if !ok {
		return
	}

	registrations, err := h.DB.GetRegistrationsByUser(ctx, email)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	eventIDs := make([]uuid.UUID, 0, len(registrations))
	for _, registration := range registrations {
		eventIDs = append(eventIDs, registration.EventID)
	}

	events, err := h.DB.GetEventsByIDs(ctx, eventIDs)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	eventsByID := make(map[uuid.UUID]database.Event, len(events))
	for _, event := range events {
		eventsByID[event.ID] = event
	}

	memberEvents := make([]MemberEvent, 0, len(registrations))
	for _, registration := range registrations {
		event, found := eventsByID[registration.EventID]
		if !found {
			continue
		}
		memberEvents = append(memberEvents, MemberEvent{
			Event:              newEvent(event),
			RegistrationStatus: registration.Status,
			RegisteredAt:       registration.RegisteredAt,
		})
	}

	h.json(w, r, http.StatusOK, memberEvents)
}

func (h *handler) MemberStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, ok := h.dashboardEmail(w, r)
	if !ok {
		return
	}

	var (
		memberships   []database.Membership
		registrations []database.EventRegistration
		payments      []database.Payment
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		memberships, err = h.DB.GetActiveMemberships(egCtx, email)
		return err
	})
	eg.Go(func() (err error) {
		registrations, err = h.DB.GetRegistrationsByUser(egCtx, email)
		return err
	})
	eg.Go(func() (err error) {
		payments, err = h.DB.GetPayments(egCtx, email)
		return err
	})
	if err := eg.Wait(); err != nil {
		h.storeError(w, r, err)
		return
	}

	var totalSpent float64
	for _, payment := range payments {
		totalSpent += payment.Amount
	}

	h.json(w, r, http.StatusOK, MemberStatsResponse{
		ClubsJoined:      len(memberships),
		EventsRegistered: len(registrations),
		TotalSpent:       totalSpent,
	})
}

func (h *handler) ManagerClubs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, ok := h.dashboardEmail(w, r)
	if !ok {
		return
	}

	clubs, err := h.DB.GetClubs(ctx, database.ClubFilter{ManagerEmail: email})
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, newClubs(clubs))
}

func (h *handler) ManagerMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, ok := h.dashboardEmail(w, r)
	if !ok {
		return
	}

	clubs, err := h.DB.GetClubs(ctx, database.ClubFilter{ManagerEmail: email})
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	memberships, err := h.DB.GetMembershipsByClubs(ctx, clubIDs(clubs))
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

func (h *handler) ManagerEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, ok := h.dashboardEmail(w, r)
	if !ok {
		return
	}

	clubs, err := h.DB.GetClubs(ctx, database.ClubFilter{ManagerEmail: email})
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	events, err := h.DB.GetEventsByClubs(ctx, clubIDs(clubs))
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, newEvents(events))
}

func (h *handler) ManagerStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, ok := h.dashboardEmail(w, r)
	if !ok {
		return
	}

	clubs, err := h.DB.GetClubs(ctx, database.ClubFilter{ManagerEmail: email})
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	events, err := h.DB.GetEventsByClubs(ctx, clubIDs(clubs))
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	stats := ManagerStatsResponse{
		TotalClubs:  len(clubs),
		TotalEvents: len(events),
	}
	for _, club := range clubs {
		if club.Status == database.ClubStatusPending {
			stats.PendingClubs++
		}
		stats.TotalMembers += club.MemberCount
	}

	h.json(w, r, http.StatusOK, stats)
}

func (h *handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var stats AdminStatsResponse

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		stats.TotalClubs, err = h.DB.CountClubs(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		stats.TotalUsers, err = h.DB.CountUsers(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		stats.TotalEvents, err = h.DB.CountEvents(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		stats.TotalRevenue, err = h.DB.SumPayments(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, stats)
}

func clubIDs(clubs []database.Club) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(clubs))
	for _, club := range clubs {
		ids = append(ids, club.ID)
	}
	return ids
}
