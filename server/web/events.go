package web

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clubsphere/clubsphere/server/auth"
	"github.com/clubsphere/clubsphere/server/database"
)

func (h *handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.DB.GetEvents(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, newEvents(events))
}

func (h *handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(r.PathValue("event_id"))
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid event id")
		return
	}

	event, err := h.DB.GetEvent(r.Context(), eventID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, newEvent(*event))
}

type CreateEventRequest struct {
	ClubID       string    `json:"clubId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	IsPaid       bool      `json:"isPaid"`
	Fee          float64   `json:"fee"`
	MaxAttendees int       `json:"maxAttendees"`
}

func (h *handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	var rq CreateEventRequest
	if err := decode(r, &rq); err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if rq.Title == "" {
		h.message(w, r, http.StatusBadRequest, "Event title is required")
		return
	}
	if rq.MaxAttendees <= 0 {
		h.message(w, r, http.StatusBadRequest, "Max attendees must be positive")
		return
	}
	if rq.IsPaid && rq.Fee <= 0 {
		h.message(w, r, http.StatusBadRequest, "Paid events need a positive fee")
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
	if !canActFor(user, club.ManagerEmail) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	now := time.Now()
	event := database.Event{
		ID:           uuid.New(),
		ClubID:       club.ID,
		Title:        rq.Title,
		Description:  rq.Description,
		Date:         rq.Date,
		Location:     rq.Location,
		IsPaid:       rq.IsPaid,
		Fee:          rq.Fee,
		MaxAttendees: rq.MaxAttendees,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err = h.DB.InsertEvent(ctx, event); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusCreated, newEvent(event))
}

func (h *handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, event, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}

	var rq CreateEventRequest
	if err := decode(r, &rq); err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if rq.Title == "" {
		h.message(w, r, http.StatusBadRequest, "Event title is required")
		return
	}
	if rq.MaxAttendees <= 0 {
		h.message(w, r, http.StatusBadRequest, "Max attendees must be positive")
		return
	}
	if rq.MaxAttendees < event.RegisteredCount {
		h.message(w, r, http.StatusBadRequest, "Max attendees cannot drop below the registered count")
		return
	}

	update := database.EventUpdate{
		Title:        rq.Title,
		Description:  rq.Description,
		Location:     rq.Location,
		IsPaid:       rq.IsPaid,
		Fee:          rq.Fee,
		MaxAttendees: rq.MaxAttendees,
	}
	if !rq.Date.IsZero() {
		update.Date = sql.NullTime{Time: rq.Date, Valid: true}
	}

	if err := h.DB.UpdateEvent(ctx, eventID, update); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.message(w, r, http.StatusOK, "Event updated")
}

func (h *handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, _, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}

	if err := h.DB.DeleteEvent(r.Context(), eventID); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.message(w, r, http.StatusOK, "Event deleted")
}

// ownedEvent resolves the event from the path and checks the caller manages
// its club. It writes the error response itself when ok is false.
func (h *handler) ownedEvent(w http.ResponseWriter, r *http.Request) (uuid.UUID, *database.Event, bool) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	eventID, err := uuid.Parse(r.PathValue("event_id"))
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid event id")
		return uuid.Nil, nil, false
	}

	event, err := h.DB.GetEvent(ctx, eventID)
	if err != nil {
		h.storeError(w, r, err)
		return uuid.Nil, nil, false
	}

	club, err := h.DB.GetClub(ctx, event.ClubID)
	if err != nil {
		h.storeError(w, r, err)
		return uuid.Nil, nil, false
	}
	if !canActFor(user, club.ManagerEmail) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return uuid.Nil, nil, false
	}

	return eventID, event, true
}
