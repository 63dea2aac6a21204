package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clubsphere/clubsphere/server/auth"
	"github.com/clubsphere/clubsphere/server/database"
)

// RegisterForEvent registers the caller for a free event. Paid events go
// through the checkout flow; the registration is created on payment
// confirmation. Capacity is enforced by the store's guarded counter update.
func (h *handler) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	eventID, err := uuid.Parse(r.PathValue("event_id"))
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid event id")
		return
	}

	event, err := h.DB.GetEvent(ctx, eventID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if event.IsPaid {
		h.message(w, r, http.StatusBadRequest, "Event registration requires payment")
		return
	}

	registration := database.EventRegistration{
		ID:           uuid.New(),
		EventID:      event.ID,
		UserEmail:    user.Email,
		Status:       database.RegistrationStatusRegistered,
		RegisteredAt: time.Now(),
	}

	if err = h.DB.CreateRegistration(ctx, registration); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusCreated, newRegistration(registration))
}

func (h *handler) GetEventRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, _, ok := h.ownedEvent(w, r)
	if !ok {
		return
	}

	registrations, err := h.DB.GetRegistrationsByEvent(ctx, eventID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	emails := make([]string, 0, len(registrations))
	for _, registration := range registrations {
		emails = append(emails, registration.UserEmail)
	}

	users, err := h.DB.GetUsersByEmails(ctx, emails)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	usersByEmail := make(map[string]database.User, len(users))
	for _, u := range users {
		usersByEmail[u.Email] = u
	}

	attendees := make([]EventAttendee, 0, len(registrations))
	for _, registration := range registrations {
		u := usersByEmail[registration.UserEmail]
		attendees = append(attendees, EventAttendee{
			Registration: newRegistration(registration),
			Name:         u.Name,
			PhotoURL:     u.PhotoURL,
		})
	}

	h.json(w, r, http.StatusOK, attendees)
}
