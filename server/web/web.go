package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/clubsphere/clubsphere/server"
	"github.com/clubsphere/clubsphere/server/database"
)

type handler struct {
	*server.Server
}

func Routes(srv *server.Server) http.Handler {
	h := &handler{
		Server: srv,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET  /clubs", h.GetClubs)
	mux.HandleFunc("GET  /clubs/featured", h.GetFeaturedClubs)
	mux.HandleFunc("GET  /clubs/{club_id}", h.GetClub)
	mux.HandleFunc("POST /clubs", h.requireRole(database.RoleManager, h.CreateClub))
	mux.HandleFunc("PATCH  /clubs/{club_id}", h.requireRole(database.RoleManager, h.UpdateClub))
	mux.HandleFunc("DELETE /clubs/{club_id}", h.requireRole(database.RoleManager, h.DeleteClub))
	mux.HandleFunc("PATCH /clubs/{club_id}/approve", h.requireRole(database.RoleAdmin, h.ApproveClub))
	mux.HandleFunc("PATCH /clubs/{club_id}/reject", h.requireRole(database.RoleAdmin, h.RejectClub))
	mux.HandleFunc("GET /clubs/{club_id}/members", h.requireRole(database.RoleManager, h.GetClubMembers))

	mux.HandleFunc("POST /users", h.authenticated(h.CreateUser))
	mux.HandleFunc("GET  /users", h.requireRole(database.RoleAdmin, h.GetUsers))
	mux.HandleFunc("GET  /users/{email}", h.authenticated(h.GetUser))
	mux.HandleFunc("GET   /users/{email}/role", h.authenticated(h.GetUserRole))
	mux.HandleFunc("PATCH /users/{email}/role", h.requireRole(database.RoleAdmin, h.UpdateUserRole))

	mux.HandleFunc("POST /memberships", h.authenticated(h.JoinClub))
	mux.HandleFunc("GET  /memberships", h.authenticated(h.GetMemberships))
	mux.HandleFunc("GET  /memberships/check", h.authenticated(h.CheckMembership))
	mux.HandleFunc("DELETE /memberships/{membership_id}", h.authenticated(h.LeaveClub))
	mux.HandleFunc("PATCH  /memberships/{membership_id}/expire", h.authenticated(h.ExpireMembership))

	mux.HandleFunc("GET  /events", h.GetEvents)
	mux.HandleFunc("GET  /events/{event_id}", h.GetEvent)
	mux.HandleFunc("POST /events", h.requireRole(database.RoleManager, h.CreateEvent))
	mux.HandleFunc("PUT    /events/{event_id}", h.requireRole(database.RoleManager, h.UpdateEvent))
	mux.HandleFunc("DELETE /events/{event_id}", h.requireRole(database.RoleManager, h.DeleteEvent))
	mux.HandleFunc("POST /events/{event_id}/register", h.authenticated(h.RegisterForEvent))
	mux.HandleFunc("GET  /events/{event_id}/registrations", h.requireRole(database.RoleManager, h.GetEventRegistrations))

	mux.HandleFunc("POST /create-checkout-session", h.authenticated(h.CreateCheckoutSession))
	mux.HandleFunc("POST /create-event-checkout-session", h.authenticated(h.CreateEventCheckoutSession))
	mux.HandleFunc("PATCH /payment-success", h.authenticated(h.ConfirmMembershipPayment))
	mux.HandleFunc("PATCH /event-payment-success", h.authenticated(h.ConfirmEventPayment))
	mux.HandleFunc("GET /payments", h.authenticated(h.GetPayments))
	mux.HandleFunc("GET /payments/{tracking_id}/ticket", h.authenticated(h.GetPaymentTicket))

	mux.HandleFunc("GET /member/events", h.authenticated(h.MemberEvents))
	mux.HandleFunc("GET /member/stats", h.authenticated(h.MemberStats))
	mux.HandleFunc("GET /manager/clubs", h.requireRole(database.RoleManager, h.ManagerClubs))
	mux.HandleFunc("GET /manager/members", h.requireRole(database.RoleManager, h.ManagerMembers))
	mux.HandleFunc("GET /manager/events", h.requireRole(database.RoleManager, h.ManagerEvents))
	mux.HandleFunc("GET /manager/stats", h.requireRole(database.RoleManager, h.ManagerStats))
	mux.HandleFunc("GET /admin/stats", h.requireRole(database.RoleAdmin, h.AdminStats))

	mux.HandleFunc("POST /manager-applications", h.authenticated(h.CreateManagerApplication))
	mux.HandleFunc("GET  /manager-applications", h.requireRole(database.RoleAdmin, h.GetManagerApplications))
	mux.HandleFunc("PATCH /manager-applications/{application_id}/approve", h.requireRole(database.RoleAdmin, h.ApproveManagerApplication))
	mux.HandleFunc("PATCH /manager-applications/{application_id}/reject", h.requireRole(database.RoleAdmin, h.RejectManagerApplication))

	mux.HandleFunc("POST /contact", h.CreateContactMessage)
	mux.HandleFunc("GET  /contact", h.requireRole(database.RoleAdmin, h.GetContactMessages))

	return mux
}

func (h *handler) json(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response", slog.Any("err", err))
	}
}

func (h *handler) message(w http.ResponseWriter, r *http.Request, status int, format string, a ...any) {
	h.json(w, r, status, MessageResponse{
		Message: fmt.Sprintf(format, a...),
	})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}
