package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/clubsphere/clubsphere/server/database"
)

// Store is the persistence surface the handlers depend on. *database.Database
// is the production implementation; tests substitute an in-memory fake.
type Store interface {
	GetClubs(ctx context.Context, filter database.ClubFilter) ([]database.Club, error)
	GetFeaturedClubs(ctx context.Context, limit int) ([]database.Club, error)
	GetClub(ctx context.Context, clubID uuid.UUID) (*database.Club, error)
	InsertClub(ctx context.Context, club database.Club) error
	UpdateClub(ctx context.Context, clubID uuid.UUID, update database.ClubUpdate) error
	DecideClub(ctx context.Context, clubID uuid.UUID, status string) error
	DeleteClub(ctx context.Context, clubID uuid.UUID) error
	CountClubs(ctx context.Context) (int, error)

	UpsertUser(ctx context.Context, user database.User) (bool, error)
	GetUsers(ctx context.Context) ([]database.User, error)
	GetUser(ctx context.Context, email string) (*database.User, error)
	GetUsersByEmails(ctx context.Context, emails []string) ([]database.User, error)
	UpdateUserRole(ctx context.Context, email string, role string) error
	CountUsers(ctx context.Context) (int, error)

	CreateMembership(ctx context.Context, membership database.Membership) error
	GetMembership(ctx context.Context, id uuid.UUID) (*database.Membership, error)
	GetActiveMemberships(ctx context.Context, userEmail string) ([]database.Membership, error)
	GetMembershipsByUser(ctx context.Context, userEmail string) ([]database.Membership, error)
	GetMembershipsByClub(ctx context.Context, clubID uuid.UUID) ([]database.Membership, error)
	GetMembershipsByClubs(ctx context.Context, clubIDs []uuid.UUID) ([]database.Membership, error)
	HasLiveMembership(ctx context.Context, userEmail string, clubID uuid.UUID) (bool, error)
	DeleteMembership(ctx context.Context, id uuid.UUID) error
	ExpireMembership(ctx context.Context, id uuid.UUID) error
	ExpireDueMemberships(ctx context.Context) (int64, error)

	GetEvents(ctx context.Context) ([]database.Event, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*database.Event, error)
	GetEventsByClubs(ctx context.Context, clubIDs []uuid.UUID) ([]database.Event, error)
	GetEventsByIDs(ctx context.Context, eventIDs []uuid.UUID) ([]database.Event, error)
	InsertEvent(ctx context.Context, event database.Event) error
	UpdateEvent(ctx context.Context, eventID uuid.UUID, update database.EventUpdate) error
	DeleteEvent(ctx context.Context, eventID uuid.UUID) error
	CountEvents(ctx context.Context) (int, error)

	CreateRegistration(ctx context.Context, registration database.EventRegistration) error
	GetRegistrationsByEvent(ctx context.Context, eventID uuid.UUID) ([]database.EventRegistration, error)
	GetRegistrationsByUser(ctx context.Context, userEmail string) ([]database.EventRegistration, error)

	InsertPayment(ctx context.Context, payment database.Payment) (*database.Payment, bool, error)
	GetPaymentByProviderID(ctx context.Context, providerID string) (*database.Payment, error)
	GetPaymentByTrackingID(ctx context.Context, trackingID string) (*database.Payment, error)
	GetPayments(ctx context.Context, userEmail string) ([]database.Payment, error)
	SumPayments(ctx context.Context) (float64, error)

	CreateManagerApplication(ctx context.Context, application database.ManagerApplication) error
	GetManagerApplications(ctx context.Context) ([]database.ManagerApplication, error)
	GetManagerApplication(ctx context.Context, id uuid.UUID) (*database.ManagerApplication, error)
	DecideManagerApplication(ctx context.Context, id uuid.UUID, status string) (*database.ManagerApplication, error)

	InsertContactMessage(ctx context.Context, message database.ContactMessage) error
	GetContactMessages(ctx context.Context) ([]database.ContactMessage, error)
}

var _ Store = (*database.Database)(nil)
