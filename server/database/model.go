package database

import (
	"time"

	"github.com/google/uuid"
)

// Club statuses. Pending clubs await an admin decision; approved and rejected
// are terminal.
const (
	ClubStatusPending  = "pending"
	ClubStatusApproved = "approved"
	ClubStatusRejected = "rejected"
)

// User roles.
const (
	RoleMember  = "member"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Membership statuses. Expired is terminal; re-joining creates a new row.
const (
	MembershipStatusActive         = "active"
	MembershipStatusPendingPayment = "pendingPayment"
	MembershipStatusExpired        = "expired"
)

const RegistrationStatusRegistered = "registered"

// Manager application statuses.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// Payment types.
const (
	PaymentTypeMembership = "membership"
	PaymentTypeEvent      = "event"
)

type Club struct {
	ID            uuid.UUID `db:"club_id"`
	Name          string    `db:"club_name"`
	Description   string    `db:"club_description"`
	Category      string    `db:"club_category"`
	Location      string    `db:"club_location"`
	BannerImage   string    `db:"club_banner_image"`
	MembershipFee float64   `db:"club_membership_fee"`
	ManagerEmail  string    `db:"club_manager_email"`
	Status        string    `db:"club_status"`
	MemberCount   int       `db:"club_member_count"`
	CreatedAt     time.Time `db:"club_created_at"`
	UpdatedAt     time.Time `db:"club_updated_at"`
}

type User struct {
	Email     string    `db:"user_email"`
	Name      string    `db:"user_name"`
	PhotoURL  string    `db:"user_photo_url"`
	Role      string    `db:"user_role"`
	CreatedAt time.Time `db:"user_created_at"`
}

type Membership struct {
	ID        uuid.UUID  `db:"membership_id"`
	UserEmail string     `db:"membership_user_email"`
	ClubID    uuid.UUID  `db:"membership_club_id"`
	ClubName  string     `db:"membership_club_name"`
	Status    string     `db:"membership_status"`
	PaymentID *string    `db:"membership_payment_id"`
	JoinedAt  time.Time  `db:"membership_joined_at"`
	ExpiresAt *time.Time `db:"membership_expires_at"`
	Fee       float64    `db:"membership_fee"`
}

type Event struct {
	ID              uuid.UUID `db:"event_id"`
	ClubID          uuid.UUID `db:"event_club_id"`
	Title           string    `db:"event_title"`
	Description     string    `db:"event_description"`
	Date            time.Time `db:"event_date"`
	Location        string    `db:"event_location"`
	IsPaid          bool      `db:"event_is_paid"`
	Fee             float64   `db:"event_fee"`
	MaxAttendees    int       `db:"event_max_attendees"`
	RegisteredCount int       `db:"event_registered_count"`
	CreatedAt       time.Time `db:"event_created_at"`
	UpdatedAt       time.Time `db:"event_updated_at"`
}

type EventRegistration struct {
	ID           uuid.UUID `db:"registration_id"`
	EventID      uuid.UUID `db:"registration_event_id"`
	UserEmail    string    `db:"registration_user_email"`
	Status       string    `db:"registration_status"`
	PaymentID    *string   `db:"registration_payment_id"`
	RegisteredAt time.Time `db:"registration_registered_at"`
}

type Payment struct {
	ID         uuid.UUID `db:"payment_id"`
	Amount     float64   `db:"payment_amount"`
	Currency   string    `db:"payment_currency"`
	UserEmail  string    `db:"payment_user_email"`
	Type       string    `db:"payment_type"`
	ClubID     *string   `db:"payment_club_id"`
	EventID    *string   `db:"payment_event_id"`
	ProviderID string    `db:"payment_provider_id"`
	TrackingID string    `db:"payment_tracking_id"`
	Status     string    `db:"payment_status"`
	PaidAt     time.Time `db:"payment_paid_at"`
}

type ManagerApplication struct {
	ID         uuid.UUID  `db:"application_id"`
	UserEmail  string     `db:"application_user_email"`
	Motivation string     `db:"application_motivation"`
	Experience string     `db:"application_experience"`
	Status     string     `db:"application_status"`
	CreatedAt  time.Time  `db:"application_created_at"`
	DecidedAt  *time.Time `db:"application_decided_at"`
}

type ContactMessage struct {
	ID        uuid.UUID `db:"contact_id"`
	Name      string    `db:"contact_name"`
	Email     string    `db:"contact_email"`
	Subject   string    `db:"contact_subject"`
	Message   string    `db:"contact_message"`
	CreatedAt time.Time `db:"contact_created_at"`
}
