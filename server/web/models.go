package web

import (
	"time"

	"github.com/clubsphere/clubsphere/server/database"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type Club struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Location      string    `json:"location"`
	BannerImage   string    `json:"bannerImage"`
	MembershipFee float64   `json:"membershipFee"`
	ManagerEmail  string    `json:"managerEmail"`
	Status        string    `json:"status"`
	MemberCount   int       `json:"memberCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func newClub(club database.Club) Club {
	return Club{
		ID:            club.ID.String(),
		Name:          club.Name,
		Description:   club.Description,
		Category:      club.Category,
		Location:      club.Location,
		BannerImage:   club.BannerImage,
		MembershipFee: club.MembershipFee,
		ManagerEmail:  club.ManagerEmail,
		Status:        club.Status,
		MemberCount:   club.MemberCount,
		CreatedAt:     club.CreatedAt,
		UpdatedAt:     club.UpdatedAt,
	}
}

func newClubs(clubs []database.Club) []Club {
	out := make([]Club, 0, len(clubs))
	for _, club := range clubs {
		out = append(out, newClub(club))
	}
	return out
}

type User struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photoURL"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUser(user database.User) User {
	return User{
		Email:     user.Email,
		Name:      user.Name,
		PhotoURL:  user.PhotoURL,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

type Membership struct {
	ID        string     `json:"id"`
	UserEmail string     `json:"userEmail"`
	ClubID    string     `json:"clubId"`
	ClubName  string     `json:"clubName"`
	Status    string     `json:"status"`
	PaymentID *string    `json:"paymentId"`
	JoinedAt  time.Time  `json:"joinedAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
	Fee       float64    `json:"fee"`
}

func newMembership(membership database.Membership) Membership {
	return Membership{
		ID:        membership.ID.String(),
		UserEmail: membership.UserEmail,
		ClubID:    membership.ClubID.String(),
		ClubName:  membership.ClubName,
		Status:    membership.Status,
		PaymentID: membership.PaymentID,
		JoinedAt:  membership.JoinedAt,
		ExpiresAt: membership.ExpiresAt,
		Fee:       membership.Fee,
	}
}

func newMemberships(memberships []database.Membership) []Membership {
	out := make([]Membership, 0, len(memberships))
	for _, membership := range memberships {
		out = append(out, newMembership(membership))
	}
	return out
}

type Event struct {
	ID              string    `json:"id"`
	ClubID          string    `json:"clubId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	IsPaid          bool      `json:"isPaid"`
	Fee             float64   `json:"fee"`
	MaxAttendees    int       `json:"maxAttendees"`
	RegisteredCount int       `json:"registeredCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newEvent(event database.Event) Event {
	return Event{
		ID:              event.ID.String(),
		ClubID:          event.ClubID.String(),
		Title:           event.Title,
		Description:     event.Description,
		Date:            event.Date,
		Location:        event.Location,
		IsPaid:          event.IsPaid,
		Fee:             event.Fee,
		MaxAttendees:    event.MaxAttendees,
		RegisteredCount: event.RegisteredCount,
		CreatedAt:       event.CreatedAt,
		UpdatedAt:       event.UpdatedAt,
	}
}

func newEvents(events []database.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, event := range events {
		out = append(out, newEvent(event))
	}
	return out
}

type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"eventId"`
	UserEmail    string    `json:"userEmail"`
	Status       string    `json:"status"`
	PaymentID    *string   `json:"paymentId"`
	RegisteredAt time.Time `json:"registeredAt"`
}

func newRegistration(registration database.EventRegistration) Registration {
	return Registration{
		ID:           registration.ID.String(),
		EventID:      registration.EventID.String(),
		UserEmail:    registration.UserEmail,
		Status:       registration.Status,
		PaymentID:    registration.PaymentID,
		RegisteredAt: registration.RegisteredAt,
	}
}

type Payment struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	UserEmail     string    `json:"userEmail"`
	Type          string    `json:"type"`
	ClubID        *string   `json:"clubId"`
	EventID       *string   `json:"eventId"`
	TransactionID string    `json:"transactionId"`
	TrackingID    string    `json:"trackingId"`
	Status        string    `json:"status"`
	PaidAt        time.Time `json:"paidAt"`
}

func newPayment(payment database.Payment) Payment {
	return Payment{
		ID:            payment.ID.String(),
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		UserEmail:     payment.UserEmail,
		Type:          payment.Type,
		ClubID:        payment.ClubID,
		EventID:       payment.EventID,
		TransactionID: payment.ProviderID,
		TrackingID:    payment.TrackingID,
		Status:        payment.Status,
		PaidAt:        payment.PaidAt,
	}
}

type ManagerApplication struct {
	ID         string     `json:"id"`
	UserEmail  string     `json:"userEmail"`
	Motivation string     `json:"motivation"`
	Experience string     `json:"experience"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	DecidedAt  *time.Time `json:"decidedAt"`
}

func newManagerApplication(application database.ManagerApplication) ManagerApplication {
	return ManagerApplication{
		ID:         application.ID.String(),
		UserEmail:  application.UserEmail,
		Motivation: application.Motivation,
		Experience: application.Experience,
		Status:     application.Status,
		CreatedAt:  application.CreatedAt,
		DecidedAt:  application.DecidedAt,
	}
}

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func newContactMessage(message database.ContactMessage) ContactMessage {
	return ContactMessage{
		ID:        message.ID.String(),
		Name:      message.Name,
		Email:     message.Email,
		Subject:   message.Subject,
		Message:   message.Message,
		CreatedAt: message.CreatedAt,
	}
}

// ClubMember is a membership merged with the member's user profile.
type ClubMember struct {
	Membership
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// EventAttendee is a registration merged with the attendee's user profile.
type EventAttendee struct {
	Registration
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}
