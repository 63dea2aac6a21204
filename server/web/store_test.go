package web

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clubsphere/clubsphere/server"
	"github.com/clubsphere/clubsphere/server/database"
)

// memStore is an in-memory server.Store honoring the same uniqueness and
// capacity rules the SQL schema enforces.
type memStore struct {
	mu            sync.Mutex
	clubs         map[uuid.UUID]database.Club
	users         map[string]database.User
	memberships   map[uuid.UUID]database.Membership
	events        map[uuid.UUID]database.Event
	registrations map[uuid.UUID]database.EventRegistration
	payments      map[uuid.UUID]database.Payment
	applications  map[uuid.UUID]database.ManagerApplication
	contact       map[uuid.UUID]database.ContactMessage
}

var _ server.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		clubs:         map[uuid.UUID]database.Club{},
		users:         map[string]database.User{},
		memberships:   map[uuid.UUID]database.Membership{},
		events:        map[uuid.UUID]database.Event{},
		registrations: map[uuid.UUID]database.EventRegistration{},
		payments:      map[uuid.UUID]database.Payment{},
		applications:  map[uuid.UUID]database.ManagerApplication{},
		contact:       map[uuid.UUID]database.ContactMessage{},
	}
}

func (m *memStore) GetClubs(_ context.Context, filter database.ClubFilter) ([]database.Club, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var clubs []database.Club
	for _, club := range m.clubs {
		if filter.Status != "" && club.Status != filter.Status {
			continue
		}
		if filter.ManagerEmail != "" && club.ManagerEmail != filter.ManagerEmail {
			continue
		}
		clubs = append(clubs, club)
	}
	return clubs, nil
}

func (m *memStore) GetFeaturedClubs(_ context.Context, limit int) ([]database.Club, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var clubs []database.Club
	for _, club := range m.clubs {
		if club.Status == database.ClubStatusApproved {
			clubs = append(clubs, club)
		}
	}
	slices.SortFunc(clubs, func(a, b database.Club) int {
		switch {
		case a.MembershipFee > b.MembershipFee:
			return -1
		case a.MembershipFee < b.MembershipFee:
			return 1
		}
		return 0
	})
	if len(clubs) > limit {
		clubs = clubs[:limit]
	}
	return clubs, nil
}

func (m *memStore) GetClub(_ context.Context, clubID uuid.UUID) (*database.Club, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getClub(clubID)
}

func (m *memStore) getClub(clubID uuid.UUID) (*database.Club, error) {
	club, ok := m.clubs[clubID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &club, nil
}

func (m *memStore) InsertClub(_ context.Context, club database.Club) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clubs[club.ID] = club
	return nil
}

func (m *memStore) UpdateClub(_ context.Context, clubID uuid.UUID, update database.ClubUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	club, ok := m.clubs[clubID]
	if !ok {
		return database.ErrNotFound
	}
	club.Name = update.Name
	club.Description = update.Description
	club.Category = update.Category
	club.Location = update.Location
	club.BannerImage = update.BannerImage
	club.MembershipFee = update.MembershipFee
	club.UpdatedAt = time.Now()
	m.clubs[clubID] = club
	return nil
}

func (m *memStore) DecideClub(_ context.Context, clubID uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	club, ok := m.clubs[clubID]
	if !ok {
		return database.ErrNotFound
	}
	if club.Status != database.ClubStatusPending {
		return database.ErrAlreadyDecided
	}
	club.Status = status
	m.clubs[clubID] = club
	return nil
}

func (m *memStore) DeleteClub(_ context.Context, clubID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clubs[clubID]; !ok {
		return database.ErrNotFound
	}
	delete(m.clubs, clubID)
	return nil
}

func (m *memStore) CountClubs(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clubs), nil
}

func (m *memStore) UpsertUser(_ context.Context, user database.User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Email]; ok {
		return false, nil
	}
	m.users[user.Email] = user
	return true, nil
}

func (m *memStore) GetUsers(_ context.Context) ([]database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []database.User
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

func (m *memStore) GetUser(_ context.Context, email string) (*database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[email]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &user, nil
}

func (m *memStore) GetUsersByEmails(_ context.Context, emails []string) ([]database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []database.User
	for _, email := range emails {
		if user, ok := m.users[email]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (m *memStore) UpdateUserRole(_ context.Context, email string, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[email]
	if !ok {
		return database.ErrNotFound
	}
	user.Role = role
	m.users[email] = user
	return nil
}

func (m *memStore) CountUsers(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *memStore) CreateMembership(_ context.Context, membership database.Membership) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.memberships {
		if existing.UserEmail == membership.UserEmail && existing.ClubID == membership.ClubID &&
			existing.Status != database.MembershipStatusExpired {
			return database.ErrAlreadyMember
		}
	}
	m.memberships[membership.ID] = membership

	if membership.Status == database.MembershipStatusActive {
		club := m.clubs[membership.ClubID]
		club.MemberCount++
		m.clubs[membership.ClubID] = club
	}
	return nil
}

func (m *memStore) GetMembership(_ context.Context, id uuid.UUID) (*database.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	membership, ok := m.memberships[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &membership, nil
}

func (m *memStore) GetActiveMemberships(_ context.Context, userEmail string) ([]database.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var memberships []database.Membership
	for _, membership := range m.memberships {
		if membership.UserEmail == userEmail && membership.Status == database.MembershipStatusActive {
			memberships = append(memberships, membership)
		}
	}
	return memberships, nil
}

func (m *memStore) GetMembershipsByUser(_ context.Context, userEmail string) ([]database.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var memberships []database.Membership
	for _, membership := range m.memberships {
		if membership.UserEmail == userEmail {
			memberships = append(memberships, membership)
		}
	}
	return memberships, nil
}

func (m *memStore) GetMembershipsByClub(_ context.Context, clubID uuid.UUID) ([]database.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var memberships []database.Membership
	for _, membership := range m.memberships {
		if membership.ClubID == clubID {
			memberships = append(memberships, membership)
		}
	}
	return memberships, nil
}

func (m *memStore) GetMembershipsByClubs(_ context.Context, clubIDs []uuid.UUID) ([]database.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var memberships []database.Membership
	for _, membership := range m.memberships {
		if slices.Contains(clubIDs, membership.ClubID) {
			memberships = append(memberships, membership)
		}
	}
	return memberships, nil
}

func (m *memStore) HasLiveMembership(_ context.Context, userEmail string, clubID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, membership := range m.memberships {
		if membership.UserEmail == userEmail && membership.ClubID == clubID &&
			membership.Status != database.MembershipStatusExpired {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) DeleteMembership(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	membership, ok := m.memberships[id]
	if !ok {
		return database.ErrNotFound
	}
	delete(m.memberships, id)

	if membership.Status == database.MembershipStatusActive {
		club := m.clubs[membership.ClubID]
		club.MemberCount--
		m.clubs[membership.ClubID] = club
	}
	return nil
}

func (m *memStore) ExpireMembership(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expireMembership(id)
}

func (m *memStore) expireMembership(id uuid.UUID) error {
	membership, ok := m.memberships[id]
	if !ok {
		return database.ErrNotFound
	}
	wasActive := membership.Status == database.MembershipStatusActive
	now := time.Now()
	membership.Status = database.MembershipStatusExpired
	membership.ExpiresAt = &now
	m.memberships[id] = membership

	if wasActive {
		club := m.clubs[membership.ClubID]
		club.MemberCount--
		m.clubs[membership.ClubID] = club
	}
	return nil
}

func (m *memStore) ExpireDueMemberships(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired int64
	for id, membership := range m.memberships {
		if membership.Status == database.MembershipStatusActive &&
			membership.ExpiresAt != nil && membership.ExpiresAt.Before(time.Now()) {
			_ = m.expireMembership(id)
			expired++
		}
	}
	return expired, nil
}

func (m *memStore) GetEvents(_ context.Context) ([]database.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []database.Event
	for _, event := range m.events {
		events = append(events, event)
	}
	return events, nil
}

func (m *memStore) GetEvent(_ context.Context, eventID uuid.UUID) (*database.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.events[eventID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &event, nil
}

func (m *memStore) GetEventsByClubs(_ context.Context, clubIDs []uuid.UUID) ([]database.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []database.Event
	for _, event := range m.events {
		if slices.Contains(clubIDs, event.ClubID) {
			events = append(events, event)
		}
	}
	return events, nil
}

func (m *memStore) GetEventsByIDs(_ context.Context, eventIDs []uuid.UUID) ([]database.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []database.Event
	for _, id := range eventIDs {
		if event, ok := m.events[id]; ok {
			events = append(events, event)
		}
	}
	return events, nil
}

func (m *memStore) InsertEvent(_ context.Context, event database.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
	return nil
}

func (m *memStore) UpdateEvent(_ context.Context, eventID uuid.UUID, update database.EventUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.events[eventID]
	if !ok {
		return database.ErrNotFound
	}
	event.Title = update.Title
	event.Description = update.Description
	if update.Date.Valid {
		event.Date = update.Date.Time
	}
	event.Location = update.Location
	event.IsPaid = update.IsPaid
	event.Fee = update.Fee
	event.MaxAttendees = update.MaxAttendees
	event.UpdatedAt = time.Now()
	m.events[eventID] = event
	return nil
}

func (m *memStore) DeleteEvent(_ context.Context, eventID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[eventID]; !ok {
		return database.ErrNotFound
	}
	delete(m.events, eventID)
	return nil
}

func (m *memStore) CountEvents(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events), nil
}

func (m *memStore) CreateRegistration(_ context.Context, registration database.EventRegistration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.events[registration.EventID]
	if !ok {
		return database.ErrNotFound
	}
	for _, existing := range m.registrations {
		if existing.EventID == registration.EventID && existing.UserEmail == registration.UserEmail {
			return database.ErrAlreadyRegistered
		}
	}
	if event.RegisteredCount >= event.MaxAttendees {
		return database.ErrEventFull
	}
	m.registrations[registration.ID] = registration

	event.RegisteredCount++
	m.events[event.ID] = event
	return nil
}

func (m *memStore) GetRegistrationsByEvent(_ context.Context, eventID uuid.UUID) ([]database.EventRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var registrations []database.EventRegistration
	for _, registration := range m.registrations {
		if registration.EventID == eventID {
			registrations = append(registrations, registration)
		}
	}
	return registrations, nil
}

func (m *memStore) GetRegistrationsByUser(_ context.Context, userEmail string) ([]database.EventRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var registrations []database.EventRegistration
	for _, registration := range m.registrations {
		if registration.UserEmail == userEmail {
			registrations = append(registrations, registration)
		}
	}
	return registrations, nil
}

func (m *memStore) InsertPayment(_ context.Context, payment database.Payment) (*database.Payment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.payments {
		if existing.ProviderID == payment.ProviderID {
			return &existing, false, nil
		}
	}
	m.payments[payment.ID] = payment
	return &payment, true, nil
}

func (m *memStore) GetPaymentByProviderID(_ context.Context, providerID string) (*database.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, payment := range m.payments {
		if payment.ProviderID == providerID {
			return &payment, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memStore) GetPaymentByTrackingID(_ context.Context, trackingID string) (*database.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, payment := range m.payments {
		if payment.TrackingID == trackingID {
			return &payment, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memStore) GetPayments(_ context.Context, userEmail string) ([]database.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var payments []database.Payment
	for _, payment := range m.payments {
		if userEmail == "" || payment.UserEmail == userEmail {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

func (m *memStore) SumPayments(_ context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sum float64
	for _, payment := range m.payments {
		sum += payment.Amount
	}
	return sum, nil
}

func (m *memStore) CreateManagerApplication(_ context.Context, application database.ManagerApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.applications {
		if existing.UserEmail == application.UserEmail {
			return database.ErrAlreadyApplied
		}
	}
	m.applications[application.ID] = application
	return nil
}

func (m *memStore) GetManagerApplications(_ context.Context) ([]database.ManagerApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var applications []database.ManagerApplication
	for _, application := range m.applications {
		applications = append(applications, application)
	}
	return applications, nil
}

func (m *memStore) GetManagerApplication(_ context.Context, id uuid.UUID) (*database.ManagerApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	application, ok := m.applications[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &application, nil
}

func (m *memStore) DecideManagerApplication(_ context.Context, id uuid.UUID, status string) (*database.ManagerApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	application, ok := m.applications[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if application.Status != database.ApplicationStatusPending {
		return nil, database.ErrAlreadyDecided
	}
	now := time.Now()
	application.Status = status
	application.DecidedAt = &now
	m.applications[id] = application
	return &application, nil
}

func (m *memStore) InsertContactMessage(_ context.Context, message database.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contact[message.ID] = message
	return nil
}

func (m *memStore) GetContactMessages(_ context.Context) ([]database.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var messages []database.ContactMessage
	for _, message := range m.contact {
		messages = append(messages, message)
	}
	return messages, nil
}
