package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"github.com/clubsphere/clubsphere/internal/xio"
	"github.com/clubsphere/clubsphere/internal/xrand"
	"github.com/clubsphere/clubsphere/server/auth"
	"github.com/clubsphere/clubsphere/server/checkout"
	"github.com/clubsphere/clubsphere/server/database"
)

const paidMembershipDuration = 365 * 24 * time.Hour

type CreateCheckoutSessionRequest struct {
	ClubID  string `json:"clubId"`
	EventID string `json:"eventId"`
}

type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

type PaymentConfirmation struct {
	Success       bool   `json:"success"`
	TrackingID    string `json:"trackingId"`
	TransactionID string `json:"transactionId"`
}

func (h *handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	var rq CreateCheckoutSessionRequest
	if err := decode(r, &rq); err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid request body")
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
	if club.MembershipFee <= 0 {
		h.message(w, r, http.StatusBadRequest, "Club is free to join")
		return
	}

	isMember, err := h.DB.HasLiveMembership(ctx, user.Email, club.ID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if isMember {
		h.message(w, r, http.StatusConflict, "Already a member of this club")
		return
	}

	session, err := h.Checkout.CreateSession(ctx, checkout.CreateSessionParams{
		ProductName:   fmt.Sprintf("%s Membership", club.Name),
		Amount:        int64(club.MembershipFee * 100),
		CustomerEmail: user.Email,
		SuccessURL:    h.Cfg.Checkout.SiteURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     h.Cfg.Checkout.SiteURL + "/payment-cancelled",
		Metadata: map[string]string{
			"type":      database.PaymentTypeMembership,
			"clubId":    club.ID.String(),
			"userEmail": user.Email,
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create checkout session", slog.Any("err", err))
		h.message(w, r, http.StatusBadGateway, "Failed to create checkout session")
		return
	}

	h.json(w, r, http.StatusOK, CheckoutSessionResponse{URL: session.URL})
}

func (h *handler) CreateEventCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	var rq CreateCheckoutSessionRequest
	if err := decode(r, &rq); err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	eventID, err := uuid.Parse(rq.EventID)
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid event id")
		return
	}

	event, err := h.DB.GetEvent(ctx, eventID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !event.IsPaid || event.Fee <= 0 {
		h.message(w, r, http.StatusBadRequest, "Event is free to register")
		return
	}
	if event.RegisteredCount >= event.MaxAttendees {
		h.message(w, r, http.StatusConflict, "Event is full")
		return
	}

	session, err := h.Checkout.CreateSession(ctx, checkout.CreateSessionParams{
		ProductName:   fmt.Sprintf("%s Ticket", event.Title),
		Amount:        int64(event.Fee * 100),
		CustomerEmail: user.Email,
		SuccessURL:    h.Cfg.Checkout.SiteURL + "/event-payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     h.Cfg.Checkout.SiteURL + "/payment-cancelled",
		Metadata: map[string]string{
			"type":      database.PaymentTypeEvent,
			"eventId":   event.ID.String(),
			"userEmail": user.Email,
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create checkout session", slog.Any("err", err))
		h.message(w, r, http.StatusBadGateway, "Failed to create checkout session")
		return
	}

	h.json(w, r, http.StatusOK, CheckoutSessionResponse{URL: session.URL})
}

// ConfirmMembershipPayment finalizes a paid club join. The flow is idempotent
// on the provider's payment intent id: replays and concurrent confirmations
// of the same session answer with the originally recorded tracking id.
func (h *handler) ConfirmMembershipPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := h.paidSession(w, r)
	if !ok {
		return
	}

	payment, _, err := h.recordPayment(ctx, session, database.PaymentTypeMembership)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	// The membership insert runs on replays too. If a previous confirmation
	// stored the payment but failed before the membership landed, the retry
	// completes it; the duplicate key error covers the happy replay.
	clubID, err := uuid.Parse(session.Metadata["clubId"])
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid club id in session metadata")
		return
	}
	club, err := h.DB.GetClub(ctx, clubID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	expiresAt := payment.PaidAt.Add(paidMembershipDuration)
	err = h.DB.CreateMembership(ctx, database.Membership{
		ID:        uuid.New(),
		UserEmail: payment.UserEmail,
		ClubID:    club.ID,
		ClubName:  club.Name,
		Status:    database.MembershipStatusActive,
		PaymentID: &payment.ProviderID,
		JoinedAt:  payment.PaidAt,
		ExpiresAt: &expiresAt,
		Fee:       payment.Amount,
	})
	if err != nil && !errors.Is(err, database.ErrAlreadyMember) {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, PaymentConfirmation{
		Success:       true,
		TrackingID:    payment.TrackingID,
		TransactionID: payment.ProviderID,
	})
}

// ConfirmEventPayment finalizes a paid event registration, idempotent the same
// way as ConfirmMembershipPayment.
func (h *handler) ConfirmEventPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := h.paidSession(w, r)
	if !ok {
		return
	}

	payment, _, err := h.recordPayment(ctx, session, database.PaymentTypeEvent)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	eventID, err := uuid.Parse(session.Metadata["eventId"])
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid event id in session metadata")
		return
	}

	err = h.DB.CreateRegistration(ctx, database.EventRegistration{
		ID:           uuid.New(),
		EventID:      eventID,
		UserEmail:    payment.UserEmail,
		Status:       database.RegistrationStatusRegistered,
		PaymentID:    &payment.ProviderID,
		RegisteredAt: payment.PaidAt,
	})
	if err != nil && !errors.Is(err, database.ErrAlreadyRegistered) {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, PaymentConfirmation{
		Success:       true,
		TrackingID:    payment.TrackingID,
		TransactionID: payment.ProviderID,
	})
}

// paidSession retrieves the checkout session named by the session_id query
// parameter and validates it is settled. It writes the error response itself
// when ok is false.
func (h *handler) paidSession(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	ctx := r.Context()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		h.message(w, r, http.StatusBadRequest, "Missing session_id")
		return nil, false
	}

	session, err := h.Checkout.Session(ctx, sessionID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to retrieve checkout session", slog.Any("err", err))
		h.message(w, r, http.StatusBadRequest, "Failed to verify payment session")
		return nil, false
	}
	if session.PaymentStatus != checkout.PaymentStatusPaid {
		h.message(w, r, http.StatusBadRequest, "Payment not completed")
		return nil, false
	}
	if session.PaymentIntent == "" {
		h.message(w, r, http.StatusBadRequest, "Session has no payment intent")
		return nil, false
	}

	return session, true
}

// recordPayment stores the payment for a settled session exactly once.
// inserted reports whether this call recorded it; on a replay or a lost
// insert race the already stored payment is returned instead.
func (h *handler) recordPayment(ctx context.Context, session *checkout.Session, paymentType string) (*database.Payment, bool, error) {
	existing, err := h.DB.GetPaymentByProviderID(ctx, session.PaymentIntent)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, false, err
	}

	userEmail := session.Metadata["userEmail"]
	if userEmail == "" {
		userEmail = session.CustomerEmail
	}

	payment := database.Payment{
		ID:         uuid.New(),
		Amount:     float64(session.AmountTotal) / 100,
		Currency:   session.Currency,
		UserEmail:  userEmail,
		Type:       paymentType,
		ProviderID: session.PaymentIntent,
		TrackingID: xrand.TrackingID(),
		Status:     "completed",
		PaidAt:     time.Now(),
	}
	if clubID := session.Metadata["clubId"]; clubID != "" {
		payment.ClubID = &clubID
	}
	if eventID := session.Metadata["eventId"]; eventID != "" {
		payment.EventID = &eventID
	}

	return h.DB.InsertPayment(ctx, payment)
}

func (h *handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	email := r.URL.Query().Get("email")
	if email == "" && user.Role != database.RoleAdmin {
		email = user.Email
	}
	if email != "" && !canActFor(user, email) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	payments, err := h.DB.GetPayments(ctx, email)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	out := make([]Payment, 0, len(payments))
	for _, payment := range payments {
		out = append(out, newPayment(payment))
	}

	h.json(w, r, http.StatusOK, out)
}

// GetPaymentTicket renders the payment's tracking id as a PNG QR code.
func (h *handler) GetPaymentTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	trackingID := r.PathValue("tracking_id")

	payment, err := h.DB.GetPaymentByTrackingID(ctx, trackingID)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if !canActFor(user, payment.UserEmail) {
		h.message(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	qr, err := qrcode.New(payment.TrackingID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create qrcode", slog.Any("err", err))
		h.message(w, r, http.StatusInternalServerError, "Failed to create ticket")
		return
	}

	w.Header().Set("Content-Type", "image/png")

	qrW := standard.NewWithWriter(xio.NewResponseWriteCloser(w),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	defer func() {
		_ = qrW.Close()
	}()
	if err = qr.Save(qrW); err != nil {
		slog.ErrorContext(ctx, "Failed to save qrcode", slog.Any("err", err))
	}
}
