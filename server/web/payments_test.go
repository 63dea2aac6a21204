package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubsphere/clubsphere/server/database"
)

// faultStore fails membership and registration inserts a configurable number
// of times before delegating, modeling a store outage between the payment
// insert and the follow-up write.
type faultStore struct {
	*memStore
	membershipFaults   int
	registrationFaults int
}

func (f *faultStore) CreateMembership(ctx context.Context, membership database.Membership) error {
	if f.membershipFaults > 0 {
		f.membershipFaults--
		return errors.New("connection reset")
	}
	return f.memStore.CreateMembership(ctx, membership)
}

func (f *faultStore) CreateRegistration(ctx context.Context, registration database.EventRegistration) error {
	if f.registrationFaults > 0 {
		f.registrationFaults--
		return errors.New("connection reset")
	}
	return f.memStore.CreateRegistration(ctx, registration)
}

// fakeProvider answers checkout API calls: session retrieval from sessions,
// session creation with a canned redirect URL.
func fakeProvider(t *testing.T, sessions map[string]map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/checkout/sessions", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.NotEmpty(t, r.PostForm.Get("line_items[0][price_data][unit_amount]"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":  "cs_new",
			"url": "https://pay.example/cs_new",
		})
	})
	mux.HandleFunc("GET /v1/checkout/sessions/{session_id}", func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessions[r.PathValue("session_id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout session"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(session)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCreateCheckoutSession(t *testing.T) {
	store := newMemStore()
	provider := fakeProvider(t, nil)
	h := newTestHandler(t, store, provider.URL)
	club := seedClub(t, store, 500, database.ClubStatusApproved)

	w := doRequest(t, h, http.MethodPost, "/create-checkout-session", signToken(t, "u1@test.dev", "User One"), CreateCheckoutSessionRequest{ClubID: club.ID.String()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://pay.example/cs_new", decodeResponse[CheckoutSessionResponse](t, w).URL)
}

func TestCreateCheckoutSessionForFreeClub(t *testing.T) {
	store := newMemStore()
	provider := fakeProvider(t, nil)
	h := newTestHandler(t, store, provider.URL)
	club := seedClub(t, store, 0, database.ClubStatusApproved)

	w := doRequest(t, h, http.MethodPost, "/create-checkout-session", signToken(t, "u1@test.dev", "User One"), CreateCheckoutSessionRequest{ClubID: club.ID.String()})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmMembershipPayment(t *testing.T) {
	store := newMemStore()
	club := seedClub(t, store, 500, database.ClubStatusApproved)
	provider := fakeProvider(t, map[string]map[string]any{
		"cs_1": {
			"id":             "cs_1",
			"payment_status": "paid",
			"amount_total":   50000,
			"currency":       "bdt",
			"customer_email": "u1@test.dev",
			"payment_intent": "pi_123",
			"metadata": map[string]string{
				"type":      database.PaymentTypeMembership,
				"clubId":    club.ID.String(),
				"userEmail": "u1@test.dev",
			},
		},
	})
	h := newTestHandler(t, store, provider.URL)
	token := signToken(t, "u1@test.dev", "User One")

	w := doRequest(t, h, http.MethodPatch, "/payment-success?session_id=cs_1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	confirmation := decodeResponse[PaymentConfirmation](t, w)
	assert.True(t, confirmation.Success)
	assert.Equal(t, "pi_123", confirmation.TransactionID)
	assert.Regexp(t, `^TRX-\d+-\d{5}$`, confirmation.TrackingID)

	w = doRequest(t, h, http.MethodGet, "/memberships?userEmail=u1@test.dev", token, nil)
	memberships := decodeResponse[[]Membership](t, w)
	require.Len(t, memberships, 1)
	assert.Equal(t, database.MembershipStatusActive, memberships[0].Status)
	require.NotNil(t, memberships[0].PaymentID)
	assert.Equal(t, "pi_123", *memberships[0].PaymentID)
	require.NotNil(t, memberships[0].ExpiresAt)

	w = doRequest(t, h, http.MethodGet, "/clubs/"+club.ID.String(), "", nil)
	assert.Equal(t, 1, decodeResponse[Club](t, w).MemberCount)
}

func TestConfirmMembershipPaymentReplay(t *testing.T) {
	store := newMemStore()
	club := seedClub(t, store, 500, database.ClubStatusApproved)
	provider := fakeProvider(t, map[string]map[string]any{
		"cs_1": {
			"id":             "cs_1",
			"payment_status": "paid",
			"amount_total":   50000,
			"currency":       "bdt",
			"customer_email": "u1@test.dev",
			"payment_intent": "pi_123",
			"metadata": map[string]string{
				"type":      database.PaymentTypeMembership,
				"clubId":    club.ID.String(),
				"userEmail": "u1@test.dev",
			},
		},
	})
	h := newTestHandler(t, store, provider.URL)
	token := signToken(t, "u1@test.dev", "User One")

	w := doRequest(t, h, http.MethodPatch, "/payment-success?session_id=cs_1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := decodeResponse[PaymentConfirmation](t, w)

	w = doRequest(t, h, http.MethodPatch, "/payment-success?session_id=cs_1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeResponse[PaymentConfirmation](t, w)

	assert.Equal(t, first.TrackingID, second.TrackingID)
	assert.Equal(t, first.TransactionID, second.TransactionID)

	// The replay recorded nothing new.
	w = doRequest(t, h, http.MethodGet, "/payments", token, nil)
	require.Len(t, decodeResponse[[]Payment](t, w), 1)

	w = doRequest(t, h, http.MethodGet, "/memberships?userEmail=u1@test.dev", token, nil)
	require.Len(t, decodeResponse[[]Membership](t, w), 1)

	w = doRequest(t, h, http.MethodGet, "/clubs/"+club.ID.String(), "", nil)
	assert.Equal(t, 1, decodeResponse[Club](t, w).MemberCount)
}

func TestConfirmMembershipPaymentRetryAfterStoreFailure(t *testing.T) {
	mem := newMemStore()
	store := &faultStore{memStore: mem, membershipFaults: 1}
	club := seedClub(t, mem, 500, database.ClubStatusApproved)
	provider := fakeProvider(t, map[string]map[string]any{
		"cs_1": {
			"id":             "cs_1",
			"payment_status": "paid",
			"amount_total":   50000,
			"currency":       "bdt",
			"customer_email": "u1@test.dev",
			"payment_intent": "pi_123",
			"metadata": map[string]string{
				"type":      database.PaymentTypeMembership,
				"clubId":    club.ID.String(),
				"userEmail": "u1@test.dev",
			},
		},
	})
	h := newTestHandler(t, store, provider.URL)
	token := signToken(t, "u1@test.dev", "User One")

	// The payment is recorded but the membership insert fails.
	w := doRequest(t, h, http.MethodPatch, "/payment-success?session_id=cs_1", token, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(t, h, http.MethodGet, "/payments", token, nil)
	require.Len(t, decodeResponse[[]Payment](t, w), 1)
	w = doRequest(t, h, http.MethodGet, "/memberships?userEmail=u1@test.dev", token, nil)
	require.Empty(t, decodeResponse[[]Membership](t, w))

	// The retry finds the payment already stored and completes the membership.
	w = doRequest(t, h, http.MethodPatch, "/payment-success?session_id=cs_1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	confirmation := decodeResponse[PaymentConfirmation](t, w)
	assert.True(t, confirmation.Success)
	assert.Equal(t, "pi_123", confirmation.TransactionID)

	w = doRequest(t, h, http.MethodGet, "/payments", token, nil)
	require.Len(t, decodeResponse[[]Payment](t, w), 1)
	w = doRequest(t, h, http.MethodGet, "/memberships?userEmail=u1@test.dev", token, nil)
	memberships := decodeResponse[[]Membership](t, w)
	require.Len(t, memberships, 1)
	assert.Equal(t, database.MembershipStatusActive, memberships[0].Status)

	w = doRequest(t, h, http.MethodGet, "/clubs/"+club.ID.String(), "", nil)
	assert.Equal(t, 1, decodeResponse[Club](t, w).MemberCount)
}

func TestConfirmEventPaymentRetryAfterStoreFailure(t *testing.T) {
	mem := newMemStore()
	store := &faultStore{memStore: mem, registrationFaults: 1}
	club := seedClub(t, mem, 0, database.ClubStatusApproved)
	event := seedEvent(t, mem, club.ID, true, 100, 10)
	provider := fakeProvider(t, map[string]map[string]any{
		"cs_evt": {
			"id":             "cs_evt",
			"payment_status": "paid",
			"amount_total":   10000,
			"currency":       "bdt",
			"customer_email": "u1@test.dev",
			"payment_intent": "pi_evt_1",
			"metadata": map[string]string{
				"type":      database.PaymentTypeEvent,
				"eventId":   event.ID.String(),
				"userEmail": "u1@test.dev",
			},
		},
	})
	h := newTestHandler(t, store, provider.URL)
	token := signToken(t, "u1@test.dev", "User One")

	w := doRequest(t, h, http.MethodPatch, "/event-payment-success?session_id=cs_evt", token, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(t, h, http.MethodGet, "/events/"+event.ID.String(), "", nil)
	require.Equal(t, 0, decodeResponse[Event](t, w).RegisteredCount)

	w = doRequest(t, h, http.MethodPatch, "/event-payment-success?session_id=cs_evt", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, h, http.MethodGet, "/events/"+event.ID.String(), "", nil)
	assert.Equal(t, 1, decodeResponse[Event](t, w).RegisteredCount)
	w = doRequest(t, h, http.MethodGet, "/payments", token, nil)
	require.Len(t, decodeResponse[[]Payment](t, w), 1)
}

func TestConfirmUnpaidSession(t *testing.T) {
	store := newMemStore()
	club := seedClub(t, store, 500, database.ClubStatusApproved)
	provider := fakeProvider(t, map[string]map[string]any{
		"cs_unpaid": {
			"id":             "cs_unpaid",
			"payment_status": "unpaid",
			"payment_intent": "pi_456",
			"metadata": map[string]string{
				"clubId":    club.ID.String(),
				"userEmail": "u1@test.dev",
			},
		},
	})
	h := newTestHandler(t, store, provider.URL)
	token := signToken(t, "u1@test.dev", "User One")

	w := doRequest(t, h, http.MethodPatch, "/payment-success?session_id=cs_unpaid", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Payment not completed", decodeResponse[MessageResponse](t, w).Message)

	w = doRequest(t, h, http.MethodGet, "/payments", token, nil)
	assert.Empty(t, decodeResponse[[]Payment](t, w))
}

func TestConfirmUnknownSession(t *testing.T) {
	store := newMemStore()
	provider := fakeProvider(t, nil)
	h := newTestHandler(t, store, provider.URL)

	w := doRequest(t, h, http.MethodPatch, "/payment-success?session_id=cs_missing", signToken(t, "u1@test.dev", "User One"), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmEventPayment(t *testing.T) {
	store := newMemStore()
	club := seedClub(t, store, 0, database.ClubStatusApproved)
	event := seedEvent(t, store, club.ID, true, 100, 10)
	provider := fakeProvider(t, map[string]map[string]any{
		"cs_evt": {
			"id":             "cs_evt",
			"payment_status": "paid",
			"amount_total":   10000,
			"currency":       "bdt",
			"customer_email": "u1@test.dev",
			"payment_intent": "pi_evt_1",
			"metadata": map[string]string{
				"type":      database.PaymentTypeEvent,
				"eventId":   event.ID.String(),
				"userEmail": "u1@test.dev",
			},
		},
	})
	h := newTestHandler(t, store, provider.URL)
	token := signToken(t, "u1@test.dev", "User One")

	w := doRequest(t, h, http.MethodPatch, "/event-payment-success?session_id=cs_evt", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Replay answers with the same tracking id and registers nothing new.
	w = doRequest(t, h, http.MethodPatch, "/event-payment-success?session_id=cs_evt", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, h, http.MethodGet, "/events/"+event.ID.String(), "", nil)
	assert.Equal(t, 1, decodeResponse[Event](t, w).RegisteredCount)
}

func TestGetPaymentsForOtherUser(t *testing.T) {
	store := newMemStore()
	h := newTestHandler(t, store, "")

	w := doRequest(t, h, http.MethodGet, "/payments?email=other@test.dev", signToken(t, "u1@test.dev", "User One"), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetPaymentTicket(t *testing.T) {
	store := newMemStore()
	club := seedClub(t, store, 500, database.ClubStatusApproved)
	provider := fakeProvider(t, map[string]map[string]any{
		"cs_1": {
			"id":             "cs_1",
			"payment_status": "paid",
			"amount_total":   50000,
			"currency":       "bdt",
			"customer_email": "u1@test.dev",
			"payment_intent": "pi_123",
			"metadata": map[string]string{
				"type":      database.PaymentTypeMembership,
				"clubId":    club.ID.String(),
				"userEmail": "u1@test.dev",
			},
		},
	})
	h := newTestHandler(t, store, provider.URL)
	token := signToken(t, "u1@test.dev", "User One")

	w := doRequest(t, h, http.MethodPatch, "/payment-success?session_id=cs_1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	confirmation := decodeResponse[PaymentConfirmation](t, w)

	w = doRequest(t, h, http.MethodGet, "/payments/"+confirmation.TrackingID+"/ticket", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	// Another user cannot fetch the ticket.
	w = doRequest(t, h, http.MethodGet, "/payments/"+confirmation.TrackingID+"/ticket", signToken(t, "u2@test.dev", "User Two"), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}
