package checkout

// PaymentStatusPaid is the provider's status for a completed charge.
const PaymentStatusPaid = "paid"

// Session mirrors the provider's checkout session object, reduced to the
// fields the confirmation flow needs. PaymentIntent is the stable external
// transaction id used as the payment idempotency key.
type Session struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email"`
	PaymentIntent string            `json:"payment_intent"`
	Metadata      map[string]string `json:"metadata"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
