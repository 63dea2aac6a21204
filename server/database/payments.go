package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InsertPayment records a completed charge. The unique constraint on the
// provider payment id is the idempotency key: a replayed confirmation loses
// the conflict and gets the already-stored row back instead of a second one.
// The returned bool reports whether this call inserted the row.
func (d *Database) InsertPayment(ctx context.Context, payment Payment) (*Payment, bool, error) {
	query := `
		INSERT INTO payments (payment_id, payment_amount, payment_currency, payment_user_email, payment_type, payment_club_id, payment_event_id, payment_provider_id, payment_tracking_id, payment_status, payment_paid_at)
		VALUES (:payment_id, :payment_amount, :payment_currency, :payment_user_email, :payment_type, :payment_club_id, :payment_event_id, :payment_provider_id, :payment_tracking_id, :payment_status, :payment_paid_at)
		ON CONFLICT (payment_provider_id) DO NOTHING
	`

	res, err := d.db.NamedExecContext(ctx, query, payment)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert payment: %w", err)
	}

	if rows, _ := res.RowsAffected(); rows > 0 {
		return &payment, true, nil
	}

	existing, err := d.GetPaymentByProviderID(ctx, payment.ProviderID)
	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

func (d *Database) GetPaymentByProviderID(ctx context.Context, providerID string) (*Payment, error) {
	var payment Payment
	if err := d.db.GetContext(ctx, &payment, `SELECT * FROM payments WHERE payment_provider_id = $1`, providerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

func (d *Database) GetPaymentByTrackingID(ctx context.Context, trackingID string) (*Payment, error) {
	query := `SELECT * FROM payments WHERE payment_tracking_id = $1 ORDER BY payment_paid_at ASC LIMIT 1`

	var payment Payment
	if err := d.db.GetContext(ctx, &payment, query, trackingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

// GetPayments returns payments, newest first, optionally for one user.
func (d *Database) GetPayments(ctx context.Context, userEmail string) ([]Payment, error) {
	query := `SELECT * FROM payments WHERE ($1 = '' OR payment_user_email = $1) ORDER BY payment_paid_at DESC`

	var payments []Payment
	if err := d.db.SelectContext(ctx, &payments, query, userEmail); err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	return payments, nil
}

func (d *Database) SumPayments(ctx context.Context) (float64, error) {
	var total float64
	if err := d.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(payment_amount), 0) FROM payments`); err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}
