package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// CreateRegistration registers a user for an event. The unique (event, user)
// constraint rejects double registration first, then capacity is claimed with
// a guarded counter increment in the same transaction, so two concurrent
// requests for the last seat cannot both succeed and the rollback releases the
// inserted row when the event is full.
func (d *Database) CreateRegistration(ctx context.Context, registration EventRegistration) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "failed to rollback transaction", slog.Any("err", err))
		}
	}()

	query := `
		INSERT INTO event_registrations (registration_id, registration_event_id, registration_user_email, registration_status, registration_payment_id, registration_registered_at)
		VALUES (:registration_id, :registration_event_id, :registration_user_email, :registration_status, :registration_payment_id, :registration_registered_at)
	`

	if _, err = tx.NamedExecContext(ctx, query, registration); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to insert registration: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE events
		SET event_registered_count = event_registered_count + 1
		WHERE event_id = $1 AND event_registered_count < event_max_attendees
	`, registration.EventID)
	if err != nil {
		return fmt.Errorf("failed to claim event capacity: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		if _, err = d.GetEvent(ctx, registration.EventID); err != nil {
			return err
		}
		return ErrEventFull
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (d *Database) GetRegistrationsByEvent(ctx context.Context, eventID uuid.UUID) ([]EventRegistration, error) {
	query := `SELECT * FROM event_registrations WHERE registration_event_id = $1 ORDER BY registration_registered_at ASC`

	var registrations []EventRegistration
	if err := d.db.SelectContext(ctx, &registrations, query, eventID); err != nil {
		return nil, fmt.Errorf("failed to get event registrations: %w", err)
	}

	return registrations, nil
}

func (d *Database) GetRegistrationsByUser(ctx context.Context, userEmail string) ([]EventRegistration, error) {
	query := `SELECT * FROM event_registrations WHERE registration_user_email = $1 ORDER BY registration_registered_at DESC`

	var registrations []EventRegistration
	if err := d.db.SelectContext(ctx, &registrations, query, userEmail); err != nil {
		return nil, fmt.Errorf("failed to get user registrations: %w", err)
	}

	return registrations, nil
}
