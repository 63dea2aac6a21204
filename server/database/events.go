package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func (d *Database) GetEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := d.db.SelectContext(ctx, &events, `SELECT * FROM events ORDER BY event_date ASC`); err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	return events, nil
}

func (d *Database) GetEvent(ctx context.Context, eventID uuid.UUID) (*Event, error) {
	var event Event
	if err := d.db.GetContext(ctx, &event, `SELECT * FROM events WHERE event_id = $1`, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

func (d *Database) GetEventsByClubs(ctx context.Context, clubIDs []uuid.UUID) ([]Event, error) {
	if len(clubIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM events WHERE event_club_id IN (?)`, clubIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build event query: %w", err)
	}

	var events []Event
	if err = d.db.SelectContext(ctx, &events, d.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get events by clubs: %w", err)
	}

	return events, nil
}

func (d *Database) GetEventsByIDs(ctx context.Context, eventIDs []uuid.UUID) ([]Event, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM events WHERE event_id IN (?)`, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build event query: %w", err)
	}

	var events []Event
	if err = d.db.SelectContext(ctx, &events, d.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get events by ids: %w", err)
	}

	return events, nil
}

func (d *Database) InsertEvent(ctx context.Context, event Event) error {
	query := `
		INSERT INTO events (event_id, event_club_id, event_title, event_description, event_date, event_location, event_is_paid, event_fee, event_max_attendees, event_registered_count, event_created_at, event_updated_at)
		VALUES (:event_id, :event_club_id, :event_title, :event_description, :event_date, :event_location, :event_is_paid, :event_fee, :event_max_attendees, :event_registered_count, :event_created_at, :event_updated_at)
	`

	if _, err := d.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// EventUpdate carries the manager-editable event fields.
type EventUpdate struct {
	Title        string
	Description  string
	Date         sql.NullTime
	Location     string
	IsPaid       bool
	Fee          float64
	MaxAttendees int
}

func (d *Database) UpdateEvent(ctx context.Context, eventID uuid.UUID, update EventUpdate) error {
	query := `
		UPDATE events
		SET event_title         = $2,
		    event_description   = $3,
		    event_date          = COALESCE($4, event_date),
		    event_location      = $5,
		    event_is_paid       = $6,
		    event_fee           = $7,
		    event_max_attendees = $8,
		    event_updated_at    = now()
		WHERE event_id = $1
	`

	res, err := d.db.ExecContext(ctx, query, eventID, update.Title, update.Description, update.Date, update.Location, update.IsPaid, update.Fee, update.MaxAttendees)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (d *Database) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (d *Database) CountEvents(ctx context.Context) (int, error) {
	var count int
	if err := d.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM events`); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}
