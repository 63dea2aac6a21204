package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateManagerApplication records an application to become a manager. The
// unique constraint on the email enforces one application per user.
func (d *Database) CreateManagerApplication(ctx context.Context, application ManagerApplication) error {
	query := `
		INSERT INTO manager_applications (application_id, application_user_email, application_motivation, application_experience, application_status, application_created_at, application_decided_at)
		VALUES (:application_id, :application_user_email, :application_motivation, :application_experience, :application_status, :application_created_at, :application_decided_at)
	`

	if _, err := d.db.NamedExecContext(ctx, query, application); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyApplied
		}
		return fmt.Errorf("failed to insert manager application: %w", err)
	}

	return nil
}

func (d *Database) GetManagerApplications(ctx context.Context) ([]ManagerApplication, error) {
	var applications []ManagerApplication
	if err := d.db.SelectContext(ctx, &applications, `SELECT * FROM manager_applications ORDER BY application_created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to get manager applications: %w", err)
	}

	return applications, nil
}

func (d *Database) GetManagerApplication(ctx context.Context, id uuid.UUID) (*ManagerApplication, error) {
	var application ManagerApplication
	if err := d.db.GetContext(ctx, &application, `SELECT * FROM manager_applications WHERE application_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get manager application: %w", err)
	}

	return &application, nil
}

// DecideManagerApplication moves a pending application to approved or
// rejected. Decisions are terminal.
func (d *Database) DecideManagerApplication(ctx context.Context, id uuid.UUID, status string) (*ManagerApplication, error) {
	query := `
		UPDATE manager_applications
		SET application_status = $2, application_decided_at = now()
		WHERE application_id = $1 AND application_status = $3
		RETURNING *
	`

	var application ManagerApplication
	if err := d.db.GetContext(ctx, &application, query, id, status, ApplicationStatusPending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, err = d.GetManagerApplication(ctx, id); err != nil {
				return nil, err
			}
			return nil, ErrAlreadyDecided
		}
		return nil, fmt.Errorf("failed to decide manager application: %w", err)
	}

	return &application, nil
}
