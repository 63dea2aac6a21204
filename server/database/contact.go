package database

import (
	"context"
	"fmt"
)

func (d *Database) InsertContactMessage(ctx context.Context, message ContactMessage) error {
	query := `
		INSERT INTO contact_messages (contact_id, contact_name, contact_email, contact_subject, contact_message, contact_created_at)
		VALUES (:contact_id, :contact_name, :contact_email, :contact_subject, :contact_message, :contact_created_at)
	`

	if _, err := d.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("failed to insert contact message: %w", err)
	}

	return nil
}

func (d *Database) GetContactMessages(ctx context.Context) ([]ContactMessage, error) {
	var messages []ContactMessage
	if err := d.db.SelectContext(ctx, &messages, `SELECT * FROM contact_messages ORDER BY contact_created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to get contact messages: %w", err)
	}

	return messages, nil
}
