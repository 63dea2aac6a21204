package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// UpsertUser records a first sign-in. An existing email is left untouched and
// reported via the returned bool, matching the sign-in flow where the identity
// provider may post the same profile repeatedly.
func (d *Database) UpsertUser(ctx context.Context, user User) (bool, error) {
	query := `
		INSERT INTO users (user_email, user_name, user_photo_url, user_role, user_created_at)
		VALUES (:user_email, :user_name, :user_photo_url, :user_role, :user_created_at)
		ON CONFLICT (user_email) DO NOTHING
	`

	res, err := d.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return false, fmt.Errorf("failed to upsert user: %w", err)
	}

	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

func (d *Database) GetUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := d.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY user_created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	return users, nil
}

func (d *Database) GetUser(ctx context.Context, email string) (*User, error) {
	var user User
	if err := d.db.GetContext(ctx, &user, `SELECT * FROM users WHERE user_email = $1`, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (d *Database) GetUsersByEmails(ctx context.Context, emails []string) ([]User, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM users WHERE user_email IN (?)`, emails)
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var users []User
	if err = d.db.SelectContext(ctx, &users, d.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get users by emails: %w", err)
	}

	return users, nil
}

func (d *Database) UpdateUserRole(ctx context.Context, email string, role string) error {
	res, err := d.db.ExecContext(ctx, `UPDATE users SET user_role = $2 WHERE user_email = $1`, email, role)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (d *Database) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := d.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
