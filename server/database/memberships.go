package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreateMembership inserts a membership row. The partial unique index on
// (user_email, club_id) rejects a second live membership, so the join-once
// check and the insert are a single atomic statement. Active joins bump the
// club's member count in the same transaction.
func (d *Database) CreateMembership(ctx context.Context, membership Membership) error {
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
		INSERT INTO memberships (membership_id, membership_user_email, membership_club_id, membership_club_name, membership_status, membership_payment_id, membership_joined_at, membership_expires_at, membership_fee)
		VALUES (:membership_id, :membership_user_email, :membership_club_id, :membership_club_name, :membership_status, :membership_payment_id, :membership_joined_at, :membership_expires_at, :membership_fee)
	`

	if _, err = tx.NamedExecContext(ctx, query, membership); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyMember
		}
		return fmt.Errorf("failed to insert membership: %w", err)
	}

	if membership.Status == MembershipStatusActive {
		if _, err = tx.ExecContext(ctx, `UPDATE clubs SET club_member_count = club_member_count + 1 WHERE club_id = $1`, membership.ClubID); err != nil {
			return fmt.Errorf("failed to increment club member count: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (d *Database) GetMembership(ctx context.Context, id uuid.UUID) (*Membership, error) {
	var membership Membership
	if err := d.db.GetContext(ctx, &membership, `SELECT * FROM memberships WHERE membership_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &membership, nil
}

// GetActiveMemberships returns a user's active memberships.
func (d *Database) GetActiveMemberships(ctx context.Context, userEmail string) ([]Membership, error) {
	query := `SELECT * FROM memberships WHERE membership_user_email = $1 AND membership_status = $2 ORDER BY membership_joined_at DESC`

	var memberships []Membership
	if err := d.db.SelectContext(ctx, &memberships, query, userEmail, MembershipStatusActive); err != nil {
		return nil, fmt.Errorf("failed to get active memberships: %w", err)
	}

	return memberships, nil
}

func (d *Database) GetMembershipsByUser(ctx context.Context, userEmail string) ([]Membership, error) {
	query := `SELECT * FROM memberships WHERE membership_user_email = $1 ORDER BY membership_joined_at DESC`

	var memberships []Membership
	if err := d.db.SelectContext(ctx, &memberships, query, userEmail); err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}

	return memberships, nil
}

func (d *Database) GetMembershipsByClub(ctx context.Context, clubID uuid.UUID) ([]Membership, error) {
	query := `SELECT * FROM memberships WHERE membership_club_id = $1 ORDER BY membership_joined_at DESC`

	var memberships []Membership
	if err := d.db.SelectContext(ctx, &memberships, query, clubID); err != nil {
		return nil, fmt.Errorf("failed to get club memberships: %w", err)
	}

	return memberships, nil
}

func (d *Database) GetMembershipsByClubs(ctx context.Context, clubIDs []uuid.UUID) ([]Membership, error) {
	if len(clubIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM memberships WHERE membership_club_id IN (?)`, clubIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build membership query: %w", err)
	}

	var memberships []Membership
	if err = d.db.SelectContext(ctx, &memberships, d.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get memberships by clubs: %w", err)
	}

	return memberships, nil
}

// HasLiveMembership reports whether the user holds an active or
// pending-payment membership for the club.
func (d *Database) HasLiveMembership(ctx context.Context, userEmail string, clubID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM memberships
			WHERE membership_user_email = $1 AND membership_club_id = $2 AND membership_status IN ($3, $4)
		)
	`

	var exists bool
	if err := d.db.GetContext(ctx, &exists, query, userEmail, clubID, MembershipStatusActive, MembershipStatusPendingPayment); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	return exists, nil
}

// DeleteMembership removes a membership (leave club). Active rows give back
// their member-count slot.
func (d *Database) DeleteMembership(ctx context.Context, id uuid.UUID) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "failed to rollback transaction", slog.Any("err", err))
		}
	}()

	var membership Membership
	if err = tx.GetContext(ctx, &membership, `SELECT * FROM memberships WHERE membership_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get membership: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM memberships WHERE membership_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}

	if membership.Status == MembershipStatusActive {
		if _, err = tx.ExecContext(ctx, `UPDATE clubs SET club_member_count = club_member_count - 1 WHERE club_id = $1 AND club_member_count > 0`, membership.ClubID); err != nil {
			return fmt.Errorf("failed to decrement club member count: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ExpireMembership moves a membership to the terminal expired status.
func (d *Database) ExpireMembership(ctx context.Context, id uuid.UUID) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "failed to rollback transaction", slog.Any("err", err))
		}
	}()

	var membership Membership
	if err = tx.GetContext(ctx, &membership, `SELECT * FROM memberships WHERE membership_id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get membership: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE memberships SET membership_status = $2, membership_expires_at = now() WHERE membership_id = $1`, id, MembershipStatusExpired); err != nil {
		return fmt.Errorf("failed to expire membership: %w", err)
	}

	if membership.Status == MembershipStatusActive {
		if _, err = tx.ExecContext(ctx, `UPDATE clubs SET club_member_count = club_member_count - 1 WHERE club_id = $1 AND club_member_count > 0`, membership.ClubID); err != nil {
			return fmt.Errorf("failed to decrement club member count: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ExpireDueMemberships expires active memberships whose expiry date has
// passed and returns how many rows were affected. Used by the background
// sweeper.
func (d *Database) ExpireDueMemberships(ctx context.Context) (int64, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "failed to rollback transaction", slog.Any("err", err))
		}
	}()

	rows, err := tx.QueryxContext(ctx, `
		UPDATE memberships
		SET membership_status = $1
		WHERE membership_status = $2 AND membership_expires_at IS NOT NULL AND membership_expires_at < now()
		RETURNING membership_club_id
	`, MembershipStatusExpired, MembershipStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to expire due memberships: %w", err)
	}

	counts := map[uuid.UUID]int{}
	var expired int64
	for rows.Next() {
		var clubID uuid.UUID
		if err = rows.Scan(&clubID); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("failed to scan expired membership: %w", err)
		}
		counts[clubID]++
		expired++
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to iterate expired memberships: %w", err)
	}
	_ = rows.Close()

	for clubID, count := range counts {
		if _, err = tx.ExecContext(ctx, `UPDATE clubs SET club_member_count = GREATEST(club_member_count - $2, 0) WHERE club_id = $1`, clubID, count); err != nil {
			return 0, fmt.Errorf("failed to decrement club member count: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return expired, nil
}
