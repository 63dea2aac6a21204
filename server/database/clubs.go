package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ClubFilter narrows GetClubs. Zero values match everything.
type ClubFilter struct {
	Status       string
	ManagerEmail string
}

func (d *Database) GetClubs(ctx context.Context, filter ClubFilter) ([]Club, error) {
	query := `SELECT * FROM clubs WHERE ($1 = '' OR club_status = $1) AND ($2 = '' OR club_manager_email = $2) ORDER BY club_created_at DESC`

	var clubs []Club
	if err := d.db.SelectContext(ctx, &clubs, query, filter.Status, filter.ManagerEmail); err != nil {
		return nil, fmt.Errorf("failed to get clubs: %w", err)
	}

	return clubs, nil
}

// GetFeaturedClubs returns the highest-fee approved clubs for the landing page.
func (d *Database) GetFeaturedClubs(ctx context.Context, limit int) ([]Club, error) {
	query := `SELECT * FROM clubs WHERE club_status = $1 ORDER BY club_membership_fee DESC LIMIT $2`

	var clubs []Club
	if err := d.db.SelectContext(ctx, &clubs, query, ClubStatusApproved, limit); err != nil {
		return nil, fmt.Errorf("failed to get featured clubs: %w", err)
	}

	return clubs, nil
}

func (d *Database) GetClub(ctx context.Context, clubID uuid.UUID) (*Club, error) {
	var club Club
	if err := d.db.GetContext(ctx, &club, `SELECT * FROM clubs WHERE club_id = $1`, clubID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get club: %w", err)
	}

	return &club, nil
}

func (d *Database) InsertClub(ctx context.Context, club Club) error {
	query := `
		INSERT INTO clubs (club_id, club_name, club_description, club_category, club_location, club_banner_image, club_membership_fee, club_manager_email, club_status, club_member_count, club_created_at, club_updated_at)
		VALUES (:club_id, :club_name, :club_description, :club_category, :club_location, :club_banner_image, :club_membership_fee, :club_manager_email, :club_status, :club_member_count, :club_created_at, :club_updated_at)
	`

	if _, err := d.db.NamedExecContext(ctx, query, club); err != nil {
		return fmt.Errorf("failed to insert club: %w", err)
	}

	return nil
}

// ClubUpdate carries the manager-editable club fields.
type ClubUpdate struct {
	Name          string
	Description   string
	Category      string
	Location      string
	BannerImage   string
	MembershipFee float64
}

func (d *Database) UpdateClub(ctx context.Context, clubID uuid.UUID, update ClubUpdate) error {
	query := `
		UPDATE clubs
		SET club_name           = $2,
		    club_description    = $3,
		    club_category       = $4,
		    club_location       = $5,
		    club_banner_image   = $6,
		    club_membership_fee = $7,
		    club_updated_at     = now()
		WHERE club_id = $1
	`

	res, err := d.db.ExecContext(ctx, query, clubID, update.Name, update.Description, update.Category, update.Location, update.BannerImage, update.MembershipFee)
	if err != nil {
		return fmt.Errorf("failed to update club: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DecideClub moves a pending club to approved or rejected. Both outcomes are
// terminal: deciding an already-decided club fails instead of resurrecting it.
func (d *Database) DecideClub(ctx context.Context, clubID uuid.UUID, status string) error {
	query := `UPDATE clubs SET club_status = $2, club_updated_at = now() WHERE club_id = $1 AND club_status = $3`

	res, err := d.db.ExecContext(ctx, query, clubID, status, ClubStatusPending)
	if err != nil {
		return fmt.Errorf("failed to decide club: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		if _, err = d.GetClub(ctx, clubID); err != nil {
			return err
		}
		return ErrAlreadyDecided
	}

	return nil
}

func (d *Database) DeleteClub(ctx context.Context, clubID uuid.UUID) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM clubs WHERE club_id = $1`, clubID)
	if err != nil {
		return fmt.Errorf("failed to delete club: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (d *Database) CountClubs(ctx context.Context) (int, error) {
	var count int
	if err := d.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM clubs`); err != nil {
		return 0, fmt.Errorf("failed to count clubs: %w", err)
	}
	return count, nil
}
