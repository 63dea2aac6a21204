package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/topi314/gomigrate"
	"github.com/topi314/gomigrate/drivers/postgres"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyMember is returned when a user already holds a live membership for a club.
	ErrAlreadyMember = errors.New("already a member of this club")
	// ErrAlreadyRegistered is returned when a user is already registered for an event.
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrAlreadyApplied is returned when an email has already submitted a manager application.
	ErrAlreadyApplied = errors.New("manager application already submitted")
	// ErrEventFull is returned when an event has reached its attendee limit.
	ErrEventFull = errors.New("event is full")
	// ErrAlreadyDecided is returned when a terminal status would be transitioned again.
	ErrAlreadyDecided = errors.New("already decided")
)

type Config struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"ssl_mode"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n Host: %s\n Port: %d\n Username: %s\n Password: %s\n Database: %s\n SSLMode: %s",
		c.Host,
		c.Port,
		c.Username,
		"****",
		c.Database,
		c.SSLMode,
	)
}

func (c Config) DataSourceName() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.Username,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}

func New(cfg Config) (*Database, error) {
	dbx, err := sqlx.Connect("pgx", cfg.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = gomigrate.Migrate(ctx, dbx, postgres.New, migrations); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Database{
		db: dbx,
	}, nil
}

type Database struct {
	db *sqlx.DB
}

func (d *Database) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
