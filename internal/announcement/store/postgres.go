package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pawtrail/internal/announcement/models"
	dErrors "pawtrail/pkg/domain-errors"
)

// PostgresStore persists announcements in PostgreSQL via database/sql.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed announcement store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// schema is applied on startup; idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS announcements (
	id               UUID PRIMARY KEY,
	species          TEXT NOT NULL,
	breed            TEXT NOT NULL DEFAULT '',
	sex              TEXT NOT NULL,
	age              INTEGER,
	description      TEXT NOT NULL DEFAULT '',
	microchip_number TEXT NOT NULL DEFAULT '',
	last_seen_date   DATE NOT NULL,
	latitude         DOUBLE PRECISION,
	longitude        DOUBLE PRECISION,
	city             TEXT NOT NULL DEFAULT '',
	radius_km        DOUBLE PRECISION,
	email            TEXT NOT NULL DEFAULT '',
	phone            TEXT NOT NULL DEFAULT '',
	photo_url        TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL,
	credential_hash  TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS announcements_microchip_uniq
	ON announcements (microchip_number) WHERE microchip_number <> '';
`

// EnsureSchema creates the announcements table and indexes if absent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure announcements schema: %w", err)
	}
	return nil
}

const announcementColumns = `id, species, breed, sex, age, description, microchip_number,
	last_seen_date, latitude, longitude, city, radius_km, email, phone,
	photo_url, status, credential_hash, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, a *models.Announcement) error {
	query := `
		INSERT INTO announcements (` + announcementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.Species, a.Breed, string(a.Sex), a.Age, a.Description, a.MicrochipNumber,
		a.LastSeenDate, a.Latitude, a.Longitude, a.City, a.RadiusKm, a.Email, a.Phone,
		a.PhotoURL, string(a.Status), a.CredentialHash, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return dErrors.New(dErrors.CodeConflict, "an announcement with this microchip number already exists").
				WithField("microchipNumber")
		}
		return fmt.Errorf("insert announcement: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id)
	a, err := scanAnnouncement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "announcement not found")
		}
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]*models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements`
	args := []any{}
	if f.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, a *models.Announcement) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE announcements
		SET photo_url = $2, status = $3, updated_at = $4
		WHERE id = $1
	`, a.ID, a.PhotoURL, string(a.Status), a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	if affected == 0 {
		return dErrors.New(dErrors.CodeNotFound, "announcement not found")
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if affected == 0 {
		return dErrors.New(dErrors.CodeNotFound, "announcement not found")
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAnnouncement(row scanner) (*models.Announcement, error) {
	var a models.Announcement
	var sex, status string
	err := row.Scan(
		&a.ID, &a.Species, &a.Breed, &sex, &a.Age, &a.Description, &a.MicrochipNumber,
		&a.LastSeenDate, &a.Latitude, &a.Longitude, &a.City, &a.RadiusKm, &a.Email, &a.Phone,
		&a.PhotoURL, &status, &a.CredentialHash, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Sex = models.Sex(sex)
	a.Status = models.Status(status)
	return &a, nil
}
