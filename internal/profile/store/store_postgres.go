package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"companion/internal/profile/models"
	"companion/pkg/platform/sentinel"
	"companion/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// uniqueViolation is the PostgreSQL error code for a unique constraint.
const uniqueViolation = "23505"

// PostgresStore persists profiles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the profile tables when they are missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate profile schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Profile) error {
	_, err := tx.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO profiles (id, first_name, last_name, email, auth_sources, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.FirstName, p.LastName, p.Email, pq.Array(authSources(p)), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

const selectProfile = `
	SELECT id, first_name, last_name, email, auth_sources, created_at, updated_at
	FROM profiles`

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(tx.Conn(ctx, s.db).QueryRowContext(ctx, selectProfile+" WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	p, err := scanProfile(tx.Conn(ctx, s.db).QueryRowContext(ctx, selectProfile+" WHERE email = $1", email))
	if err != nil {
		return nil, fmt.Errorf("find profile by email: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Profile) error {
	res, err := tx.Conn(ctx, s.db).ExecContext(ctx, `
		UPDATE profiles
		SET first_name = $2, last_name = $3, email = $4, auth_sources = $5, updated_at = $6
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.Email, pq.Array(authSources(p)), p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AppendHistory(ctx context.Context, entries ...models.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return tx.Run(ctx, s.db, func(ctx context.Context) error {
		conn := tx.Conn(ctx, s.db)
		for _, e := range entries {
			_, err := conn.ExecContext(ctx, `
				INSERT INTO profile_history (profile_id, field, old_value, new_value, changed_at)
				VALUES ($1, $2, $3, $4, $5)`,
				e.ProfileID, e.Field, e.OldValue, e.NewValue, e.ChangedAt,
			)
			if err != nil {
				return fmt.Errorf("append profile history: %w", err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) ListHistory(ctx context.Context, id uuid.UUID) ([]models.HistoryEntry, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check profile: %w", err)
	}
	if !exists {
		return nil, sentinel.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT profile_id, field, old_value, new_value, changed_at
		FROM profile_history
		WHERE profile_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list profile history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ProfileID, &e.Field, &e.OldValue, &e.NewValue, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan profile history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profile history: %w", err)
	}
	return entries, nil
}

func scanProfile(row *sql.Row) (*models.Profile, error) {
	var p models.Profile
	var sources pq.StringArray
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &sources, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	p.AuthSources = []string(sources)
	if p.AuthSources == nil {
		p.AuthSources = []string{}
	}
	return &p, nil
}

// authSources avoids writing NULL into the NOT NULL array column.
func authSources(p *models.Profile) []string {
	if p.AuthSources == nil {
		return []string{}
	}
	return p.AuthSources
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
