package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spindlefm/spindle/internal/models"
)

// CredentialRepository persists the single credential slot in SQLite.
//
// The credentials table is constrained to one row (slot = 1); Save is an
// upsert against that row so a write is atomic with respect to concurrent
// Load calls.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new [CredentialRepository] with the given
// database connection.
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Load reads the persisted credential. Returns (nil, nil) when the slot is
// empty, which means unauthenticated.
func (r *CredentialRepository) Load(ctx context.Context) (*models.Credential, error) {
	query := `
		SELECT id, access_token, refresh_token, expires_at
		FROM credentials
		WHERE slot = 1
	`

	var (
		id           string
		accessToken  string
		refreshToken sql.NullString
		expiresAt    time.Time
	)

	err := r.db.QueryRowContext(ctx, query).Scan(&id, &accessToken, &refreshToken, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credential: %w", err)
	}

	cred := &models.Credential{
		ID:          id,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}
	if refreshToken.Valid {
		cred.RefreshToken = refreshToken.String
	}

	return cred, nil
}

// Save writes the credential into the slot, replacing whatever was there.
func (r *CredentialRepository) Save(ctx context.Context, cred *models.Credential) error {
	if cred == nil {
		return fmt.Errorf("cannot save nil credential")
	}

	query := `
		INSERT INTO credentials (slot, id, access_token, refresh_token, expires_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			id = excluded.id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	var refreshToken sql.NullString
	if cred.RefreshToken != "" {
		refreshToken = sql.NullString{String: cred.RefreshToken, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query, cred.ID, cred.AccessToken, refreshToken, cred.ExpiresAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	return nil
}

// Clear empties the slot. Clearing an already-empty slot is a no-op.
func (r *CredentialRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM credentials WHERE slot = 1"); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}
