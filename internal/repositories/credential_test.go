package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/spindlefm/spindle/internal/models"
	"github.com/spindlefm/spindle/internal/shared"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestCredentialRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Load", func(t *testing.T) {
		t.Run("returns nil when the slot is empty", func(t *testing.T) {
			repo := NewCredentialRepository(testDB(t))

			cred, err := repo.Load(ctx)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if cred != nil {
				t.Errorf("expected nil credential, got %+v", cred)
			}
		})

		t.Run("round-trips a saved credential", func(t *testing.T) {
			repo := NewCredentialRepository(testDB(t))

			saved := &models.Credential{
				ID:           "cred-1",
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
				ExpiresAt:    time.Now().Add(time.Hour).UTC(),
			}
			if err := repo.Save(ctx, saved); err != nil {
				t.Fatalf("failed to save: %v", err)
			}

			loaded, err := repo.Load(ctx)
			if err != nil {
				t.Fatalf("failed to load: %v", err)
			}
			if loaded == nil {
				t.Fatal("expected a credential")
			}

			if loaded.ID != saved.ID {
				t.Errorf("expected id %s, got %s", saved.ID, loaded.ID)
			}
			if loaded.AccessToken != saved.AccessToken {
				t.Errorf("expected access token %s, got %s", saved.AccessToken, loaded.AccessToken)
			}
			if loaded.RefreshToken != saved.RefreshToken {
				t.Errorf("expected refresh token %s, got %s", saved.RefreshToken, loaded.RefreshToken)
			}
			if loaded.ExpiresAt.Unix() != saved.ExpiresAt.Unix() {
				t.Errorf("expected expiry %s, got %s", saved.ExpiresAt, loaded.ExpiresAt)
			}
		})

		t.Run("a missing refresh token loads as empty", func(t *testing.T) {
			repo := NewCredentialRepository(testDB(t))

			saved := &models.Credential{
				ID:          "cred-1",
				AccessToken: "access-token",
				ExpiresAt:   time.Now().Add(time.Hour).UTC(),
			}
			if err := repo.Save(ctx, saved); err != nil {
				t.Fatalf("failed to save: %v", err)
			}

			loaded, err := repo.Load(ctx)
			if err != nil {
				t.Fatalf("failed to load: %v", err)
			}
			if loaded.RefreshToken != "" {
				t.Errorf("expected empty refresh token, got %s", loaded.RefreshToken)
			}
			if loaded.CanRefresh() {
				t.Error("expected credential to be unrefreshable")
			}
		})
	})

	t.Run("Save", func(t *testing.T) {
		t.Run("replaces the slot on a second save", func(t *testing.T) {
			repo := NewCredentialRepository(testDB(t))

			first := &models.Credential{
				ID:          "cred-1",
				AccessToken: "first-token",
				ExpiresAt:   time.Now().Add(time.Hour).UTC(),
			}
			if err := repo.Save(ctx, first); err != nil {
				t.Fatalf("failed to save: %v", err)
			}

			second := &models.Credential{
				ID:           "cred-2",
				AccessToken:  "second-token",
				RefreshToken: "second-refresh",
				ExpiresAt:    time.Now().Add(2 * time.Hour).UTC(),
			}
			if err := repo.Save(ctx, second); err != nil {
				t.Fatalf("failed to save replacement: %v", err)
			}

			loaded, err := repo.Load(ctx)
			if err != nil {
				t.Fatalf("failed to load: %v", err)
			}
			if loaded.ID != "cred-2" || loaded.AccessToken != "second-token" {
				t.Errorf("expected the replacement credential, got %+v", loaded)
			}

			var count int
			if err := repo.db.QueryRow("SELECT COUNT(*) FROM credentials").Scan(&count); err != nil {
				t.Fatalf("failed to count rows: %v", err)
			}
			if count != 1 {
				t.Errorf("expected a single row, got %d", count)
			}
		})

		t.Run("rejects a nil credential", func(t *testing.T) {
			repo := NewCredentialRepository(testDB(t))

			if err := repo.Save(ctx, nil); err == nil {
				t.Error("expected error for nil credential")
			}
		})
	})

	t.Run("Clear", func(t *testing.T) {
		t.Run("empties the slot", func(t *testing.T) {
			repo := NewCredentialRepository(testDB(t))

			cred := &models.Credential{
				ID:          "cred-1",
				AccessToken: "access-token",
				ExpiresAt:   time.Now().Add(time.Hour).UTC(),
			}
			if err := repo.Save(ctx, cred); err != nil {
				t.Fatalf("failed to save: %v", err)
			}

			if err := repo.Clear(ctx); err != nil {
				t.Fatalf("failed to clear: %v", err)
			}

			loaded, err := repo.Load(ctx)
			if err != nil {
				t.Fatalf("failed to load: %v", err)
			}
			if loaded != nil {
				t.Errorf("expected empty slot, got %+v", loaded)
			}
		})

		t.Run("clearing an empty slot is a no-op", func(t *testing.T) {
			repo := NewCredentialRepository(testDB(t))

			if err := repo.Clear(ctx); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})
}
