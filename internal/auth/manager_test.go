package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spindlefm/spindle/internal/models"
	"github.com/spindlefm/spindle/internal/shared"
	tu "github.com/spindlefm/spindle/internal/testing"
	"golang.org/x/oauth2"
)

func testCredential(token, refreshToken string, ttl time.Duration) *models.Credential {
	return &models.Credential{
		ID:           "cred-1",
		AccessToken:  token,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(ttl),
	}
}

func TestManagerAccessToken(t *testing.T) {
	ctx := context.Background()
	logger := shared.NewLogger(nil)

	t.Run("errors when no credential is stored", func(t *testing.T) {
		manager := NewManager(&tu.MockStore{}, "client-id", logger)

		_, err := manager.AccessToken(ctx)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("returns the held token outside the refresh margin", func(t *testing.T) {
		store := &tu.MockStore{Cred: testCredential("valid-token", "rt", time.Hour)}
		manager := NewManager(store, "client-id", logger)

		refreshes := 0
		manager.refreshFn = func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
			refreshes++
			return nil, errors.New("should not be called")
		}

		token, err := manager.AccessToken(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "valid-token" {
			t.Errorf("expected valid-token, got %s", token)
		}
		if refreshes != 0 {
			t.Errorf("expected no refresh, got %d", refreshes)
		}
	})

	t.Run("refreshes inside the margin and persists the result", func(t *testing.T) {
		store := &tu.MockStore{Cred: testCredential("stale-token", "rt", 2*time.Minute)}
		manager := NewManager(store, "client-id", logger)

		manager.refreshFn = func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
			if refreshToken != "rt" {
				t.Errorf("expected refresh token rt, got %s", refreshToken)
			}
			return &oauth2.Token{
				AccessToken:  "fresh-token",
				RefreshToken: "rotated-rt",
				Expiry:       time.Now().Add(time.Hour),
			}, nil
		}

		token, err := manager.AccessToken(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "fresh-token" {
			t.Errorf("expected fresh-token, got %s", token)
		}
		if store.SaveCalls != 1 {
			t.Errorf("expected 1 save, got %d", store.SaveCalls)
		}
		if store.Cred.RefreshToken != "rotated-rt" {
			t.Errorf("expected rotated refresh token to persist, got %s", store.Cred.RefreshToken)
		}
		if store.Cred.ExpiresWithin(RefreshMargin) {
			t.Error("persisted credential should be outside the refresh margin")
		}
	})

	t.Run("errors when renewal is needed but no refresh token exists", func(t *testing.T) {
		store := &tu.MockStore{Cred: testCredential("expired-token", "", -time.Minute)}
		manager := NewManager(store, "client-id", logger)

		_, err := manager.AccessToken(ctx)
		if !errors.Is(err, shared.ErrNoRefreshToken) {
			t.Errorf("expected ErrNoRefreshToken, got %v", err)
		}
	})

	t.Run("clears both credential copies when the refresh is rejected", func(t *testing.T) {
		store := &tu.MockStore{Cred: testCredential("stale-token", "revoked-rt", time.Minute)}
		manager := NewManager(store, "client-id", logger)

		manager.refreshFn = func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
			return nil, errors.New("invalid_grant")
		}

		_, err := manager.AccessToken(ctx)
		if !errors.Is(err, shared.ErrRefreshFailed) {
			t.Fatalf("expected ErrRefreshFailed, got %v", err)
		}

		if store.ClearCalls != 1 {
			t.Errorf("expected 1 clear, got %d", store.ClearCalls)
		}
		if manager.IsAuthenticated(ctx) {
			t.Error("expected unauthenticated state after failed refresh")
		}
		if _, err := manager.AccessToken(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after clear, got %v", err)
		}
	})

	t.Run("concurrent callers share a single refresh", func(t *testing.T) {
		store := &tu.MockStore{Cred: testCredential("stale-token", "rt", time.Minute)}
		manager := NewManager(store, "client-id", logger)

		var refreshes atomic.Int64
		manager.refreshFn = func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
			refreshes.Add(1)
			time.Sleep(10 * time.Millisecond)
			return &oauth2.Token{
				AccessToken: "fresh-token",
				Expiry:      time.Now().Add(time.Hour),
			}, nil
		}

		var wg sync.WaitGroup
		results := make([]string, 8)
		errs := make([]error, 8)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = manager.AccessToken(ctx)
			}()
		}
		wg.Wait()

		for i := range results {
			if errs[i] != nil {
				t.Fatalf("caller %d: expected no error, got %v", i, errs[i])
			}
			if results[i] != "fresh-token" {
				t.Errorf("caller %d: expected fresh-token, got %s", i, results[i])
			}
		}
		if got := refreshes.Load(); got != 1 {
			t.Errorf("expected exactly 1 refresh, got %d", got)
		}
	})
}

func TestManagerRenew(t *testing.T) {
	ctx := context.Background()
	logger := shared.NewLogger(nil)

	t.Run("errors when no credential is stored", func(t *testing.T) {
		manager := NewManager(&tu.MockStore{}, "client-id", logger)

		_, err := manager.Renew(ctx, "anything")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("skips the grant when the stale token was already replaced", func(t *testing.T) {
		store := &tu.MockStore{Cred: testCredential("current-token", "rt", time.Hour)}
		manager := NewManager(store, "client-id", logger)

		refreshes := 0
		manager.refreshFn = func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
			refreshes++
			return nil, errors.New("should not be called")
		}

		token, err := manager.Renew(ctx, "previous-token")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "current-token" {
			t.Errorf("expected current-token, got %s", token)
		}
		if refreshes != 0 {
			t.Errorf("expected no refresh, got %d", refreshes)
		}
	})

	t.Run("refreshes when the stale token matches the held one", func(t *testing.T) {
		store := &tu.MockStore{Cred: testCredential("rejected-token", "rt", time.Hour)}
		manager := NewManager(store, "client-id", logger)

		manager.refreshFn = func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
			return &oauth2.Token{
				AccessToken: "fresh-token",
				Expiry:      time.Now().Add(time.Hour),
			}, nil
		}

		token, err := manager.Renew(ctx, "rejected-token")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "fresh-token" {
			t.Errorf("expected fresh-token, got %s", token)
		}
	})

	t.Run("preserves the refresh token when the provider does not rotate it", func(t *testing.T) {
		store := &tu.MockStore{Cred: testCredential("rejected-token", "keep-rt", time.Hour)}
		manager := NewManager(store, "client-id", logger)

		manager.refreshFn = func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
			return &oauth2.Token{
				AccessToken: "fresh-token",
				Expiry:      time.Now().Add(time.Hour),
			}, nil
		}

		if _, err := manager.Renew(ctx, "rejected-token"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.Cred.RefreshToken != "keep-rt" {
			t.Errorf("expected refresh token keep-rt to be preserved, got %s", store.Cred.RefreshToken)
		}
	})

	t.Run("clears the credential when renewal is impossible", func(t *testing.T) {
		store := &tu.MockStore{Cred: testCredential("rejected-token", "", time.Hour)}
		manager := NewManager(store, "client-id", logger)

		_, err := manager.Renew(ctx, "rejected-token")
		if !errors.Is(err, shared.ErrNoRefreshToken) {
			t.Fatalf("expected ErrNoRefreshToken, got %v", err)
		}
		if store.ClearCalls != 1 {
			t.Errorf("expected 1 clear, got %d", store.ClearCalls)
		}
	})
}

func TestManagerRefreshGrant(t *testing.T) {
	ctx := context.Background()
	logger := shared.NewLogger(nil)

	t.Run("issues a refresh_token grant and persists the new expiry", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Errorf("failed to parse form: %v", err)
			}
			if got := r.FormValue("grant_type"); got != "refresh_token" {
				t.Errorf("expected grant_type refresh_token, got %s", got)
			}
			if got := r.FormValue("refresh_token"); got != "stored-rt" {
				t.Errorf("expected refresh_token stored-rt, got %s", got)
			}

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"granted-token","token_type":"Bearer","expires_in":3600}`)
		}))
		defer tokenServer.Close()

		store := &tu.MockStore{Cred: testCredential("stale-token", "stored-rt", time.Minute)}
		manager := NewManager(store, "client-id", logger)
		manager.endpoint = oauth2.Endpoint{TokenURL: tokenServer.URL}

		token, err := manager.AccessToken(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "granted-token" {
			t.Errorf("expected granted-token, got %s", token)
		}

		remaining := time.Until(store.Cred.ExpiresAt)
		if remaining < 55*time.Minute || remaining > 65*time.Minute {
			t.Errorf("expected expiry about an hour out, got %s", remaining)
		}
	})
}

func TestManagerState(t *testing.T) {
	ctx := context.Background()
	logger := shared.NewLogger(nil)

	t.Run("SetCredential persists and replaces the held credential", func(t *testing.T) {
		store := &tu.MockStore{}
		manager := NewManager(store, "client-id", logger)

		cred := testCredential("new-token", "new-rt", time.Hour)
		if err := manager.SetCredential(ctx, cred); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if store.SaveCalls != 1 {
			t.Errorf("expected 1 save, got %d", store.SaveCalls)
		}
		token, err := manager.AccessToken(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "new-token" {
			t.Errorf("expected new-token, got %s", token)
		}
	})

	t.Run("SetCredential surfaces persistence failures", func(t *testing.T) {
		store := &tu.MockStore{SaveErr: errors.New("disk full")}
		manager := NewManager(store, "client-id", logger)

		err := manager.SetCredential(ctx, testCredential("t", "rt", time.Hour))
		if err == nil {
			t.Fatal("expected error from failing store")
		}
	})

	t.Run("Clear drops both credential copies", func(t *testing.T) {
		store := &tu.MockStore{Cred: testCredential("t", "rt", time.Hour)}
		manager := NewManager(store, "client-id", logger)

		if err := manager.Clear(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.Cred != nil {
			t.Error("expected stored credential to be cleared")
		}
		if manager.IsAuthenticated(ctx) {
			t.Error("expected unauthenticated state after clear")
		}
	})

	t.Run("IsAuthenticated", func(t *testing.T) {
		t.Run("false with no credential", func(t *testing.T) {
			manager := NewManager(&tu.MockStore{}, "client-id", logger)
			if manager.IsAuthenticated(ctx) {
				t.Error("expected false")
			}
		})

		t.Run("true with a valid token", func(t *testing.T) {
			manager := NewManager(&tu.MockStore{Cred: testCredential("t", "", time.Hour)}, "client-id", logger)
			if !manager.IsAuthenticated(ctx) {
				t.Error("expected true")
			}
		})

		t.Run("true when expired but refreshable", func(t *testing.T) {
			manager := NewManager(&tu.MockStore{Cred: testCredential("t", "rt", -time.Minute)}, "client-id", logger)
			if !manager.IsAuthenticated(ctx) {
				t.Error("expected true")
			}
		})

		t.Run("false when expired without a refresh token", func(t *testing.T) {
			manager := NewManager(&tu.MockStore{Cred: testCredential("t", "", -time.Minute)}, "client-id", logger)
			if manager.IsAuthenticated(ctx) {
				t.Error("expected false")
			}
		})
	})

	t.Run("Credential returns an independent copy", func(t *testing.T) {
		store := &tu.MockStore{Cred: testCredential("t", "rt", time.Hour)}
		manager := NewManager(store, "client-id", logger)

		copied := manager.Credential(ctx)
		if copied == nil {
			t.Fatal("expected a credential")
		}
		copied.AccessToken = "mutated"

		if got := manager.Credential(ctx); got.AccessToken != "t" {
			t.Errorf("expected held credential to be unaffected, got %s", got.AccessToken)
		}
	})

	t.Run("Credential is nil when unauthenticated", func(t *testing.T) {
		manager := NewManager(&tu.MockStore{}, "client-id", logger)
		if manager.Credential(ctx) != nil {
			t.Error("expected nil credential")
		}
	})
}
