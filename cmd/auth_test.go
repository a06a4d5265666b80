package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spindlefm/spindle/internal/auth"
	"github.com/spindlefm/spindle/internal/models"
	"github.com/spindlefm/spindle/internal/shared"
	tu "github.com/spindlefm/spindle/internal/testing"
)

func storedCredential(token, refreshToken string, ttl time.Duration) *models.Credential {
	return &models.Credential{
		ID:           "cred-1",
		AccessToken:  token,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(ttl),
	}
}

func authRunner(store *tu.MockStore) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Tokens: auth.NewManager(store, "client-id", quietLogger()),
		Logger: quietLogger(),
		Output: output,
	})
	return runner, output
}

func TestAuthStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("reports unauthenticated when no credential is stored", func(t *testing.T) {
		runner, output := authRunner(&tu.MockStore{})

		if err := runner.AuthStatus(ctx, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(output.String(), "Not authenticated") {
			t.Errorf("expected unauthenticated message, got %q", output.String())
		}
	})

	t.Run("reports a valid refreshable credential", func(t *testing.T) {
		store := &tu.MockStore{Cred: storedCredential("t", "rt", time.Hour)}
		runner, output := authRunner(store)

		if err := runner.AuthStatus(ctx, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "✓ Authenticated") {
			t.Errorf("expected authenticated message, got %q", got)
		}
		if !strings.Contains(got, "valid until") {
			t.Errorf("expected validity line, got %q", got)
		}
		if !strings.Contains(got, "Refresh: available") {
			t.Errorf("expected refresh line, got %q", got)
		}
	})

	t.Run("reports an expired credential without refresh", func(t *testing.T) {
		store := &tu.MockStore{Cred: storedCredential("t", "", -time.Hour)}
		runner, output := authRunner(store)

		if err := runner.AuthStatus(ctx, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "expired at") {
			t.Errorf("expected expiry line, got %q", got)
		}
		if !strings.Contains(got, "re-login required") {
			t.Errorf("expected re-login hint, got %q", got)
		}
	})
}

func TestAuthLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears the stored credential", func(t *testing.T) {
		store := &tu.MockStore{Cred: storedCredential("t", "rt", time.Hour)}
		runner, output := authRunner(store)

		if err := runner.AuthLogout(ctx, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if store.Cred != nil {
			t.Error("expected credential to be cleared")
		}
		if !strings.Contains(output.String(), "Signed out") {
			t.Errorf("expected sign-out message, got %q", output.String())
		}
	})

	t.Run("surfaces store failures", func(t *testing.T) {
		store := &tu.MockStore{
			Cred:     storedCredential("t", "rt", time.Hour),
			ClearErr: errors.New("locked"),
		}
		runner, _ := authRunner(store)

		if err := runner.AuthLogout(ctx, nil); err == nil {
			t.Error("expected error from failing store")
		}
	})
}

func TestClassifyLoginError(t *testing.T) {
	runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: &bytes.Buffer{}})

	cases := []struct {
		name string
		err  error
		want error
		hint string
	}{
		{"missing client id", shared.ErrMissingClientID, shared.ErrMissingClientID, "spindle setup"},
		{"port unavailable", shared.ErrPortUnavailable, shared.ErrPortUnavailable, "callback port"},
		{"denied", shared.ErrAuthDenied, shared.ErrAuthDenied, "cancelled"},
		{"state mismatch", shared.ErrStateMismatch, shared.ErrStateMismatch, "failed"},
		{"timeout", shared.ErrTimeout, shared.ErrTimeout, "timed out"},
		{"other", errors.New("boom"), nil, "authentication failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runner.classifyLoginError(tc.err)
			if got == nil {
				t.Fatal("expected an error")
			}
			if tc.want != nil && !errors.Is(got, tc.want) {
				t.Errorf("expected %v to be preserved, got %v", tc.want, got)
			}
			if !strings.Contains(got.Error(), tc.hint) {
				t.Errorf("expected hint %q in %q", tc.hint, got.Error())
			}
		})
	}
}
