package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spindlefm/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs one full OAuth2 Authorization-Code-with-PKCE attempt and
// persists the resulting credential.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	r.authenticator.OnAuthURL = func(url string) {
		r.writePlain("→ Opening browser for Spotify authorization...\n")
		r.writePlain("  If the browser does not open, visit:\n  %s\n\n", url)
		r.writePlain("→ Waiting for authorization (5 minute timeout)...\n")
	}

	cred, err := r.authenticator.Authenticate(ctx)
	if err != nil {
		return r.classifyLoginError(err)
	}

	if err := r.tokens.SetCredential(ctx, cred); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Signed in until %s (auto-renews)\n\n", cred.ExpiresAt.Local().Format(time.Kitchen))
	r.writePlain("You can now use: spindle now\n")

	return nil
}

// classifyLoginError maps attempt failures onto one clear, actionable message.
func (r *Runner) classifyLoginError(err error) error {
	switch {
	case errors.Is(err, shared.ErrMissingClientID):
		return fmt.Errorf("%w: set client_id in config.toml (run 'spindle setup' to create one)", err)
	case errors.Is(err, shared.ErrPortUnavailable):
		return fmt.Errorf("%w: close the process using the callback port and try again", err)
	case errors.Is(err, shared.ErrAuthDenied):
		return fmt.Errorf("authentication cancelled: %w", err)
	case errors.Is(err, shared.ErrStateMismatch):
		return fmt.Errorf("authentication failed: %w", err)
	case errors.Is(err, shared.ErrTimeout):
		return fmt.Errorf("authentication timed out: %w", err)
	default:
		return fmt.Errorf("authentication failed: %w", err)
	}
}

// AuthStatus reports whether a usable credential is held.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	cred := r.tokens.Credential(ctx)

	if cred == nil {
		r.writePlain("✗ Not authenticated\n")
		r.writePlain("Run: spindle auth login\n")
		return nil
	}

	r.writePlain("✓ Authenticated\n")
	if cred.ExpiresWithin(0) {
		r.writePlain("Access token: expired at %s\n", cred.ExpiresAt.Local().Format(time.RFC822))
	} else {
		r.writePlain("Access token: valid until %s\n", cred.ExpiresAt.Local().Format(time.RFC822))
	}
	if cred.CanRefresh() {
		r.writePlain("Refresh: available\n")
	} else {
		r.writePlain("Refresh: unavailable (re-login required after expiry)\n")
	}

	return nil
}

// AuthLogout drops the held and persisted credential.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}

	r.writePlain("✓ Signed out\n")
	return nil
}
