package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spindlefm/spindle/internal/models"
	"github.com/spindlefm/spindle/internal/shared"
	"golang.org/x/oauth2"
)

// RefreshMargin is the safety window before expiry within which an access
// token is treated as needing renewal. It absorbs clock skew and in-flight
// request latency.
const RefreshMargin = 5 * time.Minute

// Store is the durable single-slot credential storage consumed by the
// [Manager]. Load returns (nil, nil) when no credential is persisted.
type Store interface {
	Load(ctx context.Context) (*models.Credential, error)
	Save(ctx context.Context, cred *models.Credential) error
	Clear(ctx context.Context) error
}

// Manager owns the in-memory credential mirror and resolves valid access
// tokens for all authenticated calls.
//
// All state transitions happen under one mutex, which also serializes
// refreshes: concurrent callers that arrive while a refresh is underway
// observe its result instead of issuing their own refresh-token grant.
type Manager struct {
	store    Store
	clientID string
	endpoint oauth2.Endpoint
	logger   *log.Logger

	mu     sync.Mutex
	cred   *models.Credential
	loaded bool

	// refreshFn issues one refresh-token grant. Overridable in tests.
	refreshFn func(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// NewManager creates a Manager backed by the given store. The credential is
// loaded lazily from the store on first use.
func NewManager(store Store, clientID string, logger *log.Logger) *Manager {
	m := &Manager{
		store:    store,
		clientID: clientID,
		endpoint: oauth2.Endpoint{AuthURL: spotifyAuthURL, TokenURL: spotifyTokenURL},
		logger:   logger,
	}
	m.refreshFn = m.refreshGrant
	return m
}

// refreshGrant issues a refresh_token grant carrying the refresh token and
// client id. As a public PKCE client there is no client secret.
func (m *Manager) refreshGrant(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	conf := &oauth2.Config{ClientID: m.clientID, Endpoint: m.endpoint}
	return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
}

// ensureLoaded reads the persisted credential once. Callers must hold m.mu.
func (m *Manager) ensureLoaded(ctx context.Context) {
	if m.loaded {
		return
	}
	m.loaded = true

	cred, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("failed to load stored credential", "error", err)
		return
	}
	m.cred = cred
}

// AccessToken resolves a currently valid access token, refreshing it when it
// is within [RefreshMargin] of expiry.
//
// Returns [shared.ErrNotAuthenticated] when no credential is held,
// [shared.ErrNoRefreshToken] when renewal is needed but impossible, and
// [shared.ErrRefreshFailed] when the provider rejects the refresh token (in
// which case the held and persisted credential are cleared).
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureLoaded(ctx)

	if m.cred == nil {
		return "", shared.ErrNotAuthenticated
	}

	if !m.cred.ExpiresWithin(RefreshMargin) {
		return m.cred.AccessToken, nil
	}

	if !m.cred.CanRefresh() {
		return "", shared.ErrNoRefreshToken
	}

	return m.refreshLocked(ctx)
}

// Renew forces a single refresh after an authenticated call was rejected
// with a token believed valid. The stale token de-duplicates concurrent
// renewals: if another caller already replaced it, the current token is
// returned without a further grant.
func (m *Manager) Renew(ctx context.Context, stale string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureLoaded(ctx)

	if m.cred == nil {
		return "", shared.ErrNotAuthenticated
	}

	if stale != "" && m.cred.AccessToken != stale {
		return m.cred.AccessToken, nil
	}

	if !m.cred.CanRefresh() {
		m.clearLocked(ctx)
		return "", shared.ErrNoRefreshToken
	}

	return m.refreshLocked(ctx)
}

// refreshLocked performs one refresh-token grant and resynchronizes the
// in-memory and persisted credential. Callers must hold m.mu.
//
// A failed refresh invalidates trust in the whole pair: both copies are
// cleared so IsAuthenticated immediately reflects the unauthenticated state.
func (m *Manager) refreshLocked(ctx context.Context) (string, error) {
	prior := m.cred

	token, err := m.refreshFn(ctx, prior.RefreshToken)
	if err != nil {
		m.logger.Warn("token refresh rejected, clearing credential", "error", err)
		m.clearLocked(ctx)
		return "", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	cred := models.NewCredential(prior.ID, token)
	if cred.RefreshToken == "" {
		// Providers are not required to rotate the refresh token.
		cred.RefreshToken = prior.RefreshToken
	}

	if err := m.store.Save(ctx, cred); err != nil {
		m.logger.Warn("failed to persist refreshed credential", "error", err)
	}

	m.cred = cred
	m.logger.Debug("access token refreshed", "expires_at", cred.ExpiresAt)

	return cred.AccessToken, nil
}

// SetCredential replaces the held credential after a successful
// authentication and persists it.
func (m *Manager) SetCredential(ctx context.Context, cred *models.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(ctx, cred); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}

	m.cred = cred
	m.loaded = true
	return nil
}

// Clear drops the held and persisted credential.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearLocked(ctx)
}

func (m *Manager) clearLocked(ctx context.Context) error {
	m.cred = nil
	m.loaded = true
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear stored credential", "error", err)
		return err
	}
	return nil
}

// IsAuthenticated reports whether a credential is held and renewal is at
// least possible: it has not expired, or a refresh token exists. A liveness
// hint for UI consumers, not a guarantee the next call succeeds.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureLoaded(ctx)

	if m.cred == nil {
		return false
	}

	return !m.cred.ExpiresWithin(0) || m.cred.CanRefresh()
}

// Credential returns a copy of the held credential, or nil. Used by status
// reporting.
func (m *Manager) Credential(ctx context.Context) *models.Credential {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureLoaded(ctx)

	if m.cred == nil {
		return nil
	}
	copied := *m.cred
	return &copied
}
