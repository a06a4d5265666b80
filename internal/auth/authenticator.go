package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spindlefm/spindle/internal/models"
	"github.com/spindlefm/spindle/internal/server"
	"github.com/spindlefm/spindle/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// DefaultScopes are the Spotify scopes the player requires: reading playback
// state, modifying playback, and reading the currently playing track.
var DefaultScopes = []string{
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
}

// Authenticator orchestrates one OAuth2 Authorization-Code-with-PKCE attempt:
// it builds the authorization URL, opens the system browser, runs the
// loopback [server.Listener], and exchanges the returned code for tokens.
//
// At most one attempt is in flight per Authenticator; a second concurrent
// call is rejected with [shared.ErrAttemptInFlight]. The attempt's listener
// is disposed on every exit path.
type Authenticator struct {
	clientID     string
	redirectHost string
	redirectPort int
	endpoint     oauth2.Endpoint
	openBrowser  func(url string) error
	logger       *log.Logger
	mu           sync.Mutex

	// OnAuthURL, when set, is invoked with the authorization URL after the
	// listener is bound, so callers can print it as a manual fallback.
	OnAuthURL func(url string)
}

// NewAuthenticator creates an Authenticator for the given Spotify
// application config.
func NewAuthenticator(cfg shared.SpotifyConfig, logger *log.Logger) *Authenticator {
	host := cfg.RedirectHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedirectPort
	if port == 0 {
		port = 8888
	}

	return &Authenticator{
		clientID:     cfg.ClientID,
		redirectHost: host,
		redirectPort: port,
		endpoint:     oauth2.Endpoint{AuthURL: spotifyAuthURL, TokenURL: spotifyTokenURL},
		openBrowser:  shared.OpenBrowser,
		logger:       logger,
	}
}

// Authenticate runs one full authorization attempt and returns the resulting
// credential.
//
// The listener is started before the browser opens so it is ready when the
// provider redirects back. The consent screen is always re-prompted
// (show_dialog) rather than silently reusing a prior provider session.
func (a *Authenticator) Authenticate(ctx context.Context) (*models.Credential, error) {
	if a.clientID == "" {
		return nil, shared.ErrMissingClientID
	}

	if !a.mu.TryLock() {
		return nil, shared.ErrAttemptInFlight
	}
	defer a.mu.Unlock()

	verifier, err := GenerateVerifier()
	if err != nil {
		return nil, err
	}

	state, err := GenerateState()
	if err != nil {
		return nil, err
	}

	listener := server.NewListener(a.redirectHost, a.redirectPort, state, a.logger)
	if err := listener.Start(); err != nil {
		return nil, err
	}
	defer listener.Close()

	conf := &oauth2.Config{
		ClientID:    a.clientID,
		Endpoint:    a.endpoint,
		Scopes:      DefaultScopes,
		RedirectURL: fmt.Sprintf("http://%s%s", listener.Addr(), server.CallbackPath),
	}

	authURL := conf.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", DeriveChallenge(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("show_dialog", "true"),
	)

	if a.OnAuthURL != nil {
		a.OnAuthURL(authURL)
	}

	a.logger.Info("starting authorization attempt", "redirect_uri", conf.RedirectURL)
	if err := a.openBrowser(authURL); err != nil {
		a.logger.Warn("could not open browser automatically; open the URL manually", "url", authURL, "error", err)
	}

	code, err := listener.Wait(ctx)
	if err != nil {
		return nil, err
	}

	token, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrExchangeFailed, err)
	}

	return models.NewCredential(shared.GenerateID(), token), nil
}
