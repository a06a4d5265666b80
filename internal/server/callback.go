package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/spindlefm/spindle/internal/shared"
)

// CallbackPath is the fixed path the authorization redirect must target.
const CallbackPath = "/callback"

// CallbackResult contains the outcome of one authorization redirect.
type CallbackResult struct {
	Code string
	err  error
}

func (r CallbackResult) Error() error {
	return r.err
}

// CallbackHandler captures exactly one OAuth2 authorization redirect.
// Implements the [Handler] interface for registration with a [Router].
//
// The first request to [CallbackPath] determines the outcome; later requests
// receive an error response without affecting it. Outcome precedence per
// request: a provider error parameter wins over everything, a state mismatch
// wins over a valid code, and a request carrying none of the expected
// parameters resolves as malformed.
type CallbackHandler struct {
	state       string
	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a new callback handler bound to the given
// anti-CSRF state token. The state token must be cryptographically random
// and unique to one authorization attempt.
func NewCallbackHandler(expectedState string) *CallbackHandler {
	return &CallbackHandler{
		state:      expectedState,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{CallbackPath}
}

// ServeHTTP handles the authorization redirect request.
//
// Classifies the redirect (denied, state mismatch, code, malformed), resolves
// the result channel once, and renders a human-readable HTML page.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle the callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		h.resolve(CallbackResult{err: fmt.Errorf("%w: %s", shared.ErrAuthDenied, errParam)})
		h.renderFailure(w, "Authorization was denied or cancelled.")
		return
	}

	if q.Get("state") != h.state {
		h.resolve(CallbackResult{err: shared.ErrStateMismatch})
		h.renderFailure(w, "This redirect does not match the login attempt that started it.")
		return
	}

	if code := q.Get("code"); code != "" {
		h.resolve(CallbackResult{Code: code})
		h.renderSuccess(w)
		return
	}

	h.resolve(CallbackResult{err: shared.ErrMalformedCallback})
	h.renderFailure(w, "The redirect was missing an authorization code.")
}

// resolve sends the callback result through the channel (only once).
func (h *CallbackHandler) resolve(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving redirect resolution.
//
// The channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

func (h *CallbackHandler) renderSuccess(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, callbackPage, "#1DB954", "✓ Authorization Successful",
		"You can close this window and return to the terminal.")
}

func (h *CallbackHandler) renderFailure(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, callbackPage, "#E22134", "✗ Authorization Failed", reason)
}

const callbackPage = `
<!DOCTYPE html>
<html>
<head>
    <title>spindle</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: %s; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>
`
