package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spindlefm/spindle/internal/shared"
)

// CallbackTimeout is how long a listener waits for the browser redirect
// before the authorization attempt is considered abandoned.
const CallbackTimeout = 5 * time.Minute

// Listener is a short-lived loopback HTTP server that exists for the duration
// of one authorization attempt.
//
// It binds a fixed local port, serves exactly one redirect to [CallbackPath],
// and is torn down exactly once per attempt regardless of outcome. Close is
// idempotent and releases the bound port.
type Listener struct {
	addr       string
	handler    *CallbackHandler
	srv        *http.Server
	ln         net.Listener
	timeout    time.Duration
	serverErrs chan error
	closeOnce  sync.Once
	logger     *log.Logger
}

// NewListener creates a listener for one authorization attempt bound to the
// given anti-CSRF state token. The listener does not bind the port until
// [Listener.Start] is called.
func NewListener(host string, port int, expectedState string, logger *log.Logger) *Listener {
	handler := NewCallbackHandler(expectedState)

	router := NewBasicRouter()
	router.Use(RequestLogging(logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", host, port)

	return &Listener{
		addr:       addr,
		handler:    handler,
		srv:        &http.Server{Addr: addr, Handler: router},
		timeout:    CallbackTimeout,
		serverErrs: make(chan error, 1),
		logger:     logger,
	}
}

// Start binds the listener's port and begins serving in the background.
//
// A bind failure means a previous attempt did not clean up or an external
// process owns the port; it is fatal to the attempt and wrapped as
// [shared.ErrPortUnavailable].
func (l *Listener) Start() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPortUnavailable, err)
	}
	l.ln = ln

	go func() {
		if err := l.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			l.serverErrs <- err
		}
	}()

	return nil
}

// Addr returns the bound address. Only valid after [Listener.Start].
func (l *Listener) Addr() string {
	if l.ln != nil {
		return l.ln.Addr().String()
	}
	return l.addr
}

// Wait blocks until the redirect arrives, the wall-clock timeout elapses, the
// server fails, or ctx is cancelled — whichever happens first determines the
// outcome. Returns the authorization code on success.
func (l *Listener) Wait(ctx context.Context) (string, error) {
	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case result := <-l.handler.Result():
		if result.Error() != nil {
			return "", result.Error()
		}
		return result.Code, nil
	case err := <-l.serverErrs:
		return "", fmt.Errorf("callback server error: %w", err)
	case <-timer.C:
		return "", fmt.Errorf("%w: no callback received within %s", shared.ErrTimeout, l.timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close shuts the server down and releases the port. Safe to call multiple
// times and on a listener that never started.
func (l *Listener) Close() {
	l.closeOnce.Do(func() {
		if l.ln == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.srv.Shutdown(ctx); err != nil {
			if l.logger != nil {
				l.logger.Warn("error shutting down callback server", "error", err)
			}
			l.srv.Close()
		}
	})
}

// setTimeout overrides the callback timeout. Used by tests.
func (l *Listener) setTimeout(d time.Duration) {
	l.timeout = d
}
