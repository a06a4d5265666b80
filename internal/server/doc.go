// Package server provides the loopback HTTP infrastructure that captures the
// OAuth2 authorization redirect during login.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] internally with method filtering.
//
// # Callback Handler
//
// [CallbackHandler] resolves one authorization redirect into a code or a
// classified failure (denied, state mismatch, malformed) and sends the result
// through a channel. It only processes one callback per attempt to prevent
// replay, and a provider error parameter takes precedence over any code also
// present in the redirect.
//
// # Listener Lifecycle
//
// [Listener] owns the exclusive OS resource for an attempt: one local port.
// When the user runs the login command, a temporary HTTP server starts on the
// configured loopback address (127.0.0.1:8888 by default), handles the
// redirect, and shuts down. Whichever of {callback, timeout, server failure,
// explicit close} occurs first resolves the attempt, and the port is released
// on every path.
package server
