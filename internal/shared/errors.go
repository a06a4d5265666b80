package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig   = fmt.Errorf("configuration not found")
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
	ErrMissingClientID = fmt.Errorf("missing spotify client id")

	// Authorization attempt errors
	ErrPortUnavailable   = fmt.Errorf("callback port unavailable")
	ErrAuthDenied        = fmt.Errorf("authorization denied")
	ErrStateMismatch     = fmt.Errorf("state parameter mismatch")
	ErrMalformedCallback = fmt.Errorf("malformed callback request")
	ErrTimeout           = fmt.Errorf("operation timed out")
	ErrExchangeFailed    = fmt.Errorf("token exchange failed")
	ErrAttemptInFlight   = fmt.Errorf("authorization attempt already in flight")

	// Credential lifecycle errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrAuthExpired      = fmt.Errorf("authorization expired, please re-authenticate")

	// API and playback errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrNoActivePlayback = fmt.Errorf("no active playback device")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrMissingArgument = fmt.Errorf("missing required argument")

	// Environment errors
	ErrUnsupportedPlatform = fmt.Errorf("unsupported platform")
)
