package models

import (
	"time"

	"golang.org/x/oauth2"
)

// Credential is the persisted unit of authentication: the access/refresh
// token pair and the absolute instant the access token expires.
//
// A Credential without a refresh token cannot be renewed once expired and
// forces a full re-authentication.
type Credential struct {
	ID           string    `json:"id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewCredential builds a [Credential] from an [oauth2.Token], stamping a
// fresh id. The token's Expiry is already issuance time plus the
// provider-reported lifetime.
func NewCredential(id string, token *oauth2.Token) *Credential {
	return &Credential{
		ID:           id,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
}

// Token converts the credential back to an [oauth2.Token].
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		Expiry:       c.ExpiresAt,
	}
}

// ExpiresWithin reports whether the access token expires before now+margin.
// The margin absorbs clock skew and in-flight request latency.
func (c *Credential) ExpiresWithin(margin time.Duration) bool {
	return time.Now().Add(margin).After(c.ExpiresAt)
}

// CanRefresh reports whether renewal without user interaction is possible.
func (c *Credential) CanRefresh() bool {
	return c.RefreshToken != ""
}
