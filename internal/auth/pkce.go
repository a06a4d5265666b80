package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// verifierBytes is the entropy of a generated code verifier. RFC 7636
// recommends at least 32 octets (256 bits).
const verifierBytes = 32

// GenerateVerifier returns a random, URL-safe PKCE code verifier: 32 random
// bytes, base64url-encoded without padding.
func GenerateVerifier() (string, error) {
	buf := make([]byte, verifierBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate code verifier: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// DeriveChallenge returns the S256 code challenge for a verifier: the
// base64url (no padding) encoding of the SHA-256 digest of the verifier's
// raw bytes. Deterministic for a given verifier.
func DeriveChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// GenerateState returns a random anti-CSRF state token, generated fresh per
// authorization attempt and round-tripped through the redirect.
func GenerateState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
