// Package auth implements the Spotify authentication core: PKCE challenge
// generation, the authorization-code flow, and the credential lifecycle.
//
// # Authorization Flow
//
// [Authenticator.Authenticate] runs one Authorization-Code-with-PKCE attempt:
// generate a verifier and anti-CSRF state, bind the loopback
// [github.com/spindlefm/spindle/internal/server.Listener], open the system
// browser at the authorization URL, await the redirect, and exchange the
// code at the token endpoint with the verifier. No client secret is involved;
// the verifier proves possession of the original challenge.
//
// # Credential Lifecycle
//
// [Manager] is the façade consumed by every authenticated call. It mirrors
// the persisted credential in memory, renews the access token within
// [RefreshMargin] of expiry via a refresh-token grant, and clears both copies
// when a refresh is rejected. Refreshes are serialized under the manager's
// mutex so concurrent callers never issue duplicate grants against the same
// refresh token.
package auth
