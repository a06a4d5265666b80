// Package repositories provides the SQLite persistence layer.
//
// The only durable state the player owns is a single credential slot:
// [CredentialRepository] implements the auth store contract over one
// constrained row, written transactionally so readers never observe a
// partially written credential.
package repositories
