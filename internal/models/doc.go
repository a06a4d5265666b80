// Package models defines the domain types shared across the player: the
// persisted OAuth [Credential] and the playback entities returned by the
// Spotify Web API surface.
//
// Types here carry no behavior beyond simple derived accessors so that the
// auth, repository, service, and UI layers can share them without import
// cycles.
package models
