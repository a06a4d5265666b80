// package services defines the Player interface for provider media-control
// surfaces and its Spotify implementation.
package services

import (
	"context"

	"github.com/spindlefm/spindle/internal/models"
)

// Player defines the media-control operations the CLI and TUI consume.
// All operations require a valid credential; implementations surface
// [github.com/spindlefm/spindle/internal/shared.ErrAuthExpired] when the
// provider confirms the credential is no longer honored.
type Player interface {
	// CurrentPlayback retrieves the playback state on the active device.
	CurrentPlayback(ctx context.Context) (*models.Playback, error)

	// Play resumes playback on the active device.
	Play(ctx context.Context) error

	// Pause pauses playback on the active device.
	Pause(ctx context.Context) error

	// Next skips to the next track.
	Next(ctx context.Context) error

	// Previous skips to the previous track.
	Previous(ctx context.Context) error

	// Playlists retrieves all playlists for the authenticated user.
	Playlists(ctx context.Context) ([]models.Playlist, error)

	// Name returns the provider name (e.g. "Spotify").
	Name() string
}
