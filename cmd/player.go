package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spindlefm/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlayerPlay resumes playback on the active device.
func (r *Runner) PlayerPlay(ctx context.Context, cmd *cli.Command) error {
	if err := r.player.Play(ctx); err != nil {
		return r.classifyPlayerError(err)
	}
	return r.writePlain("▶ Playing\n")
}

// PlayerPause pauses playback on the active device.
func (r *Runner) PlayerPause(ctx context.Context, cmd *cli.Command) error {
	if err := r.player.Pause(ctx); err != nil {
		return r.classifyPlayerError(err)
	}
	return r.writePlain("⏸ Paused\n")
}

// PlayerNext skips to the next track.
func (r *Runner) PlayerNext(ctx context.Context, cmd *cli.Command) error {
	if err := r.player.Next(ctx); err != nil {
		return r.classifyPlayerError(err)
	}
	return r.writePlain("⏭ Skipped\n")
}

// PlayerPrevious skips to the previous track.
func (r *Runner) PlayerPrevious(ctx context.Context, cmd *cli.Command) error {
	if err := r.player.Previous(ctx); err != nil {
		return r.classifyPlayerError(err)
	}
	return r.writePlain("⏮ Skipped back\n")
}

// PlayerNow prints the current playback state.
func (r *Runner) PlayerNow(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	playback, err := r.player.CurrentPlayback(ctx)
	if err != nil {
		return r.classifyPlayerError(err)
	}

	if useJSON {
		return r.writeJSON(playback, cmd.Bool("pretty"))
	}

	state := "⏸"
	if playback.Playing {
		state = "▶"
	}

	track := playback.Track
	r.writePlain("%s %s — %s\n", state, track.Artist, track.Title)
	if track.Album != "" {
		r.writePlain("  Album: %s\n", track.Album)
	}
	r.writePlain("  %s / %s on %s\n",
		formatMS(playback.ProgressMS), formatMS(track.DurationMS), playback.Device.Name)

	return nil
}

// Playlists lists the user's playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")

	r.logger.Debug("listing playlists", "limit", limit)

	playlists, err := r.player.Playlists(ctx)
	if err != nil {
		return r.classifyPlayerError(err)
	}

	if limit > 0 && int(limit) < len(playlists) {
		playlists = playlists[:limit]
	}

	if useJSON {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		r.writePlain("\n")
	}

	return nil
}

// classifyPlayerError maps provider failures onto actionable messages without
// mutating credential state; the services client already handled any
// credential-invalidating conditions.
func (r *Runner) classifyPlayerError(err error) error {
	switch {
	case errors.Is(err, shared.ErrNoActivePlayback):
		return fmt.Errorf("%w: start playback on a device first (open Spotify anywhere)", err)
	case errors.Is(err, shared.ErrAuthExpired),
		errors.Is(err, shared.ErrNotAuthenticated),
		errors.Is(err, shared.ErrNoRefreshToken),
		errors.Is(err, shared.ErrRefreshFailed):
		return fmt.Errorf("%w: run 'spindle auth login'", shared.ErrAuthExpired)
	default:
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
}

func formatMS(ms int) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
