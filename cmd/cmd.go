// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2 + PKCE",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored credential",
				Action: r.AuthLogout,
			},
		},
	}
}

// playerCommands returns the top-level playback control commands
func playerCommands(r *Runner) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "play",
			Usage:  "Resume playback on the active device",
			Action: r.PlayerPlay,
		},
		{
			Name:   "pause",
			Usage:  "Pause playback on the active device",
			Action: r.PlayerPause,
		},
		{
			Name:   "next",
			Usage:  "Skip to the next track",
			Action: r.PlayerNext,
		},
		{
			Name:    "prev",
			Aliases: []string{"previous"},
			Usage:   "Skip to the previous track",
			Action:  r.PlayerPrevious,
		},
		{
			Name:    "now",
			Aliases: []string{"np"},
			Usage:   "Show the currently playing track",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "json",
					Usage: "Output raw JSON",
				},
				&cli.BoolFlag{
					Name:  "pretty",
					Usage: "Pretty-print output",
					Value: true,
				},
			},
			Action: r.PlayerNow,
		},
	}
}

// playlistsCommand lists the user's playlists
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "List your Spotify playlists",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of playlists to return",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Playlists,
	}
}

// setupCommand handles setup operations for config and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level TUI command for interactive playback control.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive player",
		Action:  r.TUI,
	}
}
