package main

import (
	"context"
	"os"

	"github.com/spindlefm/spindle/internal/auth"
	"github.com/spindlefm/spindle/internal/repositories"
	"github.com/spindlefm/spindle/internal/services"
	"github.com/spindlefm/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("failed to load config, using defaults %v", err)
		}
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		logger.Fatalf("failed to run migrations: %v", err)
	}

	store := repositories.NewCredentialRepository(db)
	tokens := auth.NewManager(store, config.Credentials.Spotify.ClientID, shared.WithLogger(logger, "component", "tokens"))
	authenticator := auth.NewAuthenticator(config.Credentials.Spotify, shared.WithLogger(logger, "component", "auth"))

	client := services.NewClient(tokens, shared.WithLogger(logger, "component", "client"))
	player := services.NewSpotifyService(client, config.Player.PageSize, shared.WithLogger(logger, "component", "spotify"))

	runner := NewRunner(RunnerOpts{
		Config:        config,
		Authenticator: authenticator,
		Tokens:        tokens,
		Player:        player,
		Logger:        logger,
	})

	app := &cli.Command{
		Name:     "spindle",
		Usage:    "Control Spotify playback from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
