package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spindlefm/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup scaffolds config.toml and initializes the credential database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		r.writePlain("✓ Created %s\n", configPath)
		r.writePlain("  Fill in your Spotify client_id before logging in.\n")
	} else {
		r.writePlain("✓ Config exists at %s\n", configPath)
	}

	config := r.config
	if loaded, err := shared.LoadConfig(configPath); err == nil {
		config = loaded
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.writePlain("✓ Database ready at %s\n", config.Database.Path)
	r.writePlain("\nNext: spindle auth login\n")

	return nil
}
