package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"cyberguard/feed"
	"cyberguard/storage"
)

func tidyCmd() *cli.Command {
	return &cli.Command{
		Name:  "tidy",
		Usage: "Tidy up the community feed",
		Description: `Tidy up the feed by removing posts that are old.

		Remove posts that are older than the configured number of days.
		This is to keep the stored list small and the feed fresh.`,
		Flags: []cli.Flag{
			databaseFlag(),
			&cli.IntFlag{
				Name:    "older-than",
				Value:   90,
				Usage:   "Remove posts older than this many days",
				EnvVars: []string{"CYBERWARE_TIDY_DAYS"},
			},
		},
		Action: func(ctx *cli.Context) error {
			database := ctx.String("database")
			fmt.Println("Database configured: ", database)

			if err := storage.Migrate(database); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			backend, err := storage.OpenSQLite(database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer backend.Close()

			store := feed.NewStore(feed.Config{Backend: backend})
			maxAge := time.Duration(ctx.Int("older-than")) * 24 * time.Hour

			removed, err := store.Tidy(maxAge)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d post(s)\n", removed)
			return nil
		},
	}
}
