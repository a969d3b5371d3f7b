package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"cyberguard/feed"
	"cyberguard/storage"
)

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Seed the community feed with the example posts",
		Description: `Ensures the feed contains the three example posts an empty
		store starts with. A feed that already has posts is left alone.`,
		Flags: []cli.Flag{
			databaseFlag(),
		},
		Action: func(ctx *cli.Context) error {
			database := ctx.String("database")
			if err := storage.Migrate(database); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			backend, err := storage.OpenSQLite(database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer backend.Close()

			store := feed.NewStore(feed.Config{Backend: backend})

			// Listing an empty store seeds it as a side effect of first use.
			posts, err := store.List()
			if err != nil {
				return err
			}
			fmt.Printf("Feed contains %d post(s)\n", len(posts))
			return nil
		},
	}
}
