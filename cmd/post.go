package cmd

import (
	"errors"
	"fmt"

	"github.com/cqroot/prompt"
	"github.com/urfave/cli/v2"

	"cyberguard/config"
	"cyberguard/feed"
	"cyberguard/models"
	"cyberguard/moderation"
	"cyberguard/storage"
)

func postCmd() *cli.Command {
	return &cli.Command{
		Name:  "post",
		Usage: "Submit a community post interactively",
		Description: `Prompts for a title, details and category, validates the draft
		against the content policy, then asks for confirmation before
		committing the post to the feed.

		The post is attributed to a fresh session id unless one is
		passed via --session, so a session id must be kept to delete
		the post later.`,
		Flags: []cli.Flag{
			databaseFlag(),
			configFlag(),
			&cli.StringFlag{
				Name:    "session",
				Usage:   "Session id to attribute the post to",
				EnvVars: []string{"CYBERWARE_SESSION"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			database := ctx.String("database")
			if err := storage.Migrate(database); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			backend, err := storage.OpenSQLite(database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer backend.Close()

			filter, err := moderation.NewFilter(cfg.ForbiddenWords)
			if err != nil {
				return err
			}
			store := feed.NewStore(feed.Config{Backend: backend, Filter: filter})

			title, err := prompt.New().Ask("Title:").Input("")
			if err != nil {
				return err
			}

			content, err := prompt.New().Ask("Details:").Input("")
			if err != nil {
				return err
			}

			// Validate before the confirmation step; the draft is only
			// committed once the user approves it.
			if err := store.ValidateDraft(title, content); err != nil {
				switch {
				case errors.Is(err, feed.ErrEmptyField):
					return errors.New("please fill out both the title and the details before posting")
				case errors.Is(err, feed.ErrContentViolation):
					return fmt.Errorf("draft rejected: %v", err)
				default:
					return fmt.Errorf("details must be between %d and %d characters", feed.MinContentLength, feed.MaxContentLength)
				}
			}

			category, err := prompt.New().Ask("Category:").Choose([]string{
				string(models.CategoryDanger),
				string(models.CategoryTip),
				string(models.CategoryQuestion),
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nTitle:    %s\nDetails:  %s\nCategory: %s\n\n", title, content, category)
			confirm, err := prompt.New().Ask("Confirm & post?").Choose([]string{"yes", "no"})
			if err != nil {
				return err
			}
			if confirm != "yes" {
				fmt.Println("Post discarded.")
				return nil
			}

			sessionID := ctx.String("session")
			if sessionID == "" {
				sessionID = feed.NewSessionID()
			}

			post, err := store.Submit(title, content, models.ParseCategory(category), sessionID)
			if err != nil {
				return err
			}

			fmt.Printf("Posted as Guardian#%s (id %s, session %s)\n", post.GuardianID, post.ID, sessionID)
			return nil
		},
	}
}
