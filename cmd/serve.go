package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"cyberguard/config"
	"cyberguard/feed"
	"cyberguard/moderation"
	"cyberguard/news"
	"cyberguard/server"
	"cyberguard/storage"
	"cyberguard/waitlist"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the community feed API",
		Description: `Starts the cyberguard HTTP server.

Runs database migrations, opens the SQLite-backed store and serves the
community feed, news, search, contact, waitlist and verification
endpoints. An SSE stream at /api/community/sse carries live feed
events.`,
		Flags: []cli.Flag{
			databaseFlag(),
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   3000,
				Usage:   "Port to listen on",
				EnvVars: []string{"CYBERWARE_PORT"},
			},
			&cli.StringFlag{
				Name:    "cors-origin",
				Value:   "http://localhost:3001",
				Usage:   "Origin allowed to call the API",
				EnvVars: []string{"CYBERWARE_CORS_ORIGIN"},
			},
		},
		Action: func(ctx *cli.Context) error {
			fmt.Println("Starting cyberguard...")

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

			store := feed.NewStore(feed.Config{
				Backend: backend,
				Filter:  filter,
			})

			bc := server.NewBroadcaster()
			app := server.Server(&server.ServerConfig{
				Store: store,
				Fetcher: news.NewFetcher(news.FetcherConfig{
					Proxy: cfg.News.Proxy,
					Limit: cfg.News.Limit,
				}),
				Waitlist:    waitlist.New(backend),
				Config:      cfg,
				Broadcaster: bc,
				CORSOrigin:  ctx.String("cors-origin"),
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			done := make(chan struct{})

			go func() {
				<-c
				fmt.Println("Gracefully shutting down...")
				if err := app.ShutdownWithTimeout(60 * time.Second); err != nil {
					log.Errorf("Error shutting down server: %v", err)
				}
				bc.Shutdown()
				close(done)
			}()

			fmt.Println("Starting server...")
			if err := app.Listen(fmt.Sprintf(":%d", ctx.Int("port"))); err != nil {
				return err
			}

			<-done
			fmt.Println("Done!")
			return nil
		},
	}
}
