package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"cyberguard/config"
	"cyberguard/news"
)

func newsCmd() *cli.Command {
	return &cli.Command{
		Name:  "news",
		Usage: "Fetch cyber news and print it to the command line",
		Description: `Fetches the configured news source through the RSS-to-JSON
proxy and prints each article as a JSON object on a single line. Use a
tool like jq to process the output.

Prints all other log messages to stderr.`,
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Value:   "hackernews",
				Usage:   "Name of the configured news source to fetch",
				EnvVars: []string{"CYBERWARE_NEWS_SOURCE"},
			},
		},
		Action: func(ctx *cli.Context) error {
			// Keep stdout clean for the article stream
			log.SetOutput(os.Stderr)

			cfg, err := config.LoadConfig(ctx.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			var source news.Source
			found := false
			for _, src := range cfg.Sources() {
				if src.Name == ctx.String("source") {
					source = src
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("unknown news source %q", ctx.String("source"))
			}

			fetcher := news.NewFetcher(news.FetcherConfig{
				Proxy: cfg.News.Proxy,
				Limit: cfg.News.Limit,
			})

			items, err := fetcher.Fetch(ctx.Context, source)
			if err != nil {
				return err
			}

			for _, item := range items {
				printStdout(item)
			}
			return nil
		},
	}
}

func printStdout(item news.Item) {
	// Print as single JSON string on a single line
	itemJson, err := json.Marshal(item)
	if err == nil {
		fmt.Println(string(itemJson))
	}
}
