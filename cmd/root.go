package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "cyberguard",
		Usage: "Backend for the Cyber Guardian community site",
		Description: `Runs the Cyber Guardian community feed and its supporting
		services: anonymous post submission with content moderation,
		ownership-scoped deletion, cyber news via an RSS-to-JSON proxy,
		site search, contact drafting and phone verification.

		Posts are kept in an SQLite-backed key/value store and served
		over an HTTP API.

		Flags can generally be set via environment variables, e.g.:

		--database => CYBERWARE_DATABASE=cyberguard.db
		--port => CYBERWARE_PORT=3000
		`,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			rollbackCmd(),
			seedCmd(),
			tidyCmd(),
			postCmd(),
			newsCmd(),
			verifyCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func databaseFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "database",
		Aliases: []string{"d"},
		Value:   "cyberguard.db",
		Usage:   "SQLite database file location",
		EnvVars: []string{"CYBERWARE_DATABASE"},
	}
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to site configuration file",
		EnvVars: []string{"CYBERWARE_CONFIG"},
	}
}
