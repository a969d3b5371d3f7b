package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"cyberguard/verify"
)

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check a phone number's integrity",
		ArgsUsage: "<number>",
		Description: `Validates the phone number for the given region and prints the
		verification result as JSON. Carrier and location details are
		simulated.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "region",
				Aliases: []string{"r"},
				Value:   "US",
				Usage:   "ISO 3166-1 alpha-2 region the number belongs to",
				EnvVars: []string{"CYBERWARE_REGION"},
			},
		},
		Action: func(ctx *cli.Context) error {
			number := ctx.Args().First()
			if number == "" {
				return errors.New("please specify a phone number")
			}

			result, err := verify.Check(number, ctx.String("region"))
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
