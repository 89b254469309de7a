package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "awardctl",
		Usage: "resolve competition results and generate exports and diplomas",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before configuration",
			},
			&cli.Int64Flag{
				Name:     "competition",
				Aliases:  []string{"c"},
				Usage:    "competition id",
				Required: true,
				EnvVars:  []string{"AWARDCTL_COMPETITION"},
			},
		},
		Commands: []*cli.Command{
			newResultsCommand(),
			newExportCommand(),
			newChartCommand(),
			newDiplomasCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "awardctl:", err)
		os.Exit(1)
	}
}
