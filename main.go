package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/miru4128/gaayatri-project/cmd"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "gaayatri",
		Usage:   "Dairy-cattle assistant for farmers",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE` (TOML)",
				EnvVars: []string{"GAAYATRI_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			cmd.ServeCommand(),
			cmd.ClassifyCommand(),
			cmd.TokenCommand(),
			cmd.AnimalCommand(),
			cmd.ChatCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
