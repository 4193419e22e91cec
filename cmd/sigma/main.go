/**
 * Filename: /Users/htang/code/sigma/cmd/sigma/main.go
 * Path: /Users/htang/code/sigma/cmd/sigma
 *
 * Copyright (c) 2018 Haibao Tang
 */

package main

import (
	"os"
	"time"

	logging "github.com/op/go-logging"
	"github.com/urfave/cli"

	"github.com/tanghaibao/sigma"
)

// main is the entrypoint. Sigma's CLI contract is a single positional
// argument -- the path to a configuration file -- and no flags, per
// spec.md §6.
func main() {
	logging.SetBackend(sigma.BackendFormatter)

	app := cli.NewApp()
	app.Compiled = time.Now()
	app.Name = "sigma"
	app.Usage = "Cluster assembly contigs by read-coverage profile"
	app.UsageText = "sigma config_file"
	app.ArgsUsage = "config_file"
	app.Action = func(c *cli.Context) error {
		if c.NArg() != 1 {
			cli.ShowAppHelp(c)
			return cli.NewExitError("Must specify a configuration file", 1)
		}

		p := sigma.Pipeline{ConfigFile: c.Args().Get(0)}
		if err := p.Run(); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}

		return nil
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
