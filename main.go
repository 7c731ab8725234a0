/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/glucolens/cmd"
	"github.com/humaidq/glucolens/logging"
)

func main() {
	logging.Init()

	app := &cli.Command{
		Name:  "glucolens",
		Usage: "Glucolens - lab report analysis for diabetes care",
		Commands: []*cli.Command{
			cmd.CmdStart,
			cmd.CmdAnalyze,
			cmd.CmdMatch,
			cmd.CmdMigrate,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logging.Logger(logging.SourceApp).Fatal("Command failed", "error", err)
	}
}
