/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/glucolens/labs"
)

var CmdMatch = newMatchCommand()

func newMatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Resolve medication names against the catalog",
		ArgsUsage: "<name>...",
		Flags:     pipelineFlags(),
		Action:    matchMedications,
	}
}

func matchMedications(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return errMedicationRequired
	}

	catalog, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	p, err := newPipeline(cmd, catalog)
	if err != nil {
		return err
	}

	records := make([]labs.MedicationRecord, 0, cmd.Args().Len())
	for _, name := range cmd.Args().Slice() {
		records = append(records, labs.MedicationRecord{Name: name, IsActive: true})
	}

	w := cmd.Root().Writer
	for _, r := range p.matcher.Resolve(records) {
		if !r.Validated() {
			fmt.Fprintf(w, "%s: no match\n", r.Record.Name)
			continue
		}

		fmt.Fprintf(w, "%s: %s (%s, score %.2f)\n", r.Record.Name, r.Match.CanonicalName, r.Match.DrugClass, r.Match.Score)
	}

	return nil
}
