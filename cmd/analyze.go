/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/glucolens/alerts"
	"github.com/humaidq/glucolens/analysis"
	"github.com/humaidq/glucolens/db"
	"github.com/humaidq/glucolens/labs"
)

var CmdAnalyze = newAnalyzeCommand()

func newAnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze a lab report text file (use - for stdin)",
		ArgsUsage: "<report.txt>",
		Flags: append([]cli.Flag{
			databaseURLFlag(),
			&cli.StringFlag{
				Name:  "profile-id",
				Usage: "load profile, history and medications from the database",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "store the classified results for --profile-id",
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "report date (YYYY-MM-DD), defaults to today",
			},
			&cli.IntFlag{
				Name:  "age",
				Usage: "patient age in years",
			},
			&cli.StringFlag{
				Name:  "gender",
				Usage: "patient gender (male, female)",
			},
			&cli.StringFlag{
				Name:  "diabetes-type",
				Usage: "e.g. Type 1, Type 2, Gestational",
			},
			&cli.StringFlag{
				Name:  "treatment",
				Usage: "treatment type, e.g. Oral, Insulin",
			},
			&cli.StringSliceFlag{
				Name:  "medication",
				Usage: "active medication name (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the result as JSON",
			},
		}, pipelineFlags()...),
		Action: analyzeReport,
	}
}

type analyzeOutput struct {
	*analysis.Result
	Alerts []alerts.Alert `json:"alerts"`
}

func readReport(cmd *cli.Command) (string, error) {
	path := cmd.Args().First()
	if path == "" {
		return "", errReportPathRequired
	}

	var r io.Reader = cmd.Root().Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open report: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read report: %w", err)
	}

	return string(data), nil
}

func reportDate(cmd *cli.Command) (time.Time, error) {
	raw := cmd.String("date")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errInvalidTestDate, raw)
	}

	return date, nil
}

func profileFromFlags(cmd *cli.Command) labs.Profile {
	return labs.Profile{
		Age:           int(cmd.Int("age")),
		Gender:        labs.ParseGender(cmd.String("gender")),
		DiabetesType:  cmd.String("diabetes-type"),
		TreatmentType: cmd.String("treatment"),
	}
}

func medicationsFromFlags(cmd *cli.Command) []labs.MedicationRecord {
	var meds []labs.MedicationRecord
	for _, name := range cmd.StringSlice("medication") {
		if name = strings.TrimSpace(name); name != "" {
			meds = append(meds, labs.MedicationRecord{Name: name, IsActive: true})
		}
	}
	return meds
}

func analyzeReport(ctx context.Context, cmd *cli.Command) error {
	text, err := readReport(cmd)
	if err != nil {
		return err
	}

	date, err := reportDate(cmd)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	p, err := newPipeline(cmd, catalog)
	if err != nil {
		return err
	}

	profile := profileFromFlags(cmd)
	meds := medicationsFromFlags(cmd)

	var history []labs.LabResult

	profileID := cmd.String("profile-id")
	if profileID != "" {
		databaseURL := cmd.String("database-url")
		if databaseURL == "" {
			return errProfileIDNeedsDatabase
		}

		if err := db.Init(ctx, databaseURL); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		pc, err := db.LoadPatientContext(ctx, profileID, date)
		if err != nil {
			return fmt.Errorf("failed to load profile %s: %w", profileID, err)
		}

		profile = pc.Profile.Profile
		history = pc.History
		meds = append(pc.Medications, meds...)
	}

	res, err := p.analyzer.Analyze(text, date, profile, history)
	if err != nil {
		return err
	}

	out := analyzeOutput{
		Result: res,
		Alerts: p.engine.GenerateAlerts(append(history, res.Results...), meds, profile),
	}

	if cmd.Bool("save") && profileID != "" {
		saved, err := db.SaveLabResults(ctx, profileID, res.Results)
		if err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
		appLogger.Info("Saved lab results", "profile_id", profileID, "count", saved)
	}

	w := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printAnalysis(w, out)

	return nil
}

func printAnalysis(w io.Writer, out analyzeOutput) {
	fmt.Fprintf(w, "Report: %s\n", out.ReportType)
	fmt.Fprintf(w, "Summary: %s\n\n", out.Summary)
	fmt.Fprintln(w, out.Narrative)

	if len(out.TrendInsights) > 0 {
		fmt.Fprintln(w, "\nTrends:")
		for _, t := range out.TrendInsights {
			fmt.Fprintf(w, "  - %s\n", t.Message)
		}
	}

	if len(out.PatternInsights) > 0 {
		fmt.Fprintln(w, "\nPatterns:")
		for _, p := range out.PatternInsights {
			fmt.Fprintf(w, "  - %s: %s\n", p.Name, p.Narrative)
		}
	}

	if len(out.Alerts) > 0 {
		fmt.Fprintln(w, "\nAlerts:")
		for _, a := range out.Alerts {
			fmt.Fprintf(w, "  [%s] %s: %s\n", a.Severity, a.Title, a.Message)
			fmt.Fprintf(w, "      %s\n", a.ActionText)
		}
	}
}
