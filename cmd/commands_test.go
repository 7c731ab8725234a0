// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/glucolens/alerts"
	"github.com/humaidq/glucolens/analysis"
	"github.com/humaidq/glucolens/labs"
)

const sampleReport = `City Diagnostics
Patient Name: Test Patient
HbA1c : 9.4 %  4.0-5.6
Fasting Blood Sugar : 186 mg/dL  70-100
Serum Creatinine : 1.1 mg/dL 0.6-1.2
`

// run parses args with freshly built commands so flag state does not leak
// between runs.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	app := &cli.Command{
		Name:     "glucolens",
		Commands: []*cli.Command{newAnalyzeCommand(), newMatchCommand()},
		Writer:   &out,
		Reader:   strings.NewReader(stdin),
	}

	err := app.Run(context.Background(), append([]string{"glucolens"}, args...))

	return out.String(), err
}

func writeReport(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}

	return path
}

func TestAnalyzeCommandJSON(t *testing.T) {
	path := writeReport(t, sampleReport)

	out, err := run(t, "", "analyze", "--json", "--date", "2024-02-10",
		"--age", "47", "--diabetes-type", "Type 2", "--treatment", "Insulin",
		"--medication", "Lantus", path)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var got struct {
		ReportType string           `json:"report_type"`
		Results    []labs.LabResult `json:"results"`
		Alerts     []alerts.Alert   `json:"alerts"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}

	if len(got.Results) != 3 {
		t.Fatalf("expected three results, got %+v", got.Results)
	}
	if got.Results[0].TestDate.Format("2006-01-02") != "2024-02-10" {
		t.Fatalf("expected report date to be applied, got %v", got.Results[0].TestDate)
	}

	for _, a := range got.Alerts {
		if a.Category == alerts.CategoryMedication {
			t.Fatalf("expected Lantus to satisfy the insulin check, got %+v", a)
		}
	}
	if len(got.Alerts) == 0 || got.Alerts[0].Category != alerts.CategoryHbA1c {
		t.Fatalf("expected HbA1c alert, got %+v", got.Alerts)
	}
}

func TestAnalyzeCommandText(t *testing.T) {
	out, err := run(t, sampleReport, "analyze", "--date", "2024-02-10", "-")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	for _, want := range []string{"Report: " + analysis.ReportTypeComprehensive, "Patterns:", "Alerts:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAnalyzeCommandErrors(t *testing.T) {
	path := writeReport(t, sampleReport)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing path", []string{"analyze"}, errReportPathRequired},
		{"bad date", []string{"analyze", "--date", "10/02/2024", path}, errInvalidTestDate},
		{"bad policy", []string{"analyze", "--dedup-policy", "newest", path}, labs.ErrUnknownDedupPolicy},
		{"bad threshold", []string{"analyze", "--trend-threshold", "0", path}, errInvalidTrendThreshold},
		{"profile without database", []string{"analyze", "--profile-id", "p1", "--database-url", "", path}, errProfileIDNeedsDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, "", tt.args...); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMatchCommand(t *testing.T) {
	out, err := run(t, "", "match", "Glycomet", "Zzyzx")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	if !strings.Contains(out, "Glycomet: Metformin (Biguanide, score 1.00)") {
		t.Fatalf("expected Metformin match:\n%s", out)
	}
	if !strings.Contains(out, "Zzyzx: no match") {
		t.Fatalf("expected unmatched name:\n%s", out)
	}

	if _, err := run(t, "", "match"); !errors.Is(err, errMedicationRequired) {
		t.Fatalf("expected errMedicationRequired, got %v", err)
	}
}

func TestMatchCommandCustomCatalog(t *testing.T) {
	out, err := run(t, "", "match", "--catalog", filepath.Join("..", "medication", "testdata", "catalog.yaml"), "Metolar", "Januvia")
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}

	if !strings.Contains(out, "Metolar: Metoprolol") || !strings.Contains(out, "Januvia: no match") {
		t.Fatalf("expected custom catalog to replace defaults:\n%s", out)
	}
}
