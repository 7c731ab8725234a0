/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"fmt"
	"strings"

	"github.com/humaidq/glucolens/labs"
)

// Disclaimer ends every narrative.
const Disclaimer = "This summary is for information only and is not a diagnosis. " +
	"Please review these results with your doctor before making any change to your treatment."

// Report types used when a batch does not map to a single category.
const (
	ReportTypeComprehensive = "Comprehensive Panel"
	ReportTypeUnknown       = "Unknown"
)

// Highlight is a result classified outside its normal range.
type Highlight struct {
	Parameter string        `json:"parameter"`
	Value     string        `json:"value"`
	Unit      string        `json:"unit"`
	Status    labs.Status   `json:"status"`
	Severity  labs.Severity `json:"severity"`
	Range     string        `json:"range"`
}

// labNote flags an unclassified result that falls outside the range printed
// on the report itself.
type labNote struct {
	Parameter string
	Value     string
	Range     string
}

func (h Highlight) line() string {
	s := fmt.Sprintf("- %s: %s (%s", h.Parameter, joinUnit(h.Value, h.Unit), h.Status)
	if h.Range != "" {
		s += "; normal " + h.Range
	}
	return s + ")"
}

func joinUnit(value, unit string) string {
	if unit == "" {
		return value
	}
	return value + " " + unit
}

var narrativeBuckets = []struct {
	severity labs.Severity
	heading  string
}{
	{labs.SeverityCritical, "Critical findings:"},
	{labs.SeverityAbnormal, "Abnormal findings:"},
	{labs.SeverityBorderline, "Borderline findings:"},
}

// buildNarrative renders highlights by severity bucket, then the normal
// count, then the disclaimer. Output depends only on its inputs.
func buildNarrative(highlights []Highlight, notes []labNote, normal, total int) string {
	var b strings.Builder

	for _, bucket := range narrativeBuckets {
		first := true
		for _, h := range highlights {
			if h.Severity != bucket.severity {
				continue
			}
			if first {
				b.WriteString(bucket.heading)
				b.WriteString("\n")
				first = false
			}
			b.WriteString(h.line())
			b.WriteString("\n")
		}
		if !first {
			b.WriteString("\n")
		}
	}

	if len(notes) > 0 {
		b.WriteString("Outside the report's reference range (no clinical standard available):\n")
		for _, n := range notes {
			fmt.Fprintf(&b, "- %s: %s (reference %s)\n", n.Parameter, n.Value, n.Range)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%d of %d parameters are within normal limits.\n\n", normal, total)
	b.WriteString(Disclaimer)

	return b.String()
}

func buildSummary(highlights []Highlight, total int) string {
	if total == 0 {
		return "No lab parameters were analyzed."
	}

	counts := make(map[labs.Severity]int, len(narrativeBuckets))
	for _, h := range highlights {
		counts[h.Severity]++
	}

	if len(highlights) == 0 {
		return fmt.Sprintf("Analyzed %d parameters: all classified values are within normal limits.", total)
	}

	return fmt.Sprintf("Analyzed %d parameters: %d critical, %d abnormal, %d borderline.",
		total, counts[labs.SeverityCritical], counts[labs.SeverityAbnormal], counts[labs.SeverityBorderline])
}

func reportType(results []labs.LabResult) string {
	category := ""
	for _, r := range results {
		switch {
		case category == "":
			category = r.Category
		case r.Category != category:
			return ReportTypeComprehensive
		}
	}

	if category == "" {
		return ReportTypeUnknown
	}

	return category
}
