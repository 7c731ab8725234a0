/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/humaidq/glucolens/labs"
)

// DefaultTrendThreshold is the minimum absolute percent change reported.
const DefaultTrendThreshold = 5.0

// Trend directions.
const (
	DirectionUp   = "increased"
	DirectionDown = "decreased"
)

// TrendInsight compares a current value with the latest earlier value of
// the same parameter.
type TrendInsight struct {
	Parameter     string        `json:"parameter"`
	Previous      float64       `json:"previous"`
	Current       float64       `json:"current"`
	PreviousDate  time.Time     `json:"previous_date"`
	CurrentDate   time.Time     `json:"current_date"`
	PercentChange float64       `json:"percent_change"`
	Direction     string        `json:"direction"`
	Worsening     bool          `json:"worsening"`
	Severity      labs.Severity `json:"severity"`
	Message       string        `json:"message"`
}

func historyKey(r labs.LabResult) string {
	if r.Parameter != "" {
		return r.Parameter
	}
	return labs.Canonicalize(r.TestName)
}

// findPrevious returns the most recent history value of parameter dated
// strictly before date.
func findPrevious(history []labs.LabResult, parameter string, date time.Time) (labs.LabResult, bool) {
	var best labs.LabResult
	found := false

	for _, h := range history {
		if h.HasComposite() || historyKey(h) != parameter {
			continue
		}
		if !h.TestDate.Before(date) {
			continue
		}
		if !found || h.TestDate.After(best.TestDate) {
			best = h
			found = true
		}
	}

	return best, found
}

func compareTrends(results, history []labs.LabResult, threshold float64) []TrendInsight {
	var insights []TrendInsight

	for _, cur := range results {
		if cur.HasComposite() {
			continue
		}

		prev, ok := findPrevious(history, cur.Parameter, cur.TestDate)
		if !ok || prev.Value == 0 {
			continue
		}

		pct := (cur.Value - prev.Value) / prev.Value * 100
		if math.Abs(pct) < threshold {
			continue
		}

		direction := DirectionUp
		if pct < 0 {
			direction = DirectionDown
		}

		worsening := (cur.Status.IsHighSide() && pct > 0) || (cur.Status.IsLowSide() && pct < 0)

		severity := labs.SeverityNormal
		if worsening {
			severity = labs.SeverityAbnormal
			if labs.SeverityForStatus(cur.Status) == labs.SeverityCritical {
				severity = labs.SeverityCritical
			}
		}

		insights = append(insights, TrendInsight{
			Parameter:     cur.Parameter,
			Previous:      prev.Value,
			Current:       cur.Value,
			PreviousDate:  prev.TestDate,
			CurrentDate:   cur.TestDate,
			PercentChange: math.Round(pct*10) / 10,
			Direction:     direction,
			Worsening:     worsening,
			Severity:      severity,
			Message:       trendMessage(cur, prev, pct, direction, worsening),
		})
	}

	return insights
}

func trendMessage(cur, prev labs.LabResult, pct float64, direction string, worsening bool) string {
	msg := fmt.Sprintf("%s %s %.1f%% from %s to %s since %s",
		cur.Parameter, direction, math.Abs(pct),
		formatValue(prev.Value, prev.Unit), formatValue(cur.Value, cur.Unit),
		prev.TestDate.Format(time.DateOnly))

	if worsening {
		msg += fmt.Sprintf(", moving further %s", describeStatus(cur.Status))
	}

	return msg
}

func describeStatus(s labs.Status) string {
	if s.IsLowSide() {
		return "below the normal range"
	}
	return "above the normal range"
}

func formatValue(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}
