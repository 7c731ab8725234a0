/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package alerts

import (
	"sort"
	"time"

	"github.com/humaidq/glucolens/labs"
	"github.com/humaidq/glucolens/medication"
	"github.com/humaidq/glucolens/standards"
)

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for refill checks and for alerts
// whose source has no date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithMatcher lets medication rules recognise insulin products by catalog
// class as well as by name.
func WithMatcher(m *medication.Matcher) Option {
	return func(e *Engine) {
		e.matcher = m
	}
}

// WithTargets replaces the per-profile treatment targets.
func WithTargets(targets func(labs.Profile) standards.Targets) Option {
	return func(e *Engine) {
		e.targets = targets
	}
}

// Engine evaluates every alert rule family and merges the results.
type Engine struct {
	now     func() time.Time
	matcher *medication.Matcher
	targets func(labs.Profile) standards.Targets
}

// NewEngine creates an engine using the wall clock and default targets.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:     time.Now,
		targets: standards.TargetsFor,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// input is the shared view handed to each rule family.
type input struct {
	results []labs.LabResult
	meds    []labs.MedicationRecord
	profile labs.Profile
	targets standards.Targets
	now     time.Time
}

type ruleFunc func(e *Engine, in input) []Alert

var ruleFamilies = []ruleFunc{
	glucoseAlerts,
	glucosePatternAlerts,
	hba1cAlerts,
	medicationAlerts,
	kidneyAlerts,
	bloodPressureAlerts,
}

// GenerateAlerts runs all rule families independently and returns their
// alerts sorted by severity, preserving generation order within a
// severity. Missing data yields no alerts rather than an error.
func (e *Engine) GenerateAlerts(results []labs.LabResult, meds []labs.MedicationRecord, profile labs.Profile) []Alert {
	in := input{
		results: results,
		meds:    meds,
		profile: profile,
		targets: e.targets(profile),
		now:     e.now(),
	}

	var out []Alert
	for _, rule := range ruleFamilies {
		out = append(out, rule(e, in)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity < out[j].Severity
	})

	return out
}

// byParameter returns numeric results matching keep, newest first. Equal
// dates keep input order.
func byParameter(results []labs.LabResult, keep func(string) bool) []labs.LabResult {
	var out []labs.LabResult
	for _, r := range results {
		if !r.HasComposite() && keep(parameterOf(r)) {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TestDate.After(out[j].TestDate)
	})

	return out
}

func parameterOf(r labs.LabResult) string {
	if r.Parameter != "" {
		return r.Parameter
	}
	return labs.Canonicalize(r.TestName)
}

func isParameter(names ...string) func(string) bool {
	return func(p string) bool {
		for _, n := range names {
			if p == n {
				return true
			}
		}
		return false
	}
}

func (in input) dateOr(t time.Time) time.Time {
	if t.IsZero() {
		return in.now
	}
	return t
}
