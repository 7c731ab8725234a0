/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package standards

import (
	"strconv"

	"github.com/humaidq/glucolens/labs"
)

// Deviation thresholds, as percentages of the nearer bound. The upper side
// is deliberately more tolerant than the lower side.
const (
	lowCriticalPct  = 30
	lowAbnormalPct  = 15
	highCriticalPct = 40
	highAbnormalPct = 15
)

// StandardRange is the normal range for one parameter and profile.
// OpenMax marks ranges that only have a lower bound.
type StandardRange struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	OpenMax     bool    `json:"open_max,omitempty"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
}

// Contains reports whether v lies within the range, bounds inclusive.
func (r StandardRange) Contains(v float64) bool {
	if v < r.Min {
		return false
	}
	return r.OpenMax || v <= r.Max
}

func (r StandardRange) String() string {
	lo := strconv.FormatFloat(r.Min, 'f', -1, 64)
	if r.OpenMax {
		return "> " + lo + " " + r.Unit
	}
	return lo + "-" + strconv.FormatFloat(r.Max, 'f', -1, 64) + " " + r.Unit
}

// Classification is the outcome of checking a value against its standard.
type Classification struct {
	Range    StandardRange `json:"range"`
	Status   labs.Status   `json:"status"`
	Severity labs.Severity `json:"severity"`
}

// Provider resolves standards through an ordered rule table. It is
// immutable after construction and safe for concurrent use.
type Provider struct {
	rules []Rule
}

// NewProvider creates a provider over rules, evaluated in order. A nil
// rules slice selects DefaultRules.
func NewProvider(rules []Rule) *Provider {
	if rules == nil {
		rules = DefaultRules()
	}

	return &Provider{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the provider's rule table.
func (p *Provider) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

// Lookup returns the standard range for a canonical parameter. The boolean
// is false when no rule matches.
func (p *Provider) Lookup(parameter string, profile labs.Profile) (StandardRange, bool) {
	for _, rule := range p.rules {
		if rule.Match(parameter) {
			return rule.Range(profile), true
		}
	}

	return StandardRange{}, false
}

// Classify looks up the standard for parameter and grades value against
// it. The boolean is false when no standard is available.
func (p *Provider) Classify(parameter string, value float64, profile labs.Profile) (Classification, bool) {
	r, ok := p.Lookup(parameter, profile)
	if !ok {
		return Classification{}, false
	}

	status, severity := Grade(r, value)

	return Classification{Range: r, Status: status, Severity: severity}, true
}

// Grade classifies value by its percentage deviation from the nearer bound.
func Grade(r StandardRange, value float64) (labs.Status, labs.Severity) {
	if value < r.Min {
		if r.Min <= 0 {
			return labs.StatusLow, labs.SeverityAbnormal
		}

		pct := (r.Min - value) / r.Min * 100
		switch {
		case pct > lowCriticalPct:
			return labs.StatusCriticallyLow, labs.SeverityCritical
		case pct > lowAbnormalPct:
			return labs.StatusLow, labs.SeverityAbnormal
		default:
			return labs.StatusLow, labs.SeverityBorderline
		}
	}

	if !r.OpenMax && value > r.Max {
		if r.Max <= 0 {
			return labs.StatusHigh, labs.SeverityAbnormal
		}

		pct := (value - r.Max) / r.Max * 100
		switch {
		case pct > highCriticalPct:
			return labs.StatusCriticallyHigh, labs.SeverityCritical
		case pct > highAbnormalPct:
			return labs.StatusHigh, labs.SeverityAbnormal
		default:
			return labs.StatusBorderline, labs.SeverityBorderline
		}
	}

	return labs.StatusNormal, labs.SeverityNormal
}
