/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"fmt"
	"strings"
)

// DedupPolicy controls how results sharing a canonical name within one
// batch are collapsed.
type DedupPolicy string

const (
	// DedupKeepFirst keeps the first occurrence of each canonical name.
	DedupKeepFirst DedupPolicy = "keep-first"
	// DedupKeepLatest keeps the occurrence with the latest test date.
	DedupKeepLatest DedupPolicy = "keep-latest"
	// DedupNone keeps every occurrence.
	DedupNone DedupPolicy = "none"
)

// ParseDedupPolicy parses a policy name. The empty string selects
// DedupKeepFirst.
func ParseDedupPolicy(raw string) (DedupPolicy, error) {
	switch DedupPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DedupKeepFirst:
		return DedupKeepFirst, nil
	case DedupKeepLatest:
		return DedupKeepLatest, nil
	case DedupNone:
		return DedupNone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDedupPolicy, raw)
	}
}

// Blood pressure thresholds for the composite status, in mmHg.
const (
	bpSystolicHigh        = 140
	bpDiastolicHigh       = 90
	bpSystolicBorderline  = 120
	bpDiastolicBorderline = 80
	bpSystolicLow         = 90
	bpDiastolicLow        = 60
)

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithDedupPolicy selects the batch dedup policy.
func WithDedupPolicy(policy DedupPolicy) NormalizerOption {
	return func(n *Normalizer) {
		n.dedup = policy
	}
}

// WithCanonicalizer replaces the default name table.
func WithCanonicalizer(c *Canonicalizer) NormalizerOption {
	return func(n *Normalizer) {
		n.canon = c
	}
}

// Normalizer turns one upload batch of raw results into canonical results.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	canon *Canonicalizer
	dedup DedupPolicy
}

// NewNormalizer creates a Normalizer using the default name table and
// DedupKeepFirst unless overridden.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		canon: defaultCanonicalizer,
		dedup: DedupKeepFirst,
	}
	for _, opt := range opts {
		opt(n)
	}

	return n
}

// DedupPolicy returns the configured dedup policy.
func (n *Normalizer) DedupPolicy() DedupPolicy {
	return n.dedup
}

// Normalize canonicalizes names, merges the latest systolic and diastolic
// readings into a single Blood Pressure result, and dedups the rest.
// The composite and any unpaired half are appended after the other results.
// The input slice is not modified.
func (n *Normalizer) Normalize(raw []LabResult) []LabResult {
	out := make([]LabResult, 0, len(raw))
	index := make(map[string]int, len(raw))

	var systolic, diastolic *LabResult

	for _, r := range raw {
		result := r

		source := result.Parameter
		if strings.TrimSpace(source) == "" {
			source = result.TestName
		}
		result.Parameter = n.canon.Canonicalize(source)
		if result.TestName == "" {
			result.TestName = result.Parameter
		}
		if result.Category == "" {
			result.Category = CategoryFor(result.Parameter)
		}

		switch result.Parameter {
		case ParamSystolic:
			systolic = latestOf(systolic, result)
			continue
		case ParamDiastolic:
			diastolic = latestOf(diastolic, result)
			continue
		}

		out = n.appendDeduped(out, index, result)
	}

	switch {
	case systolic != nil && diastolic != nil:
		out = append(out, mergeBloodPressure(*systolic, *diastolic))
	case systolic != nil:
		out = append(out, *systolic)
	case diastolic != nil:
		out = append(out, *diastolic)
	}

	return out
}

func (n *Normalizer) appendDeduped(out []LabResult, index map[string]int, result LabResult) []LabResult {
	if n.dedup == DedupNone {
		return append(out, result)
	}

	pos, seen := index[result.Parameter]
	if !seen {
		index[result.Parameter] = len(out)
		return append(out, result)
	}

	if n.dedup == DedupKeepLatest && result.TestDate.After(out[pos].TestDate) {
		out[pos] = result
		return out
	}

	logger.Debug("Dropped duplicate result", "parameter", result.Parameter, "policy", string(n.dedup))

	return out
}

func latestOf(current *LabResult, candidate LabResult) *LabResult {
	if current == nil || candidate.TestDate.After(current.TestDate) {
		return &candidate
	}
	return current
}

func mergeBloodPressure(systolic, diastolic LabResult) LabResult {
	return LabResult{
		TestName:    ParamBloodPressure,
		Parameter:   ParamBloodPressure,
		StringValue: formatNumber(systolic.Value) + "/" + formatNumber(diastolic.Value),
		Unit:        "mmHg",
		NormalRange: "90-120/60-80",
		Status:      BloodPressureStatus(systolic.Value, diastolic.Value),
		TestDate:    systolic.TestDate,
		Category:    CategoryVitals,
	}
}

// BloodPressureStatus classifies a systolic/diastolic pair.
func BloodPressureStatus(systolic, diastolic float64) Status {
	switch {
	case systolic > bpSystolicHigh || diastolic > bpDiastolicHigh:
		return StatusHigh
	case systolic > bpSystolicBorderline || diastolic > bpDiastolicBorderline:
		return StatusBorderline
	case systolic < bpSystolicLow || diastolic < bpDiastolicLow:
		return StatusLow
	default:
		return StatusNormal
	}
}

// SplitComposite parses a "sys/dia" composite reading.
func SplitComposite(value string) (first, second float64, ok bool) {
	parts := strings.SplitN(value, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	first, okFirst := parseNumber(parts[0])
	second, okSecond := parseNumber(parts[1])
	if !okFirst || !okSecond {
		return 0, 0, false
	}

	return first, second, true
}
