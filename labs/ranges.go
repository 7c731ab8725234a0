/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Bounds holds the optional numeric limits parsed from reference range text.
// A nil bound means the text did not provide it.
type Bounds struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// IsEmpty reports whether neither bound is known.
func (b Bounds) IsEmpty() bool {
	return b.Min == nil && b.Max == nil
}

// Contains reports whether v lies within the known bounds (inclusive).
func (b Bounds) Contains(v float64) bool {
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v > *b.Max {
		return false
	}
	return true
}

func (b Bounds) String() string {
	switch {
	case b.Min != nil && b.Max != nil:
		return formatNumber(*b.Min) + "-" + formatNumber(*b.Max)
	case b.Max != nil:
		return "< " + formatNumber(*b.Max)
	case b.Min != nil:
		return "> " + formatNumber(*b.Min)
	default:
		return ""
	}
}

var dashReplacer = strings.NewReplacer(
	"‐", "-", "‑", "-", "‒", "-", "–", "-",
	"—", "-", "―", "-", "−", "-", "﹘", "-",
	"﹣", "-", "－", "-",
)

var (
	upperOnlyRegex = regexp.MustCompile(`^(?:<=?|≤|upto|up to|less than|below)\s*(-?\d+(?:\.\d+)?)`)
	lowerOnlyRegex = regexp.MustCompile(`^(?:>=?|≥|more than|above|greater than)\s*(-?\d+(?:\.\d+)?)`)
	hyphenRegex    = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)`)
	numberRegex    = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ParseRange parses free-text reference range text such as "13.5-17.5",
// "< 5.7", "upto 200" or "> 40". It never fails: text it cannot read
// yields empty Bounds.
func ParseRange(text string) Bounds {
	cleaned := normalizeRangeText(text)
	if cleaned == "" {
		return Bounds{}
	}

	if m := upperOnlyRegex.FindStringSubmatch(cleaned); m != nil {
		if max, ok := parseNumber(m[1]); ok {
			return Bounds{Min: floatPtr(0), Max: &max}
		}
	}

	if m := lowerOnlyRegex.FindStringSubmatch(cleaned); m != nil {
		if min, ok := parseNumber(m[1]); ok {
			return Bounds{Min: &min}
		}
	}

	if m := hyphenRegex.FindStringSubmatch(cleaned); m != nil {
		min, okMin := parseNumber(m[1])
		max, okMax := parseNumber(m[2])
		if okMin && okMax {
			return Bounds{Min: &min, Max: &max}
		}
	}

	// Other separators ("70 to 110", "70 ~ 110"): first two numbers.
	numbers := numberRegex.FindAllString(cleaned, 2)
	if len(numbers) == 2 {
		min, okMin := parseNumber(numbers[0])
		max, okMax := parseNumber(numbers[1])
		if okMin && okMax {
			return Bounds{Min: &min, Max: &max}
		}
	}

	logger.Debug("Unparseable reference range", "text", text)

	return Bounds{}
}

func normalizeRangeText(text string) string {
	s := norm.NFKC.String(text)
	s = dashReplacer.Replace(s)
	s = strings.ToLower(s)

	if strings.Contains(s, ":") {
		s = referenceTier(s)
	}

	return strings.TrimSpace(s)
}

var (
	tierLabelRegex  = regexp.MustCompile(`(\p{L}[\p{L}\s\-]*?)\s*:`)
	normalTierWords = []string{"normal", "non-diabetic", "non diabetic", "desirable", "optimal", "reference"}
)

// referenceTier picks one tier out of labelled text such as
// "normal: <100, prediabetes: 100-125, diabetes: >=126". The tier labelled
// normal wins, otherwise the first one.
func referenceTier(s string) string {
	labels := tierLabelRegex.FindAllStringSubmatchIndex(s, -1)
	if len(labels) == 0 {
		return s
	}

	tiers := make([]string, len(labels))
	chosen := -1
	for i, loc := range labels {
		end := len(s)
		if i+1 < len(labels) {
			end = labels[i+1][0]
		}
		tiers[i] = strings.Trim(s[loc[1]:end], " ,;|")

		label := s[loc[2]:loc[3]]
		if chosen < 0 && !strings.Contains(label, "abnormal") && containsAny(label, normalTierWords) {
			chosen = i
		}
	}

	if chosen < 0 {
		chosen = 0
	}

	return tiers[chosen]
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func floatPtr(v float64) *float64 {
	return &v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
