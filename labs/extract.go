/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"bufio"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// entryLineRegex splits "name [:] value[/value] rest" where name ends in a
// letter, digit or closing bracket and value is the first standalone number
// after it, so "Vitamin B12 150" keeps B12 in the name.
var entryLineRegex = regexp.MustCompile(`^(.*?[\p{L}\p{N}\)\]%])(?:\s*[:=]\s*|\s+)(-?\d+(?:\.\d+)?)(?:\s*/\s*(\d+(?:\.\d+)?))?(.*)$`)

var ignoredLabels = []string{
	"date", "age", "page", "sample", "patient", "name", "phone", "mobile",
	"report", "ref. by", "referred", "lab no", "reg", "collected", "received",
	"printed", "uhid", "id",
}

var rangeLeadWords = map[string]bool{
	"upto": true, "up": true, "less": true, "below": true,
	"more": true, "above": true, "greater": true, "normal": true,
}

var resultFlags = map[string]bool{
	"h": true, "l": true, "*": true, "high": true, "low": true,
}

// ExtractEntries pulls raw lab entries out of already-extracted report
// text, one entry per line shaped like "name value [unit] [range]".
// Lines without a numeric value are skipped. A "120/80" reading on a blood
// pressure line yields separate systolic and diastolic entries.
func ExtractEntries(text string, testDate time.Time) []LabResult {
	var entries []LabResult

	scanner := bufio.NewScanner(strings.NewReader(norm.NFKC.String(text)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entries = append(entries, parseEntryLine(line, testDate)...)
	}

	return entries
}

func parseEntryLine(line string, testDate time.Time) []LabResult {
	m := entryLineRegex.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	name := strings.TrimSpace(strings.TrimRight(m[1], ":= "))
	if !strings.ContainsFunc(name, unicode.IsLetter) || isIgnoredLabel(name) {
		return nil
	}

	value, ok := parseNumber(m[2])
	if !ok {
		return nil
	}

	unit, rangeText := splitUnitAndRange(m[4])

	if m[3] != "" {
		second, ok := parseNumber(m[3])
		if !ok {
			return nil
		}
		if Canonicalize(name) != ParamBloodPressure {
			// Dates and ratios on non-BP lines are not lab values.
			logger.Debug("Skipped slashed value", "name", name, "line", line)
			return nil
		}

		if unit == "" {
			unit = "mmHg"
		}

		return []LabResult{
			{TestName: ParamSystolic, Value: value, Unit: unit, TestDate: testDate},
			{TestName: ParamDiastolic, Value: second, Unit: unit, TestDate: testDate},
		}
	}

	return []LabResult{{
		TestName:    name,
		Value:       value,
		Unit:        unit,
		NormalRange: rangeText,
		TestDate:    testDate,
	}}
}

func splitUnitAndRange(rest string) (string, string) {
	fields := strings.Fields(rest)

	for len(fields) > 0 && resultFlags[strings.ToLower(fields[0])] {
		fields = fields[1:]
	}

	if len(fields) == 0 {
		return "", ""
	}

	unit := ""
	if looksLikeUnit(fields[0]) {
		unit = fields[0]
		fields = fields[1:]
	}

	rangeText := strings.Join(fields, " ")
	rangeText = strings.Trim(rangeText, "()[] ")

	return unit, rangeText
}

func looksLikeUnit(field string) bool {
	if rangeLeadWords[strings.ToLower(strings.TrimRight(field, ":"))] {
		return false
	}

	first := field[0]
	if first >= '0' && first <= '9' {
		return false
	}

	return !strings.ContainsAny(field[:1], "<>([-") && !strings.HasPrefix(field, "≤") && !strings.HasPrefix(field, "≥")
}

func isIgnoredLabel(name string) bool {
	lower := strings.ToLower(name)
	for _, label := range ignoredLabels {
		if lower == label || strings.HasPrefix(lower, label+" ") || strings.HasPrefix(lower, label+":") {
			return true
		}
	}
	return false
}
