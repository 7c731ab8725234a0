/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package medication

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/humaidq/glucolens/labs"
)

const (
	minQueryLength = 3

	exactScore  = 1.0
	prefixScore = 0.75

	// fuzzy matches must be strictly above this similarity
	fuzzyThreshold = 0.7

	// prefix heuristic applies to canonical names longer than
	// prefixMinLength and compares their first prefixLength runes
	prefixMinLength = 4
	prefixLength    = 5
)

// Match is the best catalog entry for a query.
type Match struct {
	CanonicalName  string  `json:"canonical_name"`
	DrugClass      string  `json:"drug_class"`
	IsAntidiabetic bool    `json:"is_antidiabetic"`
	Score          float64 `json:"score"`
}

// Resolution pairs a medication record with its catalog match, if any.
type Resolution struct {
	Record labs.MedicationRecord `json:"record"`
	Match  *Match                `json:"match,omitempty"`
}

// Validated reports whether the record resolved to a catalog entry.
func (r Resolution) Validated() bool {
	return r.Match != nil
}

// Matcher resolves free-text medication names against a catalog.
type Matcher struct {
	catalog *Catalog
}

// NewMatcher creates a matcher over catalog. A nil catalog selects
// DefaultCatalog.
func NewMatcher(catalog *Catalog) *Matcher {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Matcher{catalog: catalog}
}

// Catalog returns the matcher's catalog.
func (m *Matcher) Catalog() *Catalog {
	return m.catalog
}

// FindBestMatch scores every entry by the best of exact, fuzzy and prefix
// matching and returns the highest scoring entry. Ties keep catalog order.
// Queries shorter than three characters never match.
//
// The prefix heuristic is coarse: any query containing the first five
// letters of a canonical name scores 0.75, so drugs sharing a prefix can
// be confused.
func (m *Matcher) FindBestMatch(query string) *Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < minQueryLength {
		return nil
	}

	var best *indexedEntry
	bestScore := 0.0

	for i := range m.catalog.entries {
		entry := &m.catalog.entries[i]

		score := scoreEntry(q, entry)
		if score > bestScore {
			best = entry
			bestScore = score
		}
	}

	if best == nil {
		logger.Debug("No medication match", "query", query)
		return nil
	}

	return &Match{
		CanonicalName:  best.CanonicalName,
		DrugClass:      best.DrugClass,
		IsAntidiabetic: best.IsAntidiabetic,
		Score:          bestScore,
	}
}

func scoreEntry(q string, entry *indexedEntry) float64 {
	score := 0.0

	for _, name := range entry.names {
		if q == name {
			return exactScore
		}

		if sim := similarity(q, name); sim > fuzzyThreshold && sim > score {
			score = sim
		}
	}

	if entry.prefix != "" && prefixScore > score && strings.Contains(q, entry.prefix) {
		score = prefixScore
	}

	return score
}

// similarity is 1 - distance/maxLength over runes.
func similarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 0
	}

	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// IsInsulin reports whether name resolves to an insulin product.
func (m *Matcher) IsInsulin(name string) bool {
	match := m.FindBestMatch(name)
	return match != nil && match.DrugClass == ClassInsulin
}

// Resolve matches each record's name against the catalog. Unmatched
// records are kept with a nil Match.
func (m *Matcher) Resolve(records []labs.MedicationRecord) []Resolution {
	out := make([]Resolution, 0, len(records))

	for _, record := range records {
		match := m.FindBestMatch(record.Name)
		if match == nil {
			logger.Info("Medication not found in catalog", "name", record.Name)
		}

		out = append(out, Resolution{Record: record, Match: match})
	}

	return out
}
