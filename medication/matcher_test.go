// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package medication

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/humaidq/glucolens/labs"
)

func TestFindBestMatch(t *testing.T) {
	t.Parallel()

	m := NewMatcher(nil)

	tests := []struct {
		query     string
		want      string
		wantScore float64
		minScore  float64
	}{
		{query: "Glycomet", want: "Metformin", wantScore: 1.0},
		{query: "metformin", want: "Metformin", wantScore: 1.0},
		{query: "  LANTUS ", want: "Insulin Glargine", wantScore: 1.0},
		{query: "Metfor", want: "Metformin", wantScore: 0.75},
		{query: "Metformin 500mg", want: "Metformin", wantScore: 0.75},
		{query: "Glycomett", want: "Metformin", minScore: 0.85},
		{query: "Jardianse", want: "Empagliflozin", minScore: 0.85},
		{query: "Insulin", want: "Insulin Glargine", wantScore: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()

			got := m.FindBestMatch(tt.query)
			if got == nil {
				t.Fatalf("expected match for %q", tt.query)
			}
			if got.CanonicalName != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got.CanonicalName)
			}
			if tt.wantScore > 0 && got.Score != tt.wantScore {
				t.Fatalf("expected score %v, got %v", tt.wantScore, got.Score)
			}
			if got.Score < tt.minScore {
				t.Fatalf("expected score >= %v, got %v", tt.minScore, got.Score)
			}
		})
	}
}

func TestFindBestMatchRejects(t *testing.T) {
	t.Parallel()

	m := NewMatcher(nil)

	for _, query := range []string{"", "ab", "  xy ", "zzzzzz", "Paracetamol"} {
		if got := m.FindBestMatch(query); got != nil {
			t.Fatalf("expected no match for %q, got %+v", query, got)
		}
	}
}

func TestFindBestMatchTiesKeepCatalogOrder(t *testing.T) {
	t.Parallel()

	catalog, err := NewCatalog([]Entry{
		{CanonicalName: "Alphadrug", Aliases: []string{"Shared"}, DrugClass: "A"},
		{CanonicalName: "Betadrug", Aliases: []string{"Shared"}, DrugClass: "B"},
	})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	got := NewMatcher(catalog).FindBestMatch("shared")
	if got == nil || got.CanonicalName != "Alphadrug" {
		t.Fatalf("expected first entry to win tie, got %+v", got)
	}
}

func TestFindBestMatchPrefersHigherFuzzyScore(t *testing.T) {
	t.Parallel()

	catalog, err := NewCatalog([]Entry{
		{CanonicalName: "Metoprolol"},
		{CanonicalName: "Metolazone"},
	})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	// The prefix rule alone would cap the score at 0.75.
	got := NewMatcher(catalog).FindBestMatch("Metolazon")
	if got == nil || got.CanonicalName != "Metolazone" || got.Score <= prefixScore {
		t.Fatalf("expected fuzzy Metolazone match, got %+v", got)
	}
}

func TestIsInsulin(t *testing.T) {
	t.Parallel()

	m := NewMatcher(nil)
	if !m.IsInsulin("Basalog") {
		t.Fatalf("expected Basalog to be an insulin")
	}
	if m.IsInsulin("Glycomet") {
		t.Fatalf("expected Glycomet not to be an insulin")
	}
}

func TestResolveKeepsUnmatched(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	records := []labs.MedicationRecord{
		{Name: "Glycomet GP 1", Dosage: "500mg", IsActive: true, StartDate: start},
		{Name: "Homeopathic drops", IsActive: true, StartDate: start},
	}

	got := NewMatcher(nil).Resolve(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 resolutions, got %d", len(got))
	}
	if got[1].Validated() {
		t.Fatalf("expected unmatched record, got %+v", got[1].Match)
	}
	if got[1].Record.Name != "Homeopathic drops" {
		t.Fatalf("expected original name retained, got %q", got[1].Record.Name)
	}
}

func TestDefaultCatalogIsValid(t *testing.T) {
	t.Parallel()

	catalog, err := NewCatalog(DefaultEntries())
	if err != nil {
		t.Fatalf("default entries invalid: %v", err)
	}
	if catalog.Len() != len(DefaultEntries()) {
		t.Fatalf("expected %d entries, got %d", len(DefaultEntries()), catalog.Len())
	}

	antidiabetic := 0
	for _, e := range catalog.Entries() {
		if e.IsAntidiabetic {
			antidiabetic++
		}
	}
	if antidiabetic == 0 {
		t.Fatalf("expected antidiabetic entries")
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	f, err := os.Open("testdata/catalog.yaml")
	if err != nil {
		t.Fatalf("failed to open fixture: %v", err)
	}
	defer func() { _ = f.Close() }()

	catalog, err := LoadCatalog(f)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if catalog.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", catalog.Len())
	}

	m := NewMatcher(catalog)
	if got := m.FindBestMatch("Metolar"); got == nil || got.CanonicalName != "Metoprolol" {
		t.Fatalf("expected fixture alias to resolve, got %+v", got)
	}
	if !m.IsInsulin("Lantus") {
		t.Fatalf("expected fixture insulin class")
	}
	if got := m.FindBestMatch("Januvia"); got != nil {
		t.Fatalf("expected fixture catalog to replace defaults, got %+v", got)
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want error
	}{
		{name: "empty", yaml: "", want: ErrEmptyCatalog},
		{name: "empty list", yaml: "[]", want: ErrEmptyCatalog},
		{name: "missing name", yaml: "- class: Statin", want: ErrInvalidEntry},
		{name: "duplicate", yaml: "- name: A1\n- name: a1", want: ErrInvalidEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadCatalog(strings.NewReader(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := LoadCatalog(strings.NewReader("name: [")); err == nil {
		t.Fatalf("expected decode error")
	}
}
