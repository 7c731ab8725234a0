/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package medication

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Drug classes used by the default catalog.
const (
	ClassBiguanide         = "Biguanide"
	ClassSulfonylurea      = "Sulfonylurea"
	ClassDPP4Inhibitor     = "DPP-4 Inhibitor"
	ClassSGLT2Inhibitor    = "SGLT2 Inhibitor"
	ClassThiazolidinedione = "Thiazolidinedione"
	ClassAlphaGlucosidase  = "Alpha-Glucosidase Inhibitor"
	ClassInsulin           = "Insulin"
	ClassGLP1Agonist       = "GLP-1 Receptor Agonist"
	ClassStatin            = "Statin"
	ClassARB               = "Angiotensin Receptor Blocker"
	ClassACEInhibitor      = "ACE Inhibitor"
	ClassCalciumBlocker    = "Calcium Channel Blocker"
	ClassBetaBlocker       = "Beta Blocker"
	ClassAntiplatelet      = "Antiplatelet"
	ClassThyroidHormone    = "Thyroid Hormone"
	ClassPPI               = "Proton Pump Inhibitor"
)

// Entry is one drug in the reference catalog.
type Entry struct {
	CanonicalName  string   `json:"canonical_name" yaml:"name"`
	Aliases        []string `json:"aliases,omitempty" yaml:"aliases"`
	DrugClass      string   `json:"drug_class" yaml:"class"`
	IsAntidiabetic bool     `json:"is_antidiabetic" yaml:"antidiabetic"`
}

type indexedEntry struct {
	Entry

	// canonical first, then aliases; all lowercased
	names  []string
	prefix string
}

// Catalog is an immutable set of drug entries. It is safe for concurrent
// reads.
type Catalog struct {
	entries []indexedEntry
}

// NewCatalog validates entries and builds a catalog preserving their
// order, which decides ties during matching.
func NewCatalog(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{entries: make([]indexedEntry, 0, len(entries))}
	seen := make(map[string]bool, len(entries))

	for i, e := range entries {
		name := strings.TrimSpace(e.CanonicalName)
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidEntry, i)
		}

		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrInvalidEntry, name)
		}
		seen[key] = true

		entry := Entry{
			CanonicalName:  name,
			Aliases:        append([]string(nil), e.Aliases...),
			DrugClass:      strings.TrimSpace(e.DrugClass),
			IsAntidiabetic: e.IsAntidiabetic,
		}

		names := []string{key}
		for _, alias := range entry.Aliases {
			if a := strings.ToLower(strings.TrimSpace(alias)); a != "" {
				names = append(names, a)
			}
		}

		var prefix string
		if runes := []rune(key); len(runes) > prefixMinLength {
			prefix = string(runes[:prefixLength])
		}

		c.entries = append(c.entries, indexedEntry{Entry: entry, names: names, prefix: prefix})
	}

	return c, nil
}

// LoadCatalog reads a YAML list of entries.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var entries []Entry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	return NewCatalog(entries)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the catalog entries in order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Entry
		out[i].Aliases = append([]string(nil), e.Aliases...)
	}
	return out
}

// DefaultEntries returns the curated catalog of antidiabetic drugs and
// common comorbidity medications, including Indian brand names.
func DefaultEntries() []Entry {
	return []Entry{
		// ===== ANTIDIABETIC =====
		{CanonicalName: "Metformin", Aliases: []string{"Glycomet", "Glucophage", "Obimet", "Gluformin"}, DrugClass: ClassBiguanide, IsAntidiabetic: true},
		{CanonicalName: "Glimepiride", Aliases: []string{"Amaryl", "Glimisave"}, DrugClass: ClassSulfonylurea, IsAntidiabetic: true},
		{CanonicalName: "Gliclazide", Aliases: []string{"Diamicron", "Glizid"}, DrugClass: ClassSulfonylurea, IsAntidiabetic: true},
		{CanonicalName: "Glibenclamide", Aliases: []string{"Daonil", "Glyburide"}, DrugClass: ClassSulfonylurea, IsAntidiabetic: true},
		{CanonicalName: "Sitagliptin", Aliases: []string{"Januvia", "Istavel"}, DrugClass: ClassDPP4Inhibitor, IsAntidiabetic: true},
		{CanonicalName: "Vildagliptin", Aliases: []string{"Galvus", "Jalra"}, DrugClass: ClassDPP4Inhibitor, IsAntidiabetic: true},
		{CanonicalName: "Teneligliptin", Aliases: []string{"Tenepride", "Teneza"}, DrugClass: ClassDPP4Inhibitor, IsAntidiabetic: true},
		{CanonicalName: "Linagliptin", Aliases: []string{"Trajenta"}, DrugClass: ClassDPP4Inhibitor, IsAntidiabetic: true},
		{CanonicalName: "Dapagliflozin", Aliases: []string{"Forxiga", "Oxra"}, DrugClass: ClassSGLT2Inhibitor, IsAntidiabetic: true},
		{CanonicalName: "Empagliflozin", Aliases: []string{"Jardiance", "Gibtulio"}, DrugClass: ClassSGLT2Inhibitor, IsAntidiabetic: true},
		{CanonicalName: "Canagliflozin", Aliases: []string{"Invokana"}, DrugClass: ClassSGLT2Inhibitor, IsAntidiabetic: true},
		{CanonicalName: "Pioglitazone", Aliases: []string{"Pioz", "Actos"}, DrugClass: ClassThiazolidinedione, IsAntidiabetic: true},
		{CanonicalName: "Voglibose", Aliases: []string{"Volix", "Vogli"}, DrugClass: ClassAlphaGlucosidase, IsAntidiabetic: true},
		{CanonicalName: "Acarbose", Aliases: []string{"Glucobay"}, DrugClass: ClassAlphaGlucosidase, IsAntidiabetic: true},
		{CanonicalName: "Insulin Glargine", Aliases: []string{"Lantus", "Basalog", "Toujeo"}, DrugClass: ClassInsulin, IsAntidiabetic: true},
		{CanonicalName: "Insulin Aspart", Aliases: []string{"Novorapid", "Fiasp"}, DrugClass: ClassInsulin, IsAntidiabetic: true},
		{CanonicalName: "Insulin Lispro", Aliases: []string{"Humalog"}, DrugClass: ClassInsulin, IsAntidiabetic: true},
		{CanonicalName: "Human Insulin", Aliases: []string{"Actrapid", "Huminsulin", "Mixtard", "Insugen"}, DrugClass: ClassInsulin, IsAntidiabetic: true},
		{CanonicalName: "Semaglutide", Aliases: []string{"Ozempic", "Rybelsus", "Wegovy"}, DrugClass: ClassGLP1Agonist, IsAntidiabetic: true},
		{CanonicalName: "Liraglutide", Aliases: []string{"Victoza"}, DrugClass: ClassGLP1Agonist, IsAntidiabetic: true},

		// ===== COMORBIDITIES =====
		{CanonicalName: "Atorvastatin", Aliases: []string{"Atorva", "Lipitor", "Storvas"}, DrugClass: ClassStatin},
		{CanonicalName: "Rosuvastatin", Aliases: []string{"Rosuvas", "Crestor", "Rozavel"}, DrugClass: ClassStatin},
		{CanonicalName: "Telmisartan", Aliases: []string{"Telma", "Telmikind"}, DrugClass: ClassARB},
		{CanonicalName: "Losartan", Aliases: []string{"Losar", "Cozaar"}, DrugClass: ClassARB},
		{CanonicalName: "Amlodipine", Aliases: []string{"Amlong", "Stamlo", "Norvasc"}, DrugClass: ClassCalciumBlocker},
		{CanonicalName: "Metoprolol", Aliases: []string{"Metolar", "Betaloc", "Seloken"}, DrugClass: ClassBetaBlocker},
		{CanonicalName: "Ramipril", Aliases: []string{"Cardace"}, DrugClass: ClassACEInhibitor},
		{CanonicalName: "Aspirin", Aliases: []string{"Ecosprin", "Disprin"}, DrugClass: ClassAntiplatelet},
		{CanonicalName: "Levothyroxine", Aliases: []string{"Thyronorm", "Eltroxin", "Thyrox"}, DrugClass: ClassThyroidHormone},
		{CanonicalName: "Pantoprazole", Aliases: []string{"Pan", "Pantocid"}, DrugClass: ClassPPI},
	}
}

// DefaultCatalog builds a catalog from DefaultEntries.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultEntries())
	if err != nil {
		// DefaultEntries is static and covered by tests.
		logger.Error("Default catalog is invalid", "error", err)
		return &Catalog{}
	}
	return c
}
