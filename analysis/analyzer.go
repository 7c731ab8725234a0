/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import (
	"sort"
	"strconv"
	"time"

	"github.com/humaidq/glucolens/labs"
	"github.com/humaidq/glucolens/standards"
)

// Result is the structured outcome of analyzing one report.
type Result struct {
	ReportType      string           `json:"report_type"`
	Summary         string           `json:"summary"`
	Highlights      []Highlight      `json:"highlights"`
	Narrative       string           `json:"narrative"`
	TrendInsights   []TrendInsight   `json:"trend_insights"`
	PatternInsights []PatternInsight `json:"pattern_insights"`
	Results         []labs.LabResult `json:"results"`
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithPatterns replaces the correlative pattern table.
func WithPatterns(patterns []CorrelativePattern) Option {
	return func(a *Analyzer) {
		a.patterns = append([]CorrelativePattern(nil), patterns...)
	}
}

// WithTrendThreshold sets the minimum absolute percent change for trend
// insights. Non-positive values are ignored.
func WithTrendThreshold(pct float64) Option {
	return func(a *Analyzer) {
		if pct > 0 {
			a.trendThreshold = pct
		}
	}
}

// WithNormalizer replaces the result normalizer.
func WithNormalizer(n *labs.Normalizer) Option {
	return func(a *Analyzer) {
		a.normalizer = n
	}
}

// WithProvider replaces the clinical standard provider.
func WithProvider(p *standards.Provider) Option {
	return func(a *Analyzer) {
		a.provider = p
	}
}

// Analyzer runs normalization, classification, pattern detection and trend
// comparison over a batch. It is immutable and safe for concurrent use.
type Analyzer struct {
	normalizer     *labs.Normalizer
	provider       *standards.Provider
	patterns       []CorrelativePattern
	trendThreshold float64
}

// NewAnalyzer creates an analyzer with the default tables.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		normalizer:     labs.NewNormalizer(),
		provider:       standards.NewProvider(nil),
		patterns:       DefaultPatterns(),
		trendThreshold: DefaultTrendThreshold,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Provider returns the analyzer's standard provider.
func (a *Analyzer) Provider() *standards.Provider {
	return a.provider
}

// Analyze extracts entries from report text and analyzes them. It returns
// ErrNoResults when the text holds no recognizable entries.
func (a *Analyzer) Analyze(text string, testDate time.Time, profile labs.Profile, history []labs.LabResult) (*Result, error) {
	entries := labs.ExtractEntries(text, testDate)
	if len(entries) == 0 {
		return nil, ErrNoResults
	}

	return a.AnalyzeResults(entries, profile, history), nil
}

// AnalyzeResults analyzes already extracted raw entries. Nil slices are
// treated as empty.
func (a *Analyzer) AnalyzeResults(raw []labs.LabResult, profile labs.Profile, history []labs.LabResult) *Result {
	classified := a.classify(a.normalizer.Normalize(raw), profile)

	results := make([]labs.LabResult, len(classified))
	var highlights []Highlight
	var notes []labNote
	normal := 0

	for i, c := range classified {
		results[i] = c.result

		switch {
		case c.result.Status == labs.StatusNormal:
			normal++
		case c.result.Status.IsAbnormal():
			highlights = append(highlights, c.highlight())
		case c.labRange != nil && !c.labRange.Contains(c.result.Value):
			notes = append(notes, labNote{
				Parameter: c.result.Parameter,
				Value:     joinUnit(displayValue(c.result), c.result.Unit),
				Range:     c.labRange.String(),
			})
		}
	}

	sort.SliceStable(highlights, func(i, j int) bool {
		return highlights[i].Severity.Rank() < highlights[j].Severity.Rank()
	})

	res := &Result{
		ReportType:      reportType(results),
		Summary:         buildSummary(highlights, len(results)),
		Highlights:      highlights,
		Narrative:       buildNarrative(highlights, notes, normal, len(results)),
		TrendInsights:   compareTrends(results, history, a.trendThreshold),
		PatternInsights: detectPatterns(a.patterns, results),
		Results:         results,
	}

	logger.Debug("Analyzed batch",
		"results", len(results),
		"highlights", len(highlights),
		"patterns", len(res.PatternInsights),
		"trends", len(res.TrendInsights))

	return res
}

// Classify normalizes raw entries and grades each against its standard.
func (a *Analyzer) Classify(raw []labs.LabResult, profile labs.Profile) []labs.LabResult {
	classified := a.classify(a.normalizer.Normalize(raw), profile)

	out := make([]labs.LabResult, len(classified))
	for i, c := range classified {
		out[i] = c.result
	}

	return out
}

type classifiedResult struct {
	result   labs.LabResult
	severity labs.Severity
	standard *standards.StandardRange
	labRange *labs.Bounds
}

func (c classifiedResult) highlight() Highlight {
	h := Highlight{
		Parameter: c.result.Parameter,
		Value:     displayValue(c.result),
		Unit:      c.result.Unit,
		Status:    c.result.Status,
		Severity:  c.severity,
		Range:     c.result.NormalRange,
	}
	if c.standard != nil {
		h.Range = c.standard.String()
	}
	return h
}

func displayValue(r labs.LabResult) string {
	if r.HasComposite() {
		return r.StringValue
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// classify grades numeric results with a known standard. Composites keep
// their derived status; unknown parameters keep whatever status they came
// with.
func (a *Analyzer) classify(results []labs.LabResult, profile labs.Profile) []classifiedResult {
	out := make([]classifiedResult, 0, len(results))

	for _, r := range results {
		c := classifiedResult{result: r, severity: labs.SeverityForStatus(r.Status)}

		if !r.HasComposite() {
			if cls, ok := a.provider.Classify(r.Parameter, r.Value, profile); ok {
				std := cls.Range
				c.result.Status = cls.Status
				c.severity = cls.Severity
				c.standard = &std
				if c.result.Unit == "" {
					c.result.Unit = std.Unit
				}
			} else {
				logger.Debug("No standard for parameter", "parameter", r.Parameter)
				if b := labs.ParseRange(r.NormalRange); !b.IsEmpty() {
					c.labRange = &b
				}
			}
		}

		out = append(out, c)
	}

	return out
}
