/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup outcomes recorded by ObserveLookup.
const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
)

// Metrics holds the application collectors.
type Metrics struct {
	AnalysesTotal     *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram
	AlertsTotal       *prometheus.CounterVec
	MedicationLookups *prometheus.CounterVec
	ResultsClassified prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg uses
// a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glucolens_analyses_total",
			Help: "Total report analyses by outcome",
		}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "glucolens_analysis_duration_seconds",
			Help:    "Report analysis duration",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glucolens_alerts_total",
			Help: "Total alerts generated by severity",
		}, []string{"severity"}),
		MedicationLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "glucolens_medication_lookups_total",
			Help: "Total medication catalog lookups by outcome",
		}, []string{"outcome"}),
		ResultsClassified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "glucolens_results_classified_total",
			Help: "Total lab results passed through classification",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.AlertsTotal,
		m.MedicationLookups,
		m.ResultsClassified,
	)

	return m
}

// ObserveAnalysis records one analysis run.
func (m *Metrics) ObserveAnalysis(start time.Time, results int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(time.Since(start).Seconds())
	m.ResultsClassified.Add(float64(results))
}

// ObserveAlert counts one alert of the named severity.
func (m *Metrics) ObserveAlert(severity string) {
	m.AlertsTotal.WithLabelValues(severity).Inc()
}

// ObserveLookup counts a medication lookup.
func (m *Metrics) ObserveLookup(matched bool) {
	if matched {
		m.MedicationLookups.WithLabelValues(OutcomeMatched).Inc()
		return
	}
	m.MedicationLookups.WithLabelValues(OutcomeUnmatched).Inc()
}

// Handler serves the registered collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
