/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"context"
	"time"

	"github.com/flamego/flamego"

	"github.com/humaidq/glucolens/alerts"
	"github.com/humaidq/glucolens/analysis"
	"github.com/humaidq/glucolens/db"
	"github.com/humaidq/glucolens/labs"
	"github.com/humaidq/glucolens/medication"
	"github.com/humaidq/glucolens/metrics"
)

// PatientStore loads and saves stored patient data. db.Store satisfies it.
type PatientStore interface {
	LoadPatientContext(ctx context.Context, profileID string, before time.Time) (*db.PatientContext, error)
	SaveLabResults(ctx context.Context, profileID string, results []labs.LabResult) (int, error)
}

// Services are the collaborators shared by every handler.
type Services struct {
	Analyzer *analysis.Analyzer
	Alerts   *alerts.Engine
	Matcher  *medication.Matcher
	Metrics  *metrics.Metrics
	// Store is optional; requests naming a profile fail without it.
	Store PatientStore
	Now   func() time.Time
}

func (s *Services) withDefaults() *Services {
	out := *s
	if out.Analyzer == nil {
		out.Analyzer = analysis.NewAnalyzer()
	}
	if out.Matcher == nil {
		out.Matcher = medication.NewMatcher(nil)
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	if out.Alerts == nil {
		out.Alerts = alerts.NewEngine(alerts.WithMatcher(out.Matcher), alerts.WithClock(out.Now))
	}
	if out.Metrics == nil {
		out.Metrics = metrics.New(nil)
	}
	return &out
}

// NewRouter builds the HTTP API over the given services.
func NewRouter(svc *Services) *flamego.Flame {
	svc = svc.withDefaults()

	f := flamego.New()
	f.Use(flamego.Recovery())
	f.Use(RequestLogger)
	f.Map(svc)

	f.Group("/api", func() {
		f.Post("/analyze", Analyze)
		f.Post("/alerts", GenerateAlerts)
		f.Get("/medications/match", MatchMedication)
	}, NoStoreHeaders())

	metricsHandler := svc.Metrics.Handler()
	f.Get("/metrics", func(c flamego.Context) {
		metricsHandler.ServeHTTP(c.ResponseWriter(), c.Request().Request)
	})

	return f
}
