/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/humaidq/glucolens/labs"
)

// PatientContext is everything stored about a profile that an analysis
// run needs.
type PatientContext struct {
	Profile     *Profile
	History     []labs.LabResult
	Medications []labs.MedicationRecord
}

// LoadPatientContext fetches the profile, its lab history before the given
// time and its medications concurrently. The first failure cancels the
// remaining queries.
func LoadPatientContext(ctx context.Context, profileID string, before time.Time) (*PatientContext, error) {
	var pc PatientContext

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := GetProfile(gctx, profileID)
		pc.Profile = p
		return err
	})

	g.Go(func() error {
		history, err := ListLabHistory(gctx, profileID, before)
		pc.History = history
		return err
	})

	g.Go(func() error {
		meds, err := ListMedications(gctx, profileID)
		pc.Medications = meds
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &pc, nil
}

// Store exposes the package-level operations as a value so handlers can
// depend on an interface.
type Store struct{}

// LoadPatientContext calls the package-level LoadPatientContext.
func (Store) LoadPatientContext(ctx context.Context, profileID string, before time.Time) (*PatientContext, error) {
	return LoadPatientContext(ctx, profileID, before)
}

// SaveLabResults calls the package-level SaveLabResults.
func (Store) SaveLabResults(ctx context.Context, profileID string, results []labs.LabResult) (int, error) {
	return SaveLabResults(ctx, profileID, results)
}
