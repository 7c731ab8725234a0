/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/glucolens/labs"
)

// CreateMedication records a medication for a profile and returns its ID.
func CreateMedication(ctx context.Context, profileID string, m labs.MedicationRecord) (string, error) {
	if pool == nil {
		return "", ErrDatabaseConnectionNotInitialized
	}

	if strings.TrimSpace(m.Name) == "" {
		return "", ErrMedicationNameRequired
	}

	var start *time.Time
	if !m.StartDate.IsZero() {
		start = &m.StartDate
	}

	id := uuid.NewString()
	query := `
		INSERT INTO medications (id, profile_id, name, dosage, frequency, is_active, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := pool.Exec(ctx, query,
		id, profileID, strings.TrimSpace(m.Name), m.Dosage, m.Frequency,
		m.IsActive, start, m.EndDate,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create medication: %w", err)
	}

	return id, nil
}

// ListMedications returns every medication recorded for a profile, active
// ones first.
func ListMedications(ctx context.Context, profileID string) ([]labs.MedicationRecord, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT name, dosage, frequency, is_active, start_date, end_date
		FROM medications
		WHERE profile_id = $1
		ORDER BY is_active DESC, created_at ASC
	`

	rows, err := pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	defer rows.Close()

	var meds []labs.MedicationRecord
	for rows.Next() {
		var (
			m     labs.MedicationRecord
			start *time.Time
		)

		if err := rows.Scan(&m.Name, &m.Dosage, &m.Frequency, &m.IsActive, &start, &m.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		if start != nil {
			m.StartDate = *start
		}

		meds = append(meds, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medications: %w", err)
	}

	return meds, nil
}
