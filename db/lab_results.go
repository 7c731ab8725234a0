/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/humaidq/glucolens/labs"
)

// SaveLabResults stores a batch of classified results for a profile in one
// transaction and returns the number written.
func SaveLabResults(ctx context.Context, profileID string, results []labs.LabResult) (int, error) {
	if pool == nil {
		return 0, ErrDatabaseConnectionNotInitialized
	}

	if len(results) == 0 {
		return 0, nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO lab_results (id, profile_id, test_name, parameter, value, string_value, unit, normal_range, status, category, test_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	batch := &pgx.Batch{}
	for _, r := range results {
		batch.Queue(query,
			uuid.NewString(), profileID,
			r.TestName, r.Parameter, r.Value, r.StringValue,
			r.Unit, r.NormalRange, r.Status, r.Category,
			r.TestDate,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range results {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return 0, fmt.Errorf("failed to save lab result %q: %w", results[i].TestName, err)
		}
	}

	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit lab results: %w", err)
	}

	logger.Debug("Saved lab results", "profile_id", profileID, "count", len(results))

	return len(results), nil
}

// ListLabHistory returns stored results for a profile taken strictly before
// the given time, oldest first. A zero time returns everything.
func ListLabHistory(ctx context.Context, profileID string, before time.Time) ([]labs.LabResult, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	query := `
		SELECT test_name, parameter, value, string_value, unit, normal_range, status, category, test_date
		FROM lab_results
		WHERE profile_id = $1 AND ($2::timestamptz IS NULL OR test_date < $2)
		ORDER BY test_date ASC, created_at ASC
	`

	var cutoff *time.Time
	if !before.IsZero() {
		cutoff = &before
	}

	rows, err := pool.Query(ctx, query, profileID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab history: %w", err)
	}
	defer rows.Close()

	var history []labs.LabResult
	for rows.Next() {
		var r labs.LabResult
		err := rows.Scan(
			&r.TestName, &r.Parameter, &r.Value, &r.StringValue,
			&r.Unit, &r.NormalRange, &r.Status, &r.Category,
			&r.TestDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lab result: %w", err)
		}
		history = append(history, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lab results: %w", err)
	}

	return history, nil
}
