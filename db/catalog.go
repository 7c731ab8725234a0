/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"

	"github.com/humaidq/glucolens/medication"
)

// SyncMedicationCatalog makes the stored catalog match catalog in one
// transaction: entries are upserted in catalog order, so ties between
// equally scored matches resolve the same way after a reload, and stored
// entries missing from catalog are removed.
func SyncMedicationCatalog(ctx context.Context, catalog *medication.Catalog) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	entries := catalog.Entries()
	logger.Infof("Syncing %d medication catalog entries to database...", len(entries))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query := `
		INSERT INTO medication_catalog (canonical_name, aliases, drug_class, is_antidiabetic, position)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (canonical_name)
		DO UPDATE SET
			aliases = EXCLUDED.aliases,
			drug_class = EXCLUDED.drug_class,
			is_antidiabetic = EXCLUDED.is_antidiabetic,
			position = EXCLUDED.position,
			updated_at = now()
	`

	names := make([]string, 0, len(entries))
	for i, e := range entries {
		aliases := e.Aliases
		if aliases == nil {
			aliases = []string{}
		}

		if _, err := tx.Exec(ctx, query, e.CanonicalName, aliases, e.DrugClass, e.IsAntidiabetic, i); err != nil {
			return fmt.Errorf("failed to sync catalog entry %s: %w", e.CanonicalName, err)
		}
		names = append(names, e.CanonicalName)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM medication_catalog WHERE NOT (canonical_name = ANY($1))`, names)
	if err != nil {
		return fmt.Errorf("failed to prune medication catalog: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit medication catalog: %w", err)
	}

	logger.Infof("Successfully synced %d medication catalog entries, removed %d", len(entries), tag.RowsAffected())

	return nil
}

// LoadMedicationCatalog reads the stored catalog in its synced order.
func LoadMedicationCatalog(ctx context.Context) (*medication.Catalog, error) {
	if pool == nil {
		return nil, ErrDatabaseConnectionNotInitialized
	}

	rows, err := pool.Query(ctx, `
		SELECT canonical_name, aliases, drug_class, is_antidiabetic
		FROM medication_catalog
		ORDER BY position ASC, canonical_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load medication catalog: %w", err)
	}
	defer rows.Close()

	var entries []medication.Entry
	for rows.Next() {
		var e medication.Entry
		if err := rows.Scan(&e.CanonicalName, &e.Aliases, &e.DrugClass, &e.IsAntidiabetic); err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog entries: %w", err)
	}

	return medication.NewCatalog(entries)
}
