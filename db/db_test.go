// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"errors"
	"io/fs"
	"testing"
)

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(embedMigrations, MigrationsDir())
	if err != nil {
		t.Fatalf("failed to read embedded migrations: %v", err)
	}
	if len(entries) == 0 || entries[0].Name() != "00001_init.sql" {
		t.Fatalf("expected init migration first, got %v", entries)
	}
}

func TestInitRequiresURL(t *testing.T) {
	t.Parallel()

	if err := Init(context.Background(), ""); !errors.Is(err, ErrDatabaseURLEnvVarNotSet) {
		t.Fatalf("expected ErrDatabaseURLEnvVarNotSet, got %v", err)
	}
	if _, err := OpenMigrator(context.Background(), ""); !errors.Is(err, ErrDatabaseURLEnvVarNotSet) {
		t.Fatalf("expected ErrDatabaseURLEnvVarNotSet, got %v", err)
	}
}

func TestOperationsWithoutPool(t *testing.T) {
	if pool != nil {
		t.Skip("database configured")
	}

	ctx := context.Background()

	if _, err := GetProfile(ctx, "x"); !errors.Is(err, ErrDatabaseConnectionNotInitialized) {
		t.Fatalf("GetProfile: expected ErrDatabaseConnectionNotInitialized, got %v", err)
	}
	if _, err := ListLabHistory(ctx, "x", reportTime); !errors.Is(err, ErrDatabaseConnectionNotInitialized) {
		t.Fatalf("ListLabHistory: expected ErrDatabaseConnectionNotInitialized, got %v", err)
	}
	if _, err := ListMedications(ctx, "x"); !errors.Is(err, ErrDatabaseConnectionNotInitialized) {
		t.Fatalf("ListMedications: expected ErrDatabaseConnectionNotInitialized, got %v", err)
	}
	if err := SyncSchema(ctx); !errors.Is(err, ErrDatabaseConnectionNotInitialized) {
		t.Fatalf("SyncSchema: expected ErrDatabaseConnectionNotInitialized, got %v", err)
	}
}
