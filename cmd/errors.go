/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errDatabaseURLRequired    = errors.New("database-url is required (set via --database-url or DATABASE_URL env var)")
	errMigrationNameRequired  = errors.New("migration name is required")
	errReportPathRequired     = errors.New("report file path is required (use - for stdin)")
	errMedicationRequired     = errors.New("at least one medication name is required")
	errInvalidTrendThreshold  = errors.New("trend-threshold must be greater than zero")
	errInvalidTestDate        = errors.New("date must be formatted as YYYY-MM-DD")
	errProfileIDNeedsDatabase = errors.New("profile-id requires --database-url or DATABASE_URL")
)
