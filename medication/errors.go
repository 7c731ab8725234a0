/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package medication

import "errors"

var (
	// ErrEmptyCatalog is returned when a catalog has no entries
	ErrEmptyCatalog = errors.New("medication catalog is empty")
	// ErrInvalidEntry is returned for nameless or duplicate catalog entries
	ErrInvalidEntry = errors.New("invalid catalog entry")
)
