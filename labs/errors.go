/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import "errors"

var (
	// ErrUnknownDedupPolicy is returned when a dedup policy name is not recognised.
	ErrUnknownDedupPolicy = errors.New("unknown dedup policy")
)
