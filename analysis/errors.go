/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import "errors"

// ErrNoResults is returned when no lab entries could be extracted from report text.
var ErrNoResults = errors.New("no lab results found in report text")
