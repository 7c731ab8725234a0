/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package alerts

import "errors"

// ErrUnknownSeverity is returned when decoding an unrecognized severity name.
var ErrUnknownSeverity = errors.New("unknown alert severity")
