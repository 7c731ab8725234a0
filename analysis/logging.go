/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import "github.com/humaidq/glucolens/logging"

var logger = logging.Logger(logging.SourceAnalysis)
