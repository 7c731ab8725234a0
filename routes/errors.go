/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errInvalidBody      = errors.New("invalid request body")
	errEmptyInput       = errors.New("either text or results is required")
	errMissingQuery     = errors.New("query parameter q is required")
	errStoreUnavailable = errors.New("profile storage is not configured")
)
