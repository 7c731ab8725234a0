// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerInitializers(t *testing.T) {
	t.Parallel()

	Init()
	if l := Logger(SourceLabs); l == nil {
		t.Fatal("Logger returned nil")
	}
	if l := StdLogger(SourceWeb); l == nil {
		t.Fatal("StdLogger returned nil")
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("GLUCOLENS_LOG_LEVEL", "debug")
	if got := levelFromEnv(); got != log.DebugLevel {
		t.Fatalf("expected debug level, got %v", got)
	}

	t.Setenv("GLUCOLENS_LOG_LEVEL", "nonsense")
	if got := levelFromEnv(); got != log.InfoLevel {
		t.Fatalf("expected info fallback, got %v", got)
	}
}
