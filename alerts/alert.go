/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package alerts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Severity orders alerts by urgency; lower values sort first.
type Severity int

// Alert severities.
const (
	SeverityCritical Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "Critical"
	case SeverityWarning:
		return "Warning"
	case SeverityInfo:
		return "Info"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Critical":
		*s = SeverityCritical
	case "Warning":
		*s = SeverityWarning
	case "Info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSeverity, text)
	}
	return nil
}

// Category groups alerts by the rule family that raised them.
type Category string

// Alert categories.
const (
	CategoryHypoglycemia   Category = "Hypoglycemia"
	CategoryHyperglycemia  Category = "Hyperglycemia"
	CategoryGlucosePattern Category = "GlucosePattern"
	CategoryHbA1c          Category = "HbA1c"
	CategoryMedication     Category = "Medication"
	CategoryKidney         Category = "Kidney"
	CategoryBloodPressure  Category = "BloodPressure"
)

// Alert is a safety notice generated from classified results.
type Alert struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Severity   Severity  `json:"severity"`
	Category   Category  `json:"category"`
	ActionText string    `json:"action_text"`
	Date       time.Time `json:"date"`
}

var alertNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/humaidq/glucolens/alerts"))

// alertID is stable for identical category, title and date.
func alertID(category Category, title string, date time.Time) string {
	key := string(category) + "|" + title + "|" + date.UTC().Format(time.RFC3339Nano)
	return uuid.NewSHA1(alertNamespace, []byte(key)).String()
}

func newAlert(category Category, severity Severity, title, message, action string, date time.Time) Alert {
	return Alert{
		ID:         alertID(category, title, date),
		Title:      title,
		Message:    message,
		Severity:   severity,
		Category:   category,
		ActionText: action,
		Date:       date,
	}
}
