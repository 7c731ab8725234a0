/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"strings"
	"time"
)

// Status is the classification of a single lab value against its range.
// The zero value means the result has not been classified.
type Status string

// Status values assigned by classification or composite merging.
const (
	StatusNormal         Status = "Normal"
	StatusBorderline     Status = "Borderline"
	StatusHigh           Status = "High"
	StatusLow            Status = "Low"
	StatusCriticallyHigh Status = "Critically High"
	StatusCriticallyLow  Status = "Critically Low"
)

// IsAbnormal reports whether the status is classified and not normal.
func (s Status) IsAbnormal() bool {
	return s != "" && s != StatusNormal
}

// IsHighSide reports whether the status sits above the reference range.
func (s Status) IsHighSide() bool {
	return s == StatusBorderline || s == StatusHigh || s == StatusCriticallyHigh
}

// IsLowSide reports whether the status sits below the reference range.
func (s Status) IsLowSide() bool {
	return s == StatusLow || s == StatusCriticallyLow
}

// Severity is the ordinal clinical severity of a classified value.
type Severity string

// Severity values, from least to most severe.
const (
	SeverityNormal     Severity = "Normal"
	SeverityBorderline Severity = "Borderline"
	SeverityAbnormal   Severity = "Abnormal"
	SeverityCritical   Severity = "Critical"
)

// Rank orders severities so that Critical sorts first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityAbnormal:
		return 1
	case SeverityBorderline:
		return 2
	default:
		return 3
	}
}

// SeverityForStatus maps a status to a severity when no deviation data is
// available, as with composite values.
func SeverityForStatus(s Status) Severity {
	switch s {
	case StatusCriticallyHigh, StatusCriticallyLow:
		return SeverityCritical
	case StatusHigh, StatusLow:
		return SeverityAbnormal
	case StatusBorderline:
		return SeverityBorderline
	default:
		return SeverityNormal
	}
}

// Gender represents biological sex for reference range selection
type Gender string

// Gender values. An empty gender selects population defaults.
const (
	GenderMale        Gender = "Male"
	GenderFemale      Gender = "Female"
	GenderUnspecified Gender = ""
)

// ParseGender accepts common spellings and returns GenderUnspecified otherwise.
func ParseGender(raw string) Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m", "man":
		return GenderMale
	case "female", "f", "woman":
		return GenderFemale
	default:
		return GenderUnspecified
	}
}

// LabResult is one measured lab parameter.
//
// Value is meaningless when StringValue is set; composite results such as
// blood pressure carry their reading in StringValue only.
type LabResult struct {
	TestName    string    `json:"test_name"`
	Parameter   string    `json:"parameter"`
	Value       float64   `json:"value"`
	StringValue string    `json:"string_value,omitempty"`
	Unit        string    `json:"unit"`
	NormalRange string    `json:"normal_range"`
	Status      Status    `json:"status"`
	TestDate    time.Time `json:"test_date"`
	Category    string    `json:"category"`
}

// HasComposite reports whether StringValue is the authoritative reading.
func (r LabResult) HasComposite() bool {
	return r.StringValue != ""
}

// Profile is the read-only patient snapshot used for range selection.
type Profile struct {
	Age           int      `json:"age"`
	Gender        Gender   `json:"gender"`
	HeightCm      *float64 `json:"height_cm,omitempty"`
	WeightKg      *float64 `json:"weight_kg,omitempty"`
	DiabetesType  string   `json:"diabetes_type"`
	TreatmentType string   `json:"treatment_type"`
}

// IsType1 reports whether the diabetes type names Type 1.
func (p Profile) IsType1() bool {
	return strings.Contains(strings.ToLower(p.DiabetesType), "type 1")
}

// UsesInsulin reports whether the treatment type mentions insulin.
func (p Profile) UsesInsulin() bool {
	return strings.Contains(strings.ToLower(p.TreatmentType), "insulin")
}

// MedicationRecord is a prescribed or user-entered medication.
type MedicationRecord struct {
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage"`
	Frequency string     `json:"frequency"`
	IsActive  bool       `json:"is_active"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Expired reports whether the record's end date is before now.
func (m MedicationRecord) Expired(now time.Time) bool {
	return m.EndDate != nil && m.EndDate.Before(now)
}
