/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package analysis

import "github.com/humaidq/glucolens/labs"

// CorrelativePattern fires when every required marker is present and
// abnormal in the same batch.
type CorrelativePattern struct {
	Name            string        `json:"name"`
	RequiredMarkers []string      `json:"required_markers"`
	Narrative       string        `json:"narrative"`
	AlertLevel      labs.Severity `json:"alert_level"`
}

// PatternInsight is a triggered correlative pattern.
type PatternInsight struct {
	Name       string        `json:"name"`
	Markers    []string      `json:"markers"`
	Narrative  string        `json:"narrative"`
	AlertLevel labs.Severity `json:"alert_level"`
}

// DefaultPatterns returns the built-in multi-marker rules.
func DefaultPatterns() []CorrelativePattern {
	return []CorrelativePattern{
		{
			Name:            "Metabolic Syndrome",
			RequiredMarkers: []string{labs.ParamTriglycerides, labs.ParamHDL, labs.ParamFastingGlucose},
			Narrative:       "Raised triglycerides, low HDL and raised fasting glucose together are features of metabolic syndrome.",
			AlertLevel:      labs.SeverityAbnormal,
		},
		{
			Name:            "Poor Glycemic Control",
			RequiredMarkers: []string{labs.ParamHbA1c, labs.ParamFastingGlucose},
			Narrative:       "Both HbA1c and fasting glucose are out of range, suggesting glucose has been elevated over recent months.",
			AlertLevel:      labs.SeverityAbnormal,
		},
		{
			Name:            "Diabetic Kidney Involvement",
			RequiredMarkers: []string{labs.ParamHbA1c, labs.ParamMicroalbumin},
			Narrative:       "Elevated HbA1c alongside urine albumin may indicate early kidney involvement.",
			AlertLevel:      labs.SeverityCritical,
		},
		{
			Name:            "Declining Renal Function",
			RequiredMarkers: []string{labs.ParamCreatinine, labs.ParamEGFR},
			Narrative:       "Abnormal creatinine together with reduced eGFR points to reduced kidney filtration.",
			AlertLevel:      labs.SeverityCritical,
		},
		{
			Name:            "Atherogenic Dyslipidemia",
			RequiredMarkers: []string{labs.ParamLDL, labs.ParamTriglycerides},
			Narrative:       "Raised LDL and triglycerides together increase cardiovascular risk.",
			AlertLevel:      labs.SeverityAbnormal,
		},
		{
			Name:            "Iron Deficiency Pattern",
			RequiredMarkers: []string{labs.ParamHemoglobin, labs.ParamFerritin},
			Narrative:       "Low hemoglobin with abnormal ferritin is consistent with an iron deficiency pattern.",
			AlertLevel:      labs.SeverityAbnormal,
		},
		{
			Name:            "Cardiometabolic Risk",
			RequiredMarkers: []string{labs.ParamBloodPressure, labs.ParamLDL},
			Narrative:       "Elevated blood pressure and LDL together raise cardiometabolic risk.",
			AlertLevel:      labs.SeverityAbnormal,
		},
	}
}

// detectPatterns applies AND semantics: partial matches never fire.
func detectPatterns(patterns []CorrelativePattern, results []labs.LabResult) []PatternInsight {
	abnormal := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Status.IsAbnormal() {
			abnormal[r.Parameter] = true
		}
	}

	var insights []PatternInsight

	for _, p := range patterns {
		if len(p.RequiredMarkers) == 0 {
			continue
		}

		matched := true
		for _, marker := range p.RequiredMarkers {
			if !abnormal[marker] {
				matched = false
				break
			}
		}

		if matched {
			insights = append(insights, PatternInsight{
				Name:       p.Name,
				Markers:    append([]string(nil), p.RequiredMarkers...),
				Narrative:  p.Narrative,
				AlertLevel: p.AlertLevel,
			})
		}
	}

	return insights
}
