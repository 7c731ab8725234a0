/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package standards

import (
	"strings"

	"github.com/humaidq/glucolens/labs"
)

// Targets are the treatment goals for a diabetic profile. They differ from
// the non-diabetic reference ranges used for classification.
type Targets struct {
	HbA1cGoal       float64 `json:"hba1c_goal"`
	FastingMin      float64 `json:"fasting_min"`
	FastingMax      float64 `json:"fasting_max"`
	PostPrandialMax float64 `json:"post_prandial_max"`
	SystolicMax     float64 `json:"systolic_max"`
	DiastolicMax    float64 `json:"diastolic_max"`
}

const seniorAge = 65

// TargetsFor returns the glycemic and blood pressure goals for profile.
func TargetsFor(p labs.Profile) Targets {
	t := Targets{
		HbA1cGoal:       7.0,
		FastingMin:      80,
		FastingMax:      130,
		PostPrandialMax: 180,
		SystolicMax:     130,
		DiastolicMax:    80,
	}

	if p.Age >= seniorAge {
		t.HbA1cGoal = 7.5
		t.FastingMax = 150
		t.SystolicMax = 140
		t.DiastolicMax = 90
	}

	if strings.Contains(strings.ToLower(p.DiabetesType), "gestational") {
		t.HbA1cGoal = 6.0
		t.FastingMin = 70
		t.FastingMax = 95
		t.PostPrandialMax = 140
	}

	return t
}
