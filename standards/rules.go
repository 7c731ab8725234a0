/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package standards

import (
	"math"

	"github.com/humaidq/glucolens/labs"
)

// Rule pairs a parameter predicate with a profile-aware range factory.
type Rule struct {
	Name  string
	Match func(parameter string) bool
	Range func(profile labs.Profile) StandardRange
}

// Ideal weight BMI band (Asian/Indian cut-offs).
const (
	idealBMIMin = 18.5
	idealBMIMax = 22.9
)

// Population weight range used when height is unknown.
const (
	defaultWeightMin = 50
	defaultWeightMax = 80
)

func named(names ...string) func(string) bool {
	return func(parameter string) bool {
		for _, name := range names {
			if parameter == name {
				return true
			}
		}
		return false
	}
}

func fixed(lo, hi float64, unit, description string) func(labs.Profile) StandardRange {
	r := StandardRange{Min: lo, Max: hi, Unit: unit, Description: description}
	return func(labs.Profile) StandardRange {
		return r
	}
}

func atLeast(lo float64, unit, description string) func(labs.Profile) StandardRange {
	r := StandardRange{Min: lo, OpenMax: true, Unit: unit, Description: description}
	return func(labs.Profile) StandardRange {
		return r
	}
}

// byGender picks the male or female range, or the population range when
// gender is unspecified.
func byGender(male, female, population StandardRange) func(labs.Profile) StandardRange {
	return func(p labs.Profile) StandardRange {
		switch p.Gender {
		case labs.GenderMale:
			return male
		case labs.GenderFemale:
			return female
		default:
			return population
		}
	}
}

func rule(name string, rangeFn func(labs.Profile) StandardRange, names ...string) Rule {
	if len(names) == 0 {
		names = []string{name}
	}
	return Rule{Name: name, Match: named(names...), Range: rangeFn}
}

// DefaultRules returns the standard range table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		// ===== GLYCEMIC =====
		rule(labs.ParamHbA1c, fixed(4.0, 5.6, "%", "Non-diabetic HbA1c")),
		rule(labs.ParamFastingGlucose, fixed(70, 99, "mg/dL", "Fasting plasma glucose")),
		rule(labs.ParamPostPrandial, fixed(70, 139, "mg/dL", "2-hour post-prandial glucose")),
		rule(labs.ParamGlucose, fixed(70, 140, "mg/dL", "Random plasma glucose"), labs.ParamGlucose, labs.ParamRandomGlucose),
		rule(labs.ParamInsulin, fixed(2, 25, "µIU/mL", "Fasting insulin")),
		rule(labs.ParamCPeptide, fixed(0.8, 3.1, "ng/mL", "Fasting C-peptide")),

		// ===== LIPIDS =====
		rule(labs.ParamLDL, fixed(0, 99, "mg/dL", "Optimal LDL cholesterol")),
		rule(labs.ParamHDL, byGender(
			StandardRange{Min: 40, OpenMax: true, Unit: "mg/dL", Description: "HDL cholesterol (male)"},
			StandardRange{Min: 50, OpenMax: true, Unit: "mg/dL", Description: "HDL cholesterol (female)"},
			StandardRange{Min: 40, OpenMax: true, Unit: "mg/dL", Description: "HDL cholesterol"},
		)),
		rule(labs.ParamTriglycerides, fixed(0, 149, "mg/dL", "Fasting triglycerides")),
		rule(labs.ParamVLDL, fixed(5, 40, "mg/dL", "VLDL cholesterol")),
		rule(labs.ParamTotalCholesterol, fixed(0, 199, "mg/dL", "Desirable total cholesterol")),
		rule(labs.ParamNonHDL, fixed(0, 129, "mg/dL", "Non-HDL cholesterol")),

		// ===== KIDNEY =====
		{Name: labs.ParamEGFR, Match: named(labs.ParamEGFR), Range: egfrRange},
		rule(labs.ParamCreatinine, byGender(
			StandardRange{Min: 0.7, Max: 1.3, Unit: "mg/dL", Description: "Serum creatinine (male)"},
			StandardRange{Min: 0.6, Max: 1.1, Unit: "mg/dL", Description: "Serum creatinine (female)"},
			StandardRange{Min: 0.6, Max: 1.3, Unit: "mg/dL", Description: "Serum creatinine"},
		)),
		rule(labs.ParamBUN, fixed(7, 20, "mg/dL", "Blood urea nitrogen")),
		rule(labs.ParamUrea, fixed(15, 40, "mg/dL", "Blood urea")),
		rule(labs.ParamUricAcid, byGender(
			StandardRange{Min: 3.4, Max: 7.0, Unit: "mg/dL", Description: "Uric acid (male)"},
			StandardRange{Min: 2.4, Max: 6.0, Unit: "mg/dL", Description: "Uric acid (female)"},
			StandardRange{Min: 2.4, Max: 7.0, Unit: "mg/dL", Description: "Uric acid"},
		)),
		rule(labs.ParamMicroalbumin, fixed(0, 30, "mg/g", "Urine albumin"), labs.ParamMicroalbumin, labs.ParamUACR),
		rule(labs.ParamSodium, fixed(135, 145, "mmol/L", "Serum sodium")),
		rule(labs.ParamPotassium, fixed(3.5, 5.1, "mmol/L", "Serum potassium")),

		// ===== BLOOD COUNTS =====
		rule(labs.ParamHemoglobin, byGender(
			StandardRange{Min: 13.5, Max: 17.5, Unit: "g/dL", Description: "Hemoglobin (male)"},
			StandardRange{Min: 12.0, Max: 15.5, Unit: "g/dL", Description: "Hemoglobin (female)"},
			StandardRange{Min: 12.0, Max: 17.5, Unit: "g/dL", Description: "Hemoglobin"},
		)),
		rule(labs.ParamRBC, byGender(
			StandardRange{Min: 4.5, Max: 5.9, Unit: "million/µL", Description: "Red blood cells (male)"},
			StandardRange{Min: 4.1, Max: 5.1, Unit: "million/µL", Description: "Red blood cells (female)"},
			StandardRange{Min: 4.1, Max: 5.9, Unit: "million/µL", Description: "Red blood cells"},
		)),
		rule(labs.ParamWBC, fixed(4, 11, "thousand/µL", "White blood cells")),
		rule(labs.ParamPlatelets, fixed(150, 450, "thousand/µL", "Platelets")),
		rule(labs.ParamFerritin, byGender(
			StandardRange{Min: 30, Max: 400, Unit: "ng/mL", Description: "Ferritin (male)"},
			StandardRange{Min: 15, Max: 150, Unit: "ng/mL", Description: "Ferritin (female)"},
			StandardRange{Min: 15, Max: 400, Unit: "ng/mL", Description: "Ferritin"},
		)),

		// ===== LIVER =====
		rule(labs.ParamALT, fixed(7, 56, "U/L", "Alanine aminotransferase")),
		rule(labs.ParamAST, fixed(10, 40, "U/L", "Aspartate aminotransferase")),
		rule(labs.ParamALP, fixed(44, 147, "U/L", "Alkaline phosphatase")),
		rule(labs.ParamBilirubin, fixed(0.1, 1.2, "mg/dL", "Total bilirubin")),
		rule(labs.ParamAlbumin, fixed(3.5, 5.0, "g/dL", "Serum albumin")),

		// ===== THYROID, VITAMINS =====
		rule(labs.ParamTSH, fixed(0.4, 4.0, "µIU/mL", "Thyroid stimulating hormone")),
		rule(labs.ParamVitaminD, fixed(30, 100, "ng/mL", "25-hydroxy vitamin D")),
		rule(labs.ParamVitaminB12, fixed(200, 900, "pg/mL", "Vitamin B12")),

		// ===== VITALS =====
		rule(labs.ParamSystolic, fixed(90, 120, "mmHg", "Systolic blood pressure")),
		rule(labs.ParamDiastolic, fixed(60, 80, "mmHg", "Diastolic blood pressure")),
		{Name: labs.ParamHeartRate, Match: named(labs.ParamHeartRate), Range: heartRateRange},
		{Name: labs.ParamWeight, Match: named(labs.ParamWeight), Range: weightRange},
		rule(labs.ParamBMI, fixed(idealBMIMin, idealBMIMax, "kg/m²", "Asian BMI band")),
	}
}

// eGFR declines with age; older adults get a lower floor.
func egfrRange(p labs.Profile) StandardRange {
	r := StandardRange{OpenMax: true, Unit: "mL/min/1.73m²"}

	switch {
	case p.Age >= 70:
		r.Min = 60
		r.Description = "eGFR (age 70+)"
	case p.Age >= 60:
		r.Min = 75
		r.Description = "eGFR (age 60-69)"
	default:
		r.Min = 90
		r.Description = "eGFR"
	}

	return r
}

func heartRateRange(p labs.Profile) StandardRange {
	if p.Age > 0 && p.Age < 18 {
		return StandardRange{Min: 70, Max: 110, Unit: "bpm", Description: "Resting heart rate (child)"}
	}
	return StandardRange{Min: 60, Max: 100, Unit: "bpm", Description: "Resting heart rate"}
}

// weightRange derives ideal weight from height using the BMI band.
func weightRange(p labs.Profile) StandardRange {
	if p.HeightCm == nil || *p.HeightCm <= 0 {
		return StandardRange{
			Min: defaultWeightMin, Max: defaultWeightMax,
			Unit: "kg", Description: "Population weight range",
		}
	}

	h := *p.HeightCm / 100
	return StandardRange{
		Min:         round1(idealBMIMin * h * h),
		Max:         round1(idealBMIMax * h * h),
		Unit:        "kg",
		Description: "Ideal weight for height",
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
