/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package labs

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical parameter names shared across the pipeline.
const (
	ParamHbA1c            = "HbA1c"
	ParamEGFR             = "eGFR"
	ParamUACR             = "Urine Albumin-Creatinine Ratio"
	ParamMicroalbumin     = "Microalbumin"
	ParamInsulin          = "Insulin"
	ParamCPeptide         = "C-Peptide"
	ParamFastingGlucose   = "Fasting Glucose"
	ParamPostPrandial     = "Post-Prandial Glucose"
	ParamRandomGlucose    = "Random Glucose"
	ParamGlucose          = "Glucose"
	ParamNonHDL           = "Non-HDL Cholesterol"
	ParamVLDL             = "VLDL Cholesterol"
	ParamCholHDLRatio     = "Cholesterol/HDL Ratio"
	ParamLDLHDLRatio      = "LDL/HDL Ratio"
	ParamLDL              = "LDL Cholesterol"
	ParamHDL              = "HDL Cholesterol"
	ParamTriglycerides    = "Triglycerides"
	ParamTotalCholesterol = "Total Cholesterol"
	ParamBUN              = "Blood Urea Nitrogen"
	ParamUrea             = "Urea"
	ParamCreatinine       = "Creatinine"
	ParamUricAcid         = "Uric Acid"
	ParamUrineGlucose     = "Urine Glucose"
	ParamUrineCreatinine  = "Urine Creatinine"
	ParamMCHC             = "MCHC"
	ParamMCH              = "MCH"
	ParamHemoglobin       = "Hemoglobin"
	ParamRBC              = "RBC Count"
	ParamWBC              = "WBC Count"
	ParamPlatelets        = "Platelets"
	ParamFerritin         = "Ferritin"
	ParamTSH              = "TSH"
	ParamALT              = "ALT"
	ParamAST              = "AST"
	ParamALP              = "Alkaline Phosphatase"
	ParamBilirubin        = "Total Bilirubin"
	ParamSodium           = "Sodium"
	ParamPotassium        = "Potassium"
	ParamVitaminD         = "Vitamin D"
	ParamVitaminB12       = "Vitamin B12"
	ParamAlbumin          = "Albumin"
	ParamSystolic         = "Systolic BP"
	ParamDiastolic        = "Diastolic BP"
	ParamBloodPressure    = "Blood Pressure"
	ParamHeartRate        = "Heart Rate"
	ParamWeight           = "Weight"
	ParamBMI              = "BMI"
)

// NameRule maps any of its keywords to a canonical parameter name.
// Keywords of three characters or fewer only match whole tokens.
type NameRule struct {
	Canonical string
	Keywords  []string
}

// DefaultNameRules returns the canonical name table in precedence order.
// Specific names come before the generic names that contain them.
func DefaultNameRules() []NameRule {
	return []NameRule{
		{Canonical: ParamHbA1c, Keywords: []string{"hba1c", "glycated", "glycosylated", "a1c"}},
		{Canonical: ParamEGFR, Keywords: []string{"egfr", "glomerular filtration"}},
		{Canonical: ParamUACR, Keywords: []string{"uacr", "acr", "albumin creatinine", "albumin/creatinine", "albumin-creatinine"}},
		{Canonical: ParamMicroalbumin, Keywords: []string{"microalbumin", "micro albumin", "urine albumin"}},
		{Canonical: ParamUrineGlucose, Keywords: []string{"urine glucose", "urine sugar", "glucose, urine", "glucose urine", "glucose (urine)", "sugar (urine)"}},
		{Canonical: ParamUrineCreatinine, Keywords: []string{"urine creatinine", "creatinine, urine", "creatinine urine", "creatinine (urine)"}},
		{Canonical: ParamCPeptide, Keywords: []string{"c-peptide", "c peptide"}},
		{Canonical: ParamInsulin, Keywords: []string{"insulin"}},
		{Canonical: ParamFastingGlucose, Keywords: []string{"fasting blood sugar", "fasting glucose", "fasting plasma glucose", "glucose fasting", "glucose, fasting", "glucose (fasting)", "sugar fasting", "sugar (fasting)", "fbs", "fbg", "fpg"}},
		{Canonical: ParamPostPrandial, Keywords: []string{"post prandial", "postprandial", "post-prandial", "ppbs", "ppbg", "pp glucose", "pp sugar"}},
		{Canonical: ParamRandomGlucose, Keywords: []string{"random blood sugar", "random glucose", "rbs"}},
		{Canonical: ParamGlucose, Keywords: []string{"glucose", "blood sugar"}},
		{Canonical: ParamCholHDLRatio, Keywords: []string{"cholesterol/hdl", "chol/hdl", "tc/hdl", "cholesterol / hdl", "chol / hdl", "cholesterol hdl ratio", "chol hdl ratio", "cholesterol to hdl"}},
		{Canonical: ParamLDLHDLRatio, Keywords: []string{"ldl/hdl", "ldl / hdl", "ldl hdl ratio", "ldl to hdl"}},
		{Canonical: ParamNonHDL, Keywords: []string{"non-hdl", "non hdl"}},
		{Canonical: ParamVLDL, Keywords: []string{"vldl"}},
		{Canonical: ParamLDL, Keywords: []string{"ldl"}},
		{Canonical: ParamHDL, Keywords: []string{"hdl"}},
		{Canonical: ParamTriglycerides, Keywords: []string{"triglyceride", "tgl"}},
		{Canonical: ParamTotalCholesterol, Keywords: []string{"cholesterol"}},
		{Canonical: ParamBUN, Keywords: []string{"bun", "urea nitrogen"}},
		{Canonical: ParamUrea, Keywords: []string{"urea"}},
		{Canonical: ParamCreatinine, Keywords: []string{"creatinine"}},
		{Canonical: ParamUricAcid, Keywords: []string{"uric acid"}},
		{Canonical: ParamMCHC, Keywords: []string{"mchc", "corpuscular hemoglobin concentration", "corpuscular haemoglobin concentration"}},
		{Canonical: ParamMCH, Keywords: []string{"mch", "corpuscular hemoglobin", "corpuscular haemoglobin"}},
		{Canonical: ParamHemoglobin, Keywords: []string{"hemoglobin", "haemoglobin", "hgb", "hb"}},
		{Canonical: ParamRBC, Keywords: []string{"rbc", "red blood cell", "erythrocyte"}},
		{Canonical: ParamWBC, Keywords: []string{"wbc", "tlc", "white blood cell", "leukocyte", "leucocyte"}},
		{Canonical: ParamPlatelets, Keywords: []string{"platelet", "plt"}},
		{Canonical: ParamFerritin, Keywords: []string{"ferritin"}},
		{Canonical: ParamTSH, Keywords: []string{"tsh", "thyroid stimulating"}},
		{Canonical: ParamALT, Keywords: []string{"sgpt", "alt", "alanine"}},
		{Canonical: ParamAST, Keywords: []string{"sgot", "ast", "aspartate"}},
		{Canonical: ParamALP, Keywords: []string{"alkaline phosphatase", "alp"}},
		{Canonical: ParamBilirubin, Keywords: []string{"bilirubin"}},
		{Canonical: ParamSodium, Keywords: []string{"sodium"}},
		{Canonical: ParamPotassium, Keywords: []string{"potassium"}},
		{Canonical: ParamVitaminD, Keywords: []string{"vitamin d", "25-oh", "25 oh", "cholecalciferol"}},
		{Canonical: ParamVitaminB12, Keywords: []string{"b12", "cobalamin"}},
		{Canonical: ParamAlbumin, Keywords: []string{"albumin"}},
		{Canonical: ParamSystolic, Keywords: []string{"systolic"}},
		{Canonical: ParamDiastolic, Keywords: []string{"diastolic"}},
		{Canonical: ParamBloodPressure, Keywords: []string{"blood pressure", "bp"}},
		{Canonical: ParamHeartRate, Keywords: []string{"heart rate", "pulse"}},
		{Canonical: ParamBMI, Keywords: []string{"bmi", "body mass index"}},
		{Canonical: ParamWeight, Keywords: []string{"weight"}},
	}
}

var (
	specimenPrefixRegex = regexp.MustCompile(`(?i)^(?:[spub]\.\s*|serum\s+|plasma\s+)`)
	urinePrefixRegex    = regexp.MustCompile(`(?i)^u\.\s*`)
)

// Canonicalizer maps raw test names to canonical parameter names.
type Canonicalizer struct {
	rules []NameRule
}

// NewCanonicalizer creates a canonicalizer over rules, which are evaluated
// in order. A nil rules slice selects DefaultNameRules.
func NewCanonicalizer(rules []NameRule) *Canonicalizer {
	if rules == nil {
		rules = DefaultNameRules()
	}

	lowered := make([]NameRule, len(rules))
	for i, rule := range rules {
		keywords := make([]string, len(rule.Keywords))
		for j, kw := range rule.Keywords {
			keywords[j] = strings.ToLower(kw)
		}
		lowered[i] = NameRule{Canonical: rule.Canonical, Keywords: keywords}
	}

	return &Canonicalizer{rules: lowered}
}

var defaultCanonicalizer = NewCanonicalizer(nil)

// Canonicalize maps rawName using the default rule table.
func Canonicalize(rawName string) string {
	return defaultCanonicalizer.Canonicalize(rawName)
}

// Canonicalize strips specimen prefixes and returns the canonical name of
// the first matching rule. Unmatched long all-uppercase names are title
// cased; anything else is returned trimmed.
func (c *Canonicalizer) Canonicalize(rawName string) string {
	name := strings.TrimSpace(rawName)
	if name == "" {
		return ""
	}

	display := strings.TrimSpace(specimenPrefixRegex.ReplaceAllString(name, ""))
	if display == "" {
		return name
	}

	lowered := strings.ToLower(display)
	if urinePrefixRegex.MatchString(name) && !strings.Contains(lowered, "urine") {
		lowered = "urine " + lowered
	}
	tokens := tokenize(lowered)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if keywordMatches(lowered, tokens, kw) {
				return rule.Canonical
			}
		}
	}

	if len(display) > 4 && isAllUpper(display) {
		// A Caser keeps state between calls and cannot be shared.
		return cases.Title(language.English).String(strings.ToLower(display))
	}

	return display
}

func keywordMatches(name string, tokens map[string]bool, keyword string) bool {
	if len(keyword) <= 3 {
		return tokens[keyword]
	}
	return strings.Contains(name, keyword)
}

func tokenize(s string) map[string]bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make(map[string]bool, len(fields))
	for _, f := range fields {
		tokens[f] = true
	}

	return tokens
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// Category names used to group canonical parameters.
const (
	CategoryDiabetes = "Diabetes"
	CategoryLipids   = "Lipid Profile"
	CategoryKidney   = "Kidney Function"
	CategoryLiver    = "Liver Function"
	CategoryBlood    = "Blood Counts"
	CategoryThyroid  = "Thyroid"
	CategoryVitamins = "Vitamins & Minerals"
	CategoryVitals   = "Vitals"
	CategoryOther    = "Other"
)

var categoryByParameter = map[string]string{
	ParamHbA1c:            CategoryDiabetes,
	ParamInsulin:          CategoryDiabetes,
	ParamCPeptide:         CategoryDiabetes,
	ParamFastingGlucose:   CategoryDiabetes,
	ParamPostPrandial:     CategoryDiabetes,
	ParamRandomGlucose:    CategoryDiabetes,
	ParamGlucose:          CategoryDiabetes,
	ParamNonHDL:           CategoryLipids,
	ParamVLDL:             CategoryLipids,
	ParamCholHDLRatio:     CategoryLipids,
	ParamLDLHDLRatio:      CategoryLipids,
	ParamLDL:              CategoryLipids,
	ParamHDL:              CategoryLipids,
	ParamTriglycerides:    CategoryLipids,
	ParamTotalCholesterol: CategoryLipids,
	ParamEGFR:             CategoryKidney,
	ParamUACR:             CategoryKidney,
	ParamMicroalbumin:     CategoryKidney,
	ParamUrineGlucose:     CategoryKidney,
	ParamUrineCreatinine:  CategoryKidney,
	ParamBUN:              CategoryKidney,
	ParamUrea:             CategoryKidney,
	ParamCreatinine:       CategoryKidney,
	ParamUricAcid:         CategoryKidney,
	ParamSodium:           CategoryKidney,
	ParamPotassium:        CategoryKidney,
	ParamALT:              CategoryLiver,
	ParamAST:              CategoryLiver,
	ParamALP:              CategoryLiver,
	ParamBilirubin:        CategoryLiver,
	ParamAlbumin:          CategoryLiver,
	ParamHemoglobin:       CategoryBlood,
	ParamMCH:              CategoryBlood,
	ParamMCHC:             CategoryBlood,
	ParamRBC:              CategoryBlood,
	ParamWBC:              CategoryBlood,
	ParamPlatelets:        CategoryBlood,
	ParamFerritin:         CategoryVitamins,
	ParamVitaminD:         CategoryVitamins,
	ParamVitaminB12:       CategoryVitamins,
	ParamTSH:              CategoryThyroid,
	ParamSystolic:         CategoryVitals,
	ParamDiastolic:        CategoryVitals,
	ParamBloodPressure:    CategoryVitals,
	ParamHeartRate:        CategoryVitals,
	ParamWeight:           CategoryVitals,
	ParamBMI:              CategoryVitals,
}

// CategoryFor returns the category of a canonical parameter, or
// CategoryOther for names outside the table.
func CategoryFor(parameter string) string {
	if category, ok := categoryByParameter[parameter]; ok {
		return category
	}
	return CategoryOther
}

// IsGlucoseParameter reports whether the canonical name is a blood glucose reading.
func IsGlucoseParameter(parameter string) bool {
	switch parameter {
	case ParamGlucose, ParamFastingGlucose, ParamPostPrandial, ParamRandomGlucose:
		return true
	}
	return false
}
