// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package labs

import (
	"sync"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "HbA1c", want: ParamHbA1c},
		{raw: "Glycated Hemoglobin (HbA1c)", want: ParamHbA1c},
		{raw: "S. Creatinine", want: ParamCreatinine},
		{raw: "Serum Creatinine", want: ParamCreatinine},
		{raw: "Fasting Blood Sugar (FBS)", want: ParamFastingGlucose},
		{raw: "FBS", want: ParamFastingGlucose},
		{raw: "Post Prandial Blood Sugar", want: ParamPostPrandial},
		{raw: "Random Blood Sugar", want: ParamRandomGlucose},
		{raw: "Plasma Glucose", want: ParamGlucose},
		{raw: "VLDL Cholesterol", want: ParamVLDL},
		{raw: "LDL Cholesterol (Direct)", want: ParamLDL},
		{raw: "HDL", want: ParamHDL},
		{raw: "Non-HDL Cholesterol", want: ParamNonHDL},
		{raw: "Cholesterol, Total", want: ParamTotalCholesterol},
		{raw: "Triglycerides", want: ParamTriglycerides},
		{raw: "Urine Microalbumin", want: ParamMicroalbumin},
		{raw: "Serum Albumin", want: ParamAlbumin},
		{raw: "Blood Urea Nitrogen", want: ParamBUN},
		{raw: "eGFR (CKD-EPI)", want: ParamEGFR},
		{raw: "SGPT", want: ParamALT},
		{raw: "SGOT (AST)", want: ParamAST},
		{raw: "Hb", want: ParamHemoglobin},
		{raw: "Systolic Blood Pressure", want: ParamSystolic},
		{raw: "Diastolic BP", want: ParamDiastolic},
		{raw: "BP", want: ParamBloodPressure},
		{raw: "  Vitamin B12  ", want: ParamVitaminB12},
		{raw: "25-OH Vitamin D", want: ParamVitaminD},
		{raw: "PLATELET COUNT", want: ParamPlatelets},
		{raw: "Total Cholesterol/HDL Ratio", want: ParamCholHDLRatio},
		{raw: "Chol/HDL Ratio", want: ParamCholHDLRatio},
		{raw: "LDL/HDL Ratio", want: ParamLDLHDLRatio},
		{raw: "Mean Corpuscular Hemoglobin", want: ParamMCH},
		{raw: "MCH", want: ParamMCH},
		{raw: "MCHC (Mean Corpuscular Hb Concentration)", want: ParamMCHC},
		{raw: "Mean Corpuscular Haemoglobin Concentration", want: ParamMCHC},
		{raw: "Urine Glucose", want: ParamUrineGlucose},
		{raw: "Glucose (Urine)", want: ParamUrineGlucose},
		{raw: "Urine Creatinine", want: ParamUrineCreatinine},
		{raw: "U. Creatinine", want: ParamUrineCreatinine},
		{raw: "U. Albumin", want: ParamMicroalbumin},
		{raw: "Urine Albumin/Creatinine Ratio", want: ParamUACR},
		{raw: "PROLACTIN", want: "Prolactin"},
		{raw: "ESR", want: "ESR"},
		{raw: "Lipase", want: "Lipase"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			if got := Canonicalize(tt.raw); got != tt.want {
				t.Fatalf("Canonicalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestShortKeywordsMatchWholeTokens(t *testing.T) {
	t.Parallel()

	// "gastrin" contains "ast" and "hbsag" starts with "hb".
	if got := Canonicalize("Gastrin"); got != "Gastrin" {
		t.Fatalf("expected Gastrin passthrough, got %q", got)
	}
	if got := Canonicalize("HBsAg"); got != "HBsAg" {
		t.Fatalf("expected HBsAg passthrough, got %q", got)
	}
	if got := Canonicalize("Hb (Haemoglobin)"); got != ParamHemoglobin {
		t.Fatalf("expected %q, got %q", ParamHemoglobin, got)
	}
}

func TestCanonicalNamesAreFixedPoints(t *testing.T) {
	t.Parallel()

	for _, rule := range DefaultNameRules() {
		if got := Canonicalize(rule.Canonical); got != rule.Canonical {
			t.Fatalf("Canonicalize(%q) = %q, want fixed point", rule.Canonical, got)
		}
	}
}

func TestDefaultNameRulePrecedence(t *testing.T) {
	t.Parallel()

	position := make(map[string]int)
	for i, rule := range DefaultNameRules() {
		position[rule.Canonical] = i
	}

	before := [][2]string{
		{ParamVLDL, ParamLDL},
		{ParamLDL, ParamTotalCholesterol},
		{ParamHDL, ParamTotalCholesterol},
		{ParamHbA1c, ParamHemoglobin},
		{ParamMicroalbumin, ParamAlbumin},
		{ParamSystolic, ParamBloodPressure},
		{ParamDiastolic, ParamBloodPressure},
		{ParamFastingGlucose, ParamGlucose},
		{ParamBUN, ParamUrea},
		{ParamCholHDLRatio, ParamHDL},
		{ParamLDLHDLRatio, ParamLDL},
		{ParamLDLHDLRatio, ParamHDL},
		{ParamMCHC, ParamMCH},
		{ParamMCH, ParamHemoglobin},
		{ParamMCHC, ParamHemoglobin},
		{ParamUACR, ParamUrineCreatinine},
		{ParamUrineGlucose, ParamFastingGlucose},
		{ParamUrineGlucose, ParamGlucose},
		{ParamUrineCreatinine, ParamCreatinine},
	}

	for _, pair := range before {
		if position[pair[0]] >= position[pair[1]] {
			t.Fatalf("expected %q rule before %q", pair[0], pair[1])
		}
	}
}

func TestCanonicalizeConcurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	errs := make(chan string, 16)

	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range 200 {
				if got := Canonicalize("HOMOCYSTEINE LEVEL"); got != "Homocysteine Level" {
					errs <- got
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)

	for got := range errs {
		t.Fatalf("expected %q, got %q", "Homocysteine Level", got)
	}
}

func TestCustomRules(t *testing.T) {
	t.Parallel()

	c := NewCanonicalizer([]NameRule{{Canonical: "Lipase", Keywords: []string{"LIPASE"}}})
	if got := c.Canonicalize("serum lipase"); got != "Lipase" {
		t.Fatalf("expected Lipase, got %q", got)
	}
	if got := c.Canonicalize("HbA1c"); got != "HbA1c" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestCategoryFor(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		ParamHbA1c:         CategoryDiabetes,
		ParamLDL:           CategoryLipids,
		ParamEGFR:          CategoryKidney,
		ParamBloodPressure: CategoryVitals,
		"Prolactin":        CategoryOther,
	}

	for param, want := range cases {
		if got := CategoryFor(param); got != want {
			t.Fatalf("CategoryFor(%q) = %q, want %q", param, got, want)
		}
	}
}
