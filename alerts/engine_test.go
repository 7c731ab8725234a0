// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package alerts

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/humaidq/glucolens/labs"
	"github.com/humaidq/glucolens/medication"
)

var (
	fixedNow = time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
	day      = 24 * time.Hour
)

func newTestEngine(opts ...Option) *Engine {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewEngine(opts...)
}

func reading(parameter string, value float64, daysAgo int) labs.LabResult {
	return labs.LabResult{
		TestName:  parameter,
		Parameter: parameter,
		Value:     value,
		TestDate:  fixedNow.Add(-time.Duration(daysAgo) * day),
	}
}

func categories(alerts []Alert) []Category {
	out := make([]Category, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Category)
	}
	return out
}

func TestSevereHypoglycemiaType1(t *testing.T) {
	t.Parallel()

	got := newTestEngine().GenerateAlerts(
		[]labs.LabResult{reading(labs.ParamGlucose, 45, 0)},
		nil,
		labs.Profile{Age: 24, DiabetesType: "Type 1"},
	)

	if len(got) != 1 {
		t.Fatalf("expected exactly one alert, got %v", categories(got))
	}

	a := got[0]
	if a.Severity != SeverityCritical || a.Category != CategoryHypoglycemia {
		t.Fatalf("expected critical hypoglycemia, got %s %s", a.Severity, a.Category)
	}
	if !strings.Contains(strings.ToLower(a.ActionText), "ketone") {
		t.Fatalf("expected ketone-check guidance, got %q", a.ActionText)
	}
}

func TestGlucoseAlertLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		value        float64
		profile      labs.Profile
		wantCategory Category
		wantSeverity Severity
		wantAction   string
	}{
		{"mild low", 62, labs.Profile{DiabetesType: "Type 2"}, CategoryHypoglycemia, SeverityWarning, "water"},
		{"high type 2", 300, labs.Profile{DiabetesType: "Type 2"}, CategoryHyperglycemia, SeverityWarning, "water"},
		{"high type 1", 320, labs.Profile{DiabetesType: "Type 1"}, CategoryHyperglycemia, SeverityWarning, "ketones"},
		{"very high", 420, labs.Profile{DiabetesType: "Type 2"}, CategoryHyperglycemia, SeverityCritical, "water"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := newTestEngine().GenerateAlerts([]labs.LabResult{reading(labs.ParamRandomGlucose, tt.value, 0)}, nil, tt.profile)
			if len(got) != 1 {
				t.Fatalf("expected one alert, got %v", categories(got))
			}
			if got[0].Category != tt.wantCategory || got[0].Severity != tt.wantSeverity {
				t.Fatalf("expected %s %s, got %s %s", tt.wantSeverity, tt.wantCategory, got[0].Severity, got[0].Category)
			}
			if !strings.Contains(got[0].ActionText, tt.wantAction) {
				t.Fatalf("expected action mentioning %q, got %q", tt.wantAction, got[0].ActionText)
			}
		})
	}

	if got := newTestEngine().GenerateAlerts([]labs.LabResult{reading(labs.ParamGlucose, 110, 0)}, nil, labs.Profile{}); len(got) != 0 {
		t.Fatalf("expected no alerts for normal glucose, got %v", categories(got))
	}
}

func TestGlucoseUsesMostRecentReading(t *testing.T) {
	t.Parallel()

	got := newTestEngine().GenerateAlerts([]labs.LabResult{
		reading(labs.ParamGlucose, 40, 10),
		reading(labs.ParamFastingGlucose, 105, 1),
	}, nil, labs.Profile{})

	if len(got) != 0 {
		t.Fatalf("expected old low reading to be ignored, got %v", categories(got))
	}
}

func TestGlucosePatternAlert(t *testing.T) {
	t.Parallel()

	results := []labs.LabResult{
		reading(labs.ParamPostPrandial, 210, 1),
		reading(labs.ParamPostPrandial, 195, 2),
		reading(labs.ParamFastingGlucose, 120, 3),
		reading(labs.ParamPostPrandial, 230, 4),
		reading(labs.ParamFastingGlucose, 110, 5),
		reading(labs.ParamPostPrandial, 260, 30),
	}

	got := newTestEngine().GenerateAlerts(results, nil, labs.Profile{Age: 50, DiabetesType: "Type 2"})
	if len(got) != 1 || got[0].Category != CategoryGlucosePattern || got[0].Severity != SeverityInfo {
		t.Fatalf("expected one glucose pattern info alert, got %v", categories(got))
	}

	// Only two of the last five above target.
	results[3].Value = 150
	if got := newTestEngine().GenerateAlerts(results, nil, labs.Profile{Age: 50}); len(got) != 0 {
		t.Fatalf("expected no pattern alert, got %v", categories(got))
	}
}

func TestHbA1cAlerts(t *testing.T) {
	t.Parallel()

	profile := labs.Profile{Age: 45, DiabetesType: "Type 2"}

	tests := []struct {
		name   string
		values []labs.LabResult
		want   []Severity
	}{
		{"at goal", []labs.LabResult{reading(labs.ParamHbA1c, 7.0, 0)}, nil},
		{"above goal", []labs.LabResult{reading(labs.ParamHbA1c, 8.7, 0)}, []Severity{SeverityInfo}},
		{"well above goal", []labs.LabResult{reading(labs.ParamHbA1c, 9.4, 0)}, []Severity{SeverityWarning}},
		{"rising", []labs.LabResult{
			reading(labs.ParamHbA1c, 7.9, 0),
			reading(labs.ParamHbA1c, 7.1, 90),
		}, []Severity{SeverityInfo}},
		{"rising and high", []labs.LabResult{
			reading(labs.ParamHbA1c, 6.8, 180),
			reading(labs.ParamHbA1c, 9.6, 0),
		}, []Severity{SeverityWarning, SeverityInfo}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := newTestEngine().GenerateAlerts(tt.values, nil, profile)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d alerts, got %d", len(tt.want), len(got))
			}
			for i, a := range got {
				if a.Category != CategoryHbA1c || a.Severity != tt.want[i] {
					t.Fatalf("alert %d: expected %s HbA1c, got %s %s", i, tt.want[i], a.Severity, a.Category)
				}
			}
		})
	}
}

func TestMedicationAlerts(t *testing.T) {
	t.Parallel()

	ended := fixedNow.Add(-3 * day)
	future := fixedNow.Add(30 * day)
	profile := labs.Profile{DiabetesType: "Type 2", TreatmentType: "Oral + Insulin"}

	meds := []labs.MedicationRecord{
		{Name: "Glycomet", IsActive: true, EndDate: &ended},
		{Name: "Telma 40", IsActive: true, EndDate: &future},
		{Name: "Old Drug", IsActive: false, EndDate: &ended},
	}

	got := newTestEngine().GenerateAlerts(nil, meds, profile)
	if len(got) != 2 {
		t.Fatalf("expected insulin and refill alerts, got %+v", got)
	}
	if got[0].Title != "Insulin not in medication list" {
		t.Fatalf("expected insulin alert first, got %q", got[0].Title)
	}
	if got[1].Title != "Glycomet may need a refill" {
		t.Fatalf("expected refill alert, got %q", got[1].Title)
	}

	withBrand := append(meds, labs.MedicationRecord{Name: "Basalog", IsActive: true})

	plain := newTestEngine().GenerateAlerts(nil, withBrand, profile)
	if len(plain) != 2 {
		t.Fatalf("expected brand name to be unknown without a matcher, got %d alerts", len(plain))
	}

	matched := newTestEngine(WithMatcher(medication.NewMatcher(nil))).GenerateAlerts(nil, withBrand, profile)
	if len(matched) != 1 || matched[0].Title != "Glycomet may need a refill" {
		t.Fatalf("expected catalog to recognise insulin brand, got %+v", matched)
	}
}

func TestKidneyAlerts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		results []labs.LabResult
		want    []Severity
	}{
		{"severe", []labs.LabResult{reading(labs.ParamEGFR, 25, 0)}, []Severity{SeverityCritical}},
		{"moderate", []labs.LabResult{reading(labs.ParamEGFR, 48, 0)}, []Severity{SeverityWarning}},
		{"normal", []labs.LabResult{reading(labs.ParamEGFR, 95, 0)}, nil},
		{"albuminuria", []labs.LabResult{reading(labs.ParamMicroalbumin, 85, 0)}, []Severity{SeverityInfo}},
		{"both", []labs.LabResult{
			reading(labs.ParamUACR, 45, 0),
			reading(labs.ParamEGFR, 55, 0),
		}, []Severity{SeverityWarning, SeverityInfo}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := newTestEngine().GenerateAlerts(tt.results, nil, labs.Profile{})
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d alerts, got %v", len(tt.want), categories(got))
			}
			for i, a := range got {
				if a.Category != CategoryKidney || a.Severity != tt.want[i] {
					t.Fatalf("alert %d: expected %s kidney, got %s %s", i, tt.want[i], a.Severity, a.Category)
				}
			}
		})
	}
}

func TestBloodPressureAlerts(t *testing.T) {
	t.Parallel()

	composite := labs.LabResult{
		TestName: labs.ParamBloodPressure, Parameter: labs.ParamBloodPressure,
		StringValue: "186/112", TestDate: fixedNow,
	}

	got := newTestEngine().GenerateAlerts([]labs.LabResult{composite}, nil, labs.Profile{})
	if len(got) != 1 || got[0].Severity != SeverityCritical || got[0].Category != CategoryBloodPressure {
		t.Fatalf("expected critical blood pressure alert, got %+v", got)
	}

	senior := labs.Profile{Age: 70}
	if got := newTestEngine().GenerateAlerts([]labs.LabResult{reading(labs.ParamSystolic, 136, 0)}, nil, senior); len(got) != 0 {
		t.Fatalf("expected senior target of 140 to tolerate 136, got %+v", got)
	}
	if got := newTestEngine().GenerateAlerts([]labs.LabResult{reading(labs.ParamSystolic, 136, 0)}, nil, labs.Profile{Age: 40}); len(got) != 1 || got[0].Severity != SeverityInfo {
		t.Fatalf("expected info alert above 130, got %+v", got)
	}
}

func TestAlertsSortedAndStable(t *testing.T) {
	t.Parallel()

	ended := fixedNow.Add(-day)
	results := []labs.LabResult{
		reading(labs.ParamGlucose, 48, 0),
		reading(labs.ParamHbA1c, 9.8, 0),
		reading(labs.ParamEGFR, 22, 0),
		reading(labs.ParamMicroalbumin, 60, 0),
	}
	meds := []labs.MedicationRecord{{Name: "Amaryl", IsActive: true, EndDate: &ended}}

	e := newTestEngine()
	got := e.GenerateAlerts(results, meds, labs.Profile{Age: 60, DiabetesType: "Type 2"})

	want := []Category{
		CategoryHypoglycemia, CategoryKidney,
		CategoryHbA1c,
		CategoryMedication, CategoryKidney,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, categories(got))
	}
	for i := range want {
		if got[i].Category != want[i] {
			t.Fatalf("expected %v, got %v", want, categories(got))
		}
		if i > 0 && got[i].Severity < got[i-1].Severity {
			t.Fatalf("alerts not sorted by severity: %v", categories(got))
		}
	}

	again := e.GenerateAlerts(results, meds, labs.Profile{Age: 60, DiabetesType: "Type 2"})
	for i := range got {
		if got[i].ID != again[i].ID {
			t.Fatalf("expected deterministic alert IDs")
		}
	}
}

func TestNoDataNoAlerts(t *testing.T) {
	t.Parallel()

	if got := NewEngine().GenerateAlerts(nil, nil, labs.Profile{}); len(got) != 0 {
		t.Fatalf("expected no alerts, got %+v", got)
	}
}

func TestSeverityJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Alert{Severity: SeverityWarning})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"severity":"Warning"`) {
		t.Fatalf("expected severity name in JSON, got %s", data)
	}

	var a Alert
	if err := json.Unmarshal(data, &a); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if a.Severity != SeverityWarning {
		t.Fatalf("expected Warning, got %s", a.Severity)
	}

	if err := json.Unmarshal([]byte(`{"severity":"Urgent"}`), &a); err == nil {
		t.Fatalf("expected error for unknown severity")
	}
}
