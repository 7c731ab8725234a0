/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package alerts

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/humaidq/glucolens/labs"
)

// Alert thresholds. Glucose values are mg/dL, eGFR mL/min/1.73m²,
// urine albumin mg/g and blood pressure mmHg.
const (
	hypoglycemiaLevel          = 70
	severeHypoglycemiaLevel    = 54
	hyperglycemiaLevel         = 250
	severeHyperglycemiaLevel   = 400
	glucosePatternWindow       = 5
	glucosePatternMinimum      = 3
	hba1cAboveGoalMargin       = 1.5
	hba1cWarningLevel          = 9.0
	hba1cWorseningDelta        = 0.5
	egfrSevereLevel            = 30
	egfrModerateLevel          = 60
	albuminuriaLevel           = 30
	hypertensiveCrisisSystolic = 180
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func glucoseAlerts(_ *Engine, in input) []Alert {
	readings := byParameter(in.results, labs.IsGlucoseParameter)
	if len(readings) == 0 {
		return nil
	}

	latest := readings[0]
	date := in.dateOr(latest.TestDate)
	value := latest.Value
	type1 := in.profile.IsType1()

	switch {
	case value < hypoglycemiaLevel:
		severity := SeverityWarning
		if value < severeHypoglycemiaLevel {
			severity = SeverityCritical
		}

		action := "Take 15 g of fast-acting carbohydrate, recheck glucose in 15 minutes and repeat if still below 70 mg/dL."
		if type1 {
			action += " Once glucose recovers, check blood or urine ketones and contact your care team if they are raised."
		} else {
			action += " Drink water with your snack and contact your doctor if lows keep happening."
		}

		return []Alert{newAlert(CategoryHypoglycemia, severity, "Low blood glucose",
			fmt.Sprintf("Your latest %s reading is %s mg/dL, below 70 mg/dL.", parameterOf(latest), num(value)),
			action, date)}

	case value > hyperglycemiaLevel:
		severity := SeverityWarning
		if value > severeHyperglycemiaLevel {
			severity = SeverityCritical
		}

		action := "Drink plenty of water, avoid sugary food and recheck glucose in 2 hours."
		if type1 {
			action = "Check blood or urine ketones now. If ketones are moderate or high, contact your care team or seek urgent care."
		}

		return []Alert{newAlert(CategoryHyperglycemia, severity, "High blood glucose",
			fmt.Sprintf("Your latest %s reading is %s mg/dL, above 250 mg/dL.", parameterOf(latest), num(value)),
			action, date)}
	}

	return nil
}

func glucosePatternAlerts(_ *Engine, in input) []Alert {
	readings := byParameter(in.results, labs.IsGlucoseParameter)
	if len(readings) > glucosePatternWindow {
		readings = readings[:glucosePatternWindow]
	}

	high := 0
	for _, r := range readings {
		if r.Value > in.targets.PostPrandialMax {
			high++
		}
	}

	if high < glucosePatternMinimum {
		return nil
	}

	return []Alert{newAlert(CategoryGlucosePattern, SeverityInfo, "Frequent high glucose readings",
		fmt.Sprintf("%d of your last %d glucose readings were above your target of %s mg/dL.",
			high, len(readings), num(in.targets.PostPrandialMax)),
		"Review meal timing and portions, and share these readings at your next appointment.",
		in.dateOr(readings[0].TestDate))}
}

func hba1cAlerts(_ *Engine, in input) []Alert {
	values := byParameter(in.results, isParameter(labs.ParamHbA1c))
	if len(values) == 0 {
		return nil
	}

	var out []Alert
	latest := values[0]
	goal := in.targets.HbA1cGoal

	if latest.Value > goal+hba1cAboveGoalMargin {
		severity := SeverityInfo
		if latest.Value > hba1cWarningLevel {
			severity = SeverityWarning
		}

		out = append(out, newAlert(CategoryHbA1c, severity, "HbA1c above goal",
			fmt.Sprintf("Your HbA1c is %s%%, more than 1.5 points above your goal of %s%%.", num(latest.Value), num(goal)),
			"Discuss your diabetes management plan with your doctor.",
			in.dateOr(latest.TestDate)))
	}

	if len(values) >= 2 {
		prior := values[1]
		if latest.Value-prior.Value > hba1cWorseningDelta {
			out = append(out, newAlert(CategoryHbA1c, SeverityInfo, "HbA1c rising",
				fmt.Sprintf("Your HbA1c rose from %s%% to %s%% since %s.",
					num(prior.Value), num(latest.Value), prior.TestDate.Format("2 Jan 2006")),
				"Look back at recent changes in diet, activity or missed doses.",
				in.dateOr(latest.TestDate)))
		}
	}

	return out
}

func medicationAlerts(e *Engine, in input) []Alert {
	var out []Alert

	if in.profile.UsesInsulin() && !hasActiveInsulin(e, in.meds) {
		out = append(out, newAlert(CategoryMedication, SeverityInfo, "Insulin not in medication list",
			"Your treatment includes insulin but no active insulin is recorded.",
			"Add your insulin to your medication list so reminders and reports stay accurate.",
			in.now))
	}

	for _, m := range in.meds {
		if !m.IsActive || !m.Expired(in.now) {
			continue
		}

		out = append(out, newAlert(CategoryMedication, SeverityInfo, m.Name+" may need a refill",
			fmt.Sprintf("Your prescription for %s ended on %s.", m.Name, m.EndDate.Format("2 Jan 2006")),
			"Check your supply and contact your doctor for a renewed prescription if needed.",
			*m.EndDate))
	}

	return out
}

func hasActiveInsulin(e *Engine, meds []labs.MedicationRecord) bool {
	for _, m := range meds {
		if !m.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(m.Name), "insulin") {
			return true
		}
		if e.matcher != nil && e.matcher.IsInsulin(m.Name) {
			return true
		}
	}
	return false
}

func kidneyAlerts(_ *Engine, in input) []Alert {
	var out []Alert

	if egfr := byParameter(in.results, isParameter(labs.ParamEGFR)); len(egfr) > 0 {
		latest := egfr[0]
		date := in.dateOr(latest.TestDate)

		switch {
		case latest.Value < egfrSevereLevel:
			out = append(out, newAlert(CategoryKidney, SeverityCritical, "Severely reduced kidney function",
				fmt.Sprintf("Your eGFR is %s, below 30.", num(latest.Value)),
				"Contact your doctor promptly. Some diabetes medicines need review at this level.",
				date))
		case latest.Value < egfrModerateLevel:
			out = append(out, newAlert(CategoryKidney, SeverityWarning, "Reduced kidney function",
				fmt.Sprintf("Your eGFR is %s, below 60.", num(latest.Value)),
				"Discuss kidney function and medication doses at your next visit.",
				date))
		}
	}

	albumin := byParameter(in.results, isParameter(labs.ParamMicroalbumin, labs.ParamUACR))
	if len(albumin) > 0 && albumin[0].Value > albuminuriaLevel {
		latest := albumin[0]
		out = append(out, newAlert(CategoryKidney, SeverityInfo, "Protein in urine",
			fmt.Sprintf("Your urine albumin is %s, above 30.", num(latest.Value)),
			"Ask your doctor about repeating the test and protecting kidney health.",
			in.dateOr(latest.TestDate)))
	}

	return out
}

type systolicReading struct {
	value float64
	r     labs.LabResult
}

// latestSystolic considers standalone systolic results and the first
// number of blood pressure composites.
func latestSystolic(results []labs.LabResult) (systolicReading, bool) {
	var readings []systolicReading

	for _, r := range results {
		switch {
		case r.HasComposite() && parameterOf(r) == labs.ParamBloodPressure:
			if sys, _, ok := labs.SplitComposite(r.StringValue); ok {
				readings = append(readings, systolicReading{value: sys, r: r})
			}
		case !r.HasComposite() && parameterOf(r) == labs.ParamSystolic:
			readings = append(readings, systolicReading{value: r.Value, r: r})
		}
	}

	if len(readings) == 0 {
		return systolicReading{}, false
	}

	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].r.TestDate.After(readings[j].r.TestDate)
	})

	return readings[0], true
}

func bloodPressureAlerts(_ *Engine, in input) []Alert {
	latest, ok := latestSystolic(in.results)
	if !ok {
		return nil
	}

	date := in.dateOr(latest.r.TestDate)
	target := in.targets.SystolicMax

	switch {
	case latest.value > hypertensiveCrisisSystolic:
		return []Alert{newAlert(CategoryBloodPressure, SeverityCritical, "Very high blood pressure",
			fmt.Sprintf("Your systolic pressure is %s mmHg, above 180.", num(latest.value)),
			"Rest for five minutes and measure again. Seek urgent care if it stays above 180 or you have chest pain, breathlessness or headache.",
			date)}
	case latest.value > target:
		return []Alert{newAlert(CategoryBloodPressure, SeverityInfo, "Blood pressure above target",
			fmt.Sprintf("Your systolic pressure is %s mmHg, above your target of %s.", num(latest.value), num(target)),
			"Keep a home blood pressure log and share it with your doctor.",
			date)}
	}

	return nil
}
