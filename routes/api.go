/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/flamego/flamego"

	"github.com/humaidq/glucolens/alerts"
	"github.com/humaidq/glucolens/analysis"
	"github.com/humaidq/glucolens/db"
	"github.com/humaidq/glucolens/labs"
	"github.com/humaidq/glucolens/medication"
)

const maxBodyBytes = 1 << 20

type analyzeRequest struct {
	Text      string           `json:"text"`
	Results   []labs.LabResult `json:"results"`
	TestDate  time.Time        `json:"test_date"`
	Profile   labs.Profile     `json:"profile"`
	ProfileID string           `json:"profile_id"`
	History   []labs.LabResult `json:"history"`
	Save      bool             `json:"save"`
}

type analyzeResponse struct {
	*analysis.Result
	Alerts []alerts.Alert `json:"alerts"`
	Saved  int            `json:"saved,omitempty"`
}

type alertsRequest struct {
	Results     []labs.LabResult        `json:"results"`
	Medications []labs.MedicationRecord `json:"medications"`
	Profile     labs.Profile            `json:"profile"`
	ProfileID   string                  `json:"profile_id"`
}

type alertsResponse struct {
	Alerts      []alerts.Alert          `json:"alerts"`
	Medications []medication.Resolution `json:"medications"`
}

type matchResponse struct {
	Query string            `json:"query"`
	Match *medication.Match `json:"match"`
}

func writeJSON(c flamego.Context, status int, v interface{}) {
	c.ResponseWriter().Header().Set("Content-Type", "application/json")
	c.ResponseWriter().WriteHeader(status)

	if err := json.NewEncoder(c.ResponseWriter()).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "path", c.Request().URL.Path, "error", err)
	}
}

func writeJSONError(c flamego.Context, status int, err error) {
	writeJSON(c, status, map[string]string{"error": err.Error()})
}

func decodeBody(c flamego.Context, v interface{}) error {
	body := http.MaxBytesReader(c.ResponseWriter(), c.Request().Request.Body, maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errInvalidBody
	}

	return nil
}

// loadPatient merges stored profile data into a request. It reports the
// HTTP status to use when loading fails.
func loadPatient(c flamego.Context, svc *Services, profileID string, before time.Time) (*db.PatientContext, int, error) {
	if svc.Store == nil {
		return nil, http.StatusServiceUnavailable, errStoreUnavailable
	}

	pc, err := svc.Store.LoadPatientContext(c.Request().Context(), profileID, before)
	if err != nil {
		if errors.Is(err, db.ErrProfileNotFound) {
			return nil, http.StatusNotFound, db.ErrProfileNotFound
		}

		logger.Error("Failed to load patient context", "profile_id", profileID, "error", err)

		return nil, http.StatusInternalServerError, errors.New("failed to load profile")
	}

	return pc, http.StatusOK, nil
}

func (svc *Services) observeAlerts(out []alerts.Alert) {
	for _, a := range out {
		svc.Metrics.ObserveAlert(a.Severity.String())
	}
}

// Analyze runs the report pipeline over extracted text or structured
// results and returns the analysis together with the alerts it raises.
func Analyze(c flamego.Context, svc *Services) {
	var req analyzeRequest
	if err := decodeBody(c, &req); err != nil {
		writeJSONError(c, http.StatusBadRequest, err)
		return
	}

	if strings.TrimSpace(req.Text) == "" && len(req.Results) == 0 {
		writeJSONError(c, http.StatusBadRequest, errEmptyInput)
		return
	}

	if req.TestDate.IsZero() {
		req.TestDate = svc.Now().UTC()
	}

	profile := req.Profile
	history := req.History

	var meds []labs.MedicationRecord

	if req.ProfileID != "" {
		pc, status, err := loadPatient(c, svc, req.ProfileID, req.TestDate)
		if err != nil {
			writeJSONError(c, status, err)
			return
		}

		profile = pc.Profile.Profile
		history = append(pc.History, history...)
		meds = pc.Medications
	}

	start := time.Now()

	var (
		res *analysis.Result
		err error
	)
	if strings.TrimSpace(req.Text) != "" {
		res, err = svc.Analyzer.Analyze(req.Text, req.TestDate, profile, history)
	} else {
		res = svc.Analyzer.AnalyzeResults(req.Results, profile, history)
	}

	if err != nil {
		svc.Metrics.ObserveAnalysis(start, 0, err)

		if errors.Is(err, analysis.ErrNoResults) {
			writeJSONError(c, http.StatusUnprocessableEntity, err)
			return
		}

		writeJSONError(c, http.StatusInternalServerError, err)
		return
	}

	svc.Metrics.ObserveAnalysis(start, len(res.Results), nil)

	resp := analyzeResponse{Result: res}
	resp.Alerts = svc.Alerts.GenerateAlerts(append(history, res.Results...), meds, profile)
	svc.observeAlerts(resp.Alerts)

	if resp.Alerts == nil {
		resp.Alerts = []alerts.Alert{}
	}

	if req.Save && req.ProfileID != "" {
		saved, err := svc.Store.SaveLabResults(c.Request().Context(), req.ProfileID, res.Results)
		if err != nil {
			logger.Error("Failed to save lab results", "profile_id", req.ProfileID, "error", err)
			writeJSONError(c, http.StatusInternalServerError, errors.New("failed to save results"))
			return
		}

		resp.Saved = saved
	}

	writeJSON(c, http.StatusOK, resp)
}

// GenerateAlerts evaluates the alert rules against a result series and
// medication list. Results are not deduplicated so repeated readings feed
// the pattern rules.
func GenerateAlerts(c flamego.Context, svc *Services) {
	var req alertsRequest
	if err := decodeBody(c, &req); err != nil {
		writeJSONError(c, http.StatusBadRequest, err)
		return
	}

	profile := req.Profile
	results := req.Results
	meds := req.Medications

	if req.ProfileID != "" {
		pc, status, err := loadPatient(c, svc, req.ProfileID, time.Time{})
		if err != nil {
			writeJSONError(c, status, err)
			return
		}

		profile = pc.Profile.Profile
		results = append(pc.History, results...)
		meds = append(pc.Medications, meds...)
	}

	resolutions := svc.Matcher.Resolve(meds)
	for _, r := range resolutions {
		svc.Metrics.ObserveLookup(r.Validated())
	}

	out := svc.Alerts.GenerateAlerts(results, meds, profile)
	svc.observeAlerts(out)

	if out == nil {
		out = []alerts.Alert{}
	}
	if resolutions == nil {
		resolutions = []medication.Resolution{}
	}

	writeJSON(c, http.StatusOK, alertsResponse{Alerts: out, Medications: resolutions})
}

// MatchMedication resolves the q query parameter against the catalog.
func MatchMedication(c flamego.Context, svc *Services) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		writeJSONError(c, http.StatusBadRequest, errMissingQuery)
		return
	}

	m := svc.Matcher.FindBestMatch(q)
	svc.Metrics.ObserveLookup(m != nil)

	writeJSON(c, http.StatusOK, matchResponse{Query: q, Match: m})
}
