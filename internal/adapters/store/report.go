package store

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/okian/stint/internal/domain/model"
)

const reportFileMode = 0o644

// reportDocument is the on-disk report layout: run counters at the top,
// competitor rows grouped by assigned category below.
type reportDocument struct {
	Season            int                    `json:"season"`
	RunID             string                 `json:"run_id"`
	Categories        int                    `json:"categories"`
	Competitors       int                    `json:"competitors"`
	SeedCount         int                    `json:"seed_count"`
	PredictedCount    int                    `json:"predicted_count"`
	EventsProcessed   int                    `json:"events_processed"`
	EventsSkipped     int                    `json:"events_skipped"`
	TrainingAccuracy  float64                `json:"training_accuracy"`
	FeatureImportance map[string]float64     `json:"feature_importance"`
	Results           map[string][]reportRow `json:"results"`
}

type reportRow struct {
	Code       string             `json:"code"`
	Confidence float64            `json:"confidence"`
	IsSeed     bool               `json:"is_seed"`
	Events     int                `json:"events"`
	Features   map[string]float64 `json:"features"`
}

// ReportWriter serializes a finished run to a JSON report file.
type ReportWriter struct {
	precision int
}

// NewReportWriter creates a writer that rounds every float to the given
// number of decimal places.
func NewReportWriter(precision int) *ReportWriter {
	return &ReportWriter{precision: precision}
}

// Write renders the report and writes it to path, creating parent
// directories as needed.
func (w *ReportWriter) Write(path string, summary model.Summary, results []model.LabeledResult) error {
	doc := reportDocument{
		Season:            summary.Season,
		RunID:             summary.RunID,
		Categories:        categoryCount(results),
		Competitors:       summary.Competitors,
		SeedCount:         summary.SeedCount,
		PredictedCount:    summary.PredictedCount,
		EventsProcessed:   summary.EventsProcessed,
		EventsSkipped:     summary.EventsSkipped,
		TrainingAccuracy:  w.round(summary.TrainingAccuracy),
		FeatureImportance: make(map[string]float64, len(summary.FeatureImportance)),
		Results:           make(map[string][]reportRow),
	}
	for _, fw := range summary.FeatureImportance {
		doc.FeatureImportance[fw.Feature] = w.round(fw.Weight)
	}

	grouped := make(map[string][]model.LabeledResult)
	for _, r := range results {
		grouped[r.Category] = append(grouped[r.Category], r)
	}
	for category, rows := range grouped {
		// Highest risk first within each category.
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Profile.RiskScore != rows[j].Profile.RiskScore {
				return rows[i].Profile.RiskScore > rows[j].Profile.RiskScore
			}
			return rows[i].Code < rows[j].Code
		})
		out := make([]reportRow, len(rows))
		for i, r := range rows {
			out[i] = reportRow{
				Code:       r.Code,
				Confidence: w.round(r.Confidence),
				IsSeed:     r.Seed,
				Events:     r.Profile.Events,
				Features:   w.featureMap(r.Profile),
			}
		}
		doc.Results[category] = out
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, raw, reportFileMode)
}

func (w *ReportWriter) featureMap(p model.Profile) map[string]float64 {
	return map[string]float64{
		"risk_score":       w.round(p.RiskScore),
		"points_delta":     w.round(p.PointsDelta),
		"qualifying_delta": w.round(p.QualifyingDelta),
		"race_pace_delta":  w.round(p.RacePaceDelta),
		"position_delta":   w.round(p.PositionDelta),
		"consistency":      w.round(p.Consistency),
		"position_change":  w.round(p.PositionChange),
		"tyre_wear_slope":  w.round(p.TyreWearSlope),
	}
}

func (w *ReportWriter) round(v float64) float64 {
	factor := math.Pow(10, float64(w.precision))
	return math.Round(v*factor) / factor
}

func categoryCount(results []model.LabeledResult) int {
	seen := make(map[string]struct{})
	for _, r := range results {
		seen[r.Category] = struct{}{}
	}
	return len(seen)
}
