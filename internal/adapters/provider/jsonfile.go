package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/okian/stint/internal/domain/model"
)

// On-disk layout constants.
const (
	scheduleFile = "schedule.json"
)

// scheduleEntry is the wire form of one schedule row.
type scheduleEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Round     int       `json:"round"`
	Scheduled time.Time `json:"scheduled"`
}

// sessionDocument is the wire form of one session's tables.
type sessionDocument struct {
	Messages []messageEntry `json:"messages"`
	Laps     []lapEntry     `json:"laps"`
	Results  []resultEntry  `json:"results"`
}

type messageEntry struct {
	Text      string    `json:"text"`
	CarNumber int       `json:"car_number,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type lapEntry struct {
	Code     string  `json:"code"`
	Compound string  `json:"compound"`
	TyreAge  int     `json:"tyre_age"`
	Seconds  float64 `json:"seconds"`
	Pit      bool    `json:"pit,omitempty"`
}

type resultEntry struct {
	Code      string  `json:"code"`
	CarNumber int     `json:"car_number"`
	Grid      int     `json:"grid,omitempty"`
	Finish    int     `json:"finish,omitempty"`
	Points    float64 `json:"points,omitempty"`
	Q1        float64 `json:"q1,omitempty"`
	Q2        float64 `json:"q2,omitempty"`
	Q3        float64 `json:"q3,omitempty"`
}

// FileSource reads event tables from a directory of JSON documents laid
// out as <dataDir>/<season>/schedule.json and <round>_<session>.json.
type FileSource struct {
	dataDir string
}

// NewFileSource creates a source rooted at dataDir.
func NewFileSource(dataDir string) *FileSource {
	return &FileSource{dataDir: dataDir}
}

// Events implements Source.
func (f *FileSource) Events(_ context.Context, season int) ([]model.EventRef, error) {
	path := filepath.Join(f.dataDir, strconv.Itoa(season), scheduleFile)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSchedule, err)
	}

	var entries []scheduleEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSchedule, err)
	}

	refs := make([]model.EventRef, len(entries))
	for i, e := range entries {
		refs[i] = model.EventRef{
			ID:        e.ID,
			Name:      e.Name,
			Round:     e.Round,
			Scheduled: e.Scheduled,
		}
	}
	return refs, nil
}

// Load implements Source.
func (f *FileSource) Load(_ context.Context, season int, ref model.EventRef, session model.Session) (model.SessionData, error) {
	name := fmt.Sprintf("%02d_%s.json", ref.Round, session)
	path := filepath.Join(f.dataDir, strconv.Itoa(season), name)

	raw, err := os.ReadFile(path)
	if err != nil {
		return model.SessionData{}, fmt.Errorf("%w: %s %s: %v", ErrSessionData, ref.ID, session, err)
	}

	var doc sessionDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.SessionData{}, fmt.Errorf("%w: %s %s: %v", ErrSessionData, ref.ID, session, err)
	}

	data := model.SessionData{
		Messages: make([]model.Message, len(doc.Messages)),
		Laps:     make([]model.Lap, len(doc.Laps)),
		Results:  make([]model.Result, len(doc.Results)),
	}
	for i, m := range doc.Messages {
		data.Messages[i] = model.Message{Text: m.Text, CarNumber: m.CarNumber, Timestamp: m.Timestamp}
	}
	for i, l := range doc.Laps {
		data.Laps[i] = model.Lap{Code: l.Code, Compound: l.Compound, TyreAge: l.TyreAge, Seconds: l.Seconds, Pit: l.Pit}
	}
	for i, r := range doc.Results {
		data.Results[i] = model.Result{
			Code: r.Code, CarNumber: r.CarNumber, Grid: r.Grid, Finish: r.Finish,
			Points: r.Points, Q1: r.Q1, Q2: r.Q2, Q3: r.Q3,
		}
	}
	return data, nil
}
