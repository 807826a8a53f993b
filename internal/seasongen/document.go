package seasongen

import (
	"math"
	"time"
)

// Wire structs matching the on-disk session layout.

type scheduleEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Round     int       `json:"round"`
	Scheduled time.Time `json:"scheduled"`
}

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

func expNeg(mean float64) float64 {
	return math.Exp(-mean)
}
