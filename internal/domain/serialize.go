package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"marineqc/internal/qc"
)

// NewFlaggedReport attaches a battery outcome to a report, stamping the QC
// time from the package clock.
func NewFlaggedReport(report Report, flags map[string]qc.Flag) FlaggedReport {
	return FlaggedReport{
		Report: report,
		Flags:  flags,
		QCTime: clock.Now().UTC(),
	}
}

// outputReport is the JSON shape written to the sink topic. Numeric
// elements are pointers so that missing observations serialize as absent
// fields rather than an unencodable NaN.
type outputReport struct {
	ID         string    `json:"id"`
	Platform   string    `json:"platform"`
	Lat        *float64  `json:"lat,omitempty"`
	Lon        *float64  `json:"lon,omitempty"`
	ObservedAt time.Time `json:"observed_at,omitempty"`

	SST           *float64 `json:"sst,omitempty"`
	AT            *float64 `json:"at,omitempty"`
	DPT           *float64 `json:"dpt,omitempty"`
	SLP           *float64 `json:"slp,omitempty"`
	WindSpeed     *float64 `json:"wind_speed,omitempty"`
	WindDirection *float64 `json:"wind_direction,omitempty"`
	ShipSpeed     *float64 `json:"ship_speed,omitempty"`
	ShipCourse    *float64 `json:"ship_course,omitempty"`

	Flags  map[string]qc.Flag `json:"qc_flags"`
	QCTime time.Time          `json:"qc_time"`
}

func present(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// ToOutputEvent serializes a flagged report for the sink topic. The
// message key is the deterministic report ID so a compacted topic keeps
// one flagged copy per report.
func (f FlaggedReport) ToOutputEvent() (OutputEvent, error) {
	out := outputReport{
		ID:         f.ID,
		Platform:   f.Platform,
		Lat:        present(f.Lat),
		Lon:        present(f.Lon),
		ObservedAt: f.ObservedAt,

		SST:           present(f.SST),
		AT:            present(f.AT),
		DPT:           present(f.DPT),
		SLP:           present(f.SLP),
		WindSpeed:     present(f.WindSpeed),
		WindDirection: present(f.WindDirection),
		ShipSpeed:     present(f.ShipSpeed),
		ShipCourse:    present(f.ShipCourse),

		Flags:  f.Flags,
		QCTime: f.QCTime,
	}
	data, err := json.Marshal(out)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize flagged report: %w", err)
	}
	return OutputEvent{
		Key:   []byte(f.ID),
		Value: data,
		Headers: map[string]string{
			"platform": f.Platform,
			"qc_time":  f.QCTime.Format(time.RFC3339),
		},
	}, nil
}
