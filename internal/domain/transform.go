package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseRawReport deserializes a RawEvent's value into a Report. It expects
// the flat string-valued JSON produced by the collector service. A missing
// platform identifier is an error (the report cannot be grouped into a
// voyage or deduplicated); every other defect is preserved as NaN or zero
// time for the checks to judge.
func ParseRawReport(raw RawEvent) (Report, error) {
	var rec RawReport
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Report{}, fmt.Errorf("parse raw report: %w", err)
	}

	platform := strings.TrimSpace(rec.ID)
	if platform == "" {
		return Report{}, fmt.Errorf("parse raw report: missing platform ID")
	}

	lat := parseFloatOrNaN(rec.LAT)
	lon := parseFloatOrNaN(rec.LON)
	observedAt := observationTime(rec.YR, rec.MO, rec.DY, rec.HR)

	return Report{
		ID:         generateID(platform, rec.YR, rec.MO, rec.DY, rec.HR, lat, lon),
		Platform:   platform,
		Lat:        lat,
		Lon:        lon,
		ObservedAt: observedAt,

		SST:           parseFloatOrNaN(rec.SST),
		AT:            parseFloatOrNaN(rec.AT),
		DPT:           parseFloatOrNaN(rec.DPT),
		SLP:           parseFloatOrNaN(rec.SLP),
		WindSpeed:     parseFloatOrNaN(rec.W),
		WindDirection: parseFloatOrNaN(rec.D),
		ShipSpeed:     parseFloatOrNaN(rec.VS),
		ShipCourse:    parseFloatOrNaN(rec.DS),

		RawPayload: raw.Value,
	}, nil
}

// parseFloatOrNaN parses a string as float64, returning NaN for blank or
// unparseable values. NaN, not zero: zero is a legitimate observation.
func parseFloatOrNaN(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// observationTime combines the YR/MO/DY/HR elements into a UTC timestamp.
// The decimal hour keeps its minute fraction. Returns the zero time when
// any component is missing or does not form a calendar date; the date and
// time checks report those rows instead of the parser rejecting them.
func observationTime(yr, mo, dy, hr string) time.Time {
	year, errY := strconv.Atoi(strings.TrimSpace(yr))
	month, errM := strconv.Atoi(strings.TrimSpace(mo))
	day, errD := strconv.Atoi(strings.TrimSpace(dy))
	hour := parseFloatOrNaN(hr)
	if errY != nil || errM != nil || errD != nil || math.IsNaN(hour) {
		return time.Time{}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour < 0 || hour >= 24 {
		return time.Time{}
	}

	wholeHours := int(hour)
	minutes := int(math.Round((hour - float64(wholeHours)) * 60.0))

	t := time.Date(year, time.Month(month), day, wholeHours, minutes, 0, 0, time.UTC)
	if t.Day() != day {
		// the components named a day the month does not have
		return time.Time{}
	}
	return t
}

// generateID produces a deterministic ID from the report's key fields.
// Reprocessing the same raw report yields the same ID, so replays are
// idempotent downstream.
func generateID(platform, yr, mo, dy, hr string, lat, lon float64) string {
	input := fmt.Sprintf("%s|%s-%s-%s|%s|%.4f|%.4f", platform, yr, mo, dy, hr, lat, lon)
	hash := sha256.Sum256([]byte(input))
	return platform + "-" + hex.EncodeToString(hash[:8])
}
