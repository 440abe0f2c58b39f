package domain

import (
	"context"
	"time"

	"marineqc/internal/qc"
)

// RawReport represents the flat JSON structure produced by the collector.
// Field names follow the ICOADS core element abbreviations; every value
// arrives as a string, with missing elements blank.
type RawReport struct {
	ID  string `json:"ID"`  // platform callsign or buoy number
	YR  string `json:"YR"`  // year
	MO  string `json:"MO"`  // month
	DY  string `json:"DY"`  // day
	HR  string `json:"HR"`  // decimal hour UTC
	LAT string `json:"LAT"` // latitude, degrees
	LON string `json:"LON"` // longitude, degrees
	SST string `json:"SST"` // sea-surface temperature, degC
	AT  string `json:"AT"`  // air temperature, degC
	DPT string `json:"DPT"` // dewpoint temperature, degC
	SLP string `json:"SLP"` // sea-level pressure, hPa
	W   string `json:"W"`   // wind speed, m/s
	D   string `json:"D"`   // wind direction, degrees
	VS  string `json:"VS"`  // reported ship speed, knots
	DS  string `json:"DS"`  // reported ship heading, 45-degree steps
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Report is the domain-rich marine observation after parsing. Missing
// numeric elements are NaN, a missing or unparseable observation time is
// the zero time; both are left for the quality checks to flag rather than
// rejected at parse time.
type Report struct {
	ID         string
	Platform   string
	Lat        float64
	Lon        float64
	ObservedAt time.Time

	SST           float64
	AT            float64
	DPT           float64
	SLP           float64
	WindSpeed     float64
	WindDirection float64
	ShipSpeed     float64
	ShipCourse    float64

	RawPayload []byte
}

// FlaggedReport is a report together with its battery outcome: one flag
// per configured check, and the time the battery ran.
type FlaggedReport struct {
	Report
	Flags  map[string]qc.Flag
	QCTime time.Time
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
