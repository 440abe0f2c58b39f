// Package domain models marine meteorological observations.
//
// # Data Source
//
// Reports originate from ship and moored/drifting buoy observations in the
// ICOADS exchange format. The upstream collector service decodes the raw
// attachments and publishes each report as flat string-valued JSON to the
// Kafka source topic, keeping the ICOADS core element abbreviations as
// field names (YR, MO, DY, HR, LAT, LON, SST, AT, DPT, SLP, W, D, VS, DS).
//
// # Conventions
//
// Time:
//
//	YR/MO/DY name a UTC calendar date; HR is a decimal hour, so "13.5"
//	means 13:30. Components that do not form a real date leave the report
//	with a zero observation time, which the date and time checks flag.
//
// Positions:
//
//	Degrees, latitude in [-90, 90]. Longitude may follow either the
//	[-180, 180] or [0, 360] convention depending on the deck; both are
//	accepted and the position check allows [-180, 360].
//
// Units:
//
//	Temperatures arrive in degC, pressure in hPa, wind speed in m/s,
//	reported ship speed in knots, headings in degrees (DS in 45-degree
//	steps). The battery configuration declares these source units and the
//	checks convert to what they need.
//
// Missing values:
//
//	Blank or unparseable numeric elements become NaN, never zero: zero is
//	a legitimate observation for most elements. The missing-value and
//	untestable flag semantics depend on this.
//
// # ID Generation
//
// Report IDs are deterministic SHA-256 hashes of platform|date|hour|position.
// Reprocessing the same raw report produces the same ID, so downstream
// upserts are idempotent and replays are safe. See [generateID].
package domain
