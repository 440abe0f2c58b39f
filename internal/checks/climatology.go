package checks

import (
	"fmt"
	"math"

	"marineqc/internal/obs"
	"marineqc/internal/qc"
)

// Climatology is a gridded field of climatological normals on a regular
// lat/lon grid with 1 (single field), 73 (pentad) or 365 (daily) time
// steps. Lookups use the exact time index and the nearest grid cell.
type Climatology struct {
	lats, lons []float64
	fields     [][]float64
}

// NewClimatology builds a climatology from grid axes and per-time-step
// fields, each stored latitude-major.
func NewClimatology(lats, lons []float64, fields [][]float64) (*Climatology, error) {
	switch len(fields) {
	case 1, 73, 365:
	default:
		return nil, fmt.Errorf("checks: %d time steps; want 1, 73 or 365", len(fields))
	}
	cells := len(lats) * len(lons)
	for t, f := range fields {
		if len(f) != cells {
			return nil, fmt.Errorf("checks: field %d has %d cells; want %d", t, len(f), cells)
		}
	}
	return &Climatology{
		lats:   append([]float64(nil), lats...),
		lons:   append([]float64(nil), lons...),
		fields: fields,
	}, nil
}

// climDayInYear is the 365-day climatological day number; 29 February
// borrows 1 March's slot.
func climDayInYear(month, day int) int {
	if month == 2 && day == 29 {
		return climDayInYear(3, 1)
	}
	lengths := monthLengths(2003)
	result := day
	for m := 0; m < month-1; m++ {
		result += lengths[m]
	}
	return result
}

// whichPentad returns the pentad containing the given day, from 1
// (1-5 Jan) to 73 (27-31 Dec).
func whichPentad(month, day int) int {
	return (climDayInYear(month, day)-1)/5 + 1
}

func (c *Climatology) timeIndex(month, day int) int {
	switch len(c.fields) {
	case 1:
		return 0
	case 73:
		return whichPentad(month, day) - 1
	default:
		return climDayInYear(month, day) - 1
	}
}

func nearestIndex(axis []float64, v float64) int {
	best := 0
	for i, a := range axis {
		if math.Abs(a-v) < math.Abs(axis[best]-v) {
			best = i
		}
	}
	return best
}

// Value returns the climatological normal at a position and date, or NaN
// when the position or date is invalid.
func (c *Climatology) Value(lat, lon float64, month, day int) float64 {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return math.NaN()
	}
	if month < 1 || month > 12 || day < 1 || day > monthLengths(2004)[month-1] {
		return math.NaN()
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 360 {
		return math.NaN()
	}
	if lon > 180 {
		lon -= 360
	}
	field := c.fields[c.timeIndex(month, day)]
	i := nearestIndex(c.lats, lat)
	j := nearestIndex(c.lons, lon)
	return field[i*len(c.lons)+j]
}

// climatologicalValue is a preprocessing function: it looks up the
// climatological normal for every report's position and date and returns
// the result as a column for the battery's checks to consume.
func climatologicalValue(args qc.Args) (any, error) {
	clim, ok := args["climatology"].(*Climatology)
	if !ok {
		return nil, fmt.Errorf("checks: climatology argument is %T, want *Climatology", args["climatology"])
	}
	lat, _ := args.Series("lat")
	lon, _ := args.Series("lon")
	n := lat.Len()
	c := resolveDateComponents(args, n)

	values := make([]float64, n)
	for i := 0; i < n; i++ {
		if lat.IsMissing(i) || lon.IsMissing(i) || math.IsNaN(c.month[i]) || math.IsNaN(c.day[i]) {
			values[i] = math.NaN()
			continue
		}
		values[i] = clim.Value(lat.FloatAt(i), lon.FloatAt(i), int(c.month[i]), int(c.day[i]))
	}
	return obs.NewFloatSeries("climatology", values), nil
}
