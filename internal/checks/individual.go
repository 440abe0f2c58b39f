package checks

import (
	"math"

	"marineqc/internal/obs"
	"marineqc/internal/qc"
)

// Individual checks: each report is flagged on its own values.

func missingValueCheck(args qc.Args) (any, error) {
	value, _ := args.Series("value")
	flags := make([]qc.Flag, value.Len())
	for i := range flags {
		if value.IsMissing(i) {
			flags[i] = qc.Failed
		} else {
			flags[i] = qc.Passed
		}
	}
	return flags, nil
}

// missingValueClimCheck is missingValueCheck over the climatological
// normals bound to the reports: a report whose normal is absent cannot be
// compared against climatology downstream.
func missingValueClimCheck(args qc.Args) (any, error) {
	if clim, ok := args.Series("climatology"); ok {
		flags := make([]qc.Flag, clim.Len())
		for i := range flags {
			if clim.IsMissing(i) {
				flags[i] = qc.Failed
			} else {
				flags[i] = qc.Passed
			}
		}
		return flags, nil
	}
	if v, ok := args.Float("climatology"); ok && !math.IsNaN(v) {
		return qc.Passed, nil
	}
	return qc.Failed, nil
}

// positionCheck verifies latitude is within [-90, 90] and longitude within
// [-180, 360], the ICOADS position conventions.
func positionCheck(args qc.Args) (any, error) {
	lat, _ := args.Series("lat")
	lon, _ := args.Series("lon")
	flags := make([]qc.Flag, lat.Len())
	for i := range flags {
		if lat.IsMissing(i) || lon.IsMissing(i) {
			flags[i] = qc.Untestable
			continue
		}
		la, lo := lat.FloatAt(i), lon.FloatAt(i)
		if la < -90 || la > 90 || lo < -180 || lo > 360 {
			flags[i] = qc.Failed
		} else {
			flags[i] = qc.Passed
		}
	}
	return flags, nil
}

// dateComponents resolves per-row year, month, day and decimal hour from
// either a bound timestamp column or separate component columns. A NaN
// component marks the row as unresolvable.
type dateComponents struct {
	year, month, day, hour []float64
}

func resolveDateComponents(args qc.Args, n int) dateComponents {
	c := dateComponents{
		year:  make([]float64, n),
		month: make([]float64, n),
		day:   make([]float64, n),
		hour:  make([]float64, n),
	}
	date, hasDate := args.Series("date")
	if hasDate && date.Kind() == obs.Time {
		for i := 0; i < n; i++ {
			if date.IsMissing(i) {
				c.year[i], c.month[i], c.day[i], c.hour[i] = math.NaN(), math.NaN(), math.NaN(), math.NaN()
				continue
			}
			t := date.TimeAt(i)
			c.year[i] = float64(t.Year())
			c.month[i] = float64(t.Month())
			c.day[i] = float64(t.Day())
			c.hour[i] = decimalHour(t)
		}
		return c
	}
	fill := func(dst []float64, name string) {
		s, ok := args.Series(name)
		if !ok {
			for i := range dst {
				dst[i] = math.NaN()
			}
			return
		}
		copy(dst, s.Floats())
	}
	fill(c.year, "year")
	fill(c.month, "month")
	fill(c.day, "day")
	fill(c.hour, "hour")
	return c
}

func rowLength(args qc.Args, names ...string) int {
	for _, name := range names {
		if s, ok := args.Series(name); ok {
			return s.Len()
		}
	}
	return 0
}

// dateCheck verifies the calendar date: year within [1850, 2025], month
// within [1, 12], day valid for the month.
func dateCheck(args qc.Args) (any, error) {
	n := rowLength(args, "date", "year")
	c := resolveDateComponents(args, n)
	flags := make([]qc.Flag, n)
	for i := range flags {
		if math.IsNaN(c.year[i]) || math.IsNaN(c.month[i]) || math.IsNaN(c.day[i]) {
			flags[i] = qc.Untestable
			continue
		}
		y, m, d := int(c.year[i]), int(c.month[i]), int(c.day[i])
		if y > 2025 || y < 1850 || m < 1 || m > 12 || d < 1 || d > monthLengths(y)[m-1] {
			flags[i] = qc.Failed
		} else {
			flags[i] = qc.Passed
		}
	}
	return flags, nil
}

// timeCheck verifies the hour of observation lies in [0, 24).
func timeCheck(args qc.Args) (any, error) {
	n := rowLength(args, "date", "hour")
	c := resolveDateComponents(args, n)
	flags := make([]qc.Flag, n)
	for i := range flags {
		switch {
		case math.IsNaN(c.hour[i]):
			flags[i] = qc.Untestable
		case c.hour[i] >= 24 || c.hour[i] < 0:
			flags[i] = qc.Failed
		default:
			flags[i] = qc.Passed
		}
	}
	return flags, nil
}

// dayCheck classifies each report as day or night from the solar elevation
// at its position, offset back by time_since_sun_above_horizon hours.
// Passed means day. Used to split marine air temperatures into day and
// night series, since solar heating biases daytime readings.
func dayCheck(args qc.Args) (any, error) {
	lat, _ := args.Series("lat")
	lon, _ := args.Series("lon")
	n := lat.Len()
	c := resolveDateComponents(args, n)
	offset := args.FloatOr("time_since_sun_above_horizon", 0)

	position, err := positionCheck(args)
	if err != nil {
		return nil, err
	}
	date, err := dateCheck(args)
	if err != nil {
		return nil, err
	}
	clock, err := timeCheck(args)
	if err != nil {
		return nil, err
	}
	pFlags := position.([]qc.Flag)
	dFlags := date.([]qc.Flag)
	tFlags := clock.([]qc.Flag)

	flags := make([]qc.Flag, n)
	for i := range flags {
		if pFlags[i] == qc.Failed || dFlags[i] == qc.Failed || tFlags[i] == qc.Failed {
			flags[i] = qc.Failed
			continue
		}
		if pFlags[i] == qc.Untestable || dFlags[i] == qc.Untestable || tFlags[i] == qc.Untestable {
			flags[i] = qc.Untestable
			continue
		}

		year := int(c.year[i])
		doy := dayInYear(year, int(c.month[i]), int(c.day[i]))
		hour := math.Floor(c.hour[i])
		minute := (c.hour[i] - hour) * 60.0

		// step back and test whether the sun was up then
		hour -= offset
		if hour < 0 {
			hour += 24.0
			doy--
			if doy <= 0 {
				year--
				doy = dayInYear(year, 12, 31)
			}
		}

		la, lo := lat.FloatAt(i), lon.FloatAt(i)
		if la == 0 {
			la = 0.0001
		}
		if lo == 0 {
			lo = 0.0001
		}

		if solarElevation(doy, hour, minute, la, lo) > 0 {
			flags[i] = qc.Passed
		} else {
			flags[i] = qc.Failed
		}
	}
	return flags, nil
}

// nightCheck is the complement of dayCheck: passed means night.
func nightCheck(args qc.Args) (any, error) {
	out, err := dayCheck(args)
	if err != nil {
		return nil, err
	}
	flags := out.([]qc.Flag)
	for i, f := range flags {
		switch f {
		case qc.Passed:
			flags[i] = qc.Failed
		case qc.Failed:
			flags[i] = qc.Passed
		}
	}
	return flags, nil
}

// hardLimitCheck flags values outside an inclusive [lower, upper] window.
// An inverted window makes every row untestable.
func hardLimitCheck(args qc.Args) (any, error) {
	value, _ := args.Series("value")
	lo, hi, _ := args.FloatPair("limits")
	flags := make([]qc.Flag, value.Len())
	for i := range flags {
		switch {
		case hi <= lo, value.IsMissing(i):
			flags[i] = qc.Untestable
		case lo <= value.FloatAt(i) && value.FloatAt(i) <= hi:
			flags[i] = qc.Passed
		default:
			flags[i] = qc.Failed
		}
	}
	return flags, nil
}

// scalarOrSeries reads a parameter that may be bound to a column or given
// as one literal for the whole group.
func scalarOrSeries(args qc.Args, name string, i int) (float64, bool) {
	if s, ok := args.Series(name); ok {
		return s.FloatAt(i), true
	}
	return args.Float(name)
}

// climatologyCheck compares each value with its climatological normal. If
// a standard deviation is supplied the anomaly is standardised first,
// optionally clamping the standard deviation into limits; with a lowbar
// the raw anomaly must also exceed it to fail.
func climatologyCheck(args qc.Args) (any, error) {
	value, _ := args.Series("value")
	maxAnomaly, hasMax := args.Float("maximum_anomaly")
	n := value.Len()

	flags := make([]qc.Flag, n)
	untestableAll := func() []qc.Flag {
		for i := range flags {
			flags[i] = qc.Untestable
		}
		return flags
	}

	if !hasMax || maxAnomaly <= 0 || math.IsNaN(maxAnomaly) {
		return untestableAll(), nil
	}
	sdLo, sdHi := 0.0, math.Inf(1)
	if lo, hi, ok := args.FloatPair("standard_deviation_limits"); ok {
		if hi <= lo {
			return untestableAll(), nil
		}
		sdLo, sdHi = lo, hi
	}
	lowbar, hasLowbar := args.Float("lowbar")

	for i := range flags {
		clim, hasClim := scalarOrSeries(args, "climatology", i)
		sd := 1.0
		if v, ok := scalarOrSeries(args, "standard_deviation", i); ok {
			sd = v
		}
		if value.IsMissing(i) || !hasClim || math.IsNaN(clim) || math.IsNaN(sd) {
			flags[i] = qc.Untestable
			continue
		}
		sd = math.Min(math.Max(sd, sdLo), sdHi)
		anomaly := math.Abs(value.FloatAt(i) - clim)
		failed := anomaly/sd > maxAnomaly
		if hasLowbar {
			failed = failed && anomaly > lowbar
		}
		if failed {
			flags[i] = qc.Failed
		} else {
			flags[i] = qc.Passed
		}
	}
	return flags, nil
}

// supersaturationCheck fails reports whose dewpoint exceeds the air
// temperature.
func supersaturationCheck(args qc.Args) (any, error) {
	dpt, _ := args.Series("dpt")
	at, _ := args.Series("at2")
	flags := make([]qc.Flag, dpt.Len())
	for i := range flags {
		switch {
		case dpt.IsMissing(i) || at.IsMissing(i):
			flags[i] = qc.Untestable
		case dpt.FloatAt(i) > at.FloatAt(i):
			flags[i] = qc.Failed
		default:
			flags[i] = qc.Passed
		}
	}
	return flags, nil
}

// sstFreezeCheck fails sea-surface temperatures below the freezing point
// by more than n sigma of the measurement uncertainty. A hard cut exactly
// at the freezing point would bias averages of near-freezing water high,
// so the uncertainty allowance is configurable.
func sstFreezeCheck(args qc.Args) (any, error) {
	sst, _ := args.Series("sst")
	freezingPoint, hasFP := args.Float("freezing_point")
	nSigma := args.FloatOr("freeze_check_n_sigma", 0)
	uncertainty := args.FloatOr("sst_uncertainty", 0)

	flags := make([]qc.Flag, sst.Len())
	if !hasFP || math.IsNaN(freezingPoint) || math.IsNaN(nSigma) || math.IsNaN(uncertainty) {
		for i := range flags {
			flags[i] = qc.Untestable
		}
		return flags, nil
	}
	for i := range flags {
		switch {
		case sst.IsMissing(i):
			flags[i] = qc.Untestable
		case sst.FloatAt(i) < freezingPoint-nSigma*uncertainty:
			flags[i] = qc.Failed
		default:
			flags[i] = qc.Passed
		}
	}
	return flags, nil
}

// windConsistencyCheck fails reports where one of speed and direction is
// zero while the other is not. Calm reports carry both as zero by
// convention.
func windConsistencyCheck(args qc.Args) (any, error) {
	speed, _ := args.Series("wind_speed")
	direction, _ := args.Series("wind_direction")
	flags := make([]qc.Flag, speed.Len())
	for i := range flags {
		if speed.IsMissing(i) || direction.IsMissing(i) {
			flags[i] = qc.Untestable
			continue
		}
		ws, wd := speed.FloatAt(i), direction.FloatAt(i)
		if (ws == 0 && wd != 0) || (ws != 0 && wd == 0) {
			flags[i] = qc.Failed
		} else {
			flags[i] = qc.Passed
		}
	}
	return flags, nil
}
