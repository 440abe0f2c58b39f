package checks

import (
	"math"
	"testing"
	"time"

	"marineqc/internal/obs"
	"marineqc/internal/qc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func floats(name string, values ...float64) *obs.Series {
	return obs.NewFloatSeries(name, values)
}

func mustFlags(t *testing.T, fn qc.Func, args qc.Args) []qc.Flag {
	t.Helper()
	out, err := fn(args)
	require.NoError(t, err)
	flags, ok := out.([]qc.Flag)
	require.True(t, ok, "check returned %T, want []qc.Flag", out)
	return flags
}

func TestMissingValueCheck(t *testing.T) {
	flags := mustFlags(t, missingValueCheck, qc.Args{
		"value": floats("sst", 1.5, nan, 0),
	})
	assert.Equal(t, []qc.Flag{qc.Passed, qc.Failed, qc.Passed}, flags)
}

func TestMissingValueClimCheck(t *testing.T) {
	t.Run("column of normals", func(t *testing.T) {
		flags := mustFlags(t, missingValueClimCheck, qc.Args{
			"climatology": floats("sst_clim", 12.5, nan, -1.2),
		})
		assert.Equal(t, []qc.Flag{qc.Passed, qc.Failed, qc.Passed}, flags)
	})

	t.Run("scalar normal broadcasts", func(t *testing.T) {
		out, err := missingValueClimCheck(qc.Args{"climatology": 12.5})
		require.NoError(t, err)
		assert.Equal(t, qc.Passed, out)

		out, err = missingValueClimCheck(qc.Args{"climatology": nan})
		require.NoError(t, err)
		assert.Equal(t, qc.Failed, out)
	})
}

func TestPositionCheck(t *testing.T) {
	flags := mustFlags(t, positionCheck, qc.Args{
		"lat": floats("lat", 0, 91, -91, 45, 45, 45, nan),
		"lon": floats("lon", 0, 0, 0, 360, 360.1, -180.1, 0),
	})
	assert.Equal(t, []qc.Flag{
		qc.Passed, qc.Failed, qc.Failed, qc.Passed, qc.Failed, qc.Failed, qc.Untestable,
	}, flags)
}

func TestDateCheck(t *testing.T) {
	flags := mustFlags(t, dateCheck, qc.Args{
		"year":  floats("year", 2003, 1849, 2026, 2004, 2003, nan),
		"month": floats("month", 6, 6, 6, 2, 2, 6),
		"day":   floats("day", 15, 15, 15, 29, 29, 15),
	})
	assert.Equal(t, []qc.Flag{
		qc.Passed,     // ordinary date
		qc.Failed,     // before 1850
		qc.Failed,     // after 2025
		qc.Passed,     // leap day in a leap year
		qc.Failed,     // leap day in a non-leap year
		qc.Untestable, // missing year
	}, flags)
}

func TestDateCheckFromTimestamps(t *testing.T) {
	dates := obs.NewTimeSeries("date", []time.Time{
		time.Date(2003, 6, 15, 12, 0, 0, 0, time.UTC),
		{},
	})
	flags := mustFlags(t, dateCheck, qc.Args{"date": dates})
	assert.Equal(t, []qc.Flag{qc.Passed, qc.Untestable}, flags)
}

func TestTimeCheck(t *testing.T) {
	flags := mustFlags(t, timeCheck, qc.Args{
		"hour": floats("hour", 0, 23.99, 24, -0.5, nan),
	})
	assert.Equal(t, []qc.Flag{
		qc.Passed, qc.Passed, qc.Failed, qc.Failed, qc.Untestable,
	}, flags)
}

func TestDayCheck(t *testing.T) {
	midsummer := time.Date(2003, 6, 21, 12, 0, 0, 0, time.UTC)
	midnight := time.Date(2003, 6, 21, 0, 0, 0, 0, time.UTC)

	args := qc.Args{
		"lat":  floats("lat", 0, 0),
		"lon":  floats("lon", 0, 0),
		"date": obs.NewTimeSeries("date", []time.Time{midsummer, midnight}),
	}
	flags := mustFlags(t, dayCheck, args)
	assert.Equal(t, []qc.Flag{qc.Passed, qc.Failed}, flags)

	night := mustFlags(t, nightCheck, args)
	assert.Equal(t, []qc.Flag{qc.Failed, qc.Passed}, night)
}

func TestDayCheckElevationOffset(t *testing.T) {
	midnight := time.Date(2003, 6, 21, 0, 0, 0, 0, time.UTC)
	flags := mustFlags(t, dayCheck, qc.Args{
		"lat":  floats("lat", 0),
		"lon":  floats("lon", 0),
		"date": obs.NewTimeSeries("date", []time.Time{midnight}),
		// the sun was up twelve hours before the report
		"time_since_sun_above_horizon": 12.0,
	})
	assert.Equal(t, []qc.Flag{qc.Passed}, flags)
}

func TestDayCheckPropagatesPreconditions(t *testing.T) {
	flags := mustFlags(t, dayCheck, qc.Args{
		"lat":  floats("lat", 95, nan),
		"lon":  floats("lon", 0, 0),
		"date": obs.NewTimeSeries("date", []time.Time{
			time.Date(2003, 6, 21, 12, 0, 0, 0, time.UTC),
			time.Date(2003, 6, 21, 12, 0, 0, 0, time.UTC),
		}),
	})
	assert.Equal(t, []qc.Flag{qc.Failed, qc.Untestable}, flags)
}

func TestHardLimitCheck(t *testing.T) {
	t.Run("window", func(t *testing.T) {
		flags := mustFlags(t, hardLimitCheck, qc.Args{
			"value":  floats("at", -5, 0, 10, 10.01, nan),
			"limits": []float64{0, 10},
		})
		assert.Equal(t, []qc.Flag{
			qc.Failed, qc.Passed, qc.Passed, qc.Failed, qc.Untestable,
		}, flags)
	})

	t.Run("inverted window is untestable", func(t *testing.T) {
		flags := mustFlags(t, hardLimitCheck, qc.Args{
			"value":  floats("at", 1, 2),
			"limits": []float64{10, 0},
		})
		assert.Equal(t, []qc.Flag{qc.Untestable, qc.Untestable}, flags)
	})
}

func TestClimatologyCheck(t *testing.T) {
	t.Run("plain anomaly", func(t *testing.T) {
		flags := mustFlags(t, climatologyCheck, qc.Args{
			"value":           floats("sst", 10.5, 15, nan),
			"climatology":     10.0,
			"maximum_anomaly": 1.0,
		})
		assert.Equal(t, []qc.Flag{qc.Passed, qc.Failed, qc.Untestable}, flags)
	})

	t.Run("climatology column", func(t *testing.T) {
		flags := mustFlags(t, climatologyCheck, qc.Args{
			"value":           floats("sst", 10.5, 15),
			"climatology":     floats("climatology", 10, nan),
			"maximum_anomaly": 1.0,
		})
		assert.Equal(t, []qc.Flag{qc.Passed, qc.Untestable}, flags)
	})

	t.Run("standardised with clamped deviation", func(t *testing.T) {
		// sd 0.5 clamps up to 1.0, so an anomaly of 1.5 standardises to
		// 1.5 and stays under the limit of 2
		flags := mustFlags(t, climatologyCheck, qc.Args{
			"value":                     floats("sst", 11.5, 15),
			"climatology":               10.0,
			"standard_deviation":        0.5,
			"standard_deviation_limits": []float64{1, 4},
			"maximum_anomaly":           2.0,
		})
		assert.Equal(t, []qc.Flag{qc.Passed, qc.Failed}, flags)
	})

	t.Run("lowbar rescues small anomalies", func(t *testing.T) {
		flags := mustFlags(t, climatologyCheck, qc.Args{
			"value":              floats("sst", 11.5, 20),
			"climatology":        10.0,
			"standard_deviation": 0.1,
			"maximum_anomaly":    2.0,
			"lowbar":             5.0,
		})
		assert.Equal(t, []qc.Flag{qc.Passed, qc.Failed}, flags)
	})

	t.Run("no usable limit", func(t *testing.T) {
		flags := mustFlags(t, climatologyCheck, qc.Args{
			"value":           floats("sst", 10),
			"climatology":     10.0,
			"maximum_anomaly": -1.0,
		})
		assert.Equal(t, []qc.Flag{qc.Untestable}, flags)
	})
}

func TestSupersaturationCheck(t *testing.T) {
	flags := mustFlags(t, supersaturationCheck, qc.Args{
		"dpt": floats("dpt", 10, 15, nan),
		"at2": floats("at2", 12, 12, 12),
	})
	assert.Equal(t, []qc.Flag{qc.Passed, qc.Failed, qc.Untestable}, flags)
}

func TestSSTFreezeCheck(t *testing.T) {
	t.Run("hard cut", func(t *testing.T) {
		flags := mustFlags(t, sstFreezeCheck, qc.Args{
			"sst":            floats("sst", -1.8, -1.81, 5, nan),
			"freezing_point": -1.8,
		})
		assert.Equal(t, []qc.Flag{qc.Passed, qc.Failed, qc.Passed, qc.Untestable}, flags)
	})

	t.Run("uncertainty allowance", func(t *testing.T) {
		flags := mustFlags(t, sstFreezeCheck, qc.Args{
			"sst":                  floats("sst", -2.0, -2.9),
			"freezing_point":       -1.8,
			"freeze_check_n_sigma": 2.0,
			"sst_uncertainty":      0.5,
		})
		assert.Equal(t, []qc.Flag{qc.Passed, qc.Failed}, flags)
	})

	t.Run("missing freezing point", func(t *testing.T) {
		flags := mustFlags(t, sstFreezeCheck, qc.Args{
			"sst": floats("sst", 5),
		})
		assert.Equal(t, []qc.Flag{qc.Untestable}, flags)
	})
}

func TestWindConsistencyCheck(t *testing.T) {
	flags := mustFlags(t, windConsistencyCheck, qc.Args{
		"wind_speed":     floats("ws", 0, 0, 5, 5, nan),
		"wind_direction": floats("wd", 0, 90, 0, 90, 90),
	})
	assert.Equal(t, []qc.Flag{
		qc.Passed, qc.Failed, qc.Failed, qc.Passed, qc.Untestable,
	}, flags)
}
