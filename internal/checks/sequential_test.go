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

func hourlyDates(name string, start time.Time, n int) *obs.Series {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return obs.NewTimeSeries(name, out)
}

func repeatFloats(name string, v float64, n int) *obs.Series {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return obs.NewFloatSeries(name, out)
}

var voyageStart = time.Date(2003, 6, 1, 0, 0, 0, 0, time.UTC)

func TestModalSpeed(t *testing.T) {
	slow := []float64{5 * 1.852, 5.2 * 1.852, 4.8 * 1.852, 5.1 * 1.852}
	// slow voyages floor at 8.5 knots
	assert.InDelta(t, 8.5*1.852, modalSpeed(slow), 1e-9)

	fast := []float64{20 * 1.852, 20.4 * 1.852, 19.6 * 1.852, 20.1 * 1.852}
	// 20 knots lands in the 18-21 bin, centre 19.5
	assert.InDelta(t, 19.5*1.852, modalSpeed(fast), 1e-9)

	assert.True(t, math.IsNaN(modalSpeed([]float64{10})))
}

func TestSpeedLimits(t *testing.T) {
	amax, amaxx, amin := speedLimits(math.NaN())
	assert.InDelta(t, 15.0*1.852, amax, 1e-9)
	assert.InDelta(t, 20.0*1.852, amaxx, 1e-9)
	assert.InDelta(t, 0.0, amin, 1e-9)

	amax, amaxx, amin = speedLimits(30.0)
	assert.InDelta(t, 37.5, amax, 1e-9)
	assert.InDelta(t, 30.0*1.852, amaxx, 1e-9)
	assert.InDelta(t, 22.5, amin, 1e-9)
}

func TestDirectionContinuity(t *testing.T) {
	score, err := directionContinuity(0, 0, 0, 60)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = directionContinuity(180, 180, 10, 60)
	require.NoError(t, err)
	assert.Equal(t, 10.0, score)

	// missing headings score nothing
	score, err = directionContinuity(math.NaN(), 180, 10, 60)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	_, err = directionContinuity(30, 0, 10, 60)
	assert.Error(t, err)
}

func TestSpeedContinuity(t *testing.T) {
	assert.Equal(t, 0.0, speedContinuity(20, 20, 22, 10))
	assert.Equal(t, 10.0, speedContinuity(20, 20, 50, 10))
	// one report agreeing is enough
	assert.Equal(t, 0.0, speedContinuity(20, 48, 50, 10))
	assert.Equal(t, 0.0, speedContinuity(math.NaN(), 20, 50, 10))
}

func TestFewCheck(t *testing.T) {
	flags := mustFlags(t, fewCheck, qc.Args{"value": floats("sst", 1, 2)})
	assert.Equal(t, []qc.Flag{qc.Failed, qc.Failed}, flags)

	flags = mustFlags(t, fewCheck, qc.Args{"value": floats("sst", 1, 2, 3)})
	assert.Equal(t, []qc.Flag{qc.Passed, qc.Passed, qc.Passed}, flags)

	flags = mustFlags(t, fewCheck, qc.Args{
		"value":       floats("sst", 1, 2, 3),
		"min_reports": 5,
	})
	assert.Equal(t, []qc.Flag{qc.Failed, qc.Failed, qc.Failed}, flags)

	flags = mustFlags(t, fewCheck, qc.Args{"value": floats("sst")})
	assert.Empty(t, flags)
}

func TestRepeatedValueCheck(t *testing.T) {
	values := []float64{7, 7, 7, 7, 7, 1, 2, 3}
	flags := mustFlags(t, repeatedValueCheck, qc.Args{
		"value":     obs.NewFloatSeries("at", values),
		"min_count": 5,
		"threshold": 0.5,
	})
	assert.Equal(t, []qc.Flag{
		qc.Failed, qc.Failed, qc.Failed, qc.Failed, qc.Failed,
		qc.Passed, qc.Passed, qc.Passed,
	}, flags)

	t.Run("too few reports to judge", func(t *testing.T) {
		flags := mustFlags(t, repeatedValueCheck, qc.Args{
			"value":     floats("at", 7, 7, 7),
			"min_count": 5,
			"threshold": 0.5,
		})
		assert.Equal(t, []qc.Flag{qc.Passed, qc.Passed, qc.Passed}, flags)
	})

	t.Run("threshold out of range", func(t *testing.T) {
		_, err := repeatedValueCheck(qc.Args{
			"value":     floats("at", 7),
			"threshold": 1.5,
		})
		assert.Error(t, err)
	})
}

func TestRoundedValueCheck(t *testing.T) {
	values := []float64{7, 8, 9, 10, 11, 12, 1.5, 2.5}
	flags := mustFlags(t, roundedValueCheck, qc.Args{
		"value":     obs.NewFloatSeries("dpt", values),
		"min_count": 5,
		"threshold": 0.5,
	})
	assert.Equal(t, []qc.Flag{
		qc.Failed, qc.Failed, qc.Failed, qc.Failed, qc.Failed, qc.Failed,
		qc.Passed, qc.Passed,
	}, flags)

	t.Run("mostly unrounded voyage passes", func(t *testing.T) {
		values := []float64{7.2, 8.1, 9.7, 10.3, 11.9, 12}
		flags := mustFlags(t, roundedValueCheck, qc.Args{
			"value":     obs.NewFloatSeries("dpt", values),
			"min_count": 5,
			"threshold": 0.5,
		})
		for _, f := range flags {
			assert.Equal(t, qc.Passed, f)
		}
	})
}

func TestSaturatedRunsCheck(t *testing.T) {
	n := 10
	at := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}
	// reports 2 through 7 are saturated for five hours
	dpt := []float64{8, 9, 10, 10, 10, 10, 10, 10, 9, 8}

	flags := mustFlags(t, saturatedRunsCheck, qc.Args{
		"at":                 obs.NewFloatSeries("at", at),
		"dpt":                obs.NewFloatSeries("dpt", dpt),
		"lat":                repeatFloats("lat", 0, n),
		"lon":                repeatFloats("lon", 0, n),
		"date":               hourlyDates("date", voyageStart, n),
		"min_time_threshold": 2.0,
		"shortest_run":       4,
	})
	assert.Equal(t, []qc.Flag{
		qc.Passed, qc.Passed,
		qc.Failed, qc.Failed, qc.Failed, qc.Failed, qc.Failed, qc.Failed,
		qc.Passed, qc.Passed,
	}, flags)

	t.Run("short runs survive", func(t *testing.T) {
		dpt := []float64{8, 9, 10, 10, 10, 9, 8, 9, 9, 8}
		flags := mustFlags(t, saturatedRunsCheck, qc.Args{
			"at":                 obs.NewFloatSeries("at", at),
			"dpt":                obs.NewFloatSeries("dpt", dpt),
			"lat":                repeatFloats("lat", 0, n),
			"lon":                repeatFloats("lon", 0, n),
			"date":               hourlyDates("date", voyageStart, n),
			"min_time_threshold": 2.0,
			"shortest_run":       4,
		})
		for _, f := range flags {
			assert.Equal(t, qc.Passed, f)
		}
	})
}

func TestSpikeCheck(t *testing.T) {
	n := 9
	values := []float64{10, 10.1, 10, 9.9, 20, 10.1, 10, 10.1, 10}

	flags := mustFlags(t, spikeCheck, qc.Args{
		"value":              obs.NewFloatSeries("sst", values),
		"lat":                repeatFloats("lat", 0, n),
		"lon":                repeatFloats("lon", 0, n),
		"date":               hourlyDates("date", voyageStart, n),
		"max_gradient_space": 0.5,
		"max_gradient_time":  0.5,
		"delta_t":            2.0,
		"n_neighbours":       5,
	})
	want := make([]qc.Flag, n)
	for i := range want {
		want[i] = qc.Passed
	}
	want[4] = qc.Failed
	assert.Equal(t, want, flags)
}

func TestSpikeCheckSmoothSeriesPasses(t *testing.T) {
	n := 9
	values := make([]float64, n)
	for i := range values {
		values[i] = 10 + 0.1*float64(i)
	}
	flags := mustFlags(t, spikeCheck, qc.Args{
		"value":              obs.NewFloatSeries("sst", values),
		"lat":                repeatFloats("lat", 0, n),
		"lon":                repeatFloats("lon", 0, n),
		"date":               hourlyDates("date", voyageStart, n),
		"max_gradient_space": 0.5,
		"max_gradient_time":  0.5,
		"delta_t":            2.0,
	})
	for _, f := range flags {
		assert.Equal(t, qc.Passed, f)
	}
}

func TestIQUAMTrackCheck(t *testing.T) {
	n := 7
	lat := make([]float64, n)
	lon := make([]float64, n)
	for i := range lat {
		lat[i] = 0.01 * float64(i)
	}
	// report 3 jumps ten degrees east and back
	lon[3] = 10

	flags := mustFlags(t, iquamTrackCheck, qc.Args{
		"lat":         obs.NewFloatSeries("lat", lat),
		"lon":         obs.NewFloatSeries("lon", lon),
		"date":        hourlyDates("date", voyageStart, n),
		"speed_limit": 60.0,
		"delta_d":     1.11,
		"delta_t":     0.01,
	})
	want := make([]qc.Flag, n)
	for i := range want {
		want[i] = qc.Passed
	}
	want[3] = qc.Failed
	assert.Equal(t, want, flags)
}

func trackArgs(lat, lon []float64, n int) qc.Args {
	return qc.Args{
		"lat":                      obs.NewFloatSeries("lat", lat),
		"lon":                      obs.NewFloatSeries("lon", lon),
		"date":                     hourlyDates("date", voyageStart, n),
		"vsi":                      repeatFloats("vsi", 20.0, n),
		"dsi":                      repeatFloats("dsi", 360.0, n),
		"max_direction_change":     60.0,
		"max_speed_change":         10.0,
		"max_absolute_speed":       2000.0,
		"max_midpoint_discrepancy": 150.0,
	}
}

func TestTrackCheck(t *testing.T) {
	t.Run("steady northward voyage passes", func(t *testing.T) {
		n := 10
		lat := make([]float64, n)
		lon := make([]float64, n)
		for i := range lat {
			lat[i] = 0.18 * float64(i)
		}
		flags := mustFlags(t, trackCheck, trackArgs(lat, lon, n))
		for _, f := range flags {
			assert.Equal(t, qc.Passed, f)
		}
	})

	t.Run("displaced report fails", func(t *testing.T) {
		n := 10
		lat := make([]float64, n)
		lon := make([]float64, n)
		for i := range lat {
			lat[i] = 0.18 * float64(i)
		}
		lon[5] = 5.0

		flags := mustFlags(t, trackCheck, trackArgs(lat, lon, n))
		want := make([]qc.Flag, n)
		for i := range want {
			want[i] = qc.Passed
		}
		want[5] = qc.Failed
		assert.Equal(t, want, flags)
	})

	t.Run("fewer than three reports pass outright", func(t *testing.T) {
		flags := mustFlags(t, trackCheck, trackArgs([]float64{0, 50}, []float64{0, 50}, 2))
		assert.Equal(t, []qc.Flag{qc.Passed, qc.Passed}, flags)
	})

	t.Run("empty group", func(t *testing.T) {
		flags := mustFlags(t, trackCheck, trackArgs(nil, nil, 0))
		assert.Empty(t, flags)
	})
}

func TestChecksReorderByTime(t *testing.T) {
	// same voyage as the spike test, delivered in scrambled order
	values := []float64{10, 10.1, 10, 9.9, 20, 10.1, 10, 10.1, 10}
	n := len(values)
	order := []int{4, 0, 7, 2, 8, 1, 5, 3, 6}

	shuffledValues := make([]float64, n)
	shuffledDates := make([]time.Time, n)
	for i, p := range order {
		shuffledValues[i] = values[p]
		shuffledDates[i] = voyageStart.Add(time.Duration(p) * time.Hour)
	}

	flags := mustFlags(t, spikeCheck, qc.Args{
		"value":              obs.NewFloatSeries("sst", shuffledValues),
		"lat":                repeatFloats("lat", 0, n),
		"lon":                repeatFloats("lon", 0, n),
		"date":               obs.NewTimeSeries("date", shuffledDates),
		"max_gradient_space": 0.5,
		"max_gradient_time":  0.5,
		"delta_t":            2.0,
	})
	// the spike travelled to position 0 of the shuffled input
	for i, f := range flags {
		if i == 0 {
			assert.Equal(t, qc.Failed, f)
		} else {
			assert.Equal(t, qc.Passed, f)
		}
	}
}
