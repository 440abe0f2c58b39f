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

func singleFieldClim(t *testing.T) *Climatology {
	t.Helper()
	clim, err := NewClimatology(
		[]float64{-45, 45},
		[]float64{-90, 0, 90},
		[][]float64{{1, 2, 3, 4, 5, 6}},
	)
	require.NoError(t, err)
	return clim
}

func TestNewClimatologyValidation(t *testing.T) {
	_, err := NewClimatology([]float64{0}, []float64{0}, make([][]float64, 12))
	assert.Error(t, err, "12 time steps is neither single, pentad nor daily")

	_, err = NewClimatology([]float64{0, 1}, []float64{0}, [][]float64{{1}})
	assert.Error(t, err, "field size does not match the grid")
}

func TestClimatologyValue(t *testing.T) {
	clim := singleFieldClim(t)

	cases := []struct {
		name       string
		lat, lon   float64
		month, day int
		want       float64
	}{
		{"exact cell", -45, -90, 6, 15, 1},
		{"nearest cell", 40, 100, 6, 15, 6},
		{"northern row", 45, -90, 6, 15, 4},
		{"wrapped longitude", 45, 270, 6, 15, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, clim.Value(tc.lat, tc.lon, tc.month, tc.day))
		})
	}

	t.Run("invalid lookups", func(t *testing.T) {
		assert.True(t, math.IsNaN(clim.Value(math.NaN(), 0, 6, 15)))
		assert.True(t, math.IsNaN(clim.Value(0, 0, 13, 1)))
		assert.True(t, math.IsNaN(clim.Value(0, 0, 2, 30)))
		assert.True(t, math.IsNaN(clim.Value(95, 0, 6, 15)))
	})
}

func TestClimatologyPentadIndex(t *testing.T) {
	fields := make([][]float64, 73)
	for i := range fields {
		fields[i] = []float64{float64(i)}
	}
	clim, err := NewClimatology([]float64{0}, []float64{0}, fields)
	require.NoError(t, err)

	assert.Equal(t, 0.0, clim.Value(0, 0, 1, 3))
	assert.Equal(t, 1.0, clim.Value(0, 0, 1, 6))
	assert.Equal(t, 72.0, clim.Value(0, 0, 12, 31))
}

func TestClimatologyDailyIndex(t *testing.T) {
	fields := make([][]float64, 365)
	for i := range fields {
		fields[i] = []float64{float64(i)}
	}
	clim, err := NewClimatology([]float64{0}, []float64{0}, fields)
	require.NoError(t, err)

	assert.Equal(t, 0.0, clim.Value(0, 0, 1, 1))
	assert.Equal(t, 364.0, clim.Value(0, 0, 12, 31))
	// leap day borrows 1 March
	assert.Equal(t, clim.Value(0, 0, 3, 1), clim.Value(0, 0, 2, 29))
}

func TestClimatologicalValue(t *testing.T) {
	clim := singleFieldClim(t)

	out, err := climatologicalValue(qc.Args{
		"climatology": clim,
		"lat":         floats("lat", -45, 45, nan),
		"lon":         floats("lon", -90, 90, 0),
		"date": obs.NewTimeSeries("date", []time.Time{
			time.Date(2003, 6, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2003, 6, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2003, 6, 15, 0, 0, 0, 0, time.UTC),
		}),
	})
	require.NoError(t, err)

	series, ok := out.(*obs.Series)
	require.True(t, ok)
	require.Equal(t, 3, series.Len())
	assert.Equal(t, 1.0, series.FloatAt(0))
	assert.Equal(t, 6.0, series.FloatAt(1))
	assert.True(t, series.IsMissing(2))
}

func TestClimatologicalValueRejectsBadArgument(t *testing.T) {
	_, err := climatologicalValue(qc.Args{
		"climatology": 42.0,
		"lat":         floats("lat", 0),
		"lon":         floats("lon", 0),
	})
	assert.Error(t, err)
}
