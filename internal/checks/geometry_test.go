package checks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereDistance(t *testing.T) {
	oneDegree := 2 * math.Pi * earthRadiusKm / 360.0

	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"same point", 10, 20, 10, 20, 0},
		{"one degree along the equator", 0, 0, 0, 1, oneDegree},
		{"one degree along a meridian", 0, 0, 1, 0, oneDegree},
		{"pole to pole", 90, 0, -90, 0, 180 * oneDegree},
		{"date line wrap", 0, 179.5, 0, -179.5, oneDegree},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sphereDistance(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			assert.InDelta(t, tc.want, got, 0.01)
		})
	}
}

func TestCourseBetweenPoints(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"due north", 0, 0, 1, 0, 360},
		{"due south", 1, 0, 0, 0, 180},
		{"due east on the equator", 0, 0, 0, 1, 90},
		{"due west on the equator", 0, 1, 0, 0, 270},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := courseBetweenPoints(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			assert.InDelta(t, tc.want, got, 0.01)
		})
	}
}

func TestLatLonFromCourseAndDistance(t *testing.T) {
	// travel a known distance and course, then verify the end point is
	// that far away on that bearing
	startLat, startLon := 10.0, 20.0
	for _, course := range []float64{0, 45, 90, 200, 315} {
		lat, lon := latLonFromCourseAndDistance(startLat, startLon, course, 500)
		assert.InDelta(t, 500, sphereDistance(startLat, startLon, lat, lon), 0.5)
	}
}

func TestIntermediatePoint(t *testing.T) {
	lat, lon := intermediatePoint(0, 0, 0, 10, 0.5)
	assert.InDelta(t, 0, lat, 1e-9)
	assert.InDelta(t, 5, lon, 1e-9)

	lat, lon = intermediatePoint(0, 0, 10, 0, 0.25)
	assert.InDelta(t, 2.5, lat, 1e-9)
	assert.InDelta(t, 0, lon, 1e-9)
}

func TestAngularDistanceSymmetry(t *testing.T) {
	forward := angularDistance(12, 34, -5, 160)
	backward := angularDistance(-5, 160, 12, 34)
	require.InDelta(t, forward, backward, 1e-12)
}
