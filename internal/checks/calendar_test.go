package checks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthLengths(t *testing.T) {
	assert.Equal(t, 29, monthLengths(2004)[1])
	assert.Equal(t, 28, monthLengths(2003)[1])
	assert.Equal(t, 28, monthLengths(1900)[1])
	assert.Equal(t, 29, monthLengths(2000)[1])
}

func TestDayInYear(t *testing.T) {
	assert.Equal(t, 1, dayInYear(2003, 1, 1))
	assert.Equal(t, 32, dayInYear(2003, 2, 1))
	assert.Equal(t, 365, dayInYear(2003, 12, 31))
	assert.Equal(t, 366, dayInYear(2004, 12, 31))
}

func TestClimDayInYear(t *testing.T) {
	// 29 February shares 1 March's slot on the 365-day climatological year
	assert.Equal(t, climDayInYear(3, 1), climDayInYear(2, 29))
	assert.Equal(t, 365, climDayInYear(12, 31))
}

func TestWhichPentad(t *testing.T) {
	assert.Equal(t, 1, whichPentad(1, 1))
	assert.Equal(t, 1, whichPentad(1, 5))
	assert.Equal(t, 2, whichPentad(1, 6))
	assert.Equal(t, 73, whichPentad(12, 31))
}

func TestHoursBetween(t *testing.T) {
	base := time.Date(2003, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.InDelta(t, 24.0, hoursBetween(base, base.AddDate(0, 0, 1)), 1e-9)
	assert.InDelta(t, -24.0, hoursBetween(base.AddDate(0, 0, 1), base), 1e-9)
	assert.InDelta(t, 0.5, hoursBetween(base, base.Add(30*time.Minute)), 1e-9)

	// across a year boundary
	newYear := time.Date(2004, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.InDelta(t, 1.0, hoursBetween(time.Date(2003, 12, 31, 23, 0, 0, 0, time.UTC), newYear), 1e-9)
}

func TestDecimalHour(t *testing.T) {
	assert.InDelta(t, 12.75, decimalHour(time.Date(2003, 1, 1, 12, 45, 0, 0, time.UTC)), 1e-9)
	assert.InDelta(t, 0.0, decimalHour(time.Date(2003, 1, 1, 0, 0, 0, 0, time.UTC)), 1e-9)
}

func TestSolarElevation(t *testing.T) {
	equinox := dayInYear(2003, 3, 21)

	// noon on the equator near the equinox: sun close to the zenith
	assert.Greater(t, solarElevation(equinox, 12, 0, 0.0001, 0.0001), 85.0)
	// local midnight: well below the horizon
	assert.Less(t, solarElevation(equinox, 0, 0, 0.0001, 0.0001), -80.0)
	// polar night in the northern winter
	assert.Less(t, solarElevation(dayInYear(2003, 12, 21), 12, 0, 80, 0.0001), 0.0)
	// midnight sun in the northern summer
	assert.Greater(t, solarElevation(dayInYear(2003, 6, 21), 0, 0, 80, 0.0001), 0.0)
}
