package checks

import "math"

// solarElevation returns the sun's elevation above the horizon in degrees
// at a UTC moment and position, using the NOAA general solar position
// formulation. Accurate to a fraction of a degree, which is plenty for a
// day/night classification.
func solarElevation(dayOfYear int, hour, minute, lat, lon float64) float64 {
	// fractional year in radians
	gamma := 2.0 * math.Pi / 365.0 * (float64(dayOfYear) - 1.0 + (hour-12.0)/24.0)

	// equation of time in minutes
	eqTime := 229.18 * (0.000075 +
		0.001868*math.Cos(gamma) -
		0.032077*math.Sin(gamma) -
		0.014615*math.Cos(2*gamma) -
		0.040849*math.Sin(2*gamma))

	// solar declination in radians
	decl := 0.006918 -
		0.399912*math.Cos(gamma) +
		0.070257*math.Sin(gamma) -
		0.006758*math.Cos(2*gamma) +
		0.000907*math.Sin(2*gamma) -
		0.002697*math.Cos(3*gamma) +
		0.00148*math.Sin(3*gamma)

	trueSolarMinutes := hour*60.0 + minute + eqTime + 4.0*lon
	hourAngle := (trueSolarMinutes/4.0 - 180.0) * radiansPerDegree

	latR := lat * radiansPerDegree
	cosZenith := math.Sin(latR)*math.Sin(decl) + math.Cos(latR)*math.Cos(decl)*math.Cos(hourAngle)
	cosZenith = math.Max(-1.0, math.Min(1.0, cosZenith))

	return 90.0 - math.Acos(cosZenith)/radiansPerDegree
}
