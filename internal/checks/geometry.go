package checks

import "math"

// Great-circle calculations on a spherical earth, following the aviation
// formulary (https://edwilliams.org/avform147.htm).

const (
	earthRadiusKm    = 6371.0088
	radiansPerDegree = math.Pi / 180.0
)

// sphereDistance returns the great-circle distance in kilometres between
// two points given in degrees.
func sphereDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return angularDistance(lat1, lon1, lat2, lon2) * earthRadiusKm
}

// angularDistance returns the great-circle angle in radians between two
// points given in degrees.
func angularDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1 *= radiansPerDegree
	lon1 *= radiansPerDegree
	lat2 *= radiansPerDegree
	lon2 *= radiansPerDegree

	deltaLambda := math.Abs(lon1 - lon2)
	a := math.Cos(lat2) * math.Sin(deltaLambda)
	b := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(deltaLambda)
	top := math.Sqrt(a*a + b*b)
	bottom := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(deltaLambda)
	return math.Atan2(top, bottom)
}

// latLonFromCourseAndDistance projects a point along a true course (degrees
// clockwise from north) by a distance in kilometres.
func latLonFromCourseAndDistance(lat1, lon1, course, distance float64) (float64, float64) {
	latR := lat1 * radiansPerDegree
	lonR := lon1 * radiansPerDegree
	courseR := course * radiansPerDegree
	dr := distance / earthRadiusKm

	lat := math.Asin(math.Sin(latR)*math.Cos(dr) + math.Cos(latR)*math.Sin(dr)*math.Cos(courseR))
	dlon := math.Atan2(math.Sin(courseR)*math.Sin(dr)*math.Cos(latR), math.Cos(dr)-math.Sin(latR)*math.Sin(lat))
	lon := math.Mod(lonR+dlon+math.Pi, 2.0*math.Pi) - math.Pi

	return lat / radiansPerDegree, lon / radiansPerDegree
}

// courseBetweenPoints returns the initial true course in degrees at the
// first point along the great circle to the second.
func courseBetweenPoints(lat1, lon1, lat2, lon2 float64) float64 {
	d := angularDistance(lat1, lon1, lat2, lon2)
	if d == 0 {
		return 0.0
	}

	lat1 *= radiansPerDegree
	lon1 *= radiansPerDegree
	lat2 *= radiansPerDegree
	lon2 *= radiansPerDegree

	var tc float64
	if math.Cos(lat1) < 0.0000001 {
		if lat1 > 0 {
			tc = math.Pi
		} else {
			tc = 2.0 * math.Pi
		}
	} else {
		cosCourse := (math.Sin(lat2) - math.Sin(lat1)*math.Cos(d)) / (math.Sin(d) * math.Cos(lat1))
		if cosCourse >= -1.0 && cosCourse <= 1.0 {
			if math.Sin(lon2-lon1) > 0 {
				tc = math.Acos(cosCourse)
			} else {
				tc = 2.0*math.Pi - math.Acos(cosCourse)
			}
		} else {
			tc = math.NaN()
		}
	}

	if math.IsNaN(tc) {
		tc = math.Mod(math.Atan2(
			math.Sin(lon1-lon2)*math.Cos(lat2),
			math.Cos(lat1)*math.Sin(lat2)-math.Sin(lat1)*math.Cos(lat2)*math.Cos(lon1-lon2),
		), 2*math.Pi)
	}
	return tc / radiansPerDegree
}

// intermediatePoint returns the point a fraction f along the great circle
// from the first point to the second.
func intermediatePoint(lat1, lon1, lat2, lon2, f float64) (float64, float64) {
	d := angularDistance(lat1, lon1, lat2, lon2)
	if d == 0.0 {
		return lat1, lon1
	}

	lat1 *= radiansPerDegree
	lon1 *= radiansPerDegree
	lat2 *= radiansPerDegree
	lon2 *= radiansPerDegree

	a := math.Sin((1-f)*d) / math.Sin(d)
	b := math.Sin(f*d) / math.Sin(d)
	x := a*math.Cos(lat1)*math.Cos(lon1) + b*math.Cos(lat2)*math.Cos(lon2)
	y := a*math.Cos(lat1)*math.Sin(lon1) + b*math.Cos(lat2)*math.Sin(lon2)
	z := a*math.Sin(lat1) + b*math.Sin(lat2)
	lat := math.Atan2(z, math.Sqrt(x*x+y*y)) / radiansPerDegree
	lon := math.Atan2(y, x) / radiansPerDegree
	return lat, lon
}
