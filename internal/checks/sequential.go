package checks

import (
	"fmt"
	"math"
	"sort"
	"time"

	"marineqc/internal/obs"
	"marineqc/internal/qc"
)

// Sequential checks: a group is one platform's voyage. Reports are put in
// time order before checking, and flags are mapped back to the caller's
// row order afterwards.

func isvalid(v float64) bool { return !math.IsNaN(v) }

// timeOrder returns the permutation that sorts the timestamp column
// ascending, stable for ties.
func timeOrder(date *obs.Series) []int {
	idx := make([]int, date.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return date.TimeAt(idx[a]).Before(date.TimeAt(idx[b]))
	})
	return idx
}

func permuteFloats(s *obs.Series, order []int) []float64 {
	out := make([]float64, len(order))
	for i, p := range order {
		out[i] = s.FloatAt(p)
	}
	return out
}

func permuteTimes(s *obs.Series, order []int) []time.Time {
	out := make([]time.Time, len(order))
	for i, p := range order {
		out[i] = s.TimeAt(p)
	}
	return out
}

// unpermuteFlags maps flags computed in sorted order back to input order.
func unpermuteFlags(sorted []qc.Flag, order []int) []qc.Flag {
	out := make([]qc.Flag, len(sorted))
	for i, p := range order {
		out[p] = sorted[i]
	}
	return out
}

// courseParameters returns the speed (km/h), distance (km), initial course
// (degrees) and time difference (hours) between two reports. A zero or
// invalid time difference yields the distance as the speed.
func courseParameters(latLater, latEarlier, lonLater, lonEarlier float64, dateLater, dateEarlier time.Time) (speed, distance, course, timediff float64) {
	distance = sphereDistance(latLater, lonLater, latEarlier, lonEarlier)
	timediff = hoursBetween(dateEarlier, dateLater)
	if timediff != 0 && isvalid(timediff) {
		speed = distance / math.Abs(timediff)
	} else {
		timediff = 0.0
		speed = distance
	}
	course = courseBetweenPoints(latEarlier, lonEarlier, latLater, lonLater)
	return speed, distance, course, timediff
}

// speedCourseDistanceTimeDiff calculates speeds, courses, distances and
// time differences between consecutive reports, or between alternating
// reports (i+1 versus i-1) when alternating is set.
func speedCourseDistanceTimeDiff(lat, lon []float64, date []time.Time, alternating bool) (speed, distance, course, timediff []float64) {
	n := len(lat)
	speed = nanSlice(n)
	distance = nanSlice(n)
	course = nanSlice(n)
	timediff = nanSlice(n)
	if n == 1 {
		return
	}

	rangeEnd := n
	firstOffset := 0
	if alternating {
		rangeEnd = n - 1
		firstOffset = 1
	}
	for i := 1; i < rangeEnd; i++ {
		fe := i + firstOffset
		se := i - 1
		s, d, c, t := courseParameters(lat[fe], lat[se], lon[fe], lon[se], date[fe], date[se])
		speed[i] = s
		distance[i] = d
		course[i] = c
		timediff[i] = t
	}
	return
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// modalSpeed bins speeds into 3-knot bins and returns the centre of the
// fullest bin in km/h, floored at 8.5 knots. Anything above 36 knots lands
// in the top bin.
func modalSpeed(speeds []float64) float64 {
	valid := 0
	for _, s := range speeds {
		if isvalid(s) {
			valid++
		}
	}
	if len(speeds) <= 1 {
		return math.NaN()
	}

	var counts [12]int
	for _, s := range speeds {
		if !isvalid(s) {
			continue
		}
		knots := s / 1.852
		bin := int(knots / 3.0)
		if knots < 0 {
			bin = 0
		}
		if bin > 11 {
			bin = 11
		}
		counts[bin]++
	}
	modalBin := 0
	for b := 1; b < 12; b++ {
		if counts[b] > counts[modalBin] {
			modalBin = b
		}
	}
	centreKnots := math.Max(float64(modalBin)*3.0+1.5, 8.5)
	return centreKnots * 1.852
}

// speedLimits derives the maximum plausible speed from the modal speed.
func speedLimits(modal float64) (amax, amaxx, amin float64) {
	amax = 15.0 * 1.852
	amaxx = 20.0 * 1.852
	amin = 0.0
	if !isvalid(modal) || modal <= 8.51*1.852 {
		return amax, amaxx, amin
	}
	return modal * 1.25, 30.0 * 1.852, modal * 0.75
}

// incrementPosition returns the latitude and longitude increments covered
// at a given speed and heading over half the time difference.
func incrementPosition(lat, lon, speedKmh, heading, timediff float64) (dlat, dlon float64) {
	if !isvalid(timediff) {
		return math.NaN(), math.NaN()
	}
	distance := speedKmh * timediff / 2.0
	newLat, newLon := latLonFromCourseAndDistance(lat, lon, heading, distance)
	return newLat - lat, newLon - lon
}

var allowedHeadings = []float64{0, 45, 90, 135, 180, 225, 270, 315, 360}

func isAllowedHeading(dsi float64) bool {
	for _, h := range allowedHeadings {
		if dsi == h {
			return true
		}
	}
	return false
}

// directionContinuity scores 10 when the calculated course differs from
// the reported heading, now or at the previous report, by more than the
// allowed change. Reported headings come in 45-degree steps.
func directionContinuity(dsi, dsiPrevious, shipDirection, maxDirectionChange float64) (float64, error) {
	if !isvalid(dsi) || !isvalid(dsiPrevious) || !isvalid(shipDirection) {
		return 0.0, nil
	}
	if !isAllowedHeading(dsi) {
		return 0, fmt.Errorf("checks: heading %v is not an allowed value", dsi)
	}
	if !isAllowedHeading(dsiPrevious) {
		return 0, fmt.Errorf("checks: heading %v is not an allowed value", dsiPrevious)
	}
	diff := math.Abs(dsi - shipDirection)
	diffPrev := math.Abs(dsiPrevious - shipDirection)
	if (maxDirectionChange < diff && diff < 360-maxDirectionChange) ||
		(maxDirectionChange < diffPrev && diffPrev < 360-maxDirectionChange) {
		return 10.0, nil
	}
	return 0.0, nil
}

// speedContinuity scores 10 when the reported speed at this and the
// previous report both differ from the calculated speed by more than the
// allowed change.
func speedContinuity(vsi, vsiPrevious, speed, maxSpeedChange float64) float64 {
	if !isvalid(vsi) || !isvalid(vsiPrevious) || !isvalid(speed) {
		return 0.0
	}
	if math.Abs(vsi-speed) > maxSpeedChange && math.Abs(vsiPrevious-speed) > maxSpeedChange {
		return 10.0
	}
	return 0.0
}

// distanceFromEstimateScore scores 10 when both the forward and backward
// projected positions miss the reported position by more than the
// distance the reported speeds would allow.
func distanceFromEstimateScore(vsi, vsiPrevious, timediff, fwdDiff, revDiff float64) float64 {
	if !isvalid(vsi) || !isvalid(vsiPrevious) || !isvalid(timediff) || !isvalid(fwdDiff) || !isvalid(revDiff) {
		return 0.0
	}
	if vsi > 0 && vsiPrevious > 0 && timediff > 0 {
		allowed := timediff * (vsi + vsiPrevious) / 2.0
		if fwdDiff > allowed && revDiff > allowed {
			return 10.0
		}
	}
	return 0.0
}

// forwardDiscrepancy projects each report's position from the previous one
// using the reported speeds and headings, and returns the distance between
// the projection and the reported position, in time order.
func forwardDiscrepancy(lat, lon []float64, date []time.Time, vsi, dsi []float64) []float64 {
	n := len(lat)
	out := nanSlice(n)
	for i := 1; i < n; i++ {
		if !isvalid(vsi[i]) || !isvalid(vsi[i-1]) || !isvalid(dsi[i]) || !isvalid(dsi[i-1]) ||
			!isvalid(lat[i]) || !isvalid(lat[i-1]) || !isvalid(lon[i]) || !isvalid(lon[i-1]) ||
			date[i].IsZero() || date[i-1].IsZero() {
			continue
		}
		timediff := date[i].Sub(date[i-1]).Hours()
		dlat1, dlon1 := incrementPosition(lat[i-1], lon[i-1], vsi[i-1], dsi[i], timediff)
		dlat2, dlon2 := incrementPosition(lat[i], lon[i], vsi[i], dsi[i], timediff)
		estLat := lat[i-1] + dlat1 + dlat2
		estLon := lon[i-1] + dlon1 + dlon2
		out[i] = sphereDistance(lat[i], lon[i], estLat, estLon)
	}
	return out
}

// backwardDiscrepancy is forwardDiscrepancy run from the end of the voyage
// to the start, reversing headings by 180 degrees. The result is reversed
// so it aligns with the forward pass.
func backwardDiscrepancy(lat, lon []float64, date []time.Time, vsi, dsi []float64) []float64 {
	n := len(lat)
	out := nanSlice(n)
	for i := n - 1; i > 0; i-- {
		if !isvalid(vsi[i]) || !isvalid(vsi[i-1]) || !isvalid(dsi[i]) || !isvalid(dsi[i-1]) ||
			!isvalid(lat[i]) || !isvalid(lat[i-1]) || !isvalid(lon[i]) || !isvalid(lon[i-1]) ||
			date[i].IsZero() || date[i-1].IsZero() {
			continue
		}
		timediff := date[i].Sub(date[i-1]).Hours()
		dlat1, dlon1 := incrementPosition(lat[i], lon[i], vsi[i], dsi[i]-180.0, timediff)
		dlat2, dlon2 := incrementPosition(lat[i-1], lon[i-1], vsi[i-1], dsi[i-1]-180.0, timediff)
		estLat := lat[i] + dlat1 + dlat2
		estLon := lon[i] + dlon1 + dlon2
		out[i] = sphereDistance(lat[i-1], lon[i-1], estLat, estLon)
	}
	for l, r := 0, n-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// midpointDiscrepancy interpolates between alternate reports and returns
// the distance between each report and the interpolated position at its
// time.
func midpointDiscrepancy(lat, lon, timediff []float64) []float64 {
	n := len(lat)
	out := nanSlice(n)
	for i := 1; i < n-1; i++ {
		t0, t1 := timediff[i], timediff[i+1]
		fraction := 0.0
		if isvalid(t0) && isvalid(t1) && t0+t1 != 0 {
			fraction = t0 / (t0 + t1)
		}
		estLat, estLon := intermediatePoint(lat[i-1], lon[i-1], lat[i+1], lon[i+1], fraction)
		out[i] = sphereDistance(lat[i], lon[i], estLat, estLon)
	}
	return out
}

// trackCheck is the MDS track check: a report fails when its speeds
// relative to neighbours exceed the limit derived from the voyage's modal
// speed, its position disagrees with the positions projected from the
// reported speed and heading, and the midpoint interpolation discrepancy
// exceeds the allowed maximum. Fewer than three reports always pass.
func trackCheck(args qc.Args) (any, error) {
	latS, _ := args.Series("lat")
	lonS, _ := args.Series("lon")
	dateS, _ := args.Series("date")
	vsiS, _ := args.Series("vsi")
	dsiS, _ := args.Series("dsi")
	maxDirectionChange, _ := args.Float("max_direction_change")
	maxSpeedChange, _ := args.Float("max_speed_change")
	maxAbsoluteSpeed, _ := args.Float("max_absolute_speed")
	maxMidpointDiscrepancy, _ := args.Float("max_midpoint_discrepancy")

	n := latS.Len()
	if n == 0 {
		return []qc.Flag{}, nil
	}
	flags := make([]qc.Flag, n)
	for i := range flags {
		flags[i] = qc.Passed
	}
	if n < 3 {
		return flags, nil
	}

	order := timeOrder(dateS)
	lat := permuteFloats(latS, order)
	lon := permuteFloats(lonS, order)
	date := permuteTimes(dateS, order)
	vsi := permuteFloats(vsiS, order)
	dsi := permuteFloats(dsiS, order)

	speedAlt, _, _, _ := speedCourseDistanceTimeDiff(lat, lon, date, true)
	speed, _, course, timediff := speedCourseDistanceTimeDiff(lat, lon, date, false)

	amax, _, _ := speedLimits(modalSpeed(speed))

	fwdDiff := forwardDiscrepancy(lat, lon, date, vsi, dsi)
	revDiff := backwardDiscrepancy(lat, lon, date, vsi, dsi)
	midDiff := midpointDiscrepancy(lat, lon, timediff)

	for i := 1; i < n-1; i++ {
		scoreA := 0.0
		switch {
		case isvalid(speed[i]) && speed[i] > amax && isvalid(speedAlt[i-1]) && speedAlt[i-1] > amax:
			scoreA += 1.0
		case isvalid(speed[i+1]) && speed[i+1] > amax && isvalid(speedAlt[i+1]) && speedAlt[i+1] > amax:
			scoreA += 2.0
		case isvalid(speed[i]) && speed[i] > amax && isvalid(speed[i+1]) && speed[i+1] > amax:
			scoreA += 3.0
		}

		scoreB := distanceFromEstimateScore(vsi[i], vsi[i-1], timediff[i], fwdDiff[i], revDiff[i])
		direction, err := directionContinuity(dsi[i], dsi[i-1], course[i], maxDirectionChange)
		if err != nil {
			return nil, err
		}
		scoreB += direction
		scoreB += speedContinuity(vsi[i], vsi[i-1], speed[i], maxSpeedChange)
		if speed[i] > maxAbsoluteSpeed {
			scoreB += 10.0
		}

		if midDiff[i] > maxMidpointDiscrepancy && scoreA > 0 && scoreB > 0 {
			flags[i] = qc.Failed
		}
	}
	return unpermuteFlags(flags, order), nil
}

// greedyViolationRemoval flags reports one at a time, worst offender
// first, until no pairwise violations remain. violations[i] holds the
// indexes report i conflicts with.
func greedyViolationRemoval(violations [][]int, n int) []qc.Flag {
	counts := make([]float64, n)
	for i, v := range violations {
		counts[i] = float64(len(v))
	}
	flags := make([]qc.Flag, n)
	for i := range flags {
		flags[i] = qc.Passed
	}
	remaining := 0.0
	for _, c := range counts {
		remaining += c
	}
	for remaining > 0 {
		worst := 0
		for i := 1; i < n; i++ {
			if counts[i] > counts[worst] {
				worst = i
			}
		}
		flags[worst] = qc.Failed
		for _, other := range violations[worst] {
			for j, idx := range violations[other] {
				if idx == worst {
					violations[other] = append(violations[other][:j], violations[other][j+1:]...)
					counts[other]--
					break
				}
			}
		}
		counts[worst] = 0
		remaining = 0
		for _, c := range counts {
			remaining += c
		}
	}
	return flags
}

// spikeCheck is the IQUAM-style spike check: a pair of neighbouring
// reports violates the gradient limit when their value difference exceeds
// the largest of delta_t, the spatial gradient allowance and the temporal
// gradient allowance; offending reports are removed greedily, worst
// first.
func spikeCheck(args qc.Args) (any, error) {
	valueS, _ := args.Series("value")
	latS, _ := args.Series("lat")
	lonS, _ := args.Series("lon")
	dateS, _ := args.Series("date")
	maxGradientSpace, _ := args.Float("max_gradient_space")
	maxGradientTime, _ := args.Float("max_gradient_time")
	deltaT, _ := args.Float("delta_t")
	nNeighbours := args.IntOr("n_neighbours", 5)

	n := valueS.Len()
	order := timeOrder(dateS)
	value := permuteFloats(valueS, order)
	lat := permuteFloats(latS, order)
	lon := permuteFloats(lonS, order)
	date := permuteTimes(dateS, order)

	violations := make([][]int, n)
	for t1 := 0; t1 < n; t1++ {
		lo := t1 - nNeighbours
		if lo < 0 {
			lo = 0
		}
		hi := t1 + nNeighbours + 1
		if hi > n {
			hi = n
		}
		for t2 := lo; t2 < hi; t2++ {
			if t2 == t1 || !isvalid(value[t1]) || !isvalid(value[t2]) {
				continue
			}
			distance := sphereDistance(lat[t1], lon[t1], lat[t2], lon[t2])
			timeDiff := math.Abs(date[t2].Sub(date[t1]).Hours())
			valChange := math.Abs(value[t2] - value[t1])

			allowance := math.Max(deltaT, math.Max(math.Abs(distance)*maxGradientSpace, timeDiff*maxGradientTime))
			if valChange > allowance {
				violations[t1] = append(violations[t1], t2)
			}
		}
	}
	return unpermuteFlags(greedyViolationRemoval(violations, n), order), nil
}

// iquamTrackCheck is the IQUAM track check of Xu and Ignatov 2013: speeds
// between report pairs that exceed the platform speed limit count as
// violations, and offenders are removed greedily, worst first.
func iquamTrackCheck(args qc.Args) (any, error) {
	latS, _ := args.Series("lat")
	lonS, _ := args.Series("lon")
	dateS, _ := args.Series("date")
	speedLimit, _ := args.Float("speed_limit")
	deltaD, _ := args.Float("delta_d")
	deltaT, _ := args.Float("delta_t")
	nNeighbours := args.IntOr("n_neighbours", 5)

	n := latS.Len()
	if n == 0 {
		return []qc.Flag{}, nil
	}
	order := timeOrder(dateS)
	lat := permuteFloats(latS, order)
	lon := permuteFloats(lonS, order)
	date := permuteTimes(dateS, order)

	violations := make([][]int, n)
	for t1 := 0; t1 < n; t1++ {
		lo := t1 - nNeighbours
		if lo < 0 {
			lo = 0
		}
		hi := t1 + nNeighbours + 1
		if hi > n {
			hi = n
		}
		for t2 := lo; t2 < hi; t2++ {
			if t2 == t1 {
				continue
			}
			_, distance, _, timediff := courseParameters(lat[t2], lat[t1], lon[t2], lon[t1], date[t2], date[t1])
			condition := math.Max(math.Abs(distance)-deltaD, 0.0) / (math.Abs(timediff) + deltaT)
			if condition > speedLimit {
				violations[t1] = append(violations[t1], t2)
			}
		}
	}
	return unpermuteFlags(greedyViolationRemoval(violations, n), order), nil
}

// fewCheck fails every report in a group of fewer than min_reports, since
// the sequential checks cannot say anything useful about such short
// voyages.
func fewCheck(args qc.Args) (any, error) {
	value, _ := args.Series("value")
	minReports := args.IntOr("min_reports", 3)
	n := value.Len()
	flags := make([]qc.Flag, n)
	outcome := qc.Passed
	if n > 0 && n < minReports {
		outcome = qc.Failed
	}
	for i := range flags {
		flags[i] = outcome
	}
	return flags, nil
}

// repeatedValueCheck fails every occurrence of a value that accounts for
// more than the threshold fraction of a voyage's valid reports, once the
// voyage has more than min_count of them.
func repeatedValueCheck(args qc.Args) (any, error) {
	value, _ := args.Series("value")
	minCount := args.IntOr("min_count", 20)
	threshold, _ := args.Float("threshold")
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("checks: threshold %v outside [0, 1]", threshold)
	}

	n := value.Len()
	flags := make([]qc.Flag, n)
	for i := range flags {
		flags[i] = qc.Passed
	}

	occurrences := make(map[float64][]int)
	valid := 0
	for i := 0; i < n; i++ {
		if value.IsMissing(i) {
			continue
		}
		valid++
		v := value.FloatAt(i)
		occurrences[v] = append(occurrences[v], i)
	}
	if valid <= minCount {
		return flags, nil
	}
	for _, rows := range occurrences {
		if float64(len(rows))/float64(valid) > threshold {
			for _, i := range rows {
				flags[i] = qc.Failed
			}
		}
	}
	return flags, nil
}

// roundedValueCheck fails every whole-numbered value in a voyage where
// whole numbers make up at least the threshold fraction of valid reports.
// Rounded humidity strings bias the record and are flagged wholesale.
func roundedValueCheck(args qc.Args) (any, error) {
	value, _ := args.Series("value")
	minCount := args.IntOr("min_count", 20)
	threshold, _ := args.Float("threshold")
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("checks: threshold %v outside [0, 1]", threshold)
	}

	n := value.Len()
	flags := make([]qc.Flag, n)
	for i := range flags {
		flags[i] = qc.Passed
	}

	var wholeRows []int
	wholeCount := 0
	valid := 0
	for i := 0; i < n; i++ {
		if value.IsMissing(i) {
			continue
		}
		valid++
		if v := value.FloatAt(i); v == math.Trunc(v) {
			wholeCount++
			wholeRows = append(wholeRows, i)
		}
	}
	if valid <= minCount || float64(wholeCount)/float64(valid) < threshold {
		return flags, nil
	}
	for _, i := range wholeRows {
		flags[i] = qc.Failed
	}
	return flags, nil
}

// saturatedRunsCheck fails runs of reports where air temperature equals
// dewpoint (100% relative humidity) that persist longer than both
// shortest_run reports and min_time_threshold hours.
func saturatedRunsCheck(args qc.Args) (any, error) {
	atS, _ := args.Series("at")
	dptS, _ := args.Series("dpt")
	latS, _ := args.Series("lat")
	lonS, _ := args.Series("lon")
	dateS, _ := args.Series("date")
	minTimeThreshold, _ := args.Float("min_time_threshold")
	shortestRun := args.IntOr("shortest_run", 4)

	n := atS.Len()
	order := timeOrder(dateS)
	at := permuteFloats(atS, order)
	dpt := permuteFloats(dptS, order)
	lat := permuteFloats(latS, order)
	lon := permuteFloats(lonS, order)
	date := permuteTimes(dateS, order)

	flags := make([]qc.Flag, n)
	for i := range flags {
		flags[i] = qc.Passed
	}

	flagRun := func(run []int) {
		if len(run) <= shortestRun {
			return
		}
		earlier, later := run[0], run[len(run)-1]
		_, _, _, tdiff := courseParameters(lat[later], lat[earlier], lon[later], lon[earlier], date[later], date[earlier])
		if tdiff >= minTimeThreshold {
			for _, i := range run {
				flags[i] = qc.Failed
			}
		}
	}

	var run []int
	for i := 0; i < n; i++ {
		if dpt[i] == at[i] {
			run = append(run, i)
			continue
		}
		flagRun(run)
		run = nil
	}
	flagRun(run)

	return unpermuteFlags(flags, order), nil
}
