package checks

import "time"

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func monthLengths(year int) [12]int {
	if isLeapYear(year) {
		return [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	}
	return [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
}

// dayInYear returns the day number, 1 for Jan 1st through 365 or 366 for
// Dec 31st.
func dayInYear(year, month, day int) int {
	lengths := monthLengths(year)
	result := day
	for m := 0; m < month-1; m++ {
		result += lengths[m]
	}
	return result
}

// julianDay counts days from 1 Jan 4713 BC. One of those routines that
// looks baffling but works.
func julianDay(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// hoursBetween returns the signed time difference in hours from the first
// timestamp to the second, on the julian-day calendar the track checks use.
func hoursBetween(earlier, later time.Time) float64 {
	first := float64(julianDay(earlier.Year(), int(earlier.Month()), earlier.Day())) + decimalHour(earlier)/24.0
	last := float64(julianDay(later.Year(), int(later.Month()), later.Day())) + decimalHour(later)/24.0
	return 24.0 * (last - first)
}

// decimalHour returns the time of day as a decimal hour.
func decimalHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60.0 + float64(t.Second())/3600.0
}
