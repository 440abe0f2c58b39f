package checks

import (
	"math"

	"marineqc/internal/qc"
)

// Grouped checks: each report is compared against the other members of
// its group.

// buddyCheck fails a report whose anomaly from climatology differs from
// the mean anomaly of its buddies (the other valid reports in the group)
// by more than n_sigma standard deviations of the buddy anomalies. A
// report with no valid buddies, or missing inputs, is untestable.
func buddyCheck(args qc.Args) (any, error) {
	value, _ := args.Series("value")
	nSigma := args.FloatOr("n_sigma", 3.0)
	minBuddies := args.IntOr("min_buddies", 1)

	n := value.Len()
	anomalies := make([]float64, n)
	for i := 0; i < n; i++ {
		clim, hasClim := scalarOrSeries(args, "climatology", i)
		if value.IsMissing(i) || !hasClim || math.IsNaN(clim) {
			anomalies[i] = math.NaN()
			continue
		}
		anomalies[i] = value.FloatAt(i) - clim
	}

	flags := make([]qc.Flag, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(anomalies[i]) {
			flags[i] = qc.Untestable
			continue
		}

		sum, sumSq := 0.0, 0.0
		buddies := 0
		for j := 0; j < n; j++ {
			if j == i || math.IsNaN(anomalies[j]) {
				continue
			}
			sum += anomalies[j]
			sumSq += anomalies[j] * anomalies[j]
			buddies++
		}
		if buddies < minBuddies {
			flags[i] = qc.Untestable
			continue
		}

		mean := sum / float64(buddies)
		variance := sumSq/float64(buddies) - mean*mean
		if variance < 0 {
			variance = 0
		}
		sd := math.Sqrt(variance)
		if sd == 0 {
			// identical buddies: any disagreement at all fails
			if anomalies[i] != mean {
				flags[i] = qc.Failed
			} else {
				flags[i] = qc.Passed
			}
			continue
		}
		if math.Abs(anomalies[i]-mean)/sd > nSigma {
			flags[i] = qc.Failed
		} else {
			flags[i] = qc.Passed
		}
	}
	return flags, nil
}
