// Command genmock generates a CSV fixture of mock marine reports for
// exercising QC batteries with cmd/vet. It simulates ship voyages with
// plausible tracks and weather, then injects known defects (SST spikes,
// out-of-range values, stuck sensors, missing elements) so every check in a
// standard battery has something to find.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/reports.csv -voyages 5 -reports 48 -seed 1
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

var voyageStart = time.Date(1995, time.June, 1, 0, 0, 0, 0, time.UTC)

// report is one generated observation, blank strings marking missing elements.
type report struct {
	id   string
	at   time.Time
	lat  float64
	lon  float64
	sst  string
	airT string
	dpt  string
	slp  string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the CSV fixture")
	voyages := flag.Int("voyages", 5, "number of simulated voyages")
	reports := flag.Int("reports", 48, "hourly reports per voyage")
	seed := flag.Int64("seed", 1, "random seed, fixed for reproducible fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))

	var all []report
	var defects int
	for v := 0; v < *voyages; v++ {
		voyage := makeVoyage(rng, fmt.Sprintf("SHIP%02d", v+1), *reports)
		defects += injectDefects(rng, voyage)
		all = append(all, voyage...)
	}

	if err := writeCSV(*out, all); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d reports (%d voyages, %d injected defects): %s",
		len(all), *voyages, defects, *out)
	return nil
}

// makeVoyage simulates a ship steaming on a fixed heading at 10-20 knots
// with slowly varying weather.
func makeVoyage(rng *rand.Rand, platform string, n int) []report {
	lat := -40.0 + 80.0*rng.Float64()
	lon := -180.0 + 360.0*rng.Float64()
	dLat := (rng.Float64() - 0.5) * 0.4 // up to ~0.2 deg/h
	dLon := (rng.Float64() - 0.5) * 0.4

	sst := 10.0 + 15.0*rng.Float64()
	airT := sst + (rng.Float64()-0.5)*4.0
	slp := 1013.0 + (rng.Float64()-0.5)*20.0

	voyage := make([]report, n)
	for i := range voyage {
		sst += (rng.Float64() - 0.5) * 0.4
		airT += (rng.Float64() - 0.5) * 0.6
		slp += (rng.Float64() - 0.5) * 1.0
		dpt := airT - 1.0 - 3.0*rng.Float64()

		voyage[i] = report{
			id:   platform,
			at:   voyageStart.Add(time.Duration(i) * time.Hour),
			lat:  lat + dLat*float64(i),
			lon:  lon + dLon*float64(i),
			sst:  fmt.Sprintf("%.1f", sst),
			airT: fmt.Sprintf("%.1f", airT),
			dpt:  fmt.Sprintf("%.1f", dpt),
			slp:  fmt.Sprintf("%.1f", slp),
		}
	}
	return voyage
}

// injectDefects plants one of each defect class somewhere in the voyage and
// returns the number planted.
func injectDefects(rng *rand.Rand, voyage []report) int {
	if len(voyage) < 8 {
		return 0
	}
	pick := func() int { return 2 + rng.Intn(len(voyage)-4) }

	// SST spike: a single report far off the local trend.
	voyage[pick()].sst = "38.5"
	// Hard-limit violation in air temperature.
	voyage[pick()].airT = "75.0"
	// Stuck SST sensor over a short run.
	i := pick()
	for j := i; j < i+3 && j < len(voyage); j++ {
		voyage[j].sst = voyage[i].sst
	}
	// Missing element.
	voyage[pick()].slp = ""
	// Position off the grid.
	voyage[pick()].lat = 95.0
	return 5
}

func writeCSV(path string, reports []report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"ID", "YR", "MO", "DY", "HR", "LAT", "LON", "SST", "AT", "DPT", "SLP"}); err != nil {
		return err
	}
	for _, r := range reports {
		row := []string{
			r.id,
			fmt.Sprintf("%d", r.at.Year()),
			fmt.Sprintf("%d", int(r.at.Month())),
			fmt.Sprintf("%d", r.at.Day()),
			fmt.Sprintf("%d", r.at.Hour()),
			fmt.Sprintf("%.2f", r.lat),
			fmt.Sprintf("%.2f", r.lon),
			r.sst, r.airT, r.dpt, r.slp,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
