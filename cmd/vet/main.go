// Command vet runs a QC battery over a CSV file of marine reports, offline,
// and prints a per-check summary of flag outcomes. It uses the same checker
// as the Kafka service so results match pipeline behavior exactly.
//
// The CSV must carry a header row with ICOADS-style column names (ID, YR,
// MO, DY, HR, LAT, LON, SST, AT, DPT, SLP, W, D, VS, DS); unknown columns
// are ignored and missing elements are left blank.
//
// Usage:
//
//	go run ./cmd/vet \
//	  -battery batteries/standard.yaml \
//	  -reports data/reports.csv \
//	  -group-by platform \
//	  -return-method all
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"marineqc/internal/config"
	"marineqc/internal/domain"
	"marineqc/internal/observability"
	"marineqc/internal/pipeline"
	"marineqc/internal/qc"
)

func main() {
	batteryPath := flag.String("battery", "", "path to the YAML battery definition")
	reportsPath := flag.String("reports", "", "path to the CSV file of reports")
	groupBy := flag.String("group-by", "platform", "comma-separated report columns defining a voyage")
	returnMethod := flag.String("return-method", "all", "return method: all, passed, or failed")
	flag.Parse()

	if *batteryPath == "" || *reportsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	code, err := run(*batteryPath, *reportsPath, *groupBy, *returnMethod)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func run(batteryPath, reportsPath, groupBy, returnMethod string) (int, error) {
	battery, err := config.LoadBattery(batteryPath)
	if err != nil {
		return 0, err
	}

	raws, err := loadReports(reportsPath)
	if err != nil {
		return 0, fmt.Errorf("load reports: %w", err)
	}

	cfg := &config.Config{
		GroupBy:      strings.Split(groupBy, ","),
		ReturnMethod: returnMethod,
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	checker := pipeline.NewChecker(battery, cfg, logger, observability.NewMetricsForTesting())

	checked, err := checker.CheckBatch(context.Background(), raws)
	if err != nil {
		return 0, fmt.Errorf("run battery: %w", err)
	}

	counts, err := tallyFlags(checked.Events)
	if err != nil {
		return 0, err
	}

	printSummary(battery.Checks.EntryNames(), counts, len(raws), len(checked.Skipped))

	for _, c := range counts {
		if c[qc.Failed] > 0 {
			return 1, nil
		}
	}
	return 0, nil
}

// loadReports reads the CSV and wraps each row as a raw JSON report, keyed
// by header name, exactly as the Kafka source would deliver it.
func loadReports(path string) ([]domain.RawEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var raws []domain.RawEvent
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		fields := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				fields[h] = strings.TrimSpace(row[i])
			}
		}
		value, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		raws = append(raws, domain.RawEvent{Key: []byte(fields["ID"]), Value: value})
	}
	return raws, nil
}

// tallyFlags decodes each output event and counts flags per check.
func tallyFlags(events []domain.OutputEvent) (map[string]map[qc.Flag]int, error) {
	counts := make(map[string]map[qc.Flag]int)
	for _, event := range events {
		var decoded struct {
			Flags map[string]qc.Flag `json:"qc_flags"`
		}
		if err := json.Unmarshal(event.Value, &decoded); err != nil {
			return nil, fmt.Errorf("decode flagged report: %w", err)
		}
		for check, flag := range decoded.Flags {
			if counts[check] == nil {
				counts[check] = make(map[qc.Flag]int)
			}
			counts[check][flag]++
		}
	}
	return counts, nil
}

func printSummary(order []string, counts map[string]map[qc.Flag]int, total, skipped int) {
	// Checks outside the battery order (should not happen) go last.
	var extra []string
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		seen[name] = true
	}
	for name := range counts {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	fmt.Println("=== Marine Report QC ===")
	fmt.Println()
	fmt.Printf("  %-28s %8s %8s %12s %10s\n", "check", "passed", "failed", "untestable", "untested")
	for _, name := range order {
		c := counts[name]
		status := "\033[32mok\033[0m"
		if c[qc.Failed] > 0 {
			status = "\033[31mFAIL\033[0m"
		}
		fmt.Printf("  %-28s %8d %8d %12d %10d  %s\n",
			name, c[qc.Passed], c[qc.Failed], c[qc.Untestable], c[qc.Untested], status)
	}
	fmt.Println()
	fmt.Printf("Reports: %d read, %d checked, %d unparseable\n", total, total-skipped, skipped)
}
