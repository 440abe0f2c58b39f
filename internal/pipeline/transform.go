package pipeline

import (
	"context"
	"log/slog"
	"time"

	_ "marineqc/internal/checks" // populate the default check registry
	"marineqc/internal/config"
	"marineqc/internal/domain"
	"marineqc/internal/obs"
	"marineqc/internal/observability"
	"marineqc/internal/qc"
)

// Checker implements BatchChecker: it parses raw events into reports,
// assembles an observation table, and runs the configured battery over it.
type Checker struct {
	engine  *qc.Engine
	battery *config.Battery
	groupBy obs.Grouper
	method  qc.ReturnMethod
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewChecker creates a Checker running battery against the process-wide
// check registry, grouped and filtered per cfg.
func NewChecker(battery *config.Battery, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Checker {
	return &Checker{
		engine:  qc.Default(),
		battery: battery,
		groupBy: obs.ByColumns(cfg.GroupBy...),
		method:  qc.ReturnMethod(cfg.ReturnMethod),
		logger:  logger,
		metrics: metrics,
	}
}

// CheckBatch parses the batch, runs the battery, and attaches flags.
// Unparseable messages are skipped; an engine error fails the whole batch.
func (c *Checker) CheckBatch(_ context.Context, raws []domain.RawEvent) (CheckedBatch, error) {
	var out CheckedBatch
	reports := make([]domain.Report, 0, len(raws))

	for _, raw := range raws {
		report, err := domain.ParseRawReport(raw)
		if err != nil {
			c.logger.Warn("parse failed, skipping report",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			out.Skipped = append(out.Skipped, raw)
			continue
		}
		reports = append(reports, report)
		out.Checked = append(out.Checked, raw)
	}

	if len(reports) == 0 {
		return out, nil
	}

	table := buildTable(reports)

	start := time.Now()
	matrix, err := c.engine.RunSequential(table, c.groupBy, c.battery.Checks, c.battery.Preprocessing, c.method)
	if err != nil {
		return CheckedBatch{}, err
	}
	c.metrics.EngineDuration.Observe(time.Since(start).Seconds())

	out.Events = make([]domain.OutputEvent, 0, len(reports))
	for i, report := range reports {
		row := matrix.Row(i)
		flags := make(map[string]qc.Flag, len(row.Checks()))
		for _, check := range row.Checks() {
			flag, _ := row.Get(check)
			flags[check] = flag
			c.metrics.FlagOutcomes.WithLabelValues(check, flag.String()).Inc()
		}

		event, err := domain.NewFlaggedReport(report, flags).ToOutputEvent()
		if err != nil {
			return CheckedBatch{}, err
		}
		out.Events = append(out.Events, event)
	}
	return out, nil
}

// buildTable lays reports out as the column set battery files bind against.
// Row order follows the batch, so matrix rows map back to reports by index.
func buildTable(reports []domain.Report) *obs.Table {
	n := len(reports)
	ids := make([]string, n)
	platforms := make([]string, n)
	lats := make([]float64, n)
	lons := make([]float64, n)
	dates := make([]time.Time, n)
	ssts := make([]float64, n)
	ats := make([]float64, n)
	dpts := make([]float64, n)
	slps := make([]float64, n)
	windSpeeds := make([]float64, n)
	windDirs := make([]float64, n)
	shipSpeeds := make([]float64, n)
	shipCourses := make([]float64, n)

	for i, r := range reports {
		ids[i] = r.ID
		platforms[i] = r.Platform
		lats[i] = r.Lat
		lons[i] = r.Lon
		dates[i] = r.ObservedAt
		ssts[i] = r.SST
		ats[i] = r.AT
		dpts[i] = r.DPT
		slps[i] = r.SLP
		windSpeeds[i] = r.WindSpeed
		windDirs[i] = r.WindDirection
		shipSpeeds[i] = r.ShipSpeed
		shipCourses[i] = r.ShipCourse
	}

	return obs.MustNewTable(
		obs.NewStringSeries("id", ids),
		obs.NewStringSeries("platform", platforms),
		obs.NewFloatSeries("lat", lats),
		obs.NewFloatSeries("lon", lons),
		obs.NewTimeSeries("date", dates),
		obs.NewFloatSeries("sst", ssts),
		obs.NewFloatSeries("at", ats),
		obs.NewFloatSeries("dpt", dpts),
		obs.NewFloatSeries("slp", slps),
		obs.NewFloatSeries("wind_speed", windSpeeds),
		obs.NewFloatSeries("wind_direction", windDirs),
		obs.NewFloatSeries("vsi", shipSpeeds),
		obs.NewFloatSeries("dsi", shipCourses),
	)
}
