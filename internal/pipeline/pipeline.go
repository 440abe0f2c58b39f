package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"marineqc/internal/domain"
	"marineqc/internal/observability"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// BatchChecker runs the QC battery over a batch of raw events. Checks
// compare reports within a batch (tracks, buddies), so the whole batch is
// transformed at once rather than message by message.
type BatchChecker interface {
	CheckBatch(ctx context.Context, raws []domain.RawEvent) (CheckedBatch, error)
}

// CheckedBatch is the outcome of one battery run over a batch.
type CheckedBatch struct {
	// Events are the flagged reports to load.
	Events []domain.OutputEvent
	// Checked are the raw events behind Events; their offsets are committed
	// only after a successful load.
	Checked []domain.RawEvent
	// Skipped are raw events that could not be parsed. They are committed
	// immediately so a poison message never wedges the consumer group.
	Skipped []domain.RawEvent
}

// BatchLoader writes multiple output events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline orchestrates the extract-check-load loop.
type Pipeline struct {
	extractor BatchExtractor
	checker   BatchChecker
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, c BatchChecker, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor: e,
		checker:   c,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// CheckReadiness returns nil if the pipeline has processed at least one batch,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any reports yet")
	}
	return nil
}

// Run executes the batch QC loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-check-load cycle. Returns false if the
// pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.ReportsConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	checked, err := p.checker.CheckBatch(ctx, rawBatch)
	if err != nil {
		// An engine error poisons the whole batch; nothing is committed,
		// so the batch is re-extracted after backoff.
		p.logger.Error("check batch failed", "error", err, "batch_size", len(rawBatch))
		p.metrics.EngineErrors.Inc()
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	for _, raw := range checked.Skipped {
		p.metrics.ParseErrors.Inc()
		p.commitOffset(ctx, raw)
	}

	if len(checked.Events) > 0 {
		if err := p.loader.LoadBatch(ctx, checked.Events); err != nil {
			p.logger.Error("load batch failed", "error", err, "batch_size", len(checked.Events))
			return p.backoffOrStop(ctx, backoff, maxBackoff)
		}
		p.metrics.ReportsProduced.Add(float64(len(checked.Events)))
	}

	for _, raw := range checked.Checked {
		p.commitOffset(ctx, raw)
	}

	if len(checked.Events) > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
