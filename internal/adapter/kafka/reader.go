package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"marineqc/internal/config"
	"marineqc/internal/domain"
)

const (
	// firstFetchWait bounds how long an empty poll blocks before handing
	// control back to the pipeline loop.
	firstFetchWait = 5 * time.Second
	// drainWait bounds the wait for each additional message once a batch
	// has started, so a trickle of reports still ships promptly.
	drainWait = 100 * time.Millisecond
)

// Reader consumes raw reports from the source topic as part of a consumer
// group. It implements pipeline.BatchExtractor. Offsets are committed
// explicitly through each event's Commit function.
type Reader struct {
	reader *kafkago.Reader
	logger *slog.Logger
}

// NewReader creates a Kafka consumer for the configured source topic.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaSourceTopic,
		GroupID: cfg.KafkaGroupID,
	})
	return &Reader{reader: r, logger: logger}
}

// ExtractBatch fetches up to batchSize messages. It blocks briefly waiting
// for the first message and then drains whatever is immediately available,
// so quiet topics return empty batches instead of stalling the pipeline.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	firstCtx, cancel := context.WithTimeout(ctx, firstFetchWait)
	defer cancel()

	msg, err := r.reader.FetchMessage(firstCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, nil
		}
		return nil, err
	}

	batch := []domain.RawEvent{r.mapWithCommit(msg)}
	for len(batch) < batchSize {
		drainCtx, cancelDrain := context.WithTimeout(ctx, drainWait)
		msg, err := r.reader.FetchMessage(drainCtx)
		cancelDrain()
		if err != nil {
			break
		}
		batch = append(batch, r.mapWithCommit(msg))
	}
	return batch, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapWithCommit attaches an offset-commit callback to the mapped event.
func (r *Reader) mapWithCommit(msg kafkago.Message) domain.RawEvent {
	raw := mapMessageToRawEvent(msg)
	raw.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return raw
}

// mapMessageToRawEvent converts a Kafka message into the domain envelope.
func mapMessageToRawEvent(msg kafkago.Message) domain.RawEvent {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawEvent{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
