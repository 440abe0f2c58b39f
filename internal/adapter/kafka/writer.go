package kafka

import (
	"context"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"marineqc/internal/config"
	"marineqc/internal/domain"
)

// Writer produces messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes flagged reports to the sink topic in a single
// WriteMessages call so the batch is acked as a unit.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = mapOutputEventToMessage(events[i])
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// mapOutputEventToMessage converts a serialized output event into a Kafka
// message, carrying its headers over.
func mapOutputEventToMessage(event domain.OutputEvent) kafkago.Message {
	headers := make([]kafkago.Header, 0, len(event.Headers))
	for _, key := range sortedKeys(event.Headers) {
		headers = append(headers, kafkago.Header{Key: key, Value: []byte(event.Headers[key])})
	}
	return kafkago.Message{
		Key:     event.Key,
		Value:   event.Value,
		Headers: headers,
	}
}
