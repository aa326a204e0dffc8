package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/radar-rain-monitor/internal/config"
	"github.com/couchcryptid/radar-rain-monitor/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces rain status events to a Kafka topic.
// It implements pipeline.StatusSink.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured status topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaStatusTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishStatus serializes a rain status and writes it keyed by query point,
// so statuses for one point stay ordered within a partition.
func (w *Writer) PublishStatus(ctx context.Context, s domain.RainStatus) error {
	msg, err := serializeToMessage(s)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write rain status: %w", err)
	}
	w.logger.Debug("rain status published", "key", string(msg.Key), "raining", s.Raining)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RainStatus into a Kafka message.
func serializeToMessage(s domain.RainStatus) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize rain status: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(s.Point.String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "raining", Value: []byte(strconv.FormatBool(s.Raining))},
			{Key: "frame_time", Value: []byte(s.FrameTime.UTC().Format(time.RFC3339))},
		},
	}, nil
}
