//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/radar-rain-monitor/internal/adapter/fixture"
	"github.com/couchcryptid/radar-rain-monitor/internal/adapter/kafka"
	"github.com/couchcryptid/radar-rain-monitor/internal/config"
	"github.com/couchcryptid/radar-rain-monitor/internal/domain"
	"github.com/couchcryptid/radar-rain-monitor/internal/observability"
	"github.com/couchcryptid/radar-rain-monitor/internal/pipeline"
	"github.com/couchcryptid/radar-rain-monitor/internal/status"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testStatusTopic = "test-rain-status"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("rainmon-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestMonitorPublishesStatusToKafka runs one monitor cycle against the bundled
// radar frame and reads the resulting status back from the topic.
func TestMonitorPublishesStatusToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testStatusTopic)

	cfg := &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaStatusTopic: testStatusTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	clock := clockwork.NewFakeClock()
	store := status.NewStore(clock, time.Hour)
	metrics := observability.NewMetricsForTesting()
	point := domain.Point{Lat: 46.0620872, Lon: 14.5428026}

	m := pipeline.NewMonitor(pipeline.MonitorConfig{
		Point:        point,
		Interval:     time.Minute,
		CycleTimeout: 30 * time.Second,
		Clock:        clock,
	}, fixture.New(), pipeline.NewLoader(discardLogger(), metrics), store, discardLogger(), metrics, writer)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- m.Run(runCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testStatusTopic,
		StartOffset: kafkago.FirstOffset,
		MaxWait:     500 * time.Millisecond,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from status topic")

	stop()
	require.NoError(t, <-done)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, point.String(), string(msg.Key))
	assert.Equal(t, "true", headers["raining"])
	assert.Equal(t, "2019-11-21T02:45:00Z", headers["frame_time"])

	var got domain.RainStatus
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.True(t, got.Raining)
	assert.Equal(t, point, got.Point)

	page := store.Get()
	assert.Contains(t, page, "Precipitation: true")
}
