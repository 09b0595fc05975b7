//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/roadwatch/road-risk-dashboard/internal/adapter/kafka"
	"github.com/roadwatch/road-risk-dashboard/internal/dataset"
	"github.com/roadwatch/road-risk-dashboard/internal/domain"
)

const testExportTopic = "test-road-risk-records"

// startKafka spins up a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.6.1",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve broker addresses")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp",
		net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// exportedMessage holds a deserialized message read from the export topic.
type exportedMessage struct {
	Record  domain.RoadRecord
	Key     string
	Headers map[string]string
}

func readExported(ctx context.Context, t *testing.T, consumer *kafkago.Reader) exportedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from export topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var record domain.RoadRecord
	require.NoError(t, json.Unmarshal(msg.Value, &record), "unmarshal exported record")

	return exportedMessage{
		Record:  record,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

const testCSV = `city,road_name,risk_score,latitude,longitude
Lahore,Mall Road,0.75,31.5600,74.3300
Lahore,Canal Road,0.45,31.5100,74.3500
Lahore,Jail Road,abc,31.5450,74.3250
Karachi,Shahrah-e-Faisal,0.62,24.8700,67.0700
`

// TestKafkaExport publishes a classified dataset through kafka.Writer and
// reads it back, verifying keys, headers, and the null risk_score produced
// by a coerced row.
func TestKafkaExport(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testExportTopic)

	data, stats, err := dataset.Load(strings.NewReader(testCSV))
	require.NoError(t, err)
	require.Len(t, data, 4)
	require.Equal(t, 1, stats.InvalidScores)

	writer := kafka.NewWriter([]string{broker}, testExportTopic, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishBatch(ctx, data))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testExportTopic,
		GroupID:     fmt.Sprintf("test-export-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make([]exportedMessage, 0, len(data))
	for len(received) < len(data) {
		received = append(received, readExported(ctx, t, consumer))
	}

	byRoad := make(map[string]exportedMessage, len(received))
	for _, em := range received {
		byRoad[em.Record.RoadName] = em

		assert.Equal(t, em.Record.ID, em.Key, "message key should be the record ID")
		assert.Equal(t, string(em.Record.RiskCategory), em.Headers["risk_category"])
		require.Contains(t, em.Headers, "exported_at")
		_, err := time.Parse(time.RFC3339, em.Headers["exported_at"])
		assert.NoError(t, err, "exported_at should be valid RFC3339")
	}

	mall := byRoad["Mall Road"]
	assert.Equal(t, "Lahore", mall.Record.City)
	assert.Equal(t, domain.CategoryHigh, mall.Record.RiskCategory)
	assert.Equal(t, 0.75, float64(mall.Record.RiskScore))

	// The coerced row survives the round trip as a missing score, still Low.
	jail := byRoad["Jail Road"]
	assert.Equal(t, domain.CategoryLow, jail.Record.RiskCategory)
	assert.True(t, math.IsNaN(float64(jail.Record.RiskScore)))

	// Re-exporting produces identical keys: record IDs are deterministic.
	again, _, err := dataset.Load(strings.NewReader(testCSV))
	require.NoError(t, err)
	for i := range data {
		assert.Equal(t, data[i].ID, again[i].ID)
	}
}
