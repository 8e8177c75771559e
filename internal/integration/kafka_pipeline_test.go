//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/biomass-pathways-api/internal/adapter/kafka"
	"github.com/couchcryptid/biomass-pathways-api/internal/adapter/surrogate"
	"github.com/couchcryptid/biomass-pathways-api/internal/catalog"
	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
	"github.com/couchcryptid/biomass-pathways-api/internal/gateway"
	"github.com/couchcryptid/biomass-pathways-api/internal/observability"
	"github.com/couchcryptid/biomass-pathways-api/internal/service"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "test-pathway-calculations"

// publishedMessage holds a deserialized message read from the events topic.
type publishedMessage struct {
	Event   domain.CalculationEvent
	Key     string
	Headers map[string]string
}

func readPublished(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from events topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.CalculationEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal event")

	return publishedMessage{Event: event, Key: string(msg.Key), Headers: headers}
}

func newConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestPublisherRoundTrip verifies that kafka.Publisher writes the event key,
// headers and JSON body a consumer expects.
func TestPublisherRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	publisher := kafka.NewPublisher([]string{broker}, testTopic, 10*time.Second, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	event := domain.NewCalculationEvent()
	event.Pathway = domain.Combustion
	event.Source = domain.SourceCalc
	event.InputValue = 100
	event.InputUnit = domain.UnitTonsPerYear
	event.FeedstockKgPerHour = 10.3556
	event.Product = "electricity"
	require.NoError(t, publisher.Publish(ctx, event))

	pm := readPublished(ctx, t, newConsumer(t, broker))
	assert.Equal(t, event.ID, pm.Key)
	assert.Equal(t, "combustion", pm.Headers["pathway"])
	_, err := time.Parse(time.RFC3339, pm.Headers["computed_at"])
	assert.NoError(t, err, "computed_at should be valid RFC3339")
	assert.Equal(t, domain.UnitTonsPerYear, pm.Event.InputUnit)
	assert.InDelta(t, 10.3556, pm.Event.FeedstockKgPerHour, 1e-9)
}

// TestServicePublishesCalculations wires the service with the embedded
// catalog, the surrogate simulator and a real broker, then checks that both
// calc and county requests land on the topic.
func TestServicePublishesCalculations(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cat, err := catalog.Load("")
	require.NoError(t, err)
	sim, err := surrogate.New()
	require.NoError(t, err)

	metrics := observability.NewMetricsForTesting()
	gw := gateway.New(sim, gateway.Options{QueueTimeout: 5 * time.Second}, metrics, discardLogger())

	publisher := kafka.NewPublisher([]string{broker}, testTopic, 10*time.Second, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	svc := service.New(cat, gw, publisher, service.Options{PublishTimeout: 10 * time.Second}, metrics, discardLogger())

	calc, err := svc.Calculate(ctx, "fermentation", service.Quantity{Value: 100, Unit: "tons"}, domain.Overrides{})
	require.NoError(t, err)
	county, err := svc.CalculateCounty(ctx, "htl", "cape may", domain.Overrides{})
	require.NoError(t, err)

	consumer := newConsumer(t, broker)
	got := map[string]publishedMessage{}
	for len(got) < 2 {
		pm := readPublished(ctx, t, consumer)
		got[pm.Event.Source] = pm
	}

	byCalc := got[domain.SourceCalc].Event
	assert.Equal(t, domain.Fermentation, byCalc.Pathway)
	assert.Equal(t, "ethanol", byCalc.Product)
	assert.Equal(t, domain.UnitTonsPerYear, byCalc.InputUnit)
	assert.InDelta(t, calc.KgPerHour, byCalc.FeedstockKgPerHour, 1e-9)
	assert.InDelta(t, calc.Result.Price, byCalc.Price, 1e-9)
	assert.Empty(t, byCalc.County)

	byCounty := got[domain.SourceCounty].Event
	assert.Equal(t, domain.HTL, byCounty.Pathway)
	assert.Equal(t, "Cape May", byCounty.County)
	assert.InDelta(t, county.KgPerHour, byCounty.FeedstockKgPerHour, 1e-9)
	assert.InDelta(t, 779.17, byCounty.FeedstockKgPerHour, 0.01)
	assert.Equal(t, domain.UnitMGD, byCounty.InputUnit)
	assert.InDelta(t, 18.7, byCounty.InputValue, 1e-9)
}
