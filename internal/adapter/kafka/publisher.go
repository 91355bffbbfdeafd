// Package kafka publishes resolved locations to a Kafka topic so downstream
// consumers (alerting, mapping, analytics) see every resolution as an event.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/location-resolution-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces location.resolved events to a Kafka topic.
// It implements resolver.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the resolved-locations topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes and writes a single resolution event. The resolver
// treats publish failures as non-fatal, so this only reports the error.
func (p *Publisher) Publish(ctx context.Context, result domain.ResolutionResult) error {
	msg, err := serializeToMessage(result)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a ResolutionResult into a Kafka message keyed
// by location name, so resolutions for the same place land on one partition.
func serializeToMessage(result domain.ResolutionResult) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize resolution result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(result.LocationName),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte("location.resolved")},
			{Key: "resolved_at", Value: []byte(result.ResolvedAt.Format(time.RFC3339))},
		},
	}, nil
}
