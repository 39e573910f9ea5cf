package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/rs/zerolog"
)

// deliveryTimeout bounds how long a publish waits for broker
// acknowledgement.
const deliveryTimeout = 10 * time.Second

// kafkaPublisher implements Publisher on a Kafka topic, keyed by entity
// ID so events for the same record stay ordered within a partition.
type kafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   zerolog.Logger
}

// NewKafkaPublisher creates a Kafka-backed audit publisher.
func NewKafkaPublisher(bootstrapServers, topic string, logger zerolog.Logger) (Publisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": bootstrapServers})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	logger = logger.With().Str("component", "audit-publisher").Logger()
	logger.Info().Str("topic", topic).Msg("audit publisher initialised")

	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}, nil
}

// Publish delivers a single event and waits for broker acknowledgement.
func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)
	if err := p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.EntityID),
		Value:          payload,
	}, deliveryChan); err != nil {
		return fmt.Errorf("failed to produce audit event: %w", err)
	}

	select {
	case e := <-deliveryChan:
		msg, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event type: %T", e)
		}
		if msg.TopicPartition.Error != nil {
			return fmt.Errorf("audit event delivery failed: %w", msg.TopicPartition.Error)
		}
		p.logger.Debug().
			Str("event_type", event.EventType).
			Str("entity_id", event.EntityID).
			Msg("audit event published")
		return nil
	case <-time.After(deliveryTimeout):
		return fmt.Errorf("audit event delivery timed out after %s", deliveryTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes outstanding events and releases the producer.
func (p *kafkaPublisher) Close() {
	p.logger.Info().Msg("closing audit publisher")
	p.producer.Flush(int(deliveryTimeout / time.Millisecond))
	p.producer.Close()
}
