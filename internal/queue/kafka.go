package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taskify-api/internal/config"
	"taskify-api/internal/models"
	"taskify-api/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// TopicCreator is the subset of *kafka.Client used to set up the events topic.
type TopicCreator interface {
	CreateTopics(ctx context.Context, req *kafka.CreateTopicsRequest) (*kafka.CreateTopicsResponse, error)
}

// EnsureTopic creates the task events topic on the configured brokers. An
// existing topic is not an error. Without brokers it does nothing.
func EnsureTopic(ctx context.Context, cfg *config.Config) error {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}
	client := &kafka.Client{Addr: kafka.TCP(cfg.KafkaBrokers...), Timeout: 10 * time.Second}
	return ensureTopic(ctx, client, cfg)
}

func ensureTopic(ctx context.Context, admin TopicCreator, cfg *config.Config) error {
	topic := topicConfig(cfg)
	resp, err := admin.CreateTopics(ctx, &kafka.CreateTopicsRequest{Topics: []kafka.TopicConfig{topic}})
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic.Topic, err)
	}
	switch err := resp.Errors[topic.Topic]; {
	case err == nil:
		logger.Info(ctx, "Kafka topic created", "topic", topic.Topic,
			"partitions", topic.NumPartitions, "replication_factor", topic.ReplicationFactor)
	case errors.Is(err, kafka.TopicAlreadyExists):
		logger.Debug(ctx, "Kafka topic already exists", "topic", topic.Topic)
	default:
		return fmt.Errorf("create topic %s: %w", topic.Topic, err)
	}
	return nil
}

// topicConfig is the events topic as configured, with at least one partition
// and one replica.
func topicConfig(cfg *config.Config) kafka.TopicConfig {
	return kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     max(cfg.KafkaPartitions, 1),
		ReplicationFactor: max(cfg.KafkaReplicationFactor, 1),
	}
}

// MessageWriter is the subset of *kafka.Writer used by EventPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisher publishes task events to Kafka, keyed by task id so every
// event for one task lands on the same partition in order.
type EventPublisher struct {
	w MessageWriter
}

// NewEventPublisher builds an async publisher for cfg. It returns nil when no
// brokers are configured; a nil *EventPublisher drops every event.
func NewEventPublisher(ctx context.Context, cfg *config.Config) *EventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info(ctx, "Task events disabled (no Kafka brokers)")
		return nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		Async:        true,
		RequiredAcks: kafka.RequireOne,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				logger.Warn(context.Background(), "Task event delivery failed", "error", err, "count", len(msgs))
			}
		},
	}
	logger.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return &EventPublisher{w: w}
}

// NewEventPublisherWithWriter wraps an existing writer.
func NewEventPublisherWithWriter(w MessageWriter) *EventPublisher {
	return &EventPublisher{w: w}
}

// Publish sends ev. Non-blocking when using the async writer.
func (p *EventPublisher) Publish(ctx context.Context, ev *models.TaskEvent) error {
	if p == nil || p.w == nil {
		return nil
	}
	msg, err := message(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, msg)
}

// Close flushes pending messages and closes the writer.
func (p *EventPublisher) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

func message(ev *models.TaskEvent) (kafka.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal task event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(ev.TaskID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}, nil
}
