package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	ClientID     string
	BatchTimeout time.Duration
}

func (c KafkaConfig) normalize() KafkaConfig {
	brokers := make([]string, 0, len(c.Brokers))
	for _, broker := range c.Brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	c.Brokers = brokers
	c.Topic = strings.TrimSpace(c.Topic)
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 10 * time.Millisecond
	}
	return c
}

// Validate reports missing brokers or topic.
func (c KafkaConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.New("events: kafka brokers are required")
	}
	if c.Topic == "" {
		return errors.New("events: kafka topic is required")
	}
	return nil
}

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka writes events as JSON messages keyed by Event.Key.
type Kafka struct {
	writer messageWriter
	topic  string
}

var _ Publisher = (*Kafka)(nil)

// NewKafka builds a publisher for cfg.
func NewKafka(cfg KafkaConfig, logger *slog.Logger) (*Kafka, error) {
	cfg = cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
	}
	if cfg.ClientID != "" {
		writer.Transport = &kafka.Transport{ClientID: cfg.ClientID}
	}

	logger.Info("kafka publisher initialised", "brokers", strings.Join(cfg.Brokers, ","), "topic", cfg.Topic)
	return &Kafka{writer: writer, topic: cfg.Topic}, nil
}

func (k *Kafka) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", event.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(event.Key()),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write %s to %s: %w", event.Type, k.topic, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	if k == nil || k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
