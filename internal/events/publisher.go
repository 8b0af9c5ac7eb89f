package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventPublisher defines the interface for publishing activity events
type EventPublisher interface {
	PublishActivityEvent(ctx context.Context, event *ActivityEvent) error
	Close() error
}

// KafkaEventPublisher implements EventPublisher using Watermill with Kafka
type KafkaEventPublisher struct {
	publisher     message.Publisher
	logger        *slog.Logger
	topicName     string
	retryAttempts int
}

// PublisherConfig holds configuration for the event publisher
type PublisherConfig struct {
	KafkaBrokers  []string
	TopicName     string
	RetryAttempts int
	Logger        *slog.Logger
}

// NewKafkaEventPublisher creates a new Kafka-based event publisher using Watermill
func NewKafkaEventPublisher(config PublisherConfig) (*KafkaEventPublisher, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	publisherConfig := kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}

	publisher, err := kafka.NewPublisher(publisherConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &KafkaEventPublisher{
		publisher:     publisher,
		logger:        config.Logger,
		topicName:     config.TopicName,
		retryAttempts: max(config.RetryAttempts, 1),
	}, nil
}

// NewMessage converts an activity event into a Watermill message.
func NewMessage(event *ActivityEvent) (*message.Message, error) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal activity event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("user_id", event.UserID)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339))
	return msg, nil
}

// PublishActivityEvent publishes an activity event to Kafka
func (p *KafkaEventPublisher) PublishActivityEvent(ctx context.Context, event *ActivityEvent) error {
	msg, err := NewMessage(event)
	if err != nil {
		return err
	}
	msg.SetContext(ctx)

	for attempt := 1; ; attempt++ {
		err = p.publisher.Publish(p.topicName, msg)
		if err == nil {
			break
		}
		if attempt >= p.retryAttempts || ctx.Err() != nil {
			p.logger.Error("Failed to publish activity event",
				"event_id", event.ID,
				"event_type", event.Type,
				"attempts", attempt,
				"error", err)
			return fmt.Errorf("failed to publish activity event: %w", err)
		}
		p.logger.Warn("Retrying activity event publish",
			"event_id", event.ID,
			"attempt", attempt,
			"error", err)
	}

	p.logger.Info("Published activity event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topicName)

	return nil
}

// Close closes the publisher and releases resources
func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// MockEventPublisher keeps published events in memory. It is used when
// publishing is disabled and in tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []ActivityEvent
	Logger *slog.Logger
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]ActivityEvent, 0),
		Logger: logger,
	}
}

// PublishActivityEvent stores the event in memory
func (m *MockEventPublisher) PublishActivityEvent(ctx context.Context, event *ActivityEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, *event)
	m.mu.Unlock()

	m.Logger.Info("Mock: Published activity event",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

// Close is a no-op for the mock publisher
func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a copy of all published events
func (m *MockEventPublisher) GetPublishedEvents() []ActivityEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ActivityEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

// ClearEvents clears all published events
func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	m.Events = make([]ActivityEvent, 0)
	m.mu.Unlock()
}
