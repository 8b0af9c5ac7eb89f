package config

import (
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/exam-prep-service/internal/events"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled         bool   `env:"EVENTS_ENABLED" envDefault:"false"`
	Publisher       string `env:"EVENTS_PUBLISHER" envDefault:"kafka"` // kafka or mock
	KafkaBrokers    string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	StatsTopic      string `env:"STATS_TOPIC" envDefault:"exam-prep.stats"`
	PublishAttempts int    `env:"EVENTS_PUBLISH_ATTEMPTS" envDefault:"3"`
}

// LoadEventConfig reads the event settings from the environment.
func LoadEventConfig() EventConfig {
	return EventConfig{
		Enabled:         getEnvBool("EVENTS_ENABLED", false),
		Publisher:       getEnv("EVENTS_PUBLISHER", "kafka"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		StatsTopic:      getEnv("STATS_TOPIC", "exam-prep.stats"),
		PublishAttempts: getEnvInt("EVENTS_PUBLISH_ATTEMPTS", 3),
	}
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.StatsTopic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers:  c.GetKafkaBrokers(),
			TopicName:     c.StatsTopic,
			RetryAttempts: c.PublishAttempts,
			Logger:        logger,
		})
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}
