package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WatermillEventPublisher publishes events as JSON watermill messages
type WatermillEventPublisher struct {
	publisher   message.Publisher
	topicPrefix string
	logger      *slog.Logger
}

// NewWatermillEventPublisher wraps any watermill publisher
func NewWatermillEventPublisher(publisher message.Publisher, topicPrefix string, logger *slog.Logger) *WatermillEventPublisher {
	return &WatermillEventPublisher{
		publisher:   publisher,
		topicPrefix: topicPrefix,
		logger:      logger,
	}
}

// NewInMemoryEventPublisher publishes on an in-process go channel pub/sub
func NewInMemoryEventPublisher(topicPrefix string, logger *slog.Logger) *WatermillEventPublisher {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(logger))
	return NewWatermillEventPublisher(pubSub, topicPrefix, logger)
}

// NewKafkaEventPublisher publishes to the given kafka brokers
func NewKafkaEventPublisher(brokers []string, topicPrefix string, logger *slog.Logger) (*WatermillEventPublisher, error) {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:               brokers,
		Marshaler:             kafka.DefaultMarshaler{},
		OverwriteSaramaConfig: kafka.DefaultSaramaSyncPublisherConfig(),
	}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return NewWatermillEventPublisher(publisher, topicPrefix, logger), nil
}

// Topic returns the topic an event type is published on
func (p *WatermillEventPublisher) Topic(eventType string) string {
	if p.topicPrefix == "" {
		return eventType
	}
	return p.topicPrefix + "." + eventType
}

// Publish marshals the event and publishes it on its topic
func (p *WatermillEventPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	topic := p.Topic(event.Type)
	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", topic, err)
	}

	p.logger.Debug("Event published", "event_id", event.ID, "event_type", event.Type, "topic", topic)
	return nil
}

// Subscribe listens on an event type when the underlying pub/sub supports it
func (p *WatermillEventPublisher) Subscribe(ctx context.Context, eventType string) (<-chan *message.Message, error) {
	subscriber, ok := p.publisher.(message.Subscriber)
	if !ok {
		return nil, fmt.Errorf("publisher does not support subscriptions")
	}
	return subscriber.Subscribe(ctx, p.Topic(eventType))
}

func (p *WatermillEventPublisher) Close() error {
	return p.publisher.Close()
}
