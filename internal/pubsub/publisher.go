package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"repurpose/internal/model"

	"cloud.google.com/go/pubsub"
)

// Publisher defines an interface for publishing messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// PubSubPublisher is an implementation of Publisher using Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client
}

// NewPublisher creates a new PubSubPublisher for the given GCP project.
func NewPublisher(ctx context.Context, projectID string) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client}, nil
}

// Publish sends the payload to the given Pub/Sub topic and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	t := p.client.Topic(topic)
	result := t.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}

func (p *PubSubPublisher) Close() error {
	return p.client.Close()
}

// EventPublisher announces finished generations to downstream consumers.
type EventPublisher interface {
	PublishGeneration(ctx context.Context, event model.GenerationEvent) error
}

type topicEventPublisher struct {
	publisher Publisher
	topic     string
}

// NewEventPublisher encodes events as JSON and sends them to topic.
func NewEventPublisher(publisher Publisher, topic string) EventPublisher {
	return &topicEventPublisher{publisher: publisher, topic: topic}
}

func (p *topicEventPublisher) PublishGeneration(ctx context.Context, event model.GenerationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal generation event: %w", err)
	}
	if _, err := p.publisher.Publish(ctx, p.topic, payload); err != nil {
		return err
	}
	return nil
}

// NopEventPublisher drops every event. Used when no topic is configured.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishGeneration(context.Context, model.GenerationEvent) error { return nil }
