package main

import (
	"context"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/segmentio/kafka-go"
)

// topicPublisher is the subset of *pkg/pubsub.Client the Pub/Sub transport needs.
type topicPublisher interface {
	Publish(ctx context.Context, topic string, msg *pubsub.Message) (string, error)
}

// pubsubWriter publishes outbox messages to Pub/Sub. The Kafka key becomes
// the ordering key and headers become attributes.
type pubsubWriter struct {
	publisher topicPublisher
}

func newPubSubWriter(publisher topicPublisher) *pubsubWriter {
	return &pubsubWriter{publisher: publisher}
}

func (w *pubsubWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, msg := range msgs {
		if _, err := w.publisher.Publish(ctx, msg.Topic, toPubSubMessage(msg)); err != nil {
			return fmt.Errorf("publish to %s: %w", msg.Topic, err)
		}
	}
	return nil
}

func toPubSubMessage(msg kafka.Message) *pubsub.Message {
	attrs := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		attrs[h.Key] = string(h.Value)
	}
	return &pubsub.Message{
		Data:        msg.Value,
		Attributes:  attrs,
		OrderingKey: string(msg.Key),
	}
}
