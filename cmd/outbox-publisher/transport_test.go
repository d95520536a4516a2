package main

import (
	"context"
	"errors"
	"testing"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/angelmondragon/autocenter-backend/pkg/db/models"
	"github.com/angelmondragon/autocenter-backend/pkg/enums"
	"github.com/angelmondragon/autocenter-backend/pkg/outbox"
)

type fakeTopicPublisher struct {
	err    error
	topics []string
	sent   []*pubsub.Message
}

func (f *fakeTopicPublisher) Publish(_ context.Context, topic string, msg *pubsub.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.topics = append(f.topics, topic)
	f.sent = append(f.sent, msg)
	return "server-id", nil
}

func TestPubSubWriterMapsOutboxMessage(t *testing.T) {
	event := newOrderEvent(t, "evt-1", 0)
	resolved := orderResolved()
	resolved.Envelope = outbox.PayloadEnvelope{EventID: "evt-1"}

	publisher := &fakeTopicPublisher{}
	if err := newPubSubWriter(publisher).WriteMessages(context.Background(), buildMessage(event, resolved)); err != nil {
		t.Fatalf("write messages: %v", err)
	}

	if len(publisher.sent) != 1 || publisher.topics[0] != "autocenter.order" {
		t.Fatalf("unexpected publishes topics=%v", publisher.topics)
	}
	msg := publisher.sent[0]
	if msg.OrderingKey != event.AggregateID.String() {
		t.Fatalf("expected ordering key %s, got %s", event.AggregateID, msg.OrderingKey)
	}
	if string(msg.Data) != string(event.Payload) {
		t.Fatalf("payload not forwarded: %s", msg.Data)
	}
	if msg.Attributes["event_id"] != "evt-1" || msg.Attributes["event_type"] != string(enums.EventOrderCreated) {
		t.Fatalf("unexpected attributes %v", msg.Attributes)
	}
}

func TestPubSubPublishFailureMarksRowFailed(t *testing.T) {
	repo := &fakeRepo{events: []models.OutboxEvent{newOrderEvent(t, "evt-2", 0)}}
	writer := newPubSubWriter(&fakeTopicPublisher{err: errors.New("unavailable")})
	service := newTestService(t, repo, writer, &fakeRegistry{resolved: orderResolved()}, &fakeDLQRepo{}, nil)

	processed, err := service.processBatch(context.Background())
	if err != nil {
		t.Fatalf("process batch: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to be processed")
	}
	if len(repo.failed) != 1 || len(repo.published) != 0 {
		t.Fatalf("expected one failed and no published rows, got failed=%d published=%d", len(repo.failed), len(repo.published))
	}
}
