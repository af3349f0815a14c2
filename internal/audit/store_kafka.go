package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	dErrors "opus/pkg/domain-errors"
)

// KafkaSink streams audit events to a Kafka topic, keyed by author so all
// events for one author land on the same partition in order. The sink is
// write-only; querying happens in whatever consumes the topic. Combine with
// Tee to keep a queryable local store alongside the stream.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink connects to the brokers and ensures the topic exists.
func NewKafkaSink(ctx context.Context, brokers []string, topic string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	// One partition per topic is enough: ordering matters more than
	// throughput for an audit trail. Ignore "already exists" responses.
	resp, err := admin.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ensure audit topic: %w", err)
	}
	for _, t := range resp.Sorted() {
		if t.Err != nil && !errors.Is(t.Err, kerr.TopicAlreadyExists) {
			client.Close()
			return nil, fmt.Errorf("create audit topic %s: %w", t.Topic, t.Err)
		}
	}

	return &KafkaSink{client: client, topic: topic}, nil
}

type kafkaPayload struct {
	Timestamp string `json:"timestamp"`
	Author    string `json:"author"`
	Action    string `json:"action"`
	BucketID  string `json:"bucket_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(kafkaPayload{
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Author:    event.Author,
		Action:    event.Action,
		BucketID:  event.BucketID,
		Reason:    event.Reason,
		RequestID: event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Author),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// ListByAuthor is not supported: the stream is consumed downstream.
func (s *KafkaSink) ListByAuthor(context.Context, string) ([]Event, error) {
	return nil, dErrors.New(dErrors.CodeInternal, "kafka audit sink is write-only")
}

func (s *KafkaSink) Close() {
	s.client.Close()
}

// Tee appends every event to both stores and reads from the primary.
// Used to pair a queryable store with the Kafka stream.
type Tee struct {
	Primary   Store
	Secondary Store
}

func (t Tee) Append(ctx context.Context, event Event) error {
	if err := t.Primary.Append(ctx, event); err != nil {
		return err
	}
	return t.Secondary.Append(ctx, event)
}

func (t Tee) ListByAuthor(ctx context.Context, author string) ([]Event, error) {
	return t.Primary.ListByAuthor(ctx, author)
}
