package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink publishes audit events to a Kafka topic, one JSON record per
// event, keyed by request ID so a request's events land in one partition.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink connects to the brokers and ensures the audit topic exists.
func NewKafkaSink(ctx context.Context, brokers []string, topic string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopic(ctx, client, topic); err != nil {
		client.Close()
		return nil, err
	}

	return &KafkaSink{client: client, topic: topic}, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	admin := kadm.NewClient(client)
	_, err := admin.CreateTopic(ctx, -1, -1, nil, topic)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("ensure audit topic %q: %w", topic, err)
	}
	return nil
}

func (s *KafkaSink) Append(ctx context.Context, events []Event) error {
	records := make([]*kgo.Record, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal audit event %s: %w", event.ID, err)
		}
		records = append(records, &kgo.Record{
			Topic: s.topic,
			Key:   []byte(event.RequestID),
			Value: payload,
		})
	}

	if err := s.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce audit events: %w", err)
	}
	return nil
}

// Close flushes and releases the Kafka client.
func (s *KafkaSink) Close() {
	s.client.Close()
}
