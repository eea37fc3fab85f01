package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"claimbank/internal/events"
)

// Publisher emits registry events to a Kafka topic as JSON records.
// Records are keyed by claim id so per-claim ordering survives
// partitioning, and produced synchronously so emission order matches
// commit order.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// NewPublisher connects to the brokers and ensures the topic exists.
func NewPublisher(ctx context.Context, brokers []string, topic string) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, 1, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create topic %s: %w", topic, err)
	}
	// An existing topic is fine; anything else is a real failure.
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		client.Close()
		return nil, fmt.Errorf("create topic %s: %w", topic, resp.Err)
	}

	return &Publisher{client: client, topic: topic}, nil
}

func (p *Publisher) Emit(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(strconv.FormatInt(event.ClaimID, 10)),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event %s: %w", event.ID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.client.Close()
	return nil
}
