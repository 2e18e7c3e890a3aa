package applicantinfra

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Abraxas-365/intake/recruitment/applicant"
	"github.com/twmb/franz-go/pkg/kgo"
)

// producer is the part of *kgo.Client the publisher uses
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaPublisher publishes applicant events to a Kafka topic, keyed by
// project so a project's events stay ordered within a partition.
type KafkaPublisher struct {
	client producer
	topic  string
}

var _ applicant.EventPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event applicant.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.ProjectID.String()),
		Value: data,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "tenant_id", Value: []byte(event.TenantID.String())},
		},
	}

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event %s: %w", event.ID, err)
	}
	return nil
}

// Close releases the client
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
