package repository

import (
	"context"

	"FolioPulse/internal/domain/repository"
	pkgkafka "FolioPulse/pkg/kafka"
)

// KafkaPublisher adapts the Kafka producer to the domain Publisher.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, value []byte) error {
	return p.producer.Publish(ctx, p.topic, []byte(key), value)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// LogPublisher lets the log collector flush aggregated entries through
// Kafka without depending on the producer type.
type LogPublisher struct {
	producer *pkgkafka.Producer
}

func NewLogPublisher(producer *pkgkafka.Producer) *LogPublisher {
	return &LogPublisher{producer: producer}
}

func (p *LogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}
