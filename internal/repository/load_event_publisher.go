package repository

import (
	"context"

	"HealthPull/internal/domain/models"
	"HealthPull/internal/domain/repository"
	pkgcache "HealthPull/pkg/cache"
	pkgkafka "HealthPull/pkg/kafka"
)

// KafkaEventPublisher implements EventPublisher for Kafka.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaEventPublisher creates Kafka publisher.
func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) repository.EventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, e *models.LoadEvent) error {
	return p.producer.Publish(ctx, p.topic, eventKey(e), toMessage(e))
}

func (p *KafkaEventPublisher) PublishBatch(ctx context.Context, events []*models.LoadEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(events))
	for i, e := range events {
		msgs[i] = pkgkafka.Message{Key: eventKey(e), Value: toMessage(e)}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// eventKey keeps a subject's events on one partition without exposing the raw id.
func eventKey(e *models.LoadEvent) []byte {
	return []byte(pkgcache.HashKey(e.SubjectID))
}

func toMessage(e *models.LoadEvent) map[string]interface{} {
	return map[string]interface{}{
		"kind":        e.Kind,
		"subject":     pkgcache.HashKey(e.SubjectID),
		"start_date":  e.StartDate,
		"end_date":    e.EndDate,
		"outcome":     e.Outcome,
		"rows":        e.Rows,
		"duration_ms": e.Duration,
		"ts":          e.Timestamp.Unix(),
	}
}

// NoopEventPublisher discards events; used when Kafka is disabled.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, *models.LoadEvent) error { return nil }
func (NoopEventPublisher) PublishBatch(context.Context, []*models.LoadEvent) error { return nil }
func (NoopEventPublisher) Close() error { return nil }

var _ repository.EventPublisher = NoopEventPublisher{}
