package repository

import (
	"context"
	"fmt"

	"WaveCast/internal/domain/models"
	domrepo "WaveCast/internal/domain/repository"
	pkgkafka "WaveCast/pkg/kafka"
)

// KafkaPredictionPublisher emits predictions to a Kafka topic, keyed by
// symbol so per-symbol ordering is preserved.
type KafkaPredictionPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPredictionPublisher(producer *pkgkafka.Producer, topic string) *KafkaPredictionPublisher {
	return &KafkaPredictionPublisher{producer: producer, topic: topic}
}

var _ domrepo.PredictionPublisher = (*KafkaPredictionPublisher)(nil)

func (p *KafkaPredictionPublisher) PublishPrediction(ctx context.Context, pred *models.Prediction) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(pred.Symbol), pred); err != nil {
		return fmt.Errorf("publish prediction %s: %w", pred.Symbol, err)
	}
	return nil
}

func (p *KafkaPredictionPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher satisfies PredictionPublisher when no broker is configured.
type NoopPublisher struct{}

var _ domrepo.PredictionPublisher = (*NoopPublisher)(nil)

func (NoopPublisher) PublishPrediction(context.Context, *models.Prediction) error { return nil }
func (NoopPublisher) Close() error                                                { return nil }
