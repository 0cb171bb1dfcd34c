package events

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/IBM/sarama"
	"github.com/code19m/errx"
)

// Producer publishes lifecycle events to a Kafka topic, keyed by the
// file's external id so events for one file stay ordered within a partition.
type Producer struct {
	topic        string
	syncProducer sarama.SyncProducer
}

// NewProducer creates a Kafka-backed event publisher.
func NewProducer(cfg Config) (*Producer, error) {
	saramaCfg, err := cfg.getSaramaConfig()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	producer, err := sarama.NewSyncProducer(strings.Split(cfg.Brokers, ","), saramaCfg)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &Producer{
		topic:        cfg.Topic,
		syncProducer: producer,
	}, nil
}

// newWithProducer wires an existing sarama producer; used by tests.
func newWithProducer(topic string, sp sarama.SyncProducer) *Producer {
	return &Producer{topic: topic, syncProducer: sp}
}

// Publish implements Publisher.
func (p *Producer) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return errx.Wrap(err)
	}

	value, err := json.Marshal(e)
	if err != nil {
		return errx.Wrap(err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.ExternalID),
		Value: sarama.ByteEncoder(value),
	}

	partition, offset, err := p.syncProducer.SendMessage(msg)
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(errx.D{
			"topic":     p.topic,
			"partition": partition,
			"offset":    offset,
			"event":     e.Event,
		}))
	}

	return nil
}

// Close closes the underlying producer.
func (p *Producer) Close() error {
	return errx.Wrap(p.syncProducer.Close())
}
