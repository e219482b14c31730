// README: Quote events published by callers after a successful rating call.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"rateline/internal/modules/rating"
)

const TypeQuoteIssued = "quote.issued"

type QuoteIssued struct {
	Type  string       `json:"type"`
	Quote rating.Quote `json:"quote"`
}

type Publisher interface {
	QuoteIssued(ctx context.Context, q rating.Quote) error
	Close() error
}

// KafkaPublisher writes one message per quote, keyed by quote id.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) QuoteIssued(ctx context.Context, q rating.Quote) error {
	data, err := json.Marshal(QuoteIssued{Type: TypeQuoteIssued, Quote: q})
	if err != nil {
		return fmt.Errorf("encode quote event: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(q.ID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(TypeQuoteIssued)},
			{Key: []byte("product"), Value: []byte(q.Product)},
		},
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("send quote event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) QuoteIssued(ctx context.Context, q rating.Quote) error { return nil }

func (NopPublisher) Close() error { return nil }
