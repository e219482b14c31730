package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rateline/internal/modules/rating"
	"rateline/internal/types"
)

func sampleQuote() rating.Quote {
	return rating.Quote{
		ID:      "9a1f",
		Product: rating.ProductFullLoad,
		Total:   types.NewMoney(decimal.NewFromInt(66440), "KES"),
	}
}

func TestKafkaPublisher_QuoteIssued(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, _ := msg.Key.Encode()
		if string(key) != "9a1f" {
			return errors.New("unexpected key " + string(key))
		}
		value, _ := msg.Value.Encode()
		var ev QuoteIssued
		if err := json.Unmarshal(value, &ev); err != nil {
			return err
		}
		if ev.Type != TypeQuoteIssued || ev.Quote.Product != rating.ProductFullLoad {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := NewKafkaPublisherWithProducer(producer, "quotes")
	require.NoError(t, p.QuoteIssued(context.Background(), sampleQuote()))
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherWithProducer(producer, "quotes")
	err := p.QuoteIssued(context.Background(), sampleQuote())
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.QuoteIssued(context.Background(), sampleQuote()))
	assert.NoError(t, p.Close())
}
