package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	pub := newKafkaPublisher(mockProducer)

	order := domain.Order{ID: "o-1", UserID: "u1", Total: 40, Items: []domain.OrderItem{{ProductID: "p-a", Qty: 2}}}
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got OrderEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.EventType != EventTypeOrderCreated || got.OrderID != "o-1" || got.UserID != "u1" {
			return errors.New("unexpected payload: " + string(val))
		}
		if len(got.Items) != 1 || got.Items[0].ProductID != "p-a" || got.Items[0].Qty != 2 {
			return errors.New("unexpected items: " + string(val))
		}
		return nil
	})

	require.NoError(t, pub.Publish(context.Background(), "orders", "o-1", NewOrderEvent(order)))
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	pub := newKafkaPublisher(mockProducer)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := pub.Publish(context.Background(), "orders", "o-1", NewOrderEvent(domain.Order{ID: "o-1"}))
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_CanceledContext(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	pub := newKafkaPublisher(mockProducer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, pub.Publish(ctx, "orders", "o-1", struct{}{}), context.Canceled)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_UnencodableEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	pub := newKafkaPublisher(mockProducer)

	err := pub.Publish(context.Background(), "orders", "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal event for orders")
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_Headers(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	pub := newKafkaPublisher(mockProducer)

	mockProducer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[string(h.Key)] = string(h.Value)
		}
		if headers["event-type"] != string(EventTypeProductCreated) || headers["content-type"] != "application/json" {
			return errors.New("unexpected headers")
		}
		key, err := msg.Key.Encode()
		if err != nil || string(key) != "p-1" {
			return errors.New("unexpected key")
		}
		return nil
	})

	require.NoError(t, pub.Publish(context.Background(), "products", "p-1", NewProductEvent(domain.Product{ID: "p-1", Name: "Tee"})))
	require.NoError(t, pub.Close())
}

func TestProducerConfig(t *testing.T) {
	cfg := producerConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Producer.Idempotent)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.True(t, cfg.Producer.Return.Successes)
	assert.Equal(t, "storefront", cfg.ClientID)
}
