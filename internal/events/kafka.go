package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	applog "storefront/internal/log"
)

const (
	clientID       = "storefront"
	publishRetries = 5
)

// typed is implemented by events that know their own type; it becomes the event-type header.
type typed interface {
	Type() EventType
}

// KafkaPublisher writes each event as one JSON record keyed by document id and waits for
// every in-sync replica to acknowledge it.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	logger   *logrus.Entry
}

func NewKafkaPublisher(brokers []string) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("connect to kafka brokers %v: %w", brokers, err)
	}
	return newKafkaPublisher(producer), nil
}

// producerConfig asks for idempotent, fully acknowledged writes so a retried
// send cannot duplicate a create event.
func producerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.Idempotent = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = publishRetries
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

func newKafkaPublisher(producer sarama.SyncProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: applog.Component("events.kafka")}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", topic, err)
	}

	headers := []sarama.RecordHeader{{Key: []byte("content-type"), Value: []byte("application/json")}}
	if te, ok := event.(typed); ok {
		headers = append(headers, sarama.RecordHeader{Key: []byte("event-type"), Value: []byte(te.Type())})
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(payload),
		Headers:   headers,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", key, topic, err)
	}

	p.logger.WithFields(logrus.Fields{
		"topic":     topic,
		"key":       key,
		"partition": partition,
		"offset":    offset,
	}).Debug("event published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka publisher: %w", err)
	}
	return nil
}
