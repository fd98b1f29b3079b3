package events

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/IBM/sarama"

	"droneDispatch/internal/dispatcher"
)

var newSyncProducer = sarama.NewSyncProducer

// Producer publishes drone assignments for the flight layer.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer returns nil, nil when Kafka is not configured. A nil *Producer drops
// everything it is given.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}
	p, err := newSyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, err
	}
	return &Producer{producer: p, topic: topic}, nil
}

func producerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

// PublishAssignment sends one message keyed by order id, so events of an order share a partition.
func (p *Producer) PublishAssignment(ctx context.Context, a dispatcher.Assignment) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(a.OrderID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event"), Value: []byte("drone_assigned")},
		},
	})
	return err
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
