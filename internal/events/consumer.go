// Package events connects the dispatcher to Kafka: checkout events in, assignments out.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"droneDispatch/internal/apperr"
	"droneDispatch/internal/dispatcher"
	"droneDispatch/internal/logx"
)

// HandleFunc processes a single order-placed event.
type HandleFunc func(context.Context, dispatcher.OrderPlaced) error

var newConsumerGroup = sarama.NewConsumerGroup

// Consumer wraps a Sarama consumer group and passes order events to a handler.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler HandleFunc
	logger  logx.Logger
	backoff time.Duration
}

// NewConsumer creates a consumer group member for topic. It returns nil, nil when Kafka is
// not configured; a nil *Consumer is safe to Run and Close.
func NewConsumer(logger logx.Logger, brokers []string, groupID, topic string, h HandleFunc) (*Consumer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" || strings.TrimSpace(groupID) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logx.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	group, err := newConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{
		group:   group,
		topic:   topic,
		handler: h,
		logger:  logger.With(logx.String("topic", topic)),
		backoff: time.Second,
	}, nil
}

// Run consumes until ctx is cancelled, rejoining the group after errors.
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}
	h := &groupHandler{c: c}
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("kafka consume error", logx.Err(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff):
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

type groupHandler struct{ c *Consumer }

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim marks malformed and permanently invalid events as consumed so they do not
// block the partition. Any other handler error ends the claim without marking, and the
// message is redelivered after the group rejoins.
func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log := h.c.logger
	for msg := range claim.Messages() {
		var dto orderPlacedDTO
		if err := json.Unmarshal(msg.Value, &dto); err != nil {
			log.Warn("kafka bad json", logx.Int("partition", int(msg.Partition)), logx.Any("offset", msg.Offset), logx.Err(err))
			sess.MarkMessage(msg, "")
			continue
		}
		ev := dto.toEvent()
		if ev.OrderID == "" {
			log.Warn("kafka empty order_id", logx.Any("offset", msg.Offset))
			sess.MarkMessage(msg, "")
			continue
		}

		if err := h.c.handler(sess.Context(), ev); err != nil {
			if errors.Is(err, apperr.ErrInvalid) {
				log.Warn("kafka invalid order, skipping message", logx.OrderID(ev.OrderID), logx.Err(err))
				sess.MarkMessage(msg, "")
				continue
			}
			log.Error("kafka handle failed, will retry", logx.OrderID(ev.OrderID), logx.Err(err))
			return err
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}
