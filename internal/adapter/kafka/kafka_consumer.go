package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/jiten398/single-checkout-flow/internal/adapter/queue"
	"github.com/jiten398/single-checkout-flow/internal/logging"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

// HandlerFunc processes a decoded event.
type HandlerFunc func(ctx context.Context, ev usecase.OrderPlacedMsg) error

const defaultRetryBackoff = time.Second

// Consumer consumes order topics with a single handler. A handler failure ends
// the session so the partition resumes from the failed offset.
type Consumer struct {
	Group        sarama.ConsumerGroup
	Topics       []string
	Handle       HandlerFunc
	Logger       *slog.Logger
	RetryBackoff time.Duration
}

func NewConsumer(group sarama.ConsumerGroup, topics []string, h HandlerFunc) *Consumer {
	return &Consumer{
		Group:        group,
		Topics:       topics,
		Handle:       h,
		Logger:       logging.New("kafka-consumer"),
		RetryBackoff: defaultRetryBackoff,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	handler := &cgHandler{handle: c.Handle, logger: c.Logger}
	for {
		if err := c.Group.Consume(ctx, c.Topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		// Consume returns on rebalance, cancellation or a failed message.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if handler.takeFailure() && c.RetryBackoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.RetryBackoff):
			}
		}
	}
}

type cgHandler struct {
	handle HandlerFunc
	logger *slog.Logger

	mu     sync.Mutex
	failed bool
}

func (h *cgHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *cgHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim stops at the first handler failure. Offsets commit
// cumulatively, so marking anything after it would skip the failed message.
func (h *cgHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if err := h.process(sess, msg); err != nil {
			sess.ResetOffset(msg.Topic, msg.Partition, msg.Offset, "")
			h.mu.Lock()
			h.failed = true
			h.mu.Unlock()
			return fmt.Errorf("offset %d: %w", msg.Offset, err)
		}
	}
	return nil
}

func (h *cgHandler) takeFailure() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	f := h.failed
	h.failed = false
	return f
}

func (h *cgHandler) process(sess sarama.ConsumerGroupSession, msg *sarama.ConsumerMessage) error {
	var ev usecase.OrderPlacedMsg
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		h.logger.Error("kafka decode error", "err", err, "topic", msg.Topic, "offset", msg.Offset)
		// mark to avoid reprocessing poison
		sess.MarkMessage(msg, "decode-error")
		return nil
	}
	if ev.Type != usecase.OrderPlacedType {
		sess.MarkMessage(msg, "skipped")
		return nil
	}
	if err := h.handle(sess.Context(), ev); err != nil {
		if errors.Is(err, queue.ErrPoison) {
			h.logger.Error("dropping message", "err", err, "key", string(msg.Key), "offset", msg.Offset)
			sess.MarkMessage(msg, "poison")
			return nil
		}
		h.logger.Error("handler error", "err", err, "key", string(msg.Key), "offset", msg.Offset)
		return err
	}
	sess.MarkMessage(msg, "")
	return nil
}
