package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const maxBackoff = 30 * time.Second

// Handler processes one decoded booking event.
type Handler func(ctx context.Context, ev BookingCreatedEvent) error

// Consumer reads booking.created and hands each event to a Handler.
type Consumer struct {
	url     string
	logger  *slog.Logger
	handler Handler
}

func NewConsumer(url string, logger *slog.Logger, handler Handler) *Consumer {
	if handler == nil {
		handler = LogHandler(logger)
	}
	return &Consumer{url: url, logger: logger, handler: handler}
}

// LogHandler records every booking at info level.
func LogHandler(logger *slog.Logger) Handler {
	return func(_ context.Context, ev BookingCreatedEvent) error {
		logger.Info("booking received",
			slog.Int64("booking_id", ev.BookingID),
			slog.String("theatre", ev.TheatreName),
			slog.Time("datetime", ev.Datetime),
			slog.String("name", ev.Name),
			slog.String("phone", ev.Phone),
			slog.Int("party_size", ev.PartySize),
			slog.String("package", ev.PackageName),
		)
		return nil
	}
}

// Run consumes until ctx is cancelled, reconnecting with exponential backoff.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("booking consumer: dial failed", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("booking consumer: consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.logger.Warn("booking consumer: set QoS failed", "error", err)
	}

	if _, err := declare(ch); err != nil {
		return err
	}

	msgs, err := ch.ConsumeWithContext(ctx, BookingCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.handle(ctx, d.Body); err != nil {
			c.logger.Error("booking consumer: handle message failed", "error", err)
			// reject without requeue so a poison message cannot spin
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}

	return errors.New("deliveries channel closed")
}

func (c *Consumer) handle(ctx context.Context, body []byte) error {
	var ev BookingCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == 0 {
		return errors.New("missing booking_id")
	}
	return c.handler(ctx, ev)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
