// Package notify publishes ticket lifecycle events to a RabbitMQ topic
// exchange. Delivery is best-effort from the scheduler's point of view:
// the booking itself never fails because the broker is down.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	Publish(ctx context.Context, key string, msg Envelope) error
	Close() error
}

type rmqPublisher struct {
	conn     *amqp091.Connection
	exchange string
	log      *slog.Logger
}

// DialOptions configures the retried broker connection.
type DialOptions struct {
	URL      string
	Exchange string
	Attempts int
	Delay    time.Duration
	Logger   *slog.Logger
}

const maxDialBackoff = 60 * time.Second

// NewPublisher connects with exponential backoff, declares the durable
// topic exchange and enables publisher confirms. It respects ctx for
// graceful startup cancellation.
func NewPublisher(ctx context.Context, opts DialOptions) (Publisher, error) {
	if opts.Attempts <= 0 {
		opts.Attempts = 5
	}
	if opts.Delay <= 0 {
		opts.Delay = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	conn, err := dialWithRetry(ctx, opts)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(opts.Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, err
	}

	return &rmqPublisher{conn: conn, exchange: opts.Exchange, log: opts.Logger}, nil
}

func dialWithRetry(ctx context.Context, opts DialOptions) (*amqp091.Connection, error) {
	var lastErr error
	for i := 1; i <= opts.Attempts; i++ {
		conn, err := amqp091.Dial(opts.URL)
		if err == nil {
			if i > 1 {
				opts.Logger.Info("rabbit connected", slog.Int("attempt", i))
			}
			return conn, nil
		}
		lastErr = err

		sleep := opts.Delay * time.Duration(math.Pow(2, float64(i-1)))
		if sleep > maxDialBackoff {
			sleep = maxDialBackoff
		}
		opts.Logger.Warn("rabbit dial failed",
			slog.Int("attempt", i),
			slog.Duration("sleep", sleep),
			slog.Any("error", err),
		)

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("dial cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", opts.Attempts, lastErr)
}

func (r *rmqPublisher) Publish(ctx context.Context, key string, msg Envelope) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(
		ctx, r.exchange, key, false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.Meta.ID,
			Timestamp:    msg.Meta.Time,
			Body:         body,
		},
	)
	if err == nil {
		r.log.Info("published", slog.String("key", key), slog.String("exchange", r.exchange))
	}
	return err
}

func (r *rmqPublisher) Close() error {
	return r.conn.Close()
}
