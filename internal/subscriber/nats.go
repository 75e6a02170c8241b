// Package subscriber consumes fulfillment updates from NATS JetStream and
// advances the matching orders.
package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	storeerrors "github.com/abgdnv/freshcart/internal/errors"
	"github.com/abgdnv/freshcart/internal/service"
	"github.com/abgdnv/freshcart/pkg/config"
	"github.com/abgdnv/freshcart/pkg/messaging/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// OrderAdvancer moves an order one fulfillment stage forward.
type OrderAdvancer interface {
	AdvanceOrder(ctx context.Context, id string) (*service.OrderDto, error)
}

// ackableMsg is the part of jetstream.Msg the handler needs.
type ackableMsg interface {
	Data() []byte
	Ack() error
	Nak() error
	Term() error
}

// Start initializes the NATS JetStream consumer and starts multiple worker goroutines to process messages.
func Start(ctx context.Context, js jetstream.JetStream, subscriberCfg config.SubscriberConfig, advancer OrderAdvancer, logger *slog.Logger) error {
	cfg := jetstream.ConsumerConfig{
		FilterSubject: subscriberCfg.Subject,
		Durable:       subscriberCfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
	}
	consumer, err := js.CreateOrUpdateConsumer(ctx, subscriberCfg.Stream, cfg)
	if err != nil {
		return err
	}
	g, gCtx := errgroup.WithContext(ctx)
	for range subscriberCfg.Workers {
		g.Go(func() error {
			return runWorker(gCtx, consumer, subscriberCfg.Timeout, subscriberCfg.Interval, advancer, logger)
		})
	}
	return g.Wait()
}

// runWorker fetches messages one at a time until ctx is done.
func runWorker(ctx context.Context, consumer jetstream.Consumer, timeout, interval time.Duration, advancer OrderAdvancer, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			batch, err := consumer.Fetch(1, jetstream.FetchMaxWait(timeout))
			if err != nil {
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				logger.Error("failed to fetch messages", "error", err)
				time.Sleep(interval)
				continue
			}
			for msg := range batch.Messages() {
				handleMessage(ctx, msg, advancer, logger)
			}
		}
	}
}

// handleMessage advances the order named by an OrderStatusAdvancedEvent.
// Undecodable messages and unknown orders are terminated so they are not redelivered.
// Other failures are negatively acknowledged for redelivery.
func handleMessage(ctx context.Context, msg ackableMsg, advancer OrderAdvancer, logger *slog.Logger) {
	if msg == nil {
		logger.Error("received nil message")
		return
	}
	var event events.OrderStatusAdvancedEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil || event.OrderID == "" {
		logger.Error("failed to unmarshal message", "error", err)
		settle(msg.Term, "term", logger)
		return
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, event.Carrier)

	advanced, err := advancer.AdvanceOrder(ctx, event.OrderID)
	switch {
	case errors.Is(err, storeerrors.ErrOrderNotFound):
		logger.WarnContext(ctx, "fulfillment update for unknown order", slog.String("order_id", event.OrderID))
		settle(msg.Term, "term", logger)
		return
	case err != nil:
		logger.ErrorContext(ctx, "failed to advance order", slog.String("order_id", event.OrderID), "error", err)
		settle(msg.Nak, "nack", logger)
		return
	}

	logger.InfoContext(ctx, "received fulfillment update",
		slog.String("order_id", advanced.ID),
		slog.String("status", advanced.Status),
		slog.Bool("changed", advanced.Changed))
	settle(msg.Ack, "ack", logger)
}

func settle(fn func() error, action string, logger *slog.Logger) {
	if err := fn(); err != nil {
		logger.Error("failed to "+action+" message", "error", err)
	}
}
