package messaging

import (
	"context"
	"log/slog"
)

const (
	OrdersPlacedSubject      = "orders.placed"
	OrdersCancelledSubject   = "orders.cancelled"
	FulfillmentStatusSubject = "fulfillment.status"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes events to the logger instead of a broker.
// It is used when NATS is disabled.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	data, err := event.Payload()
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "event", slog.String("subject", event.Subject()), slog.String("payload", string(data)))
	return nil
}
