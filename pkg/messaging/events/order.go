package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/freshcart/pkg/messaging"
	"go.opentelemetry.io/otel/propagation"
)

type OrderPlacedEvent struct {
	Carrier  propagation.MapCarrier `json:"carrier,omitempty"`
	OrderID  string                 `json:"order_id"`
	Items    int                    `json:"items"`
	Total    int64                  `json:"total"`
	PlacedAt time.Time              `json:"placed_at"`
}

func (o OrderPlacedEvent) Subject() string {
	return messaging.OrdersPlacedSubject
}

func (o OrderPlacedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}

type OrderCancelledEvent struct {
	Carrier propagation.MapCarrier `json:"carrier,omitempty"`
	OrderID string                 `json:"order_id"`
	Total   int64                  `json:"total"`
}

func (o OrderCancelledEvent) Subject() string {
	return messaging.OrdersCancelledSubject
}

func (o OrderCancelledEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}

// OrderStatusAdvancedEvent is published by the fulfillment side when an order moves one stage forward.
type OrderStatusAdvancedEvent struct {
	Carrier propagation.MapCarrier `json:"carrier,omitempty"`
	OrderID string                 `json:"order_id"`
}

func (o OrderStatusAdvancedEvent) Subject() string {
	return messaging.FulfillmentStatusSubject
}

func (o OrderStatusAdvancedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}
