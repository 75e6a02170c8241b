// Package order implements the order ledger and its status state machine.
package order

import (
	"fmt"
	"slices"
	"time"

	"github.com/abgdnv/freshcart/internal/cart"
	storeerrors "github.com/abgdnv/freshcart/internal/errors"
)

// Order is immutable once placed, except for Status.
type Order struct {
	ID               string      `json:"id"`
	Items            []cart.Line `json:"items"`
	Subtotal         int64       `json:"subtotal"`
	DeliveryFee      int64       `json:"deliveryFee"`
	Total            int64       `json:"total"`
	Date             string      `json:"date"`
	Status           Status      `json:"status"`
	EstimatedArrival string      `json:"estimatedArrival"`
	PaymentMethod    string      `json:"paymentMethod,omitempty"`
	DeliveryAddress  string      `json:"deliveryAddress,omitempty"`
	PlacedAt         time.Time   `json:"placedAt"`
}

// Clone returns a copy that shares no memory with o.
func (o Order) Clone() Order {
	o.Items = slices.Clone(o.Items)
	return o
}

// Ledger lists orders newest first. Orders are never removed.
type Ledger struct {
	Orders []Order `json:"orders"`
}

func (l Ledger) Clone() Ledger {
	orders := make([]Order, len(l.Orders))
	for i, o := range l.Orders {
		orders[i] = o.Clone()
	}
	return Ledger{Orders: orders}
}

// Find returns a copy of the order with the given id.
func (l Ledger) Find(id string) (Order, bool) {
	if i := l.index(id); i >= 0 {
		return l.Orders[i].Clone(), true
	}
	return Order{}, false
}

func (l Ledger) index(id string) int {
	return slices.IndexFunc(l.Orders, func(o Order) bool { return o.ID == id })
}

type Command interface {
	ledgerCommand()
}

// Place prepends a new order. The order's items are copied.
type Place struct {
	Order Order
}

// Cancel moves a non-terminal order to Cancelled.
type Cancel struct {
	OrderID string
}

// Advance moves an order exactly one stage forward.
type Advance struct {
	OrderID string
}

func (Place) ledgerCommand()   {}
func (Cancel) ledgerCommand()  {}
func (Advance) ledgerCommand() {}

// Reduce applies cmd to l without mutating l.
func Reduce(l Ledger, cmd Command) (Ledger, error) {
	switch c := cmd.(type) {
	case Place:
		if l.index(c.Order.ID) >= 0 {
			return l, fmt.Errorf("place order %s: %w", c.Order.ID, storeerrors.ErrDuplicateOrder)
		}
		next := l.Clone()
		next.Orders = slices.Insert(next.Orders, 0, c.Order.Clone())
		return next, nil
	case Cancel:
		i := l.index(c.OrderID)
		if i < 0 {
			return l, fmt.Errorf("cancel order %s: %w", c.OrderID, storeerrors.ErrOrderNotFound)
		}
		if !l.Orders[i].Status.CanCancel() {
			return l, fmt.Errorf("cancel order %s in status %s: %w", c.OrderID, l.Orders[i].Status, storeerrors.ErrOrderNotCancellable)
		}
		next := l.Clone()
		next.Orders[i].Status = Cancelled
		return next, nil
	case Advance:
		i := l.index(c.OrderID)
		if i < 0 {
			return l, fmt.Errorf("advance order %s: %w", c.OrderID, storeerrors.ErrOrderNotFound)
		}
		status, ok := l.Orders[i].Status.Next()
		if !ok {
			return l, fmt.Errorf("advance order %s in status %s: %w", c.OrderID, l.Orders[i].Status, storeerrors.ErrOrderNotAdvanceable)
		}
		next := l.Clone()
		next.Orders[i].Status = status
		return next, nil
	default:
		return l, fmt.Errorf("ledger %T: %w", cmd, storeerrors.ErrUnknownCommand)
	}
}

// Stats summarises the ledger. Cancelled orders count in history only.
type Stats struct {
	TotalSpent   int64 `json:"totalSpent"`
	OrderCount   int   `json:"orderCount"`
	HistoryCount int   `json:"historyCount"`
}

func ComputeStats(l Ledger) Stats {
	s := Stats{HistoryCount: len(l.Orders)}
	for _, o := range l.Orders {
		if o.Status == Cancelled {
			continue
		}
		s.TotalSpent += o.Total
		s.OrderCount++
	}
	return s
}
