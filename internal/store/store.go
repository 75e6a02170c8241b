// Package store owns the storefront's state tree.
//
// Every command runs to completion under one write lock, so callers on
// different goroutines never observe a partially applied command. Commands
// that do not apply to the current state are ignored and reported as unchanged.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abgdnv/freshcart/internal/cart"
	"github.com/abgdnv/freshcart/internal/catalog"
	storeerrors "github.com/abgdnv/freshcart/internal/errors"
	"github.com/abgdnv/freshcart/internal/money"
	"github.com/abgdnv/freshcart/internal/notification"
	"github.com/abgdnv/freshcart/internal/order"
	"github.com/abgdnv/freshcart/internal/profile"
	"github.com/abgdnv/freshcart/internal/ui"
	"github.com/abgdnv/freshcart/internal/wishlist"
	"github.com/google/uuid"
)

const (
	// EstimatedArrival is promised for every order placed.
	EstimatedArrival = "Today, 5:00 PM"

	orderDateLayout = "Mon Jan 02 2006"
)

// State is the whole storefront state tree.
type State struct {
	Cart          cart.State
	Wishlist      wishlist.State
	Orders        order.Ledger
	Notifications notification.State
	UI            ui.Preferences
	Profile       profile.Profile
}

// Clone returns a deep copy of the tree.
func (s State) Clone() State {
	return State{
		Cart:          s.Cart.Clone(),
		Wishlist:      s.Wishlist.Clone(),
		Orders:        s.Orders.Clone(),
		Notifications: s.Notifications.Clone(),
		UI:            s.UI,
		Profile:       s.Profile.Clone(),
	}
}

// Checkout carries the delivery and payment context of an order.
// Empty fields fall back to the profile defaults.
type Checkout struct {
	PaymentMethod   string
	DeliveryAddress string
}

// Store is the single writer of the state tree.
type Store struct {
	mu        sync.RWMutex
	state     State
	now       func() time.Time
	newID     func() string
	lastOrder int64
	logger    *slog.Logger
}

type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the generator of notification, address and payment method ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a store holding a fresh session.
func New(opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "store")
	s.state = s.initialState()
	return s
}

func (s *Store) initialState() State {
	return State{
		Notifications: notification.Seed(s.now()),
		UI:            ui.Default(),
		Profile:       profile.Default(),
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Order returns a copy of a placed order.
func (s *Store) Order(id string) (order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Orders.Find(id)
}

// rejected reports whether the command failed and logs why.
// Illegal transitions are expected and logged at debug level.
func (s *Store) rejected(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, storeerrors.ErrIllegalTransition) {
		s.logger.Debug("command ignored", slog.String("reason", err.Error()))
		return true
	}
	s.logger.Error("command failed", slog.String("error", err.Error()))
	return true
}

// DispatchCart applies a cart command and returns the resulting cart.
func (s *Store) DispatchCart(cmd cart.Command) (cart.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := cart.Reduce(s.state.Cart, cmd)
	if s.rejected(err) {
		return s.state.Cart.Clone(), false
	}
	s.state.Cart = next
	return next.Clone(), true
}

// DispatchWishlist applies a wishlist command.
func (s *Store) DispatchWishlist(cmd wishlist.Command) (wishlist.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyWishlist(cmd)
}

// ToggleWishlist adds the product when absent and removes it otherwise.
func (s *Store) ToggleWishlist(p catalog.Product) (wishlist.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyWishlist(wishlist.Toggle(s.state.Wishlist, p))
}

func (s *Store) applyWishlist(cmd wishlist.Command) (wishlist.State, bool) {
	next, err := wishlist.Reduce(s.state.Wishlist, cmd)
	if s.rejected(err) {
		return s.state.Wishlist.Clone(), false
	}
	s.state.Wishlist = next
	return next.Clone(), true
}

// DispatchNotification applies a notification command.
// Added entries get an id and a date when the caller left them empty.
func (s *Store) DispatchNotification(cmd notification.Command) (notification.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add, ok := cmd.(notification.Add); ok {
		cmd = notification.Add{Entry: s.stamp(add.Entry)}
	}
	return s.applyNotification(cmd)
}

func (s *Store) applyNotification(cmd notification.Command) (notification.State, bool) {
	next, err := notification.Reduce(s.state.Notifications, cmd)
	if s.rejected(err) {
		return s.state.Notifications.Clone(), false
	}
	s.state.Notifications = next
	return next.Clone(), true
}

func (s *Store) stamp(e notification.Entry) notification.Entry {
	if e.ID == "" {
		e.ID = s.newID()
	}
	if e.Date.IsZero() {
		e.Date = s.now()
	}
	return e
}

// DispatchUI applies a preference command. It reports a change only when
// the preferences differ afterwards.
func (s *Store) DispatchUI(cmd ui.Command) (ui.Preferences, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := ui.Reduce(s.state.UI, cmd)
	if s.rejected(err) || next == s.state.UI {
		return s.state.UI, false
	}
	s.state.UI = next
	return next, true
}

// DispatchProfile applies a profile command. New addresses and payment
// methods without an id are given one.
func (s *Store) DispatchProfile(cmd profile.Command) (profile.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch c := cmd.(type) {
	case profile.AddAddress:
		if c.Address.ID == "" {
			c.Address.ID = s.newID()
		}
		cmd = c
	case profile.AddPaymentMethod:
		if c.Method.ID == "" {
			c.Method.ID = s.newID()
		}
		cmd = c
	}
	next, err := profile.Reduce(s.state.Profile, cmd)
	if s.rejected(err) {
		return s.state.Profile.Clone(), false
	}
	s.state.Profile = next
	return next.Clone(), true
}

// PlaceOrder turns the cart into a Confirmed order, empties the cart and
// records an order_placed notification. It returns ErrCartEmpty when there
// is nothing to order.
func (s *Store) PlaceOrder(co Checkout) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Cart.IsEmpty() {
		return order.Order{}, storeerrors.ErrCartEmpty
	}

	now := s.now()
	totals := cart.ComputeTotals(s.state.Cart)
	placed := order.Order{
		ID:               s.nextOrderID(now),
		Items:            s.state.Cart.Clone().Lines,
		Subtotal:         totals.Subtotal,
		DeliveryFee:      totals.DeliveryFee,
		Total:            totals.Total,
		Date:             now.Format(orderDateLayout),
		Status:           order.Confirmed,
		EstimatedArrival: EstimatedArrival,
		PaymentMethod:    co.PaymentMethod,
		DeliveryAddress:  co.DeliveryAddress,
		PlacedAt:         now,
	}
	if placed.PaymentMethod == "" {
		if pm, ok := s.state.Profile.DefaultPaymentMethod(); ok {
			placed.PaymentMethod = pm.String()
		}
	}
	if placed.DeliveryAddress == "" {
		if addr, ok := s.state.Profile.DefaultAddress(); ok {
			placed.DeliveryAddress = addr.String()
		}
	}

	ledger, err := order.Reduce(s.state.Orders, order.Place{Order: placed})
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to place order: %w", err)
	}
	s.state.Orders = ledger
	s.state.Cart = cart.State{}
	s.applyNotification(notification.Add{Entry: s.stamp(notification.Entry{
		Title:   "Order Placed Successfully",
		Message: fmt.Sprintf("Your order #%s has been placed successfully. Amount: %s", placed.ID, money.Format(placed.Total)),
		Type:    notification.OrderPlaced,
	})})

	s.logger.Info("order placed", slog.String("order_id", placed.ID), slog.Int64("total", placed.Total))
	return placed.Clone(), nil
}

// nextOrderID derives ORD-<unix millis>, bumped when two orders share a millisecond.
func (s *Store) nextOrderID(now time.Time) string {
	millis := now.UnixMilli()
	if millis <= s.lastOrder {
		millis = s.lastOrder + 1
	}
	s.lastOrder = millis
	return fmt.Sprintf("ORD-%d", millis)
}

// CancelOrder cancels a non-terminal order and records an order_cancelled
// notification. Missing or terminal orders are left untouched.
func (s *Store) CancelOrder(id string) (order.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := order.Reduce(s.state.Orders, order.Cancel{OrderID: id})
	if s.rejected(err) {
		found, _ := s.state.Orders.Find(id)
		return found, false
	}
	s.state.Orders = ledger
	s.applyNotification(notification.Add{Entry: s.stamp(notification.Entry{
		Title:   "Order Cancelled",
		Message: fmt.Sprintf("Your order #%s has been cancelled as per your request.", id),
		Type:    notification.OrderCancelled,
	})})

	s.logger.Info("order cancelled", slog.String("order_id", id))
	cancelled, _ := s.state.Orders.Find(id)
	return cancelled, true
}

// AdvanceOrder moves an order one fulfillment stage forward.
// Reaching Delivered records an info notification.
func (s *Store) AdvanceOrder(id string) (order.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := order.Reduce(s.state.Orders, order.Advance{OrderID: id})
	if s.rejected(err) {
		found, _ := s.state.Orders.Find(id)
		return found, false
	}
	s.state.Orders = ledger
	advanced, _ := s.state.Orders.Find(id)
	if advanced.Status == order.Delivered {
		s.applyNotification(notification.Add{Entry: s.stamp(notification.Entry{
			Title:   "Order Delivered",
			Message: fmt.Sprintf("Your order #%s has been delivered. Enjoy!", id),
			Type:    notification.Info,
		})})
	}
	s.logger.Info("order advanced", slog.String("order_id", id), slog.String("status", advanced.Status.String()))
	return advanced, true
}

// Logout discards the session and starts a fresh one: profile, orders,
// cart and wishlist are reset and notifications are re-seeded. View
// preferences survive a logout.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	preferences := s.state.UI
	s.state = s.initialState()
	s.state.UI = preferences
	s.logger.Info("session reset")
}
