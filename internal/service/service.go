// Package service provides the storefront use cases on top of the state store.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/freshcart/internal/cart"
	"github.com/abgdnv/freshcart/internal/catalog"
	storeerrors "github.com/abgdnv/freshcart/internal/errors"
	"github.com/abgdnv/freshcart/internal/notification"
	"github.com/abgdnv/freshcart/internal/order"
	"github.com/abgdnv/freshcart/internal/profile"
	"github.com/abgdnv/freshcart/internal/store"
	"github.com/abgdnv/freshcart/internal/ui"
	"github.com/abgdnv/freshcart/internal/wishlist"
	"github.com/abgdnv/freshcart/pkg/messaging"
	"github.com/abgdnv/freshcart/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// StorefrontService defines the operations available to a shopper.
// Commands that do not apply to the current state are not errors: they
// return the unchanged state with Changed set to false.
type StorefrontService interface {
	// Products lists catalog products. A non-empty query searches by name,
	// otherwise the category filter applies.
	Products(ctx context.Context, category, query string) []catalog.Product
	// Product returns ErrProductNotFound for unknown ids.
	Product(ctx context.Context, id int) (*catalog.Product, error)
	Categories(ctx context.Context) []catalog.Category
	Banners(ctx context.Context) []BannerDto
	Plans(ctx context.Context, frequency string) []catalog.SubscriptionPlan
	// Plan returns ErrPlanNotFound for unknown ids.
	Plan(ctx context.Context, id string) (*catalog.SubscriptionPlan, error)

	Cart(ctx context.Context) *CartDto
	// AddToCart returns ErrProductNotFound for unknown products.
	AddToCart(ctx context.Context, dto AddToCartDto) (*CartDto, error)
	IncrementItem(ctx context.Context, productID int) *CartDto
	DecrementItem(ctx context.Context, productID int) *CartDto
	RemoveItem(ctx context.Context, productID int) *CartDto
	ClearCart(ctx context.Context) *CartDto

	Wishlist(ctx context.Context) *WishlistDto
	// AddToWishlist and ToggleWishlist return ErrProductNotFound for unknown products.
	AddToWishlist(ctx context.Context, productID int) (*WishlistDto, error)
	RemoveFromWishlist(ctx context.Context, productID int) *WishlistDto
	ToggleWishlist(ctx context.Context, productID int) (*WishlistDto, error)

	Orders(ctx context.Context) *OrdersDto
	// Order returns ErrOrderNotFound for unknown ids.
	Order(ctx context.Context, id string) (*OrderDto, error)
	// PlaceOrder returns ErrCartEmpty when there is nothing to order.
	PlaceOrder(ctx context.Context, dto PlaceOrderDto) (*OrderDto, error)
	// CancelOrder and AdvanceOrder return ErrOrderNotFound for unknown ids.
	CancelOrder(ctx context.Context, id string) (*OrderDto, error)
	AdvanceOrder(ctx context.Context, id string) (*OrderDto, error)

	Notifications(ctx context.Context) *NotificationsDto
	MarkAllNotificationsRead(ctx context.Context) *NotificationsDto
	MarkNotificationRead(ctx context.Context, id string) *NotificationsDto
	ClearNotifications(ctx context.Context) *NotificationsDto

	Preferences(ctx context.Context) *PreferencesDto
	UpdatePreferences(ctx context.Context, dto PreferencesUpdateDto) *PreferencesDto
	ToggleDarkMode(ctx context.Context) *PreferencesDto
	ToggleSidebar(ctx context.Context) *PreferencesDto

	Profile(ctx context.Context) *ProfileDto
	UpdateProfile(ctx context.Context, dto ProfileUpdateDto) *ProfileDto
	AddAddress(ctx context.Context, dto AddressCreateDto) *ProfileDto
	RemoveAddress(ctx context.Context, id string) *ProfileDto
	SetDefaultAddress(ctx context.Context, id string) *ProfileDto
	AddPaymentMethod(ctx context.Context, dto PaymentMethodCreateDto) *ProfileDto
	RemovePaymentMethod(ctx context.Context, id string) *ProfileDto
	SetDefaultPaymentMethod(ctx context.Context, id string) *ProfileDto
	// Logout discards the session. View preferences are kept.
	Logout(ctx context.Context)
}

// Service implements StorefrontService.
type Service struct {
	store           *store.Store
	catalog         *catalog.Catalog
	publisher       messaging.Publisher
	ordersPlaced    metric.Int64Counter
	ordersCancelled metric.Int64Counter
	cartItemsAdded  metric.Int64Counter
}

// NewService creates a new instance of StorefrontService.
func NewService(st *store.Store, cat *catalog.Catalog, publisher messaging.Publisher) *Service {
	meter := otel.Meter("storefront-service")
	return &Service{
		store:           st,
		catalog:         cat,
		publisher:       publisher,
		ordersPlaced:    newCounter(meter, "orders_placed", "Total number of placed orders"),
		ordersCancelled: newCounter(meter, "orders_cancelled", "Total number of cancelled orders"),
		cartItemsAdded:  newCounter(meter, "cart_items_added", "Total number of units added to the cart"),
	}
}

func newCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s counter: %v", name, err))
	}
	return counter
}

func (s *Service) Products(_ context.Context, category, query string) []catalog.Product {
	switch {
	case query != "":
		return s.catalog.Search(query)
	case category != "":
		return s.catalog.ByCategory(category)
	default:
		return s.catalog.Products()
	}
}

func (s *Service) Product(_ context.Context, id int) (*catalog.Product, error) {
	p, err := s.catalog.FindByID(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Categories(_ context.Context) []catalog.Category {
	return s.catalog.Categories()
}

func (s *Service) Banners(_ context.Context) []BannerDto {
	banners := s.catalog.Banners()
	dtos := make([]BannerDto, 0, len(banners))
	for _, b := range banners {
		dtos = append(dtos, BannerDto{Banner: b, Products: s.catalog.BannerProducts(b.ID)})
	}
	return dtos
}

func (s *Service) Plans(_ context.Context, frequency string) []catalog.SubscriptionPlan {
	return s.catalog.Plans(catalog.Frequency(frequency))
}

func (s *Service) Plan(_ context.Context, id string) (*catalog.SubscriptionPlan, error) {
	p, err := s.catalog.FindPlan(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Cart(_ context.Context) *CartDto {
	return toCartDto(s.store.Snapshot().Cart, false)
}

// AddToCart snapshots the catalog product into the cart.
func (s *Service) AddToCart(ctx context.Context, dto AddToCartDto) (*CartDto, error) {
	p, err := s.catalog.FindByID(dto.ProductID)
	if err != nil {
		return nil, err
	}
	quantity := dto.Quantity
	if quantity == 0 {
		quantity = 1
	}
	c, changed := s.store.DispatchCart(cart.AddItem{Product: p, Quantity: quantity})
	if changed {
		s.cartItemsAdded.Add(ctx, int64(quantity))
	}
	return toCartDto(c, changed), nil
}

func (s *Service) IncrementItem(ctx context.Context, productID int) *CartDto {
	c, changed := s.store.DispatchCart(cart.Increment{ProductID: productID})
	if changed {
		s.cartItemsAdded.Add(ctx, 1)
	}
	return toCartDto(c, changed)
}

func (s *Service) DecrementItem(_ context.Context, productID int) *CartDto {
	return toCartDto(s.store.DispatchCart(cart.Decrement{ProductID: productID}))
}

func (s *Service) RemoveItem(_ context.Context, productID int) *CartDto {
	return toCartDto(s.store.DispatchCart(cart.Remove{ProductID: productID}))
}

func (s *Service) ClearCart(_ context.Context) *CartDto {
	return toCartDto(s.store.DispatchCart(cart.Clear{}))
}

func (s *Service) Wishlist(_ context.Context) *WishlistDto {
	return toWishlistDto(s.store.Snapshot().Wishlist, false)
}

func (s *Service) AddToWishlist(_ context.Context, productID int) (*WishlistDto, error) {
	p, err := s.catalog.FindByID(productID)
	if err != nil {
		return nil, err
	}
	return toWishlistDto(s.store.DispatchWishlist(wishlist.Add{Entry: wishlist.EntryFrom(p)})), nil
}

func (s *Service) RemoveFromWishlist(_ context.Context, productID int) *WishlistDto {
	return toWishlistDto(s.store.DispatchWishlist(wishlist.Remove{ProductID: productID}))
}

func (s *Service) ToggleWishlist(_ context.Context, productID int) (*WishlistDto, error) {
	p, err := s.catalog.FindByID(productID)
	if err != nil {
		return nil, err
	}
	return toWishlistDto(s.store.ToggleWishlist(p)), nil
}

func (s *Service) Orders(_ context.Context) *OrdersDto {
	ledger := s.store.Snapshot().Orders
	dtos := make([]OrderDto, 0, len(ledger.Orders))
	for _, o := range ledger.Orders {
		dtos = append(dtos, *toOrderDto(o, false))
	}
	stats := order.ComputeStats(ledger)
	return &OrdersDto{
		Orders: dtos,
		Stats: StatsDto{
			TotalSpent:   newAmount(stats.TotalSpent),
			OrderCount:   stats.OrderCount,
			HistoryCount: stats.HistoryCount,
		},
	}
}

func (s *Service) Order(_ context.Context, id string) (*OrderDto, error) {
	o, ok := s.store.Order(id)
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, storeerrors.ErrOrderNotFound)
	}
	return toOrderDto(o, false), nil
}

// PlaceOrder checks out the cart and publishes an OrderPlacedEvent.
// Publish failures are logged and do not fail the checkout.
func (s *Service) PlaceOrder(ctx context.Context, dto PlaceOrderDto) (*OrderDto, error) {
	placed, err := s.store.PlaceOrder(store.Checkout{
		PaymentMethod:   dto.PaymentMethod,
		DeliveryAddress: dto.DeliveryAddress,
	})
	if err != nil {
		return nil, err
	}

	items := 0
	for _, line := range placed.Items {
		items += line.Quantity
	}
	s.publish(ctx, events.OrderPlacedEvent{
		Carrier:  carrierFrom(ctx),
		OrderID:  placed.ID,
		Items:    items,
		Total:    placed.Total,
		PlacedAt: placed.PlacedAt,
	})
	s.ordersPlaced.Add(ctx, 1)

	return toOrderDto(placed, true), nil
}

// CancelOrder cancels an order that has not reached a terminal status
// and publishes an OrderCancelledEvent.
func (s *Service) CancelOrder(ctx context.Context, id string) (*OrderDto, error) {
	o, changed := s.store.CancelOrder(id)
	if !changed {
		return s.unchangedOrder(id, o)
	}
	s.publish(ctx, events.OrderCancelledEvent{
		Carrier: carrierFrom(ctx),
		OrderID: o.ID,
		Total:   o.Total,
	})
	s.ordersCancelled.Add(ctx, 1)
	return toOrderDto(o, true), nil
}

// AdvanceOrder moves an order one fulfillment stage forward.
func (s *Service) AdvanceOrder(_ context.Context, id string) (*OrderDto, error) {
	o, changed := s.store.AdvanceOrder(id)
	if !changed {
		return s.unchangedOrder(id, o)
	}
	return toOrderDto(o, true), nil
}

func (s *Service) unchangedOrder(id string, o order.Order) (*OrderDto, error) {
	if o.ID == "" {
		return nil, fmt.Errorf("order %s: %w", id, storeerrors.ErrOrderNotFound)
	}
	return toOrderDto(o, false), nil
}

func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

func carrierFrom(ctx context.Context) propagation.MapCarrier {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier
}

func (s *Service) Notifications(_ context.Context) *NotificationsDto {
	return toNotificationsDto(s.store.Snapshot().Notifications, false)
}

func (s *Service) MarkAllNotificationsRead(_ context.Context) *NotificationsDto {
	return toNotificationsDto(s.store.DispatchNotification(notification.MarkAllRead{}))
}

func (s *Service) MarkNotificationRead(_ context.Context, id string) *NotificationsDto {
	return toNotificationsDto(s.store.DispatchNotification(notification.MarkRead{ID: id}))
}

func (s *Service) ClearNotifications(_ context.Context) *NotificationsDto {
	return toNotificationsDto(s.store.DispatchNotification(notification.Clear{}))
}

func (s *Service) Preferences(_ context.Context) *PreferencesDto {
	return &PreferencesDto{Preferences: s.store.Snapshot().UI}
}

// UpdatePreferences applies the present fields as a single command.
func (s *Service) UpdatePreferences(_ context.Context, dto PreferencesUpdateDto) *PreferencesDto {
	prefs, changed := s.store.DispatchUI(ui.Update{
		ActiveCategory: dto.ActiveCategory,
		ActiveTab:      dto.ActiveTab,
		IsDarkMode:     dto.IsDarkMode,
		IsSidebarOpen:  dto.IsSidebarOpen,
	})
	return &PreferencesDto{Preferences: prefs, Changed: changed}
}

func (s *Service) ToggleDarkMode(_ context.Context) *PreferencesDto {
	prefs, changed := s.store.DispatchUI(ui.ToggleDarkMode{})
	return &PreferencesDto{Preferences: prefs, Changed: changed}
}

func (s *Service) ToggleSidebar(_ context.Context) *PreferencesDto {
	prefs, changed := s.store.DispatchUI(ui.ToggleSidebar{})
	return &PreferencesDto{Preferences: prefs, Changed: changed}
}

func (s *Service) Profile(_ context.Context) *ProfileDto {
	return &ProfileDto{Profile: s.store.Snapshot().Profile}
}

func (s *Service) UpdateProfile(_ context.Context, dto ProfileUpdateDto) *ProfileDto {
	return s.dispatchProfile(profile.Update{Name: dto.Name, Email: dto.Email, Phone: dto.Phone, Image: dto.Image})
}

func (s *Service) AddAddress(_ context.Context, dto AddressCreateDto) *ProfileDto {
	return s.dispatchProfile(profile.AddAddress{Address: profile.Address{
		Type:      dto.Type,
		Street:    dto.Street,
		City:      dto.City,
		ZipCode:   dto.ZipCode,
		IsDefault: dto.IsDefault,
	}})
}

func (s *Service) RemoveAddress(_ context.Context, id string) *ProfileDto {
	return s.dispatchProfile(profile.RemoveAddress{ID: id})
}

func (s *Service) SetDefaultAddress(_ context.Context, id string) *ProfileDto {
	return s.dispatchProfile(profile.SetDefaultAddress{ID: id})
}

func (s *Service) AddPaymentMethod(_ context.Context, dto PaymentMethodCreateDto) *ProfileDto {
	return s.dispatchProfile(profile.AddPaymentMethod{Method: profile.PaymentMethod{
		Type:       dto.Type,
		Last4:      dto.Last4,
		Expiry:     dto.Expiry,
		HolderName: dto.HolderName,
		IsDefault:  dto.IsDefault,
	}})
}

func (s *Service) RemovePaymentMethod(_ context.Context, id string) *ProfileDto {
	return s.dispatchProfile(profile.RemovePaymentMethod{ID: id})
}

func (s *Service) SetDefaultPaymentMethod(_ context.Context, id string) *ProfileDto {
	return s.dispatchProfile(profile.SetDefaultPaymentMethod{ID: id})
}

func (s *Service) dispatchProfile(cmd profile.Command) *ProfileDto {
	p, changed := s.store.DispatchProfile(cmd)
	return &ProfileDto{Profile: p, Changed: changed}
}

func (s *Service) Logout(ctx context.Context) {
	s.store.Logout()
	slog.InfoContext(ctx, "User logged out")
}
