package service

import (
	"time"

	"github.com/abgdnv/freshcart/internal/cart"
	"github.com/abgdnv/freshcart/internal/catalog"
	"github.com/abgdnv/freshcart/internal/money"
	"github.com/abgdnv/freshcart/internal/notification"
	"github.com/abgdnv/freshcart/internal/order"
	"github.com/abgdnv/freshcart/internal/profile"
	"github.com/abgdnv/freshcart/internal/ui"
	"github.com/abgdnv/freshcart/internal/wishlist"
)

// Amount carries a price both in minor units and formatted for display.
type Amount struct {
	Minor     int64  `json:"minor"`
	Formatted string `json:"formatted"`
}

func newAmount(minor int64) Amount {
	return Amount{Minor: minor, Formatted: money.Format(minor)}
}

// BannerDto is a promotional banner with its products resolved.
type BannerDto struct {
	catalog.Banner
	Products []catalog.Product `json:"products"`
}

// CartDto is the cart with its derived totals.
// Changed is false when the command that produced it was ignored.
type CartDto struct {
	Items       []cart.Line `json:"items"`
	ItemCount   int         `json:"itemCount"`
	Subtotal    Amount      `json:"subtotal"`
	DeliveryFee Amount      `json:"deliveryFee"`
	Total       Amount      `json:"total"`
	Changed     bool        `json:"changed"`
}

// AddToCartDto adds a catalog product to the cart. Quantity defaults to 1.
type AddToCartDto struct {
	ProductID int `json:"productId" validate:"required,min=1"`
	Quantity  int `json:"quantity" validate:"omitempty,min=1,max=99"`
}

type WishlistDto struct {
	Items   []wishlist.Entry `json:"items"`
	Changed bool             `json:"changed"`
}

type OrderDto struct {
	ID               string      `json:"id"`
	Items            []cart.Line `json:"items"`
	Subtotal         Amount      `json:"subtotal"`
	DeliveryFee      Amount      `json:"deliveryFee"`
	Total            Amount      `json:"total"`
	Date             string      `json:"date"`
	Status           string      `json:"status"`
	Step             int         `json:"step"`
	CanCancel        bool        `json:"canCancel"`
	EstimatedArrival string      `json:"estimatedArrival"`
	PaymentMethod    string      `json:"paymentMethod,omitempty"`
	DeliveryAddress  string      `json:"deliveryAddress,omitempty"`
	PlacedAt         string      `json:"placedAt"`
	Changed          bool        `json:"changed"`
}

type StatsDto struct {
	TotalSpent   Amount `json:"totalSpent"`
	OrderCount   int    `json:"orderCount"`
	HistoryCount int    `json:"historyCount"`
}

// OrdersDto lists orders newest first together with the profile statistics.
type OrdersDto struct {
	Orders []OrderDto `json:"orders"`
	Stats  StatsDto   `json:"stats"`
}

// PlaceOrderDto is the checkout request. Empty fields fall back to the profile defaults.
type PlaceOrderDto struct {
	PaymentMethod   string `json:"paymentMethod" validate:"omitempty,max=64"`
	DeliveryAddress string `json:"deliveryAddress" validate:"omitempty,max=256"`
}

type NotificationsDto struct {
	Notifications []notification.Entry `json:"notifications"`
	UnreadCount   int                  `json:"unreadCount"`
	Changed       bool                 `json:"changed"`
}

type PreferencesDto struct {
	ui.Preferences
	Changed bool `json:"changed"`
}

// PreferencesUpdateDto changes only the fields that are present.
type PreferencesUpdateDto struct {
	ActiveCategory *string `json:"activeCategory" validate:"omitempty,min=1,max=64"`
	ActiveTab      *string `json:"activeTab" validate:"omitempty,min=1,max=32"`
	IsDarkMode     *bool   `json:"isDarkMode"`
	IsSidebarOpen  *bool   `json:"isSidebarOpen"`
}

type ProfileDto struct {
	profile.Profile
	Changed bool `json:"changed"`
}

type ProfileUpdateDto struct {
	Name  string `json:"name" validate:"omitempty,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
	Image string `json:"image" validate:"omitempty,url"`
}

type AddressCreateDto struct {
	Type      string `json:"type" validate:"required,max=32"`
	Street    string `json:"street" validate:"required,max=256"`
	City      string `json:"city" validate:"required,max=64"`
	ZipCode   string `json:"zipCode" validate:"required,max=16"`
	IsDefault bool   `json:"isDefault"`
}

type PaymentMethodCreateDto struct {
	Type       string `json:"type" validate:"required,oneof=Visa Mastercard Amex"`
	Last4      string `json:"last4" validate:"required,len=4,numeric"`
	Expiry     string `json:"expiry" validate:"required,datetime=01/06"`
	HolderName string `json:"holderName" validate:"required,max=100"`
	IsDefault  bool   `json:"isDefault"`
}

func toCartDto(c cart.State, changed bool) *CartDto {
	totals := cart.ComputeTotals(c)
	items := c.Lines
	if items == nil {
		items = []cart.Line{}
	}
	return &CartDto{
		Items:       items,
		ItemCount:   totals.ItemCount,
		Subtotal:    newAmount(totals.Subtotal),
		DeliveryFee: newAmount(totals.DeliveryFee),
		Total:       newAmount(totals.Total),
		Changed:     changed,
	}
}

func toWishlistDto(w wishlist.State, changed bool) *WishlistDto {
	items := w.Entries
	if items == nil {
		items = []wishlist.Entry{}
	}
	return &WishlistDto{Items: items, Changed: changed}
}

func toOrderDto(o order.Order, changed bool) *OrderDto {
	return &OrderDto{
		ID:               o.ID,
		Items:            o.Items,
		Subtotal:         newAmount(o.Subtotal),
		DeliveryFee:      newAmount(o.DeliveryFee),
		Total:            newAmount(o.Total),
		Date:             o.Date,
		Status:           o.Status.String(),
		Step:             o.Status.Step(),
		CanCancel:        o.Status.CanCancel(),
		EstimatedArrival: o.EstimatedArrival,
		PaymentMethod:    o.PaymentMethod,
		DeliveryAddress:  o.DeliveryAddress,
		PlacedAt:         o.PlacedAt.Format(time.RFC3339),
		Changed:          changed,
	}
}

func toNotificationsDto(n notification.State, changed bool) *NotificationsDto {
	entries := n.Entries
	if entries == nil {
		entries = []notification.Entry{}
	}
	return &NotificationsDto{Notifications: entries, UnreadCount: n.UnreadCount, Changed: changed}
}
