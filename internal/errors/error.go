// Package errors provides the sentinel errors shared by the storefront engine.
package errors

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition marks a command that does not apply to the current state.
// Such commands are ignored by the store and leave the state unchanged.
var ErrIllegalTransition = errors.New("illegal transition")

var ErrInvalidQuantity = fmt.Errorf("quantity must be at least 1: %w", ErrIllegalTransition)
var ErrLineNotFound = fmt.Errorf("cart line not found: %w", ErrIllegalTransition)

var ErrAlreadyInWishlist = fmt.Errorf("product already in wishlist: %w", ErrIllegalTransition)
var ErrNotInWishlist = fmt.Errorf("product not in wishlist: %w", ErrIllegalTransition)

var ErrOrderNotFound = fmt.Errorf("order not found: %w", ErrIllegalTransition)
var ErrOrderNotCancellable = fmt.Errorf("order cannot be cancelled: %w", ErrIllegalTransition)
var ErrOrderNotAdvanceable = fmt.Errorf("order cannot be advanced: %w", ErrIllegalTransition)
var ErrDuplicateOrder = fmt.Errorf("order already exists: %w", ErrIllegalTransition)

var ErrNotificationNotFound = fmt.Errorf("notification not found: %w", ErrIllegalTransition)
var ErrAlreadyRead = fmt.Errorf("notification already read: %w", ErrIllegalTransition)

var ErrAddressNotFound = fmt.Errorf("address not found: %w", ErrIllegalTransition)
var ErrPaymentMethodNotFound = fmt.Errorf("payment method not found: %w", ErrIllegalTransition)

var ErrUnknownCommand = fmt.Errorf("unknown command: %w", ErrIllegalTransition)

// ErrCartEmpty is returned when checkout is attempted with no cart lines.
var ErrCartEmpty = errors.New("cart is empty")

var ErrProductNotFound = errors.New("product not found")
var ErrPlanNotFound = errors.New("subscription plan not found")
