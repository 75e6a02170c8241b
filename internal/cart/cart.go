// Package cart aggregates the products a shopper intends to buy.
//
// The cart is a value: Reduce never mutates the state it is given and returns
// a new State for every accepted command. Commands that do not apply return
// an error wrapping errors.ErrIllegalTransition together with the unchanged state.
package cart

import (
	"fmt"
	"slices"

	"github.com/abgdnv/freshcart/internal/catalog"
	storeerrors "github.com/abgdnv/freshcart/internal/errors"
)

// DeliveryFee is charged on every non-empty cart, in minor units.
const DeliveryFee int64 = 200

// Line is a snapshot of a product taken when it was first added, plus a quantity.
type Line struct {
	ProductID int    `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
}

// State holds at most one line per product, in insertion order.
type State struct {
	Lines []Line `json:"items"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return State{Lines: slices.Clone(s.Lines)}
}

// IsEmpty reports whether the cart has no lines.
func (s State) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Line returns the line of a product, if present.
func (s State) Line(productID int) (Line, bool) {
	if i := s.index(productID); i >= 0 {
		return s.Lines[i], true
	}
	return Line{}, false
}

func (s State) index(productID int) int {
	return slices.IndexFunc(s.Lines, func(l Line) bool { return l.ProductID == productID })
}

// Command is one of AddItem, Increment, Decrement, Remove or Clear.
type Command interface {
	cartCommand()
}

// AddItem adds Quantity units of Product, merging into an existing line.
type AddItem struct {
	Product  catalog.Product
	Quantity int
}

type Increment struct {
	ProductID int
}

// Decrement removes one unit; the line is dropped when it reaches zero.
type Decrement struct {
	ProductID int
}

type Remove struct {
	ProductID int
}

type Clear struct{}

func (AddItem) cartCommand()   {}
func (Increment) cartCommand() {}
func (Decrement) cartCommand() {}
func (Remove) cartCommand()    {}
func (Clear) cartCommand()     {}

// Reduce applies cmd to s.
func Reduce(s State, cmd Command) (State, error) {
	switch c := cmd.(type) {
	case AddItem:
		return addItem(s, c)
	case Increment:
		return increment(s, c.ProductID)
	case Decrement:
		return decrement(s, c.ProductID)
	case Remove:
		return remove(s, c.ProductID)
	case Clear:
		return State{}, nil
	default:
		return s, fmt.Errorf("cart %T: %w", cmd, storeerrors.ErrUnknownCommand)
	}
}

func addItem(s State, c AddItem) (State, error) {
	if c.Quantity < 1 {
		return s, fmt.Errorf("add %d of product %d: %w", c.Quantity, c.Product.ID, storeerrors.ErrInvalidQuantity)
	}
	next := s.Clone()
	if i := next.index(c.Product.ID); i >= 0 {
		next.Lines[i].Quantity += c.Quantity
		return next, nil
	}
	next.Lines = append(next.Lines, Line{
		ProductID: c.Product.ID,
		Name:      c.Product.Name,
		Price:     c.Product.Price,
		Image:     c.Product.Image,
		Category:  c.Product.Category,
		Quantity:  c.Quantity,
	})
	return next, nil
}

func increment(s State, productID int) (State, error) {
	i := s.index(productID)
	if i < 0 {
		return s, fmt.Errorf("increment product %d: %w", productID, storeerrors.ErrLineNotFound)
	}
	next := s.Clone()
	next.Lines[i].Quantity++
	return next, nil
}

func decrement(s State, productID int) (State, error) {
	i := s.index(productID)
	if i < 0 {
		return s, fmt.Errorf("decrement product %d: %w", productID, storeerrors.ErrLineNotFound)
	}
	if s.Lines[i].Quantity <= 1 {
		return remove(s, productID)
	}
	next := s.Clone()
	next.Lines[i].Quantity--
	return next, nil
}

func remove(s State, productID int) (State, error) {
	i := s.index(productID)
	if i < 0 {
		return s, fmt.Errorf("remove product %d: %w", productID, storeerrors.ErrLineNotFound)
	}
	next := s.Clone()
	next.Lines = slices.Delete(next.Lines, i, i+1)
	return next, nil
}

// Totals is the derived price summary of a cart.
type Totals struct {
	ItemCount   int   `json:"itemCount"`
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"deliveryFee"`
	Total       int64 `json:"total"`
}

// ComputeTotals derives the cart totals. It is a pure function of the lines.
func ComputeTotals(s State) Totals {
	var t Totals
	for _, l := range s.Lines {
		t.ItemCount += l.Quantity
		t.Subtotal += l.Price * int64(l.Quantity)
	}
	if t.Subtotal > 0 {
		t.DeliveryFee = DeliveryFee
	}
	t.Total = t.Subtotal + t.DeliveryFee
	return t
}
