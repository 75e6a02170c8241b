// Package wishlist keeps the set of products a shopper has liked.
package wishlist

import (
	"fmt"
	"slices"

	"github.com/abgdnv/freshcart/internal/catalog"
	storeerrors "github.com/abgdnv/freshcart/internal/errors"
)

// Entry is a snapshot of a liked product.
type Entry struct {
	ProductID   int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category,omitempty"`
}

// EntryFrom snapshots a catalog product.
func EntryFrom(p catalog.Product) Entry {
	return Entry{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
	}
}

// State is an insertion-ordered set keyed by product id.
type State struct {
	Entries []Entry `json:"items"`
}

func (s State) Clone() State {
	return State{Entries: slices.Clone(s.Entries)}
}

// Contains reports whether the product is in the wishlist.
func (s State) Contains(productID int) bool {
	return s.index(productID) >= 0
}

func (s State) index(productID int) int {
	return slices.IndexFunc(s.Entries, func(e Entry) bool { return e.ProductID == productID })
}

type Command interface {
	wishlistCommand()
}

type Add struct {
	Entry Entry
}

type Remove struct {
	ProductID int
}

func (Add) wishlistCommand()    {}
func (Remove) wishlistCommand() {}

// Reduce applies cmd to s without mutating s.
func Reduce(s State, cmd Command) (State, error) {
	switch c := cmd.(type) {
	case Add:
		if s.Contains(c.Entry.ProductID) {
			return s, fmt.Errorf("add product %d: %w", c.Entry.ProductID, storeerrors.ErrAlreadyInWishlist)
		}
		next := s.Clone()
		next.Entries = append(next.Entries, c.Entry)
		return next, nil
	case Remove:
		i := s.index(c.ProductID)
		if i < 0 {
			return s, fmt.Errorf("remove product %d: %w", c.ProductID, storeerrors.ErrNotInWishlist)
		}
		next := s.Clone()
		next.Entries = slices.Delete(next.Entries, i, i+1)
		return next, nil
	default:
		return s, fmt.Errorf("wishlist %T: %w", cmd, storeerrors.ErrUnknownCommand)
	}
}

// Toggle returns the command that flips membership of the product.
func Toggle(s State, p catalog.Product) Command {
	if s.Contains(p.ID) {
		return Remove{ProductID: p.ID}
	}
	return Add{Entry: EntryFrom(p)}
}
