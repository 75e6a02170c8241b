// Package profile manages the shopper's details, delivery addresses and saved payment methods.
package profile

import (
	"fmt"
	"slices"

	storeerrors "github.com/abgdnv/freshcart/internal/errors"
)

type Address struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Street    string `json:"street"`
	City      string `json:"city"`
	ZipCode   string `json:"zipCode"`
	IsDefault bool   `json:"isDefault"`
}

// String renders the address on a single line.
func (a Address) String() string {
	return fmt.Sprintf("%s, %s %s", a.Street, a.City, a.ZipCode)
}

type PaymentMethod struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Last4      string `json:"last4"`
	Expiry     string `json:"expiry"`
	HolderName string `json:"holderName"`
	IsDefault  bool   `json:"isDefault"`
}

func (p PaymentMethod) String() string {
	return fmt.Sprintf("%s ending %s", p.Type, p.Last4)
}

type Profile struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Image          string          `json:"image"`
	Addresses      []Address       `json:"addresses"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
}

// Default is the profile a session starts with and returns to on logout.
func Default() Profile {
	return Profile{
		Name:  "Arkan Shaikh",
		Email: "arkan@example.com",
		Phone: "+1 234 567 8900",
		Image: "https://via.placeholder.com/150",
		Addresses: []Address{
			{ID: "1", Type: "Home", Street: "123 Main St", City: "Nashik", ZipCode: "422001", IsDefault: true},
		},
		PaymentMethods: []PaymentMethod{
			{ID: "1", Type: "Visa", Last4: "4242", Expiry: "12/24", HolderName: "Arkan Shaikh", IsDefault: true},
		},
	}
}

func (p Profile) Clone() Profile {
	p.Addresses = slices.Clone(p.Addresses)
	p.PaymentMethods = slices.Clone(p.PaymentMethods)
	return p
}

// DefaultAddress returns the address marked default, else the first one.
func (p Profile) DefaultAddress() (Address, bool) {
	if len(p.Addresses) == 0 {
		return Address{}, false
	}
	if i := slices.IndexFunc(p.Addresses, func(a Address) bool { return a.IsDefault }); i >= 0 {
		return p.Addresses[i], true
	}
	return p.Addresses[0], true
}

// DefaultPaymentMethod returns the method marked default, else the first one.
func (p Profile) DefaultPaymentMethod() (PaymentMethod, bool) {
	if len(p.PaymentMethods) == 0 {
		return PaymentMethod{}, false
	}
	if i := slices.IndexFunc(p.PaymentMethods, func(m PaymentMethod) bool { return m.IsDefault }); i >= 0 {
		return p.PaymentMethods[i], true
	}
	return p.PaymentMethods[0], true
}

type Command interface {
	profileCommand()
}

// Update overwrites the non-empty fields.
type Update struct {
	Name  string
	Email string
	Phone string
	Image string
}

// AddAddress appends an address. The first address always becomes the default.
type AddAddress struct{ Address Address }
type RemoveAddress struct{ ID string }
type SetDefaultAddress struct{ ID string }

// AddPaymentMethod appends a method. A default method clears the flag on the others.
type AddPaymentMethod struct{ Method PaymentMethod }
type RemovePaymentMethod struct{ ID string }
type SetDefaultPaymentMethod struct{ ID string }

func (Update) profileCommand()                  {}
func (AddAddress) profileCommand()              {}
func (RemoveAddress) profileCommand()           {}
func (SetDefaultAddress) profileCommand()       {}
func (AddPaymentMethod) profileCommand()        {}
func (RemovePaymentMethod) profileCommand()     {}
func (SetDefaultPaymentMethod) profileCommand() {}

// Reduce applies cmd to p without mutating p.
func Reduce(p Profile, cmd Command) (Profile, error) {
	next := p.Clone()
	switch c := cmd.(type) {
	case Update:
		if c.Name != "" {
			next.Name = c.Name
		}
		if c.Email != "" {
			next.Email = c.Email
		}
		if c.Phone != "" {
			next.Phone = c.Phone
		}
		if c.Image != "" {
			next.Image = c.Image
		}
	case AddAddress:
		a := c.Address
		if len(next.Addresses) == 0 {
			a.IsDefault = true
		}
		if a.IsDefault {
			for i := range next.Addresses {
				next.Addresses[i].IsDefault = false
			}
		}
		next.Addresses = append(next.Addresses, a)
	case RemoveAddress:
		i := addressIndex(p, c.ID)
		if i < 0 {
			return p, fmt.Errorf("remove address %s: %w", c.ID, storeerrors.ErrAddressNotFound)
		}
		next.Addresses = slices.Delete(next.Addresses, i, i+1)
	case SetDefaultAddress:
		if addressIndex(p, c.ID) < 0 {
			return p, fmt.Errorf("default address %s: %w", c.ID, storeerrors.ErrAddressNotFound)
		}
		for i := range next.Addresses {
			next.Addresses[i].IsDefault = next.Addresses[i].ID == c.ID
		}
	case AddPaymentMethod:
		m := c.Method
		if len(next.PaymentMethods) == 0 {
			m.IsDefault = true
		}
		if m.IsDefault {
			for i := range next.PaymentMethods {
				next.PaymentMethods[i].IsDefault = false
			}
		}
		next.PaymentMethods = append(next.PaymentMethods, m)
	case RemovePaymentMethod:
		i := paymentIndex(p, c.ID)
		if i < 0 {
			return p, fmt.Errorf("remove payment method %s: %w", c.ID, storeerrors.ErrPaymentMethodNotFound)
		}
		next.PaymentMethods = slices.Delete(next.PaymentMethods, i, i+1)
	case SetDefaultPaymentMethod:
		if paymentIndex(p, c.ID) < 0 {
			return p, fmt.Errorf("default payment method %s: %w", c.ID, storeerrors.ErrPaymentMethodNotFound)
		}
		for i := range next.PaymentMethods {
			next.PaymentMethods[i].IsDefault = next.PaymentMethods[i].ID == c.ID
		}
	default:
		return p, fmt.Errorf("profile %T: %w", cmd, storeerrors.ErrUnknownCommand)
	}
	return next, nil
}

func addressIndex(p Profile, id string) int {
	return slices.IndexFunc(p.Addresses, func(a Address) bool { return a.ID == id })
}

func paymentIndex(p Profile, id string) int {
	return slices.IndexFunc(p.PaymentMethods, func(m PaymentMethod) bool { return m.ID == id })
}
