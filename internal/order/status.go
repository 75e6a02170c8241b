package order

import "fmt"

// Status is the lifecycle stage of an order.
type Status string

const (
	Confirmed      Status = "Confirmed"
	Prepared       Status = "Prepared"
	Shipped        Status = "Shipped"
	OutForDelivery Status = "OutForDelivery"
	Delivered      Status = "Delivered"
	Cancelled      Status = "Cancelled"
)

// progression is the forward fulfillment sequence. Cancelled is a side branch.
var progression = []Status{Confirmed, Prepared, Shipped, OutForDelivery, Delivered}

// ParseStatus converts a string into a known Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case Confirmed, Prepared, Shipped, OutForDelivery, Delivered, Cancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

func (s Status) CanCancel() bool {
	return s.Step() >= 0 && !s.IsTerminal()
}

// Next returns the following fulfillment stage.
// The second result is false for terminal or unknown statuses.
func (s Status) Next() (Status, bool) {
	i := s.Step()
	if i < 0 || s.IsTerminal() {
		return s, false
	}
	return progression[i+1], true
}

// Step is the zero-based position in the tracking stepper, or -1 for Cancelled.
func (s Status) Step() int {
	for i, st := range progression {
		if st == s {
			return i
		}
	}
	return -1
}
