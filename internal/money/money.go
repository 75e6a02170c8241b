// Package money formats minor currency units for display.
package money

import "fmt"

// Symbol is the storefront's fixed currency symbol.
const Symbol = "₹"

// Format renders minor units with two decimals, e.g. 19700 -> "₹197.00".
func Format(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, Symbol, minor/100, minor%100)
}
