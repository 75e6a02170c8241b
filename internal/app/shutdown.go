package app

import (
	"context"
	"errors"
)

// Shutdowns collects release functions for resources acquired during startup.
type Shutdowns []func(context.Context) error

func (s *Shutdowns) Add(fn func(context.Context) error) {
	*s = append(*s, fn)
}

// Run releases resources in reverse acquisition order and joins their errors.
func (s Shutdowns) Run(ctx context.Context) error {
	errs := make([]error, 0, len(s))
	for i := len(s) - 1; i >= 0; i-- {
		errs = append(errs, s[i](ctx))
	}
	return errors.Join(errs...)
}
