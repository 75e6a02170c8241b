package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/abgdnv/freshcart/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// ResilientPublisher retries failed publishes with exponential backoff and
// stops calling the broker while its circuit breaker is open.
type ResilientPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker[any]
	retry   config.RetryConfig
}

func NewResilientPublisher(next Publisher, cfg config.ResilienceConfig) *ResilientPublisher {
	cb := cfg.CircuitBreaker
	st := gobreaker.Settings{
		Name:        "publisher-cb",
		MaxRequests: 3,
		Timeout:     cb.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > cb.ConsecutiveFailures ||
				(counts.TotalSuccesses+counts.TotalFailures > cb.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(counts.TotalSuccesses+counts.TotalFailures)*100 > float64(cb.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up is not a broker failure
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &ResilientPublisher{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[any](st),
		retry:   cfg.Retry,
	}
}

func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	backoff := p.retry.InitialBackoff
	for attempt := uint(1); ; attempt++ {
		_, err := p.breaker.Execute(func() (any, error) {
			return nil, p.next.Publish(ctx, event)
		})
		if err == nil || attempt >= p.retry.MaxAttempts ||
			errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return err
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
}

// State exposes the breaker state, mostly for tests and health reporting.
func (p *ResilientPublisher) State() gobreaker.State {
	return p.breaker.State()
}
