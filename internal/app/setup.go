// Package app contains the application setup for the storefront.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/freshcart/internal/catalog"
	"github.com/abgdnv/freshcart/internal/config"
	"github.com/abgdnv/freshcart/internal/service"
	"github.com/abgdnv/freshcart/internal/store"
	"github.com/abgdnv/freshcart/internal/transport/rest"
	"github.com/abgdnv/freshcart/pkg/messaging"
	pnats "github.com/abgdnv/freshcart/pkg/nats"
	"github.com/abgdnv/freshcart/pkg/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Dependencies struct {
	Service *service.Service
	Logger  *slog.Logger
}

// SetupDependencies loads the catalog and builds the store and service around publisher.
func SetupDependencies(publisher messaging.Publisher, logger *slog.Logger) (*Dependencies, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	st := store.New(store.WithLogger(logger))
	return &Dependencies{
		Service: service.NewService(st, cat, publisher),
		Logger:  logger,
	}, nil
}

// SetupHttpHandler builds the traced router with the storefront API and, when metrics
// is non-nil, the /metrics endpoint.
func SetupHttpHandler(deps *Dependencies, metrics http.Handler) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	rest.NewHandler(deps.Service, deps.Logger).RegisterRoutes(mux)
	if metrics != nil {
		mux.Method(http.MethodGet, "/metrics", metrics)
	}
	return otelhttp.NewHandler(mux, "storefront",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/metrics" && r.URL.Path != "/healthz"
		}),
	)
}

// Messaging is the broker side of the application. Conn and JetStream are nil when
// the broker is disabled and events are only logged.
type Messaging struct {
	Publisher messaging.Publisher
	Conn      *natsgo.Conn
	JetStream jetstream.JetStream
}

// Close drains the broker connection, if any.
func (m *Messaging) Close() error {
	if m.Conn == nil {
		return nil
	}
	return m.Conn.Drain()
}

// SetupMessaging connects to NATS, makes sure the storefront stream exists and wraps the
// JetStream publisher with retries and a circuit breaker.
func SetupMessaging(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Messaging, error) {
	if !cfg.Nats.Enabled {
		logger.Info("NATS is disabled, order events are logged only")
		return &Messaging{Publisher: messaging.NewLogPublisher(logger.With("component", "publisher"))}, nil
	}
	nc, err := pnats.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, err
	}
	js, err := pnats.NewJetStreamContext(nc)
	if err != nil {
		nc.Close()
		return nil, err
	}
	if err := pnats.EnsureStream(ctx, js, cfg.Nats.Stream, streamSubjects(cfg)...); err != nil {
		nc.Close()
		return nil, err
	}
	publisher := messaging.NewResilientPublisher(pnats.NewNatsPublisher(js), cfg.Publisher)
	logger.Info("Connected to NATS", slog.String("stream", cfg.Nats.Stream))
	return &Messaging{Publisher: publisher, Conn: nc, JetStream: js}, nil
}

// streamSubjects lists the subjects bound to the storefront stream. The fulfillment
// subject is included only when the subscriber reads from the same stream.
func streamSubjects(cfg *config.Config) []string {
	subjects := []string{messaging.OrdersPlacedSubject, messaging.OrdersCancelledSubject}
	if cfg.Fulfillment.Enabled && cfg.Fulfillment.Stream == cfg.Nats.Stream {
		subjects = append(subjects, cfg.Fulfillment.Subject)
	}
	return subjects
}
