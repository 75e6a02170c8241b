package subscriber

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/freshcart/internal/catalog"
	"github.com/abgdnv/freshcart/internal/service"
	"github.com/abgdnv/freshcart/internal/store"
	"github.com/abgdnv/freshcart/pkg/config"
	"github.com/abgdnv/freshcart/pkg/messaging"
	"github.com/abgdnv/freshcart/pkg/messaging/events"
	pnats "github.com/abgdnv/freshcart/pkg/nats"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"golang.org/x/sync/errgroup"
)

// skipIntegrationTests is the environment variable that controls whether to skip integration tests.
const skipIntegrationTests = "STOREFRONT_SKIP_INTEGRATION_TESTS"
const natsImg = "nats:2.11.6-alpine"

// SubscriberSuite runs the fulfillment subscriber against a NATS container.
type SubscriberSuite struct {
	suite.Suite
	ctx           context.Context
	logger        *slog.Logger
	natsContainer *nats.NATSContainer
	nc            *natsgo.Conn
	js            jetstream.JetStream
}

func (s *SubscriberSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var err error
	s.natsContainer, err = nats.Run(s.ctx, natsImg)
	require.NoError(s.T(), err, "Failed to run NATS container")

	natsURL, err := s.natsContainer.ConnectionString(s.ctx)
	require.NoError(s.T(), err)
	s.nc, err = pnats.NewClient(natsURL, 5*time.Second)
	require.NoError(s.T(), err, "Failed to connect to NATS")

	s.js, err = pnats.NewJetStreamContext(s.nc)
	require.NoError(s.T(), err, "Failed to get JetStream context")
}

func (s *SubscriberSuite) TearDownSuite() {
	s.nc.Close()
	if err := testcontainers.TerminateContainer(s.natsContainer); err != nil {
		s.logger.Error("Failed to terminate NATS container", "error", err)
	}
}

func TestSubscriberIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(SubscriberSuite))
}

// newService returns a service holding one placed order.
func (s *SubscriberSuite) newService() (*service.Service, string) {
	cat, err := catalog.Load()
	require.NoError(s.T(), err)
	st := store.New(store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	svc := service.NewService(st, cat, messaging.NewLogPublisher(s.logger))
	_, err = svc.AddToCart(s.ctx, service.AddToCartDto{ProductID: 1})
	require.NoError(s.T(), err)
	placed, err := svc.PlaceOrder(s.ctx, service.PlaceOrderDto{})
	require.NoError(s.T(), err)
	return svc, placed.ID
}

type testCase struct {
	name     string
	publish  func(p *pnats.NatsPublisher, subject, orderID string) error
	wantAcks uint64
	want     string
}

func (s *SubscriberSuite) TestAdvanceFromFulfillmentUpdates() {
	testCases := []testCase{
		{
			name: "two updates advance the order twice",
			publish: func(p *pnats.NatsPublisher, subject, orderID string) error {
				for range 2 {
					if err := p.Publish(s.ctx, subjectEvent{subject, events.OrderStatusAdvancedEvent{OrderID: orderID}}); err != nil {
						return err
					}
				}
				return nil
			},
			wantAcks: 2,
			want:     "Shipped",
		},
		{
			name: "poison message does not block the next update",
			publish: func(p *pnats.NatsPublisher, subject, orderID string) error {
				if _, err := s.js.Publish(s.ctx, subject, []byte("invalid payload")); err != nil {
					return err
				}
				return p.Publish(s.ctx, subjectEvent{subject, events.OrderStatusAdvancedEvent{OrderID: orderID}})
			},
			wantAcks: 2,
			want:     "Prepared",
		},
		{
			name: "unknown order is terminated",
			publish: func(p *pnats.NatsPublisher, subject, _ string) error {
				return p.Publish(s.ctx, subjectEvent{subject, events.OrderStatusAdvancedEvent{OrderID: "ORD-0"}})
			},
			wantAcks: 1,
			want:     "Confirmed",
		},
	}
	for _, tc := range testCases {
		s.T().Run(tc.name, func(t *testing.T) {
			s.runTest(t, tc)
		})
	}
}

func (s *SubscriberSuite) runTest(t *testing.T, tc testCase) {
	streamName := "STREAM-" + uuid.NewString()
	consumerName := "CONSUMER-" + uuid.NewString()
	subject := "fulfillment." + uuid.NewString()
	svc, orderID := s.newService()

	testCtx, testCancel := context.WithTimeout(s.ctx, 10*time.Second)
	g, gCtx := errgroup.WithContext(testCtx)
	t.Cleanup(func() {
		testCancel()
		err := g.Wait()
		require.ErrorIs(t, err, context.Canceled)
	})

	// given
	require.NoError(t, pnats.EnsureStream(s.ctx, s.js, streamName, subject))
	cfg := config.SubscriberConfig{
		Enabled:  true,
		Stream:   streamName,
		Subject:  subject,
		Consumer: consumerName,
		Timeout:  200 * time.Millisecond,
		Interval: 200 * time.Millisecond,
		Workers:  1,
	}
	g.Go(func() error {
		return Start(gCtx, s.js, cfg, svc, s.logger)
	})

	// when
	require.NoError(t, tc.publish(pnats.NewNatsPublisher(s.js), subject, orderID))

	// then
	require.Eventually(t, func() bool {
		consumer, err := s.js.Consumer(s.ctx, streamName, consumerName)
		if err != nil {
			return false
		}
		info, err := consumer.Info(s.ctx)
		if err != nil {
			return false
		}
		return info.NumPending == 0 && info.NumAckPending == 0 && info.AckFloor.Stream == tc.wantAcks
	}, 5*time.Second, 100*time.Millisecond, "fulfillment updates were not settled in time")

	got, err := svc.Order(s.ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, tc.want, got.Status)
}

// subjectEvent publishes an event on a test-specific subject.
type subjectEvent struct {
	subject string
	events.OrderStatusAdvancedEvent
}

func (e subjectEvent) Subject() string {
	return e.subject
}
