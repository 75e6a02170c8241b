package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abgdnv/freshcart/pkg/config"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func TestNewChiRouter_AssignsRequestID(t *testing.T) {
	// given
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := NewChiRouter(logger)
	var seen string
	mux.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetReqID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	// when
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	// then
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, seen)
}

func TestNewHTTPServer(t *testing.T) {
	// given
	var cfg config.HTTPConfig
	cfg.Port = 8080
	cfg.MaxHeaderBytes = 1 << 20

	// when
	srv := NewHTTPServer(cfg, http.NotFoundHandler())

	// then
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
}

func TestHealthServer(t *testing.T) {
	// given
	lis := bufconn.Listen(1 << 20)
	healthServer, register := NewHealthServer()
	grpcServer := NewGRPCServer(true, register)
	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	client := grpc_health_v1.NewHealthClient(conn)

	// when
	serving, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	stopping, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)

	// then
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, serving.GetStatus())
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, stopping.GetStatus())
}
