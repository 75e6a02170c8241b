package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewMeterProvider_ServesCounters(t *testing.T) {
	// given
	mp, err := NewMeterProvider("storefront-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	counter, err := otel.Meter("telemetry-test").Int64Counter("orders_placed_total")
	require.NoError(t, err)

	// when
	counter.Add(context.Background(), 3)
	rec := httptest.NewRecorder()
	mp.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// then
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "orders_placed_total")
	assert.Contains(t, string(body), "go_goroutines")
}
