// internal/telemetry/telemetry_test.go
package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"kingdomseekers/internal/apitest"
	"kingdomseekers/internal/clients"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), "", "kscli")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewExporter(t *testing.T) {
	exp, err := NewExporter(context.Background(), "127.0.0.1:4318", true)
	require.NoError(t, err)
	assert.NoError(t, exp.Shutdown(context.Background()))
}

func TestSetupInstallsSDKProviders(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(collector.Close)

	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})

	ctx := context.Background()
	shutdown, err := Setup(ctx, strings.TrimPrefix(collector.URL, "http://"), "kscli")
	require.NoError(t, err)

	assert.IsType(t, &sdktrace.TracerProvider{}, otel.GetTracerProvider())
	assert.IsType(t, &sdkmetric.MeterProvider{}, otel.GetMeterProvider())

	client := clients.NewClient(apitest.New(t).BaseURL())
	require.NoError(t, client.Do(ctx, clients.Request{Method: http.MethodGet, Path: "/rooms"}, nil))

	require.NoError(t, shutdown(ctx))
	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, paths, "/v1/metrics")
	assert.Contains(t, paths, "/v1/traces")
}

func TestClientRequestsAreCounted(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProvider("kscli-test", sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	srv := apitest.New(t)
	srv.FailNext(http.MethodGet, "/pastors", http.StatusInternalServerError, "boom")
	client := clients.NewClient(srv.BaseURL(), clients.WithMeterProvider(mp))
	ctx := context.Background()

	require.NoError(t, client.Do(ctx, clients.Request{Method: http.MethodGet, Path: "/members"}, nil))
	require.NoError(t, client.Do(ctx, clients.Request{Method: http.MethodGet, Path: "/members"}, nil))
	require.Error(t, client.Do(ctx, clients.Request{Method: http.MethodGet, Path: "/pastors"}, nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.Contains(t, rm.Resource.Attributes(), attribute.String("service.name", "kscli-test"))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, m.Name)
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(3), totals["clients.requests"])
	assert.Equal(t, int64(1), totals["clients.failures"])
}

func TestClientRequestsAreTraced(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := NewProvider("kscli-test", sdktrace.WithSyncer(exp))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	srv := apitest.New(t)
	srv.FailNext(http.MethodGet, "/pastors", http.StatusInternalServerError, "boom")
	client := clients.NewClient(srv.BaseURL())
	ctx := context.Background()

	require.NoError(t, client.Do(ctx, clients.Request{Method: http.MethodGet, Path: "/members"}, nil))
	require.Error(t, client.Do(ctx, clients.Request{Method: http.MethodGet, Path: "/pastors"}, nil))

	spans := exp.GetSpans()
	require.Len(t, spans, 2)
	for _, s := range spans {
		assert.Equal(t, "clients.request", s.Name)
		assert.Contains(t, s.Resource.Attributes(), attribute.String("service.name", "kscli-test"))
	}
	assert.Contains(t, spans[0].Attributes, attribute.String("api.path", "/members"))
	assert.Contains(t, spans[0].Attributes, attribute.Int("http.status_code", http.StatusOK))
	assert.Equal(t, codes.Error, spans[1].Status.Code)
}
