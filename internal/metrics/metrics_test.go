package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/api/products/1", "/api/products/2", "/ok"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/products/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/ok", "200")))
}

func TestCounters(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.CartMutation("add")
	m.CartMutation("add")
	m.OrderSubmitted("ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CartMutations.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders.WithLabelValues("ok")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "storefront_cart_mutations_total")
	assert.Contains(t, string(body), "storefront_order_submissions_total")
}
