package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	reg := New()
	promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "refguard_test_total",
		Help: "test counter",
	}).Inc()

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "refguard_test_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
