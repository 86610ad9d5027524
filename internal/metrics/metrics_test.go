package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.RecordCreated("washroom")
	m.RecordCreated("washroom")
	m.RecordCreated("clinic")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.recordsCreated.WithLabelValues("washroom")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recordsCreated.WithLabelValues("clinic")))

	m.ObserveRequest("/client/:id", http.MethodGet, 404, 3*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/client/:id", "GET", "404")))
}

func TestMetrics_Handler(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.RecordCreated("activity")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `backdoor_records_created_total{service="activity"} 1`), body)
}
