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

func TestRecordCountsRequests(t *testing.T) {
	c := New()
	c.Record(http.MethodGet, "/api/v1/leaves", http.StatusOK, 10*time.Millisecond)
	c.Record(http.MethodGet, "/api/v1/leaves", http.StatusOK, 20*time.Millisecond)
	c.Record(http.MethodPost, "/api/v1/leaves", http.StatusTooManyRequests, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues(http.MethodGet, "/api/v1/leaves", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rateLimited))
}

func TestLeaveCounters(t *testing.T) {
	c := New()
	c.LeaveCreated("annual")
	c.LeaveDecided("approved")
	c.LeaveDecided("approved")
	c.LeaveDeleted()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.leavesCreated.WithLabelValues("annual")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.leavesDecided.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.leavesDeleted))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.Record(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	c.LeaveCreated("sick")
	c.LeaveDecided("rejected")
	c.LeaveDeleted()
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.LeaveCreated("sick")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `leave_requests_created_total{leave_type="sick"} 1`))
}
