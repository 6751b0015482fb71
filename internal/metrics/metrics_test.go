//go:build unit

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSubmission("contact", "accepted")
	c.RecordSubmission("contact", "accepted")
	c.RecordSubmission("newsletter", "duplicate")
	c.RecordNotificationFailure("contact")
	c.RecordPostView()
	c.RecordRequest(http.MethodGet, "/blog/", 200, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.submissions.WithLabelValues("contact", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.submissions.WithLabelValues("newsletter", "duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.notifyFailed.WithLabelValues("contact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.postViews))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/blog/", "200")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordPostView()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), "portfolio_post_views_total 1"))
}
