package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(mutations.WithLabelValues("follow", "noop"))
	Mutation("follow", "noop")
	assert.Equal(t, before+1, testutil.ToFloat64(mutations.WithLabelValues("follow", "noop")))

	hits := testutil.ToFloat64(feedCache.WithLabelValues("hit"))
	CacheLookup(true)
	assert.Equal(t, hits+1, testutil.ToFloat64(feedCache.WithLabelValues("hit")))

	reads := testutil.ToFloat64(feedReads.WithLabelValues(FeedGroup))
	FeedRead(FeedGroup)
	assert.Equal(t, reads+1, testutil.ToFloat64(feedReads.WithLabelValues(FeedGroup)))
}

func TestHandler(t *testing.T) {
	FeedRead(FeedGlobal)

	e := echo.New()
	e.GET("/metrics", Handler())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "yatube_feed_reads_total"))
}
