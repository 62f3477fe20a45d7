package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	FeedGlobal    = "global"
	FeedGroup     = "group"
	FeedProfile   = "profile"
	FeedFollowing = "following"
)

var (
	feedReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_reads_total",
		Help: "Feed pages served, by feed kind.",
	}, []string{"feed"})

	feedCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_cache_lookups_total",
		Help: "Global feed cache lookups, by result.",
	}, []string{"result"})

	mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_mutations_total",
		Help: "Write operations, by operation and outcome.",
	}, []string{"operation", "outcome"})
)

// FeedRead counts one served page of the given feed.
func FeedRead(feed string) {
	feedReads.WithLabelValues(feed).Inc()
}

// CacheLookup counts a global feed cache hit or miss.
func CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	feedCache.WithLabelValues(result).Inc()
}

// Mutation counts a write operation. outcome is one of ok, noop, denied,
// invalid, not_found or error.
func Mutation(operation, outcome string) {
	mutations.WithLabelValues(operation, outcome).Inc()
}

// Handler exposes the default registry for scraping.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
