package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements every hook interface on top of a private Prometheus
// registry. A CLI run is short-lived, so the registry is written once to a
// node_exporter textfile instead of being scraped.
type Metrics struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	records       prometheus.Gauge
	pages         *prometheus.CounterVec
	pageDuration  *prometheus.HistogramVec
	documents     *prometheus.CounterVec
	cacheEvents   *prometheus.CounterVec
	cacheBytes    prometheus.Counter
	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	retries       *prometheus.CounterVec
}

// NewMetrics creates and registers the onboardqr collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboardqr",
			Name:      "fetches_total",
			Help:      "Snapshot fetches by result.",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "onboardqr",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent gathering a tenant snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "onboardqr",
			Name:      "onboarding_records",
			Help:      "Onboarding records in the last fetched snapshot.",
		}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboardqr",
			Name:      "pages_rendered_total",
			Help:      "Rendered pages by kind and result.",
		}, []string{"kind", "result"}),
		pageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "onboardqr",
			Name:      "page_render_duration_seconds",
			Help:      "Time spent drawing one page.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"kind"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboardqr",
			Name:      "documents_total",
			Help:      "Generated documents by variant and result.",
		}, []string{"variant", "result"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboardqr",
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "onboardqr",
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the snapshot cache.",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboardqr",
			Name:      "queries_total",
			Help:      "SQL queries by logical database kind, query and result.",
		}, []string{"database", "query", "result"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "onboardqr",
			Name:      "query_duration_seconds",
			Help:      "SQL query latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboardqr",
			Name:      "connect_retries_total",
			Help:      "Failed connection attempts that were retried.",
		}, []string{"database"}),
	}
	m.registry.MustRegister(
		m.fetches, m.fetchDuration, m.records,
		m.pages, m.pageDuration, m.documents,
		m.cacheEvents, m.cacheBytes,
		m.queries, m.queryDuration, m.retries,
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes all collected metrics in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnFetchStart(context.Context, string) {}

func (m *Metrics) OnFetchComplete(_ context.Context, _ string, records int, d time.Duration, err error) {
	m.fetches.WithLabelValues(result(err)).Inc()
	m.fetchDuration.Observe(d.Seconds())
	if err == nil {
		m.records.Set(float64(records))
	}
}

func (m *Metrics) OnPlanComplete(context.Context, string, int) {}

func (m *Metrics) OnPageRendered(_ context.Context, kind string, d time.Duration, err error) {
	m.pages.WithLabelValues(kind, result(err)).Inc()
	m.pageDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) OnRenderComplete(_ context.Context, variant string, _ int, _ time.Duration, err error) {
	m.documents.WithLabelValues(variant, result(err)).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

// OnQuery labels by database kind (central or tenant) to keep the
// cardinality independent of the number of tenants.
func (m *Metrics) OnQuery(_ context.Context, database, query string, d time.Duration, err error) {
	m.queries.WithLabelValues(databaseKind(database), query, result(err)).Inc()
	m.queryDuration.WithLabelValues(query).Observe(d.Seconds())
}

func (m *Metrics) OnConnectRetry(_ context.Context, database string, _ int, _ error) {
	m.retries.WithLabelValues(databaseKind(database)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func databaseKind(name string) string {
	if len(name) > 7 && name[:7] == "tenant-" {
		return "tenant"
	}
	return "central"
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ QueryHooks    = (*Metrics)(nil)
)
