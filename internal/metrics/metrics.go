package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pc_monitor_http_requests_total",
			Help: "Total number of HTTP requests by method, route, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pc_monitor_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pc_monitor_http_requests_in_flight",
		Help: "Current number of HTTP requests being processed.",
	})

	snapshotsReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pc_monitor_snapshots_received_total",
		Help: "Total number of snapshots accepted from agents.",
	})
)

// SnapshotCounter is the subset of store.MemoryStore needed to report how
// many machines are known.
type SnapshotCounter interface {
	Len() int
}

// machineCollector reads the store on each scrape so the gauge never drifts
// from the map it describes.
type machineCollector struct {
	store        SnapshotCounter
	machinesDesc *prometheus.Desc
}

func (c *machineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.machinesDesc
}

func (c *machineCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		c.machinesDesc,
		prometheus.GaugeValue,
		float64(c.store.Len()),
	)
}

// Register registers all metrics with reg. Call once at startup; tests pass a
// fresh prometheus.NewRegistry().
func Register(reg prometheus.Registerer, store SnapshotCounter) {
	reg.MustRegister(
		// Standard Go runtime and process metrics
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),

		// HTTP service metrics
		httpRequestsTotal,
		httpRequestDuration,
		httpRequestsInFlight,

		// Application metrics
		snapshotsReceived,
		&machineCollector{
			store: store,
			machinesDesc: prometheus.NewDesc(
				"pc_monitor_machines",
				"Number of machines with a stored snapshot.",
				nil,
				nil,
			),
		},
	)
}

// SnapshotReceived counts one accepted snapshot.
func SnapshotReceived() {
	snapshotsReceived.Inc()
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint,
// serving metrics gathered from g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// responseWriter wraps http.ResponseWriter to capture the response status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware wraps an http.Handler to record HTTP metrics.
// pattern should be the route path (e.g. "/api/monitor") rather than r.URL.Path
// so the path label has bounded cardinality.
func Middleware(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			httpRequestsInFlight.Dec()
			status := strconv.Itoa(rw.status)
			httpRequestsTotal.WithLabelValues(r.Method, pattern, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		}()

		next.ServeHTTP(rw, r)
	})
}
