package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Label names
const (
	LabelMethod  = "method"
	LabelRoute   = "route"
	LabelStatus  = "status"
	LabelTheme   = "theme"
	LabelOutcome = "outcome"
	LabelResult  = "result"
)

// ThemeNone labels renders without an active seasonal theme.
const ThemeNone = "none"

// HTTPLatencyBuckets covers fast template renders up to slow upstream calls.
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Metrics owns the storefront collectors, registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ThemeRenders        *prometheus.CounterVec
	CatalogSearches     *prometheus.CounterVec
	SearchCache         *prometheus.CounterVec
	CartMutations       *prometheus.CounterVec
	NewsletterSignups   prometheus.Counter
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route and status.",
			},
			[]string{LabelMethod, LabelRoute, LabelStatus},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   HTTPLatencyBuckets,
			},
			[]string{LabelMethod, LabelRoute},
		),
		ThemeRenders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "theme_renders_total",
				Help:      "Page renders by active seasonal theme.",
			},
			[]string{LabelTheme},
		),
		CatalogSearches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_searches_total",
				Help:      "Catalog listings by search outcome.",
			},
			[]string{LabelOutcome},
		),
		SearchCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_cache_lookups_total",
				Help:      "Filtered result cache lookups by result.",
			},
			[]string{LabelResult},
		),
		CartMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cart_mutations_total",
				Help:      "Cart operations delegated to the cart logic, by operation and result.",
			},
			[]string{"op", LabelResult},
		),
		NewsletterSignups: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "newsletter_signups_total",
				Help:      "Accepted newsletter subscriptions.",
			},
		),
	}
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ThemeRendered counts a page render under theme key; empty means no theme.
func (m *Metrics) ThemeRendered(key string) {
	if key == "" {
		key = ThemeNone
	}
	m.ThemeRenders.WithLabelValues(key).Inc()
}

// SearchPerformed counts a catalog listing by outcome.
func (m *Metrics) SearchPerformed(outcome string) {
	m.CatalogSearches.WithLabelValues(outcome).Inc()
}

// CacheLookup counts a filtered result cache lookup.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SearchCache.WithLabelValues(result).Inc()
}

// CartMutation counts a cart operation.
func (m *Metrics) CartMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CartMutations.WithLabelValues(op, result).Inc()
}

// NewsletterSignup counts an accepted subscription.
func (m *Metrics) NewsletterSignup() { m.NewsletterSignups.Inc() }
