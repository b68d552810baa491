package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the run scheduler.
type Metrics struct {
	Registry               *prometheus.Registry
	BooksTotal             *prometheus.CounterVec
	FetchesTotal           prometheus.Counter
	FetchDuration          prometheus.Histogram
	FetchErrorsTotal       *prometheus.CounterVec
	ParseErrorsTotal       prometheus.Counter
	ListingsParsedTotal    prometheus.Counter
	ListingsDiscardedTotal prometheus.Counter
	FallbacksTotal         prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	books := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookpricer_books_total",
			Help: "Total books recorded, by outcome status.",
		},
		[]string{"status"},
	)
	fetches := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookpricer_fetches_total",
			Help: "Total marketplace searches issued.",
		},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookpricer_fetch_duration_seconds",
			Help:    "Latency of marketplace search fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	fetchErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookpricer_fetch_errors_total",
			Help: "Total fetch failures by type.",
		},
		[]string{"error_type"},
	)
	parseErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookpricer_parse_errors_total",
			Help: "Total result documents that could not be parsed.",
		},
	)
	listingsParsed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookpricer_listings_parsed_total",
			Help: "Total listings extracted from result documents.",
		},
	)
	listingsDiscarded := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookpricer_listings_discarded_total",
			Help: "Total listing items discarded during parsing.",
		},
	)
	fallbacks := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookpricer_fallback_searches_total",
			Help: "Total title/author retries after a fruitless ISBN search.",
		},
	)

	registry.MustRegister(books, fetches, fetchDuration, fetchErrors, parseErrors, listingsParsed, listingsDiscarded, fallbacks)

	return &Metrics{
		Registry:               registry,
		BooksTotal:             books,
		FetchesTotal:           fetches,
		FetchDuration:          fetchDuration,
		FetchErrorsTotal:       fetchErrors,
		ParseErrorsTotal:       parseErrors,
		ListingsParsedTotal:    listingsParsed,
		ListingsDiscardedTotal: listingsDiscarded,
		FallbacksTotal:         fallbacks,
	}
}

// IncBook increments the recorded-book counter for a status label.
func (m *Metrics) IncBook(status string) {
	if m == nil {
		return
	}
	m.BooksTotal.WithLabelValues(status).Inc()
}

// IncFetch increments the fetch counter.
func (m *Metrics) IncFetch() {
	if m == nil {
		return
	}
	m.FetchesTotal.Inc()
}

// ObserveFetch records one fetch duration.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncFetchError increments the fetch error counter for a type label.
func (m *Metrics) IncFetchError(errorType string) {
	if m == nil {
		return
	}
	m.FetchErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncParseError increments the unparsable-document counter.
func (m *Metrics) IncParseError() {
	if m == nil {
		return
	}
	m.ParseErrorsTotal.Inc()
}

// AddListings records listings kept and discarded by one parse.
func (m *Metrics) AddListings(parsed, discarded int) {
	if m == nil {
		return
	}
	m.ListingsParsedTotal.Add(float64(parsed))
	m.ListingsDiscardedTotal.Add(float64(discarded))
}

// IncFallback increments the fallback-search counter.
func (m *Metrics) IncFallback() {
	if m == nil {
		return
	}
	m.FallbacksTotal.Inc()
}
