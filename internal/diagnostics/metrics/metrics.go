package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the diagnostics pipeline: how often the
// combined fetch degrades to device-only facts and how many user properties
// reach analytics.
type Metrics struct {
	CombinedFetches          *prometheus.CounterVec
	CombinedFetchDuration    prometheus.Histogram
	SocialsRefreshFailures   prometheus.Counter
	StoreUpdates             prometheus.Counter
	UserPropertiesForwarded  prometheus.Counter
	UserPropertyForwardFails prometheus.Counter
}

// New registers the diagnostics metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the diagnostics metrics with reg. Tests pass a
// fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CombinedFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "companion_diagnostics_combined_fetch_total",
			Help: "Combined user diagnostics fetches by outcome (ok, degraded)",
		}, []string{"outcome"}),
		CombinedFetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "companion_diagnostics_combined_fetch_duration_seconds",
			Help:    "Duration of the combined user profile and authentication sources fetch",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		SocialsRefreshFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "companion_diagnostics_socials_refresh_failures_total",
			Help: "Connected socials refreshes that failed to fetch authentication sources",
		}),
		StoreUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "companion_diagnostics_store_updates_total",
			Help: "Diagnostics sets published to subscribers",
		}),
		UserPropertiesForwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "companion_diagnostics_user_properties_forwarded_total",
			Help: "User properties forwarded to analytics",
		}),
		UserPropertyForwardFails: factory.NewCounter(prometheus.CounterOpts{
			Name: "companion_diagnostics_user_property_forward_failures_total",
			Help: "User properties analytics rejected",
		}),
	}
}

// ObserveCombinedFetch records the outcome and duration of a combined fetch.
// Call with time.Now() taken at the start of the fetch.
func (m *Metrics) ObserveCombinedFetch(start time.Time, degraded bool) {
	outcome := "ok"
	if degraded {
		outcome = "degraded"
	}
	m.CombinedFetches.WithLabelValues(outcome).Inc()
	m.CombinedFetchDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncSocialsRefreshFailures() {
	m.SocialsRefreshFailures.Inc()
}

func (m *Metrics) IncStoreUpdates() {
	m.StoreUpdates.Inc()
}

func (m *Metrics) IncUserPropertiesForwarded() {
	m.UserPropertiesForwarded.Inc()
}

func (m *Metrics) IncUserPropertyForwardFails() {
	m.UserPropertyForwardFails.Inc()
}
