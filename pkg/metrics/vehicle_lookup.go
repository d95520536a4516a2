package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes recorded per provider attempt.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// VehicleLookupMetrics tracks cache effectiveness and provider health for
// plate lookups.
type VehicleLookupMetrics struct {
	cache     *prometheus.CounterVec
	providers *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewVehicleLookupMetrics registers the lookup metrics on the provided registerer.
func NewVehicleLookupMetrics(reg prometheus.Registerer) *VehicleLookupMetrics {
	if reg == nil {
		return &VehicleLookupMetrics{}
	}
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vehicle_lookup_cache_total",
		Help: "Plate lookup cache results by layer (memory, shared) and result (hit, miss).",
	}, []string{"layer", "result"})
	providers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vehicle_lookup_provider_attempts_total",
		Help: "Plate lookup provider attempts by provider and outcome.",
	}, []string{"provider", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vehicle_lookup_provider_duration_seconds",
		Help:    "Plate lookup provider latency in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"provider"})
	reg.MustRegister(cache, providers, latency)
	return &VehicleLookupMetrics{cache: cache, providers: providers, latency: latency}
}

// CacheResult records a hit or miss on a cache layer.
func (m *VehicleLookupMetrics) CacheResult(layer string, hit bool) {
	if m == nil || m.cache == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(normalizeLabel(layer), result).Inc()
}

// ProviderAttempt records one provider call.
func (m *VehicleLookupMetrics) ProviderAttempt(provider, outcome string, elapsed time.Duration) {
	if m == nil || m.providers == nil {
		return
	}
	provider = normalizeLabel(provider)
	m.providers.WithLabelValues(provider, normalizeLabel(outcome)).Inc()
	m.latency.WithLabelValues(provider).Observe(elapsed.Seconds())
}
