package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.Observe(http.MethodGet, "/api/public/products", http.StatusOK, 120*time.Millisecond)
	metrics.Observe(http.MethodGet, "/api/public/products", http.StatusOK, 80*time.Millisecond)
	metrics.Observe(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", map[string]string{"route": "/api/public/products", "status": "200"}); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 requests, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", map[string]string{"route": "unknown", "status": "404"}); err != nil || got != 1 {
		t.Fatalf("expected unknown route counted once, got %f (%v)", got, err)
	}
	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", map[string]string{"route": "/api/public/products"}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got < 0.19 {
		t.Fatalf("expected duration sum ~0.2, got %f", got)
	}
}

func TestVehicleLookupMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewVehicleLookupMetrics(reg)
	metrics.CacheResult("memory", true)
	metrics.CacheResult("memory", false)
	metrics.CacheResult("shared", false)
	metrics.ProviderAttempt("placafipe", OutcomeError, 2*time.Second)
	metrics.ProviderAttempt("apibrasil", OutcomeSuccess, 300*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, _ := fetchCounterValue(mfs, "vehicle_lookup_cache_total", map[string]string{"layer": "memory", "result": "hit"}); got != 1 {
		t.Fatalf("expected one memory hit, got %f", got)
	}
	if got, _ := fetchCounterValue(mfs, "vehicle_lookup_provider_attempts_total", map[string]string{"provider": "placafipe", "outcome": OutcomeError}); got != 1 {
		t.Fatalf("expected one provider error, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "vehicle_lookup_provider_duration_seconds", map[string]string{"provider": "apibrasil"}); err != nil || got <= 0 {
		t.Fatalf("expected provider latency recorded, got %f (%v)", got, err)
	}
}

func TestOutboxMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOutboxMetrics(reg)
	metrics.IncPublished("order.created")
	metrics.IncFailed("order.created")
	metrics.IncDeadLettered("max_attempts")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for name, labels := range map[string]map[string]string{
		"outbox_published_total":        {"event_type": "order.created"},
		"outbox_publish_failures_total": {"event_type": "order.created"},
		"outbox_dead_lettered_total":    {"reason": "max_attempts"},
	} {
		if got, err := fetchCounterValue(mfs, name, labels); err != nil || got != 1 {
			t.Fatalf("%s: expected 1, got %f (%v)", name, got, err)
		}
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewHTTPMetrics(nil).Observe(http.MethodGet, "/", http.StatusOK, time.Second)
	NewVehicleLookupMetrics(nil).CacheResult("memory", true)
	NewOutboxMetrics(nil).IncPublished("x")
	var m *VehicleLookupMetrics
	m.ProviderAttempt("p", OutcomeSuccess, time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok {
			if v != pair.GetValue() {
				return false
			}
			matched++
		}
	}
	return matched == len(want)
}
