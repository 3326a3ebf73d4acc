package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/products", 200, 120*time.Millisecond)
	m.Observe("GET", "/api/products", 200, 80*time.Millisecond)
	m.Observe("POST", "", 500, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/products"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 requests, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected unknown route counter 1, got %f err=%v", got, err)
	}
	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/products"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestOrderMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)
	m.ObserveCreated(590)
	m.IncTransition("pending", "confirmed")
	m.IncRemoval("cancelled")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	created := findMetricFamily(mfs, "orders_created_total")
	if created == nil || created.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected orders_created_total=1")
	}
	totals := findMetricFamily(mfs, "order_total_amount")
	if totals == nil || totals.GetMetric()[0].GetHistogram().GetSampleSum() != 590 {
		t.Fatalf("expected order total sum 590")
	}
	if got, err := fetchCounterValue(mfs, "order_status_transitions_total", "to", "confirmed"); err != nil || got != 1 {
		t.Fatalf("expected transition counter 1, got %f err=%v", got, err)
	}
	if got, err := fetchCounterValue(mfs, "order_removals_total", "outcome", "cancelled"); err != nil || got != 1 {
		t.Fatalf("expected removal counter 1, got %f err=%v", got, err)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var h *HTTPMetrics
	h.Observe("GET", "/", 200, time.Second)
	var o *OrderMetrics
	o.ObserveCreated(1)
	o.IncTransition("a", "b")
	o.IncRemoval("deleted")
	NewOrderMetrics(nil).ObserveCreated(1)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
