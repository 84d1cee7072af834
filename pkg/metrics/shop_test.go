package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestShopMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewShopMetrics(reg)
	metrics.ObserveEvent("text", 120*time.Millisecond)
	metrics.ObserveEvent("text", 80*time.Millisecond)
	metrics.IncOrderPlaced("pickup")
	metrics.IncStockDecrementFailure()
	metrics.IncTransition("shipped")
	metrics.IncDeliveryFailure("image")
	metrics.IncDeliveryFailure("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "chat_events_total", "kind", "text"); err != nil {
		t.Fatalf("fetch events: %v", err)
	} else if got != 2 {
		t.Fatalf("expected events=2, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "chat_event_duration_seconds", "kind", "text"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "orders_placed_total", "delivery", "pickup"); err != nil || got != 1 {
		t.Fatalf("expected orders_placed=1, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "order_status_transitions_total", "status", "shipped"); err != nil || got != 1 {
		t.Fatalf("expected transitions=1, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "notification_delivery_failures_total", "shape", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected blank shape to normalize to unknown, got %f (%v)", got, err)
	}

	mf := findMetricFamily(mfs, "order_stock_decrement_failures_total")
	if mf == nil || len(mf.GetMetric()) != 1 || mf.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected one stock decrement failure")
	}
}

func TestNilShopMetricsAreNoOps(t *testing.T) {
	var metrics *ShopMetrics
	metrics.ObserveEvent("text", time.Second)
	metrics.IncOrderPlaced("pickup")
	metrics.IncStockDecrementFailure()

	unregistered := NewShopMetrics(nil)
	unregistered.IncTransition("new")
	unregistered.IncDeliveryFailure("text")
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
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
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
