package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestBasketMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewBasketMetrics(reg)

	metrics.IncQuote("oak-gazebo", nil)
	metrics.IncQuote("oak-gazebo", errors.New("bad option"))
	metrics.IncMutation("add", "anonymous", nil)
	metrics.ObserveMerge("done", 250*time.Millisecond)
	metrics.AddMergeItems("applied", 3)
	metrics.AddMergeItems("dropped", 0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "oak_quotes_total", "outcome", "error"); err != nil {
		t.Fatalf("fetch quote errors: %v", err)
	} else if got != 1 {
		t.Fatalf("expected quote errors=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "oak_basket_mutations_total", "mode", "anonymous"); err != nil {
		t.Fatalf("fetch mutations: %v", err)
	} else if got != 1 {
		t.Fatalf("expected mutations=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "oak_basket_merge_items_total", "result", "applied"); err != nil {
		t.Fatalf("fetch merge items: %v", err)
	} else if got != 3 {
		t.Fatalf("expected applied=3, got %f", got)
	}
	if _, err := fetchCounterValue(mfs, "oak_basket_merge_items_total", "result", "dropped"); err == nil {
		t.Fatal("expected no series for zero dropped items")
	}

	if got, err := fetchHistogramSum(mfs, "oak_basket_merge_duration_seconds", "state", "done"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestBasketMetricsNilSafe(t *testing.T) {
	var metrics *BasketMetrics
	metrics.IncQuote("oak-gazebo", nil)
	metrics.IncMutation("add", "", nil)
	metrics.ObserveMerge("", time.Second)
	metrics.AddMergeItems("applied", 1)

	NewBasketMetrics(nil).IncQuote("oak-gazebo", nil)
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
