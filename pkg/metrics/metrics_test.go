package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestDeliveryMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDeliveryMetrics(reg)

	m.IncOTPIssued("login")
	m.IncOTPIssued("delivery")
	m.IncOTPFailed("delivery")
	m.IncOrderAccepted()
	m.IncOrderDelivered()
	m.ObserveDeliveryDuration(45 * time.Minute)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "otp_issued_total", "purpose", "delivery"); err != nil {
		t.Fatalf("fetch otp issued: %v", err)
	} else if got != 1 {
		t.Fatalf("expected otp_issued=1 for delivery, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "otp_failed_total", "purpose", "delivery"); err != nil {
		t.Fatalf("fetch otp failed: %v", err)
	} else if got != 1 {
		t.Fatalf("expected otp_failed=1, got %f", got)
	}

	if mf := findMetricFamily(mfs, "delivery_duration_seconds"); mf == nil {
		t.Fatal("delivery duration histogram not exported")
	} else if mf.GetMetric()[0].GetHistogram().GetSampleSum() <= 0 {
		t.Fatal("expected non-zero delivery duration sum")
	}
}

func TestDeliveryMetricsNilSafe(t *testing.T) {
	var m *DeliveryMetrics
	m.IncOrderAccepted()
	m.ObserveDeliveryDuration(time.Second)

	empty := NewDeliveryMetrics(nil)
	empty.IncOTPIssued("login")
}

func TestWorkerMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkerMetrics(reg)
	worker := "outbox-publisher"

	m.ObserveDuration(worker, 250*time.Millisecond)
	m.IncSuccess(worker)
	m.IncFailure(worker)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "worker_success", "worker", worker); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "worker_failure", "worker", worker); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}
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
