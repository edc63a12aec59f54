package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue sums the samples of family whose labels include want.
func counterValue(t *testing.T, reg *prometheus.Registry, family string, want map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != family {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue metrics
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestTrackerRecordsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	_ = m.Track("mpc:warmup").End(nil)
	err := m.Track("mpc:warmup").End(errors.New("boom"))
	if err == nil || err.Error() != "boom" {
		t.Fatalf("End must return the error untouched, got %v", err)
	}

	if got := counterValue(t, reg, "samlap_jobs_total", map[string]string{"job": "mpc:warmup", "status": "success"}); got != 1 {
		t.Fatalf("success runs = %v", got)
	}
	if got := counterValue(t, reg, "samlap_jobs_failures_total", map[string]string{"job": "mpc:warmup"}); got != 1 {
		t.Fatalf("failures = %v", got)
	}
}

func TestAddWarmed(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.AddWarmed("decisions", true)
	m.AddWarmed("decisions", false)
	m.AddWarmed("decisions", true)

	if got := counterValue(t, reg, "samlap_cache_warmed_total", map[string]string{"outcome": "ok"}); got != 2 {
		t.Fatalf("ok = %v", got)
	}
	if got := counterValue(t, reg, "samlap_cache_warmed_total", map[string]string{"outcome": "error"}); got != 1 {
		t.Fatalf("error = %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.AddWarmed("voting", true)
	if err := m.Track("x").End(nil); err != nil {
		t.Fatal(err)
	}
}
