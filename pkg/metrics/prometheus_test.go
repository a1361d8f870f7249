package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// value returns the counter or gauge value of name with the given label pair.
func value(t *testing.T, reg *prometheus.Registry, name, label, lv string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			match := label == ""
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == lv {
					match = true
				}
			}
			if !match {
				continue
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s{%s=%q} not found", name, label, lv)
	return 0
}

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordSourceError("fed")
	r.RecordSourceError("fed")
	r.RecordSourceEvents("bls", 40)
	r.RecordSourceEvents("bls", 42)
	r.RecordQuery(true)
	r.RecordQuery(false)
	r.RecordQuery(false)
	r.RecordValueUpdates(5)
	r.RecordRun("ok", 1.5)

	assert.Equal(t, 2.0, value(t, reg, "econpull_source_errors_total", "source", "fed"))
	assert.Equal(t, 42.0, value(t, reg, "econpull_source_events", "source", "bls"))
	assert.Equal(t, 2.0, value(t, reg, "econpull_calendar_queries_total", "cache", "miss"))
	assert.Equal(t, 1.0, value(t, reg, "econpull_aggregation_runs_total", "status", "ok"))
	assert.Equal(t, 5.0, value(t, reg, "econpull_value_updates_total", "", ""))
}
