package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	sourceEvents   *prometheus.GaugeVec
	sourceErrors   *prometheus.CounterVec
	sourceWarnings *prometheus.CounterVec
	sourceDuration *prometheus.HistogramVec
	runs           *prometheus.CounterVec
	runDuration    prometheus.Histogram
	snapshotEvents prometheus.Gauge
	queries        *prometheus.CounterVec
	valueUpdates   prometheus.Counter
}

// New registers the collectors on prometheus.DefaultRegisterer.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers on reg; tests pass a fresh prometheus.Registry.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		sourceEvents: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "econpull_source_events",
			Help: "Events produced by a source in the last aggregation run",
		}, []string{"source"}),
		sourceErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "econpull_source_errors_total",
			Help: "Source generator failures",
		}, []string{"source"}),
		sourceWarnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "econpull_source_warnings_total",
			Help: "Source generator warnings such as exhausted date tables",
		}, []string{"source"}),
		sourceDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "econpull_source_duration_seconds",
			Help:    "Source generator run time",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10},
		}, []string{"source"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "econpull_aggregation_runs_total",
			Help: "Aggregation runs by outcome",
		}, []string{"status"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "econpull_aggregation_run_duration_seconds",
			Help:    "Aggregation run time",
			Buckets: prometheus.DefBuckets,
		}),
		snapshotEvents: f.NewGauge(prometheus.GaugeOpts{
			Name: "econpull_snapshot_events",
			Help: "Events in the last written snapshot",
		}),
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "econpull_calendar_queries_total",
			Help: "Calendar queries by result-cache outcome",
		}, []string{"cache"}),
		valueUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "econpull_value_updates_total",
			Help: "Actual/previous values filled from time series",
		}),
	}
}

func (r *Recorder) RecordSourceEvents(source string, n int) {
	r.sourceEvents.WithLabelValues(source).Set(float64(n))
}

func (r *Recorder) RecordSourceError(source string) {
	r.sourceErrors.WithLabelValues(source).Inc()
}

func (r *Recorder) RecordSourceWarning(source string) {
	r.sourceWarnings.WithLabelValues(source).Inc()
}

func (r *Recorder) RecordSourceDuration(source string, seconds float64) {
	r.sourceDuration.WithLabelValues(source).Observe(seconds)
}

func (r *Recorder) RecordRun(status string, seconds float64) {
	r.runs.WithLabelValues(status).Inc()
	r.runDuration.Observe(seconds)
}

func (r *Recorder) RecordSnapshotEvents(n int) {
	r.snapshotEvents.Set(float64(n))
}

func (r *Recorder) RecordQuery(cacheHit bool) {
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	r.queries.WithLabelValues(label).Inc()
}

func (r *Recorder) RecordValueUpdates(n int) {
	r.valueUpdates.Add(float64(n))
}
