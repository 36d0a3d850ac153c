package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusMiss    = "miss"
)

// PrometheusRecorder is a Recorder backed by client_golang counters and
// histograms, registered against a caller-supplied registry so multiple
// trees in one process don't collide on metric names.
type PrometheusRecorder struct {
	insertDuration *prometheus.HistogramVec
	insertSplits   prometheus.Counter
	findDuration   *prometheus.HistogramVec
	findTotal      *prometheus.CounterVec
	deleteDuration prometheus.Histogram
	deleteMarked   prometheus.Counter
	residentNodes  prometheus.Gauge
}

// NewPrometheusRecorder registers gobtree's metrics against reg and
// returns a Recorder that feeds them.
func NewPrometheusRecorder(reg prometheus.Registerer, namespace string) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		insertDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "insert_duration_seconds",
			Help:      "Duration of Insert calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"split"}),
		insertSplits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insert_splits_total",
			Help:      "Number of inserts that split the root node.",
		}),
		findDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "find_duration_seconds",
			Help:      "Duration of Find calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		findTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "find_total",
			Help:      "Total Find calls by hit/miss outcome.",
		}, []string{"result"}),
		deleteDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "delete_duration_seconds",
			Help:      "Duration of Delete calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		deleteMarked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delete_marked_total",
			Help:      "Total keys marked deleted.",
		}),
		residentNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resident_nodes",
			Help:      "Nodes currently resident in the node cache.",
		}),
	}
}

func (r *PrometheusRecorder) RecordInsert(duration time.Duration, split bool) {
	label := "false"
	if split {
		label = "true"
		r.insertSplits.Inc()
	}
	r.insertDuration.WithLabelValues(label).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) RecordFind(duration time.Duration, hit bool) {
	result := statusMiss
	if hit {
		result = statusSuccess
	}
	r.findDuration.WithLabelValues(result).Observe(duration.Seconds())
	r.findTotal.WithLabelValues(result).Inc()
}

func (r *PrometheusRecorder) RecordDelete(duration time.Duration, marked int) {
	r.deleteDuration.Observe(duration.Seconds())
	r.deleteMarked.Add(float64(marked))
}

func (r *PrometheusRecorder) SetResidentNodes(n int) {
	r.residentNodes.Set(float64(n))
}
