package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	promNamespace = "zipkin"

	promThrottleSubsystem = "throttle"
	promPoolSubsystem     = "throttle_pool"
)

type prometheusRec struct {
	// Metrics.
	callDuration   *prometheus.HistogramVec
	rejected       *prometheus.CounterVec
	limit          prometheus.Gauge
	poolWorkers    prometheus.Gauge
	poolQueueDepth prometheus.Gauge

	reg prometheus.Registerer
}

// NewPrometheusRecorder returns a new Recorder that knows how to measure
// using Prometheus kind metrics.
func NewPrometheusRecorder(reg prometheus.Registerer) Recorder {
	p := &prometheusRec{
		reg: reg,
	}

	p.registerMetrics()
	return p
}

func (p *prometheusRec) registerMetrics() {
	p.callDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promThrottleSubsystem,
		Name:      "call_duration_seconds",
		Help:      "The duration of the throttled calls in seconds.",
	}, []string{"outcome"})

	p.rejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promThrottleSubsystem,
		Name:      "rejected_total",
		Help:      "Total number of calls rejected at admission time.",
	}, []string{"reason"})

	p.limit = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Subsystem: promThrottleSubsystem,
		Name:      "concurrency_limit",
		Help:      "Current target concurrency limit computed by the estimator.",
	})

	p.poolWorkers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Subsystem: promPoolSubsystem,
		Name:      "workers",
		Help:      "Current number of workers of the pool.",
	})

	p.poolQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Subsystem: promPoolSubsystem,
		Name:      "queue_depth",
		Help:      "Current number of calls waiting on the pool queue.",
	})

	p.reg.MustRegister(p.callDuration,
		p.rejected,
		p.limit,
		p.poolWorkers,
		p.poolQueueDepth)
}

func (p *prometheusRec) ObserveThrottledCall(start time.Time, outcome string) {
	secs := time.Since(start).Seconds()
	p.callDuration.WithLabelValues(outcome).Observe(secs)
}

func (p *prometheusRec) IncThrottleRejected(reason string) {
	p.rejected.WithLabelValues(reason).Inc()
}

func (p *prometheusRec) SetConcurrencyLimit(limit int) {
	p.limit.Set(float64(limit))
}

func (p *prometheusRec) SetPoolWorkers(quantity int) {
	p.poolWorkers.Set(float64(quantity))
}

func (p *prometheusRec) SetPoolQueueDepth(depth int) {
	p.poolQueueDepth.Set(float64(depth))
}
