package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"

	"github.com/Robotzl/zipkin/metrics"
)

func TestPrometheus(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name          string
		recordMetrics func(metrics.Recorder)
		expMetrics    []string
	}{
		{
			name: "Recording throttled call metrics should expose the metrics.",
			recordMetrics: func(m metrics.Recorder) {
				m.ObserveThrottledCall(now.Add(-60*time.Millisecond), "success")
				m.ObserveThrottledCall(now.Add(-2*time.Second), "dropped")
			},
			expMetrics: []string{
				`zipkin_throttle_call_duration_seconds_bucket{outcome="success",le="0.05"} 0`,
				`zipkin_throttle_call_duration_seconds_bucket{outcome="success",le="0.1"} 1`,
				`zipkin_throttle_call_duration_seconds_count{outcome="success"} 1`,
				`zipkin_throttle_call_duration_seconds_bucket{outcome="dropped",le="1"} 0`,
				`zipkin_throttle_call_duration_seconds_bucket{outcome="dropped",le="2.5"} 1`,
				`zipkin_throttle_call_duration_seconds_count{outcome="dropped"} 1`,
			},
		},
		{
			name: "Recording admission rejections should expose the metrics.",
			recordMetrics: func(m metrics.Recorder) {
				m.IncThrottleRejected("pool")
				m.IncThrottleRejected("pool")
				m.IncThrottleRejected("estimator")
			},
			expMetrics: []string{
				`zipkin_throttle_rejected_total{reason="pool"} 2`,
				`zipkin_throttle_rejected_total{reason="estimator"} 1`,
			},
		},
		{
			name: "Recording the sizing gauges should expose the metrics.",
			recordMetrics: func(m metrics.Recorder) {
				m.SetConcurrencyLimit(7)
				m.SetPoolWorkers(4)
				m.SetPoolQueueDepth(3)
			},
			expMetrics: []string{
				`zipkin_throttle_concurrency_limit 7`,
				`zipkin_throttle_pool_workers 4`,
				`zipkin_throttle_pool_queue_depth 3`,
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert := assert.New(t)

			reg := prometheus.NewRegistry()
			m := metrics.NewPrometheusRecorder(reg)
			test.recordMetrics(m)

			// Get the metrics handler and serve.
			h := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
			r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			resp := w.Result()
			body, _ := io.ReadAll(resp.Body)

			// Check all metrics are present.
			for _, expMetric := range test.expMetrics {
				assert.Contains(string(body), expMetric, "metric not present on the result of metrics service")
			}
		})
	}
}
