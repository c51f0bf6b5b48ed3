package metrics

import "time"

// Recorder knows how to measure the different metrics of the throttling layer.
type Recorder interface {
	// ObserveThrottledCall will measure one finished throttled call with its
	// classified outcome (success, dropped or ignored).
	ObserveThrottledCall(start time.Time, outcome string)
	// IncThrottleRejected will increment the number of calls rejected at
	// admission time for the given reason (estimator or pool).
	IncThrottleRejected(reason string)
	// SetConcurrencyLimit will set the current target limit computed by the
	// estimator.
	SetConcurrencyLimit(limit int)
	// SetPoolWorkers will set the current number of workers of the pool.
	SetPoolWorkers(quantity int)
	// SetPoolQueueDepth will set the current number of calls waiting on the
	// pool queue.
	SetPoolQueueDepth(depth int)
}

// Dummy is a Recorder that discards all the measurements.
var Dummy Recorder = dummy{}

type dummy struct{}

func (dummy) ObserveThrottledCall(_ time.Time, _ string) {}
func (dummy) IncThrottleRejected(_ string)               {}
func (dummy) SetConcurrencyLimit(_ int)                  {}
func (dummy) SetPoolWorkers(_ int)                       {}
func (dummy) SetPoolQueueDepth(_ int)                    {}
