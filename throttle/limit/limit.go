package limit

// Permit represents one admitted in-flight unit of work. Exactly one of the
// report methods must be called when the work reaches a terminal state so the
// estimator can measure the sample, extra calls are no-ops.
type Permit interface {
	// OnSuccess reports the work finished correctly, the measured latency
	// will be used as a sample by the estimator.
	OnSuccess()
	// OnDropped reports the downstream explicitly rejected the work because
	// of load, the estimator will back off.
	OnDropped()
	// OnIgnore reports an outcome that must not influence the limit, like a
	// cancellation or a failure unrelated to capacity.
	OnIgnore()
}

// Estimator computes a target concurrency limit from the outcome feedback of
// the permits it grants. These are based on TCP congestion control algorithms.
type Estimator interface {
	// Acquire returns a permit for one unit of work, or false when the
	// estimator gates admissions and the limit has been reached.
	Acquire() (Permit, bool)
	// Limit returns the current computed limit.
	Limit() int
	// OnLimitChanged registers fn to be invoked asynchronously every time the
	// computed limit changes.
	OnLimitChanged(fn func(newLimit int))
}
