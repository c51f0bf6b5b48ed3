package throttle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/atomic"

	zipkin "github.com/Robotzl/zipkin"
	"github.com/Robotzl/zipkin/errors"
	"github.com/Robotzl/zipkin/metrics"
	"github.com/Robotzl/zipkin/throttle/execute"
	"github.com/Robotzl/zipkin/throttle/limit"
)

const (
	outcomeSuccess = "success"
	outcomeDropped = "dropped"
	outcomeIgnored = "ignored"
)

const (
	rejectReasonEstimator = "estimator"
	rejectReasonPool      = "pool"
)

// Call wraps one unit of downstream work with admission control. It acquires
// a permit from the estimator, runs the wrapped call on the bounded pool and
// feeds the classified outcome back to the estimator: a success as a success
// sample, a failure matched by the overload check as a drop, and everything
// else (cancellations, unrelated failures, rejections of the pool itself) as
// an ignored sample that won't move the limit.
type Call struct {
	pool           *execute.Pool
	estimator      limit.Estimator
	isOverCapacity func(error) bool
	delegate       zipkin.Call
	recorder       metrics.Recorder
	started        atomic.Bool
}

// NewCall returns a new throttled Call wrapping delegate.
func NewCall(pool *execute.Pool, estimator limit.Estimator, isOverCapacity func(error) bool, delegate zipkin.Call, recorder metrics.Recorder) *Call {
	if recorder == nil {
		recorder = metrics.Dummy
	}

	return &Call{
		pool:           pool,
		estimator:      estimator,
		isOverCapacity: isOverCapacity,
		delegate:       delegate,
		recorder:       recorder,
	}
}

// Execute runs the wrapped call on the pool and blocks until it finishes or
// ctx is canceled. Admission failures (no permit, full queue) return an error
// matching errors.ErrRejectedCapacity without ever reaching the downstream,
// downstream failures are returned to the caller unchanged.
//
// A pool shutdown abandons queued calls without a result, so callers that can
// race a shutdown should pass a cancellable context to bound the wait.
func (c *Call) Execute(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return errors.ErrAlreadyExecuted
	}

	permit, ok := c.estimator.Acquire()
	if !ok {
		c.recorder.IncThrottleRejected(rejectReasonEstimator)
		return fmt.Errorf("could not acquire a permit: %w", errors.ErrRejectedCapacity)
	}
	start := time.Now()

	// A panic past this point must not leave the permit unresolved. Permits
	// resolve at most once, so this is safe even when the panic fires after
	// a regular resolution.
	defer func() {
		if r := recover(); r != nil {
			permit.OnIgnore()
			panic(r)
		}
	}()

	resultC := make(chan error, 1)
	err := c.pool.Submit(func() {
		// The worker is another goroutine, a panicking delegate here would
		// tear the whole process down instead of surfacing as a failure the
		// caller can classify.
		defer func() {
			if r := recover(); r != nil {
				resultC <- fmt.Errorf("throttled call panicked: %v", r)
			}
		}()
		resultC <- c.delegate.Execute(ctx)
	})
	if err != nil {
		// The queue filling up is not a downstream load signal by itself,
		// don't bias the estimator with it.
		permit.OnIgnore()
		c.recorder.IncThrottleRejected(rejectReasonPool)
		return fmt.Errorf("throttled call rejected by the pool: %w", err)
	}

	select {
	case err := <-resultC:
		if err == nil {
			permit.OnSuccess()
			c.recorder.ObserveThrottledCall(start, outcomeSuccess)
			return nil
		}

		if c.isOverCapacity(err) {
			// Storage rejected us, throttle back.
			permit.OnDropped()
			c.recorder.ObserveThrottledCall(start, outcomeDropped)
		} else {
			permit.OnIgnore()
			c.recorder.ObserveThrottledCall(start, outcomeIgnored)
		}
		return err
	case <-ctx.Done():
		// The submitted work keeps running detached, the result channel is
		// buffered so it won't block the worker when it finishes.
		permit.OnIgnore()
		c.recorder.ObserveThrottledCall(start, outcomeIgnored)
		return fmt.Errorf("interrupted while waiting for a throttled call: %w", errors.ErrContextCanceled)
	}
}

// Enqueue submits the wrapped call asynchronously. cb is invoked exactly once
// with the terminal outcome, unless the wrapped call was already canceled
// when the pool picked it up, in which case it is never invoked.
func (c *Call) Enqueue(cb zipkin.Callback) {
	if !c.started.CompareAndSwap(false, true) {
		cb(errors.ErrAlreadyExecuted)
		return
	}

	permit, ok := c.estimator.Acquire()
	if !ok {
		c.recorder.IncThrottleRejected(rejectReasonEstimator)
		cb(fmt.Errorf("could not acquire a permit: %w", errors.ErrRejectedCapacity))
		return
	}
	start := time.Now()

	// Same contract as Execute: a panic past this point must not leave the
	// permit unresolved.
	defer func() {
		if r := recover(); r != nil {
			permit.OnIgnore()
			panic(r)
		}
	}()

	err := c.pool.Submit(func() { c.enqueueAndWait(permit, start, cb) })
	if err != nil {
		permit.OnIgnore()
		c.recorder.IncThrottleRejected(rejectReasonPool)
		cb(fmt.Errorf("throttled call rejected by the pool: %w", err))
	}
}

// enqueueAndWait runs on a pool worker. It enqueues the wrapped call and
// keeps the worker blocked until the call's own callback fires, so the pool
// bound reflects truly in-flight asynchronous work and not just submissions.
func (c *Call) enqueueAndWait(permit limit.Permit, start time.Time, cb zipkin.Callback) {
	// A canceled caller already abandoned the result, don't run the call and
	// don't report an outcome.
	if c.delegate.Canceled() {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			permit.OnIgnore()
			cb(fmt.Errorf("throttled call panicked: %v", r))
		}
	}()

	doneC := make(chan struct{})
	c.delegate.Enqueue(func(err error) {
		defer close(doneC)

		switch {
		case err == nil:
			permit.OnSuccess()
			c.recorder.ObserveThrottledCall(start, outcomeSuccess)
		case c.isOverCapacity(err):
			permit.OnDropped()
			c.recorder.ObserveThrottledCall(start, outcomeDropped)
		default:
			permit.OnIgnore()
			c.recorder.ObserveThrottledCall(start, outcomeIgnored)
		}

		cb(err)
	})

	// Wait here, the callback runs asynchronously and the worker must stay
	// occupied until it fires to not exceed the throttle limits.
	<-doneC
}

// Cancel satisfies zipkin.Call interface.
func (c *Call) Cancel() {
	c.delegate.Cancel()
}

// Canceled satisfies zipkin.Call interface.
func (c *Call) Canceled() bool {
	return c.delegate.Canceled()
}

// Clone returns a fresh throttled call wrapping a clone of the delegate with
// no shared execution state, so callers can retry rejected or failed calls.
func (c *Call) Clone() zipkin.Call {
	return NewCall(c.pool, c.estimator, c.isOverCapacity, c.delegate.Clone(), c.recorder)
}

// String satisfies zipkin.Call interface.
func (c *Call) String() string {
	return "Throttled(" + c.delegate.String() + ")"
}
