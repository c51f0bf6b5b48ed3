package throttle

// throttle puts admission control and backpressure in front of a slow or
// failure-prone storage engine. It is inspired by the implementation of
// Netflix/concurrency-limits: instead of rejecting at a fixed threshold it
// keeps re-tuning how much parallelism the downstream can sustain.
//
// The implementation is based on 4 components:
//
// - The Estimator: computes the target concurrency limit from outcome
//   feedback (success, dropped, ignored) using adaptive algorithms from TCP
//   congestion control. Here it never gates a caller directly, it only tunes
//   the number the pool is resized toward.
//
// - The Pool: a bounded executor with a dynamic worker set and a fixed
//   capacity wait queue. This is the hard admission gate: once workers and
//   queue are full, submissions fail immediately. Bounded queues are the safe
//   buffering choice, unbounded ones just trade rejections for memory
//   exhaustion.
//
// - The Resizer: listens to estimator limit changes and applies them to the
//   pool's core/max worker bounds in an order that never lets max drop below
//   core, serializing concurrent notifications.
//
// - The Call: wraps one downstream write. It acquires a permit, runs the
//   work on the pool (blocking or callback based) and resolves the permit
//   with the classified outcome. For asynchronous work the pool worker stays
//   blocked until the wrapped call's own callback fires, otherwise the pool
//   would only bound submissions and an unbounded amount of async work could
//   be in flight.
//
// The layer never retries on the caller's behalf, callers that want retries
// clone the call and run the clone.
