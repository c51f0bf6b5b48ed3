package execute

import (
	"fmt"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Resizer applies concurrency limit changes to a Pool keeping both of its
// worker bounds synchronized with the limit. The pool forbids max < core, so
// the order of the two updates matters: growing raises max before core and
// shrinking lowers core before max. All the resizes are serialized so the
// ordering holds even when limit notifications arrive concurrently.
type Resizer struct {
	pool   *Pool
	logger log.Logger
	mu     sync.Mutex
}

// NewResizer returns a new Resizer for pool.
func NewResizer(pool *Pool, logger log.Logger) *Resizer {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Resizer{
		pool:   pool,
		logger: logger,
	}
}

// Resize sets both worker bounds of the pool to newLimit. It is safe to call
// from any goroutine.
func (r *Resizer) Resize(newLimit int) error {
	// The pool forbids max workers below 1, reject upfront so a bad limit
	// can't half-apply and leave the pool without workers.
	if newLimit < 1 {
		return fmt.Errorf("limit must be at least 1, got %d", newLimit)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.pool.CoreWorkers()
	switch {
	case newLimit > current:
		if err := r.pool.SetMaxWorkers(newLimit); err != nil {
			return err
		}
		if err := r.pool.SetCoreWorkers(newLimit); err != nil {
			return err
		}
	case newLimit < current:
		if err := r.pool.SetCoreWorkers(newLimit); err != nil {
			return err
		}
		if err := r.pool.SetMaxWorkers(newLimit); err != nil {
			return err
		}
	default:
		// Why modify something that doesn't need modified?
		return nil
	}

	level.Debug(r.logger).Log("msg", "worker pool resized", "workers", newLimit)
	return nil
}
