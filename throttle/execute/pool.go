package execute

import (
	"fmt"
	"sync"

	"github.com/Robotzl/zipkin/errors"
	"github.com/Robotzl/zipkin/metrics"
)

// Config is the configuration of the bounded worker Pool.
type Config struct {
	// Workers is the starting number of workers. It is used for both the core
	// and the maximum worker count, values below 1 are coerced to 1.
	Workers int
	// QueueSize is the fixed capacity of the wait queue. Values below 1 are
	// coerced to 1 so the queue is always bounded and non-pathological.
	QueueSize int
	// MetricsRecorder is the recorder for the pool gauges.
	MetricsRecorder metrics.Recorder
}

func (c *Config) defaults() {
	if c.Workers < 1 {
		c.Workers = 1
	}

	if c.QueueSize < 1 {
		c.QueueSize = 1
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Dummy
	}
}

// Pool is a bounded executor: a dynamically sized set of workers consuming a
// fixed capacity wait queue. Submissions beyond workers + queue capacity are
// rejected immediately, never blocked and never silently dropped.
type Pool struct {
	cfg            Config
	max            int
	workerStoppers []chan struct{}
	jobs           chan func()
	stopC          chan struct{}
	shutdown       bool
	mu             sync.RWMutex
}

// NewPool returns a new Pool with cfg.Workers running workers and a wait
// queue of cfg.QueueSize capacity.
func NewPool(cfg Config) *Pool {
	cfg.defaults()

	p := &Pool{
		cfg:   cfg,
		max:   cfg.Workers,
		jobs:  make(chan func(), cfg.QueueSize),
		stopC: make(chan struct{}),
	}

	// Can't fail, max == cfg.Workers.
	_ = p.SetCoreWorkers(cfg.Workers)

	return p
}

// Submit queues f for execution without blocking. It returns
// errors.ErrRejectedCapacity when the wait queue is full or the pool has been
// shut down.
func (p *Pool) Submit(f func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.shutdown {
		return errors.ErrRejectedCapacity
	}

	select {
	case p.jobs <- f:
		p.cfg.MetricsRecorder.SetPoolQueueDepth(len(p.jobs))
		return nil
	default:
		return errors.ErrRejectedCapacity
	}
}

// CoreWorkers returns the current core worker count.
func (p *Pool) CoreWorkers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.workerStoppers)
}

// MaxWorkers returns the current maximum worker count.
func (p *Pool) MaxWorkers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.max
}

// QueueDepth returns the current number of queued jobs.
func (p *Pool) QueueDepth() int {
	return len(p.jobs)
}

// QueueCapacity returns the fixed capacity of the wait queue.
func (p *Pool) QueueCapacity() int {
	return cap(p.jobs)
}

// SetMaxWorkers sets the maximum worker count. It fails if quantity goes
// below the current core worker count. Resizing a shut down pool is a no-op.
func (p *Pool) SetMaxWorkers(quantity int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		return nil
	}

	if quantity < 1 {
		return fmt.Errorf("max workers must be at least 1")
	}

	if quantity < len(p.workerStoppers) {
		return fmt.Errorf("max workers (%d) can't go below core workers (%d)", quantity, len(p.workerStoppers))
	}

	p.max = quantity
	return nil
}

// SetCoreWorkers sets the core worker count, starting or stopping workers to
// match it. It fails if quantity exceeds the current maximum worker count.
// Resizing a shut down pool is a no-op.
func (p *Pool) SetCoreWorkers(quantity int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		return nil
	}

	if quantity < 0 {
		return fmt.Errorf("core workers can't be negative")
	}

	if quantity > p.max {
		return fmt.Errorf("core workers (%d) can't exceed max workers (%d)", quantity, p.max)
	}

	current := len(p.workerStoppers)
	switch {
	case quantity > current:
		p.increaseWorkers(quantity - current)
	case quantity < current:
		p.decreaseWorkers(current - quantity)
	}

	p.cfg.MetricsRecorder.SetPoolWorkers(len(p.workerStoppers))
	return nil
}

// Shutdown stops admitting jobs immediately and signals every worker to stop.
// Queued jobs are abandoned (never run) and running jobs are not awaited. It
// is idempotent.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		return
	}

	p.shutdown = true
	close(p.stopC)
	p.workerStoppers = nil
	p.cfg.MetricsRecorder.SetPoolWorkers(0)
}

func (p *Pool) increaseWorkers(workers int) {
	for i := 0; i < workers; i++ {
		// Create a channel to stop the worker.
		stopC := make(chan struct{})
		go p.newWorker(stopC)
		p.workerStoppers = append(p.workerStoppers, stopC)
	}
}

func (p *Pool) decreaseWorkers(workers int) {
	// Stop the not needed workers.
	toStop := p.workerStoppers[:workers]
	for _, stopC := range toStop {
		close(stopC)
	}

	// Set the new worker quantity.
	p.workerStoppers = p.workerStoppers[workers:]
}

func (p *Pool) newWorker(stopC chan struct{}) {
	for {
		// Check the stop signals first so jobs left on the queue by a
		// shutdown are never picked up.
		select {
		case <-p.stopC:
			return
		case <-stopC:
			return
		default:
		}

		select {
		case <-p.stopC:
			return
		case <-stopC:
			return
		case f := <-p.jobs:
			f()
			p.cfg.MetricsRecorder.SetPoolQueueDepth(len(p.jobs))
		}
	}
}
