package throttle

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	zipkin "github.com/Robotzl/zipkin"
	"github.com/Robotzl/zipkin/metrics"
	"github.com/Robotzl/zipkin/throttle/execute"
	"github.com/Robotzl/zipkin/throttle/limit"
)

// Config is the configuration of the throttled Store.
type Config struct {
	// Store is the downstream storage engine to protect.
	Store zipkin.Store
	// MinConcurrency is the floor of the adaptive limit and of the worker
	// count. The estimator starts here and trends back here when idle.
	// Defaults to 1.
	MinConcurrency int
	// MaxConcurrency is the ceiling of the adaptive limit and of the worker
	// count. Defaults to the number of usable CPUs.
	MaxConcurrency int
	// MaxQueueSize is the fixed capacity of the wait queue that buffers
	// excess writes instead of dropping them outright. 0 is coerced to 1 so
	// the queue stays bounded and non-pathological.
	MaxQueueSize int
	// OverloadPredicate classifies an error as an explicit downstream over
	// capacity signal. Defaults to the store's IsOverCapacity.
	OverloadPredicate func(err error) bool
	// Logger is the logger of the throttling layer.
	Logger log.Logger
	// MetricsRecorder is the recorder for the throttling metrics.
	MetricsRecorder metrics.Recorder
}

func (c *Config) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("a store is required")
	}

	if c.MinConcurrency <= 0 {
		c.MinConcurrency = 1
	}

	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = runtime.GOMAXPROCS(0)
	}

	if c.MaxConcurrency < c.MinConcurrency {
		c.MaxConcurrency = c.MinConcurrency
	}

	if c.OverloadPredicate == nil {
		c.OverloadPredicate = c.Store.IsOverCapacity
	}

	if c.Logger == nil {
		c.Logger = log.NewNopLogger()
	}

	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Dummy
	}

	return nil
}

// Store wraps a zipkin.Store limiting the concurrency of its writes so spike
// loads don't overwhelm the storage engine, while buffering a bounded number
// of excess writes instead of dropping them outright. It owns the estimator
// that computes the sustainable concurrency, the bounded worker pool that
// enforces it and the resizer that keeps both synchronized.
type Store struct {
	cfg       Config
	estimator limit.Estimator
	pool      *execute.Pool
	resizer   *execute.Resizer
	closeOnce sync.Once
}

// NewStore returns a new throttled Store wrapping cfg.Store.
func NewStore(cfg Config) (*Store, error) {
	err := cfg.defaults()
	if err != nil {
		return nil, err
	}

	// The estimator only computes the target limit here, the bounded pool is
	// the one enforcing it, so the estimator never gates admissions itself.
	estimator := limit.NewAIMD(limit.AIMDConfig{
		MinLimit:     cfg.MinConcurrency,
		MaxLimit:     cfg.MaxConcurrency,
		InitialLimit: cfg.MinConcurrency,
		DisableGate:  true,
	})

	pool := execute.NewPool(execute.Config{
		Workers:         estimator.Limit(),
		QueueSize:       cfg.MaxQueueSize,
		MetricsRecorder: cfg.MetricsRecorder,
	})

	s := &Store{
		cfg:       cfg,
		estimator: estimator,
		pool:      pool,
		resizer:   execute.NewResizer(pool, cfg.Logger),
	}
	estimator.OnLimitChanged(s.applyLimit)
	cfg.MetricsRecorder.SetConcurrencyLimit(estimator.Limit())

	level.Info(cfg.Logger).Log("msg", "throttled store ready",
		"min_concurrency", cfg.MinConcurrency,
		"max_concurrency", cfg.MaxConcurrency,
		"max_queue_size", pool.QueueCapacity())

	return s, nil
}

func (s *Store) applyLimit(newLimit int) {
	s.cfg.MetricsRecorder.SetConcurrencyLimit(newLimit)
	err := s.resizer.Resize(newLimit)
	if err != nil {
		level.Warn(s.cfg.Logger).Log("msg", "could not resize the worker pool", "limit", newLimit, "err", err)
	}
}

// Write satisfies zipkin.Store interface. It returns a throttled call
// wrapping the downstream write for payload.
func (s *Store) Write(payload interface{}) zipkin.Call {
	return NewCall(s.pool, s.estimator, s.cfg.OverloadPredicate, s.cfg.Store.Write(payload), s.cfg.MetricsRecorder)
}

// IsOverCapacity satisfies zipkin.Store interface.
func (s *Store) IsOverCapacity(err error) bool {
	return s.cfg.OverloadPredicate(err)
}

// Limit returns the current target concurrency limit.
func (s *Store) Limit() int {
	return s.estimator.Limit()
}

// Close stops admitting new calls immediately (queued calls are abandoned and
// running ones are not awaited) and closes the downstream store. It is
// idempotent. A caller blocked on Execute for an abandoned call never gets a
// result, pass a cancellable context to Execute to bound that wait.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.pool.Shutdown()
		err = s.cfg.Store.Close()
	})
	return err
}
