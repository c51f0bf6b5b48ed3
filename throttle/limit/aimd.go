package limit

import (
	"sync"
	"time"
)

// AIMDConfig is the configuration of the algorithm used for the AIMD adaptive estimator.
type AIMDConfig struct {
	// MinLimit is the minimum limit the algorithm will decrease to.
	MinLimit int
	// MaxLimit is the maximum limit the algorithm will increase to.
	MaxLimit int
	// InitialLimit is the starting limit. The estimator trends towards MinLimit
	// until load requires otherwise, so it defaults to MinLimit.
	InitialLimit int
	// SlowStartThreshold is like TCP algorithms `ssthresh`. The limit increases
	// by one until it reaches this threshold, then it increases slowly.
	// If set to 0 then slow start will be disabled.
	SlowStartThreshold int
	// RTTTimeout marks a successful sample slower than this value as congestion.
	RTTTimeout time.Duration
	// BackoffRatio is the ratio used to decrease the limit when a drop occurs:
	// new limit = current limit * BackoffRatio.
	BackoffRatio float64
	// DisableGate makes Acquire always grant a permit. Used when another
	// component (like a bounded worker pool) enforces the limit and the
	// estimator's only job is to compute the target.
	DisableGate bool
}

func (c *AIMDConfig) defaults() {
	if c.MinLimit <= 0 {
		c.MinLimit = 1
	}

	if c.MaxLimit <= 0 {
		c.MaxLimit = 200
	}

	if c.MaxLimit < c.MinLimit {
		c.MaxLimit = c.MinLimit
	}

	if c.InitialLimit <= 0 {
		c.InitialLimit = c.MinLimit
	}

	if c.InitialLimit > c.MaxLimit {
		c.InitialLimit = c.MaxLimit
	}

	// Safety defaults.
	if c.BackoffRatio < 0.5 || c.BackoffRatio > 1 {
		c.BackoffRatio = 0.9
	}

	if c.RTTTimeout == 0 {
		c.RTTTimeout = 2 * time.Second
	}
}

// NewAIMD returns a new AIMD adaptive Estimator, based on the TCP congestion
// algorithm with the same name. It increases the limit at a constant rate while
// the current limit is saturated and decreases it by a configured factor when a
// drop or a slow sample occurs.
// More information about this algorithm in: https://en.wikipedia.org/wiki/Additive_increase/multiplicative_decrease
func NewAIMD(cfg AIMDConfig) Estimator {
	cfg.defaults()

	return &aimd{
		limit: float64(cfg.InitialLimit),
		cfg:   cfg,
	}
}

type aimd struct {
	cfg       AIMDConfig
	limit     float64
	inflight  int
	listeners []func(int)
	mu        sync.Mutex
}

type sampleOutcome int

const (
	sampleSuccess sampleOutcome = iota
	sampleDropped
	sampleIgnored
)

// Acquire satisfies Estimator interface.
func (a *aimd) Acquire() (Permit, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.cfg.DisableGate && a.inflight >= int(a.limit) {
		return nil, false
	}

	a.inflight++
	return &aimdPermit{estimator: a, start: time.Now()}, true
}

// Limit satisfies Estimator interface.
func (a *aimd) Limit() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int(a.limit)
}

// OnLimitChanged satisfies Estimator interface.
func (a *aimd) OnLimitChanged(fn func(newLimit int)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// measureSample updates the limit with the terminal outcome of one permit and
// notifies the listeners asynchronously if the limit changed.
func (a *aimd) measureSample(start time.Time, outcome sampleOutcome) {
	a.mu.Lock()

	before := int(a.limit)
	a.inflight--

	switch outcome {
	case sampleSuccess:
		// Although we have a success maybe we are experiencing congestion.
		if time.Since(start) > a.cfg.RTTTimeout {
			a.decreaseLimit()
			break
		}

		// Only increase when there is demand beyond the limit, if not we
		// would be increasing forever.
		if a.inflight+1 > before {
			a.increaseLimit()
		}
	case sampleDropped:
		a.decreaseLimit()
	}
	// Ignored samples don't move the limit.

	after := int(a.limit)
	listeners := a.listeners
	a.mu.Unlock()

	if after == before {
		return
	}

	for _, fn := range listeners {
		go fn(after)
	}
}

// decreaseLimit will decrease the limit based on the backoff ratio.
func (a *aimd) decreaseLimit() {
	a.limit = a.limit * a.cfg.BackoffRatio
	min := float64(a.cfg.MinLimit)
	if a.limit <= min {
		a.limit = min
	}
}

// increaseLimit will increase the limit being aware of slow start.
func (a *aimd) increaseLimit() {
	// If slow start is disabled or our limit is less than the slow start
	// threshold then increment by one.
	if int(a.limit) < a.cfg.SlowStartThreshold || a.cfg.SlowStartThreshold == 0 {
		a.limit++
	} else {
		// Slow start threshold bypassed.
		a.limit = a.limit + (1 * (1 / a.limit))
	}

	max := float64(a.cfg.MaxLimit)
	if a.limit > max {
		a.limit = max
	}
}

type aimdPermit struct {
	estimator *aimd
	start     time.Time
	once      sync.Once
}

// OnSuccess satisfies Permit interface.
func (p *aimdPermit) OnSuccess() {
	p.once.Do(func() { p.estimator.measureSample(p.start, sampleSuccess) })
}

// OnDropped satisfies Permit interface.
func (p *aimdPermit) OnDropped() {
	p.once.Do(func() { p.estimator.measureSample(p.start, sampleDropped) })
}

// OnIgnore satisfies Permit interface.
func (p *aimdPermit) OnIgnore() {
	p.once.Do(func() { p.estimator.measureSample(p.start, sampleIgnored) })
}
