package limit

import "sync"

// NewStatic returns an Estimator with a fixed limit that gates admissions at
// that limit, it isn't adaptive. Useful for tests and fixed-size deployments.
func NewStatic(limit int) Estimator {
	if limit < 1 {
		limit = 1
	}

	return &static{limit: limit}
}

type static struct {
	limit    int
	inflight int
	mu       sync.Mutex
}

// Acquire satisfies Estimator interface.
func (s *static) Acquire() (Permit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight >= s.limit {
		return nil, false
	}

	s.inflight++
	return &staticPermit{estimator: s}, true
}

// Limit satisfies Estimator interface.
func (s *static) Limit() int {
	return s.limit
}

// OnLimitChanged satisfies Estimator interface. The limit never changes so
// the listener is never invoked.
func (s *static) OnLimitChanged(_ func(newLimit int)) {}

func (s *static) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
}

type staticPermit struct {
	estimator *static
	once      sync.Once
}

// OnSuccess satisfies Permit interface.
func (p *staticPermit) OnSuccess() {
	p.once.Do(p.estimator.release)
}

// OnDropped satisfies Permit interface.
func (p *staticPermit) OnDropped() {
	p.once.Do(p.estimator.release)
}

// OnIgnore satisfies Permit interface.
func (p *staticPermit) OnIgnore() {
	p.once.Do(p.estimator.release)
}
