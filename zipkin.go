package zipkin

import (
	"context"
	"fmt"

	"go.uber.org/atomic"

	"github.com/Robotzl/zipkin/errors"
)

// Callback receives the terminal outcome of an asynchronously executed Call.
// A nil error means the call succeeded. It is invoked exactly once.
type Callback func(err error)

// Call is one cancellable unit of downstream work. It can be run blocking
// with Execute or asynchronously with Enqueue, but only once per instance,
// retries are made by cloning the call and running the clone.
type Call interface {
	// Execute runs the call and blocks until it finishes returning the
	// error of the execution (nil on success).
	Execute(ctx context.Context) error
	// Enqueue runs the call asynchronously and invokes cb exactly once with
	// the terminal outcome.
	Enqueue(cb Callback)
	// Cancel marks the call as canceled.
	Cancel()
	// Canceled returns true if the call has been canceled.
	Canceled() bool
	// Clone returns a fresh call with the same work and no shared execution
	// state, safe to run even if this call already ran.
	Clone() Call
	// String returns a short description of the call for diagnostics.
	String() string
}

// Store is the write surface of a span storage engine.
type Store interface {
	// Write returns a call that will persist the payload when run.
	Write(payload interface{}) Call
	// IsOverCapacity returns true when err means the engine explicitly
	// rejected work because it is over capacity, instead of any other kind
	// of failure.
	IsOverCapacity(err error) bool
	// Close releases the engine resources.
	Close() error
}

// NewCallFunc returns a Call that executes f. desc is used as the call
// description for diagnostics.
func NewCallFunc(desc string, f func(ctx context.Context) error) Call {
	return &callFunc{desc: desc, f: f}
}

type callFunc struct {
	desc     string
	f        func(ctx context.Context) error
	canceled atomic.Bool
}

func (c *callFunc) Execute(ctx context.Context) error {
	if c.canceled.Load() {
		return errors.ErrContextCanceled
	}

	// Only execute if the context has not been cancelled already.
	select {
	case <-ctx.Done():
		return errors.ErrContextCanceled
	default:
		return c.f(ctx)
	}
}

func (c *callFunc) Enqueue(cb Callback) {
	go func() {
		// Panics can't propagate to anyone here, deliver them through the
		// callback like any other failure.
		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("call panicked: %v", r)
				}
			}()
			return c.Execute(context.Background())
		}()
		cb(err)
	}()
}

func (c *callFunc) Cancel() {
	c.canceled.Store(true)
}

func (c *callFunc) Canceled() bool {
	return c.canceled.Load()
}

func (c *callFunc) Clone() Call {
	return NewCallFunc(c.desc, c.f)
}

func (c *callFunc) String() string {
	return c.desc
}
