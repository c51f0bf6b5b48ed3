package errors

import "errors"

var (
	// ErrRejectedCapacity will be used when a call can't be admitted because
	// the permit source declined or the pool wait queue is full.
	ErrRejectedCapacity = errors.New("execution rejected, no capacity available")
	// ErrContextCanceled will be used when the call has not been completed due to the
	// context cancelation.
	ErrContextCanceled = errors.New("context canceled, call not completed")
	// ErrAlreadyExecuted will be used when a call instance is run more than once.
	ErrAlreadyExecuted = errors.New("call already executed")
	// ErrOverCapacity is the error storage engines can return (or wrap) when they
	// explicitly reject a write due to load, so the default overload check can
	// match it with errors.Is.
	ErrOverCapacity = errors.New("storage engine over capacity")
)
