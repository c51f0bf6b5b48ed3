package zipkin_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	zipkin "github.com/Robotzl/zipkin"
	"github.com/Robotzl/zipkin/errors"
)

func TestCallFuncExecute(t *testing.T) {
	wantErr := stderrors.New("boom")

	tests := []struct {
		name   string
		f      func(ctx context.Context) error
		ctx    func() context.Context
		cancel bool
		expErr error
	}{
		{
			name:   "Executing should run the wrapped function.",
			f:      func(_ context.Context) error { return nil },
			ctx:    context.Background,
			expErr: nil,
		},
		{
			name:   "The wrapped function error should be returned as is.",
			f:      func(_ context.Context) error { return wantErr },
			ctx:    context.Background,
			expErr: wantErr,
		},
		{
			name: "A canceled context should short-circuit the execution.",
			f:    func(_ context.Context) error { return nil },
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			expErr: errors.ErrContextCanceled,
		},
		{
			name:   "A canceled call should not execute.",
			f:      func(_ context.Context) error { return nil },
			ctx:    context.Background,
			cancel: true,
			expErr: errors.ErrContextCanceled,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert := assert.New(t)

			call := zipkin.NewCallFunc("test-call", test.f)
			if test.cancel {
				call.Cancel()
			}

			err := call.Execute(test.ctx())

			assert.Equal(test.expErr, err)
		})
	}
}

func TestCallFuncEnqueue(t *testing.T) {
	assert := assert.New(t)

	wantErr := stderrors.New("boom")
	call := zipkin.NewCallFunc("test-call", func(_ context.Context) error { return wantErr })

	resultC := make(chan error, 1)
	call.Enqueue(func(err error) { resultC <- err })

	select {
	case err := <-resultC:
		assert.Equal(wantErr, err)
	case <-time.After(1 * time.Second):
		assert.Fail("timeout waiting for the callback")
	}
}

func TestCallFuncEnqueuePanic(t *testing.T) {
	assert := assert.New(t)

	call := zipkin.NewCallFunc("test-call", func(_ context.Context) error { panic("boom") })

	// The panic happens on the call's own goroutine, it must come back
	// through the callback like any other failure.
	resultC := make(chan error, 1)
	call.Enqueue(func(err error) { resultC <- err })

	select {
	case err := <-resultC:
		assert.Error(err)
		assert.Contains(err.Error(), "boom")
	case <-time.After(1 * time.Second):
		assert.Fail("timeout waiting for the callback")
	}
}

func TestCallFuncClone(t *testing.T) {
	assert := assert.New(t)

	call := zipkin.NewCallFunc("test-call", func(_ context.Context) error { return nil })
	call.Cancel()

	// Clones share the work but not the execution state.
	clone := call.Clone()
	assert.True(call.Canceled())
	assert.False(clone.Canceled())
	assert.NoError(clone.Execute(context.Background()))
	assert.Equal("test-call", clone.String())
}
