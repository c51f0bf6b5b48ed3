package execute_test

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"go.uber.org/atomic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Robotzl/zipkin/errors"
	"github.com/Robotzl/zipkin/throttle/execute"
)

// waitWorkersParked gives the pool workers time to block on the job queue so
// submissions are handed off directly instead of racing the worker start.
func waitWorkersParked() { time.Sleep(50 * time.Millisecond) }

func TestPoolRejectsBeyondCapacity(t *testing.T) {
	assert := assert.New(t)

	p := execute.NewPool(execute.Config{Workers: 4, QueueSize: 2})
	defer p.Shutdown()
	waitWorkersParked()

	// 4 running + 2 queued fit, the 7th submission must fail fast.
	var wg sync.WaitGroup
	executed := atomic.NewInt32(0)
	rejected := 0
	for i := 0; i < 7; i++ {
		wg.Add(1)
		err := p.Submit(func() {
			defer wg.Done()
			time.Sleep(200 * time.Millisecond)
			executed.Inc()
		})
		if err != nil {
			assert.ErrorIs(err, errors.ErrRejectedCapacity)
			rejected++
			wg.Done()
		}
	}

	assert.Equal(1, rejected)
	wg.Wait()
	assert.Equal(int32(6), executed.Load())
}

func TestPoolQueueSizeZeroBehavesLikeOne(t *testing.T) {
	tests := []struct {
		name      string
		queueSize int
	}{
		{name: "A queue size of 0 should be coerced to 1.", queueSize: 0},
		{name: "A queue size of 1 should stay 1.", queueSize: 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert := assert.New(t)

			p := execute.NewPool(execute.Config{Workers: 1, QueueSize: test.queueSize})
			defer p.Shutdown()
			waitWorkersParked()

			assert.Equal(1, p.QueueCapacity())

			// Occupy the worker.
			releaseC := make(chan struct{})
			err := p.Submit(func() { <-releaseC })
			assert.NoError(err)
			waitWorkersParked()

			// One submission queues, the next one is rejected.
			assert.NoError(p.Submit(func() {}))
			assert.ErrorIs(p.Submit(func() {}), errors.ErrRejectedCapacity)

			close(releaseC)
		})
	}
}

func TestPoolShutdownAbandonsQueuedJobs(t *testing.T) {
	assert := assert.New(t)

	p := execute.NewPool(execute.Config{Workers: 2, QueueSize: 3})
	waitWorkersParked()

	// Keep both workers busy.
	startedC := make(chan struct{}, 2)
	releaseC := make(chan struct{})
	for i := 0; i < 2; i++ {
		err := p.Submit(func() {
			startedC <- struct{}{}
			<-releaseC
		})
		assert.NoError(err)
	}
	<-startedC
	<-startedC

	// Queue 3 more jobs.
	queuedRuns := atomic.NewInt32(0)
	for i := 0; i < 3; i++ {
		err := p.Submit(func() { queuedRuns.Inc() })
		assert.NoError(err)
	}

	// Shutdown must not wait for the running jobs.
	doneC := make(chan struct{})
	go func() {
		p.Shutdown()
		close(doneC)
	}()
	select {
	case <-doneC:
	case <-time.After(1 * time.Second):
		assert.Fail("shutdown blocked waiting for running jobs")
	}

	// New submissions are rejected and the queued jobs never run, even after
	// the running ones finish.
	assert.ErrorIs(p.Submit(func() {}), errors.ErrRejectedCapacity)
	close(releaseC)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(int32(0), queuedRuns.Load())

	// Shutdown is idempotent.
	p.Shutdown()
}

func TestPoolResizeBounds(t *testing.T) {
	assert := assert.New(t)

	p := execute.NewPool(execute.Config{Workers: 3, QueueSize: 1})
	defer p.Shutdown()

	// core can't exceed max and max can't go below core.
	assert.Error(p.SetCoreWorkers(5))
	assert.Error(p.SetMaxWorkers(2))
	assert.Error(p.SetMaxWorkers(0))
	assert.Error(p.SetCoreWorkers(-1))

	// Growing: max first, then core.
	assert.NoError(p.SetMaxWorkers(6))
	assert.NoError(p.SetCoreWorkers(6))
	assert.Equal(6, p.CoreWorkers())
	assert.Equal(6, p.MaxWorkers())

	// Shrinking: core first, then max.
	assert.NoError(p.SetCoreWorkers(2))
	assert.NoError(p.SetMaxWorkers(2))
	assert.Equal(2, p.CoreWorkers())
	assert.Equal(2, p.MaxWorkers())
}

func TestPoolGrownWorkersExecute(t *testing.T) {
	require := require.New(t)

	p := execute.NewPool(execute.Config{Workers: 1, QueueSize: 1})
	defer p.Shutdown()

	require.NoError(p.SetMaxWorkers(3))
	require.NoError(p.SetCoreWorkers(3))
	waitWorkersParked()

	// All 3 workers should pick up work concurrently.
	startedC := make(chan struct{}, 3)
	releaseC := make(chan struct{})
	for i := 0; i < 3; i++ {
		require.NoError(p.Submit(func() {
			startedC <- struct{}{}
			<-releaseC
		}))
	}

	for i := 0; i < 3; i++ {
		select {
		case <-startedC:
		case <-time.After(1 * time.Second):
			require.Fail("worker never picked up the job")
		}
	}
	close(releaseC)
}

func TestResizer(t *testing.T) {
	tests := []struct {
		name       string
		workers    int
		resizes    []int
		expWorkers int
	}{
		{
			name:       "Growing should raise both bounds.",
			workers:    2,
			resizes:    []int{5},
			expWorkers: 5,
		},
		{
			name:       "Shrinking should lower both bounds.",
			workers:    5,
			resizes:    []int{1},
			expWorkers: 1,
		},
		{
			name:       "Resizing to the same size should be a no-op.",
			workers:    3,
			resizes:    []int{3},
			expWorkers: 3,
		},
		{
			name:       "Consecutive resizes should end on the last one.",
			workers:    1,
			resizes:    []int{10, 2, 7, 3},
			expWorkers: 3,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert := assert.New(t)

			p := execute.NewPool(execute.Config{Workers: test.workers, QueueSize: 1})
			defer p.Shutdown()
			r := execute.NewResizer(p, nil)

			for _, newLimit := range test.resizes {
				assert.NoError(r.Resize(newLimit))
			}

			assert.Equal(test.expWorkers, p.CoreWorkers())
			assert.Equal(test.expWorkers, p.MaxWorkers())
		})
	}
}

func TestResizerRejectsNonPositiveLimits(t *testing.T) {
	assert := assert.New(t)

	p := execute.NewPool(execute.Config{Workers: 3, QueueSize: 1})
	defer p.Shutdown()
	r := execute.NewResizer(p, nil)

	// A limit below 1 must be rejected before touching the pool, a partial
	// apply would leave it without workers.
	assert.Error(r.Resize(0))
	assert.Error(r.Resize(-2))
	assert.Equal(3, p.CoreWorkers())
	assert.Equal(3, p.MaxWorkers())
}

func TestResizerConcurrentResizes(t *testing.T) {
	require := require.New(t)

	p := execute.NewPool(execute.Config{Workers: 10, QueueSize: 1})
	defer p.Shutdown()
	r := execute.NewResizer(p, nil)

	// Hammer the resizer from many goroutines, the core <= max pool invariant
	// must hold at every instant so no resize can ever fail.
	var wg sync.WaitGroup
	errC := make(chan error, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := r.Resize(n); err != nil {
				errC <- err
			}
		}(rand.Intn(30) + 1)
	}
	wg.Wait()
	close(errC)

	for err := range errC {
		require.NoError(err)
	}
	require.Equal(p.MaxWorkers(), p.CoreWorkers())
}
