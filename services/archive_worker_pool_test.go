package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NomadCrew/portfolio-backend/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(workers, queue int) *WorkerPool {
	return NewWorkerPool(config.WorkerPoolConfig{
		MaxWorkers:        workers,
		QueueSize:         queue,
		JobTimeoutSeconds: 5,
	}, prometheus.NewRegistry())
}

func TestWorkerPool_SubmitAndExecute(t *testing.T) {
	pool := newTestPool(2, 10)
	pool.Start()
	defer pool.Shutdown(context.Background())

	var executed int32
	done := make(chan struct{})

	submitted := pool.Submit(Job{
		Name: "test-job",
		Execute: func(ctx context.Context) error {
			atomic.AddInt32(&executed, 1)
			close(done)
			return nil
		},
	})
	require.True(t, submitted)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Job did not execute within timeout")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&executed))
}

func TestWorkerPool_BoundedConcurrency(t *testing.T) {
	pool := newTestPool(2, 100)
	pool.Start()
	defer pool.Shutdown(context.Background())

	var maxConcurrent, currentConcurrent int32
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.True(t, pool.Submit(Job{
			Name: "concurrent-job",
			Execute: func(ctx context.Context) error {
				defer wg.Done()
				current := atomic.AddInt32(&currentConcurrent, 1)
				defer atomic.AddInt32(&currentConcurrent, -1)

				mu.Lock()
				if current > maxConcurrent {
					maxConcurrent = current
				}
				mu.Unlock()

				time.Sleep(20 * time.Millisecond)
				return nil
			},
		}))
	}
	wg.Wait()

	assert.LessOrEqual(t, maxConcurrent, int32(2))
}

func TestWorkerPool_QueueFull(t *testing.T) {
	pool := newTestPool(1, 2)
	pool.Start()
	defer pool.Shutdown(context.Background())

	blocker := make(chan struct{})
	started := make(chan struct{})
	pool.Submit(Job{
		Name: "blocker",
		Execute: func(ctx context.Context) error {
			close(started)
			<-blocker
			return nil
		},
	})
	<-started

	noop := func(ctx context.Context) error { return nil }
	assert.True(t, pool.Submit(Job{Name: "queued-1", Execute: noop}))
	assert.True(t, pool.Submit(Job{Name: "queued-2", Execute: noop}))
	assert.False(t, pool.Submit(Job{Name: "overflow", Execute: noop}))
	assert.Equal(t, 2, pool.QueueDepth())

	close(blocker)
}

func TestWorkerPool_ShutdownDrainsQueue(t *testing.T) {
	pool := newTestPool(1, 10)
	pool.Start()

	var completed int32
	for i := 0; i < 3; i++ {
		pool.Submit(Job{
			Name: "slow-job",
			Execute: func(ctx context.Context) error {
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt32(&completed, 1)
				return nil
			},
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pool.Shutdown(ctx))

	assert.Equal(t, int32(3), atomic.LoadInt32(&completed))
	assert.False(t, pool.IsRunning())
	assert.False(t, pool.Submit(Job{Name: "late", Execute: func(ctx context.Context) error { return nil }}))
	assert.NoError(t, pool.Shutdown(context.Background()))
}

func TestWorkerPool_ShutdownTimeout(t *testing.T) {
	pool := newTestPool(1, 10)
	pool.Start()

	jobDone := make(chan struct{})
	defer close(jobDone)
	started := make(chan struct{})

	pool.Submit(Job{
		Name: "very-slow-job",
		Execute: func(ctx context.Context) error {
			close(started)
			<-jobDone
			return nil
		},
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := pool.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWorkerPool_DoubleStart(t *testing.T) {
	pool := newTestPool(2, 10)
	pool.Start()
	pool.Start()
	defer pool.Shutdown(context.Background())

	assert.True(t, pool.IsRunning())
}

func TestWorkerPool_JobError(t *testing.T) {
	pool := newTestPool(1, 10)
	pool.Start()
	defer pool.Shutdown(context.Background())

	var executed int32
	pool.Submit(Job{
		Name: "error-job",
		Execute: func(ctx context.Context) error {
			atomic.AddInt32(&executed, 1)
			return assert.AnError
		},
	})

	done := make(chan struct{})
	pool.Submit(Job{
		Name: "success-job",
		Execute: func(ctx context.Context) error {
			atomic.AddInt32(&executed, 1)
			close(done)
			return nil
		},
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Second job did not execute")
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&executed))
}
