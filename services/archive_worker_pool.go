package services

import (
	"context"
	"sync"
	"time"

	"github.com/NomadCrew/portfolio-backend/config"
	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Job is a unit of background work.
type Job struct {
	// Name is used for logging only.
	Name    string
	Execute func(ctx context.Context) error
}

// WorkerPool runs jobs on a bounded set of workers fed from a bounded queue.
// Submit never blocks; jobs that do not fit are dropped and counted.
type WorkerPool struct {
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	log      *zap.SugaredLogger
	metrics  *workerPoolMetrics
	cfg      config.WorkerPoolConfig

	mu      sync.RWMutex
	running bool
	closed  bool
}

type workerPoolMetrics struct {
	queueDepth    prometheus.Gauge
	activeWorkers prometheus.Gauge
	completedJobs prometheus.Counter
	droppedJobs   prometheus.Counter
	errorCount    prometheus.Counter
	jobDuration   prometheus.Histogram
}

func newWorkerPoolMetrics(reg prometheus.Registerer) *workerPoolMetrics {
	factory := promauto.With(reg)
	return &workerPoolMetrics{
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "portfolio_archive_queue_depth",
			Help: "Current number of archive jobs waiting in queue",
		}),
		activeWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "portfolio_archive_active_workers",
			Help: "Current number of workers writing to the archive",
		}),
		completedJobs: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_archive_completed_jobs_total",
			Help: "Total number of finished archive jobs",
		}),
		droppedJobs: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_archive_dropped_jobs_total",
			Help: "Total number of archive jobs dropped due to full queue",
		}),
		errorCount: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_archive_errors_total",
			Help: "Total number of archive job errors",
		}),
		jobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfolio_archive_job_duration_seconds",
			Help:    "Time taken to execute archive jobs",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
}

// NewWorkerPool creates a stopped pool. Metrics are registered with reg, or
// with a private registry when reg is nil.
func NewWorkerPool(cfg config.WorkerPoolConfig, reg prometheus.Registerer) *WorkerPool {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	cfg.MaxWorkers = max(cfg.MaxWorkers, 1)
	cfg.QueueSize = max(cfg.QueueSize, 0)
	if cfg.JobTimeoutSeconds <= 0 {
		cfg.JobTimeoutSeconds = 30
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		jobQueue: make(chan Job, cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
		log:      logger.GetLogger().Named("archive-pool"),
		metrics:  newWorkerPoolMetrics(reg),
		cfg:      cfg,
	}
}

// Start launches the workers. Only the first call has an effect.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running || wp.closed {
		return
	}
	wp.running = true

	wp.log.Infow("Starting worker pool",
		"maxWorkers", wp.cfg.MaxWorkers,
		"queueSize", wp.cfg.QueueSize)

	for i := 0; i < wp.cfg.MaxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Workers drain the queue until it is closed.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.executeJob(id, job)
	}
}

func (wp *WorkerPool) executeJob(workerID int, job Job) {
	wp.metrics.activeWorkers.Inc()
	wp.metrics.queueDepth.Dec()
	defer wp.metrics.activeWorkers.Dec()

	start := time.Now()
	jobCtx, cancel := context.WithTimeout(wp.ctx, time.Duration(wp.cfg.JobTimeoutSeconds)*time.Second)
	defer cancel()

	if err := job.Execute(jobCtx); err != nil {
		wp.log.Errorw("Job execution failed",
			"job", job.Name,
			"workerId", workerID,
			"error", err,
			"duration", time.Since(start))
		wp.metrics.errorCount.Inc()
	}

	wp.metrics.jobDuration.Observe(time.Since(start).Seconds())
	wp.metrics.completedJobs.Inc()
}

// Submit queues job and reports whether it was accepted. It returns false
// when the queue is full or the pool is not running.
func (wp *WorkerPool) Submit(job Job) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if !wp.running {
		return false
	}

	select {
	case wp.jobQueue <- job:
		wp.metrics.queueDepth.Inc()
		return true
	default:
		wp.metrics.droppedJobs.Inc()
		wp.log.Warnw("Job dropped - queue full",
			"job", job.Name,
			"queueSize", wp.cfg.QueueSize)
		return false
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish. When ctx
// expires first, running jobs are cancelled and ctx.Err() is returned.
func (wp *WorkerPool) Shutdown(ctx context.Context) error {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return nil
	}
	wasRunning := wp.running
	wp.running = false
	wp.closed = true
	close(wp.jobQueue)
	wp.mu.Unlock()

	if !wasRunning {
		wp.cancel()
		return nil
	}

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.cancel()
		wp.log.Info("Worker pool shutdown complete")
		return nil
	case <-ctx.Done():
		wp.cancel()
		wp.log.Warn("Worker pool shutdown timed out, cancelling running jobs")
		return ctx.Err()
	}
}

// QueueDepth returns the number of jobs waiting in the queue.
func (wp *WorkerPool) QueueDepth() int {
	return len(wp.jobQueue)
}

// IsRunning reports whether the pool accepts jobs.
func (wp *WorkerPool) IsRunning() bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	return wp.running
}
