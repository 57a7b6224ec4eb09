package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Orchestrator runs classification jobs on a bounded worker pool so long
// classifications never block the request path.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	pipeline *Pipeline
	stats    *Stats
	log      *slog.Logger

	workerCount int
	maxQueue    int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the job queue and store.
func NewOrchestrator(pl *Pipeline, log *slog.Logger, workerCount, maxQueue int, jobTTL time.Duration) *Orchestrator {
	return &Orchestrator{
		jobs:        NewJobStore(jobTTL),
		queue:       make(chan *Job, maxQueue),
		pipeline:    pl,
		stats:       NewStats(time.Hour),
		log:         log,
		workerCount: workerCount,
		maxQueue:    maxQueue,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.workerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.pipeline, o.stats, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pool.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.maxQueue)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// JobForBook returns the latest job for a book ID.
func (o *Orchestrator) JobForBook(bookID string) *Job {
	return o.jobs.ByBook(bookID)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Pipeline exposes the underlying pipeline for direct (synchronous) use.
func (o *Orchestrator) Pipeline() *Pipeline {
	return o.pipeline
}

// Stats returns the classification latency tracker.
func (o *Orchestrator) Stats() *Stats {
	return o.stats
}
