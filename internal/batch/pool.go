// Package batch runs many backend lookups with bounded concurrency.
package batch

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"gportal/internal/api"
)

const bufferSize = 100

// Job is one lookup. Key identifies it in the outcome (a tracking ID,
// for instance).
type Job struct {
	Key string
	Do  func(ctx context.Context) api.Result
}

// Outcome is the result of one Job.
type Outcome struct {
	Key    string
	Result api.Result
	Worker int
}

// worker pulls jobs from the shared channel until it closes.
type worker struct {
	id      int
	jobs    <-chan Job
	results chan<- Outcome
	ctx     context.Context
	logger  *zap.Logger
	wg      *sync.WaitGroup
}

// Pool is a fixed set of workers sharing a job channel.
//
// Lifecycle:
//  1. NewPool starts the workers
//  2. Submit queues jobs (blocks once the buffer is full)
//  3. Close stops intake, waits for in-flight jobs, closes Results
//
// Outcomes arrive in completion order, not submission order.
type Pool struct {
	jobs    chan Job
	results chan Outcome
	wg      sync.WaitGroup
	size    int
}

// NewPool starts workerCount workers (at least one). Jobs receive ctx.
func NewPool(ctx context.Context, workerCount int, logger *zap.Logger) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{
		jobs:    make(chan Job, bufferSize),
		results: make(chan Outcome, bufferSize),
		size:    workerCount,
	}
	for i := 0; i < workerCount; i++ {
		w := &worker{
			id:      i + 1,
			jobs:    p.jobs,
			results: p.results,
			ctx:     ctx,
			logger:  logger.With(zap.Int("worker", i+1)),
			wg:      &p.wg,
		}
		p.wg.Add(1)
		go w.start()
	}
	logger.Debug("worker pool started", zap.Int("workers", workerCount))
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Submit queues a job.
func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// Close stops accepting jobs, waits for the workers and closes Results.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}

// Results returns the outcome channel. It is closed by Close.
func (p *Pool) Results() <-chan Outcome {
	return p.results
}

func (w *worker) start() {
	defer w.wg.Done()

	for job := range w.jobs {
		res := job.Do(w.ctx)
		if !res.OK() {
			w.logger.Debug("lookup failed", zap.String("key", job.Key), zap.String("message", res.Message()))
		}
		w.results <- Outcome{Key: job.Key, Result: res, Worker: w.id}
	}
}

// Run executes jobs on a pool of workerCount workers and returns every
// outcome, in completion order.
func Run(ctx context.Context, workerCount int, jobs []Job, logger *zap.Logger) []Outcome {
	p := NewPool(ctx, workerCount, logger)
	go func() {
		for _, job := range jobs {
			p.Submit(job)
		}
		p.Close()
	}()

	out := make([]Outcome, 0, len(jobs))
	for o := range p.Results() {
		out = append(out, o)
	}
	return out
}

// TimelineJobs builds one GrievanceTimeline lookup per tracking ID.
func TimelineJobs(c *api.Client, department string, trackingIDs []string) []Job {
	jobs := make([]Job, 0, len(trackingIDs))
	for _, id := range trackingIDs {
		jobs = append(jobs, Job{
			Key: id,
			Do: func(ctx context.Context) api.Result {
				return c.GrievanceTimeline(ctx, id, department)
			},
		})
	}
	return jobs
}
