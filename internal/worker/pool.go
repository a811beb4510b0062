// Package worker runs batches of question/answer verifications across
// a bounded set of goroutines, preserving input order.
package worker

import (
	"context"
	"sync"
)

// Job is one unit of batch work
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job
type Result interface {
	Err() error
}

// Pool executes jobs across a fixed number of workers. Results come
// back in submission order regardless of completion order: each job
// writes into its own slot.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given worker count
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes all jobs and returns one result per job, index-aligned
// with the input. Jobs not started before ctx is cancelled leave a nil
// slot; callers treat nil as cancelled.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobCh := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobCh {
				results[idx] = jobs[idx].Execute(ctx)
			}
		}()
	}

feed:
	for i := range jobs {
		select {
		case <-ctx.Done():
			break feed
		case jobCh <- i:
		}
	}
	close(jobCh)
	wg.Wait()

	return results
}
