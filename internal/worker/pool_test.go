package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// mockResult implements Result
type mockResult struct {
	id  int
	err error
}

func (r *mockResult) Err() error {
	return r.err
}

// mockJob implements Job
type mockJob struct {
	id        int
	duration  time.Duration
	shouldErr bool
	executed  *int32 // atomic counter
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &mockResult{id: j.id, err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &mockResult{id: j.id, err: errors.New("job error")}
	}
	return &mockResult{id: j.id}
}

func TestNewPool(t *testing.T) {
	if p := NewPool(5); p.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p.workers)
	}
	if p := NewPool(0); p.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p.workers)
	}
	if p := NewPool(-1); p.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p.workers)
	}
}

func TestPool_Execution(t *testing.T) {
	pool := NewPool(2)

	var executed int32
	count := 10

	jobs := make([]Job, count)
	for i := 0; i < count; i++ {
		jobs[i] = &mockJob{id: i, executed: &executed}
	}

	results := pool.Run(context.Background(), jobs)

	if len(results) != count {
		t.Fatalf("expected %d results, got %d", count, len(results))
	}
	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, executed)
	}
}

func TestPool_PreservesOrder(t *testing.T) {
	pool := NewPool(4)

	count := 20
	jobs := make([]Job, count)
	for i := 0; i < count; i++ {
		// Earlier jobs sleep longer, so completion order is reversed
		jobs[i] = &mockJob{id: i, duration: time.Duration(count-i) * time.Millisecond}
	}

	results := pool.Run(context.Background(), jobs)

	for i, r := range results {
		if r == nil {
			t.Fatalf("result %d is nil", i)
		}
		if got := r.(*mockResult).id; got != i {
			t.Errorf("result %d came from job %d", i, got)
		}
	}
}

// concurrencyJob tracks max concurrent executions
type concurrencyJob struct {
	start    func()
	end      func()
	duration time.Duration
}

func (j *concurrencyJob) Execute(ctx context.Context) Result {
	if j.start != nil {
		j.start()
	}
	time.Sleep(j.duration)
	if j.end != nil {
		j.end()
	}
	return &mockResult{}
}

func TestPool_Concurrency(t *testing.T) {
	workers := 10

	var current int32
	var maxConcurrent int32
	var completed int32
	var mu sync.Mutex

	totalJobs := 50
	jobs := make([]Job, totalJobs)
	for i := 0; i < totalJobs; i++ {
		jobs[i] = &concurrencyJob{
			start: func() {
				curr := atomic.AddInt32(&current, 1)
				mu.Lock()
				if curr > maxConcurrent {
					maxConcurrent = curr
				}
				mu.Unlock()
			},
			end: func() {
				atomic.AddInt32(&current, -1)
				atomic.AddInt32(&completed, 1)
			},
			duration: 10 * time.Millisecond,
		}
	}

	NewPool(workers).Run(context.Background(), jobs)

	if atomic.LoadInt32(&completed) != int32(totalJobs) {
		t.Errorf("expected %d completed jobs, got %d", totalJobs, completed)
	}

	mu.Lock()
	max := maxConcurrent
	mu.Unlock()

	if max > int32(workers) {
		t.Errorf("max concurrency %d exceeded workers %d", max, workers)
	}
	if max <= 1 {
		t.Logf("Warning: max concurrency was %d, expected > 1", max)
	}
}

func TestPool_ErrorHandling(t *testing.T) {
	pool := NewPool(2)

	results := pool.Run(context.Background(), []Job{
		&mockJob{id: 0, shouldErr: true},
		&mockJob{id: 1},
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err() == nil {
		t.Error("expected error from first job")
	}
	if results[1].Err() != nil {
		t.Errorf("unexpected error from second job: %v", results[1].Err())
	}
}

func TestPool_CancelledContext(t *testing.T) {
	pool := NewPool(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := make([]Job, 5)
	for i := range jobs {
		jobs[i] = &mockJob{id: i}
	}

	results := pool.Run(ctx, jobs)

	// Unstarted jobs leave nil slots; Run must still return one slot
	// per job without blocking.
	if len(results) != len(jobs) {
		t.Fatalf("expected %d slots, got %d", len(jobs), len(results))
	}
}

func TestPool_EmptyJobs(t *testing.T) {
	results := NewPool(2).Run(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
