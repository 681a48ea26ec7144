package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPool_RunsSubmittedJobs(t *testing.T) {
	p := NewPool(10, time.Second, zerolog.Nop())
	p.Start(2)

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		p.Submit(Job{
			Name: "count",
			Run: func(ctx context.Context) error {
				defer wg.Done()
				ran.Add(1)
				return nil
			},
		})
	}

	wg.Wait()
	p.Stop()

	if got := ran.Load(); got != 5 {
		t.Fatalf("expected 5 jobs to run, got %d", got)
	}
}

func TestPool_DropsWhenSaturated(t *testing.T) {
	p := NewPool(1, time.Second, zerolog.Nop())
	// No Start: nothing drains the queue.

	block := Job{Name: "first", Run: func(ctx context.Context) error { return nil }}
	p.Submit(block)

	dropped := Job{Name: "second", Run: func(ctx context.Context) error {
		t.Error("dropped job must not run")
		return nil
	}}
	p.Submit(dropped) // queue full, silently dropped

	p.Start(1)
	p.Stop()
}

func TestPool_JobTimeout(t *testing.T) {
	p := NewPool(1, 20*time.Millisecond, zerolog.Nop())
	p.Start(1)

	done := make(chan error, 1)
	p.Submit(Job{
		Name: "slow",
		Run: func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				done <- ctx.Err()
				return ctx.Err()
			case <-time.After(5 * time.Second):
				done <- nil
				return nil
			}
		},
	})

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job never observed its deadline")
	}
	p.Stop()
}

func TestPool_StopWaitsForInflight(t *testing.T) {
	p := NewPool(4, time.Second, zerolog.Nop())
	p.Start(1)

	var finished atomic.Bool
	p.Submit(Job{
		Name: "inflight",
		Run: func(ctx context.Context) error {
			time.Sleep(50 * time.Millisecond)
			finished.Store(true)
			return nil
		},
	})

	p.Stop()
	if !finished.Load() {
		t.Fatal("Stop returned before in-flight job completed")
	}
}
