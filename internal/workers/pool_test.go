// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsJobsConcurrently(t *testing.T) {
	pool := NewPool(4)
	var running int32
	var maxRunning int32

	for i := 0; i < 4; i++ {
		pool.Submit(context.Background(), func(ctx context.Context) {
			n := atomic.AddInt32(&running, 1)
			for {
				cur := atomic.LoadInt32(&maxRunning)
				if n <= cur || atomic.CompareAndSwapInt32(&maxRunning, cur, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&running, -1)
		})
	}
	pool.Wait()

	if atomic.LoadInt32(&maxRunning) < 2 {
		t.Fatalf("expected at least 2 jobs to run concurrently, saw max %d", maxRunning)
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	pool := NewPool(1)
	var running int32
	var maxRunning int32

	for i := 0; i < 3; i++ {
		pool.Submit(context.Background(), func(ctx context.Context) {
			n := atomic.AddInt32(&running, 1)
			if n > atomic.LoadInt32(&maxRunning) {
				atomic.StoreInt32(&maxRunning, n)
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
		})
	}
	pool.Wait()

	if atomic.LoadInt32(&maxRunning) != 1 {
		t.Fatalf("expected pool of size 1 to serialize jobs, saw max %d", maxRunning)
	}
}

func TestPool_ObservesCancellation(t *testing.T) {
	pool := NewPool(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	pool.Submit(ctx, func(ctx context.Context) {
		defer close(done)
		for i := 0; i < 1000; i++ {
			select {
			case <-ctx.Done():
				return
			default:
			}
			time.Sleep(time.Millisecond)
		}
	})

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not observe cancellation in time")
	}
}
