// Package worker contains the fixed-size pool that runs batch files concurrently
package worker

import (
	"context"
	"sync"
)

// Pool caps the number of tasks running at once. Files in a batch are
// independent, so the only coordination needed is the slot limit and
// completion tracking.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

func NewPool(maxWorkers int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Pool{sem: make(chan struct{}, maxWorkers)}
}

// Submit schedules task to run once a slot frees up. Tasks still waiting
// for a slot when ctx is cancelled are dropped without running.
func (p *Pool) Submit(ctx context.Context, task func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		select {
		case p.sem <- struct{}{}:
			defer func() { <-p.sem }()
			task()
		case <-ctx.Done():
		}
	}()
}

// Wait blocks until every submitted task has either run or been dropped.
func (p *Pool) Wait() {
	p.wg.Wait()
}
