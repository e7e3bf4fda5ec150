// Package workerpool implements the fixed-size worker pool the polisher
// dispatches its three parallelizable stages to: sequence transmute,
// overlap break-point computation, and per-window consensus generation.
// Each worker is assigned a dense slot at pool start, with a preallocated
// alignment engine per slot that is never contended, the way the teacher's
// internal/pipeline.ForEachProduct partitions work across goroutines
// reading from a shared jobs channel.
package workerpool

import (
	"racon-core/align"
	"sync"
)

// Pool runs tasks on a fixed number of goroutines, each with its own dense
// slot id and preallocated alignment engine; every task is handed the slot
// id of the worker that runs it.
type Pool struct {
	n       int
	engines []*align.Engine

	jobs chan func(slot int)
	wg   sync.WaitGroup
}

// New starts n worker goroutines, each preallocated with its own
// align.Engine built from cfg.
func New(n int, cfg align.Config, expectedSeqLen, expectedFanOut int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{
		n:       n,
		engines: make([]*align.Engine, n),
		jobs:    make(chan func(slot int)),
	}
	for i := 0; i < n; i++ {
		p.engines[i] = align.New(cfg, expectedSeqLen, expectedFanOut)
	}
	p.wg.Add(n)
	for slot := 0; slot < n; slot++ {
		slot := slot
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job(slot)
			}
		}()
	}
	return p
}

// Engine returns the alignment engine preallocated for slot. A task must
// only call this from inside the job it was given; looking up a slot for
// an unregistered goroutine is a programmer error and is not guarded
// against here — callers only ever reach it through Submit's job
// callback, which always passes a valid slot.
func (p *Pool) Engine(slot int) *align.Engine { return p.engines[slot] }

// Submit enqueues a task; fn receives the dense slot id of whichever
// worker runs it.
func (p *Pool) Submit(fn func(slot int)) { p.jobs <- fn }

// Close stops accepting new tasks and waits for in-flight tasks to drain.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// Futures runs one task per item of work, in order, and returns a slice of
// receive-only channels the caller awaits in submission order — matching
// the spec's ordering guarantee that final emission follows submission
// order regardless of completion order.
func Futures[T any](p *Pool, tasks []func(slot int) T) []<-chan T {
	out := make([]<-chan T, len(tasks))
	for i, task := range tasks {
		ch := make(chan T, 1)
		out[i] = ch
		task := task
		p.Submit(func(slot int) {
			ch <- task(slot)
			close(ch)
		})
	}
	return out
}
