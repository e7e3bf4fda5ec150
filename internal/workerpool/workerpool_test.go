package workerpool

import (
	"testing"

	"racon-core/align"
)

func testCfg() align.Config {
	return align.Config{Match: 5, Mismatch: -4, Gap: -8}
}

func TestNewNormalizesNonPositiveSize(t *testing.T) {
	p := New(0, testCfg(), 16, 16)
	defer p.Close()
	if len(p.engines) != 1 {
		t.Fatalf("want size normalized to 1, got %d engines", len(p.engines))
	}
}

func TestEngineReturnsDedicatedEngine(t *testing.T) {
	p := New(4, testCfg(), 16, 16)
	defer p.Close()
	seen := map[*align.Engine]bool{}
	for slot := 0; slot < 4; slot++ {
		eng := p.Engine(slot)
		if eng == nil {
			t.Fatalf("slot %d has a nil engine", slot)
		}
		if seen[eng] {
			t.Fatalf("slot %d reused another slot's engine", slot)
		}
		seen[eng] = true
	}
}

func TestFuturesPreservesSubmissionOrderRegardlessOfCompletionOrder(t *testing.T) {
	const n = 5
	p := New(n, testCfg(), 16, 16)
	defer p.Close()

	release := make([]chan struct{}, n)
	for i := range release {
		release[i] = make(chan struct{})
	}
	tasks := make([]func(slot int) int, n)
	for i := 0; i < n; i++ {
		i := i
		tasks[i] = func(slot int) int {
			<-release[i]
			return i
		}
	}

	futures := Futures(p, tasks)

	// Release in reverse order so the tasks finish out of submission order;
	// Futures must still hand results back aligned to submission index.
	go func() {
		for i := n - 1; i >= 0; i-- {
			close(release[i])
		}
	}()

	for i, f := range futures {
		if got := <-f; got != i {
			t.Errorf("future %d returned %d, want %d", i, got, i)
		}
	}
}

func TestSubmitRunsEveryTask(t *testing.T) {
	p := New(3, testCfg(), 16, 16)
	defer p.Close()

	const total = 20
	done := make(chan int, total)
	for i := 0; i < total; i++ {
		i := i
		p.Submit(func(slot int) { done <- i })
	}
	seen := make(map[int]bool, total)
	for i := 0; i < total; i++ {
		seen[<-done] = true
	}
	if len(seen) != total {
		t.Fatalf("want all %d tasks run exactly once, saw %d distinct", total, len(seen))
	}
}
