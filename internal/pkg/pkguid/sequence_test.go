package pkguid

import (
	"sync"
	"testing"
)

func TestSequenceStartsAtOne(t *testing.T) {
	seq := NewSequence()
	if got := seq.Generate(); got != 1 {
		t.Fatalf("expected first id 1, got %d", got)
	}
	if got := seq.Generate(); got != 2 {
		t.Fatalf("expected second id 2, got %d", got)
	}
	if got := seq.Peek(); got != 3 {
		t.Fatalf("expected peek 3, got %d", got)
	}
}

func TestSequenceReset(t *testing.T) {
	seq := NewSequence()
	for i := 0; i < 5; i++ {
		seq.Generate()
	}

	seq.Reset()
	if got := seq.Generate(); got != SequenceStart {
		t.Fatalf("expected %d after reset, got %d", SequenceStart, got)
	}
}

func TestSequenceConcurrentUnique(t *testing.T) {
	const workers = 16
	const perWorker = 500

	seq := NewSequence()
	ids := make(chan int64, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ids <- seq.Generate()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]struct{}, workers*perWorker)
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d ids, got %d", workers*perWorker, len(seen))
	}
	if got := seq.Peek(); got != workers*perWorker+1 {
		t.Fatalf("expected next id %d, got %d", workers*perWorker+1, got)
	}
}
