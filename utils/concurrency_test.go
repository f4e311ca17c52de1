package utils

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestStringSetNoDuplicates(t *testing.T) {
	s := NewStringSet()

	added := s.Add("Acme")
	if !added {
		t.Error("first Add should return true")
	}

	added = s.Add("Acme")
	if added {
		t.Error("second Add of same value should return false")
	}

	if got := s.Sorted(); len(got) != 1 || got[0] != "Acme" {
		t.Errorf("members: got %v, want [Acme]", got)
	}
}

func TestStringSetSorted(t *testing.T) {
	s := NewStringSet()
	for _, v := range []string{"Zeiss", "Acme", "Émile", "Bosch"} {
		s.Add(v)
	}
	got := s.Sorted()
	want := []string{"Acme", "Bosch", "Zeiss", "Émile"}
	if len(got) != len(want) {
		t.Fatalf("Sorted len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sorted[%d]: got %q, want %q", i, got[i], want[i])
		}
	}

	if empty := NewStringSet().Sorted(); empty == nil || len(empty) != 0 {
		t.Errorf("Sorted on empty set: got %#v, want empty non-nil slice", empty)
	}
}

func TestStringSetConcurrency(t *testing.T) {
	s := NewStringSet()
	var added int64

	pool := NewWorkerPool(10)
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			if s.Add("same") {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	const workers = 3
	pool := NewWorkerPool(workers)

	var running, peak int64
	for i := 0; i < 20; i++ {
		pool.Submit(func() {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&running, -1)
		})
	}
	pool.Wait()

	if peak > workers {
		t.Errorf("peak concurrency: got %d, want at most %d", peak, workers)
	}
	if peak < 1 {
		t.Error("no job ran")
	}
}

func TestWorkerPoolMinimumOneWorker(t *testing.T) {
	pool := NewWorkerPool(0)
	var ran int64
	pool.Submit(func() { atomic.AddInt64(&ran, 1) })
	pool.Wait()
	if ran != 1 {
		t.Errorf("ran: got %d, want 1", ran)
	}
}
