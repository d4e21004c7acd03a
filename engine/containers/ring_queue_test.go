package containers

import (
	"errors"
	"sync"
	"testing"

	"github.com/spaghettifunk/xnagfx/engine/core"
)

func TestRingQueueFIFOAcrossGrowth(t *testing.T) {
	rq := NewRingQueue[int](2)
	rq.Enqueue(1)
	rq.Enqueue(2)
	if v, _ := rq.Dequeue(); v != 1 {
		t.Fatalf("Dequeue() = %d, want 1", v)
	}
	// wrap the write index, then force growth
	for i := 3; i <= 6; i++ {
		rq.Enqueue(i)
	}
	if rq.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", rq.Len())
	}
	for want := 2; want <= 6; want++ {
		got, err := rq.Dequeue()
		if err != nil || got != want {
			t.Fatalf("Dequeue() = (%d, %v), want (%d, nil)", got, err, want)
		}
	}
	if _, err := rq.Dequeue(); !errors.Is(err, core.ErrQueueEmpty) {
		t.Errorf("Dequeue() on empty error = %v, want ErrQueueEmpty", err)
	}
	if _, err := rq.Peek(); !errors.Is(err, core.ErrQueueEmpty) {
		t.Errorf("Peek() on empty error = %v, want ErrQueueEmpty", err)
	}
}

func TestRingQueueConcurrentDrain(t *testing.T) {
	rq := NewRingQueue[int](1)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				rq.Enqueue(i)
			}
		}()
	}
	wg.Wait()

	sum := 0
	n := rq.Drain(func(v int) { sum += v })
	if n != 800 {
		t.Errorf("Drain() = %d, want 800", n)
	}
	if sum != 8*4950 {
		t.Errorf("sum = %d, want %d", sum, 8*4950)
	}
	if !rq.IsEmpty() {
		t.Error("queue not empty after Drain")
	}
}
