package core

import (
	"fmt"
	"sync"
)

// Handle identifies a slot in a HandleTable. A handle goes stale once its slot
// is released, even if the slot is reused later.
type Handle struct {
	Index      uint32
	Generation uint32
}

// InvalidHandle is never issued by a HandleTable.
var InvalidHandle = Handle{}

type handleSlot[T any] struct {
	value      T
	generation uint32
	used       bool
}

// HandleTable is an arena of owners addressed by generation-checked handles.
// It does not keep owners alive on its own behalf: owners release their handle
// when they are destroyed. All methods are safe for concurrent use.
type HandleTable[T any] struct {
	mu    sync.Mutex
	slots []handleSlot[T]
	free  []uint32
	count int
}

func NewHandleTable[T any](capacity int) *HandleTable[T] {
	return &HandleTable[T]{
		slots: make([]handleSlot[T], 0, capacity),
	}
}

// Acquire stores owner in a free slot (or a new one) and returns its handle.
func (t *HandleTable[T]) Acquire(owner T) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	var index uint32
	if n := len(t.free); n > 0 {
		// Existing free spot. Take it.
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, handleSlot[T]{})
		index = uint32(len(t.slots) - 1)
	}
	slot := &t.slots[index]
	// Generations start at 1 so the zero Handle is never valid.
	slot.generation++
	slot.value = owner
	slot.used = true
	t.count++
	return Handle{Index: index, Generation: slot.generation}
}

// Release frees the slot addressed by h.
func (t *HandleTable[T]) Release(h Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.validLocked(h) {
		return fmt.Errorf("%w: index=%d generation=%d", ErrStaleHandle, h.Index, h.Generation)
	}
	var zero T
	slot := &t.slots[h.Index]
	slot.value = zero
	slot.used = false
	t.free = append(t.free, h.Index)
	t.count--
	return nil
}

// Get returns the owner addressed by h.
func (t *HandleTable[T]) Get(h Handle) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.validLocked(h) {
		var zero T
		return zero, false
	}
	return t.slots[h.Index].value, true
}

// Len reports the number of live handles.
func (t *HandleTable[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Snapshot copies every live owner, in slot order.
func (t *HandleTable[T]) Snapshot() []T {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]T, 0, t.count)
	for i := range t.slots {
		if t.slots[i].used {
			out = append(out, t.slots[i].value)
		}
	}
	return out
}

func (t *HandleTable[T]) validLocked(h Handle) bool {
	if h.Generation == 0 || int(h.Index) >= len(t.slots) {
		return false
	}
	slot := &t.slots[h.Index]
	return slot.used && slot.generation == h.Generation
}
