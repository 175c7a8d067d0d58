package audit

import (
	"context"
	"sync"
)

// defaultMemoryCapacity bounds the in-memory log.
const defaultMemoryCapacity = 1000

// MemoryRepo keeps the most recent events in process memory. Once full, the
// oldest event is discarded on each append. Events are lost on restart.
type MemoryRepo struct {
	mu       sync.Mutex
	capacity int
	events   []Event
}

func NewMemoryRepo() *MemoryRepo { return NewBoundedMemoryRepo(defaultMemoryCapacity) }

func NewBoundedMemoryRepo(capacity int) *MemoryRepo {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryRepo{capacity: capacity}
}

func (r *MemoryRepo) Append(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == r.capacity {
		copy(r.events, r.events[1:])
		r.events = r.events[:len(r.events)-1]
	}
	r.events = append(r.events, e)
	return nil
}

// Events returns a snapshot, oldest first.
func (r *MemoryRepo) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
