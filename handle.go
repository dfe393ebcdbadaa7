package agentutils

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// HandleRegistry is a concurrent store mapping opaque handles to live
// asynchronous units of work. The shell executor stores background processes
// in one ("shell_1", "shell_2", ...) and the task delegator stores background
// tasks in another ("task_1", ...); neither duplicates the concurrency logic.
//
// Handles are allocated from a single atomic counter per registry, so they
// are monotonic and never reused within the process lifetime. Register, Get
// and Remove are safe for arbitrary concurrent callers.
type HandleRegistry[T any] struct {
	prefix string
	next   atomic.Int64

	mu    sync.RWMutex
	units map[string]T
}

// NewHandleRegistry creates an empty registry whose handles carry the given
// prefix, e.g. NewHandleRegistry[*BackgroundProcess]("shell").
func NewHandleRegistry[T any](prefix string) *HandleRegistry[T] {
	return &HandleRegistry[T]{
		prefix: prefix,
		units:  make(map[string]T),
	}
}

// Register allocates the next handle, stores the unit under it and returns
// the handle. It never blocks on the unit's own work.
func (r *HandleRegistry[T]) Register(unit T) string {
	handle := r.NextHandle()
	r.mu.Lock()
	r.units[handle] = unit
	r.mu.Unlock()
	return handle
}

// NextHandle allocates a handle from the registry's counter without storing
// anything under it. Synchronous shell runs use this so their reported IDs
// share one sequence with background handles and can never collide with them.
func (r *HandleRegistry[T]) NextHandle() string {
	return fmt.Sprintf("%s_%d", r.prefix, r.next.Add(1))
}

// Get returns the unit stored under handle. The second return value is false
// if the handle was never issued or has been removed.
func (r *HandleRegistry[T]) Get(handle string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	unit, ok := r.units[handle]
	return unit, ok
}

// Remove detaches the unit from the registry. It does not stop the underlying
// work; callers that want the work stopped must do that first.
func (r *HandleRegistry[T]) Remove(handle string) {
	r.mu.Lock()
	delete(r.units, handle)
	r.mu.Unlock()
}

// Handles returns a snapshot of all live handles, in no particular order.
func (r *HandleRegistry[T]) Handles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handles := make([]string, 0, len(r.units))
	for h := range r.units {
		handles = append(handles, h)
	}
	return handles
}

// Len returns the number of live units.
func (r *HandleRegistry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units)
}
