package subagent

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TaskStatus describes the lifecycle state of a background task.
type TaskStatus string

const (
	TaskStatusRunning   TaskStatus = "Running"
	TaskStatusCompleted TaskStatus = "Completed"
	TaskStatusFailed    TaskStatus = "Failed"
)

// BackgroundTask wraps one asynchronously executing subagent invocation: the
// eventual string result, the failure if the executor returned or panicked
// with one, and a done signal pollers select on. It mirrors the background
// process abstraction for non-process work.
//
// A completed result stays readable until the task is forgotten or the
// delegator shuts down; retrieval is idempotent.
type BackgroundTask struct {
	cancel context.CancelFunc

	once   sync.Once
	done   chan struct{}
	result string
	err    error
}

func newBackgroundTask(cancel context.CancelFunc) *BackgroundTask {
	return &BackgroundTask{
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// run invokes fn and records its outcome. A panicking executor completes the
// task exceptionally instead of crashing the host.
func (t *BackgroundTask) run(ctx context.Context, fn func(ctx context.Context) (string, error)) {
	defer func() {
		if r := recover(); r != nil {
			t.complete("", fmt.Errorf("subagent executor panic: %v", r))
		}
	}()
	result, err := fn(ctx)
	t.complete(result, err)
}

func (t *BackgroundTask) complete(result string, err error) {
	t.once.Do(func() {
		t.result = result
		t.err = err
		close(t.done)
	})
}

// Completed reports whether the task has finished, successfully or not.
func (t *BackgroundTask) Completed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Status returns the task's current lifecycle state.
func (t *BackgroundTask) Status() TaskStatus {
	if !t.Completed() {
		return TaskStatusRunning
	}
	if t.err != nil {
		return TaskStatusFailed
	}
	return TaskStatusCompleted
}

// Result returns the outcome. ok is false while the task is still running.
// Reading a completed result is repeatable and content-stable.
func (t *BackgroundTask) Result() (result string, err error, ok bool) {
	if !t.Completed() {
		return "", nil, false
	}
	return t.result, t.err, true
}

// Wait blocks until the task completes, the bound elapses, or ctx ends,
// whichever is first. It reports whether the task had completed by then.
func (t *BackgroundTask) Wait(ctx context.Context, bound time.Duration) bool {
	timer := time.NewTimer(bound)
	defer timer.Stop()
	select {
	case <-t.done:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return t.Completed()
	}
}
