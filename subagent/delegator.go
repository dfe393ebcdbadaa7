package subagent

import (
	"context"
	"fmt"
	"strings"
	"time"

	agentutils "github.com/spring-ai-community/agent-utils-go"
)

const (
	// DefaultWaitMillis bounds a blocking WaitResult when no bound is given.
	DefaultWaitMillis = 30_000
	// MaxWaitMillis is the ceiling for WaitResult bounds; larger values are
	// silently clamped.
	MaxWaitMillis = 600_000
)

// Delegator executes TaskCalls against resolved subagents, synchronously or
// in the background. Background tasks live in a handle registry and are
// polled with Result; nothing is evicted automatically, so hosts should call
// Forget or Shutdown when a long session would otherwise accumulate handles.
type Delegator struct {
	registry  *Registry
	executors map[string]Executor
	tasks     *agentutils.HandleRegistry[*BackgroundTask]
}

// NewDelegator wires a built registry to the executors of the given types.
// Two types claiming the same kind is a configuration error.
func NewDelegator(registry *Registry, types []Type) (*Delegator, error) {
	if err := checkDistinctKinds(types); err != nil {
		return nil, err
	}

	executors := make(map[string]Executor, len(types))
	for _, t := range types {
		executors[t.Kind()] = t.Executor
	}

	return &Delegator{
		registry:  registry,
		executors: executors,
		tasks:     agentutils.NewHandleRegistry[*BackgroundTask](agentutils.PrefixTask),
	}, nil
}

// Registry returns the delegator's subagent registry.
func (d *Delegator) Registry() *Registry {
	return d.registry
}

// Delegate executes the call against the named subagent.
//
// Resolution failures (unknown subagent name, no executor for the resolved
// kind) are returned as errors before any work starts. A synchronous call
// returns the executor's response directly. A background call submits the
// execution, registers the resulting BackgroundTask and returns a message
// carrying the task handle without waiting.
func (d *Delegator) Delegate(ctx context.Context, call TaskCall) (string, error) {
	def, ok := d.registry.Get(call.SubagentType)
	if !ok {
		return "", fmt.Errorf("%w: %q (known subagents: %s)",
			ErrUnknownSubagent, call.SubagentType, strings.Join(d.registry.Names(), ", "))
	}

	executor, ok := d.executors[def.Kind()]
	if !ok {
		return "", fmt.Errorf("%w: %q (subagent %q)", ErrNoExecutor, def.Kind(), def.Name())
	}

	if !call.RunInBackground {
		return executor.Execute(ctx, call, def)
	}

	// The tool-call context ends when this function returns; the task keeps
	// the caller's values but its own cancellation, released by Shutdown.
	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	task := newBackgroundTask(cancel)
	handle := d.tasks.Register(task)

	go task.run(taskCtx, func(ctx context.Context) (string, error) {
		return executor.Execute(ctx, call, def)
	})

	return fmt.Sprintf(
		"task_id: %s\n\nBackground task started with ID: %s\nUse TaskOutput tool with task_id='%s' to retrieve results.",
		handle, handle, handle), nil
}

// TaskResult is a snapshot of a background task's state.
type TaskResult struct {
	TaskID   string
	Status   TaskStatus
	Output   string
	Err      string
	NotFound bool
}

// String renders the snapshot: task ID, status, and the result text, the
// failure, or an explicit still-running line.
func (r *TaskResult) String() string {
	if r.NotFound {
		return "Error: No background task found with ID: " + r.TaskID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Task ID: %s\n", r.TaskID)
	fmt.Fprintf(&b, "Status: %s\n\n", r.Status)
	switch {
	case r.Status == TaskStatusFailed:
		b.WriteString("Error:\n")
		b.WriteString(r.Err)
	case r.Status == TaskStatusCompleted:
		b.WriteString("Result:\n")
		b.WriteString(r.Output)
	default:
		b.WriteString("Task still running...")
	}
	return b.String()
}

// Result returns the task's current state without blocking: the completed
// result (repeatably), a still-running snapshot, or a not-found outcome for
// a handle that was never issued or has been forgotten.
func (d *Delegator) Result(handle string) *TaskResult {
	task, ok := d.tasks.Get(handle)
	if !ok {
		return &TaskResult{TaskID: handle, NotFound: true}
	}
	return snapshot(handle, task)
}

// WaitResult blocks until the task completes or the bound elapses, then
// returns the same snapshot Result would. A zero boundMillis waits
// DefaultWaitMillis; values above MaxWaitMillis are clamped.
func (d *Delegator) WaitResult(ctx context.Context, handle string, boundMillis int) *TaskResult {
	task, ok := d.tasks.Get(handle)
	if !ok {
		return &TaskResult{TaskID: handle, NotFound: true}
	}

	if boundMillis <= 0 {
		boundMillis = DefaultWaitMillis
	}
	if boundMillis > MaxWaitMillis {
		boundMillis = MaxWaitMillis
	}
	task.Wait(ctx, time.Duration(boundMillis)*time.Millisecond)

	return snapshot(handle, task)
}

func snapshot(handle string, task *BackgroundTask) *TaskResult {
	result, err, ok := task.Result()
	if !ok {
		return &TaskResult{TaskID: handle, Status: TaskStatusRunning}
	}
	if err != nil {
		return &TaskResult{TaskID: handle, Status: TaskStatusFailed, Err: err.Error()}
	}
	return &TaskResult{TaskID: handle, Status: TaskStatusCompleted, Output: result}
}

// Forget removes the task from the registry without waiting for it. The
// underlying execution is canceled; a handle forgotten while running will
// report not-found on later polls.
func (d *Delegator) Forget(handle string) bool {
	task, ok := d.tasks.Get(handle)
	if !ok {
		return false
	}
	task.cancel()
	d.tasks.Remove(handle)
	return true
}

// Handles returns the handles of all registered background tasks.
func (d *Delegator) Handles() []string {
	return d.tasks.Handles()
}

// Shutdown cancels every background task and clears the registry.
func (d *Delegator) Shutdown() {
	for _, handle := range d.tasks.Handles() {
		d.Forget(handle)
	}
}
