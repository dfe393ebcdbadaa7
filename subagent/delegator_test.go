package subagent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDelegator(t *testing.T, exec *fakeExecutor) *Delegator {
	t.Helper()
	types := []Type{{Resolver: &fakeResolver{kind: exec.kind}, Executor: exec}}
	registry, err := BuildRegistry([]Reference{
		{URI: "worker", Kind: exec.kind},
	}, types)
	require.NoError(t, err)

	d, err := NewDelegator(registry, types)
	require.NoError(t, err)
	t.Cleanup(d.Shutdown)
	return d
}

func TestNewDelegator_DuplicateKind(t *testing.T) {
	registry, err := BuildRegistry(nil, []Type{fakeType("FAKE")})
	require.NoError(t, err)

	_, err = NewDelegator(registry, []Type{fakeType("FAKE"), fakeType("FAKE")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateKind)
}

func TestDelegator_Delegate_Sync(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE"}
	d := newTestDelegator(t, exec)

	out, err := d.Delegate(context.Background(), TaskCall{
		Prompt:       "summarize the log",
		SubagentType: "worker",
	})
	require.NoError(t, err)
	assert.Equal(t, `worker handled "summarize the log"`, out)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, "summarize the log", exec.calls[0].Prompt)
}

func TestDelegator_Delegate_UnknownSubagent(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE"}
	d := newTestDelegator(t, exec)

	_, err := d.Delegate(context.Background(), TaskCall{
		Prompt:       "anything",
		SubagentType: "missing",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSubagent)
	assert.Contains(t, err.Error(), `"missing"`)
	assert.Contains(t, err.Error(), "worker")
	// Nothing was executed and no handle was issued.
	assert.Empty(t, exec.calls)
	assert.Empty(t, d.Handles())
}

func TestDelegator_Delegate_NoExecutorForKind(t *testing.T) {
	// Registry resolved a FAKE definition, but the delegator only knows
	// OTHER.
	registry, err := BuildRegistry([]Reference{
		{URI: "worker", Kind: "FAKE"},
	}, []Type{fakeType("FAKE")})
	require.NoError(t, err)

	d, err := NewDelegator(registry, []Type{fakeType("OTHER")})
	require.NoError(t, err)

	_, err = d.Delegate(context.Background(), TaskCall{
		Prompt:       "anything",
		SubagentType: "worker",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoExecutor)
	assert.Contains(t, err.Error(), "FAKE")
}

func TestDelegator_Delegate_SyncErrorPassthrough(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE", err: fmt.Errorf("model unavailable")}
	d := newTestDelegator(t, exec)

	_, err := d.Delegate(context.Background(), TaskCall{
		Prompt:       "anything",
		SubagentType: "worker",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestDelegator_Delegate_Background(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE", response: "all done"}
	d := newTestDelegator(t, exec)

	out, err := d.Delegate(context.Background(), TaskCall{
		Prompt:          "long job",
		SubagentType:    "worker",
		RunInBackground: true,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "task_id: task_1")
	assert.Contains(t, out, "Background task started with ID: task_1")
	assert.Contains(t, out, "task_id='task_1'")

	res := d.WaitResult(context.Background(), "task_1", 5000)
	assert.Equal(t, TaskStatusCompleted, res.Status)
	assert.Equal(t, "all done", res.Output)

	rendered := res.String()
	assert.Contains(t, rendered, "Task ID: task_1")
	assert.Contains(t, rendered, "Status: Completed")
	assert.Contains(t, rendered, "Result:\nall done")
}

func TestDelegator_Result_StillRunning(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE", block: make(chan struct{})}
	d := newTestDelegator(t, exec)

	_, err := d.Delegate(context.Background(), TaskCall{
		Prompt:          "blocked job",
		SubagentType:    "worker",
		RunInBackground: true,
	})
	require.NoError(t, err)

	res := d.Result("task_1")
	assert.Equal(t, TaskStatusRunning, res.Status)
	assert.Contains(t, res.String(), "Task still running...")

	close(exec.block)
	final := d.WaitResult(context.Background(), "task_1", 5000)
	assert.Equal(t, TaskStatusCompleted, final.Status)
}

func TestDelegator_Result_Idempotent(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE", response: "stable"}
	d := newTestDelegator(t, exec)

	_, err := d.Delegate(context.Background(), TaskCall{
		Prompt:          "job",
		SubagentType:    "worker",
		RunInBackground: true,
	})
	require.NoError(t, err)

	first := d.WaitResult(context.Background(), "task_1", 5000)
	require.Equal(t, TaskStatusCompleted, first.Status)

	for i := 0; i < 3; i++ {
		again := d.Result("task_1")
		assert.Equal(t, TaskStatusCompleted, again.Status)
		assert.Equal(t, "stable", again.Output)
	}
}

func TestDelegator_Result_NotFound(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE"}
	d := newTestDelegator(t, exec)

	res := d.Result("task_404")
	assert.True(t, res.NotFound)
	assert.Equal(t, "Error: No background task found with ID: task_404", res.String())
}

func TestDelegator_Background_ExecutorError(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE", err: fmt.Errorf("model unavailable")}
	d := newTestDelegator(t, exec)

	_, err := d.Delegate(context.Background(), TaskCall{
		Prompt:          "job",
		SubagentType:    "worker",
		RunInBackground: true,
	})
	require.NoError(t, err)

	res := d.WaitResult(context.Background(), "task_1", 5000)
	assert.Equal(t, TaskStatusFailed, res.Status)
	assert.Contains(t, res.Err, "model unavailable")
	assert.Contains(t, res.String(), "Error:\n")
}

func TestDelegator_Background_ExecutorPanic(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE", panics: true}
	d := newTestDelegator(t, exec)

	_, err := d.Delegate(context.Background(), TaskCall{
		Prompt:          "job",
		SubagentType:    "worker",
		RunInBackground: true,
	})
	require.NoError(t, err)

	res := d.WaitResult(context.Background(), "task_1", 5000)
	assert.Equal(t, TaskStatusFailed, res.Status)
	assert.Contains(t, res.Err, "panic")
}

func TestDelegator_Background_SurvivesCallerContext(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE", response: "finished anyway"}
	d := newTestDelegator(t, exec)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := d.Delegate(ctx, TaskCall{
		Prompt:          "job",
		SubagentType:    "worker",
		RunInBackground: true,
	})
	require.NoError(t, err)
	cancel()

	res := d.WaitResult(context.Background(), "task_1", 5000)
	assert.Equal(t, TaskStatusCompleted, res.Status)
	assert.Equal(t, "finished anyway", res.Output)
}

func TestDelegator_WaitResult_BoundElapses(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE", block: make(chan struct{})}
	d := newTestDelegator(t, exec)

	_, err := d.Delegate(context.Background(), TaskCall{
		Prompt:          "job",
		SubagentType:    "worker",
		RunInBackground: true,
	})
	require.NoError(t, err)

	start := time.Now()
	res := d.WaitResult(context.Background(), "task_1", 100)
	assert.Equal(t, TaskStatusRunning, res.Status)
	assert.Less(t, time.Since(start), 5*time.Second)

	close(exec.block)
}

func TestDelegator_Forget(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE", block: make(chan struct{})}
	d := newTestDelegator(t, exec)

	_, err := d.Delegate(context.Background(), TaskCall{
		Prompt:          "job",
		SubagentType:    "worker",
		RunInBackground: true,
	})
	require.NoError(t, err)
	require.Len(t, d.Handles(), 1)

	assert.True(t, d.Forget("task_1"))
	assert.Empty(t, d.Handles())
	assert.True(t, d.Result("task_1").NotFound)

	assert.False(t, d.Forget("task_1"))
}

func TestDelegator_Shutdown(t *testing.T) {
	exec := &fakeExecutor{kind: "FAKE", block: make(chan struct{})}
	d := newTestDelegator(t, exec)

	for i := 0; i < 3; i++ {
		_, err := d.Delegate(context.Background(), TaskCall{
			Prompt:          "job",
			SubagentType:    "worker",
			RunInBackground: true,
		})
		require.NoError(t, err)
	}
	require.Len(t, d.Handles(), 3)

	d.Shutdown()
	assert.Empty(t, d.Handles())
}
