package tools

import (
	"context"

	agentutils "github.com/spring-ai-community/agent-utils-go"
	"github.com/spring-ai-community/agent-utils-go/subagent"
)

// TaskOutputInput defines the input for the TaskOutput tool.
type TaskOutputInput struct {
	TaskID  string `json:"task_id" jsonschema:"required,description=The task ID to get output from"`
	Block   bool   `json:"block,omitempty" jsonschema:"description=Set to true to wait for task completion instead of returning the current status"`
	Timeout *int   `json:"timeout,omitempty" jsonschema:"description=Max wait time in milliseconds when blocking (max 600000)"`
}

// TaskOutputTool retrieves the result of a background task. The default is a
// non-blocking status check; block=true waits up to the timeout for
// completion.
type TaskOutputTool struct {
	Delegator *subagent.Delegator
}

var _ agentutils.Tool[TaskOutputInput] = (*TaskOutputTool)(nil)

func (t *TaskOutputTool) Name() string { return "TaskOutput" }
func (t *TaskOutputTool) Description() string {
	return "Retrieve output from a running or completed background task"
}

func (t *TaskOutputTool) Execute(ctx context.Context, input TaskOutputInput) (*agentutils.ToolResult, error) {
	if input.TaskID == "" {
		return agentutils.ErrorResult("task_id is required"), nil
	}

	var res *subagent.TaskResult
	if input.Block {
		bound := 0
		if input.Timeout != nil {
			bound = *input.Timeout
		}
		res = t.Delegator.WaitResult(ctx, input.TaskID, bound)
	} else {
		res = t.Delegator.Result(input.TaskID)
	}

	if res.NotFound {
		return agentutils.ErrorResult(res.String()), nil
	}
	return agentutils.TextResult(res.String()), nil
}
