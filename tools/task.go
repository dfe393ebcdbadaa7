package tools

import (
	"context"
	"errors"
	"fmt"

	agentutils "github.com/spring-ai-community/agent-utils-go"
	"github.com/spring-ai-community/agent-utils-go/subagent"
)

const taskDescriptionTemplate = `Launch a specialized agent to handle a complex, multi-step task autonomously.

Available agent types:
%s

Specify a subagent_type parameter to select which agent type to use, and provide a clear, detailed prompt so the agent can work autonomously and return exactly the information you need. Include a short description (3-5 words) summarizing what the agent will do.

You can optionally run agents in the background using the run_in_background parameter. The Task tool then returns a task_id immediately; use the TaskOutput tool with this task_id to check status and retrieve results while you continue working. Agents can be resumed by passing the agent ID from a previous invocation as the resume parameter; the agent continues with its previous context preserved.`

// TaskTool delegates a task to a named subagent, synchronously or in the
// background.
type TaskTool struct {
	Delegator *subagent.Delegator
}

var _ agentutils.Tool[subagent.TaskCall] = (*TaskTool)(nil)

func (t *TaskTool) Name() string { return "Task" }

// Description embeds the registration listing of every resolved subagent so
// the model knows what it can delegate to.
func (t *TaskTool) Description() string {
	return fmt.Sprintf(taskDescriptionTemplate, t.Delegator.Registry().Registrations())
}

func (t *TaskTool) Execute(ctx context.Context, input subagent.TaskCall) (*agentutils.ToolResult, error) {
	if input.Prompt == "" {
		return agentutils.ErrorResult("prompt is required"), nil
	}
	if input.SubagentType == "" {
		return agentutils.ErrorResult("subagent_type is required"), nil
	}

	response, err := t.Delegator.Delegate(ctx, input)
	if err != nil {
		// Unknown subagent and missing executor are configuration errors;
		// executor failures are task outcomes. Both come back as result
		// text the agent can react to.
		if errors.Is(err, subagent.ErrUnknownSubagent) || errors.Is(err, subagent.ErrNoExecutor) {
			return agentutils.ErrorResult(err.Error()), nil
		}
		return agentutils.ErrorResult(fmt.Sprintf("subagent failed: %s", err.Error())), nil
	}
	return agentutils.TextResult(response), nil
}
