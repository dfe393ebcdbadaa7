package tools

import (
	"context"

	agentutils "github.com/spring-ai-community/agent-utils-go"
	"github.com/spring-ai-community/agent-utils-go/shell"
)

// BashOutputInput defines the input for the BashOutput tool.
type BashOutputInput struct {
	BashID string `json:"bash_id" jsonschema:"required,description=The ID of the background shell to retrieve output from"`
	Filter string `json:"filter,omitempty" jsonschema:"description=Optional regular expression to filter the output lines. Lines that do not match are consumed and will not be available to read later"`
}

// BashOutputTool retrieves new output from a running or completed background
// shell. Each call returns only output appended since the previous call.
type BashOutputTool struct {
	Executor *shell.Executor
}

var _ agentutils.Tool[BashOutputInput] = (*BashOutputTool)(nil)

func (t *BashOutputTool) Name() string { return "BashOutput" }
func (t *BashOutputTool) Description() string {
	return "Retrieve new output from a running or completed background shell"
}

func (t *BashOutputTool) Execute(_ context.Context, input BashOutputInput) (*agentutils.ToolResult, error) {
	if input.BashID == "" {
		return agentutils.ErrorResult("bash_id is required"), nil
	}

	res := t.Executor.Poll(input.BashID, input.Filter)
	if res.NotFound || res.FilterError != "" {
		return agentutils.ErrorResult(res.String()), nil
	}
	return agentutils.TextResult(res.String()), nil
}
