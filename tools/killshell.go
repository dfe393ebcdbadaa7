package tools

import (
	"context"

	agentutils "github.com/spring-ai-community/agent-utils-go"
	"github.com/spring-ai-community/agent-utils-go/shell"
)

// KillShellInput defines the input for the KillShell tool.
type KillShellInput struct {
	BashID string `json:"bash_id" jsonschema:"required,description=The ID of the background shell to kill"`
}

// KillShellTool terminates a background shell by its ID.
type KillShellTool struct {
	Executor *shell.Executor
}

var _ agentutils.Tool[KillShellInput] = (*KillShellTool)(nil)

func (t *KillShellTool) Name() string { return "KillShell" }
func (t *KillShellTool) Description() string {
	return "Kill a running background shell by its ID"
}

func (t *KillShellTool) Execute(_ context.Context, input KillShellInput) (*agentutils.ToolResult, error) {
	if input.BashID == "" {
		return agentutils.ErrorResult("bash_id is required"), nil
	}

	res := t.Executor.Kill(input.BashID)
	if res.Outcome == shell.KillOutcomeNotFound {
		return agentutils.ErrorResult(res.String()), nil
	}
	return agentutils.TextResult(res.String()), nil
}
