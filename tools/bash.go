package tools

import (
	"context"

	agentutils "github.com/spring-ai-community/agent-utils-go"
	"github.com/spring-ai-community/agent-utils-go/shell"
)

// BashInput defines the input for the Bash tool.
type BashInput struct {
	Command         string `json:"command" jsonschema:"required,description=The command to execute"`
	Description     string `json:"description,omitempty" jsonschema:"description=Clear concise description of what this command does in 5-10 words"`
	Timeout         *int   `json:"timeout,omitempty" jsonschema:"description=Optional timeout in milliseconds (max 600000)"`
	RunInBackground bool   `json:"run_in_background,omitempty" jsonschema:"description=Set to true to run this command in the background. Use BashOutput to read the output later"`
}

// BashTool executes shell commands, synchronously with a timeout or in the
// background behind a handle the BashOutput and KillShell tools accept.
type BashTool struct {
	Executor *shell.Executor
}

var _ agentutils.Tool[BashInput] = (*BashTool)(nil)

func (t *BashTool) Name() string { return "Bash" }
func (t *BashTool) Description() string {
	return "Execute a bash command with optional timeout, or start it in the background and monitor it with BashOutput"
}

func (t *BashTool) Execute(ctx context.Context, input BashInput) (*agentutils.ToolResult, error) {
	if input.Command == "" {
		return agentutils.ErrorResult("command is required"), nil
	}

	req := shell.Request{
		Command: input.Command,
		WorkDir: agentutils.ContextWorkDir(ctx),
		Env:     agentutils.ContextEnv(ctx),
	}
	if input.Timeout != nil {
		req.TimeoutMillis = *input.Timeout
	}

	if input.RunInBackground {
		return shellResult(t.Executor.RunBackground(req)), nil
	}
	return shellResult(t.Executor.Run(ctx, req)), nil
}

// shellResult maps a shell result onto a tool result, flagging spawn
// failures and timeouts as errors the agent can react to.
func shellResult(res *shell.Result) *agentutils.ToolResult {
	if res.SpawnError != "" || res.TimedOut || res.Canceled {
		return agentutils.ErrorResult(res.String())
	}
	out := agentutils.TextResult(res.String())
	out.Metadata = map[string]any{"bash_id": res.BashID}
	if !res.Background {
		out.Metadata["exit_code"] = res.ExitCode
		if res.ExitCode != 0 {
			out.IsError = true
		}
	}
	return out
}
