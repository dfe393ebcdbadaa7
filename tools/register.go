package tools

import (
	agentutils "github.com/spring-ai-community/agent-utils-go"
	"github.com/spring-ai-community/agent-utils-go/shell"
	"github.com/spring-ai-community/agent-utils-go/subagent"
)

// Config holds the shared dependencies the tools are wired against. Nil
// fields disable the tools that need them: without a Shell executor the Bash
// family is skipped, without a Delegator the Task family is skipped, and
// AskUserQuestion is only registered when a callback is provided.
type Config struct {
	Shell     *shell.Executor
	Delegator *subagent.Delegator
	Ask       AskCallback
}

// RegisterAll registers the built-in tools into the provided registry.
func RegisterAll(registry *agentutils.ToolRegistry, cfg Config) {
	agentutils.RegisterTool(registry, &ReadTool{})
	agentutils.RegisterTool(registry, &WriteTool{})
	agentutils.RegisterTool(registry, &EditTool{})
	agentutils.RegisterTool(registry, &GlobTool{})
	agentutils.RegisterTool(registry, &GrepTool{})
	agentutils.RegisterTool(registry, &TodoTool{})

	if cfg.Shell != nil {
		agentutils.RegisterTool(registry, &BashTool{Executor: cfg.Shell})
		agentutils.RegisterTool(registry, &BashOutputTool{Executor: cfg.Shell})
		agentutils.RegisterTool(registry, &KillShellTool{Executor: cfg.Shell})
	}

	if cfg.Delegator != nil {
		agentutils.RegisterTool(registry, &TaskTool{Delegator: cfg.Delegator})
		agentutils.RegisterTool(registry, &TaskOutputTool{Delegator: cfg.Delegator})
	}

	if cfg.Ask != nil {
		agentutils.RegisterTool(registry, &AskTool{Callback: cfg.Ask})
	}
}
