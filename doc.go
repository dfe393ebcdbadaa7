// Package agentutils provides the tool-side building blocks for LLM agents:
// file and search tools, shell execution with background handles, structured
// todo tracking, and task delegation to named subagents.
//
// Two subsystems carry the real machinery. The [shell] subpackage runs OS
// commands synchronously with a timeout or in the background behind an opaque
// handle that supports incremental output polling and termination. The
// [subagent] subpackage resolves named subagent definitions through pluggable
// per-kind resolvers and delegates tasks to the matching executor, reusing the
// same handle/poll contract for background runs.
//
// Both subsystems share [HandleRegistry], a concurrent store that allocates
// process-unique handles such as "shell_1" and "task_3".
//
// The [tools] subpackage wraps everything as LLM tool functions with
// JSON-schema inputs:
//
//	registry := agentutils.NewToolRegistry()
//	tools.RegisterAll(registry, tools.Config{
//	    Shell: shell.NewExecutor(),
//	})
//
// The chat loop that invokes these tools is deliberately out of scope; hosts
// bring their own and consume the registry via [ToolRegistry.ListForAPI] and
// [ToolRegistry.Execute].
package agentutils
