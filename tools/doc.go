// Package tools exposes the library as LLM tool functions: shell execution
// with background handles (Bash, BashOutput, KillShell), subagent delegation
// (Task, TaskOutput), file access (Read, Write, Edit), search (Glob, Grep),
// todo tracking (TodoWrite), and user prompting (AskUserQuestion).
//
// Each tool is an input struct with jsonschema tags plus an Execute method;
// RegisterAll wires the set into a ToolRegistry against the host's shell
// executor and task delegator.
package tools
