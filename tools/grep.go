package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	agentutils "github.com/spring-ai-community/agent-utils-go"
)

const maxGrepOutputBytes = 100 * 1024

// GrepInput defines the input for the Grep tool.
type GrepInput struct {
	Pattern         string `json:"pattern" jsonschema:"required,description=The regex pattern to search for"`
	Path            string `json:"path,omitempty" jsonschema:"description=File or directory to search in"`
	OutputMode      string `json:"output_mode,omitempty" jsonschema:"description=Output mode: content or files_with_matches or count"`
	Glob            string `json:"glob,omitempty" jsonschema:"description=Glob pattern to filter files"`
	Type            string `json:"type,omitempty" jsonschema:"description=File type to search (e.g. go or py or js)"`
	Context         *int   `json:"context,omitempty" jsonschema:"description=Lines of context around matches"`
	CaseInsensitive bool   `json:"case_insensitive,omitempty" jsonschema:"description=Case insensitive search"`
}

// GrepTool searches file contents using ripgrep.
type GrepTool struct{}

var _ agentutils.Tool[GrepInput] = (*GrepTool)(nil)

func (t *GrepTool) Name() string        { return "Grep" }
func (t *GrepTool) Description() string { return "Search file contents using regex patterns" }

func (t *GrepTool) Execute(ctx context.Context, input GrepInput) (*agentutils.ToolResult, error) {
	if input.Pattern == "" {
		return agentutils.ErrorResult("pattern is required"), nil
	}

	rgPath, err := exec.LookPath("rg")
	if err != nil {
		return agentutils.ErrorResult("ripgrep (rg) is not installed. Install it with: brew install ripgrep (macOS) or apt install ripgrep (Linux)"), nil
	}

	args := buildRgArgs(input)

	cmd := exec.CommandContext(ctx, rgPath, args...)
	cmd.Dir = searchDir(ctx, input.Path)

	output, err := cmd.CombinedOutput()
	text := string(output)

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			// rg exit code 1 = no matches (not an error)
			if exitErr.ExitCode() == 1 {
				return agentutils.TextResult("No matches found."), nil
			}
			// rg exit code 2 = error
			return agentutils.ErrorResult(fmt.Sprintf("rg error: %s", text)), nil
		}
		return agentutils.ErrorResult(fmt.Sprintf("failed to run rg: %s", err.Error())), nil
	}

	if len(text) > maxGrepOutputBytes {
		text = text[:maxGrepOutputBytes] + "\n... [output truncated]"
	}

	return agentutils.TextResult(text), nil
}

func buildRgArgs(input GrepInput) []string {
	var args []string

	switch input.OutputMode {
	case "content":
		args = append(args, "-n") // show line numbers
	case "count":
		args = append(args, "-c")
	case "files_with_matches", "":
		args = append(args, "-l")
	}

	if input.CaseInsensitive {
		args = append(args, "-i")
	}

	if input.Glob != "" {
		args = append(args, "--glob", input.Glob)
	}

	if input.Type != "" {
		args = append(args, "--type", input.Type)
	}

	if input.Context != nil && *input.Context > 0 {
		args = append(args, "-C", fmt.Sprintf("%d", *input.Context))
	}

	args = append(args, input.Pattern)

	if input.Path != "" {
		args = append(args, input.Path)
	}

	return args
}

func searchDir(ctx context.Context, path string) string {
	if path != "" {
		return ""
	}
	if dir := agentutils.ContextWorkDir(ctx); dir != "" {
		return dir
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
