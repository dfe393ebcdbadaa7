package tools

import (
	"context"
	"path/filepath"

	agentutils "github.com/spring-ai-community/agent-utils-go"
)

// resolvePath resolves a file path against the working directory from context.
// If the path is already absolute, it is returned as-is.
// If the context has no working directory, the path is returned as-is.
func resolvePath(ctx context.Context, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if dir := agentutils.ContextWorkDir(ctx); dir != "" {
		return filepath.Join(dir, path)
	}
	return path
}
