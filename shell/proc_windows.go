//go:build windows

package shell

import (
	"context"
	"os/exec"
)

// newShellCommand builds the platform shell invocation for a command string.
func newShellCommand(command string) *exec.Cmd {
	return exec.Command("cmd.exe", "/c", command)
}

func newShellCommandContext(ctx context.Context, command string) *exec.Cmd {
	return exec.CommandContext(ctx, "cmd.exe", "/c", command)
}

func setProcessGroup(_ *exec.Cmd) {}

// Windows has no graceful termination signal for console children; both
// paths fall back to a hard kill.
func signalTerm(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
