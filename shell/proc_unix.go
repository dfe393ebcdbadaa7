//go:build !windows

package shell

import (
	"context"
	"os/exec"
	"syscall"
)

// newShellCommand builds the platform shell invocation for a command string.
func newShellCommand(command string) *exec.Cmd {
	return exec.Command("/bin/bash", "-c", command)
}

func newShellCommandContext(ctx context.Context, command string) *exec.Cmd {
	return exec.CommandContext(ctx, "/bin/bash", "-c", command)
}

// setProcessGroup puts the child in its own process group so a kill reaches
// any grandchildren the shell spawned.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalTerm requests a graceful exit from the child's process group.
func signalTerm(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	pid := cmd.Process.Pid
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		_ = syscall.Kill(pid, syscall.SIGTERM)
	}
}

// killProcessGroup force-kills the child's process group, then the child
// itself in case it escaped the group.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	pid := cmd.Process.Pid
	_ = syscall.Kill(-pid, syscall.SIGKILL)
	_ = syscall.Kill(pid, syscall.SIGKILL)
}
