package shell

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sync/errgroup"

	agentutils "github.com/spring-ai-community/agent-utils-go"
)

// Executor runs shell commands. Synchronous runs block up to their timeout;
// background runs return a handle immediately and are polled through the
// executor's handle registry.
//
// The zero value is not usable; construct with NewExecutor. The host owns the
// lifecycle and should call Shutdown when done so no child processes outlive
// the agent session.
type Executor struct {
	procs *agentutils.HandleRegistry[*BackgroundProcess]
}

// NewExecutor creates an Executor with an empty background-process registry.
func NewExecutor() *Executor {
	return &Executor{
		procs: agentutils.NewHandleRegistry[*BackgroundProcess](agentutils.PrefixShell),
	}
}

// Run executes the command synchronously and blocks until it exits or the
// timeout elapses. On timeout the process is terminated (graceful first,
// forced after a grace period) and the result reports the timeout instead of
// partial output. Spawn failures are reported in the result, never returned
// as an error: the calling agent must see a failed command the same way it
// sees any other output.
func (e *Executor) Run(ctx context.Context, req Request) *Result {
	id := e.procs.NextHandle()
	timeoutMillis := clampTimeout(req.TimeoutMillis)

	if req.UsePTY {
		if res, ok := e.runPTY(ctx, id, req, timeoutMillis); ok {
			return res
		}
		// No PTY available; fall through to pipe capture.
	}
	return e.runPipes(ctx, id, req, timeoutMillis)
}

func (e *Executor) runPipes(ctx context.Context, id string, req Request, timeoutMillis int) *Result {
	cmd := newShellCommand(req.Command)
	cmd.Dir = req.WorkDir
	cmd.Env = mergedEnv(req.Env)
	setProcessGroup(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return &Result{BashID: id, SpawnError: err.Error()}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return &Result{BashID: id, SpawnError: err.Error()}
	}

	if err := cmd.Start(); err != nil {
		return &Result{BashID: id, SpawnError: err.Error()}
	}

	var stdout, stderr strings.Builder
	var g errgroup.Group
	g.Go(func() error { return readLines(stdoutPipe, &stdout) })
	g.Go(func() error { return readLines(stderrPipe, &stderr) })

	// Readers must drain the pipes before Wait closes them.
	waitCh := make(chan error, 1)
	go func() {
		_ = g.Wait()
		waitCh <- cmd.Wait()
	}()

	timer := time.NewTimer(time.Duration(timeoutMillis) * time.Millisecond)
	defer timer.Stop()

	select {
	case waitErr := <-waitCh:
		return &Result{
			BashID:   id,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: exitCodeOf(waitErr),
		}
	case <-timer.C:
		terminate(cmd, waitCh)
		return &Result{BashID: id, TimedOut: true, TimeoutMillis: timeoutMillis}
	case <-ctx.Done():
		terminate(cmd, waitCh)
		return &Result{BashID: id, Canceled: true}
	}
}

// runPTY executes the command on a pseudo-terminal, the capture mode used
// for commands that refuse to produce output without one. The terminal
// merges stdout and stderr, so the result carries only a stdout section.
// Returns ok=false when no PTY could be allocated.
func (e *Executor) runPTY(ctx context.Context, id string, req Request, timeoutMillis int) (*Result, bool) {
	cmdCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMillis)*time.Millisecond)
	defer cancel()

	cmd := newShellCommandContext(cmdCtx, req.Command)
	cmd.Dir = req.WorkDir
	cmd.Env = mergedEnv(req.Env)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, false
	}
	defer ptmx.Close()

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, ptmx) // PTY read returns EIO on child exit

	waitErr := cmd.Wait()

	if cmdCtx.Err() == context.DeadlineExceeded {
		return &Result{BashID: id, TimedOut: true, TimeoutMillis: timeoutMillis}, true
	}
	if ctx.Err() != nil {
		return &Result{BashID: id, Canceled: true}, true
	}
	return &Result{
		BashID:   id,
		Stdout:   buf.String(),
		ExitCode: exitCodeOf(waitErr),
	}, true
}

// RunBackground spawns the command without waiting, registers a
// BackgroundProcess and returns a result announcing its handle. The caller
// retrieves output incrementally with Poll and stops the process with Kill.
func (e *Executor) RunBackground(req Request) *Result {
	cmd := newShellCommand(req.Command)
	cmd.Dir = req.WorkDir
	cmd.Env = mergedEnv(req.Env)
	setProcessGroup(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return &Result{SpawnError: err.Error()}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return &Result{SpawnError: err.Error()}
	}

	if err := cmd.Start(); err != nil {
		return &Result{SpawnError: err.Error()}
	}

	bp := newBackgroundProcess(cmd, stdoutPipe, stderrPipe)
	id := e.procs.Register(bp)

	return &Result{BashID: id, Background: true}
}

// Poll returns output appended since the previous Poll on the same handle.
// An optional regex filter keeps only matching lines; the non-matching lines
// of the window are still consumed and never resurface. "No new output" is a
// normal outcome, distinct from an unknown handle.
func (e *Executor) Poll(handle, filter string) *PollResult {
	bp, ok := e.procs.Get(handle)
	if !ok {
		return &PollResult{BashID: handle, NotFound: true}
	}

	output, err := bp.nextOutput(filter)
	if err != nil {
		return &PollResult{BashID: handle, FilterError: err.Error()}
	}

	status, exitCode, hasExit := bp.state()
	return &PollResult{
		BashID:      handle,
		Status:      status,
		ExitCode:    exitCode,
		HasExitCode: hasExit,
		Output:      output,
	}
}

// Kill terminates the background process behind handle. A running process is
// asked to exit, given a short grace period, then force-killed. A process
// that already finished is reported as such, not as an error. Either way the
// entry is removed from the registry so handle space does not grow without
// bound over a long session.
func (e *Executor) Kill(handle string) *KillResult {
	bp, ok := e.procs.Get(handle)
	if !ok {
		return &KillResult{BashID: handle, Outcome: KillOutcomeNotFound}
	}

	if !bp.alive() {
		e.procs.Remove(handle)
		return &KillResult{BashID: handle, Outcome: KillOutcomeAlreadyTerminated}
	}

	bp.terminate()
	e.procs.Remove(handle)
	return &KillResult{BashID: handle, Outcome: KillOutcomeKilled}
}

// Handles returns the handles of all background processes still registered.
func (e *Executor) Handles() []string {
	return e.procs.Handles()
}

// Shutdown kills every live background process and clears the registry.
func (e *Executor) Shutdown() {
	for _, handle := range e.procs.Handles() {
		e.Kill(handle)
	}
}

// readLines copies one pipe into buf line by line until it closes. Line
// granularity matches the polling contract: watermarks never split a line.
func readLines(r io.Reader, buf *strings.Builder) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		buf.WriteString(scanner.Text())
		buf.WriteString("\n")
	}
	return scanner.Err()
}

// mergedEnv appends extra variables to the caller's environment. Nil extra
// returns nil so exec.Cmd inherits the environment untouched.
func mergedEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil
	}
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}

// exitCodeOf maps a Wait error to an exit code: 0 on success, the child's
// code on normal failure, -1 when the child died without one.
func exitCodeOf(waitErr error) int {
	if waitErr == nil {
		return 0
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// terminate asks a synchronously-run child to exit, waits up to
// killGracePeriod for its reaper, then force-kills the process group.
func terminate(cmd *exec.Cmd, waitCh <-chan error) {
	signalTerm(cmd)
	select {
	case <-waitCh:
		return
	case <-time.After(killGracePeriod):
	}
	killProcessGroup(cmd)
	<-waitCh
}
