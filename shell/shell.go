// Package shell runs OS commands for an LLM agent, either synchronously with
// a wall-clock timeout or in the background behind an opaque handle that
// supports incremental output polling and termination.
package shell

import (
	"fmt"
	"strings"
)

const (
	// DefaultTimeoutMillis bounds synchronous runs when no timeout is given.
	DefaultTimeoutMillis = 120_000
	// MaxTimeoutMillis is the hard ceiling; larger values are silently clamped.
	MaxTimeoutMillis = 600_000
	// MaxOutputChars caps formatted result output; the tail is dropped and a
	// truncation marker appended.
	MaxOutputChars = 30_000
)

// Status describes the lifecycle state of a background process.
type Status string

const (
	StatusRunning   Status = "Running"
	StatusCompleted Status = "Completed"
	StatusKilled    Status = "Killed"
)

// Request describes one command execution.
type Request struct {
	// Command is passed to the platform shell (/bin/bash -c, cmd.exe /c).
	Command string
	// TimeoutMillis bounds synchronous execution. Zero means
	// DefaultTimeoutMillis; values above MaxTimeoutMillis are clamped.
	// Ignored for background runs.
	TimeoutMillis int
	// WorkDir is the working directory for the child. Empty inherits the
	// caller's.
	WorkDir string
	// Env holds extra environment variables appended to the caller's.
	Env map[string]string
	// UsePTY runs the command on a pseudo-terminal. Stdout and stderr are
	// merged by the terminal, so the result carries a single output section.
	// Falls back to pipe capture when no PTY can be allocated.
	UsePTY bool
}

func clampTimeout(millis int) int {
	if millis <= 0 {
		return DefaultTimeoutMillis
	}
	if millis > MaxTimeoutMillis {
		return MaxTimeoutMillis
	}
	return millis
}

// Result is the outcome of a synchronous run or a background launch.
type Result struct {
	BashID        string
	Stdout        string
	Stderr        string
	ExitCode      int
	TimedOut      bool
	TimeoutMillis int
	// Background is set when the result announces a background launch
	// rather than reporting completed output.
	Background bool
	// SpawnError is set when the process could not be started at all.
	SpawnError string
	// Canceled is set when the caller's context ended before the process.
	Canceled bool
}

// String renders the result in the stable wire format consumed by the
// agent: a "bash_id:" header, stdout, a STDERR section only when stderr is
// non-empty, an "Exit code: N" line only when N is non-zero, or a timeout
// notice. Output beyond MaxOutputChars is head-truncated with a marker.
func (r *Result) String() string {
	if r.SpawnError != "" {
		return "Error executing command: " + r.SpawnError
	}

	header := "bash_id: " + r.BashID + "\n\n"

	if r.Background {
		return fmt.Sprintf(
			"bash_id: %s\n\nBackground shell started with ID: %s\nUse BashOutput tool with bash_id='%s' to retrieve output.",
			r.BashID, r.BashID, r.BashID)
	}
	if r.TimedOut {
		return header + fmt.Sprintf("Command timed out after %dms", r.TimeoutMillis)
	}
	if r.Canceled {
		return header + "Command execution interrupted"
	}

	var b strings.Builder
	b.WriteString(header)

	if r.Stdout != "" {
		b.WriteString(r.Stdout)
	}
	if r.Stderr != "" {
		if b.Len() > len(header) {
			b.WriteString("\n")
		}
		b.WriteString("STDERR:\n")
		b.WriteString(r.Stderr)
	}
	if r.ExitCode != 0 {
		if b.Len() > len(header) {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Exit code: %d", r.ExitCode)
	}

	out := b.String()
	if len(out) > MaxOutputChars {
		// Keep the header and the head of the content; the cut is
		// deterministic so callers can assert exact boundaries.
		content := out[len(header):]
		content = content[:MaxOutputChars-len(header)]
		out = header + content + "\n... (output truncated)"
	}
	return out
}

// PollResult is a snapshot of new output from a background process.
type PollResult struct {
	BashID   string
	Status   Status
	ExitCode int
	// HasExitCode reports whether ExitCode is meaningful yet.
	HasExitCode bool
	// Output holds the labeled new output since the previous poll, empty
	// when nothing new arrived.
	Output   string
	NotFound bool
	// FilterError is set when the supplied regex filter does not compile.
	FilterError string
}

// String renders the poll snapshot: shell ID, status, exit code when known,
// and either the new output or an explicit no-new-output line.
func (p *PollResult) String() string {
	if p.NotFound {
		return "Error: No background shell found with ID: " + p.BashID
	}
	if p.FilterError != "" {
		return "Error: invalid filter regex: " + p.FilterError
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Shell ID: %s\n", p.BashID)
	fmt.Fprintf(&b, "Status: %s\n", p.Status)
	if p.HasExitCode {
		fmt.Fprintf(&b, "Exit code: %d\n", p.ExitCode)
	}
	if p.Output != "" {
		b.WriteString("\nNew output:\n")
		b.WriteString(p.Output)
	} else {
		b.WriteString("\nNo new output since last check.")
	}
	return b.String()
}

// KillOutcome discriminates the three possible results of a kill request.
type KillOutcome int

const (
	// KillOutcomeKilled means a running process was terminated and removed.
	KillOutcomeKilled KillOutcome = iota
	// KillOutcomeAlreadyTerminated means the process had already finished;
	// the entry was removed but nothing was signaled.
	KillOutcomeAlreadyTerminated
	// KillOutcomeNotFound means the handle is unknown.
	KillOutcomeNotFound
)

// KillResult reports the outcome of a kill request.
type KillResult struct {
	BashID  string
	Outcome KillOutcome
}

func (k *KillResult) String() string {
	switch k.Outcome {
	case KillOutcomeAlreadyTerminated:
		return fmt.Sprintf("Shell %s was already terminated. Removed from active shells.", k.BashID)
	case KillOutcomeNotFound:
		return "Error: No background shell found with ID: " + k.BashID
	default:
		return "Successfully killed shell: " + k.BashID
	}
}
