package shell

import (
	"bufio"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"
)

// killGracePeriod is how long terminate waits for a voluntary exit after the
// graceful signal before force-killing.
const killGracePeriod = 5 * time.Second

// BackgroundProcess owns one backgrounded OS command: the live process, the
// accumulated stdout/stderr, and per-stream watermarks of what has already
// been delivered to a poller.
//
// Two reader goroutines append output as it arrives and a watcher goroutine
// records the exit. All shared state sits behind mu; polls serialize on it,
// so concurrent pollers each see a disjoint slice of the output and their
// union is the whole of it.
type BackgroundProcess struct {
	cmd *exec.Cmd

	mu         sync.Mutex
	stdout     strings.Builder
	stderr     strings.Builder
	stdoutMark int
	stderrMark int
	status     Status
	exitCode   int
	hasExit    bool

	readers sync.WaitGroup
	done    chan struct{}
}

// newBackgroundProcess wraps an already-started command and begins reading
// its streams. The caller keeps ownership of registration and kill; the
// readers only ever append output.
func newBackgroundProcess(cmd *exec.Cmd, stdout, stderr io.ReadCloser) *BackgroundProcess {
	bp := &BackgroundProcess{
		cmd:    cmd,
		status: StatusRunning,
		done:   make(chan struct{}),
	}

	bp.readers.Add(2)
	go bp.readStream(stdout, &bp.stdout)
	go bp.readStream(stderr, &bp.stderr)
	go bp.watch()

	return bp
}

// readStream appends lines from one pipe into the given buffer until the
// pipe closes.
func (bp *BackgroundProcess) readStream(r io.ReadCloser, buf *strings.Builder) {
	defer bp.readers.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		bp.mu.Lock()
		buf.WriteString(scanner.Text())
		buf.WriteString("\n")
		bp.mu.Unlock()
	}
}

// watch waits for the readers to drain the pipes, reaps the process and
// records its exit. A process killed through terminate keeps StatusKilled.
func (bp *BackgroundProcess) watch() {
	bp.readers.Wait()
	waitErr := bp.cmd.Wait()

	bp.mu.Lock()
	bp.exitCode = exitCodeOf(waitErr)
	bp.hasExit = true
	if bp.status == StatusRunning {
		bp.status = StatusCompleted
	}
	bp.mu.Unlock()

	close(bp.done)
}

// alive reports whether the process is still running.
func (bp *BackgroundProcess) alive() bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.status == StatusRunning
}

// state returns the current status and the exit code, if known.
func (bp *BackgroundProcess) state() (Status, int, bool) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.status, bp.exitCode, bp.hasExit
}

// nextOutput returns the labeled output accumulated since the previous call
// and advances both watermarks to the end of the buffers. When a filter is
// given, only matching lines of the new window are returned, but the whole
// window counts as delivered: a line skipped by the filter is never
// revisited.
func (bp *BackgroundProcess) nextOutput(filter string) (string, error) {
	var pattern *regexp.Regexp
	if filter != "" {
		var err error
		pattern, err = regexp.Compile(filter)
		if err != nil {
			return "", err
		}
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	var b strings.Builder

	newStdout := bp.stdout.String()[bp.stdoutMark:]
	bp.stdoutMark = bp.stdout.Len()
	if pattern != nil {
		newStdout = filterLines(newStdout, pattern)
	}
	if newStdout != "" {
		b.WriteString("STDOUT:\n")
		b.WriteString(newStdout)
	}

	newStderr := bp.stderr.String()[bp.stderrMark:]
	bp.stderrMark = bp.stderr.Len()
	if pattern != nil {
		newStderr = filterLines(newStderr, pattern)
	}
	if newStderr != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("STDERR:\n")
		b.WriteString(newStderr)
	}

	return b.String(), nil
}

// filterLines keeps only the lines matching pattern, each with its trailing
// newline restored.
func filterLines(output string, pattern *regexp.Regexp) string {
	var filtered strings.Builder
	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		if pattern.MatchString(line) {
			filtered.WriteString(line)
			filtered.WriteString("\n")
		}
	}
	return filtered.String()
}

// terminate asks the process to exit, waits up to killGracePeriod, then
// force-kills the whole process group and waits for the reaper.
func (bp *BackgroundProcess) terminate() {
	bp.mu.Lock()
	if bp.status != StatusRunning {
		bp.mu.Unlock()
		return
	}
	bp.status = StatusKilled
	bp.mu.Unlock()

	signalTerm(bp.cmd)
	select {
	case <-bp.done:
		return
	case <-time.After(killGracePeriod):
	}

	killProcessGroup(bp.cmd)
	<-bp.done
}
