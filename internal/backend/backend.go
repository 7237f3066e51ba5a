// Package backend wraps the external time-measuring programs, parses their
// diagnostic output into typed reports, and probes which programs are
// actually usable on this host.
package backend

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// Family tags the diagnostic grammar a backend speaks.
type Family int

const (
	BSD Family = iota
	GNU
	Builtin
)

func (f Family) String() string {
	switch f {
	case BSD:
		return "bsd"
	case GNU:
		return "gnu"
	case Builtin:
		return "builtin"
	}
	return "unknown"
}

// ReadyStatus is the outcome of the self-test issued at construction.
// It moves Checking→Ready or Checking→Error exactly once.
type ReadyStatus int

const (
	StatusChecking ReadyStatus = iota
	StatusReady
	StatusError
)

var (
	// ErrNotReady and ErrNotFinished flag contract violations by the
	// caller, not user-facing conditions.
	ErrNotReady    = errors.New("backend is not ready yet")
	ErrNotFinished = errors.New("backend execution is not finished yet")
)

// ParseError means a completed child produced a diagnostic stream with no
// recognizable measurements.
type ParseError struct {
	Program string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse the output of the %q command", e.Program)
}

// Backend runs commands under one external measuring program. It owns at
// most one live child process at a time and must only be driven by a single
// goroutine.
type Backend struct {
	family   Family
	shell    string
	shellArg string
	timeCmd  string
	parse    parseFunc

	status ReadyStatus
	proc   *child
	report Report
}

// newBackend spawns the self-test (`<timeCmd> true`) and returns a backend
// in the Checking state. A spawn failure is returned immediately.
func newBackend(family Family, shell, shellArg, timeCmd string, parse parseFunc) (*Backend, error) {
	proc, err := spawn(shell, shellArg, timeCmd+" true")
	if err != nil {
		return nil, err
	}
	return &Backend{
		family:   family,
		shell:    shell,
		shellArg: shellArg,
		timeCmd:  timeCmd,
		parse:    parse,
		status:   StatusChecking,
		proc:     proc,
	}, nil
}

func (b *Backend) Family() Family { return b.family }

// Describe returns the invocation the backend uses, for diagnostics.
func (b *Backend) Describe() string {
	return fmt.Sprintf("%s %s %q", b.shell, b.shellArg, b.timeCmd)
}

// ProbeReady polls the self-test. Once a terminal status is reached it is
// returned unchanged on every later call.
func (b *Backend) ProbeReady() ReadyStatus {
	if b.status == StatusChecking && b.proc.finished() {
		if len(b.parse(b.proc.stderr.String())) == 0 {
			b.status = StatusError
		} else {
			b.status = StatusReady
		}
	}
	return b.status
}

// Execute starts one measured run of the target command, replacing any
// previously completed child and discarding the cached report.
func (b *Backend) Execute(target string) error {
	if b.status != StatusReady {
		return ErrNotReady
	}
	proc, err := spawn(b.shell, b.shellArg, b.timeCmd+" "+target)
	if err != nil {
		return err
	}
	b.report = nil
	b.proc = proc
	return nil
}

func (b *Backend) Finished() bool {
	return b.proc.finished()
}

// CollectReport parses the child's diagnostic stream once and caches the
// result. When the grammar yields no ExitStatus entry, one is synthesized
// from the real process exit code.
func (b *Backend) CollectReport() (Report, error) {
	if !b.proc.finished() {
		return nil, ErrNotFinished
	}
	if b.report != nil {
		return b.report, nil
	}

	report := b.parse(b.proc.stderr.String())
	if len(report) == 0 {
		return nil, &ParseError{Program: b.timeCmd}
	}
	if _, ok := report[ExitStatus]; !ok {
		report[ExitStatus] = float64(b.proc.exitCode())
	}
	b.report = report
	return report, nil
}

// Kill terminates the live child, best effort. Used only on cancellation.
func (b *Backend) Kill() error {
	return b.proc.kill()
}

// child is one spawned measurement process. The measuring program writes
// its diagnostics to stderr; the target's stdout is discarded.
type child struct {
	cmd    *exec.Cmd
	stderr bytes.Buffer
	done   chan struct{}
	err    error
}

func spawn(shell, shellArg, script string) (*child, error) {
	c := &child{done: make(chan struct{})}
	c.cmd = exec.Command(shell, shellArg, script)
	c.cmd.Stdout = io.Discard
	c.cmd.Stderr = &c.stderr
	// Own process group so Kill can reach the whole shell pipeline.
	c.cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := c.cmd.Start(); err != nil {
		return nil, fmt.Errorf("could not start %q %s: %w", shell, script, err)
	}
	go func() {
		c.err = c.cmd.Wait()
		close(c.done)
	}()
	return c, nil
}

func (c *child) finished() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// exitCode returns the child's exit code, 0 when it is unavailable.
func (c *child) exitCode() int {
	<-c.done
	var exitErr *exec.ExitError
	if errors.As(c.err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
		return 0
	}
	return 0
}

func (c *child) kill() error {
	if c.finished() {
		return nil
	}
	if err := unix.Kill(-c.cmd.Process.Pid, unix.SIGKILL); err != nil {
		return c.cmd.Process.Kill()
	}
	return nil
}
