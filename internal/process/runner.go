// Package process runs external commands for the start-py-project CLI.
//
// The scaffold delegates two jobs to pre-existing tools: uv creates the
// project skeleton and git records its history. Both are driven through
// the Runner interface so tests can substitute a stub for either tool.
//
// Every call is blocking and runs to completion. There is no timeout and
// no retry; the exit status is the only contract with the child process.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner executes a command in a working directory.
type Runner interface {
	// Run executes name with args in dir, forwarding the child's output.
	// A non-zero exit status is returned as a *CommandError.
	Run(ctx context.Context, dir, name string, args ...string) error

	// Output executes name with args in dir and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) (string, error)
}

// CommandError reports a command that could not start or exited non-zero.
type CommandError struct {
	// Argv is the full command line, program name first.
	Argv []string

	// Dir is the working directory the command ran in ("" = inherited).
	Dir string

	// Stderr holds the trimmed standard error output of the child.
	Stderr string

	// Err is the error returned by os/exec.
	Err error
}

// Error formats the command line, the exec error and, when present,
// the child's stderr.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", strings.Join(e.Argv, " "), e.Err)
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	return msg
}

// Unwrap returns the underlying os/exec error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitStatus returns the child's exit code, or -1 when the command never
// ran to completion (binary missing, killed by a signal).
func (e *CommandError) ExitStatus() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// ExecRunner is the os/exec backed Runner.
//
// Stdout and Stderr receive the child's output during Run; nil discards
// it. Stderr is additionally captured so CommandError can quote it.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates an ExecRunner that forwards child output to the
// given writers.
func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{Stdout: stdout, Stderr: stderr}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	var stderr bytes.Buffer

	// #nosec G204: the program name and arguments are assembled by this
	// tool; the only user input is the validated project name.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = orDiscard(r.Stdout)
	cmd.Stderr = io.MultiWriter(orDiscard(r.Stderr), &stderr)

	if err := cmd.Run(); err != nil {
		return newCommandError(dir, name, args, stderr.String(), err)
	}
	return nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer

	// #nosec G204: see Run.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", newCommandError(dir, name, args, stderr.String(), err)
	}
	return stdout.String(), nil
}

func newCommandError(dir, name string, args []string, stderr string, err error) *CommandError {
	return &CommandError{
		Argv:   append([]string{name}, args...),
		Dir:    dir,
		Stderr: strings.TrimSpace(stderr),
		Err:    err,
	}
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
