// Package command runs external tools and reports their outcome as data.
//
// Every collaborator vendorpy drives (uv, python, pyodide, pip) is invoked
// through the narrow [Runner] interface. A non-zero exit status is not an
// error at this layer: it is returned in [Result] together with the captured
// output, so callers can map each collaborator's failure to their own error
// kind. Run only returns an error when the process could not be started at
// all or the context was cancelled.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vendorpy/pkg/observability"
)

// Spec describes one external command invocation.
type Spec struct {
	Name string   // Executable name or path
	Args []string // Arguments, not including Name
	Dir  string   // Working directory (current directory if empty)
	Env  []string // Extra KEY=VALUE entries appended to the process environment
}

// String renders the command line for logs and error messages.
func (s Spec) String() string {
	return strings.Join(append([]string{s.Name}, s.Args...), " ")
}

// Result is the outcome of a finished command.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Runner executes external commands.
type Runner interface {
	// Run starts the command, waits for it and returns its result. The error
	// is non-nil only if the command could not be run to completion.
	Run(ctx context.Context, spec Spec) (Result, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	Logger *log.Logger
}

// NewExecRunner creates a runner that logs each command at debug level.
// A nil logger falls back to log.Default().
func NewExecRunner(logger *log.Logger) *ExecRunner {
	if logger == nil {
		logger = log.Default()
	}
	return &ExecRunner{Logger: logger}
}

// Run executes spec and captures stdout and stderr.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...) //nolint:gosec // fixed tool invocations
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.Debug("exec", "cmd", spec.String(), "dir", spec.Dir)
	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return res, fmt.Errorf("run %s: %w", spec.Name, err)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	r.Logger.Debug("exit", "cmd", spec.Name, "code", res.ExitCode, "duration", res.Duration.Round(time.Millisecond))
	observability.Commands().OnCommand(ctx, spec.Name, res.ExitCode, res.Duration)
	return res, nil
}

// ExitError reports a command that ran but exited with a non-zero status.
type ExitError struct {
	Spec   Spec
	Result Result
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Spec.Name, e.Result.ExitCode)
}

// Diagnostic returns the collaborator's own explanation of the failure:
// trimmed stderr, falling back to stdout.
func (e *ExitError) Diagnostic() string {
	if s := strings.TrimSpace(e.Result.Stderr); s != "" {
		return s
	}
	if s := strings.TrimSpace(e.Result.Stdout); s != "" {
		return s
	}
	return "unknown error"
}

// Check runs spec and converts a non-zero exit into an *ExitError.
func Check(ctx context.Context, r Runner, spec Spec) (Result, error) {
	res, err := r.Run(ctx, spec)
	if err != nil {
		return res, err
	}
	if !res.Success() {
		return res, &ExitError{Spec: spec, Result: res}
	}
	return res, nil
}

// LookPath reports whether name resolves to an executable on PATH.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
