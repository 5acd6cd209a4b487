package command_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vendorpy/pkg/command"
)

func newRunner() *command.ExecRunner {
	return command.NewExecRunner(log.New(io.Discard))
}

func TestExecRunner_CapturesOutput(t *testing.T) {
	res, err := newRunner().Run(context.Background(), command.Spec{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err 1>&2"},
	})
	require.NoError(t, err)

	assert.True(t, res.Success())
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestExecRunner_NonZeroExitIsResult(t *testing.T) {
	res, err := newRunner().Run(context.Background(), command.Spec{
		Name: "sh",
		Args: []string{"-c", "echo 'No matching distribution' 1>&2; exit 3"},
	})
	require.NoError(t, err)

	assert.False(t, res.Success())
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stderr, "No matching distribution")
}

func TestExecRunner_WorkingDirAndEnv(t *testing.T) {
	dir := t.TempDir()

	res, err := newRunner().Run(context.Background(), command.Spec{
		Name: "sh",
		Args: []string{"-c", "pwd; echo $VENDORPY_TEST"},
		Dir:  dir,
		Env:  []string{"VENDORPY_TEST=hello"},
	})
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "hello")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := newRunner().Run(context.Background(), command.Spec{
		Name: "vendorpy-definitely-not-installed",
	})
	require.Error(t, err)
}

func TestExecRunner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newRunner().Run(ctx, command.Spec{Name: "sleep", Args: []string{"5"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestCheck(t *testing.T) {
	r := newRunner()

	_, err := command.Check(context.Background(), r, command.Spec{Name: "true"})
	require.NoError(t, err)

	_, err = command.Check(context.Background(), r, command.Spec{
		Name: "sh",
		Args: []string{"-c", "echo boom 1>&2; exit 1"},
	})
	var exitErr *command.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Result.ExitCode)
	assert.Equal(t, "boom", exitErr.Diagnostic())
	assert.Equal(t, "sh exited with status 1", exitErr.Error())
}

func TestExitErrorDiagnosticFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		result command.Result
		want   string
	}{
		{"stderr", command.Result{ExitCode: 1, Stderr: "  bad  \n", Stdout: "ignored"}, "bad"},
		{"stdout", command.Result{ExitCode: 1, Stdout: "from stdout\n"}, "from stdout"},
		{"nothing", command.Result{ExitCode: 1}, "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &command.ExitError{Spec: command.Spec{Name: "pip"}, Result: tt.result}
			assert.Equal(t, tt.want, e.Diagnostic())
		})
	}
}

func TestSpecString(t *testing.T) {
	s := command.Spec{Name: "uv", Args: []string{"export", "--frozen"}}
	assert.Equal(t, "uv export --frozen", s.String())
}
