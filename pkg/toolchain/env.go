package toolchain

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vendorpy/pkg/command"
	"github.com/matzehuels/vendorpy/pkg/errors"
)

// Env locates the two virtual environments used for vendoring.
type Env struct {
	HostVenv    string // CPython venv that provides the pyodide CLI
	PyodideVenv string // Pyodide venv whose pip targets WebAssembly
}

// PyodidePip returns the pip executable of the Pyodide environment.
func (e Env) PyodidePip() string { return binPath(e.PyodideVenv, "pip") }

// EnvBuilder creates the host and Pyodide virtual environments.
//
// Existing environment directories are removed first; a partially built
// environment from an earlier run is never reused.
type EnvBuilder struct {
	Runner        command.Runner
	Logger        *log.Logger
	PythonVersion string // e.g. "3.12"
	HostVenv      string
	PyodideVenv   string
}

// Python returns the interpreter executable name, e.g. "python3.12".
func (b *EnvBuilder) Python() string { return "python" + b.PythonVersion }

// Build creates both environments in order and returns their locations.
func (b *EnvBuilder) Build(ctx context.Context) (Env, error) {
	if err := b.CheckPython(ctx); err != nil {
		return Env{}, err
	}
	if err := b.CreateHostVenv(ctx); err != nil {
		return Env{}, err
	}
	if err := b.CreatePyodideVenv(ctx); err != nil {
		return Env{}, err
	}
	return Env{HostVenv: b.HostVenv, PyodideVenv: b.PyodideVenv}, nil
}

// CheckPython verifies the requested interpreter can be started.
func (b *EnvBuilder) CheckPython(ctx context.Context) error {
	res, err := b.Runner.Run(ctx, command.Spec{Name: b.Python(), Args: []string{"--version"}})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil || !res.Success() {
		cause := err
		if cause == nil {
			cause = &command.ExitError{Spec: command.Spec{Name: b.Python()}, Result: res}
		}
		return errors.Wrap(errors.ErrCodeRuntimeUnavailable, cause,
			"Python %s is not available. Please install Python %s and try again", b.PythonVersion, b.PythonVersion)
	}
	b.logger().Debug("found interpreter", "python", b.Python(), "version", res.Stdout)
	return nil
}

// CreateHostVenv recreates HostVenv and installs pyodide-build into it.
func (b *EnvBuilder) CreateHostVenv(ctx context.Context) error {
	if err := os.RemoveAll(b.HostVenv); err != nil {
		return errors.Wrap(errors.ErrCodeEnvFailed, err, "remove existing virtual environment %s", b.HostVenv)
	}

	spec := command.Spec{Name: b.Python(), Args: []string{"-m", "venv", b.HostVenv}}
	if _, err := run(ctx, b.Runner, spec, errors.ErrCodeEnvFailed, "failed to create virtual environment"); err != nil {
		return err
	}
	if !exists(b.HostVenv) {
		return errors.New(errors.ErrCodeEnvFailed, "virtual environment was not created at %s", b.HostVenv)
	}

	pip := binPath(b.HostVenv, "pip")
	if !exists(pip) {
		return errors.New(errors.ErrCodeEnvFailed,
			"pip not found in virtual environment at %s. Make sure the virtual environment was created correctly", pip)
	}
	spec = command.Spec{Name: pip, Args: []string{"install", "pyodide-build"}}
	if _, err := run(ctx, b.Runner, spec, errors.ErrCodeEnvFailed, "failed to install pyodide-build"); err != nil {
		return err
	}
	b.logger().Debug("host environment ready", "path", b.HostVenv)
	return nil
}

// CreatePyodideVenv recreates PyodideVenv using the host environment's
// pyodide CLI.
func (b *EnvBuilder) CreatePyodideVenv(ctx context.Context) error {
	pyodide := binPath(b.HostVenv, "pyodide")
	if !exists(pyodide) {
		return errors.New(errors.ErrCodeEnvFailed,
			"pyodide command not found at %s. Make sure pyodide-build is installed correctly", pyodide)
	}
	if err := os.RemoveAll(b.PyodideVenv); err != nil {
		return errors.Wrap(errors.ErrCodeEnvFailed, err, "remove existing pyodide environment %s", b.PyodideVenv)
	}

	spec := command.Spec{Name: pyodide, Args: []string{"venv", b.PyodideVenv}}
	if _, err := run(ctx, b.Runner, spec, errors.ErrCodeEnvFailed, "failed to create Pyodide environment"); err != nil {
		return err
	}
	if !exists(b.PyodideVenv) {
		return errors.New(errors.ErrCodeEnvFailed, "Pyodide environment was not created at %s", b.PyodideVenv)
	}
	b.logger().Debug("pyodide environment ready", "path", b.PyodideVenv)
	return nil
}

func (b *EnvBuilder) logger() *log.Logger {
	if b.Logger == nil {
		return log.Default()
	}
	return b.Logger
}
