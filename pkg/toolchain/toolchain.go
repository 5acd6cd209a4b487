// Package toolchain adapts the external tools vendorpy delegates to.
//
// Three collaborators are wrapped, each behind its own type:
//
//   - [Exporter]: `uv export` writes the project's dependency report
//   - [EnvBuilder]: a host virtual environment with pyodide-build, then a
//     Pyodide virtual environment created by `pyodide venv`
//   - [Installer]: `pip install -t` from the Pyodide environment into the
//     vendor directory, followed by a non-empty check of that directory
//
// All tools run through a [command.Runner]. A collaborator that exits
// non-zero is reported as a coded error from [errors] wrapping a
// [command.ExitError], whose Diagnostic carries the tool's stderr. Nothing is
// retried: none of these steps is safe to repeat blindly.
package toolchain

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/vendorpy/pkg/command"
	"github.com/matzehuels/vendorpy/pkg/errors"
)

// binPath returns the path of an executable inside a virtual environment.
func binPath(venv, name string) string {
	return filepath.Join(venv, "bin", name)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// run executes spec and maps any failure to code with msg.
func run(ctx context.Context, r command.Runner, spec command.Spec, code errors.Code, msg string) (command.Result, error) {
	res, err := command.Check(ctx, r, spec)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, errors.Wrap(code, err, "%s", msg)
	}
	return res, nil
}
