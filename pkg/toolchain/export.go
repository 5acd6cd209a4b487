package toolchain

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/vendorpy/pkg/command"
	"github.com/matzehuels/vendorpy/pkg/errors"
)

// Exporter runs `uv export` to produce a requirements-format dependency
// report for the project in Dir.
type Exporter struct {
	Runner command.Runner
	Dir    string // Project directory containing pyproject.toml and uv.lock
	UV     string // uv executable (default "uv")
}

// Args returns the uv arguments that write the report to output. Dev
// dependencies, hashes and the project itself are left out so the report
// lists only installable runtime packages.
func (e *Exporter) Args(output string) []string {
	return []string{
		"export",
		"--format", "requirements-txt",
		"-o", output,
		"--frozen",
		"--no-dev",
		"--no-hashes",
		"--no-emit-project",
	}
}

// Export writes the dependency report to output, replacing any previous one.
// A relative output is resolved against the working directory, not Dir.
func (e *Exporter) Export(ctx context.Context, output string) error {
	abs, err := filepath.Abs(output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", output)
	}
	output = abs

	uv := e.UV
	if uv == "" {
		uv = "uv"
	}
	spec := command.Spec{Name: uv, Args: e.Args(output), Dir: e.Dir}
	if _, err := run(ctx, e.Runner, spec, errors.ErrCodeExportFailed, "uv export failed"); err != nil {
		return err
	}
	if !exists(output) {
		return errors.New(errors.ErrCodeExportFailed, "uv export did not write %s", output)
	}
	return nil
}
