package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/matzehuels/vendorpy/pkg/deps"
	"github.com/matzehuels/vendorpy/pkg/deps/python"
	"github.com/matzehuels/vendorpy/pkg/errors"
	"github.com/matzehuels/vendorpy/pkg/toolchain"
)

// Parse produces the project's dependency set. With SourceExport it runs
// `uv export` into the report path first and reads that file as a
// requirements report; with SourceFile the parser is picked by file name.
// The project itself is never part of the result.
func Parse(ctx context.Context, r *Runner, opts Options) (deps.DependencySet, error) {
	path := opts.ReportPath()

	var (
		set deps.DependencySet
		err error
	)
	switch opts.ReportSource {
	case SourceExport:
		exp := &toolchain.Exporter{Runner: r.Runner, Dir: opts.ProjectDir}
		if err := exp.Export(ctx, path); err != nil {
			return nil, err
		}
		set, err = (&python.Requirements{}).Parse(path)
		if err != nil {
			return nil, fmt.Errorf("parse requirements.txt: %w", err)
		}
	default:
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dependency report not found: %s", path)
		}
		set, err = deps.ParseReport(path, python.Parsers()...)
		if err != nil {
			return nil, err
		}
	}

	if name := python.ProjectName(opts.ProjectDir); name != "" {
		set.Remove(name)
	}
	return set, nil
}
