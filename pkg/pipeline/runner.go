package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vendorpy/pkg/classify"
	"github.com/matzehuels/vendorpy/pkg/command"
	"github.com/matzehuels/vendorpy/pkg/deps"
	"github.com/matzehuels/vendorpy/pkg/manifest"
	"github.com/matzehuels/vendorpy/pkg/observability"
	"github.com/matzehuels/vendorpy/pkg/toolchain"
)

// Runner executes the vendoring pipeline.
//
// The Runner holds no per-run state; every result is returned to the caller.
type Runner struct {
	Runner command.Runner
	Logger *log.Logger
}

// NewRunner creates a runner that starts external tools through cmd.
// If logger is nil, log output is discarded.
func NewRunner(cmd command.Runner, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Runner: cmd, Logger: logger}
}

// Execute runs the complete pipeline. The first failing step aborts the run
// and its error is returned prefixed with the step name.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{ManifestPath: opts.ManifestPath()}

	// Step 1: Report
	start := time.Now()
	set, err := step(ctx, StepReport, func() (deps.DependencySet, error) {
		return r.Report(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	result.Dependencies = set
	result.Stats.ReportTime = time.Since(start)

	r.Logger.Info("read dependencies",
		"packages", len(set),
		"source", opts.ReportSource,
		"duration", result.Stats.ReportTime)

	// Step 2: Classify
	start = time.Now()
	classification, _ := step(ctx, StepClassify, func() (classify.Result, error) {
		return r.Classify(set, opts), nil
	})
	result.Classification = classification
	result.Entries = classification.ManifestEntries(opts.IncludeBuiltIn)
	result.Stats.ClassifyTime = time.Since(start)

	r.Logger.Info("classified dependencies",
		"vendor", len(classification.Vendor),
		"built_in", len(classification.BuiltIn))

	// Step 3: Manifest
	start = time.Now()
	if _, err := step(ctx, StepManifest, func() (struct{}, error) {
		return struct{}{}, manifest.Write(result.ManifestPath, result.Entries)
	}); err != nil {
		return nil, err
	}
	result.Stats.ManifestTime = time.Since(start)

	r.Logger.Info("wrote manifest", "path", result.ManifestPath, "entries", len(result.Entries))

	if len(result.Entries) == 0 {
		r.Logger.Info("no packages to vendor")
		result.Skipped = true
		return result, nil
	}
	if opts.ManifestOnly {
		return result, nil
	}

	// Step 4: Environment
	start = time.Now()
	env, err := step(ctx, StepEnv, func() (toolchain.Env, error) {
		return r.PrepareEnv(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	result.Env = env
	result.Stats.EnvTime = time.Since(start)

	r.Logger.Info("prepared environments",
		"host", env.HostVenv,
		"pyodide", env.PyodideVenv,
		"duration", result.Stats.EnvTime)

	// Step 5: Install
	start = time.Now()
	report, err := step(ctx, StepInstall, func() (toolchain.InstallReport, error) {
		return r.Install(ctx, env, opts)
	})
	if err != nil {
		return nil, err
	}
	result.Install = report
	result.Stats.InstallTime = time.Since(start)

	r.Logger.Info("installed packages",
		"vendor_dir", opts.VendorPath(),
		"entries", report.Entries,
		"duration", result.Stats.InstallTime)

	return result, nil
}

// Report reads the project's dependency set.
func (r *Runner) Report(ctx context.Context, opts Options) (deps.DependencySet, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return Parse(ctx, r, opts)
}

// Classify partitions set using the options' built-in set.
func (r *Runner) Classify(set deps.DependencySet, opts Options) classify.Result {
	return classify.New(opts.Builtins()).ClassifySet(set)
}

// PrepareEnv creates the host and Pyodide virtual environments.
func (r *Runner) PrepareEnv(ctx context.Context, opts Options) (toolchain.Env, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return toolchain.Env{}, err
	}
	return opts.envBuilder(r).Build(ctx)
}

// Install installs the manifest into the vendor directory using env.
func (r *Runner) Install(ctx context.Context, env toolchain.Env, opts Options) (toolchain.InstallReport, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return toolchain.InstallReport{}, err
	}
	inst := &toolchain.Installer{Runner: r.Runner}
	return inst.Install(ctx, env, opts.ManifestPath(), opts.VendorPath())
}

// step runs fn between the observability start and complete events.
func step[T any](ctx context.Context, name string, fn func() (T, error)) (T, error) {
	hooks := observability.Steps()
	hooks.OnStepStart(ctx, name)
	start := time.Now()
	v, err := fn()
	hooks.OnStepComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return v, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}
