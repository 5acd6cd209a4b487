// Package pipeline provides the vendoring pipeline for vendorpy.
//
// This package implements the complete report → classify → manifest →
// environment → install sequence that the CLI commands share.
//
// # Architecture
//
// The pipeline consists of five steps, run strictly in order:
//
//  1. Report: export the locked dependency set with uv, or read an existing
//     report (requirements.txt, uv.lock, poetry.lock)
//  2. Classify: split the dependencies into vendored and built-in packages
//  3. Manifest: write the vendor manifest
//  4. Environment: create the host and Pyodide virtual environments
//  5. Install: pip-install the manifest into the vendor directory and verify
//     the result
//
// A manifest with no entries ends the run successfully after step 3, since
// the packaging tool refuses an empty manifest. ManifestOnly stops after
// step 3 as well.
//
// # Usage
//
//	runner := pipeline.NewRunner(command.NewExecRunner(logger), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{ProjectDir: "."})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Classification.Vendor)
//
// Run individual steps:
//
//	set, err := runner.Report(ctx, opts)
//	res := runner.Classify(set, opts)
package pipeline

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/matzehuels/vendorpy/pkg/classify"
	"github.com/matzehuels/vendorpy/pkg/deps"
	"github.com/matzehuels/vendorpy/pkg/errors"
	"github.com/matzehuels/vendorpy/pkg/toolchain"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultReport is the file uv exports the dependency report to.
	DefaultReport = "requirements.txt"

	// DefaultManifest is the vendor manifest consumed by pip.
	DefaultManifest = "vendor.txt"

	// DefaultVendorDir is where Cloudflare's Python Workers template expects
	// vendored packages.
	DefaultVendorDir = "src/vendor"

	// DefaultPythonVersion is the interpreter the Workers runtime is built on.
	DefaultPythonVersion = "3.12"

	// DefaultHostVenv is the host virtual environment directory.
	DefaultHostVenv = ".venv"

	// DefaultPyodideVenv is the Pyodide virtual environment directory.
	DefaultPyodideVenv = ".venv-pyodide"
)

// Report sources.
const (
	SourceExport = "export" // run `uv export` into Report
	SourceFile   = "file"   // parse the existing file at Report
)

// Step names reported through observability hooks.
const (
	StepReport   = "report"
	StepClassify = "classify"
	StepManifest = "manifest"
	StepEnv      = "environment"
	StepInstall  = "install"
)

// SupportedPythonVersions lists the interpreter versions Python Workers run.
var SupportedPythonVersions = []string{"3.12", "3.13"}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for a vendoring run. Relative paths are
// resolved against ProjectDir.
type Options struct {
	ProjectDir string

	// Report options
	Report       string
	ReportSource string

	// Classification options
	IncludeBuiltIn  bool
	ExtraBuiltins   []string
	ExcludeBuiltins []string

	// Output options
	Manifest     string
	ManifestOnly bool
	VendorDir    string

	// Environment options
	PythonVersion  string
	AllowAnyPython bool
	HostVenv       string
	PyodideVenv    string

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.ProjectDir == "" {
		o.ProjectDir = "."
	}
	if o.Report == "" {
		o.Report = DefaultReport
	}
	if o.ReportSource == "" {
		o.ReportSource = SourceExport
	}
	if o.Manifest == "" {
		o.Manifest = DefaultManifest
	}
	if o.VendorDir == "" {
		o.VendorDir = DefaultVendorDir
	}
	if o.PythonVersion == "" {
		o.PythonVersion = DefaultPythonVersion
	}
	if o.HostVenv == "" {
		o.HostVenv = DefaultHostVenv
	}
	if o.PyodideVenv == "" {
		o.PyodideVenv = DefaultPyodideVenv
	}

	if o.ReportSource != SourceExport && o.ReportSource != SourceFile {
		return errors.New(errors.ErrCodeInvalidInput, "invalid report source: %q (must be one of: export, file)", o.ReportSource)
	}
	if err := errors.ValidatePythonVersion(o.PythonVersion); err != nil {
		return err
	}
	if !o.AllowAnyPython && !slices.Contains(SupportedPythonVersions, o.PythonVersion) {
		return errors.New(errors.ErrCodeInvalidInput,
			"Python %s is not supported by Cloudflare Workers (supported: %v)", o.PythonVersion, SupportedPythonVersions)
	}
	for _, p := range []string{o.Manifest, o.VendorDir} {
		if filepath.Clean(p) == "." {
			return errors.New(errors.ErrCodeInvalidPath, "invalid path: %q", p)
		}
	}

	o.validated = true
	return nil
}

// ReportPath returns the resolved dependency report path.
func (o *Options) ReportPath() string { return o.resolve(o.Report) }

// ManifestPath returns the resolved manifest path.
func (o *Options) ManifestPath() string { return o.resolve(o.Manifest) }

// VendorPath returns the resolved vendor directory.
func (o *Options) VendorPath() string { return o.resolve(o.VendorDir) }

// Builtins returns the built-in set adjusted by ExtraBuiltins and
// ExcludeBuiltins.
func (o *Options) Builtins() classify.BuiltinSet {
	return classify.DefaultBuiltins().With(o.ExtraBuiltins...).Without(o.ExcludeBuiltins...)
}

// envBuilder returns a builder for the run's virtual environments.
func (o *Options) envBuilder(r *Runner) *toolchain.EnvBuilder {
	return &toolchain.EnvBuilder{
		Runner:        r.Runner,
		Logger:        r.Logger,
		PythonVersion: o.PythonVersion,
		HostVenv:      o.resolve(o.HostVenv),
		PyodideVenv:   o.resolve(o.PyodideVenv),
	}
}

func (o *Options) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(o.ProjectDir, p)
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dependencies is the parsed dependency report.
	Dependencies deps.DependencySet

	// Classification partitions Dependencies into vendored and built-in.
	Classification classify.Result

	// ManifestPath is where the manifest was written.
	ManifestPath string

	// Entries are the package names written to the manifest.
	Entries []string

	// Skipped is true when nothing needed vendoring and the environment and
	// install steps did not run.
	Skipped bool

	// Env locates the virtual environments. Zero unless the environment
	// step ran.
	Env toolchain.Env

	// Install summarizes pip's work. Zero unless the install step ran.
	Install toolchain.InstallReport

	// Stats contains timing information.
	Stats Stats
}

// Stats contains per-step durations.
type Stats struct {
	ReportTime   time.Duration
	ClassifyTime time.Duration
	ManifestTime time.Duration
	EnvTime      time.Duration
	InstallTime  time.Duration
}

// Total returns the summed duration of all steps.
func (s Stats) Total() time.Duration {
	return s.ReportTime + s.ClassifyTime + s.ManifestTime + s.EnvTime + s.InstallTime
}
