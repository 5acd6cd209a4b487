// Package cli implements the vendorpy command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vendorpy/pkg/buildinfo"
	"github.com/matzehuels/vendorpy/pkg/command"
	"github.com/matzehuels/vendorpy/pkg/config"
	"github.com/matzehuels/vendorpy/pkg/errors"
	"github.com/matzehuels/vendorpy/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "vendorpy"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Commands starts external tools. Nil means the real executables.
	Commands command.Runner

	// Dir is the project directory. Empty means the working directory.
	Dir string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Vendorpy - A tool for automating Cloudflare Python Workers vendoring",
		Long: `Vendorpy automates vendoring Python packages for Cloudflare Python Workers.

It exports the project's locked dependencies with uv, drops the packages the
Workers runtime already provides, writes the remaining ones to a vendor file
and installs them into the vendor directory through a Pyodide environment.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.vendorCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.listBuiltInCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(logger *log.Logger) *pipeline.Runner {
	cmds := c.Commands
	if cmds == nil {
		cmds = command.NewExecRunner(logger)
	}
	return pipeline.NewRunner(cmds, logger)
}

// requireTools fails early when a tool opts depends on is missing from PATH.
// Injected runners are trusted as-is.
func (c *CLI) requireTools(opts pipeline.Options) error {
	if c.Commands != nil || opts.ReportSource == pipeline.SourceFile {
		return nil
	}
	if _, err := command.LookPath("uv"); err != nil {
		return errors.Wrap(errors.ErrCodeRuntimeUnavailable, err,
			"uv is not installed or not on PATH. Install it from https://docs.astral.sh/uv/ or read dependencies from an existing requirements file")
	}
	return nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// projectDir returns the directory commands operate on.
func (c *CLI) projectDir() string {
	if c.Dir == "" {
		return "."
	}
	return c.Dir
}

// loadOptions seeds pipeline options from the project's configuration.
func (c *CLI) loadOptions() (pipeline.Options, error) {
	cfg, err := config.Load(c.projectDir())
	if err != nil {
		return pipeline.Options{}, err
	}
	for _, src := range cfg.Source {
		c.Logger.Debug("loaded config", "source", src)
	}
	return optionsFromConfig(c.projectDir(), cfg), nil
}

// optionsFromConfig converts a resolved configuration into pipeline options.
func optionsFromConfig(dir string, cfg config.Config) pipeline.Options {
	return pipeline.Options{
		ProjectDir:      dir,
		Report:          cfg.RequirementsFile,
		Manifest:        cfg.VendorFile,
		VendorDir:       cfg.VendorDir,
		PythonVersion:   cfg.PythonVersion,
		IncludeBuiltIn:  cfg.IncludeBuiltIn,
		ExtraBuiltins:   cfg.ExtraBuiltIn,
		ExcludeBuiltins: cfg.ExcludeBuiltIn,
	}
}
