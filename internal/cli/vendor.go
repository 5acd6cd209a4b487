package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vendorpy/pkg/pipeline"
)

// vendorFlags holds the command-line flags for the vendor command. Only
// flags the user set override the project configuration.
type vendorFlags struct {
	vendorFile       string
	requirementsFile string
	from             string
	vendorDir        string
	pythonVersion    string
	skipBuiltIn      bool
	includeBuiltIn   bool
	manifestOnly     bool
}

// vendorCommand creates the vendor command.
func (c *CLI) vendorCommand() *cobra.Command {
	var flags vendorFlags

	cmd := &cobra.Command{
		Use:   "vendor",
		Short: "Vendor Python packages for Cloudflare Workers",
		Long: `Vendor Python packages for Cloudflare Workers.

The vendor command exports the project's locked dependencies with uv, removes
the packages the Workers runtime already provides, writes the rest to the
vendor file and installs them into the vendor directory using a Pyodide
environment.

Settings are read from [tool.vendorpy] in pyproject.toml, a .env file and
VENDORPY_* environment variables; flags take precedence.

Examples:
  vendorpy vendor
  vendorpy vendor --vendor-dir src/vendor --python-version 3.12
  vendorpy vendor --from uv.lock --manifest-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadOptions()
			if err != nil {
				return err
			}
			flags.apply(cmd, &opts)
			return c.runVendor(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&flags.vendorFile, "vendor-file", "f", pipeline.DefaultManifest, "vendor file listing the packages to install")
	cmd.Flags().StringVarP(&flags.requirementsFile, "requirements-file", "r", pipeline.DefaultReport, "requirements file uv exports to")
	cmd.Flags().StringVar(&flags.from, "from", "", "read an existing report (requirements.txt, uv.lock, poetry.lock) instead of running uv")
	cmd.Flags().StringVarP(&flags.vendorDir, "vendor-dir", "d", pipeline.DefaultVendorDir, "directory to install vendored packages to (replaced on every run)")
	cmd.Flags().StringVarP(&flags.pythonVersion, "python-version", "p", pipeline.DefaultPythonVersion, "Python version to use for vendoring")
	cmd.Flags().BoolVar(&flags.skipBuiltIn, "skip-built-in", true, "leave built-in Cloudflare packages out of the vendor file")
	cmd.Flags().BoolVar(&flags.includeBuiltIn, "include-built-in", false, "keep built-in Cloudflare packages in the vendor file")
	cmd.Flags().BoolVar(&flags.manifestOnly, "manifest-only", false, "write the vendor file and stop")
	cmd.MarkFlagsMutuallyExclusive("skip-built-in", "include-built-in")
	cmd.MarkFlagsMutuallyExclusive("from", "requirements-file")

	return cmd
}

// apply overrides opts with every flag set on cmd.
func (f *vendorFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("vendor-file") {
		opts.Manifest = f.vendorFile
	}
	if changed("requirements-file") {
		opts.Report = f.requirementsFile
	}
	if changed("from") {
		opts.Report = f.from
		opts.ReportSource = pipeline.SourceFile
	}
	if changed("vendor-dir") {
		opts.VendorDir = f.vendorDir
	}
	if changed("python-version") {
		opts.PythonVersion = f.pythonVersion
	}
	if changed("skip-built-in") {
		opts.IncludeBuiltIn = !f.skipBuiltIn
	}
	if changed("include-built-in") {
		opts.IncludeBuiltIn = f.includeBuiltIn
	}
	opts.ManifestOnly = f.manifestOnly
}

// runVendor executes the vendoring pipeline with terminal progress output.
func (c *CLI) runVendor(ctx context.Context, opts pipeline.Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if err := c.requireTools(opts); err != nil {
		return err
	}

	logger, runID := newRunLogger(c.Logger)
	ctx = withLogger(ctx, logger)
	logger.Debug("starting vendor run",
		"id", runID,
		"project", opts.ProjectDir,
		"python", opts.PythonVersion,
		"include_built_in", opts.IncludeBuiltIn)

	if opts.IncludeBuiltIn {
		printWarning("Built-in packages will be written to %s and vendored as well", opts.Manifest)
	}

	ui := newStepUI(os.Stderr, opts)
	defer ui.install()()

	result, err := c.newRunner(logger).Execute(ctx, opts)
	if err != nil {
		return err
	}

	cls := result.Classification
	printCounts(len(cls.Vendor), len(cls.BuiltIn))

	switch {
	case result.Skipped:
		printSuccess("Wrote empty %s", opts.Manifest)
		printInfo("Nothing to vendor: every dependency is built into the Workers runtime")
		return nil
	case opts.ManifestOnly:
		printSuccess("Wrote %s", opts.Manifest)
		for _, name := range result.Entries {
			printDetail("%s", name)
		}
		printNewline()
		printNextStep("Install the packages", "vendorpy vendor")
		return nil
	}

	printNewline()
	printPanel("Vendoring Complete", StyleSuccess.Render(iconSuccess)+
		fmt.Sprintf(" Successfully vendored %d packages from %s to %s", len(result.Entries), opts.Manifest, opts.VendorDir))
	for _, dist := range result.Install.Installed {
		printFile(dist)
	}
	logger.Debug("vendor run finished", "duration", result.Stats.Total())

	printVendorNextSteps()
	return nil
}
