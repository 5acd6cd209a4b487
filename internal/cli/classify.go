package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vendorpy/pkg/classify"
	"github.com/matzehuels/vendorpy/pkg/deps"
	"github.com/matzehuels/vendorpy/pkg/manifest"
	"github.com/matzehuels/vendorpy/pkg/pipeline"
)

// classifyCommand creates the classify command.
func (c *CLI) classifyCommand() *cobra.Command {
	var (
		output         string
		includeBuiltIn bool
	)

	cmd := &cobra.Command{
		Use:   "classify [report]",
		Short: "Show which dependencies are vendored and which are built in",
		Long: `Show which dependencies are vendored and which are built in.

Without an argument the dependencies are exported with uv. A report file
(requirements.txt, uv.lock or poetry.lock) can be given instead.

Examples:
  vendorpy classify
  vendorpy classify uv.lock
  vendorpy classify requirements.txt -o vendor.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadOptions()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				opts.Report = args[0]
				opts.ReportSource = pipeline.SourceFile
			}
			if cmd.Flags().Changed("include-built-in") {
				opts.IncludeBuiltIn = includeBuiltIn
			}
			return c.runClassify(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the vendor file to this path")
	cmd.Flags().BoolVar(&includeBuiltIn, "include-built-in", false, "keep built-in packages in the written vendor file")

	return cmd
}

// runClassify reads the dependencies, prints the classification table and
// optionally writes the manifest.
func (c *CLI) runClassify(ctx context.Context, opts pipeline.Options, output string) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if err := c.requireTools(opts); err != nil {
		return err
	}
	ctx = withLogger(ctx, c.Logger)

	runner := c.newRunner(c.Logger)
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, os.Stderr, "Reading dependencies...")
	spinner.Start()
	set, err := runner.Report(ctx, opts)
	if err != nil {
		spinner.StopWithError("Could not read dependencies")
		return err
	}
	spinner.Stop()

	res := runner.Classify(set, opts)
	prog.done(fmt.Sprintf("Classified %d packages", res.Total()))

	fmt.Println(renderClassification(set, res))
	printCounts(len(res.Vendor), len(res.BuiltIn))

	if output == "" {
		return nil
	}
	entries := res.ManifestEntries(opts.IncludeBuiltIn)
	if err := manifest.Write(output, entries); err != nil {
		return err
	}
	printSuccess("Wrote %s", output)
	printFile(fmt.Sprintf("%d packages", len(entries)))
	return nil
}

// renderClassification renders one table row per dependency.
func renderClassification(set deps.DependencySet, res classify.Result) string {
	type row struct{ name, status string }
	rows := make([]row, 0, res.Total())
	for _, n := range res.Vendor {
		rows = append(rows, row{n, "vendor"})
	}
	for _, n := range res.BuiltIn {
		rows = append(rows, row{n, "built-in"})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Version", "Status").
		StyleFunc(func(r, col int) lipgloss.Style {
			if r == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if r < 0 || r >= len(rows) {
				return base
			}
			if rows[r].status == "vendor" {
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorDim)
		})

	for _, r := range rows {
		version := set[r.name]
		if version == "" {
			version = "—"
		}
		t.Row(r.name, version, r.status)
	}
	return t.Render()
}
