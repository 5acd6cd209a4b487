package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/matzehuels/vendorpy/pkg/observability"
	"github.com/matzehuels/vendorpy/pkg/pipeline"
)

// stepLabel describes how a pipeline step appears on screen.
type stepLabel struct {
	panel    string // panel printed before the step, if any
	panelMsg string
	running  string
	done     string
	failed   string
}

// stepUI renders pipeline progress: a panel per phase and a spinner per
// external step. It also logs every step and external command at debug level.
type stepUI struct {
	w      io.Writer // spinner output
	labels map[string]stepLabel

	mu      sync.Mutex
	spinner *Spinner
}

func newStepUI(w io.Writer, opts pipeline.Options) *stepUI {
	report := stepLabel{
		panel:    "Step 1: Requirements Generation",
		panelMsg: fmt.Sprintf("Generating %s with pruned built-in packages", opts.Manifest),
		running:  "Exporting dependencies with uv...",
		done:     fmt.Sprintf("Exported dependencies to %s", opts.Report),
		failed:   "Dependency export failed",
	}
	if opts.ReportSource == pipeline.SourceFile {
		report.running = fmt.Sprintf("Reading %s...", opts.Report)
		report.done = fmt.Sprintf("Read dependencies from %s", opts.Report)
		report.failed = fmt.Sprintf("Could not read %s", opts.Report)
	}

	return &stepUI{
		w: w,
		labels: map[string]stepLabel{
			pipeline.StepReport: report,
			pipeline.StepEnv: {
				panel:    "Step 2: Environment Setup",
				panelMsg: "Setting up Python environment for vendoring",
				running:  "Creating Python and Pyodide virtual environments...",
				done:     "Created virtual environments",
				failed:   "Environment setup failed",
			},
			pipeline.StepInstall: {
				running: "Installing packages to vendor directory...",
				done:    fmt.Sprintf("Installed packages to %s", opts.VendorDir),
				failed:  "Package installation failed",
			},
		},
	}
}

// OnStepStart implements observability.StepHooks.
func (u *stepUI) OnStepStart(ctx context.Context, step string) {
	loggerFromContext(ctx).Debug("step started", "step", step)

	label, ok := u.labels[step]
	if !ok {
		return
	}
	if label.panel != "" {
		printPanel(label.panel, label.panelMsg)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.spinner = newSpinnerWithContext(ctx, u.w, label.running)
	u.spinner.Start()
}

// OnStepComplete implements observability.StepHooks.
func (u *stepUI) OnStepComplete(ctx context.Context, step string, d time.Duration, err error) {
	logger := loggerFromContext(ctx)
	if err != nil {
		logger.Debug("step failed", "step", step, "duration", d, "error", err)
	} else {
		logger.Debug("step finished", "step", step, "duration", d)
	}

	u.mu.Lock()
	sp := u.spinner
	u.spinner = nil
	u.mu.Unlock()
	if sp == nil {
		return
	}

	label := u.labels[step]
	switch {
	case sp.Cancelled():
		sp.Stop()
	case err != nil:
		sp.StopWithError(label.failed)
	default:
		sp.StopWithSuccess(label.done)
	}
}

// OnCommand implements observability.CommandHooks.
func (u *stepUI) OnCommand(ctx context.Context, name string, exitCode int, d time.Duration) {
	loggerFromContext(ctx).Debug("command finished", "name", name, "exit", exitCode, "duration", d.Round(time.Millisecond))
}

// install registers u with the observability registry and returns a
// function restoring the no-op hooks.
func (u *stepUI) install() func() {
	observability.SetStepHooks(u)
	observability.SetCommandHooks(u)
	return observability.Reset
}
