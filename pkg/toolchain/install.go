package toolchain

import (
	"context"
	"os"
	"strings"

	"github.com/matzehuels/vendorpy/pkg/command"
	"github.com/matzehuels/vendorpy/pkg/errors"
	"github.com/matzehuels/vendorpy/pkg/manifest"
)

// InstallReport summarizes a successful install.
type InstallReport struct {
	// Installed lists the distributions pip reported, e.g. "jinja2-3.1.2".
	Installed []string
	// Entries is the number of top-level entries in the vendor directory.
	Entries int
}

// Installer installs a manifest into a vendor directory with the Pyodide
// environment's pip.
type Installer struct {
	Runner command.Runner
}

// Install runs `pip install -t vendorDir -r manifestPath` and then verifies
// that vendorDir is not empty. The manifest must exist and list at least one
// valid package name; blank and comment lines do not count.
//
// vendorDir is owned by the installer: its previous contents are removed
// before pip runs, so stale packages never survive a re-vendor and the
// verification only sees what this install produced.
func (i *Installer) Install(ctx context.Context, env Env, manifestPath, vendorDir string) (InstallReport, error) {
	names, err := manifest.Read(manifestPath)
	if err != nil {
		if errors.Is(err, errors.ErrCodeFileNotFound) || errors.Is(err, errors.ErrCodeInvalidManifest) {
			return InstallReport{}, err
		}
		return InstallReport{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read vendor file %s", manifestPath)
	}
	if len(names) == 0 {
		return InstallReport{}, errors.New(errors.ErrCodeEmptyManifest, "vendor file lists no packages: %s", manifestPath)
	}

	pip := env.PyodidePip()
	if !exists(pip) {
		return InstallReport{}, errors.New(errors.ErrCodeInstallFailed,
			"pip not found in Pyodide environment at %s. Make sure the Pyodide environment was created correctly", pip)
	}

	if err := os.RemoveAll(vendorDir); err != nil {
		return InstallReport{}, errors.Wrap(errors.ErrCodeInstallFailed, err, "clear vendor directory %s", vendorDir)
	}
	if err := os.MkdirAll(vendorDir, 0755); err != nil {
		return InstallReport{}, errors.Wrap(errors.ErrCodeInstallFailed, err, "create vendor directory %s", vendorDir)
	}

	spec := command.Spec{Name: pip, Args: []string{"install", "-t", vendorDir, "-r", manifestPath}}
	res, err := run(ctx, i.Runner, spec, errors.ErrCodeInstallFailed, "failed to install packages")
	if err != nil {
		return InstallReport{}, err
	}

	entries, err := Verify(vendorDir)
	if err != nil {
		return InstallReport{}, err
	}
	return InstallReport{Installed: parseInstalled(res.Stdout), Entries: entries}, nil
}

// Verify returns the number of non-hidden top-level entries in vendorDir and
// fails with INSTALL_FAILED when there are none.
func Verify(vendorDir string) (int, error) {
	entries, err := os.ReadDir(vendorDir)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInstallFailed, err, "read vendor directory %s", vendorDir)
	}
	n := 0
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			n++
		}
	}
	if n == 0 {
		return 0, errors.New(errors.ErrCodeInstallFailed,
			"no packages were installed to %s. Check your vendor file and make sure the packages are available", vendorDir)
	}
	return n, nil
}

// parseInstalled extracts the distributions from pip's
// "Successfully installed a-1.0 b-2.0" line.
func parseInstalled(stdout string) []string {
	const marker = "Successfully installed "
	for _, line := range strings.Split(stdout, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), marker); ok {
			return strings.Fields(rest)
		}
	}
	return nil
}
