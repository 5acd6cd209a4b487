// Package toolchaintest scripts a fake uv / python / pyodide / pip toolchain
// on top of commandtest.Fake. The fake tools create the same files and
// directories the real ones would, so code under test can run its existence
// checks unchanged.
package toolchaintest

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/vendorpy/pkg/command"
	"github.com/matzehuels/vendorpy/pkg/command/commandtest"
)

// Toolchain describes the fake environment.
type Toolchain struct {
	PythonVersion string // default "3.12"
	HostVenv      string // absolute path of the host venv
	PyodideVenv   string // absolute path of the pyodide venv
	// Report is what `uv export` writes to its -o target.
	Report string
	// Versions maps package names to the version pip reports installing.
	Versions map[string]string
}

// Install registers handlers for every tool on f and returns f.
func (tc Toolchain) Install(f *commandtest.Fake) *commandtest.Fake {
	version := tc.PythonVersion
	if version == "" {
		version = "3.12"
	}

	f.Handle("uv", func(spec command.Spec) (command.Result, error) {
		out := argAfter(spec.Args, "-o")
		if out == "" {
			return command.Result{ExitCode: 2, Stderr: "error: missing -o"}, nil
		}
		if !filepath.IsAbs(out) && spec.Dir != "" {
			out = filepath.Join(spec.Dir, out)
		}
		if err := os.WriteFile(out, []byte(tc.Report), 0644); err != nil {
			return command.Result{ExitCode: 1, Stderr: err.Error()}, nil
		}
		return command.Result{Stderr: "Resolved packages"}, nil
	})

	f.Handle("python"+version, func(spec command.Spec) (command.Result, error) {
		if slices.Equal(spec.Args, []string{"--version"}) {
			return command.Result{Stdout: "Python " + version + ".1\n"}, nil
		}
		venv := argAfter(spec.Args, "venv")
		if err := touch(filepath.Join(venv, "bin", "pip")); err != nil {
			return command.Result{ExitCode: 1, Stderr: err.Error()}, nil
		}
		return command.Result{}, nil
	})

	f.Handle(filepath.Join(tc.HostVenv, "bin", "pip"), func(command.Spec) (command.Result, error) {
		if err := touch(filepath.Join(tc.HostVenv, "bin", "pyodide")); err != nil {
			return command.Result{ExitCode: 1, Stderr: err.Error()}, nil
		}
		return command.Result{Stdout: "Successfully installed pyodide-build-0.26.0\n"}, nil
	})

	f.Handle(filepath.Join(tc.HostVenv, "bin", "pyodide"), func(spec command.Spec) (command.Result, error) {
		venv := argAfter(spec.Args, "venv")
		if err := touch(filepath.Join(venv, "bin", "pip")); err != nil {
			return command.Result{ExitCode: 1, Stderr: err.Error()}, nil
		}
		return command.Result{}, nil
	})

	f.Handle(filepath.Join(tc.PyodideVenv, "bin", "pip"), func(spec command.Spec) (command.Result, error) {
		target := argAfter(spec.Args, "-t")
		manifest := argAfter(spec.Args, "-r")
		data, err := os.ReadFile(manifest)
		if err != nil {
			return command.Result{ExitCode: 1, Stderr: "ERROR: Could not open requirements file"}, nil
		}
		var installed []string
		for _, name := range strings.Fields(string(data)) {
			if err := touch(filepath.Join(target, strings.ReplaceAll(name, "-", "_"), "__init__.py")); err != nil {
				return command.Result{ExitCode: 1, Stderr: err.Error()}, nil
			}
			v := tc.Versions[name]
			if v == "" {
				v = "1.0.0"
			}
			installed = append(installed, name+"-"+v)
		}
		return command.Result{Stdout: "Successfully installed " + strings.Join(installed, " ") + "\n"}, nil
	})

	return f
}

// New returns a Fake with tc's handlers installed.
func (tc Toolchain) New() *commandtest.Fake {
	return tc.Install(commandtest.New())
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	return os.WriteFile(path, nil, 0755)
}
