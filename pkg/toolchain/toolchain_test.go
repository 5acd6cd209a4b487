package toolchain_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vendorpy/pkg/command"
	"github.com/matzehuels/vendorpy/pkg/command/commandtest"
	"github.com/matzehuels/vendorpy/pkg/errors"
	"github.com/matzehuels/vendorpy/pkg/toolchain"
	"github.com/matzehuels/vendorpy/pkg/toolchain/toolchaintest"
)

type fixture struct {
	dir  string
	tc   toolchaintest.Toolchain
	fake *commandtest.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	tc := toolchaintest.Toolchain{
		HostVenv:    filepath.Join(dir, ".venv"),
		PyodideVenv: filepath.Join(dir, ".venv-pyodide"),
		Report:      "jinja2==3.1.2\nmarkupsafe==2.1.3\n",
		Versions:    map[string]string{"jinja2": "3.1.2", "markupsafe": "2.1.3"},
	}
	return &fixture{dir: dir, tc: tc, fake: tc.New()}
}

func (f *fixture) builder() *toolchain.EnvBuilder {
	return &toolchain.EnvBuilder{
		Runner:        f.fake,
		Logger:        log.New(io.Discard),
		PythonVersion: "3.12",
		HostVenv:      f.tc.HostVenv,
		PyodideVenv:   f.tc.PyodideVenv,
	}
}

func TestExporter_Export(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "requirements.txt")

	err := (&toolchain.Exporter{Runner: f.fake, Dir: f.dir}).Export(context.Background(), out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, f.tc.Report, string(data))

	calls := f.fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "uv", calls[0].Name)
	assert.Equal(t, f.dir, calls[0].Dir)
	assert.Contains(t, calls[0].Args, "--no-dev")
	assert.Contains(t, calls[0].Args, "--frozen")
}

func TestExporter_Failure(t *testing.T) {
	fake := commandtest.New().Fail("uv", 2, "error: Unable to find lockfile at `uv.lock`")
	out := filepath.Join(t.TempDir(), "requirements.txt")

	err := (&toolchain.Exporter{Runner: fake}).Export(context.Background(), out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeExportFailed))
	assert.Contains(t, errors.UserMessage(err), "Unable to find lockfile")
}

func TestExporter_NoOutput(t *testing.T) {
	fake := commandtest.New() // uv "succeeds" without writing anything
	out := filepath.Join(t.TempDir(), "requirements.txt")

	err := (&toolchain.Exporter{Runner: fake}).Export(context.Background(), out)
	assert.True(t, errors.Is(err, errors.ErrCodeExportFailed))
}

func TestEnvBuilder_Build(t *testing.T) {
	f := newFixture(t)

	// Stale state from a previous run must be discarded.
	stale := filepath.Join(f.tc.HostVenv, "stale")
	require.NoError(t, os.MkdirAll(stale, 0755))

	env, err := f.builder().Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, f.tc.HostVenv, env.HostVenv)
	assert.Equal(t, f.tc.PyodideVenv, env.PyodideVenv)
	assert.NoDirExists(t, stale)
	assert.FileExists(t, env.PyodidePip())

	want := []string{
		"python3.12",
		"python3.12",
		filepath.Join(f.tc.HostVenv, "bin", "pip"),
		filepath.Join(f.tc.HostVenv, "bin", "pyodide"),
	}
	assert.Equal(t, want, f.fake.Names())
}

func TestEnvBuilder_PythonUnavailable(t *testing.T) {
	f := newFixture(t)
	f.fake.Handle("python3.12", func(command.Spec) (command.Result, error) {
		return command.Result{}, os.ErrNotExist
	})

	_, err := f.builder().Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRuntimeUnavailable))
	assert.Contains(t, err.Error(), "Python 3.12 is not available")
}

func TestEnvBuilder_PyodideBuildInstallFails(t *testing.T) {
	f := newFixture(t)
	f.fake.Fail(filepath.Join(f.tc.HostVenv, "bin", "pip"), 1, "ERROR: No matching distribution found for pyodide-build")

	_, err := f.builder().Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeEnvFailed))
	assert.Contains(t, errors.UserMessage(err), "No matching distribution")
	assert.NotContains(t, f.fake.Names(), filepath.Join(f.tc.HostVenv, "bin", "pyodide"))
}

func TestEnvBuilder_MissingPyodideCLI(t *testing.T) {
	f := newFixture(t)
	f.fake.Handle(filepath.Join(f.tc.HostVenv, "bin", "pip"), func(command.Spec) (command.Result, error) {
		return command.Result{}, nil // succeeds without providing the pyodide CLI
	})

	_, err := f.builder().Build(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeEnvFailed))
	assert.Contains(t, err.Error(), "pyodide command not found")
}

func TestInstaller_Install(t *testing.T) {
	f := newFixture(t)
	env, err := f.builder().Build(context.Background())
	require.NoError(t, err)

	manifestPath := filepath.Join(f.dir, "vendor.txt")
	require.NoError(t, os.WriteFile(manifestPath, []byte("jinja2\nmarkupsafe\n"), 0644))
	vendorDir := filepath.Join(f.dir, "src", "vendor")

	report, err := (&toolchain.Installer{Runner: f.fake}).Install(context.Background(), env, manifestPath, vendorDir)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Entries)
	assert.Equal(t, []string{"jinja2-3.1.2", "markupsafe-2.1.3"}, report.Installed)
	assert.FileExists(t, filepath.Join(vendorDir, "jinja2", "__init__.py"))

	last := f.fake.Calls()[len(f.fake.Calls())-1]
	assert.Equal(t, env.PyodidePip(), last.Name)
	assert.True(t, slices.Equal([]string{"install", "-t", vendorDir, "-r", manifestPath}, last.Args))
}

func TestInstaller_ManifestChecks(t *testing.T) {
	dir := t.TempDir()
	env := toolchain.Env{PyodideVenv: filepath.Join(dir, ".venv-pyodide")}
	inst := &toolchain.Installer{Runner: commandtest.New()}

	_, err := inst.Install(context.Background(), env, filepath.Join(dir, "missing.txt"), filepath.Join(dir, "vendor"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	empty := filepath.Join(dir, "vendor.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = inst.Install(context.Background(), env, empty, filepath.Join(dir, "vendor"))
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyManifest))
}

func TestInstaller_ManifestContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"comments only", "# generated by vendorpy\n\n# nothing to vendor\n", errors.ErrCodeEmptyManifest},
		{"blank lines only", "\n  \n", errors.ErrCodeEmptyManifest},
		{"pip option", "jinja2\n--index-url https://example.com/simple\n", errors.ErrCodeInvalidManifest},
		{"requirement specifier", "jinja2==3.1.2\n", errors.ErrCodeInvalidManifest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			env := toolchain.Env{PyodideVenv: filepath.Join(dir, ".venv-pyodide")}
			fake := commandtest.New()
			manifestPath := filepath.Join(dir, "vendor.txt")
			require.NoError(t, os.WriteFile(manifestPath, []byte(tt.content), 0644))

			_, err := (&toolchain.Installer{Runner: fake}).Install(context.Background(), env, manifestPath, filepath.Join(dir, "vendor"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
			assert.Empty(t, fake.Calls(), "pip must not run")
			assert.NoDirExists(t, filepath.Join(dir, "vendor"))
		})
	}
}

func TestInstaller_ReplacesVendorDir(t *testing.T) {
	f := newFixture(t)
	env, err := f.builder().Build(context.Background())
	require.NoError(t, err)

	vendorDir := filepath.Join(f.dir, "vendor")
	require.NoError(t, os.MkdirAll(filepath.Join(vendorDir, "oldpkg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(vendorDir, "oldpkg", "__init__.py"), nil, 0644))

	manifestPath := filepath.Join(f.dir, "vendor.txt")
	require.NoError(t, os.WriteFile(manifestPath, []byte("jinja2\n"), 0644))

	report, err := (&toolchain.Installer{Runner: f.fake}).Install(context.Background(), env, manifestPath, vendorDir)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Entries)
	assert.DirExists(t, filepath.Join(vendorDir, "jinja2"))
	assert.NoDirExists(t, filepath.Join(vendorDir, "oldpkg"))
}

func TestInstaller_StaleEntriesDoNotCount(t *testing.T) {
	f := newFixture(t)
	env, err := f.builder().Build(context.Background())
	require.NoError(t, err)
	f.fake.Handle(env.PyodidePip(), func(command.Spec) (command.Result, error) {
		return command.Result{Stdout: "Successfully installed jinja2-3.1.2\n"}, nil
	})

	vendorDir := filepath.Join(f.dir, "vendor")
	require.NoError(t, os.MkdirAll(filepath.Join(vendorDir, "oldpkg"), 0755))

	manifestPath := filepath.Join(f.dir, "vendor.txt")
	require.NoError(t, os.WriteFile(manifestPath, []byte("jinja2\n"), 0644))

	_, err = (&toolchain.Installer{Runner: f.fake}).Install(context.Background(), env, manifestPath, vendorDir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInstallFailed))
	assert.Contains(t, err.Error(), "no packages were installed")
}

func TestInstaller_PipFailure(t *testing.T) {
	f := newFixture(t)
	env, err := f.builder().Build(context.Background())
	require.NoError(t, err)
	f.fake.Fail(env.PyodidePip(), 1, "ERROR: Could not find a version that satisfies the requirement nope")

	manifestPath := filepath.Join(f.dir, "vendor.txt")
	require.NoError(t, os.WriteFile(manifestPath, []byte("nope\n"), 0644))

	_, err = (&toolchain.Installer{Runner: f.fake}).Install(context.Background(), env, manifestPath, filepath.Join(f.dir, "vendor"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInstallFailed))
	assert.Contains(t, errors.UserMessage(err), "Could not find a version")
}

func TestInstaller_NothingInstalled(t *testing.T) {
	f := newFixture(t)
	env, err := f.builder().Build(context.Background())
	require.NoError(t, err)
	f.fake.Handle(env.PyodidePip(), func(command.Spec) (command.Result, error) {
		return command.Result{Stdout: "Successfully installed jinja2-3.1.2\n"}, nil
	})

	manifestPath := filepath.Join(f.dir, "vendor.txt")
	require.NoError(t, os.WriteFile(manifestPath, []byte("jinja2\n"), 0644))

	_, err = (&toolchain.Installer{Runner: f.fake}).Install(context.Background(), env, manifestPath, filepath.Join(f.dir, "vendor"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInstallFailed))
	assert.Contains(t, err.Error(), "no packages were installed")
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()

	_, err := toolchain.Verify(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, errors.ErrCodeInstallFailed))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".DS_Store"), nil, 0644))
	_, err = toolchain.Verify(dir)
	assert.True(t, errors.Is(err, errors.ErrCodeInstallFailed), "hidden files do not count")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "jinja2"), 0755))
	n, err := toolchain.Verify(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExporter_RelativeProjectDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "proj"), 0755))
	t.Chdir(root)

	tc := toolchaintest.Toolchain{Report: "jinja2==3.1.2\n"}
	fake := tc.New()

	exp := &toolchain.Exporter{Runner: fake, Dir: "proj"}
	require.NoError(t, exp.Export(context.Background(), filepath.Join("proj", "requirements.txt")))

	assert.FileExists(t, filepath.Join(root, "proj", "requirements.txt"))
	assert.NoFileExists(t, filepath.Join(root, "proj", "proj", "requirements.txt"))

	out := fake.Calls()[0].Args[slices.Index(fake.Calls()[0].Args, "-o")+1]
	assert.True(t, filepath.IsAbs(out), "uv must receive an absolute -o, got %q", out)
}
