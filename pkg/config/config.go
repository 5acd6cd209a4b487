// Package config loads vendorpy settings.
//
// Settings are layered, later layers winning:
//
//  1. Built-in defaults ([Default])
//  2. The [tool.vendorpy] table of the project's pyproject.toml
//  3. A .env file in the project directory
//  4. VENDORPY_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// Example pyproject.toml:
//
//	[tool.vendorpy]
//	vendor-dir = "src/vendor"
//	python-version = "3.12"
//	extra-built-in = ["my-internal-shim"]
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/vendorpy/pkg/classify"
	"github.com/matzehuels/vendorpy/pkg/errors"
	"github.com/matzehuels/vendorpy/pkg/pipeline"
)

// Defaults for the Cloudflare Python Workers layout, shared with the
// pipeline so both agree on what an unset option means.
const (
	DefaultVendorFile       = pipeline.DefaultManifest
	DefaultRequirementsFile = pipeline.DefaultReport
	DefaultVendorDir        = pipeline.DefaultVendorDir
	DefaultPythonVersion    = pipeline.DefaultPythonVersion
)

// Environment variable names.
const (
	EnvVendorFile       = "VENDORPY_VENDOR_FILE"
	EnvRequirementsFile = "VENDORPY_REQUIREMENTS_FILE"
	EnvVendorDir        = "VENDORPY_VENDOR_DIR"
	EnvPythonVersion    = "VENDORPY_PYTHON_VERSION"
	EnvIncludeBuiltIn   = "VENDORPY_INCLUDE_BUILT_IN"
)

// Config holds resolved settings.
type Config struct {
	VendorFile       string   `toml:"vendor-file"`
	RequirementsFile string   `toml:"requirements-file"`
	VendorDir        string   `toml:"vendor-dir"`
	PythonVersion    string   `toml:"python-version"`
	IncludeBuiltIn   bool     `toml:"include-built-in"`
	ExtraBuiltIn     []string `toml:"extra-built-in"`
	ExcludeBuiltIn   []string `toml:"exclude-built-in"`

	// Source lists the files that contributed to this config.
	Source []string `toml:"-"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		VendorFile:       DefaultVendorFile,
		RequirementsFile: DefaultRequirementsFile,
		VendorDir:        DefaultVendorDir,
		PythonVersion:    DefaultPythonVersion,
	}
}

// Load resolves the configuration for the project in dir.
func Load(dir string) (Config, error) {
	cfg := Default()

	if err := cfg.applyPyproject(filepath.Join(dir, "pyproject.toml")); err != nil {
		return cfg, err
	}

	dotenvPath := filepath.Join(dir, ".env")
	dotenv, err := godotenv.Read(dotenvPath)
	switch {
	case err == nil:
		cfg.Source = append(cfg.Source, dotenvPath)
	case os.IsNotExist(err):
		dotenv = nil
	default:
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", dotenvPath)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Builtins returns the default built-in set adjusted by ExtraBuiltIn and
// ExcludeBuiltIn.
func (c Config) Builtins() classify.BuiltinSet {
	return classify.DefaultBuiltins().With(c.ExtraBuiltIn...).Without(c.ExcludeBuiltIn...)
}

func (c *Config) applyPyproject(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	var doc struct {
		Tool struct {
			Vendorpy toml.Primitive `toml:"vendorpy"`
		} `toml:"tool"`
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if !md.IsDefined("tool", "vendorpy") {
		return nil
	}
	if err := md.PrimitiveDecode(doc.Tool.Vendorpy, c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse [tool.vendorpy] in %s", path)
	}
	c.Source = append(c.Source, path)
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvVendorFile, &c.VendorFile},
		{EnvRequirementsFile, &c.RequirementsFile},
		{EnvVendorDir, &c.VendorDir},
		{EnvPythonVersion, &c.PythonVersion},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && strings.TrimSpace(v) != "" {
			*s.dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup(EnvIncludeBuiltIn); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be a boolean", EnvIncludeBuiltIn)
		}
		c.IncludeBuiltIn = b
	}
	return nil
}
