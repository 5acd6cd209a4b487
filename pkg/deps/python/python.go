package python

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/vendorpy/pkg/deps"
)

// Parsers returns every Python report parser, most specific first.
func Parsers() []deps.ReportParser {
	return []deps.ReportParser{
		&UVLock{},
		&PoetryLock{},
		&Requirements{},
	}
}

// ProjectName returns the project name declared in dir/pyproject.toml,
// preferring [tool.poetry].name over [project].name. It returns "" when the
// file is missing or has no name.
func ProjectName(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
	if err != nil {
		return ""
	}
	var pyproject struct {
		Tool struct {
			Poetry struct {
				Name string `toml:"name"`
			} `toml:"poetry"`
		} `toml:"tool"`
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return ""
	}
	if pyproject.Tool.Poetry.Name != "" {
		return pyproject.Tool.Poetry.Name
	}
	return pyproject.Project.Name
}

func normalize(name string) string {
	return deps.NormalizePkgName(name)
}
