package python

import (
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/vendorpy/pkg/deps"
)

// PoetryLock parses poetry.lock files. It provides a full transitive closure
// of the dependency graph without needing to contact a registry.
type PoetryLock struct{}

func (p *PoetryLock) Type() string              { return "poetry.lock" }
func (p *PoetryLock) Supports(name string) bool { return name == "poetry.lock" }

func (p *PoetryLock) Parse(path string) (deps.DependencySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock poetryLockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, err
	}

	set := deps.DependencySet{}
	for _, pkg := range lock.Packages {
		if pkg.runtime() {
			set.Add(pkg.Name, pkg.Version)
		}
	}
	return set, nil
}

type poetryLockFile struct {
	Packages []poetryPackage `toml:"package"`
}

type poetryPackage struct {
	Name     string   `toml:"name"`
	Version  string   `toml:"version"`
	Category string   `toml:"category"` // poetry < 1.5
	Groups   []string `toml:"groups"`   // poetry >= 2.0
}

// runtime reports whether the package belongs to the main dependency group.
func (p poetryPackage) runtime() bool {
	if p.Category != "" && p.Category != "main" {
		return false
	}
	if len(p.Groups) > 0 && !slices.Contains(p.Groups, "main") {
		return false
	}
	return true
}
