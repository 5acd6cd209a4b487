package python

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/vendorpy/pkg/deps"
)

// UVLock parses uv.lock files.
//
// When the lock contains the project itself (an editable or virtual source),
// only the packages reachable from the project's runtime dependencies are
// returned, which matches `uv export --no-dev --no-emit-project`. Locks
// without a project entry return every package.
type UVLock struct{}

func (u *UVLock) Type() string              { return "uv.lock" }
func (u *UVLock) Supports(name string) bool { return name == "uv.lock" }

func (u *UVLock) Parse(path string) (deps.DependencySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock uvLockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, err
	}
	return lock.runtimeClosure(), nil
}

type uvLockFile struct {
	Packages []uvPackage `toml:"package"`
}

type uvPackage struct {
	Name                 string                    `toml:"name"`
	Version              string                    `toml:"version"`
	Source               map[string]any            `toml:"source"`
	Dependencies         []uvDependency            `toml:"dependencies"`
	OptionalDependencies map[string][]uvDependency `toml:"optional-dependencies"`
}

type uvDependency struct {
	Name  string   `toml:"name"`
	Extra []string `toml:"extra"`
}

// isProject reports whether the package is the local project being locked.
func (p uvPackage) isProject() bool {
	_, editable := p.Source["editable"]
	_, virtual := p.Source["virtual"]
	return editable || virtual
}

func (l uvLockFile) runtimeClosure() deps.DependencySet {
	byName := make(map[string][]uvPackage, len(l.Packages))
	var roots []uvPackage
	for _, pkg := range l.Packages {
		if pkg.isProject() {
			roots = append(roots, pkg)
		}
		key := normalize(pkg.Name)
		byName[key] = append(byName[key], pkg)
	}

	set := deps.DependencySet{}
	if len(roots) == 0 {
		for _, pkg := range l.Packages {
			set.Add(pkg.Name, pkg.Version)
		}
		return set
	}

	type visit struct {
		name  string
		extra string
	}
	seen := make(map[visit]bool)
	var queue []uvDependency
	for _, root := range roots {
		queue = append(queue, root.Dependencies...)
	}

	for len(queue) > 0 {
		dep := queue[0]
		queue = queue[1:]
		name := normalize(dep.Name)

		extras := append([]string{""}, dep.Extra...)
		for _, extra := range extras {
			v := visit{name, extra}
			if seen[v] {
				continue
			}
			seen[v] = true
			for _, pkg := range byName[name] {
				if extra == "" {
					// Workspace members are traversed but never vendored.
					if !pkg.isProject() {
						set.Add(pkg.Name, pkg.Version)
					}
					queue = append(queue, pkg.Dependencies...)
				} else {
					queue = append(queue, pkg.OptionalDependencies[extra]...)
				}
			}
		}
	}
	return set
}
