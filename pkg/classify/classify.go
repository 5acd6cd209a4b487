package classify

import (
	"maps"
	"slices"

	"github.com/matzehuels/vendorpy/pkg/deps"
)

// Result is the partition of a dependency set. Both slices hold normalized
// names in ascending order and never share an element.
type Result struct {
	// Vendor lists packages that must be packaged with the deployment.
	Vendor []string
	// BuiltIn lists packages the runtime already provides.
	BuiltIn []string
}

// Total returns the number of classified packages.
func (r Result) Total() int { return len(r.Vendor) + len(r.BuiltIn) }

// ManifestEntries returns the packages to write to the vendor manifest:
// Vendor alone, or the sorted union with BuiltIn when includeBuiltIn is set.
func (r Result) ManifestEntries(includeBuiltIn bool) []string {
	if !includeBuiltIn {
		return slices.Clone(r.Vendor)
	}
	all := slices.Concat(r.Vendor, r.BuiltIn)
	slices.Sort(all)
	return all
}

// Classifier partitions dependencies against a fixed BuiltinSet.
type Classifier struct {
	builtins BuiltinSet
}

// New returns a classifier for the given built-in set.
func New(builtins BuiltinSet) *Classifier {
	return &Classifier{builtins: builtins}
}

// Builtins returns the classifier's built-in set.
func (c *Classifier) Builtins() BuiltinSet { return c.builtins }

// Classify normalizes and deduplicates names, then splits them into
// built-in and vendor packages. An empty input yields two empty slices.
func (c *Classifier) Classify(names []string) Result {
	seen := make(map[string]struct{}, len(names))
	res := Result{Vendor: []string{}, BuiltIn: []string{}}
	for _, n := range names {
		key := deps.NormalizePkgName(n)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if c.builtins.Contains(key) {
			res.BuiltIn = append(res.BuiltIn, key)
		} else {
			res.Vendor = append(res.Vendor, key)
		}
	}
	slices.Sort(res.Vendor)
	slices.Sort(res.BuiltIn)
	return res
}

// ClassifySet classifies the names of a dependency report.
func (c *Classifier) ClassifySet(set deps.DependencySet) Result {
	return c.Classify(slices.Collect(maps.Keys(set)))
}
