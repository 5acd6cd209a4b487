// Package classify partitions a project's dependencies into packages the
// target runtime already provides and packages that must be vendored.
//
// # Overview
//
// A [BuiltinSet] is the immutable allow-list of packages the runtime ships
// natively. It is built once at start-up and injected into a [Classifier]:
//
//	c := classify.New(classify.DefaultBuiltins())
//	res := c.Classify([]string{"FastAPI", "jinja2", "markupsafe", "requests"})
//	// res.Vendor  == ["jinja2", "markupsafe"]
//	// res.BuiltIn == ["fastapi", "requests"]
//
// # Guarantees
//
// Classification is pure and cannot fail. Names are normalized with
// [deps.NormalizePkgName] before lookup, so comparison is case-insensitive.
// The two outputs are disjoint, their union is the normalized input, and both
// are sorted ascending so downstream manifests are byte-stable across runs.
//
// Outputs carry the folded PEP 503 form, so the manifest lists
// "zope-interface" for a dependency declared as "zope.interface". pip
// resolves both spellings to the same distribution.
//
// [deps.NormalizePkgName]: github.com/matzehuels/vendorpy/pkg/deps.NormalizePkgName
package classify
