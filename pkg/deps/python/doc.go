// Package python parses Python dependency reports into a [deps.DependencySet].
//
// # Overview
//
// Supported reports:
//
//   - requirements.txt: the output of `uv export --format requirements-txt`
//     or any hand-written requirements file (pins, extras, markers, hashes)
//   - uv.lock: uv's TOML lock file; only the runtime closure of the project
//     is kept, dev dependency groups are dropped
//   - poetry.lock: Poetry's TOML lock file; packages outside the main group
//     are dropped
//
// Use [Parsers] with [deps.DetectParser] to pick the right one:
//
//	set, err := deps.ParseReport("uv.lock", python.Parsers()...)
//
// # Package Name Normalization
//
// Names are normalized following PEP 503 via [deps.NormalizePkgName]:
// lowercase with runs of [_.-] replaced by single hyphens.
//
// [deps.DependencySet]: github.com/matzehuels/vendorpy/pkg/deps.DependencySet
// [deps.DetectParser]: github.com/matzehuels/vendorpy/pkg/deps.DetectParser
// [deps.NormalizePkgName]: github.com/matzehuels/vendorpy/pkg/deps.NormalizePkgName
package python
