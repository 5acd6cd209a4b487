package deps

import (
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/vendorpy/pkg/errors"
)

// DependencySet maps normalized package names to their pinned version.
// The version is empty when the report does not pin one.
type DependencySet map[string]string

// Add records name with version under its normalized key. An existing
// non-empty version is kept when version is empty.
func (s DependencySet) Add(name, version string) {
	key := NormalizePkgName(name)
	if key == "" {
		return
	}
	if old, ok := s[key]; ok && version == "" {
		s[key] = old
		return
	}
	s[key] = version
}

// Names returns the normalized package names in ascending order.
func (s DependencySet) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Remove deletes name (in any spelling) from the set.
func (s DependencySet) Remove(name string) {
	delete(s, NormalizePkgName(name))
}

var separatorRun = regexp.MustCompile(`[-_.]+`)

// NormalizePkgName converts a package name to its canonical form.
// Applies lowercase and collapses runs of "-", "_" and "." into a single
// hyphen, following the PEP 503 normalization rules used by PyPI.
func NormalizePkgName(name string) string {
	return separatorRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// ReportParser reads a dependency report from a local file.
type ReportParser interface {
	// Parse reads the report at path and returns the declared dependencies.
	Parse(path string) (DependencySet, error)
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Type returns the report type identifier (e.g., "uv.lock").
	Type() string
}

// DetectParser finds a parser that supports the given file path.
// Returns an INVALID_MANIFEST error if no parser matches.
func DetectParser(path string, parsers ...ReportParser) (ReportParser, error) {
	name := filepath.Base(path)
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidManifest, "unsupported dependency report: %s", name)
}

// ParseReport detects the parser for path and parses it.
func ParseReport(path string, parsers ...ReportParser) (DependencySet, error) {
	p, err := DetectParser(path, parsers...)
	if err != nil {
		return nil, err
	}
	set, err := p.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.Type(), err)
	}
	return set, nil
}
