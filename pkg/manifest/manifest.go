// Package manifest reads and writes the vendor manifest: a plain-text file
// listing one package per line that the packaging tool installs.
//
// The on-disk format is UTF-8, one normalized (lower-case) package name per
// line, sorted ascending, newline-terminated, with no blank lines and no
// metadata. Writing the same package set twice produces byte-identical files.
package manifest

import (
	"bufio"
	"bytes"
	"os"
	"slices"
	"strings"

	"github.com/matzehuels/vendorpy/pkg/deps"
	"github.com/matzehuels/vendorpy/pkg/errors"
)

// Write replaces the file at path with the given packages. Names are
// normalized, deduplicated and sorted before writing. An empty list creates
// an empty file.
//
// The parent directory must already exist; Write never creates directories.
// Any failure is reported as an errors.ErrCodeManifestWrite error.
func Write(path string, packages []string) error {
	if err := os.WriteFile(path, Encode(packages), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeManifestWrite, err, "write manifest %s", path)
	}
	return nil
}

// Encode renders packages in manifest format.
func Encode(packages []string) []byte {
	names := make([]string, 0, len(packages))
	for _, p := range packages {
		if n := deps.NormalizePkgName(p); n != "" {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	names = slices.Compact(names)

	var buf bytes.Buffer
	for _, n := range names {
		buf.WriteString(n)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Read returns the package names listed in the manifest at path, in file
// order. Blank lines and lines starting with "#" are skipped. Entries that
// are not valid Python package names are rejected so a hand-edited manifest
// cannot smuggle pip options onto the install command line.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := errors.ValidatePythonPackageName(line); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s:%d", path, lineNo)
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}
