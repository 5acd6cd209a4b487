package classify

import (
	"maps"
	"slices"

	"github.com/matzehuels/vendorpy/pkg/deps"
)

// cloudflareBuiltins lists the packages bundled with the Cloudflare Python
// Workers runtime. Update when the runtime's package list changes.
var cloudflareBuiltins = []string{
	"aiohttp",
	"aiohttp-tests",
	"aiosignal",
	"annotated-types",
	"annotated-types-tests",
	"anyio",
	"async-timeout",
	"attrs",
	"certifi",
	"charset-normalizer",
	"distro",
	"fastapi",
	"frozenlist",
	"h11",
	"h11-tests",
	"hashlib",
	"httpcore",
	"httpx",
	"idna",
	"jsonpatch",
	"jsonpointer",
	"langchain",
	"langchain-core",
	"langchain-openai",
	"langsmith",
	"lzma",
	"micropip",
	"multidict",
	"numpy",
	"numpy-tests",
	"openai",
	"openssl",
	"packaging",
	"pydantic",
	"pydantic-core",
	"pydecimal",
	"pydoc-data",
	"pyyaml",
	"regex",
	"regex-tests",
	"requests",
	"six",
	"sniffio",
	"sniffio-tests",
	"sqlite3",
	"ssl",
	"starlette",
}

// BuiltinSet is an immutable set of normalized package names provided by
// the target runtime. The zero value is an empty set.
type BuiltinSet struct {
	names map[string]struct{}
}

// NewBuiltinSet builds a set from names, normalizing each one. Empty names
// are ignored.
func NewBuiltinSet(names ...string) BuiltinSet {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		if key := deps.NormalizePkgName(n); key != "" {
			m[key] = struct{}{}
		}
	}
	return BuiltinSet{names: m}
}

// DefaultBuiltins returns the Cloudflare Python Workers built-in packages.
func DefaultBuiltins() BuiltinSet {
	return NewBuiltinSet(cloudflareBuiltins...)
}

// Contains reports whether name (in any spelling) is a built-in.
func (b BuiltinSet) Contains(name string) bool {
	_, ok := b.names[deps.NormalizePkgName(name)]
	return ok
}

// Len returns the number of built-in packages.
func (b BuiltinSet) Len() int { return len(b.names) }

// Names returns a sorted copy of the built-in package names.
func (b BuiltinSet) Names() []string {
	return slices.Sorted(maps.Keys(b.names))
}

// With returns a new set containing b's names plus extra. b is unchanged.
func (b BuiltinSet) With(extra ...string) BuiltinSet {
	return NewBuiltinSet(append(b.Names(), extra...)...)
}

// Without returns a new set with the given names removed. b is unchanged.
func (b BuiltinSet) Without(names ...string) BuiltinSet {
	drop := NewBuiltinSet(names...)
	keep := make([]string, 0, b.Len())
	for _, n := range b.Names() {
		if !drop.Contains(n) {
			keep = append(keep, n)
		}
	}
	return NewBuiltinSet(keep...)
}
