// Package deps provides the dependency-report abstractions used by vendorpy.
//
// # Overview
//
// A project's dependencies reach vendorpy as a report produced by an external
// exporter, usually `uv export --format requirements-txt`, or read directly
// from a lock file. Parsers turn those reports into a [DependencySet]: a map
// from normalized package name to pinned version.
//
// # Package Names
//
// Package names compare case-insensitively. [NormalizePkgName] produces the
// canonical lower-case form (PEP 503), so "FastAPI", "fastapi" and
// "Pydantic_Core" / "pydantic-core" collapse to the same key.
//
// # Parsers
//
// Each report format implements [ReportParser]. Use [DetectParser] to pick
// the parser for a file based on its base name:
//
//	p, err := deps.DetectParser("uv.lock", python.Parsers()...)
//	set, err := p.Parse("uv.lock")
//
// Language-specific parsers live in subpackages (see [python]).
package deps
