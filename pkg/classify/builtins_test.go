package classify

import (
	"slices"
	"testing"
)

func TestDefaultBuiltins(t *testing.T) {
	b := DefaultBuiltins()

	if b.Len() != len(cloudflareBuiltins) {
		t.Errorf("Len() = %d, want %d", b.Len(), len(cloudflareBuiltins))
	}
	for _, name := range []string{"fastapi", "requests", "numpy"} {
		if !b.Contains(name) {
			t.Errorf("Contains(%q) = false, want true", name)
		}
	}
	if b.Contains("jinja2") {
		t.Error("jinja2 should not be a built-in")
	}
	if !slices.IsSorted(b.Names()) {
		t.Error("Names() should be sorted")
	}
}

func TestBuiltinSetNormalizes(t *testing.T) {
	b := NewBuiltinSet("FastAPI", "Pydantic_Core", "")

	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
	for _, name := range []string{"fastapi", "FASTAPI", "pydantic-core", "pydantic_core"} {
		if !b.Contains(name) {
			t.Errorf("Contains(%q) = false, want true", name)
		}
	}
}

func TestBuiltinSetImmutable(t *testing.T) {
	b := NewBuiltinSet("fastapi", "requests")

	names := b.Names()
	names[0] = "mutated"
	if b.Contains("mutated") {
		t.Error("Names() must return a copy")
	}

	extended := b.With("Jinja2")
	if b.Contains("jinja2") {
		t.Error("With must not modify the receiver")
	}
	if !extended.Contains("jinja2") || !extended.Contains("fastapi") {
		t.Errorf("With() = %v, want fastapi, jinja2, requests", extended.Names())
	}

	reduced := b.Without("REQUESTS")
	if !b.Contains("requests") {
		t.Error("Without must not modify the receiver")
	}
	if want := []string{"fastapi"}; !slices.Equal(reduced.Names(), want) {
		t.Errorf("Without() = %v, want %v", reduced.Names(), want)
	}
}

func TestZeroBuiltinSet(t *testing.T) {
	var b BuiltinSet
	if b.Contains("fastapi") || b.Len() != 0 || len(b.Names()) != 0 {
		t.Error("zero BuiltinSet should be empty")
	}
}
