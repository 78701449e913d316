package loader

import (
	"reflect"
	"sort"

	"github.com/traefik/yaegi/interp"

	"github.com/ethereum-optimism/infra/op-harness/testname"
)

// Unit is a loaded collection of symbols originating from one source file.
// It owns the interpreter the file was evaluated in; symbol lookups resolve
// against that interpreter's top-level scope. Units are created at discovery
// time, never mutated afterwards (except for the display-location override),
// and discarded at the end of a run.
type Unit struct {
	location  string
	namespace string
	pkg       string
	symbols   []string
	interp    *interp.Interpreter
}

// Location returns the human-readable unit location: the source file path,
// or a caller-supplied override.
func (u *Unit) Location() string {
	return u.location
}

// SetLocation overrides the display location used in qualified test names.
func (u *Unit) SetLocation(location string) {
	u.location = location
}

// Namespace returns the dotted namespace derived from the unit's path below
// the search root (nested directories become nested segments, the file base
// name the final one).
func (u *Unit) Namespace() string {
	return u.namespace
}

// SymbolNames returns all top-level symbol names, sorted for deterministic
// enumeration.
func (u *Unit) SymbolNames() []string {
	names := make([]string, len(u.symbols))
	copy(names, u.symbols)
	sort.Strings(names)
	return names
}

// TestSymbols returns the symbols enumerated as executable tests, in sorted
// order. Underscore-prefixed names are excluded.
func (u *Unit) TestSymbols() []string {
	var tests []string
	for _, name := range u.SymbolNames() {
		if testname.IsEnumerable(name) {
			tests = append(tests, name)
		}
	}
	return tests
}

// HasTests reports whether the unit contains at least one symbol matching
// the test naming convention. Unlike TestSymbols this includes
// underscore-prefixed matches, mirroring the qualification check used when
// deciding whether to keep a unit at all.
func (u *Unit) HasTests() bool {
	for _, name := range u.symbols {
		if testname.IsTestName(name) {
			return true
		}
	}
	return false
}

// HasSymbol reports whether a top-level symbol with the given name exists.
func (u *Unit) HasSymbol(name string) bool {
	for _, s := range u.symbols {
		if s == name {
			return true
		}
	}
	return false
}

// Lookup resolves a top-level symbol to its runtime value. The boolean is
// false when the symbol does not exist or cannot be resolved; callers decide
// what to do with non-callable values.
func (u *Unit) Lookup(name string) (reflect.Value, bool) {
	if !u.HasSymbol(name) {
		return reflect.Value{}, false
	}

	// Symbols of a main-package unit live in the interpreter's top-level
	// scope; other package names need qualification.
	expr := name
	if u.pkg != "" && u.pkg != "main" {
		expr = u.pkg + "." + name
	}

	v, err := u.interp.Eval(expr)
	if err != nil && expr != name {
		v, err = u.interp.Eval(name)
	}
	if err != nil {
		return reflect.Value{}, false
	}
	return v, true
}
