package lang

import (
	"iter"
	"maps"
	"slices"
)

// Globals maps host-supplied names to values. See [ValueOf] for the
// conversion applied to each entry.
type Globals map[string]any

// Environment holds the bindings visible to one evaluation.
//
// It has two scopes: a read-only globals scope seeded by the host and
// reachable only through $name references, and a locals scope written by
// let statements. All names are case-sensitive.
//
// An Environment is not safe for concurrent mutation.
type Environment struct {
	globals map[string]Value
	locals  map[string]Value
}

// NewEnvironment returns an Environment whose globals scope is seeded from
// globals. The map is copied; later changes to it are not observed.
func NewEnvironment(globals Globals) *Environment {
	env := &Environment{
		globals: make(map[string]Value, len(globals)),
		locals:  make(map[string]Value),
	}

	for name, v := range globals {
		env.globals[name] = ValueOf(v)
	}

	return env
}

// Global returns the value of the host global name.
func (e *Environment) Global(name string) (Value, bool) {
	v, ok := e.globals[name]

	return v, ok
}

// Lookup returns the value bound to name by a let statement.
func (e *Environment) Lookup(name string) (Value, bool) {
	v, ok := e.locals[name]

	return v, ok
}

// Bind sets name to v, replacing any prior binding.
// It reports whether a prior binding existed.
func (e *Environment) Bind(name string, v Value) (replaced bool) {
	_, replaced = e.locals[name]
	e.locals[name] = v

	return replaced
}

// Bindings returns an iterator over the let bindings in name order.
func (e *Environment) Bindings() iter.Seq2[string, Value] {
	return sortedSeq(e.locals)
}

// Globals returns an iterator over the host globals in name order.
func (e *Environment) Globals() iter.Seq2[string, Value] {
	return sortedSeq(e.globals)
}

// Names returns the let-bound names in sorted order.
func (e *Environment) Names() []string {
	return slices.Sorted(maps.Keys(e.locals))
}

func sortedSeq(m map[string]Value) iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range slices.Sorted(maps.Keys(m)) {
			if !yield(name, m[name]) {
				return
			}
		}
	}
}
