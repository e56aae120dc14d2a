// Package call gives decorated functions a dynamic call shape: an ordered
// list of positional arguments plus a set of named (keyword) arguments.
// Decorators in this package rewrite or check that shape before the wrapped
// function sees it.
package call

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Args is one call's arguments.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// Positional builds Args from positional values only.
func Positional(values ...any) Args {
	return Args{Positional: values}
}

// Keywords builds Args from keyword values only.
func Keywords(kw map[string]any) Args {
	return Args{Keyword: maps.Clone(kw)}
}

// Clone copies the positional slice and keyword map so the result can be
// modified without touching a.
func (a Args) Clone() Args {
	return Args{
		Positional: slices.Clone(a.Positional),
		Keyword:    maps.Clone(a.Keyword),
	}
}

// With returns a copy of a with the keyword name set to value.
func (a Args) With(name string, value any) Args {
	out := a.Clone()
	if out.Keyword == nil {
		out.Keyword = make(map[string]any, 1)
	}

	out.Keyword[name] = value

	return out
}

// Has reports whether the keyword name was passed. A nil value still counts.
func (a Args) Has(name string) bool {
	_, ok := a.Keyword[name]

	return ok
}

// Get returns the keyword value for name.
func (a Args) Get(name string) (any, bool) {
	v, ok := a.Keyword[name]

	return v, ok
}

// Len is the total number of arguments.
func (a Args) Len() int {
	return len(a.Positional) + len(a.Keyword)
}

// String renders the arguments as "(1, "x", limit=10)", keywords sorted.
func (a Args) String() string {
	parts := make([]string, 0, a.Len())

	for _, v := range a.Positional {
		parts = append(parts, fmt.Sprintf("%#v", v))
	}

	for _, k := range slices.Sorted(maps.Keys(a.Keyword)) {
		parts = append(parts, fmt.Sprintf("%s=%#v", k, a.Keyword[k]))
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// Arg returns positional argument i as a T.
func Arg[T any](a Args, i int) (T, bool) {
	var zero T

	if i < 0 || i >= len(a.Positional) {
		return zero, false
	}

	v, ok := a.Positional[i].(T)

	return v, ok
}

// Keyword returns the keyword argument name as a T.
func Keyword[T any](a Args, name string) (T, bool) {
	v, ok := a.Keyword[name].(T)

	return v, ok
}
