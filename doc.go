// Package rql implements a parser, schema validator, and cursor-aware
// autocomplete engine for RQL, a compact single-line query syntax.
//
// A query targets one entity and optionally limits, orders, includes
// relations, and filters with a boolean where-expression:
//
//	entity:users limit:10 where:(status=active OR role=admin)
//
// Parse converts such text into a QueryTree:
//
//	tree, err := rql.Parse(`entity:users limit:10 where:(status=active)`, nil)
//
// Passing a non-nil *Schema additionally validates entity, relation, and
// field references (see Schema, Validate).
//
// The sibling package rql/autocomplete classifies a cursor position inside
// a (possibly invalid, possibly incomplete) query string and produces
// ranked, prefix-filtered suggestions for it.
//
// The package is a pure, synchronous library: no goroutines, no I/O, no
// shared mutable state. Every exported function is safe to call
// concurrently provided its inputs are not concurrently mutated.
package rql
