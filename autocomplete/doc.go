// Package autocomplete implements a two-stage cursor-aware autocomplete
// engine for RQL: Context classifies a cursor position inside a query
// string — including syntactically invalid or incomplete input — and
// Suggest turns a classified context into a ranked, prefix-filtered list
// of completions. Neither function ever returns an error; the engine
// degrades to an empty or best-effort result instead.
//
// The package-level Context and Suggest log through a no-op logger;
// callers that want trace-level diagnostics construct an Engine with New
// and WithLogger, mirroring package rql's Engine.
package autocomplete
