package rql

import "fmt"

// ParseError is the single error kind returned by Parse and Validate. Its
// failure taxonomy (clause-structure, scalar, where, and schema failures)
// is discriminated entirely by Msg, not by distinct Go types — mirroring
// the teacher's flat LexerError.
type ParseError struct {
	// Msg is the human-readable, caller-facing message: short, naming the
	// offending value and listing known alternatives where relevant.
	Msg string
	// Offset is the byte offset in the source text at which the error was
	// detected, or -1 if not applicable (e.g. a schema-validation error has
	// no single offending offset).
	Offset int
}

func (e *ParseError) Error() string { return e.Msg }

// errf builds a *ParseError with a formatted message at the given byte
// offset. Mirrors the teacher's LexerError.withPos/withChar builders,
// collapsed into one constructor since RQL errors carry at most one extra
// datum (the offset).
func errf(offset int, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Offset: offset}
}
