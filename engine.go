package rql

import "go.uber.org/zap"

// Engine is the optional stateful entry point for callers that want
// tracing of the parse pipeline (package autocomplete has its own
// Engine for the autocomplete pipeline). The package-level
// Parse/IsValid functions are backed by a default, no-op Engine,
// mirroring the teacher's pattern of injecting a *zap.Logger into
// long-lived components (lsp.Server) while still offering bare functions
// for callers that don't need one.
type Engine struct {
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the Engine's trace logger. A nil logger is treated as
// zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = zap.NewNop()
		}
		e.logger = logger
	}
}

// New constructs an Engine. With no options it behaves identically to the
// package-level functions.
func New(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// Parse is the Engine-bound counterpart of the package-level Parse.
func (e *Engine) Parse(text string, schema *Schema) (*QueryTree, error) {
	tree, perr := e.parse(text, schema)
	if perr != nil {
		return nil, perr
	}
	return tree, nil
}

// IsValid is the Engine-bound counterpart of the package-level IsValid.
func (e *Engine) IsValid(text string, schema *Schema) bool {
	_, err := e.Parse(text, schema)
	return err == nil
}
