package autocomplete

import (
	"go.uber.org/zap"

	"github.com/reflog-io/rql"
)

// Engine is the autocomplete package's counterpart to rql.Engine: an
// optional stateful entry point for callers that want tracing of the
// context-classification and suggestion-synthesis pipelines, without
// forcing every caller to carry a logger.
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
// package-level Context/Suggest/SuggestAt functions.
func New(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Context is the Engine-bound counterpart of the package-level Context.
func (e *Engine) Context(query string, cursor int) CursorContext {
	return contextWithLogger(query, cursor, e.logger)
}

// Suggest is the Engine-bound counterpart of the package-level Suggest.
func (e *Engine) Suggest(ctx CursorContext, schema *rql.Schema) []Suggestion {
	return suggestWithLogger(ctx, schema, e.logger)
}

// SuggestAt is the Engine-bound counterpart of the package-level SuggestAt.
func (e *Engine) SuggestAt(text string, cursor int, schema *rql.Schema) []Suggestion {
	return e.Suggest(e.Context(text, cursor), schema)
}
