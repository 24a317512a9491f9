package autocomplete

import (
	"strings"

	"go.uber.org/zap"

	"github.com/reflog-io/rql"
)

// Suggestion is one completion candidate. When ReplacePartial is false,
// ReplaceLength is always 0 and the client inserts InsertText at the
// cursor without replacing anything; otherwise ReplaceLength equals the
// byte length of the context's partial.
type Suggestion struct {
	Label          string
	InsertText     string
	ReplacePartial bool
	ReplaceLength  int
}

// topLevelCandidates are the five clause openers offered at ContextTopLevel,
// in a fixed enumeration order.
var topLevelCandidates = []struct {
	key   string
	label string
}{
	{"entity", "entity:"},
	{"limit", "limit:"},
	{"order", "order:"},
	{"include", "include:"},
	{"where", "where:("},
}

// whereOperatorLabels are the six comparison operators offered as
// WhereField's exact-match override.
var whereOperatorLabels = []string{"=", "!=", "<", ">", "<=", ">="}

// Suggest turns a classified CursorContext into a ranked, prefix-filtered,
// deduped suggestion list. Suggest is total — it never fails, returning an
// empty slice for any context it does not recognize or for a nil schema
// where one is required.
func Suggest(ctx CursorContext, schema *rql.Schema) []Suggestion {
	return suggestWithLogger(ctx, schema, zap.NewNop())
}

// SuggestAt composes Context and Suggest for callers that only have the raw
// query text and cursor.
func SuggestAt(text string, cursor int, schema *rql.Schema) []Suggestion {
	return Suggest(Context(text, cursor), schema)
}

func suggestWithLogger(ctx CursorContext, schema *rql.Schema, logger *zap.Logger) []Suggestion {
	logger.Debug("autocomplete: suggesting", zap.Int("kind", int(ctx.Kind)))

	switch ctx.Kind {
	case ContextTopLevel:
		return suggestTopLevel(ctx)
	case ContextEntityValue:
		return suggestEntityValue(ctx, schema)
	case ContextLimitValue:
		return nil
	case ContextOrderValue:
		return suggestOrderValue(ctx, schema)
	case ContextIncludeValue:
		return suggestIncludeValue(ctx, schema)
	case ContextWhereField:
		return suggestWhereField(ctx, schema)
	case ContextWhereValue:
		return suggestWhereValue(ctx, schema)
	default: // ContextUnknown
		return nil
	}
}

func suggestTopLevel(ctx CursorContext) []Suggestion {
	var out []Suggestion
	for _, cand := range topLevelCandidates {
		if ctx.UsedKeys[cand.key] {
			continue
		}
		if !matchesPrefixFold(cand.label, ctx.Partial) {
			continue
		}
		out = append(out, suggestion(cand.label, ctx.Partial, true))
	}
	return out
}

func suggestEntityValue(ctx CursorContext, schema *rql.Schema) []Suggestion {
	if schema == nil {
		return nil
	}
	var out []Suggestion
	seen := make(map[string]bool)
	for _, e := range schema.Entities {
		if !matchesPrefixFold(e.Name, ctx.Partial) || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out = append(out, suggestion(e.Name, ctx.Partial, true))
	}
	return out
}

func suggestOrderValue(ctx CursorContext, schema *rql.Schema) []Suggestion {
	var out []Suggestion
	seen := make(map[string]bool)
	for _, e := range relevantEntities(schema, ctx.EntityValue) {
		for _, f := range e.FieldOrder {
			if seen[f] || !matchesPrefixFold(f, ctx.Partial) {
				continue
			}
			seen[f] = true
			out = append(out, suggestion(f, ctx.Partial, true))
		}
	}
	if ctx.AfterField {
		for _, dir := range []string{"asc", "desc"} {
			if matchesPrefixFold(dir, ctx.Partial) {
				out = append(out, suggestion(dir, ctx.Partial, true))
			}
		}
	}
	return out
}

func suggestIncludeValue(ctx CursorContext, schema *rql.Schema) []Suggestion {
	var out []Suggestion
	seen := make(map[string]bool)
	for _, e := range relevantEntities(schema, ctx.EntityValue) {
		for _, rel := range e.Relations {
			if seen[rel] || !matchesPrefixFold(rel, ctx.Partial) {
				continue
			}
			seen[rel] = true
			out = append(out, suggestion(rel, ctx.Partial, true))
		}
	}
	return out
}

func suggestWhereField(ctx CursorContext, schema *rql.Schema) []Suggestion {
	entities := relevantEntities(schema, ctx.EntityValue)

	for _, e := range entities {
		if _, ok := e.Field(ctx.Partial); ok {
			var ops []Suggestion
			for _, op := range whereOperatorLabels {
				ops = append(ops, Suggestion{Label: op, InsertText: op, ReplacePartial: false, ReplaceLength: 0})
			}
			return ops
		}
	}

	var out []Suggestion
	seen := make(map[string]bool)
	for _, e := range entities {
		for _, f := range e.FieldOrder {
			if seen[f] || !matchesPrefixFold(f, ctx.Partial) {
				continue
			}
			seen[f] = true
			out = append(out, suggestion(f, ctx.Partial, true))
		}
	}
	return out
}

func suggestWhereValue(ctx CursorContext, schema *rql.Schema) []Suggestion {
	var out []Suggestion
	seen := make(map[string]bool)
	for _, e := range relevantEntities(schema, ctx.EntityValue) {
		fd, ok := e.Field(ctx.Field)
		if !ok {
			continue
		}
		for _, v := range fd.Values {
			if seen[v] || !matchesPrefixFold(v, ctx.Partial) {
				continue
			}
			seen[v] = true
			out = append(out, suggestion(v, ctx.Partial, true))
		}
	}
	return out
}

// relevantEntities returns the schema entities whose name equals or
// prefix-matches entityValue, case-insensitively. An empty entityValue
// matches every entity.
func relevantEntities(schema *rql.Schema, entityValue string) []*rql.EntityDef {
	if schema == nil {
		return nil
	}
	var out []*rql.EntityDef
	for i := range schema.Entities {
		if entityValue == "" || matchesPrefixFold(schema.Entities[i].Name, entityValue) {
			out = append(out, &schema.Entities[i])
		}
	}
	return out
}

// matchesPrefixFold reports whether label starts with partial, ASCII
// case-insensitively.
func matchesPrefixFold(label, partial string) bool {
	return strings.HasPrefix(strings.ToLower(label), strings.ToLower(partial))
}

// suggestion builds a Suggestion whose ReplaceLength follows replacePartial.
func suggestion(label, partial string, replacePartial bool) Suggestion {
	s := Suggestion{Label: label, InsertText: label, ReplacePartial: replacePartial}
	if replacePartial {
		s.ReplaceLength = len(partial)
	}
	return s
}
