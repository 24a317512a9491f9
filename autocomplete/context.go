package autocomplete

import (
	"strings"

	"go.uber.org/zap"

	"github.com/reflog-io/rql"
)

// ContextKind discriminates CursorContext's tagged-variant shapes.
type ContextKind int

// Cursor context kinds.
const (
	ContextTopLevel ContextKind = iota
	ContextEntityValue
	ContextLimitValue
	ContextOrderValue
	ContextIncludeValue
	ContextWhereField
	ContextWhereValue
	ContextUnknown
)

// CursorContext is the classified result of Stage A: a tagged variant
// over eight shapes. Only the fields relevant to Kind are meaningful; the
// rest are zero.
type CursorContext struct {
	Kind ContextKind

	// Partial is present on every kind: the text immediately before the
	// cursor that a chosen suggestion may replace.
	Partial string

	// UsedKeys is populated for ContextTopLevel: every recognized top-level
	// key seen anywhere in the query (not just before the cursor).
	UsedKeys map[string]bool

	// EntityValue is populated for ContextOrderValue, ContextIncludeValue,
	// ContextWhereField, and ContextWhereValue: the trimmed value of the
	// query's first entity: clause, if any.
	EntityValue string

	// AfterField is populated for ContextOrderValue: true once the user has
	// typed a field name and a trailing space, before a direction keyword.
	AfterField bool

	// Field and Op are populated for ContextWhereValue: the comparison's
	// field name and operator, as already typed.
	Field string
	Op    rql.Op
}

// Context classifies the cursor position in query, tolerating
// syntactically invalid or incomplete input. Context never fails — the
// no-throw contract extends to every byte offset in [0, len(query)], and
// cursor values outside that range are clamped.
func Context(query string, cursor int) CursorContext {
	return contextWithLogger(query, cursor, zap.NewNop())
}

func contextWithLogger(query string, cursor int, logger *zap.Logger) CursorContext {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(query) {
		cursor = len(query)
	}

	clauses, _ := rql.ScanTopLevelClauses(query, false)
	usedKeys := collectUsedKeys(clauses)
	entityValue := entityValueOf(clauses)

	ci := containingClause(clauses, cursor)
	if ci < 0 {
		logger.Debug("autocomplete: cursor in clause gap", zap.Int("cursor", cursor))
		return CursorContext{Kind: ContextTopLevel, Partial: "", UsedKeys: usedKeys}
	}
	cl := clauses[ci]

	if cursor == cl.End && isCompletedWhereClause(cl) {
		logger.Debug("autocomplete: cursor past completed where clause", zap.Int("cursor", cursor))
		return CursorContext{Kind: ContextTopLevel, Partial: "", UsedKeys: usedKeys}
	}

	segment := query[cl.Start:cursor]
	logger.Debug("autocomplete: classifying segment",
		zap.Int("clauseStart", cl.Start), zap.Int("segmentLen", len(segment)))
	return classifySegment(segment, usedKeys, entityValue)
}

// collectUsedKeys scans every clause in the whole query, including any
// clause beyond the cursor, for a recognized top-level key.
func collectUsedKeys(clauses []rql.ClauseSpan) map[string]bool {
	used := make(map[string]bool)
	for _, cl := range clauses {
		idx := strings.IndexByte(cl.Text, ':')
		if idx < 0 {
			continue
		}
		key := strings.ToLower(cl.Text[:idx])
		if rql.IsRecognizedKey(key) {
			used[key] = true
		}
	}
	return used
}

// entityValueOf extracts the trimmed value of the query's first entity:
// clause, or "" if none.
func entityValueOf(clauses []rql.ClauseSpan) string {
	for _, cl := range clauses {
		idx := strings.IndexByte(cl.Text, ':')
		if idx < 0 {
			continue
		}
		if strings.EqualFold(cl.Text[:idx], "entity") {
			return strings.TrimSpace(cl.Text[idx+1:])
		}
	}
	return ""
}

// containingClause returns the index of the clause spanning cursor
// (Start ≤ cursor ≤ End), or -1 if cursor falls in an inter-clause gap.
func containingClause(clauses []rql.ClauseSpan, cursor int) int {
	for i, cl := range clauses {
		if cursor >= cl.Start && cursor <= cl.End {
			return i
		}
	}
	return -1
}

// isCompletedWhereClause reports whether cl is a where:(...) clause whose
// parentheses were actually balanced (as opposed to tolerant-mode scanning
// having run off the end of the string looking for a close paren that
// never came).
func isCompletedWhereClause(cl rql.ClauseSpan) bool {
	if len(cl.Text) < 7 || !strings.EqualFold(cl.Text[:6], "where:") || cl.Text[6] != '(' {
		return false
	}
	_, perr := rql.ScanTopLevelClauses(cl.Text, true)
	return perr == nil
}

// classifySegment maps the text from a clause's start up to the cursor
// onto the right CursorContext shape.
func classifySegment(segment string, usedKeys map[string]bool, entityValue string) CursorContext {
	colon := strings.IndexByte(segment, ':')
	if colon < 0 {
		return CursorContext{Kind: ContextTopLevel, Partial: segment, UsedKeys: usedKeys}
	}
	key := strings.ToLower(segment[:colon])
	if !rql.IsRecognizedKey(key) {
		return CursorContext{Kind: ContextTopLevel, Partial: segment, UsedKeys: usedKeys}
	}
	value := segment[colon+1:]

	switch key {
	case "entity":
		return CursorContext{Kind: ContextEntityValue, Partial: value}
	case "limit":
		return CursorContext{Kind: ContextLimitValue, Partial: strings.TrimSpace(value)}
	case "order":
		return classifyOrderValue(value, usedKeys, entityValue)
	case "include":
		return CursorContext{Kind: ContextIncludeValue, Partial: lastCSVTerm(value), EntityValue: entityValue}
	case "where":
		return classifyWhereValue(value, entityValue)
	default:
		return CursorContext{Kind: ContextTopLevel, Partial: segment, UsedKeys: usedKeys}
	}
}

// classifyOrderValue maps an order:<v> segment's value to a context,
// including the top-level boundary override for "order: " with nothing
// typed yet.
func classifyOrderValue(value string, usedKeys map[string]bool, entityValue string) CursorContext {
	if value != "" && strings.TrimSpace(value) == "" {
		return CursorContext{Kind: ContextTopLevel, Partial: "", UsedKeys: usedKeys}
	}

	current := value
	if idx := strings.LastIndexByte(value, ','); idx >= 0 {
		current = value[idx+1:]
	}

	trimmedPrefix := strings.TrimRight(current, " \t\r\n")
	endsWhitespace := len(current) > 0 && isTrailingSpace(current[len(current)-1])
	if endsWhitespace && trimmedPrefix != "" {
		return CursorContext{Kind: ContextOrderValue, Partial: "", AfterField: true, EntityValue: entityValue}
	}

	fields := strings.Fields(current)
	partial := ""
	if len(fields) > 0 {
		partial = fields[len(fields)-1]
	}
	return CursorContext{Kind: ContextOrderValue, Partial: partial, AfterField: false, EntityValue: entityValue}
}

func isTrailingSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// lastCSVTerm returns the trimmed text after the last comma of a
// comma-separated value (or the whole trimmed value, if there is none).
func lastCSVTerm(value string) string {
	term := value
	if idx := strings.LastIndexByte(value, ','); idx >= 0 {
		term = value[idx+1:]
	}
	return strings.TrimSpace(term)
}

// classifyWhereValue maps a where:<v> segment's value to a context: strip
// the leading/trailing incomplete parens, tokenize the remainder
// tolerantly, and classify by the last one or two tokens.
func classifyWhereValue(value string, entityValue string) CursorContext {
	inner := value
	if strings.HasPrefix(inner, "(") {
		inner = inner[1:]
	}
	if opens, closes := strings.Count(inner, "("), strings.Count(inner, ")"); closes > opens && strings.HasSuffix(inner, ")") {
		inner = inner[:len(inner)-1]
	}

	toks := rql.TokenizeWhere(inner)
	if len(toks) == 0 {
		return CursorContext{Kind: ContextWhereField, Partial: "", EntityValue: entityValue}
	}

	last := toks[len(toks)-1]
	switch last.Kind {
	case rql.WhereTokenOp:
		field := ""
		if len(toks) >= 2 {
			field = toks[len(toks)-2].Text
		}
		return CursorContext{Kind: ContextWhereValue, Partial: "", Field: field, Op: rql.Op(last.Text), EntityValue: entityValue}

	case rql.WhereTokenIdent, rql.WhereTokenNumber, rql.WhereTokenBoolean:
		if len(toks) >= 2 && toks[len(toks)-2].Kind == rql.WhereTokenOp {
			field := ""
			if len(toks) >= 3 {
				field = toks[len(toks)-3].Text
			}
			return CursorContext{Kind: ContextWhereValue, Partial: last.Text, Field: field, Op: rql.Op(toks[len(toks)-2].Text), EntityValue: entityValue}
		}
		return CursorContext{Kind: ContextWhereField, Partial: last.Text, EntityValue: entityValue}

	case rql.WhereTokenString:
		if len(toks) >= 2 && toks[len(toks)-2].Kind == rql.WhereTokenOp {
			field := ""
			if len(toks) >= 3 {
				field = toks[len(toks)-3].Text
			}
			return CursorContext{Kind: ContextWhereValue, Partial: last.Value.Str, Field: field, Op: rql.Op(toks[len(toks)-2].Text), EntityValue: entityValue}
		}
		return CursorContext{Kind: ContextWhereField, Partial: last.Value.Str, EntityValue: entityValue}

	default: // WhereTokenLParen, WhereTokenRParen, WhereTokenKeyword
		return CursorContext{Kind: ContextWhereField, Partial: "", EntityValue: entityValue}
	}
}
