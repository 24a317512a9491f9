package rql

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ClauseSpan is one top-level clause substring and its byte span in the
// source text.
type ClauseSpan struct {
	Start, End int
	Text       string
}

// ScanTopLevelClauses splits s into top-level clauses: skip whitespace,
// then classify each clause start by one of four rules (quoted-string
// opener, order: with embedded spaces, where:(...) with matching-paren
// consumption, default consume-until-whitespace).
//
// In strict mode, an unbalanced where:(...) parenthesis is a hard error.
// In tolerant mode (used by the autocompleter, which must classify a
// cursor inside syntactically incomplete input) the same situation
// consumes to end-of-string instead of failing. Exported so the
// autocomplete package can reuse the exact same splitter rather than
// reimplementing clause boundaries.
func ScanTopLevelClauses(s string, strict bool) ([]ClauseSpan, *ParseError) {
	var out []ClauseSpan
	n := len(s)
	i := 0
	for i < n {
		i = skipSpaces(s, i)
		if i >= n {
			break
		}
		start := i
		var end int

		switch {
		case s[i] == '"':
			_, qend, _ := scanQuoted(s, i)
			end = qend

		case matchesKeyColonAt(s, i, "order"):
			end = scanOrderClauseEnd(s, i)

		case matchesKeyColonAt(s, i, "where") && i+6 < n && s[i+6] == '(':
			qend, ok := scanParenBalanced(s, i+6)
			if !ok {
				if strict {
					return out, errf(i+6, "Unbalanced parentheses in where clause")
				}
				qend = n
			}
			end = qend

		default:
			end = scanUntilSpace(s, i)
		}

		if end <= start {
			end = start + 1
		}
		out = append(out, ClauseSpan{Start: start, End: end, Text: s[start:end]})
		i = end
	}
	return out, nil
}

// matchesKeyColonAt reports whether s[i:] begins with key + ":"
// case-insensitively.
func matchesKeyColonAt(s string, i int, key string) bool {
	kc := key + ":"
	return i+len(kc) <= len(s) && strings.EqualFold(s[i:i+len(kc)], kc)
}

// matchesAnyKeyColonAt reports whether s[i:] begins with one of the five
// recognized keys followed by ":", case-insensitively.
func matchesAnyKeyColonAt(s string, i int) bool {
	for _, k := range RecognizedKeys {
		if matchesKeyColonAt(s, i, k) {
			return true
		}
	}
	return false
}

// scanOrderClauseEnd consumes an order: clause's value past any embedded
// whitespace, stopping at a whitespace character immediately followed by
// a recognized key and colon.
func scanOrderClauseEnd(s string, start int) int {
	n := len(s)
	j := start
	for j < n {
		if isSpace(s[j]) && matchesAnyKeyColonAt(s, j+1) {
			return j
		}
		j++
	}
	return n
}

// scanParenBalanced consumes from openIdx (which must point at '(')
// through its matching closing paren, skipping quoted strings and their
// escapes transparently. Returns the index just past the matching ')'
// and true, or (best-effort-end, false) if the parens never balance.
func scanParenBalanced(s string, openIdx int) (int, bool) {
	n := len(s)
	depth := 0
	i := openIdx
	for i < n {
		switch s[i] {
		case '"':
			_, end, ok := scanQuoted(s, i)
			i = end
			if !ok {
				return i, false
			}
		case '(':
			depth++
			i++
		case ')':
			depth--
			i++
			if depth == 0 {
				return i, true
			}
			if depth < 0 {
				return i, false
			}
		default:
			i++
		}
	}
	return n, false
}

func scanUntilSpace(s string, i int) int {
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return i
}

// Parse converts text into a QueryTree. If schema is non-nil, the parsed
// tree is additionally validated against it (entity/relation/field
// references).
func Parse(text string, schema *Schema) (*QueryTree, error) {
	return defaultEngine.Parse(text, schema)
}

// IsValid reports whether text parses (and, if schema is non-nil,
// validates) without error.
func IsValid(text string, schema *Schema) bool {
	_, err := Parse(text, schema)
	return err == nil
}

// IsValidErr is IsValid's cousin that also returns the rejection reason
// instead of discarding it.
func IsValidErr(text string, schema *Schema) (bool, *ParseError) {
	_, err := Parse(text, schema)
	if err == nil {
		return true, nil
	}
	return false, err.(*ParseError)
}

// parse is the Engine-bound implementation backing Parse.
func (e *Engine) parse(text string, schema *Schema) (*QueryTree, *ParseError) {
	clauses, perr := ScanTopLevelClauses(text, true)
	if perr != nil {
		return nil, perr
	}
	e.logger.Debug("rql: clauses scanned", zap.Int("count", len(clauses)))

	tree := &QueryTree{}
	seen := make(map[string]bool, len(RecognizedKeys))

	for _, cl := range clauses {
		colon := strings.IndexByte(cl.Text, ':')
		if colon < 0 {
			return nil, errf(cl.Start, "Invalid clause %q: expected key:value", cl.Text)
		}
		rawKey := cl.Text[:colon]
		value := cl.Text[colon+1:]
		key := strings.ToLower(rawKey)

		if !IsRecognizedKey(key) {
			return nil, errf(cl.Start, "Unknown top-level key: %q", rawKey)
		}
		if seen[key] {
			return nil, errf(cl.Start, "Duplicate top-level key: %s", key)
		}
		seen[key] = true

		valueStart := cl.Start + colon + 1
		if perr := applyClause(tree, key, value, valueStart); perr != nil {
			return nil, perr
		}
	}

	if schema != nil {
		if perr := Validate(tree, schema); perr != nil {
			e.logger.Debug("rql: schema validation rejected query", zap.String("reason", perr.Msg))
			return nil, perr
		}
	}
	return tree, nil
}

// applyClause interprets one already-key-resolved clause value.
func applyClause(tree *QueryTree, key, value string, valueStart int) *ParseError {
	switch key {
	case "entity":
		if value == "" {
			return errf(valueStart, "entity must not be empty")
		}
		tree.Entity, tree.HasEntity = value, true

	case "limit":
		n, perr := parseLimitValue(value)
		if perr != nil {
			return perr
		}
		tree.Limit, tree.HasLimit = n, true

	case "order":
		terms, perr := parseOrderValue(value)
		if perr != nil {
			return perr
		}
		tree.Order = terms

	case "include":
		order, m, perr := parseIncludeValue(value)
		if perr != nil {
			return perr
		}
		tree.IncludeOrder, tree.Include = order, m

	case "where":
		cond, perr := parseWhereExpr(value)
		if perr != nil {
			return perr
		}
		tree.Where, tree.HasWhere = cond, true
	}
	return nil
}

// parseLimitValue parses a limit clause's value, distinguishing its three
// rejection reasons (non-numeric, negative, fractional).
func parseLimitValue(v string) (int, *ParseError) {
	if !numberPattern(v) {
		return 0, errf(-1, "limit must be a valid integer")
	}
	if strings.HasPrefix(v, "-") {
		return 0, errf(-1, "limit must be non-negative")
	}
	if strings.Contains(v, ".") {
		return 0, errf(-1, "limit must be an integer without decimals")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errf(-1, "limit must be a valid integer")
	}
	return n, nil
}

// parseOrderValue parses an order clause's comma-separated terms, each a
// whitespace-separated field name and optional direction.
func parseOrderValue(v string) ([]OrderTerm, *ParseError) {
	var terms []OrderTerm
	for _, part := range strings.Split(v, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		fields := strings.Fields(trimmed)
		fieldName := fields[0]
		if eqFold(fieldName, "asc") || eqFold(fieldName, "desc") {
			return nil, errf(-1, "Invalid order term %q: order must be a field name", trimmed)
		}

		dir := Asc
		switch len(fields) {
		case 1:
			// default
		case 2:
			switch {
			case eqFold(fields[1], "asc"):
				dir = Asc
			case eqFold(fields[1], "desc"):
				dir = Desc
			default:
				return nil, errf(-1, "Invalid order term %q: order must be a field name", trimmed)
			}
		default:
			return nil, errf(-1, "Invalid order term %q: order must be a field name", trimmed)
		}
		terms = append(terms, OrderTerm{Field: fieldName, Dir: dir})
	}
	return terms, nil
}

// parseIncludeValue parses an include clause's comma-separated relation
// names, each becoming a true-valued key in insertion order.
func parseIncludeValue(v string) ([]string, map[string]bool, *ParseError) {
	var order []string
	m := make(map[string]bool)
	for _, part := range strings.Split(v, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			return nil, nil, errf(-1, "Invalid include: empty item")
		}
		if !m[trimmed] {
			order = append(order, trimmed)
		}
		m[trimmed] = true
	}
	return order, m, nil
}
