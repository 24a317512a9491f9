package rql

import (
	"strconv"
	"strings"
)

// Render re-serializes a QueryTree into its canonical plain-text form.
// Render is not textually faithful to whatever source text originally
// produced tree — whitespace, clause order, and logical-node flattening
// are lossy — but parsing Render's output reproduces an equivalent tree,
// which is the property callers rely on when round-tripping a tree
// through text.
//
// Clauses are emitted in a fixed order (entity, limit, order, include,
// where) regardless of the order they appeared in the source, mirroring
// the teacher's format.go, which likewise re-derives a canonical layout
// from the AST rather than preserving original token order.
func Render(tree *QueryTree) string {
	var b strings.Builder
	first := true
	write := func(clause string) {
		if !first {
			b.WriteByte(' ')
		}
		b.WriteString(clause)
		first = false
	}

	if tree.HasEntity {
		write("entity:" + tree.Entity)
	}
	if tree.HasLimit {
		write("limit:" + strconv.Itoa(tree.Limit))
	}
	if len(tree.Order) > 0 {
		write("order:" + renderOrder(tree.Order))
	}
	if len(tree.IncludeOrder) > 0 {
		write("include:" + strings.Join(tree.IncludeOrder, ","))
	}
	if tree.HasWhere && tree.Where != nil {
		write("where:(" + renderCondition(*tree.Where) + ")")
	}
	return b.String()
}

func renderOrder(terms []OrderTerm) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.Field + " " + string(t.Dir)
	}
	return strings.Join(parts, ",")
}

func renderCondition(c Condition) string {
	switch c.Kind {
	case ConditionComparison:
		return renderFieldToken(c.Field) + string(c.CmpOp) + c.Value.Render()
	case ConditionAnd:
		return renderLogical(c.Children, "AND")
	case ConditionOr:
		return renderLogical(c.Children, "OR")
	default:
		return ""
	}
}

func renderLogical(children []Condition, joiner string) string {
	parts := make([]string, len(children))
	for i, ch := range children {
		if ch.Kind == ConditionAnd || ch.Kind == ConditionOr {
			parts[i] = "(" + renderCondition(ch) + ")"
		} else {
			parts[i] = renderCondition(ch)
		}
	}
	return strings.Join(parts, " "+joiner+" ")
}

// renderFieldToken quotes a field name if it would not otherwise lex back
// as a single ident token.
func renderFieldToken(field string) string {
	for i := 0; i < len(field); i++ {
		if isIdentBreaker(field[i]) {
			return quoteString(field)
		}
	}
	if field == "" {
		return quoteString(field)
	}
	return field
}
