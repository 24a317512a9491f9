package autocomplete_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflog-io/rql"
	"github.com/reflog-io/rql/autocomplete"
)

// TestContextClassifiesEntityValueAfterColon covers context("entity:U", 8)
// classifying as EntityValue with partial "U".
func TestContextClassifiesEntityValueAfterColon(t *testing.T) {
	t.Parallel()

	ctx := autocomplete.Context("entity:U", 8)
	require.Equal(t, autocomplete.ContextEntityValue, ctx.Kind)
	assert.Equal(t, "U", ctx.Partial)
}

// TestContextClassifiesCursorPastCompletedWhereAsTopLevel covers a cursor
// sitting in a fresh top-level segment after a completed where:(...)
// clause, with usedKeys accumulated from the whole query.
func TestContextClassifiesCursorPastCompletedWhereAsTopLevel(t *testing.T) {
	t.Parallel()

	text := `entity:User where:(status!=active) l`
	ctx := autocomplete.Context(text, len(text))
	require.Equal(t, autocomplete.ContextTopLevel, ctx.Kind)
	assert.Equal(t, "l", ctx.Partial)
	assert.True(t, ctx.UsedKeys["entity"])
	assert.True(t, ctx.UsedKeys["where"])
}

func TestContextNeverFailsForAnyCursorOffset(t *testing.T) {
	t.Parallel()

	inputs := []string{
		``,
		`entity:`,
		`where:(a=1 AND`,
		`where:(a="unterminated`,
		`entity:users where:((a=1)`,
		`order:`,
		`order: `,
		`include:a,,b`,
	}
	for _, in := range inputs {
		for c := -5; c <= len(in)+5; c++ {
			assert.NotPanics(t, func() {
				autocomplete.Context(in, c)
			}, "input %q cursor %d", in, c)
		}
	}
}

func TestContextCursorPastCompletedWhereIsTopLevel(t *testing.T) {
	t.Parallel()

	text := `entity:users where:(status=active) `
	ctx := autocomplete.Context(text, len(text))
	assert.Equal(t, autocomplete.ContextTopLevel, ctx.Kind)
	assert.Equal(t, "", ctx.Partial)
}

func TestContextEmptyQueryIsTopLevel(t *testing.T) {
	t.Parallel()

	ctx := autocomplete.Context("", 0)
	assert.Equal(t, autocomplete.ContextTopLevel, ctx.Kind)
	assert.Equal(t, "", ctx.Partial)
	assert.Empty(t, ctx.UsedKeys)
}

func TestContextLimitValue(t *testing.T) {
	t.Parallel()

	ctx := autocomplete.Context("limit:1 ", len("limit:1"))
	require.Equal(t, autocomplete.ContextLimitValue, ctx.Kind)
	assert.Equal(t, "1", ctx.Partial)
}

func TestContextOrderValueAfterFieldOffersDirection(t *testing.T) {
	t.Parallel()

	text := "order:price "
	ctx := autocomplete.Context(text, len(text))
	require.Equal(t, autocomplete.ContextOrderValue, ctx.Kind)
	assert.True(t, ctx.AfterField)
	assert.Equal(t, "", ctx.Partial)
}

func TestContextOrderValuePartialField(t *testing.T) {
	t.Parallel()

	text := "order:pri"
	ctx := autocomplete.Context(text, len(text))
	require.Equal(t, autocomplete.ContextOrderValue, ctx.Kind)
	assert.False(t, ctx.AfterField)
	assert.Equal(t, "pri", ctx.Partial)
}

func TestContextOrderValueNothingTypedYetIsTopLevel(t *testing.T) {
	t.Parallel()

	text := "order: "
	ctx := autocomplete.Context(text, len(text))
	assert.Equal(t, autocomplete.ContextTopLevel, ctx.Kind)
}

func TestContextOrderValueSecondTermAfterComma(t *testing.T) {
	t.Parallel()

	text := "order:price asc,na"
	ctx := autocomplete.Context(text, len(text))
	require.Equal(t, autocomplete.ContextOrderValue, ctx.Kind)
	assert.Equal(t, "na", ctx.Partial)
}

func TestContextIncludeValue(t *testing.T) {
	t.Parallel()

	text := "entity:users include:posts,com"
	ctx := autocomplete.Context(text, len(text))
	require.Equal(t, autocomplete.ContextIncludeValue, ctx.Kind)
	assert.Equal(t, "com", ctx.Partial)
	assert.Equal(t, "users", ctx.EntityValue)
}

func TestContextWhereFieldEmptyAfterOpenParen(t *testing.T) {
	t.Parallel()

	text := "entity:users where:("
	ctx := autocomplete.Context(text, len(text))
	require.Equal(t, autocomplete.ContextWhereField, ctx.Kind)
	assert.Equal(t, "", ctx.Partial)
	assert.Equal(t, "users", ctx.EntityValue)
}

func TestContextWhereFieldPartial(t *testing.T) {
	t.Parallel()

	text := "entity:users where:(stat"
	ctx := autocomplete.Context(text, len(text))
	require.Equal(t, autocomplete.ContextWhereField, ctx.Kind)
	assert.Equal(t, "stat", ctx.Partial)
}

func TestContextWhereFieldAfterKeyword(t *testing.T) {
	t.Parallel()

	text := "entity:users where:(a=1 AND "
	ctx := autocomplete.Context(text, len(text))
	require.Equal(t, autocomplete.ContextWhereField, ctx.Kind)
	assert.Equal(t, "", ctx.Partial)
}

func TestContextWhereValueAfterOperator(t *testing.T) {
	t.Parallel()

	text := "entity:users where:(status="
	ctx := autocomplete.Context(text, len(text))
	require.Equal(t, autocomplete.ContextWhereValue, ctx.Kind)
	assert.Equal(t, "status", ctx.Field)
	assert.Equal(t, rql.OpEq, ctx.Op)
	assert.Equal(t, "", ctx.Partial)
}

func TestContextWhereValuePartial(t *testing.T) {
	t.Parallel()

	text := "entity:users where:(status=act"
	ctx := autocomplete.Context(text, len(text))
	require.Equal(t, autocomplete.ContextWhereValue, ctx.Kind)
	assert.Equal(t, "status", ctx.Field)
	assert.Equal(t, rql.OpEq, ctx.Op)
	assert.Equal(t, "act", ctx.Partial)
}

func TestContextWhereValueQuotedPartial(t *testing.T) {
	t.Parallel()

	text := `entity:users where:(status="ac`
	ctx := autocomplete.Context(text, len(text))
	require.Equal(t, autocomplete.ContextWhereValue, ctx.Kind)
	assert.Equal(t, "ac", ctx.Partial)
}

func TestContextWhereValueLongerOperator(t *testing.T) {
	t.Parallel()

	text := "entity:users where:(age>="
	ctx := autocomplete.Context(text, len(text))
	require.Equal(t, autocomplete.ContextWhereValue, ctx.Kind)
	assert.Equal(t, "age", ctx.Field)
	assert.Equal(t, rql.OpGe, ctx.Op)
}
