package rql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflog-io/rql"
)

func TestIsRecognizedKey(t *testing.T) {
	t.Parallel()

	for _, k := range rql.RecognizedKeys {
		assert.True(t, rql.IsRecognizedKey(k))
	}
	assert.False(t, rql.IsRecognizedKey("bogus"))
}

func TestScanTopLevelClausesSplitsOnTheFourRules(t *testing.T) {
	t.Parallel()

	clauses, perr := rql.ScanTopLevelClauses(`entity:users limit:10 order:price asc,name where:(status=active)`, true)
	require.Nil(t, perr)

	var texts []string
	for _, cl := range clauses {
		texts = append(texts, cl.Text)
	}
	assert.Equal(t, []string{
		"entity:users",
		"limit:10",
		"order:price asc,name",
		"where:(status=active)",
	}, texts)
}

func TestScanTopLevelClausesUnbalancedWhereIsStrictError(t *testing.T) {
	t.Parallel()

	_, perr := rql.ScanTopLevelClauses(`entity:users where:(status=active`, true)
	require.NotNil(t, perr)
	assert.Contains(t, perr.Error(), "Unbalanced parentheses")
}

func TestScanTopLevelClausesUnbalancedWhereIsTolerantInNonStrictMode(t *testing.T) {
	t.Parallel()

	clauses, perr := rql.ScanTopLevelClauses(`entity:users where:(status=active`, false)
	require.Nil(t, perr)
	require.Len(t, clauses, 2)
	assert.Equal(t, `where:(status=active`, clauses[1].Text)
}

func TestScanTopLevelClausesOrderValueToleratesEmbeddedSpaces(t *testing.T) {
	t.Parallel()

	clauses, perr := rql.ScanTopLevelClauses(`order:price asc,name desc limit:5`, true)
	require.Nil(t, perr)
	require.Len(t, clauses, 2)
	assert.Equal(t, "order:price asc,name desc", clauses[0].Text)
	assert.Equal(t, "limit:5", clauses[1].Text)
}

func TestTokenizeWhereClassifiesEachKind(t *testing.T) {
	t.Parallel()

	toks := rql.TokenizeWhere(`(status = "active" AND age>=18 AND verified=true)`)

	var kinds []rql.WhereTokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []rql.WhereTokenKind{
		rql.WhereTokenLParen,
		rql.WhereTokenIdent,
		rql.WhereTokenOp,
		rql.WhereTokenString,
		rql.WhereTokenKeyword,
		rql.WhereTokenIdent,
		rql.WhereTokenOp,
		rql.WhereTokenNumber,
		rql.WhereTokenKeyword,
		rql.WhereTokenIdent,
		rql.WhereTokenOp,
		rql.WhereTokenBoolean,
		rql.WhereTokenRParen,
	}, kinds)
}

func TestTokenizeWhereLongestOperatorMatchFirst(t *testing.T) {
	t.Parallel()

	toks := rql.TokenizeWhere(`age<=18`)
	require.Len(t, toks, 3)
	assert.Equal(t, "<=", toks[1].Text)
}

func TestTokenizeWhereIsTolerantOfUnterminatedQuote(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		rql.TokenizeWhere(`name="unterminated`)
	})
}
