package datalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ignoreSpans compares AST nodes on content only, the same equality the
// evaluator uses.
var ignoreSpans = cmpopts.IgnoreTypes(Span{})

func TestParseFacts(t *testing.T) {
	spec, err := Parse("<test>", "foo. bar(baz). quz(qux, quux).")
	require.NoError(t, err)
	require.Len(t, spec.Rules, 3)

	assert.Equal(t, "foo.", spec.Rules[0].String())
	assert.Equal(t, "bar(baz).", spec.Rules[1].String())
	assert.Equal(t, "quz(qux, quux).", spec.Rules[2].String())
	for _, rule := range spec.Rules {
		assert.Empty(t, rule.Antecedents)
	}
}

func TestParseRules(t *testing.T) {
	spec, err := Parse("<test>", `
		// Who wins the game.
		wins(X) :- mov(X, Y), not wins(Y).
		foo, bar :- baz.
	`)
	require.NoError(t, err)
	require.Len(t, spec.Rules, 2)

	wins := spec.Rules[0]
	require.Len(t, wins.Consequents, 1)
	require.Len(t, wins.Antecedents, 2)
	assert.True(t, wins.Consequents[0].Args[0].Var)
	assert.True(t, wins.Antecedents[0].Positive)
	assert.False(t, wins.Antecedents[1].Positive)
	assert.Equal(t, "wins(X) :- mov(X, Y), not wins(Y).", wins.String())

	multi := spec.Rules[1]
	require.Len(t, multi.Consequents, 2)
	assert.Equal(t, "foo, bar :- baz.", multi.String())
}

func TestParseIdentLexicon(t *testing.T) {
	spec, err := Parse("<test>", "ctl-accesses(amy, x-rays). _tmp(Var_1-b).")
	require.NoError(t, err)
	require.Len(t, spec.Rules, 2)
	assert.Equal(t, "ctl-accesses", spec.Rules[0].Consequents[0].Ident.Value)
	assert.Equal(t, "x-rays", spec.Rules[0].Consequents[0].Args[1].Ident.Value)
	assert.Equal(t, "_tmp", spec.Rules[1].Consequents[0].Ident.Value)
	assert.True(t, spec.Rules[1].Consequents[0].Args[0].Var)
	assert.Equal(t, "Var_1-b", spec.Rules[1].Consequents[0].Args[0].Ident.Value)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
	}{
		{"bad identifier", "foo(1).", ErrBadIdent},
		{"empty head", ":- foo.", ErrEmptyHead},
		{"missing dot", "foo :- bar", ErrMissingDot},
		{"missing dot at negation", "foo :- not bar?", ErrMissingDot},
		{"missing arrow", "foo bar.", ErrMissingArrow},
		{"unclosed paren", "foo(bar.", ErrUnclosedParen},
		{"unclosed paren at eof", "foo(bar", ErrUnclosedParen},
		{"trailing garbage", "foo. ?", ErrTrailingGarbage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("<test>", tc.input)
			require.Error(t, err)
			perr, ok := err.(*ParseError)
			require.True(t, ok, "expected *ParseError, got %T", err)
			assert.Equal(t, tc.kind, perr.Kind, "unexpected kind for %q: %v", tc.input, err)
			assert.Equal(t, "<test>", perr.Span.File)
			assert.NotZero(t, perr.Span.Line)
			assert.NotZero(t, perr.Span.Col)
		})
	}
}

func TestParseErrorSpan(t *testing.T) {
	_, err := Parse("<test>", "foo.\nbar(?).")
	require.Error(t, err)
	perr := err.(*ParseError)
	assert.Equal(t, ErrBadIdent, perr.Kind)
	assert.Equal(t, 2, perr.Span.Line)
	assert.Equal(t, 5, perr.Span.Col)
}

func TestReserializeRoundTrip(t *testing.T) {
	sources := []string{
		"foo.",
		"foo. bar(baz).",
		"wins(X) :- mov(X, Y), not wins(Y).",
		"foo, bar :- baz, not quz(qux).",
		"ctl-accesses(amy, x-rays).",
		`owns(administrator, Data) :- ctl-accesses(Accessor, Data).
		 error :- ctl-accesses(Accessor, Data), owns(Owner, Data), not ctl-authorises(Owner, Accessor, Data).`,
	}
	for _, src := range sources {
		spec, err := Parse("<orig>", src)
		require.NoError(t, err, "source %q", src)

		again, err := Parse("<reser>", spec.Reserialize())
		require.NoError(t, err, "reserialized %q", spec.Reserialize())

		assert.True(t, spec.Equal(again), "round-trip changed the AST for %q", src)
		assert.Empty(t, cmp.Diff(spec, again, ignoreSpans))
	}
}

func TestParseReserializeIdempotent(t *testing.T) {
	src := "foo.   bar( baz ) :- foo ,not quz. // comment\n"
	first, err := Parse("<a>", src)
	require.NoError(t, err)
	second, err := Parse("<b>", first.Reserialize())
	require.NoError(t, err)
	assert.Equal(t, first.Reserialize(), second.Reserialize())
}

func TestSpecEqualIgnoresSpans(t *testing.T) {
	a, err := Parse("file_one", "foo :- bar.")
	require.NoError(t, err)
	b, err := Parse("file_two", "  foo   :-   bar  .  ")
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.NotEqual(t, a.Rules[0].Consequents[0].Ident.Span, b.Rules[0].Consequents[0].Ident.Span)
}
