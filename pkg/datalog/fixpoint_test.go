package datalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluate(t *testing.T, src string) *Interpretation {
	t.Helper()
	model, err := mustParse(t, src).AlternatingFixpoint()
	require.NoError(t, err)
	return model
}

func TestFixpointFactsAndRules(t *testing.T) {
	model := evaluate(t, "foo. bar :- foo.")
	assert.Equal(t, 2, model.Len())
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("foo")))
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("bar")))
	assert.Equal(t, False, model.ClosedWorldTruth(NewAtom("baz")))
}

func TestFixpointNegation(t *testing.T) {
	model := evaluate(t, "foo. bar(foo) :- foo. bar(bar) :- not bar.")
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("foo")))
	assert.Equal(t, False, model.ClosedWorldTruth(NewAtom("bar")))
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("bar", "foo")))
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("bar", "bar")))
}

func TestFixpointSelfNegationIsUnknown(t *testing.T) {
	// The defining case for the three-valued model.
	model := evaluate(t, "foo :- not foo.")
	assert.Equal(t, 1, model.Len())
	assert.Equal(t, Unknown, model.ClosedWorldTruth(NewAtom("foo")))
}

func TestFixpointVariables(t *testing.T) {
	model := evaluate(t, "foo. bar. baz(foo). quz(X) :- baz(X). qux(X) :- not baz(X).")
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("baz", "foo")))
	assert.Equal(t, False, model.ClosedWorldTruth(NewAtom("baz", "bar")))
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("quz", "foo")))
	assert.Equal(t, False, model.ClosedWorldTruth(NewAtom("quz", "bar")))
	assert.Equal(t, False, model.ClosedWorldTruth(NewAtom("qux", "foo")))
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("qux", "bar")))
}

func TestFixpointWinsGameCycle(t *testing.T) {
	model := evaluate(t, `
		mov(a, b). mov(b, a). mov(b, c). mov(c, d).
		wins(X) :- mov(X, Y), not wins(Y).
	`)
	assert.Equal(t, 8, model.Len())
	assert.Equal(t, Unknown, model.ClosedWorldTruth(NewAtom("wins", "a")))
	assert.Equal(t, Unknown, model.ClosedWorldTruth(NewAtom("wins", "b")))
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("wins", "c")))
	assert.Equal(t, False, model.ClosedWorldTruth(NewAtom("wins", "d")))
	for _, pair := range [][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}, {"c", "d"}} {
		assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("mov", pair[0], pair[1])))
	}
}

func TestFixpointWinsGameTree(t *testing.T) {
	// The acyclic game: every position is decided.
	model := evaluate(t, `
		wins(X) :- mov(X, Y), not wins(Y).
		mov(a, b). mov(a, e).
		mov(b, c). mov(b, d). mov(e, f). mov(e, g).
		mov(g, h). mov(g, i).
	`)
	want := map[string]Truth{
		"a": False, "b": True, "c": False, "d": False, "e": True,
		"f": False, "g": True, "h": False, "i": False,
	}
	for pos, truth := range want {
		assert.Equal(t, truth, model.ClosedWorldTruth(NewAtom("wins", pos)), "wins(%s)", pos)
	}
}

func TestFixpointAlternation(t *testing.T) {
	// Van Gelder's example 5.1: a and b hang in a cycle, the p/q/r component
	// is definitely false.
	model := evaluate(t, `
		a :- c, not b.
		b :- not a.
		c.
		p :- q, not r.
		p :- r, not s.
		p :- t.
		q :- p.
		r :- q.
		r :- not c.
	`)
	assert.Equal(t, 7, model.Len())
	assert.Equal(t, Unknown, model.ClosedWorldTruth(NewAtom("a")))
	assert.Equal(t, Unknown, model.ClosedWorldTruth(NewAtom("b")))
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("c")))
	for _, name := range []string{"p", "q", "r", "s", "t"} {
		assert.Equal(t, False, model.ClosedWorldTruth(NewAtom(name)), "%s", name)
	}
}

func TestFixpointStratifiedAgreesWithPerfectModel(t *testing.T) {
	// A stratified program has a unique perfect model; the well-founded model
	// must coincide with it, with nothing left unknown.
	model := evaluate(t, `
		edge(a, b). edge(b, c).
		reach(X) :- edge(a, X).
		reach(Y) :- reach(X), edge(X, Y).
		unreached(X) :- edge(X, Y), not reach(X).
	`)
	assert.Empty(t, model.AtomsWhere(Unknown), "stratified programs leave nothing unknown")
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("reach", "b")))
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("reach", "c")))
	assert.Equal(t, False, model.ClosedWorldTruth(NewAtom("reach", "a")))
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("unreached", "a")))
	assert.Equal(t, False, model.ClosedWorldTruth(NewAtom("unreached", "b")))
}

func TestFixpointEmptySpec(t *testing.T) {
	model := evaluate(t, "")
	assert.True(t, model.IsEmpty())
}

func TestFixpointUnsafeRule(t *testing.T) {
	// A consequent variable that no positive antecedent binds is enumerated
	// over the constants; with no constants at all, the rule derives nothing
	// instead of erroring.
	model := evaluate(t, "p(X) :- not q(X).")
	assert.True(t, model.IsEmpty())

	model = evaluate(t, "c. p(X) :- not q(X).")
	assert.Equal(t, True, model.ClosedWorldTruth(NewAtom("p", "c")))
	assert.Equal(t, False, model.ClosedWorldTruth(NewAtom("q", "c")))
}

func TestImmediateConsequenceMonotone(t *testing.T) {
	spec := mustParse(t, "foo. bar :- foo. baz :- bar.")
	i := NewInterpretation()
	require.NoError(t, i.ExtendUniverse(spec))

	changed, err := spec.ImmediateConsequence(i)
	require.NoError(t, err)
	assert.True(t, changed)
	before := i.AtomsWhere(True)

	// A second saturation adds nothing and removes nothing.
	changed, err = spec.ImmediateConsequence(i)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, i.AtomsWhere(True))
}
