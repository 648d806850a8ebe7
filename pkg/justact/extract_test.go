package justact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"justact/pkg/datalog"
)

func TestExtractConcatenatesInIDOrder(t *testing.T) {
	set := NewLocalSet(
		Message{ID: "s2", Author: "bob", Payload: []byte("bar :- foo.")},
		Message{ID: "s1", Author: "amy", Payload: []byte("foo.")},
	)
	spec, tainted, err := Extract(set)
	require.NoError(t, err)
	assert.False(t, tainted)
	require.Len(t, spec.Rules, 2)
	assert.Equal(t, "foo.", spec.Rules[0].String(), "message s1 contributes first")
	assert.Equal(t, "bar :- foo.", spec.Rules[1].String())
}

func TestExtractSyntaxError(t *testing.T) {
	set := NewLocalSet(
		Message{ID: "good", Author: "amy", Payload: []byte("foo.")},
		Message{ID: "oops", Author: "bob", Payload: []byte("foo :- ")},
	)
	_, _, err := Extract(set)
	require.Error(t, err)
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "oops", serr.MessageID)
	var perr *datalog.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestExtractRejectsNonUTF8(t *testing.T) {
	set := NewLocalSet(Message{ID: "bin", Author: "amy", Payload: []byte{0xff, 0xfe}})
	_, _, err := Extract(set)
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "bin", serr.MessageID)
	assert.Nil(t, serr.Err)
}

func TestExtractAuthorshipGuard(t *testing.T) {
	t.Run("own control predicate is fine", func(t *testing.T) {
		set := NewLocalSet(Message{ID: "m1", Author: "alice", Payload: []byte("ctl-accesses(alice, x).")})
		spec, tainted, err := Extract(set)
		require.NoError(t, err)
		assert.False(t, tainted)
		require.Len(t, spec.Rules, 1)
		require.NoError(t, Validate(spec))
	})

	t.Run("forged control predicate taints", func(t *testing.T) {
		set := NewLocalSet(
			Message{ID: "m1", Author: "alice", Payload: []byte("ctl-accesses(alice, x).")},
			Message{ID: "m2", Author: "bob", Payload: []byte("ctl-accesses(alice, x).")},
		)
		spec, tainted, err := Extract(set)
		require.NoError(t, err)
		assert.True(t, tainted)

		// Exactly one sentinel rule is appended, at the end.
		sentinels := 0
		for _, rule := range spec.Rules {
			if rule.String() == "error." {
				sentinels++
			}
		}
		assert.Equal(t, 1, sentinels)
		assert.Equal(t, "error.", spec.Rules[len(spec.Rules)-1].String())

		err = Validate(spec)
		var verr *ValidityError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, datalog.True, verr.Truth)
	})

	t.Run("argument-less control predicate taints", func(t *testing.T) {
		set := NewLocalSet(Message{ID: "m1", Author: "alice", Payload: []byte("ctl-lockdown.")})
		_, tainted, err := Extract(set)
		require.NoError(t, err)
		assert.True(t, tainted)
	})

	t.Run("variable first argument taints", func(t *testing.T) {
		set := NewLocalSet(Message{ID: "m1", Author: "alice", Payload: []byte("ctl-accesses(Who, x) :- person(Who).")})
		_, tainted, err := Extract(set)
		require.NoError(t, err)
		assert.True(t, tainted)
	})

	t.Run("control predicate in the body does not taint", func(t *testing.T) {
		set := NewLocalSet(Message{ID: "m1", Author: "alice", Payload: []byte("seen :- ctl-accesses(bob, x).")})
		_, tainted, err := Extract(set)
		require.NoError(t, err)
		assert.False(t, tainted)
	})
}

func TestValidate(t *testing.T) {
	t.Run("valid without error atom", func(t *testing.T) {
		spec, err := datalog.Parse("<t>", "foo. bar :- foo.")
		require.NoError(t, err)
		assert.NoError(t, Validate(spec))
	})

	t.Run("invalid when error derived", func(t *testing.T) {
		spec, err := datalog.Parse("<t>", "error :- foo. foo.")
		require.NoError(t, err)
		verr := new(ValidityError)
		require.ErrorAs(t, Validate(spec), &verr)
		assert.Equal(t, datalog.True, verr.Truth)
		assert.NotNil(t, verr.Interpretation)
	})

	t.Run("invalid when error is unknown", func(t *testing.T) {
		spec, err := datalog.Parse("<t>", "error :- not error.")
		require.NoError(t, err)
		verr := new(ValidityError)
		require.ErrorAs(t, Validate(spec), &verr)
		assert.Equal(t, datalog.Unknown, verr.Truth)
	})
}
