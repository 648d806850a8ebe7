package datalog

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// Truth is the three-valued state of a ground atom in an interpretation.
type Truth int8

const (
	// Unknown means the interpretation has no conclusive evidence either way.
	Unknown Truth = iota
	// True means the atom is known (or assumed) to hold.
	True
	// False means the atom is known (or assumed) not to hold.
	False
)

func (t Truth) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Interpretation partitions a finite universe of ground atoms into known-true,
// known-false and unknown. It is the working state of the alternating
// fixpoint: the immediate-consequence operator moves atoms from unknown to
// true, and the stable transformation assumes the complement false.
//
// Learning the polarity opposite to an existing mark does not overwrite the
// mark; the atom is then known under both polarities. This is deliberate: a
// contradictory program shows up as an atom marked both ways instead of being
// silently flattened, and KnowsAbout is the only query that can see each side
// separately.
type Interpretation struct {
	tknown  map[string]struct{}
	fknown  map[string]struct{}
	unknown map[string]struct{}
	// defs keeps the canonical atom for every key so iteration and display
	// can reconstruct the universe.
	defs map[string]Atom
}

// NewInterpretation returns an interpretation with an empty universe.
func NewInterpretation() *Interpretation {
	return &Interpretation{
		tknown:  make(map[string]struct{}),
		fknown:  make(map[string]struct{}),
		unknown: make(map[string]struct{}),
		defs:    make(map[string]Atom),
	}
}

// Len returns the size of the universe, counting known and unknown atoms.
func (i *Interpretation) Len() int { return len(i.defs) }

// IsEmpty reports whether the universe holds no atoms at all.
func (i *Interpretation) IsEmpty() bool { return len(i.defs) == 0 }

// Clear drops the whole universe and all knowledge in it.
func (i *Interpretation) Clear() {
	i.tknown = make(map[string]struct{})
	i.fknown = make(map[string]struct{})
	i.unknown = make(map[string]struct{})
	i.defs = make(map[string]Atom)
}

// Insert adds a ground atom to the universe, starting as unknown. Any prior
// true/false mark for the atom is removed. Returns whether the atom was
// already part of the universe.
func (i *Interpretation) Insert(atom Atom) bool {
	key := atom.key()
	delete(i.tknown, key)
	delete(i.fknown, key)
	i.unknown[key] = struct{}{}
	_, existed := i.defs[key]
	i.defs[key] = atom
	return existed
}

// Learn marks an atom of the universe with the given polarity and returns the
// atom's prior state. An unknown atom moves to the requested side; an atom
// already marked with the opposite polarity is additionally marked with the
// new one (see the type comment). Learn panics when the atom is not part of
// the universe, as that is a bug in universe construction.
func (i *Interpretation) Learn(atom Atom, truth bool) Truth {
	return i.learnKey(atom.key(), atom, truth)
}

// LearnAssigned is Learn for an atom with variables, resolved through assign.
func (i *Interpretation) LearnAssigned(atom Atom, assign map[string]Ident, truth bool) Truth {
	return i.learnKey(atom.keyAssigned(assign), atom, truth)
}

func (i *Interpretation) learnKey(key string, atom Atom, truth bool) Truth {
	if _, ok := i.unknown[key]; ok {
		delete(i.unknown, key)
		if truth {
			i.tknown[key] = struct{}{}
		} else {
			i.fknown[key] = struct{}{}
		}
		return Unknown
	}
	_, isTrue := i.tknown[key]
	_, isFalse := i.fknown[key]
	switch {
	case truth && isTrue:
		return True
	case truth && isFalse:
		i.tknown[key] = struct{}{}
		return False
	case !truth && isFalse:
		return False
	case !truth && isTrue:
		i.fknown[key] = struct{}{}
		return True
	default:
		panic(fmt.Sprintf("datalog: cannot learn anything about atom '%s' outside the universe", atom))
	}
}

// KnowsAbout reports whether the atom is marked with exactly the given
// polarity. Both polarities may hold at once for a contradictory atom.
func (i *Interpretation) KnowsAbout(atom Atom, truth bool) bool {
	return i.knowsKey(atom.key(), truth)
}

// KnowsAboutAssigned is KnowsAbout for an atom with variables, resolved
// through assign.
func (i *Interpretation) KnowsAboutAssigned(atom Atom, assign map[string]Ident, truth bool) bool {
	return i.knowsKey(atom.keyAssigned(assign), truth)
}

func (i *Interpretation) knowsKey(key string, truth bool) bool {
	if truth {
		_, ok := i.tknown[key]
		return ok
	}
	_, ok := i.fknown[key]
	return ok
}

// ClosedWorldTruth returns the atom's truth under the closed-world
// assumption: atoms outside the universe are False. A double-marked atom
// reports True; use KnowsAbout to see both sides.
func (i *Interpretation) ClosedWorldTruth(atom Atom) Truth {
	key := atom.key()
	if _, ok := i.tknown[key]; ok {
		return True
	}
	if _, ok := i.fknown[key]; ok {
		return False
	}
	if _, ok := i.unknown[key]; ok {
		return Unknown
	}
	return False
}

// OpenWorldTruth is ClosedWorldTruth except that atoms outside the universe
// are Unknown.
func (i *Interpretation) OpenWorldTruth(atom Atom) Truth {
	key := atom.key()
	if _, ok := i.tknown[key]; ok {
		return True
	}
	if _, ok := i.fknown[key]; ok {
		return False
	}
	return Unknown
}

// ApplyStableTransform performs the stable transformation: every atom not
// derived true becomes assumed false, and every derived truth becomes unknown
// again. Old false marks do not survive as marks; they are recomputed as part
// of the complement, so an atom that was assumed false but derived true in
// the meantime comes back as unknown.
func (i *Interpretation) ApplyStableTransform() {
	for key := range i.fknown {
		if _, ok := i.tknown[key]; !ok {
			i.unknown[key] = struct{}{}
		}
	}
	// The accumulated unknowns are the negated complement; the truths return
	// to unknown for the next consequence phase.
	i.fknown = i.unknown
	i.unknown = i.tknown
	i.tknown = make(map[string]struct{}, len(i.fknown))
}

// Hash returns a deterministic digest of the partition. Two interpretations
// over the same universe hash equally exactly when their true, false and
// unknown sets coincide; the fixpoint loop uses this to detect stability.
func (i *Interpretation) Hash() uint64 {
	digest := fnv.New64a()
	buf := make([]string, 0, len(i.defs))

	writeSet := func(set map[string]struct{}, state byte) {
		buf = buf[:0]
		for key := range set {
			buf = append(buf, key)
		}
		sort.Strings(buf)
		for _, key := range buf {
			digest.Write([]byte{state})
			digest.Write([]byte(key))
			digest.Write([]byte{0})
		}
	}
	writeSet(i.tknown, 2)
	writeSet(i.fknown, 1)
	writeSet(i.unknown, 0)
	return digest.Sum64()
}

// AtomsWhere returns the atoms currently in the given state, sorted by their
// canonical key. For Truth values True and False this includes double-marked
// atoms; for Unknown it is the not-yet-decided remainder.
func (i *Interpretation) AtomsWhere(t Truth) []Atom {
	var set map[string]struct{}
	switch t {
	case True:
		set = i.tknown
	case False:
		set = i.fknown
	default:
		set = i.unknown
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	atoms := make([]Atom, 0, len(keys))
	for _, key := range keys {
		atoms = append(atoms, i.defs[key])
	}
	return atoms
}

// String renders the partition sorted by atom, one truth per line.
func (i *Interpretation) String() string {
	var b strings.Builder
	b.WriteString("Interpretation {\n")
	for _, t := range []Truth{True, False, Unknown} {
		for _, atom := range i.AtomsWhere(t) {
			fmt.Fprintf(&b, "    %s = %s\n", atom, t)
		}
	}
	b.WriteString("}")
	return b.String()
}
