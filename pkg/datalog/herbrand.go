package datalog

// The Herbrand machinery enumerates everything a spec can talk about: its
// constants, all assignments of rule variables over those constants, and the
// universe of ground atoms the evaluator has to classify.

// Constants returns the Herbrand constants C of a spec: every identifier that
// appears as a constant argument anywhere, plus every zero-arity head atom
// (indistinguishable from a constant). The result is deduplicated in
// first-appearance order, scanning rules front to back, consequents before
// antecedents, arguments left to right; the quantifier schedule below depends
// on that order being stable.
func Constants(spec *Spec) []Ident {
	var consts []Ident
	seen := make(map[string]struct{})
	add := func(id Ident) {
		if _, ok := seen[id.Value]; ok {
			return
		}
		seen[id.Value] = struct{}{}
		consts = append(consts, id)
	}

	scan := func(atom Atom, head bool) {
		if head && atom.Arity() == 0 {
			add(atom.Ident)
		}
		for _, arg := range atom.Args {
			if !arg.Var {
				add(arg.Ident)
			}
		}
	}
	for _, rule := range spec.Rules {
		for _, cons := range rule.Consequents {
			scan(cons, true)
		}
		for _, ante := range rule.Antecedents {
			scan(ante.Atom, false)
		}
	}
	return consts
}

// VarQuantifier yields the values for the i-th of n distinct variables of a
// rule. Iterating all of a rule's quantifiers in lockstep enumerates every
// assignment of the variables over the constants exactly once, in a fixed
// order: the i-th variable repeats each constant |C|^(n-1-i) times and the
// whole pass |C|^i times, so variable 0 varies slowest and variable n-1
// fastest.
//
//	consts = {a, b, c}, n = 2:
//	  i=0:  a a a b b b c c c
//	  i=1:  a b c a b c a b c
type VarQuantifier struct {
	consts []Ident
	// Counters in the order: repeats of the current constant, index of the
	// current constant, completed passes over the constant list.
	inner, index, outer int
	// i is the position of this variable among the rule's n variables.
	i int
}

// NewVarQuantifier builds the quantifier for the i-th variable of a rule.
func NewVarQuantifier(consts []Ident, i int) *VarQuantifier {
	return &VarQuantifier{consts: consts, i: i}
}

// Next yields the next value, given the total number of distinct variables in
// the rule. The second result is false when the schedule is exhausted.
func (q *VarQuantifier) Next(nVars int) (Ident, bool) {
	if len(q.consts) == 0 {
		return Ident{}, false
	}
	nInner := intPow(len(q.consts), nVars-1-q.i)
	nOuter := intPow(len(q.consts), q.i)
	for {
		switch {
		case q.index < len(q.consts) && q.inner < nInner:
			q.inner++
			return q.consts[q.index], true
		case q.index+1 < len(q.consts):
			q.inner = 0
			q.index++
		case q.outer+1 < nOuter:
			q.inner = 0
			q.index = 0
			q.outer++
		default:
			return Ident{}, false
		}
	}
}

// Reset rewinds the quantifier to its initial state.
func (q *VarQuantifier) Reset() {
	q.inner = 0
	q.index = 0
	q.outer = 0
}

func intPow(base, exp int) int {
	result := 1
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

// ruleVars returns the distinct variables of a rule in appearance order.
func ruleVars(rule *Rule) []Ident {
	var vars []Ident
	seen := make(map[string]struct{})
	scan := func(atom Atom) {
		for _, arg := range atom.Args {
			if !arg.Var {
				continue
			}
			if _, ok := seen[arg.Ident.Value]; ok {
				continue
			}
			seen[arg.Ident.Value] = struct{}{}
			vars = append(vars, arg.Ident)
		}
	}
	for _, cons := range rule.Consequents {
		scan(cons)
	}
	for _, ante := range rule.Antecedents {
		scan(ante.Atom)
	}
	return vars
}

// ruleAssignments steps through every total assignment of a rule's variables
// in the documented quantifier order.
type ruleAssignments struct {
	vars   []Ident
	quants []*VarQuantifier
}

func newRuleAssignments(rule *Rule, consts []Ident) (*ruleAssignments, error) {
	vars := ruleVars(rule)
	if len(vars) > MaxRuleVars {
		return nil, &QuantifyOverflowError{Rule: *rule, Max: MaxRuleVars}
	}
	ra := &ruleAssignments{vars: vars}
	for i := range vars {
		ra.quants = append(ra.quants, NewVarQuantifier(consts, i))
	}
	return ra, nil
}

// next fills assign with the next total assignment. It returns false when the
// schedule is exhausted, or immediately when the rule has variables but there
// are no constants to draw from (such a rule produces nothing).
func (ra *ruleAssignments) next(assign map[string]Ident) bool {
	for i, q := range ra.quants {
		value, ok := q.Next(len(ra.vars))
		if !ok {
			return false
		}
		assign[ra.vars[i].Value] = value
	}
	return true
}

func (ra *ruleAssignments) reset() {
	for _, q := range ra.quants {
		q.Reset()
	}
}

// ExtendUniverse populates the interpretation with the Herbrand universe of
// the spec: every ground instance of every head atom and of every
// negative-antecedent atom, under every assignment of the rule's variables.
// Positive antecedents are left out deliberately; they cannot be derived on
// their own, and negative observation needs explicit membership.
func (i *Interpretation) ExtendUniverse(spec *Spec) error {
	consts := Constants(spec)
	assign := make(map[string]Ident)
	for r := range spec.Rules {
		rule := &spec.Rules[r]

		var atoms []Atom
		atoms = append(atoms, rule.Consequents...)
		for _, ante := range rule.Antecedents {
			if !ante.Positive {
				atoms = append(atoms, ante.Atom)
			}
		}

		ra, err := newRuleAssignments(rule, consts)
		if err != nil {
			return err
		}
		if len(ra.vars) == 0 {
			for _, atom := range atoms {
				i.Insert(atom)
			}
			continue
		}
		for ra.next(assign) {
			for _, atom := range atoms {
				i.Insert(atom.instantiated(assign))
			}
		}
	}
	return nil
}
