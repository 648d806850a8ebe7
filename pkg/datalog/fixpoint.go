package datalog

import "fmt"

// MaxRuleVars bounds the number of distinct variables a single rule may
// quantify over. The assignment buffer is sized for this bound; rules beyond
// it fail with QuantifyOverflowError instead of silently exploding.
const MaxRuleVars = 16

// QuantifyOverflowError reports a rule with more distinct variables than the
// engine is willing to quantify over.
type QuantifyOverflowError struct {
	Rule Rule
	Max  int
}

func (e *QuantifyOverflowError) Error() string {
	return fmt.Sprintf("rule '%s' has more than %d distinct variables; cannot quantify over its assignments", e.Rule.String(), e.Max)
}

// ImmediateConsequence saturates the interpretation under the spec's rules:
// for every rule and every assignment of its variables over the spec's
// constants, if every positive antecedent is known true and every negative
// antecedent is known false, the consequents are learned true. The pass
// repeats until a full sweep derives nothing new.
//
// The absence of a mark satisfies neither polarity. Negative antecedents only
// hold through the explicit false-knowledge a preceding stable transform put
// in place, which is what makes the alternation below sound.
//
// Returns whether any sweep changed the interpretation.
func (s *Spec) ImmediateConsequence(i *Interpretation) (bool, error) {
	consts := Constants(s)
	assign := make(map[string]Ident, MaxRuleVars)

	// Prepared per rule once; reset per sweep.
	ras := make([]*ruleAssignments, len(s.Rules))
	for r := range s.Rules {
		ra, err := newRuleAssignments(&s.Rules[r], consts)
		if err != nil {
			return false, err
		}
		ras[r] = ra
	}

	anyChange := false
	changed := true
	for changed {
		changed = false
	rules:
		for r := range s.Rules {
			rule := &s.Rules[r]
			ra := ras[r]

			if len(ra.vars) == 0 {
				for _, ante := range rule.Antecedents {
					if !i.KnowsAbout(ante.Atom, ante.Positive) {
						continue rules
					}
				}
				for _, cons := range rule.Consequents {
					if i.Learn(cons, true) != True {
						changed = true
						anyChange = true
					}
				}
				continue
			}

			ra.reset()
		assignments:
			for ra.next(assign) {
				for _, ante := range rule.Antecedents {
					if !i.KnowsAboutAssigned(ante.Atom, assign, ante.Positive) {
						continue assignments
					}
				}
				for _, cons := range rule.Consequents {
					if i.LearnAssigned(cons, assign, true) != True {
						changed = true
						anyChange = true
					}
				}
			}
		}
	}
	return anyChange, nil
}

// AlternatingFixpoint evaluates the spec to its well-founded model: populate
// the Herbrand universe, then alternate the immediate-consequence operator
// with the stable transformation until the interpretation revisits a state.
//
// Stability is detected on a ring of the last three hashes: on an odd
// iteration, if the hash two alternations back equals the current one and the
// hashes in between also agree, the alternation has entered its period-two
// orbit and the interpretation as it stands after the consequence phase (not
// after a transform) is the well-founded model. Termination is guaranteed:
// the universe is finite and each consequence phase is monotone modulo the
// transform's flip.
func (s *Spec) AlternatingFixpoint() (*Interpretation, error) {
	i := NewInterpretation()
	if err := i.ExtendUniverse(s); err != nil {
		return nil, err
	}

	var prev [3]uint64
	for iter := 1; ; iter++ {
		if _, err := s.ImmediateConsequence(i); err != nil {
			return nil, err
		}
		hash := i.Hash()
		if iter%2 == 1 && prev[0] == prev[2] && prev[1] == hash {
			return i, nil
		}
		i.ApplyStableTransform()
		prev[0], prev[1], prev[2] = prev[1], prev[2], hash
	}
}
