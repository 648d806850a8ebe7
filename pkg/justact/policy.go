package justact

import (
	"fmt"

	"justact/pkg/datalog"
)

// ValidityError explains why a spec is not valid policy: the sentinel `error`
// is not definitely false in its well-founded model. The full interpretation
// is carried so an auditor can show exactly what was derived.
type ValidityError struct {
	// Truth is the closed-world truth the sentinel ended up with: True when
	// `error` was derived, Unknown when the program leaves it undecided.
	Truth datalog.Truth
	// Interpretation is the complete well-founded model.
	Interpretation *datalog.Interpretation
}

func (e *ValidityError) Error() string {
	return fmt.Sprintf("policy is invalid: 'error' is %s in the well-founded model", e.Truth)
}

// Validate evaluates the spec to its well-founded model and checks that the
// zero-arity atom `error` is definitely false there. Anything else — derived
// true, or left unknown — makes the policy invalid. Evaluation failures
// (QuantifyOverflowError) are returned as-is.
func Validate(spec *datalog.Spec) error {
	model, err := spec.AlternatingFixpoint()
	if err != nil {
		return err
	}
	if truth := model.ClosedWorldTruth(errorAtom); truth != datalog.False {
		return &ValidityError{Truth: truth, Interpretation: model}
	}
	return nil
}
