package justact

import (
	"errors"
	"fmt"

	"justact/pkg/datalog"
)

// The audit explanations below enumerate every way an action can fail its
// audit. They are value-returned, one exported type per case, so callers can
// switch on the failure with errors.As.

// NotStatedError: a message in the action's full justification is not in the
// audited statement set (property P3).
type NotStatedError struct {
	ID string
}

func (e *NotStatedError) Error() string {
	return fmt.Sprintf("justification message '%s' has not been stated", e.ID)
}

// ExtractError: the full justification did not extract to a policy, or the
// extracted policy could not be evaluated (property P5).
type ExtractError struct {
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("cannot extract policy from justification: %s", e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// InvalidError: the extracted policy is not valid — `error` is not definitely
// false in its well-founded model (property P5).
type InvalidError struct {
	// Truth is what the sentinel evaluated to instead of false.
	Truth datalog.Truth
	// Interpretation is the full well-founded model, for explanation.
	Interpretation *datalog.Interpretation
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("justification policy is invalid: 'error' is %s in the well-founded model", e.Truth)
}

// NotAnAgreementError: the action's basis is not in the audited agreement set
// (property P6).
type NotAnAgreementError struct {
	ID string
}

func (e *NotAnAgreementError) Error() string {
	return fmt.Sprintf("basis '%s' is not an agreement", e.ID)
}

// UntimelyError: the basis agreement is not valid at the time the action was
// taken (property P6).
type UntimelyError struct {
	ID      string
	ValidAt Time
	TakenAt Time
}

func (e *UntimelyError) Error() string {
	return fmt.Sprintf("basis '%s' is valid at time %d but the action was taken at time %d", e.ID, e.ValidAt, e.TakenAt)
}

// Audit checks that the action is justified against the given statements and
// agreements. It is a pure function of its arguments: no retries, no
// mutation, no partial results, and the verdict does not depend on the
// iteration order of either set.
//
// The checks run in the fixed order P3 (every message of the full
// justification is stated), P5 (the full justification extracts to a valid
// policy), P6 (the basis is an agreement whose validity time equals the
// action's time); the first failing property is returned. P1, P2 and P4 are
// structural and hold by construction of Message and FullJustification.
func Audit(act Action, stmts *LocalSet[Message], agrs *LocalSet[Agreement]) error {
	full := act.FullJustification()

	// P3: stated. Walk identifiers in sorted order so the first reported
	// offender is deterministic.
	for _, id := range full.IDs() {
		if !stmts.Contains(id) {
			return &NotStatedError{ID: id}
		}
	}

	// P5: valid.
	spec, _, err := Extract(full)
	if err != nil {
		return &ExtractError{Err: err}
	}
	if err := Validate(spec); err != nil {
		var verr *ValidityError
		if errors.As(err, &verr) {
			return &InvalidError{Truth: verr.Truth, Interpretation: verr.Interpretation}
		}
		return &ExtractError{Err: err}
	}

	// P6: based in time.
	basisID := act.Basis.Message.ID
	if !agrs.Contains(basisID) {
		return &NotAnAgreementError{ID: basisID}
	}
	if act.Basis.ValidAt != act.TakenAt {
		return &UntimelyError{ID: basisID, ValidAt: act.Basis.ValidAt, TakenAt: act.TakenAt}
	}
	return nil
}
