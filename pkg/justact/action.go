package justact

import "fmt"

// Action is a justified enactment: an agent claims that enacting one message
// follows from an agreement (the basis) through a set of justifying
// statements, at a particular time.
//
// Justification holds the supporting messages only; the basis message and the
// enactment are implied members and FullJustification adds them back. That
// structural inclusion is what discharges property P4 of the framework.
type Action struct {
	Basis         Agreement
	Justification *LocalSet[Message]
	Enacts        Message
	TakenAt       Time
}

// ElementID keys the action by its enactment, which is the statement the
// action brings into effect.
func (a Action) ElementID() string { return a.Enacts.ID }

func (a Action) String() string {
	return fmt.Sprintf("action enacting '%s' on basis '%s' at %d", a.Enacts.ID, a.Basis.Message.ID, a.TakenAt)
}

// FullJustification returns the justification together with the basis message
// and the enactment. The returned set is freshly allocated; the action is not
// modified.
func (a Action) FullJustification() *LocalSet[Message] {
	var full *LocalSet[Message]
	if a.Justification != nil {
		full = a.Justification.Clone()
	} else {
		full = NewLocalSet[Message]()
	}
	full.Add(a.Basis.Message)
	full.Add(a.Enacts)
	return full
}
