// Package demo wires up the running example from the JustAct paper: a
// consortium publishes the data-access agreement, an administrator authorises
// amy, amy enacts her access with a proper justification, and anton tries to
// authorise himself on the administrator's behalf. An auditor agent checks
// every enactment it sees and reports the verdicts.
package demo

import (
	"io"

	"justact/internal/console"
	"justact/internal/sim"
	"justact/pkg/justact"
)

// The policies the agents state, in the surface syntax.
const (
	policyAgreement = `owns(administrator, Data) :- ctl-accesses(Accessor, Data).
error :- ctl-accesses(Accessor, Data), owns(Owner, Data), not ctl-authorises(Owner, Accessor, Data).
`
	policyAuthoriseAmy = "ctl-authorises(administrator, amy, x-rays).\n"
	policyAccessAmy    = "ctl-accesses(amy, x-rays).\n"
	policyForgeAnton   = "ctl-authorises(administrator, anton, x-rays).\n"
	policyAccessAnton  = "ctl-accesses(anton, x-rays).\n"
)

// Consortium states the agreement s1, agrees on it for time 1, and advances
// the clock there.
type Consortium struct{}

func (Consortium) ID() string { return "consortium" }

func (Consortium) Poll(view *sim.View) (sim.AgentPoll, error) {
	msg := justact.Message{ID: "s1", Author: "consortium", Payload: []byte(policyAgreement)}
	view.State(justact.TargetAll(), msg)
	view.Agree(justact.Agreement{Message: msg, ValidAt: 1})
	view.Advance(1)
	return sim.AgentDead, nil
}

// Administrator authorises amy's access once it has seen the agreement.
type Administrator struct{}

func (Administrator) ID() string { return "administrator" }

func (Administrator) Poll(view *sim.View) (sim.AgentPoll, error) {
	if !view.Stated().Contains("s1") {
		return sim.AgentAlive, nil
	}
	view.State(justact.TargetAll(), justact.Message{
		ID: "s2", Author: "administrator", Payload: []byte(policyAuthoriseAmy),
	})
	return sim.AgentDead, nil
}

// Amy enacts her access as soon as she is authorised, justifying it with the
// administrator's statement.
type Amy struct{}

func (Amy) ID() string { return "amy" }

func (Amy) Poll(view *sim.View) (sim.AgentPoll, error) {
	if !view.Stated().Contains("s2") {
		return sim.AgentAlive, nil
	}
	enact := justact.Message{ID: "s3", Author: "amy", Payload: []byte(policyAccessAmy)}
	view.State(justact.TargetAll(), enact)

	basis, _ := view.Agreed().Get("s1")
	authorisation, _ := view.Stated().Get("s2")
	view.Enact(justact.TargetAll(), justact.Action{
		Basis:         basis,
		Justification: justact.NewLocalSet(authorisation),
		Enacts:        enact,
		TakenAt:       view.Current(),
	})
	return sim.AgentDead, nil
}

// Anton authorises himself in the administrator's name and enacts an access
// on top of it. The authorship guard taints his justification, so the audit
// has to fail.
type Anton struct{}

func (Anton) ID() string { return "anton" }

func (Anton) Poll(view *sim.View) (sim.AgentPoll, error) {
	// Wait until amy has moved so the traces read like the paper.
	if !view.Stated().Contains("s3") {
		return sim.AgentAlive, nil
	}
	forged := justact.Message{ID: "s4", Author: "anton", Payload: []byte(policyForgeAnton)}
	enact := justact.Message{ID: "s5", Author: "anton", Payload: []byte(policyAccessAnton)}
	view.State(justact.TargetAll(), forged)
	view.State(justact.TargetAll(), enact)

	basis, _ := view.Agreed().Get("s1")
	view.Enact(justact.TargetAll(), justact.Action{
		Basis:         basis,
		Justification: justact.NewLocalSet(forged),
		Enacts:        enact,
		TakenAt:       view.Current(),
	})
	return sim.AgentDead, nil
}

// Auditor audits every enactment it has not seen before and reports the
// verdict on the console.
type Auditor struct {
	console *console.Interface
	seen    map[string]bool

	// Verdicts collects the outcome per audited action id; nil means passed.
	Verdicts map[string]error
}

// NewAuditor builds an auditor reporting to the given console (may be nil).
func NewAuditor(cons *console.Interface) *Auditor {
	return &Auditor{console: cons, seen: make(map[string]bool), Verdicts: make(map[string]error)}
}

func (*Auditor) ID() string { return "auditor" }

func (a *Auditor) Poll(view *sim.View) (sim.AgentPoll, error) {
	for _, id := range view.Enacted().IDs() {
		if a.seen[id] {
			continue
		}
		a.seen[id] = true
		act, _ := view.Enacted().Get(id)
		verdict := justact.Audit(act, view.Stated(), view.Agreed())
		a.Verdicts[id] = verdict
		if a.console == nil {
			continue
		}
		if verdict == nil {
			a.console.LogAuditPass(a.ID(), id)
		} else {
			a.console.LogAuditFail(a.ID(), id, verdict)
		}
	}
	return sim.AgentAlive, nil
}

// Run plays the whole scenario on a fresh simulation, writing the trace to
// out, and returns the auditor so callers can inspect the verdicts.
func Run(out io.Writer, maxTicks int) (*Auditor, error) {
	if out == nil {
		out = io.Discard
	}
	cons := console.New(out)
	auditor := NewAuditor(cons)

	simulation := sim.New(cons)
	simulation.Register(Consortium{}, Administrator{}, Amy{}, Anton{}, auditor)
	if err := simulation.Run(maxTicks); err != nil {
		return nil, err
	}
	return auditor, nil
}
