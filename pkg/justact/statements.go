package justact

// Target scopes a newly stated message or enacted action: to every agent, or
// to one agent in particular.
type Target struct {
	agent string
}

// TargetAll addresses every agent in the system.
func TargetAll() Target { return Target{} }

// TargetAgent addresses a single agent by identifier.
func TargetAgent(id string) Target { return Target{agent: id} }

// All reports whether the target addresses everyone.
func (t Target) All() bool { return t.agent == "" }

// Agent returns the addressed agent, or "" for an all-target.
func (t Target) Agent() string { return t.agent }

// Statements is the per-agent collaborator contract over stated messages and
// enacted actions. Stated and Enacted are snapshots of what this agent is
// aware of; State and Enact enqueue new items which become observable only
// after the surrounding system commits them (the enqueue is invisible to
// reads within the same poll).
type Statements interface {
	Stated() *LocalSet[Message]
	Enacted() *LocalSet[Action]
	State(target Target, msg Message)
	Enact(target Target, act Action)
}
