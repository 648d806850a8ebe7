// Package sim runs JustAct agents in a synchronous, tick-driven simulation.
//
// Each tick, every live agent is polled once with a snapshot view of the
// statements, agreements and time it is aware of. Whatever the agent states,
// enacts, agrees or advances during the poll is queued on the view and stays
// invisible to every read within the same tick; after all agents have polled,
// the simulator commits the queues in a deterministic order (agents in
// registration order, entries in enqueue order) and the next tick begins.
// This is the single-logical-time-step contract the core's sharing rules
// assume.
package sim

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"justact/internal/console"
	"justact/internal/logging"
	"justact/pkg/justact"
)

// AgentPoll is what an agent reports after a poll.
type AgentPoll int

const (
	// AgentAlive keeps the agent in the poll rotation.
	AgentAlive AgentPoll = iota
	// AgentDead retires the agent; it is never polled again.
	AgentDead
)

// Agent is a participant in the simulation.
type Agent interface {
	ID() string
	Poll(view *View) (AgentPoll, error)
}

// Simulation owns the global time, the agreement ledger, and the per-agent
// statement pools.
type Simulation struct {
	runID   string
	log     *zap.Logger
	console *console.Interface

	agents []Agent
	dead   map[string]bool

	now     justact.Time
	agreed  *justact.LocalSet[justact.Agreement]
	stated  map[string]*justact.LocalSet[justact.Message]
	enacted map[string]*justact.LocalSet[justact.Action]
}

// New builds an empty simulation. The console may be nil to run silently.
func New(cons *console.Interface) *Simulation {
	return &Simulation{
		runID:   uuid.NewString(),
		log:     logging.L(logging.CategorySim),
		console: cons,
		dead:    make(map[string]bool),
		agreed:  justact.NewLocalSet[justact.Agreement](),
		stated:  make(map[string]*justact.LocalSet[justact.Message]),
		enacted: make(map[string]*justact.LocalSet[justact.Action]),
	}
}

// Register adds agents to the poll rotation, in order.
func (s *Simulation) Register(agents ...Agent) {
	for _, agent := range agents {
		s.agents = append(s.agents, agent)
		s.stated[agent.ID()] = justact.NewLocalSet[justact.Message]()
		s.enacted[agent.ID()] = justact.NewLocalSet[justact.Action]()
		if s.console != nil {
			s.console.Register(agent.ID())
		}
	}
}

// The simulation doubles as the authoritative clock and agreement ledger for
// external drivers; agents only ever touch them through their views.
var (
	_ justact.Times      = (*Simulation)(nil)
	_ justact.Agreements = (*Simulation)(nil)
)

// Current returns the simulation's current time.
func (s *Simulation) Current() justact.Time { return s.now }

// Advance moves the shared clock forward. Moving it backwards is an error.
func (s *Simulation) Advance(t justact.Time) error {
	if t < s.now {
		return fmt.Errorf("cannot advance time backwards from %d to %d", s.now, t)
	}
	s.now = t
	return nil
}

// Agreed returns the global agreement ledger.
func (s *Simulation) Agreed() *justact.LocalSet[justact.Agreement] { return s.agreed }

// Agree records an agreement on the ledger directly, outside any tick.
func (s *Simulation) Agree(agr justact.Agreement) error {
	s.agreed.Add(agr)
	return nil
}

// Stated returns the messages the given agent is aware of.
func (s *Simulation) Stated(agent string) *justact.LocalSet[justact.Message] {
	return s.stated[agent]
}

// Enacted returns the actions the given agent is aware of.
func (s *Simulation) Enacted(agent string) *justact.LocalSet[justact.Action] {
	return s.enacted[agent]
}

// Tick polls every live agent once and commits the queued mutations. It
// returns the number of agents still alive afterwards.
func (s *Simulation) Tick() (int, error) {
	var views []*View
	for _, agent := range s.agents {
		if s.dead[agent.ID()] {
			continue
		}
		view := s.snapshot(agent.ID())
		poll, err := agent.Poll(view)
		if err != nil {
			return 0, fmt.Errorf("polling agent '%s': %w", agent.ID(), err)
		}
		if poll == AgentDead {
			s.dead[agent.ID()] = true
			s.log.Debug("agent retired", zap.String("run", s.runID), zap.String("agent", agent.ID()))
		}
		views = append(views, view)
	}

	for _, view := range views {
		s.commit(view)
	}

	alive := 0
	for _, agent := range s.agents {
		if !s.dead[agent.ID()] {
			alive++
		}
	}
	s.log.Debug("tick committed",
		zap.String("run", s.runID),
		zap.Uint64("time", uint64(s.now)),
		zap.Int("alive", alive))
	return alive, nil
}

// Run ticks until every agent is dead or maxTicks is reached.
func (s *Simulation) Run(maxTicks int) error {
	for tick := 0; tick < maxTicks; tick++ {
		alive, err := s.Tick()
		if err != nil {
			return err
		}
		if alive == 0 {
			return nil
		}
	}
	return nil
}

// snapshot builds an agent's view for one poll: clones of everything the
// agent may read, plus empty queues for what it wants to change.
func (s *Simulation) snapshot(agent string) *View {
	return &View{
		agent:   agent,
		now:     s.now,
		stated:  s.stated[agent].Clone(),
		enacted: s.enacted[agent].Clone(),
		agreed:  s.agreed.Clone(),
	}
}

// commit applies one view's queues against the authoritative state.
func (s *Simulation) commit(view *View) {
	for _, q := range view.statedQueue {
		for _, target := range s.deliveryTargets(q.target) {
			s.stated[target].Add(q.msg)
		}
		if s.console != nil {
			s.console.LogState(q.msg.Author, q.msg)
		}
	}
	for _, q := range view.enactQueue {
		for _, target := range s.deliveryTargets(q.target) {
			s.enacted[target].Add(q.act)
		}
		if s.console != nil {
			s.console.LogEnact(q.act.Enacts.Author, q.act)
		}
	}
	for _, agr := range view.agreeQueue {
		s.agreed.Add(agr)
		if s.console != nil {
			s.console.LogAgree(view.agent, agr)
		}
	}
	for _, t := range view.advanceQueue {
		if t > s.now {
			s.now = t
		}
	}
}

func (s *Simulation) deliveryTargets(target justact.Target) []string {
	if !target.All() {
		return []string{target.Agent()}
	}
	ids := make([]string, 0, len(s.agents))
	for _, agent := range s.agents {
		ids = append(ids, agent.ID())
	}
	return ids
}

// View is the snapshot one agent gets for one poll. Reads see the state as of
// the start of the tick; writes are queued and committed after the tick.
// View implements the Statements contract and exposes the read half of the
// Agreements and Times contracts.
type View struct {
	agent   string
	now     justact.Time
	stated  *justact.LocalSet[justact.Message]
	enacted *justact.LocalSet[justact.Action]
	agreed  *justact.LocalSet[justact.Agreement]

	statedQueue  []queuedMessage
	enactQueue   []queuedAction
	agreeQueue   []justact.Agreement
	advanceQueue []justact.Time
}

var _ justact.Statements = (*View)(nil)

type queuedMessage struct {
	target justact.Target
	msg    justact.Message
}

type queuedAction struct {
	target justact.Target
	act    justact.Action
}

// Agent returns the identifier of the agent being polled.
func (v *View) Agent() string { return v.agent }

// Current returns the time as of the start of the tick.
func (v *View) Current() justact.Time { return v.now }

// Stated returns the messages this agent is aware of.
func (v *View) Stated() *justact.LocalSet[justact.Message] { return v.stated }

// Enacted returns the actions this agent is aware of.
func (v *View) Enacted() *justact.LocalSet[justact.Action] { return v.enacted }

// Agreed returns the agreements as of the start of the tick.
func (v *View) Agreed() *justact.LocalSet[justact.Agreement] { return v.agreed }

// State enqueues a message for the targeted agents.
func (v *View) State(target justact.Target, msg justact.Message) {
	v.statedQueue = append(v.statedQueue, queuedMessage{target: target, msg: msg})
}

// Enact enqueues an action for the targeted agents.
func (v *View) Enact(target justact.Target, act justact.Action) {
	v.enactQueue = append(v.enactQueue, queuedAction{target: target, act: act})
}

// Agree enqueues a new agreement on the global ledger.
func (v *View) Agree(agr justact.Agreement) {
	v.agreeQueue = append(v.agreeQueue, agr)
}

// Advance enqueues a forward move of the shared clock. Moves backwards are
// ignored at commit.
func (v *View) Advance(t justact.Time) {
	v.advanceQueue = append(v.advanceQueue, t)
}
