package justact

// Time is a logical timestamp. The core only compares times for order and
// equality; a monotone counter is a perfectly good implementation.
type Time uint64

// Times is the collaborator contract for the shared clock. The core only
// reads Current; Advance is mediated by whatever synchronisation mechanism
// the surrounding system runs (a dictator, a vote, ...), which is explicitly
// not the core's concern.
type Times interface {
	Current() Time
	Advance(t Time) error
}
