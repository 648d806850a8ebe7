package justact

import "fmt"

// Agreement is a message the collective has accepted as a shared basis,
// valid at one particular time. How the collective got there (consensus,
// dictatorship, ...) is outside the core; the audit only consumes the result.
type Agreement struct {
	Message Message
	ValidAt Time
}

// ElementID keys the agreement by its message identifier.
func (a Agreement) ElementID() string { return a.Message.ID }

func (a Agreement) String() string {
	return fmt.Sprintf("agreement '%s' (valid at %d)", a.Message.ID, a.ValidAt)
}

// Agreements is the collaborator contract for the global agreement set. The
// audit only reads Agreed.
type Agreements interface {
	Agreed() *LocalSet[Agreement]
	Agree(a Agreement) error
}
