package justact

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"justact/pkg/datalog"
)

// CtlPrefix marks predicates whose first argument names the only agent
// allowed to derive them. A message whose author states a ctl- fact on behalf
// of someone else taints the whole extraction.
const CtlPrefix = "ctl-"

// errorAtom is the zero-arity sentinel whose derivability decides validity.
var errorAtom = datalog.NewAtom("error")

// SyntaxError reports that a message payload was not valid policy source.
type SyntaxError struct {
	// MessageID identifies the offending message.
	MessageID string
	// Err is the underlying parse failure, or nil for non-UTF-8 payloads.
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("payload of message '%s' is not valid UTF-8", e.MessageID)
	}
	return fmt.Sprintf("payload of message '%s' is not valid policy: %s", e.MessageID, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Extract parses the payloads of every message in the set and concatenates
// the resulting rules into a single spec, walking messages in ascending
// identifier order so the result is the same for any iteration order of the
// set.
//
// While concatenating, every consequent whose predicate starts with "ctl-"
// must carry the contributing message's author as its first argument; any
// violation marks the extraction as tainted and appends the single ground
// rule `error.` to the spec, making it unconditionally invalid. The returned
// flag reports whether that guard triggered.
func Extract(set *LocalSet[Message]) (*datalog.Spec, bool, error) {
	spec := &datalog.Spec{}
	tainted := false
	for _, id := range set.IDs() {
		msg, _ := set.Get(id)
		if !utf8.Valid(msg.Payload) {
			return nil, false, &SyntaxError{MessageID: msg.ID}
		}
		fragment, err := datalog.Parse(msg.ID, string(msg.Payload))
		if err != nil {
			return nil, false, &SyntaxError{MessageID: msg.ID, Err: err}
		}
		if !tainted && forgesControl(fragment, msg.Author) {
			tainted = true
		}
		spec.Rules = append(spec.Rules, fragment.Rules...)
	}
	if tainted {
		spec.Rules = append(spec.Rules, datalog.Rule{Consequents: []datalog.Atom{errorAtom}})
	}
	return spec, tainted, nil
}

// forgesControl reports whether any consequent in the fragment asserts a
// ctl- predicate that is not under the author's control: no arguments, a
// variable first argument, or a first argument naming someone else.
func forgesControl(fragment *datalog.Spec, author string) bool {
	for _, rule := range fragment.Rules {
		for _, cons := range rule.Consequents {
			if !strings.HasPrefix(cons.Ident.Value, CtlPrefix) {
				continue
			}
			if len(cons.Args) == 0 {
				return true
			}
			first := cons.Args[0]
			if first.Var || first.Ident.Value != author {
				return true
			}
		}
	}
	return false
}
