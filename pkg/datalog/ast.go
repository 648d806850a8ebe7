// Package datalog implements a negation-capable Datalog dialect together with
// an interpreter for it under the alternating-fixpoint (well-founded)
// semantics.
//
// A program ("spec") is an ordered list of rules. Each rule derives one or
// more consequent atoms whenever all of its antecedent literals hold; a
// negative antecedent holds only when its atom is explicitly known to be
// false, which is what the stable transformation of the alternating fixpoint
// provides. The evaluator classifies every ground atom of the program's
// Herbrand universe as true, false or unknown.
//
// Identity of AST nodes is content-based: two atoms are the same atom exactly
// when their predicate and argument identifiers are equal as strings. Source
// spans are carried for diagnostics only and never participate in equality or
// hashing.
package datalog

import "strings"

// Span locates a token in its source text. Spans exist for error reporting;
// they are ignored by Equal and by every hash the evaluator computes.
type Span struct {
	// File is a human-readable name for the source, e.g. a path or a
	// message identifier.
	File string
	// Line and Col are 1-based.
	Line int
	Col  int
	// Offset and Len delimit the token in bytes.
	Offset int
	Len    int
}

// Ident is a lexical symbol. Constants and predicates start with a lowercase
// letter or underscore, variables with an uppercase letter.
type Ident struct {
	Value string
	Span  Span
}

// Equal reports content equality, ignoring spans.
func (i Ident) Equal(o Ident) bool { return i.Value == o.Value }

func (i Ident) String() string { return i.Value }

// AtomArg is a single argument of an atom: either a constant or a variable.
type AtomArg struct {
	Ident Ident
	// Var marks the argument as a variable rather than a constant.
	Var bool
}

// Equal reports content equality, ignoring spans.
func (a AtomArg) Equal(o AtomArg) bool { return a.Var == o.Var && a.Ident.Equal(o.Ident) }

func (a AtomArg) String() string { return a.Ident.Value }

// Constant builds a constant argument without span information.
func Constant(value string) AtomArg { return AtomArg{Ident: Ident{Value: value}} }

// Variable builds a variable argument without span information.
func Variable(value string) AtomArg { return AtomArg{Ident: Ident{Value: value}, Var: true} }

// Atom is a predicate applied to zero or more arguments. A zero-arity atom is
// indistinguishable from a constant.
type Atom struct {
	Ident Ident
	Args  []AtomArg
}

// NewAtom builds an atom without span information. Arguments starting with an
// uppercase letter are variables, mirroring the surface syntax.
func NewAtom(predicate string, args ...string) Atom {
	atom := Atom{Ident: Ident{Value: predicate}}
	for _, arg := range args {
		if isUpper(arg) {
			atom.Args = append(atom.Args, Variable(arg))
		} else {
			atom.Args = append(atom.Args, Constant(arg))
		}
	}
	return atom
}

func isUpper(s string) bool { return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' }

// Arity returns the number of arguments.
func (a Atom) Arity() int { return len(a.Args) }

// IsGround reports whether no argument is a variable.
func (a Atom) IsGround() bool {
	for _, arg := range a.Args {
		if arg.Var {
			return false
		}
	}
	return true
}

// HasVars is the complement of IsGround.
func (a Atom) HasVars() bool { return !a.IsGround() }

// Equal reports content equality, ignoring spans.
func (a Atom) Equal(o Atom) bool {
	if !a.Ident.Equal(o.Ident) || len(a.Args) != len(o.Args) {
		return false
	}
	for i := range a.Args {
		if !a.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func (a Atom) String() string {
	if len(a.Args) == 0 {
		return a.Ident.Value
	}
	var b strings.Builder
	a.write(&b)
	return b.String()
}

func (a Atom) write(b *strings.Builder) {
	b.WriteString(a.Ident.Value)
	if len(a.Args) == 0 {
		return
	}
	b.WriteByte('(')
	for i, arg := range a.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Ident.Value)
	}
	b.WriteByte(')')
}

// key returns the canonical ground-atom key for a. The key is what every set
// and hash inside the evaluator derives identity from; calling it on an atom
// that still has variables is a bug of the caller.
func (a Atom) key() string {
	var b strings.Builder
	b.WriteString(a.Ident.Value)
	for _, arg := range a.Args {
		b.WriteByte('(')
		b.WriteString(arg.Ident.Value)
		b.WriteByte(')')
	}
	return b.String()
}

// keyAssigned is key after substituting variables through assign.
func (a Atom) keyAssigned(assign map[string]Ident) string {
	var b strings.Builder
	b.WriteString(a.Ident.Value)
	for _, arg := range a.Args {
		b.WriteByte('(')
		if arg.Var {
			b.WriteString(assign[arg.Ident.Value].Value)
		} else {
			b.WriteString(arg.Ident.Value)
		}
		b.WriteByte(')')
	}
	return b.String()
}

// instantiated returns a copy of a with every variable substituted through
// assign. The result carries no spans for substituted arguments.
func (a Atom) instantiated(assign map[string]Ident) Atom {
	if a.IsGround() {
		return a
	}
	inst := Atom{Ident: a.Ident, Args: make([]AtomArg, len(a.Args))}
	for i, arg := range a.Args {
		if arg.Var {
			inst.Args[i] = AtomArg{Ident: Ident{Value: assign[arg.Ident.Value].Value}}
		} else {
			inst.Args[i] = arg
		}
	}
	return inst
}

// Literal is an atom or its negation-as-failure.
type Literal struct {
	Atom Atom
	// Positive is false for "not <atom>".
	Positive bool
}

// Pos wraps an atom in a positive literal.
func Pos(a Atom) Literal { return Literal{Atom: a, Positive: true} }

// Neg wraps an atom in a negative literal.
func Neg(a Atom) Literal { return Literal{Atom: a} }

// Equal reports content equality, ignoring spans.
func (l Literal) Equal(o Literal) bool { return l.Positive == o.Positive && l.Atom.Equal(o.Atom) }

func (l Literal) String() string {
	if l.Positive {
		return l.Atom.String()
	}
	return "not " + l.Atom.String()
}

// Rule derives its consequents whenever all antecedents hold. A rule without
// antecedents is an unconditional fact.
type Rule struct {
	Consequents []Atom
	Antecedents []Literal
}

// Equal reports content equality, ignoring spans.
func (r Rule) Equal(o Rule) bool {
	if len(r.Consequents) != len(o.Consequents) || len(r.Antecedents) != len(o.Antecedents) {
		return false
	}
	for i := range r.Consequents {
		if !r.Consequents[i].Equal(o.Consequents[i]) {
			return false
		}
	}
	for i := range r.Antecedents {
		if !r.Antecedents[i].Equal(o.Antecedents[i]) {
			return false
		}
	}
	return true
}

func (r Rule) String() string {
	var b strings.Builder
	for i, cons := range r.Consequents {
		if i > 0 {
			b.WriteString(", ")
		}
		cons.write(&b)
	}
	if len(r.Antecedents) > 0 {
		b.WriteString(" :- ")
		for i, ante := range r.Antecedents {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(ante.String())
		}
	}
	b.WriteByte('.')
	return b.String()
}

// Spec is an ordered list of rules: a complete Datalog program.
type Spec struct {
	Rules []Rule
}

// Equal reports content equality, ignoring spans.
func (s *Spec) Equal(o *Spec) bool {
	if len(s.Rules) != len(o.Rules) {
		return false
	}
	for i := range s.Rules {
		if !s.Rules[i].Equal(o.Rules[i]) {
			return false
		}
	}
	return true
}

func (s *Spec) String() string { return s.Reserialize() }

// Reserialize renders the spec as source text that Parse accepts and that
// parses back to an equal spec (modulo spans).
func (s *Spec) Reserialize() string {
	var b strings.Builder
	for _, rule := range s.Rules {
		b.WriteString(rule.String())
		b.WriteByte('\n')
	}
	return b.String()
}
