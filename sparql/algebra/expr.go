package algebra

import (
	"strings"

	"github.com/wbrown/janus-sparql/sparql/filter"
)

// Expr is a constraint-algebra expression
type Expr interface {
	String() string
	expr()
}

// Constraint is a triple pattern, or a quad when Graph is set
type Constraint struct {
	Subject   Element
	Predicate Element
	Object    Element
	Graph     Element // nil for the active default graph
}

// Is binds Var to Value
type Is struct {
	Var   *Variable
	Value Element
	Graph Element
}

// SingleTransitive is the transitive closure of one step constraint between
// its subject and object. ZeroStep includes the reflexive case.
type SingleTransitive struct {
	Step     *Constraint
	ZeroStep bool
}

// Transitive is the closure of Step between fixed endpoints
type Transitive struct {
	Step     *Constraint
	From     Element
	To       Element
	ZeroStep bool
}

// Walk enumerates every node reachable from Start by repeating Step
type Walk struct {
	Start Element
	Step  *Constraint
}

// Conjunction joins two or more expressions
type Conjunction struct {
	Operands []Expr
}

// Disjunction is the union of two or more expressions
type Disjunction struct {
	Operands []Expr
}

// Difference removes the rows of Right from Left
type Difference struct {
	Left  Expr
	Right Expr
}

// OptionalJoin is a left outer join of Main and Optional on Filter
type OptionalJoin struct {
	Main     Expr
	Optional Expr
	Filter   filter.Filter
}

// Filtered restricts Expr to rows passing Filter
type Filtered struct {
	Expr   Expr
	Filter filter.Filter
}

// In evaluates Expr against the named graph Graph
type In struct {
	Expr  Expr
	Graph Element
}

// Assignment extends each row of Context with Var bound to Value
type Assignment struct {
	Context Expr
	Var     *Variable
	Value   filter.Term
}

// Contradiction matches nothing
type Contradiction struct{}

// False is the expression that matches nothing
var False Expr = &Contradiction{}

// NewConstraint returns the triple constraint (s p o)
func NewConstraint(s, p, o Element) *Constraint {
	return &Constraint{Subject: s, Predicate: p, Object: o}
}

// NewQuad returns the constraint (s p o g)
func NewQuad(s, p, o, g Element) *Constraint {
	return &Constraint{Subject: s, Predicate: p, Object: o, Graph: g}
}

// NewIs binds v to value
func NewIs(v *Variable, value Element) *Is { return &Is{Var: v, Value: value} }

// Conj returns the conjunction of its operands
func Conj(a, b Expr, more ...Expr) *Conjunction {
	return &Conjunction{Operands: append([]Expr{a, b}, more...)}
}

// Disj returns the disjunction of its operands
func Disj(a, b Expr, more ...Expr) *Disjunction {
	return &Disjunction{Operands: append([]Expr{a, b}, more...)}
}

// ConjoinAll conjoins exprs. No operands yields False; one yields the
// operand itself.
func ConjoinAll(exprs []Expr) Expr {
	switch len(exprs) {
	case 0:
		return False
	case 1:
		return exprs[0]
	}
	return &Conjunction{Operands: exprs}
}

// DisjoinAll is ConjoinAll for disjunctions
func DisjoinAll(exprs []Expr) Expr {
	switch len(exprs) {
	case 0:
		return False
	case 1:
		return exprs[0]
	}
	return &Disjunction{Operands: exprs}
}

// NewOptionalJoin returns main OPTIONAL opt. A nil filter means true.
func NewOptionalJoin(main, opt Expr, f filter.Filter) *OptionalJoin {
	if f == nil {
		f = filter.True
	}
	return &OptionalJoin{Main: main, Optional: opt, Filter: f}
}

func NewFiltered(e Expr, f filter.Filter) *Filtered { return &Filtered{Expr: e, Filter: f} }
func NewIn(e Expr, graph Element) *In               { return &In{Expr: e, Graph: graph} }

func NewAssignment(ctx Expr, v *Variable, value filter.Term) *Assignment {
	return &Assignment{Context: ctx, Var: v, Value: value}
}

func (c *Constraint) String() string {
	parts := []string{c.Subject.String(), c.Predicate.String(), c.Object.String()}
	if c.Graph != nil {
		parts = append(parts, c.Graph.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (i *Is) String() string {
	if i.Graph != nil {
		return "(is " + i.Var.String() + " " + i.Value.String() + " " + i.Graph.String() + ")"
	}
	return "(is " + i.Var.String() + " " + i.Value.String() + ")"
}

func (t *SingleTransitive) String() string {
	if t.ZeroStep {
		return "(closure* " + t.Step.String() + ")"
	}
	return "(closure+ " + t.Step.String() + ")"
}

func (t *Transitive) String() string {
	head := "(transitive+ "
	if t.ZeroStep {
		head = "(transitive* "
	}
	return head + t.Step.String() + " " + t.From.String() + " " + t.To.String() + ")"
}

func (w *Walk) String() string {
	return "(walk " + w.Start.String() + " " + w.Step.String() + ")"
}

func (c *Conjunction) String() string { return exprList("and", c.Operands) }
func (d *Disjunction) String() string { return exprList("or", d.Operands) }

func (d *Difference) String() string {
	return "(minus " + d.Left.String() + " " + d.Right.String() + ")"
}

func (o *OptionalJoin) String() string {
	s := "(optional " + o.Main.String() + " " + o.Optional.String()
	if !filter.IsTrue(o.Filter) {
		s += " :filter " + o.Filter.String()
	}
	return s + ")"
}

func (f *Filtered) String() string {
	return "(filter " + f.Filter.String() + " " + f.Expr.String() + ")"
}

func (i *In) String() string {
	return "(in " + i.Graph.String() + " " + i.Expr.String() + ")"
}

func (a *Assignment) String() string {
	return "(bind " + a.Context.String() + " " + a.Var.String() + " " + a.Value.String() + ")"
}

func (*Contradiction) String() string { return "false" }

func exprList(head string, exprs []Expr) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(head)
	for _, e := range exprs {
		sb.WriteString(" ")
		sb.WriteString(e.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (*Constraint) expr()       {}
func (*Is) expr()               {}
func (*SingleTransitive) expr() {}
func (*Transitive) expr()       {}
func (*Walk) expr()             {}
func (*Conjunction) expr()      {}
func (*Disjunction) expr()      {}
func (*Difference) expr()       {}
func (*OptionalJoin) expr()     {}
func (*Filtered) expr()         {}
func (*In) expr()               {}
func (*Assignment) expr()       {}
func (*Contradiction) expr()    {}
