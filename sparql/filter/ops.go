package filter

import "strings"

// ArithmeticOp is a binary arithmetic operator
type ArithmeticOp string

const (
	OpAdd      ArithmeticOp = "+"
	OpSubtract ArithmeticOp = "-"
	OpMultiply ArithmeticOp = "*"
	OpDivide   ArithmeticOp = "/"
)

// Arithmetic applies Op to two numeric operands
type Arithmetic struct {
	Op    ArithmeticOp
	Left  Numeric
	Right Numeric
}

// Minus negates a numeric literal. Negation of computed expressions is not
// representable.
type Minus struct {
	Operand *NumericLiteral
}

// CompareOp is a comparison operator
type CompareOp string

const (
	OpEQ  CompareOp = "="
	OpNE  CompareOp = "!="
	OpLT  CompareOp = "<"
	OpLTE CompareOp = "<="
	OpGT  CompareOp = ">"
	OpGTE CompareOp = ">="
)

// Comparison compares two terms. Equality accepts any terms; ordering
// comparisons are only built over Comparable operands.
type Comparison struct {
	Op    CompareOp
	Left  Term
	Right Term
}

// Not negates a filter
type Not struct {
	Operand Filter
}

// And is the conjunction of two or more filters
type And struct {
	Operands []Filter
}

// Or is the disjunction of two or more filters
type Or struct {
	Operands []Filter
}

func fold(op ArithmeticOp, a, b Numeric, more []Numeric) Numeric {
	result := &Arithmetic{Op: op, Left: a, Right: b}
	for _, n := range more {
		result = &Arithmetic{Op: op, Left: result, Right: n}
	}
	return result
}

// Add folds its operands left to right: Add(a, b, c) is (a + b) + c
func Add(a, b Numeric, more ...Numeric) Numeric { return fold(OpAdd, a, b, more) }

// Subtract folds its operands left to right
func Subtract(a, b Numeric, more ...Numeric) Numeric { return fold(OpSubtract, a, b, more) }

// Multiply folds its operands left to right
func Multiply(a, b Numeric, more ...Numeric) Numeric { return fold(OpMultiply, a, b, more) }

// Divide folds its operands left to right
func Divide(a, b Numeric, more ...Numeric) Numeric { return fold(OpDivide, a, b, more) }

// Negate returns the negation of a numeric literal
func Negate(n *NumericLiteral) *Minus { return &Minus{Operand: n} }

func Equals(a, b Term) *Comparison    { return &Comparison{Op: OpEQ, Left: a, Right: b} }
func NotEquals(a, b Term) *Comparison { return &Comparison{Op: OpNE, Left: a, Right: b} }

func Less(a, b Comparable) *Comparison           { return &Comparison{Op: OpLT, Left: a, Right: b} }
func LessOrEqual(a, b Comparable) *Comparison    { return &Comparison{Op: OpLTE, Left: a, Right: b} }
func Greater(a, b Comparable) *Comparison        { return &Comparison{Op: OpGT, Left: a, Right: b} }
func GreaterOrEqual(a, b Comparable) *Comparison { return &Comparison{Op: OpGTE, Left: a, Right: b} }

// Negation returns the logical negation of f
func Negation(f Filter) *Not { return &Not{Operand: f} }

// Conjunction returns the conjunction of its operands
func Conjunction(a, b Filter, more ...Filter) *And {
	return &And{Operands: append([]Filter{a, b}, more...)}
}

// Disjunction returns the disjunction of its operands
func Disjunction(a, b Filter, more ...Filter) *Or {
	return &Or{Operands: append([]Filter{a, b}, more...)}
}

// Conjoin combines two filters, returning the other operand unchanged when
// either is the literal true.
func Conjoin(a, b Filter) Filter {
	switch {
	case IsTrue(a):
		return b
	case IsTrue(b):
		return a
	}
	return Conjunction(a, b)
}

func (a *Arithmetic) String() string {
	return "(" + string(a.Op) + " " + a.Left.String() + " " + a.Right.String() + ")"
}

func (m *Minus) String() string { return "(- " + m.Operand.String() + ")" }

func (c *Comparison) String() string {
	return "(" + string(c.Op) + " " + c.Left.String() + " " + c.Right.String() + ")"
}

func (n *Not) String() string { return "(not " + n.Operand.String() + ")" }
func (a *And) String() string { return list("and", a.Operands) }
func (o *Or) String() string  { return list("or", o.Operands) }

func list[T Term](head string, terms []T) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(head)
	for _, t := range terms {
		sb.WriteString(" ")
		sb.WriteString(t.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (*Arithmetic) term()       {}
func (*Arithmetic) numeric()    {}
func (*Arithmetic) comparable() {}
func (*Arithmetic) value()      {}

func (*Minus) term()       {}
func (*Minus) numeric()    {}
func (*Minus) comparable() {}
func (*Minus) value()      {}

func (*Comparison) term()   {}
func (*Comparison) filter() {}

func (*Not) term()   {}
func (*Not) filter() {}

func (*And) term()   {}
func (*And) filter() {}

func (*Or) term()   {}
func (*Or) filter() {}
