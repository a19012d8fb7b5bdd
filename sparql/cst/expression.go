// Package cst is the concrete syntax tree handed to the compiler by the
// SPARQL parser. Nodes are read-only for the duration of a compilation.
//
// Every node prints itself in the s-expression fixture notation read by
// package parser, so error messages quote the offending form verbatim.
package cst

import (
	"strconv"
	"strings"
)

// Expression is a scalar or boolean expression, or a term in a triple.
type Expression interface {
	String() string
	expressionNode()
}

// BooleanLiteral is true or false
type BooleanLiteral struct {
	Value bool
}

// IntegerLiteral is an untyped integer such as 42
type IntegerLiteral struct {
	Value int64
}

// DecimalLiteral is an untyped decimal such as 1.5
type DecimalLiteral struct {
	Lexical string
}

// DoubleLiteral is an untyped double such as 1.5e3
type DoubleLiteral struct {
	Lexical string
}

// Variable is ?name (Name excludes the sigil)
type Variable struct {
	Name string
}

// BlankNode is a blank node label such as _:b0 (Label keeps the prefix)
type BlankNode struct {
	Label string
}

// RDFLiteral is a quoted literal with an optional language tag or datatype.
// At most one of Language and Datatype is set.
type RDFLiteral struct {
	Lexical  string
	Language string
	Datatype *IRIReference
}

// IRIReference is <iri>
type IRIReference struct {
	IRI string
}

// FunctionCall applies a function named by IRI
type FunctionCall struct {
	Function *IRIReference
	Args     []Expression
}

// UnaryOp is the sign of a unary expression
type UnaryOp string

const (
	UnaryPlus  UnaryOp = "+"
	UnaryMinus UnaryOp = "-"
)

// Unary is +x or -x
type Unary struct {
	Op      UnaryOp
	Operand Expression
}

// ArithmeticOp is one of the n-ary arithmetic operators
type ArithmeticOp string

const (
	OpAdd      ArithmeticOp = "+"
	OpSubtract ArithmeticOp = "-"
	OpMultiply ArithmeticOp = "*"
	OpDivide   ArithmeticOp = "/"
)

// Arithmetic applies Op left to right across two or more operands
type Arithmetic struct {
	Op       ArithmeticOp
	Operands []Expression
}

// RelationalOp is a comparison operator
type RelationalOp string

const (
	OpEQ  RelationalOp = "="
	OpNE  RelationalOp = "!="
	OpLT  RelationalOp = "<"
	OpLTE RelationalOp = "<="
	OpGT  RelationalOp = ">"
	OpGTE RelationalOp = ">="
)

// Relational compares two expressions
type Relational struct {
	Op    RelationalOp
	Left  Expression
	Right Expression
}

// Not is logical negation
type Not struct {
	Operand Expression
}

// LogicalOp is and/or
type LogicalOp string

const (
	OpAnd LogicalOp = "and"
	OpOr  LogicalOp = "or"
)

// Logical is an n-ary conjunction or disjunction of boolean expressions
type Logical struct {
	Op       LogicalOp
	Operands []Expression
}

// BuiltIn names a SPARQL built-in function
type BuiltIn string

const (
	BuiltInBound       BuiltIn = "bound"
	BuiltInDatatype    BuiltIn = "datatype"
	BuiltInIsBlank     BuiltIn = "isBlank"
	BuiltInIsIRI       BuiltIn = "isIRI"
	BuiltInIsLiteral   BuiltIn = "isLiteral"
	BuiltInIsURI       BuiltIn = "isURI"
	BuiltInLang        BuiltIn = "lang"
	BuiltInLangMatches BuiltIn = "langMatches"
	BuiltInRegex       BuiltIn = "regex"
	BuiltInSameTerm    BuiltIn = "sameTerm"
	BuiltInStr         BuiltIn = "str"
)

// BuiltIns lists every built-in in declaration order
var BuiltIns = []BuiltIn{
	BuiltInBound, BuiltInDatatype, BuiltInIsBlank, BuiltInIsIRI,
	BuiltInIsLiteral, BuiltInIsURI, BuiltInLang, BuiltInLangMatches,
	BuiltInRegex, BuiltInSameTerm, BuiltInStr,
}

// BuiltInCall applies a built-in function
type BuiltInCall struct {
	Name BuiltIn
	Args []Expression
}

func (*BooleanLiteral) expressionNode() {}
func (*IntegerLiteral) expressionNode() {}
func (*DecimalLiteral) expressionNode() {}
func (*DoubleLiteral) expressionNode()  {}
func (*Variable) expressionNode()       {}
func (*BlankNode) expressionNode()      {}
func (*RDFLiteral) expressionNode()     {}
func (*IRIReference) expressionNode()   {}
func (*FunctionCall) expressionNode()   {}
func (*Unary) expressionNode()          {}
func (*Arithmetic) expressionNode()     {}
func (*Relational) expressionNode()     {}
func (*Not) expressionNode()            {}
func (*Logical) expressionNode()        {}
func (*BuiltInCall) expressionNode()    {}

func (b *BooleanLiteral) String() string { return strconv.FormatBool(b.Value) }
func (i *IntegerLiteral) String() string { return strconv.FormatInt(i.Value, 10) }
func (d *DecimalLiteral) String() string { return d.Lexical }
func (d *DoubleLiteral) String() string  { return d.Lexical }
func (v *Variable) String() string       { return "?" + v.Name }
func (b *BlankNode) String() string      { return b.Label }
func (i *IRIReference) String() string   { return "<" + i.IRI + ">" }

func (l *RDFLiteral) String() string {
	s := strconv.Quote(l.Lexical)
	switch {
	case l.Language != "":
		return s + "@" + l.Language
	case l.Datatype != nil:
		return s + "^^" + l.Datatype.String()
	}
	return s
}

func (f *FunctionCall) String() string {
	return form("call "+f.Function.String(), f.Args)
}

func (u *Unary) String() string {
	return "(" + string(u.Op) + " " + u.Operand.String() + ")"
}

func (a *Arithmetic) String() string {
	return form(string(a.Op), a.Operands)
}

func (r *Relational) String() string {
	return "(" + string(r.Op) + " " + r.Left.String() + " " + r.Right.String() + ")"
}

func (n *Not) String() string {
	return "(not " + n.Operand.String() + ")"
}

func (l *Logical) String() string {
	return form(string(l.Op), l.Operands)
}

func (b *BuiltInCall) String() string {
	return form(string(b.Name), b.Args)
}

// form prints (head arg1 arg2 ...)
func form(head string, args []Expression) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(head)
	for _, arg := range args {
		sb.WriteString(" ")
		sb.WriteString(arg.String())
	}
	sb.WriteString(")")
	return sb.String()
}
