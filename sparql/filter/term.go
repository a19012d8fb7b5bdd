// Package filter is the filter-value algebra: the representation of FILTER
// and BIND expressions handed to the execution engine.
//
// A term is polymorphic over facets. Each facet is a marker interface, so the
// mapper can demand "a numeric expression" or "a boolean filter" and let the
// type system say whether a term qualifies:
//
//	Filter      boolean-valued (and, or, not, comparisons, tests)
//	Numeric     arithmetic operand
//	Comparable  operand of <, <=, >, >=
//	Value       argument of a built-in or cast
//
// Variables and external function calls carry every facet because their type
// is only known at evaluation time.
package filter

import (
	"strconv"

	"github.com/wbrown/janus-sparql/sparql"
)

// Term is any node of the filter-value algebra
type Term interface {
	String() string
	term()
}

// Filter is a boolean-valued term
type Filter interface {
	Term
	filter()
}

// Numeric is a numeric-valued term
type Numeric interface {
	Term
	numeric()
}

// Comparable is a term that can be ordered
type Comparable interface {
	Term
	comparable()
}

// Value is a term usable as a built-in or cast argument
type Value interface {
	Term
	value()
}

// Var references a query variable
type Var struct {
	Name string
}

// NumericLiteral is a literal of one of the XSD numeric datatypes
type NumericLiteral struct {
	Lexical  string
	Datatype string
}

// BooleanLiteral is true or false
type BooleanLiteral struct {
	Value bool
}

// SimpleLiteral is a plain literal with an optional language tag
type SimpleLiteral struct {
	Lexical string
	Lang    string
}

// TypedLiteral is a literal of a non-numeric, non-boolean datatype
type TypedLiteral struct {
	Lexical  string
	Datatype string
}

// IRI is an IRI used as a value
type IRI struct {
	IRI string
}

var (
	// True is the filter that admits every row
	True = &BooleanLiteral{Value: true}
	// False admits nothing
	False = &BooleanLiteral{Value: false}
)

// NewVar returns a reference to the named variable
func NewVar(name string) *Var { return &Var{Name: name} }

// NewNumeric returns a numeric literal of the given datatype
func NewNumeric(lexical, datatype string) *NumericLiteral {
	return &NumericLiteral{Lexical: lexical, Datatype: datatype}
}

// NewInteger returns an xsd:integer literal
func NewInteger(v int64) *NumericLiteral {
	return NewNumeric(strconv.FormatInt(v, 10), sparql.XSDInteger)
}

// NewBoolean returns the shared literal for v
func NewBoolean(v bool) *BooleanLiteral {
	if v {
		return True
	}
	return False
}

// NewLiteral builds the literal term for an RDF literal. Numeric datatypes
// yield a NumericLiteral and xsd:boolean a BooleanLiteral when the lexical
// form is a valid boolean.
func NewLiteral(lexical, lang, datatype string) Value {
	switch {
	case lang != "" || datatype == "":
		return &SimpleLiteral{Lexical: lexical, Lang: lang}
	case sparql.IsNumericDatatype(datatype):
		return NewNumeric(lexical, datatype)
	case datatype == sparql.XSDBoolean:
		switch lexical {
		case "true", "1":
			return True
		case "false", "0":
			return False
		}
	}
	return &TypedLiteral{Lexical: lexical, Datatype: datatype}
}

// IsTrue reports whether f is the literal true
func IsTrue(f Filter) bool {
	b, ok := f.(*BooleanLiteral)
	return ok && b.Value
}

func (v *Var) String() string { return "?" + v.Name }

func (n *NumericLiteral) String() string {
	switch n.Datatype {
	case sparql.XSDInteger, sparql.XSDDecimal, sparql.XSDDouble:
		return n.Lexical
	}
	return strconv.Quote(n.Lexical) + "^^" + sparql.Compact(n.Datatype)
}

func (b *BooleanLiteral) String() string { return strconv.FormatBool(b.Value) }

func (l *SimpleLiteral) String() string {
	if l.Lang != "" {
		return strconv.Quote(l.Lexical) + "@" + l.Lang
	}
	return strconv.Quote(l.Lexical)
}

func (l *TypedLiteral) String() string {
	return strconv.Quote(l.Lexical) + "^^" + sparql.Compact(l.Datatype)
}

func (i *IRI) String() string { return "<" + i.IRI + ">" }

func (*Var) term()       {}
func (*Var) filter()     {}
func (*Var) numeric()    {}
func (*Var) comparable() {}
func (*Var) value()      {}

func (*NumericLiteral) term()       {}
func (*NumericLiteral) numeric()    {}
func (*NumericLiteral) comparable() {}
func (*NumericLiteral) value()      {}

func (*BooleanLiteral) term()       {}
func (*BooleanLiteral) filter()     {}
func (*BooleanLiteral) comparable() {}
func (*BooleanLiteral) value()      {}

func (*SimpleLiteral) term()       {}
func (*SimpleLiteral) comparable() {}
func (*SimpleLiteral) value()      {}

func (*TypedLiteral) term()       {}
func (*TypedLiteral) comparable() {}
func (*TypedLiteral) value()      {}

func (*IRI) term()       {}
func (*IRI) comparable() {}
func (*IRI) value()      {}
