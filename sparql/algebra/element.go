// Package algebra is the constraint algebra: the graph-pattern representation
// the planner and executor consume.
//
// Nodes are pointers and immutable once built. A rewrite that changes nothing
// returns the node it was given, so callers compare by identity to detect
// "no work done".
package algebra

import (
	"strconv"

	"github.com/wbrown/janus-sparql/sparql"
)

// Element is one position of a constraint
type Element interface {
	String() string
	element()
}

// Variable is a query variable. Blank node labels from the query are carried
// as variables named by their label, "_:b0".
type Variable struct {
	Name string
}

// URIReference is an IRI in a constraint position
type URIReference struct {
	IRI string
}

// Literal is an RDF literal. At most one of Lang and Datatype is set.
type Literal struct {
	Lexical  string
	Lang     string
	Datatype string
}

// LocalNode references a node by its internal store identifier
type LocalNode struct {
	ID uint64
}

// Var returns the named variable
func Var(name string) *Variable { return &Variable{Name: name} }

// URI returns a reference to iri
func URI(iri string) *URIReference { return &URIReference{IRI: iri} }

// TypedLiteral returns a literal of the given datatype
func TypedLiteral(lexical, datatype string) *Literal {
	return &Literal{Lexical: lexical, Datatype: datatype}
}

func (v *Variable) String() string {
	if len(v.Name) > 1 && v.Name[0] == '_' && v.Name[1] == ':' {
		return v.Name
	}
	return "?" + v.Name
}

func (u *URIReference) String() string { return "<" + u.IRI + ">" }

func (l *Literal) String() string {
	s := strconv.Quote(l.Lexical)
	switch {
	case l.Lang != "":
		return s + "@" + l.Lang
	case l.Datatype != "":
		return s + "^^" + sparql.Compact(l.Datatype)
	}
	return s
}

func (n *LocalNode) String() string { return "#" + strconv.FormatUint(n.ID, 10) }

func (*Variable) element()     {}
func (*URIReference) element() {}
func (*Literal) element()      {}
func (*LocalNode) element()    {}

// SameElement reports whether two elements denote the same term
func SameElement(a, b Element) bool {
	switch a := a.(type) {
	case *Variable:
		b, ok := b.(*Variable)
		return ok && a.Name == b.Name
	case *URIReference:
		b, ok := b.(*URIReference)
		return ok && a.IRI == b.IRI
	case *Literal:
		b, ok := b.(*Literal)
		return ok && *a == *b
	case *LocalNode:
		b, ok := b.(*LocalNode)
		return ok && a.ID == b.ID
	}
	return false
}
