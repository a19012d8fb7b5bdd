package cst

import "strings"

// GraphPattern is a WHERE-clause pattern. Every variant may carry a FILTER
// and a GRAPH selector through its embedded Modifiers.
type GraphPattern interface {
	String() string
	PatternModifiers() *Modifiers
	patternNode()
}

// Modifiers are the FILTER and GRAPH annotations shared by all patterns.
// Graph is nil, a *Variable or an *IRIReference.
type Modifiers struct {
	Filter Expression
	Graph  Expression
}

// PatternModifiers returns the modifiers of the enclosing pattern
func (m *Modifiers) PatternModifiers() *Modifiers { return m }

// PathModifier is the property-path repetition applied to a predicate
type PathModifier int

const (
	PathNone PathModifier = iota
	PathStar              // zero or more
	PathPlus              // one or more
)

func (p PathModifier) String() string {
	switch p {
	case PathStar:
		return "*"
	case PathPlus:
		return "+"
	default:
		return ""
	}
}

// EmptyPattern is {}
type EmptyPattern struct {
	Modifiers
}

// GroupPattern is a conjunction of patterns
type GroupPattern struct {
	Patterns []GraphPattern
	Modifiers
}

// UnionPattern is a disjunction of patterns
type UnionPattern struct {
	Patterns []GraphPattern
	Modifiers
}

// OptionalPattern is Main OPTIONAL { Optional }
type OptionalPattern struct {
	Main     GraphPattern
	Optional GraphPattern
	Modifiers
}

// TriplePattern is a single subject/predicate/object pattern
type TriplePattern struct {
	Subject   Expression
	Predicate Expression
	Object    Expression
	Path      PathModifier
	Modifiers
}

// TripleList is a basic graph pattern of several triples
type TripleList struct {
	Triples []*TriplePattern
	Modifiers
}

// AssignmentPattern is Main followed by BIND(Expression AS ?Var)
type AssignmentPattern struct {
	Main       GraphPattern
	Var        *Variable
	Expression Expression
	Modifiers
}

func (*EmptyPattern) patternNode()      {}
func (*GroupPattern) patternNode()      {}
func (*UnionPattern) patternNode()      {}
func (*OptionalPattern) patternNode()   {}
func (*TriplePattern) patternNode()     {}
func (*TripleList) patternNode()        {}
func (*AssignmentPattern) patternNode() {}

func (p *EmptyPattern) String() string {
	return patternForm("(empty", nil, &p.Modifiers, ")")
}

func (p *GroupPattern) String() string {
	return patternForm("(group", patternStrings(p.Patterns), &p.Modifiers, ")")
}

func (p *UnionPattern) String() string {
	return patternForm("(union", patternStrings(p.Patterns), &p.Modifiers, ")")
}

func (p *OptionalPattern) String() string {
	return patternForm("(optional", []string{p.Main.String(), p.Optional.String()}, &p.Modifiers, ")")
}

func (p *TriplePattern) String() string {
	pred := p.Predicate.String()
	if p.Path != PathNone {
		pred = "(" + p.Path.String() + " " + pred + ")"
	}
	return patternForm("["+p.Subject.String(), []string{pred, p.Object.String()}, &p.Modifiers, "]")
}

func (p *TripleList) String() string {
	parts := make([]string, len(p.Triples))
	for i, t := range p.Triples {
		parts[i] = t.String()
	}
	return patternForm("(triples", parts, &p.Modifiers, ")")
}

func (p *AssignmentPattern) String() string {
	return patternForm("(bind", []string{p.Main.String(), p.Var.String(), p.Expression.String()}, &p.Modifiers, ")")
}

func patternStrings(patterns []GraphPattern) []string {
	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = p.String()
	}
	return parts
}

func patternForm(open string, parts []string, m *Modifiers, end string) string {
	var sb strings.Builder
	sb.WriteString(open)
	for _, part := range parts {
		sb.WriteString(" ")
		sb.WriteString(part)
	}
	if m.Filter != nil {
		sb.WriteString(" :filter ")
		sb.WriteString(m.Filter.String())
	}
	if m.Graph != nil {
		sb.WriteString(" :graph ")
		sb.WriteString(m.Graph.String())
	}
	sb.WriteString(end)
	return sb.String()
}

// IsEmpty reports whether p is structurally empty: an EmptyPattern that
// carries neither a FILTER nor a GRAPH selector.
func IsEmpty(p GraphPattern) bool {
	e, ok := p.(*EmptyPattern)
	return ok && e.Filter == nil && e.Graph == nil
}
