package cst

import (
	"fmt"
	"strings"
)

// QueryKind is the query form
type QueryKind int

const (
	QuerySelect QueryKind = iota
	QueryConstruct
	QueryDescribe
	QueryAsk
)

func (k QueryKind) String() string {
	switch k {
	case QuerySelect:
		return "select"
	case QueryConstruct:
		return "construct"
	case QueryDescribe:
		return "describe"
	case QueryAsk:
		return "ask"
	default:
		return fmt.Sprintf("QueryKind(%d)", int(k))
	}
}

// NoLimit is the Limit of a query without a LIMIT clause
const NoLimit = -1

// OrderCondition is one ORDER BY key
type OrderCondition struct {
	Expression Expression
	Descending bool
}

func (o OrderCondition) String() string {
	if o.Descending {
		return "(desc " + o.Expression.String() + ")"
	}
	return o.Expression.String()
}

// Query is the parsed structure of one SPARQL query
type Query struct {
	Kind QueryKind

	// Selection lists the projected variables for SELECT, or the described
	// resources (variables and IRIs) for DESCRIBE. Ignored when SelectAll.
	Selection []Expression
	SelectAll bool

	// Template is the CONSTRUCT template flattened to subject, predicate,
	// object triples of positions.
	Template []Expression

	Where     GraphPattern // nil when the query has no WHERE clause
	From      []*IRIReference
	FromNamed []*IRIReference
	OrderBy   []OrderCondition
	Limit     int // NoLimit when absent
	Offset    int
	Distinct  bool
}

// NewQuery returns an empty query of the given kind without a LIMIT
func NewQuery(kind QueryKind) *Query {
	return &Query{Kind: kind, Limit: NoLimit}
}

// AllVariables returns every variable the WHERE clause binds, in the order
// of first appearance. This includes GRAPH selector variables and
// assignment targets; variables used only inside FILTER expressions are not
// bound and are excluded, as are blank nodes.
func (q *Query) AllVariables() []*Variable {
	var vars []*Variable
	seen := make(map[string]bool)
	add := func(e Expression) {
		if v, ok := e.(*Variable); ok && !seen[v.Name] {
			seen[v.Name] = true
			vars = append(vars, v)
		}
	}

	var walk func(p GraphPattern)
	walk = func(p GraphPattern) {
		if p == nil {
			return
		}
		add(p.PatternModifiers().Graph)
		switch p := p.(type) {
		case *GroupPattern:
			for _, child := range p.Patterns {
				walk(child)
			}
		case *UnionPattern:
			for _, child := range p.Patterns {
				walk(child)
			}
		case *OptionalPattern:
			walk(p.Main)
			walk(p.Optional)
		case *TriplePattern:
			add(p.Subject)
			add(p.Predicate)
			add(p.Object)
		case *TripleList:
			for _, t := range p.Triples {
				walk(t)
			}
		case *AssignmentPattern:
			walk(p.Main)
			add(p.Var)
		}
	}
	walk(q.Where)

	return vars
}

// String prints the query in fixture notation
func (q *Query) String() string {
	var sb strings.Builder
	sb.WriteString("{:" + q.Kind.String() + " ")
	switch {
	case q.Kind == QueryConstruct:
		sb.WriteString(vector(q.Template))
	case q.SelectAll:
		sb.WriteString("*")
	default:
		sb.WriteString(vector(q.Selection))
	}
	if q.Distinct {
		sb.WriteString(" :distinct true")
	}
	if len(q.From) > 0 {
		sb.WriteString(" :from " + vector(iriExpressions(q.From)))
	}
	if len(q.FromNamed) > 0 {
		sb.WriteString(" :from-named " + vector(iriExpressions(q.FromNamed)))
	}
	if q.Where != nil {
		sb.WriteString(" :where " + q.Where.String())
	}
	if len(q.OrderBy) > 0 {
		parts := make([]string, len(q.OrderBy))
		for i, o := range q.OrderBy {
			parts[i] = o.String()
		}
		sb.WriteString(" :order-by [" + strings.Join(parts, " ") + "]")
	}
	if q.Limit != NoLimit {
		fmt.Fprintf(&sb, " :limit %d", q.Limit)
	}
	if q.Offset != 0 {
		fmt.Fprintf(&sb, " :offset %d", q.Offset)
	}
	sb.WriteString("}")
	return sb.String()
}

func vector(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func iriExpressions(iris []*IRIReference) []Expression {
	exprs := make([]Expression, len(iris))
	for i, iri := range iris {
		exprs[i] = iri
	}
	return exprs
}
