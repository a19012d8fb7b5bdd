package compiler

import (
	"strconv"
	"strings"

	"github.com/wbrown/janus-sparql/sparql/algebra"
	"github.com/wbrown/janus-sparql/sparql/cst"
)

// Command is a compiled query ready for the execution engine
type Command interface {
	Kind() cst.QueryKind
	Common() *Clauses
	String() string
}

// Clauses are the parts shared by every command
type Clauses struct {
	// Graph is the union of the resolved default graphs
	Graph algebra.GraphExpr

	// Where is the mapped, graph-bound and simplified WHERE clause
	Where algebra.Expr

	// NamedGraphs are the resolved FROM NAMED graphs
	NamedGraphs []string

	// ReferencedGraphs are the IRIs used as GRAPH selectors in the WHERE
	// clause, in order of first appearance
	ReferencedGraphs []string

	Order    []Order
	Limit    *int // nil is unlimited
	Offset   int
	Distinct bool
}

// Common returns the shared clauses of a command
func (c *Clauses) Common() *Clauses { return c }

// Selection is one projected position: a variable, or a constant bound to
// a synthesized placeholder variable
type Selection struct {
	Var   *algebra.Variable
	Value algebra.Element // nil unless the position is a constant
}

func (s Selection) String() string {
	if s.Value == nil {
		return s.Var.String()
	}
	return "(" + s.Var.String() + " " + s.Value.String() + ")"
}

// IsConstant reports whether s binds a constant
func (s Selection) IsConstant() bool { return s.Value != nil }

// Order is one ORDER BY key
type Order struct {
	Var        *algebra.Variable
	Descending bool
}

func (o Order) String() string {
	if o.Descending {
		return "(desc " + o.Var.String() + ")"
	}
	return o.Var.String()
}

// Select projects variables from the solutions of Where
type Select struct {
	Clauses
	Projection []Selection
}

// Construct instantiates Template, a flat list of subject, predicate,
// object positions, once per solution
type Construct struct {
	Clauses
	Template []Selection
}

// Describe returns the triples about each described element. Described
// constants are bound to placeholder variables; Where already contains one
// specialization per element.
type Describe struct {
	Clauses
	Described []Selection
}

// Ask reports whether Where has any solution
type Ask struct {
	Clauses
	Projection []Selection
}

func (*Select) Kind() cst.QueryKind    { return cst.QuerySelect }
func (*Construct) Kind() cst.QueryKind { return cst.QueryConstruct }
func (*Describe) Kind() cst.QueryKind  { return cst.QueryDescribe }
func (*Ask) Kind() cst.QueryKind       { return cst.QueryAsk }

func (s *Select) String() string    { return s.Clauses.format("select", s.Projection) }
func (c *Construct) String() string { return c.Clauses.format("construct", c.Template) }
func (d *Describe) String() string  { return d.Clauses.format("describe", d.Described) }
func (a *Ask) String() string       { return a.Clauses.format("ask", a.Projection) }

// format prints a command as an indented s-expression
func (c *Clauses) format(kind string, selection []Selection) string {
	var sb strings.Builder
	sb.WriteString("(" + kind + " [")
	for i, s := range selection {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(s.String())
	}
	sb.WriteString("]")
	if c.Distinct {
		sb.WriteString("\n  :distinct true")
	}
	if c.Graph != nil {
		sb.WriteString("\n  :graph " + c.Graph.String())
	}
	if len(c.NamedGraphs) > 0 {
		sb.WriteString("\n  :named [" + iriList(c.NamedGraphs) + "]")
	}
	if len(c.ReferencedGraphs) > 0 {
		sb.WriteString("\n  :referenced [" + iriList(c.ReferencedGraphs) + "]")
	}
	if c.Where != nil {
		sb.WriteString("\n  :where " + c.Where.String())
	}
	if len(c.Order) > 0 {
		parts := make([]string, len(c.Order))
		for i, o := range c.Order {
			parts[i] = o.String()
		}
		sb.WriteString("\n  :order-by [" + strings.Join(parts, " ") + "]")
	}
	if c.Limit != nil {
		sb.WriteString("\n  :limit " + strconv.Itoa(*c.Limit))
	}
	if c.Offset != 0 {
		sb.WriteString("\n  :offset " + strconv.Itoa(c.Offset))
	}
	sb.WriteString(")")
	return sb.String()
}

func iriList(iris []string) string {
	parts := make([]string, len(iris))
	for i, iri := range iris {
		parts[i] = "<" + iri + ">"
	}
	return strings.Join(parts, " ")
}
