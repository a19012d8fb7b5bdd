package mapper

import (
	"math"
	"reflect"
	"strconv"

	"github.com/wbrown/janus-sparql/sparql"
	"github.com/wbrown/janus-sparql/sparql/algebra"
	"github.com/wbrown/janus-sparql/sparql/cst"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
	"github.com/wbrown/janus-sparql/sparql/filter"
)

// Result is the output of one pattern mapping pass
type Result struct {
	Expr algebra.Expr

	// GraphVariables are the variables used as GRAPH selectors, in order of
	// first appearance.
	GraphVariables []*algebra.Variable

	// GraphIRIs are the IRIs used as GRAPH selectors, in order of first
	// appearance.
	GraphIRIs []string
}

type patternHandler func(m *patternMapper, p cst.GraphPattern) (algebra.Expr, error)

var patternHandlers = map[reflect.Type]patternHandler{}

func registerPattern[T cst.GraphPattern](h func(*patternMapper, T) (algebra.Expr, error)) {
	var zero T
	patternHandlers[reflect.TypeOf(zero)] = func(m *patternMapper, p cst.GraphPattern) (algebra.Expr, error) {
		return h(m, p.(T))
	}
}

func init() {
	registerPattern(func(*patternMapper, *cst.EmptyPattern) (algebra.Expr, error) {
		return algebra.False, nil
	})
	registerPattern((*patternMapper).mapGroup)
	registerPattern((*patternMapper).mapUnion)
	registerPattern((*patternMapper).mapOptional)
	registerPattern((*patternMapper).mapTriple)
	registerPattern((*patternMapper).mapTripleList)
	registerPattern((*patternMapper).mapAssignment)
}

// patternMapper holds the accumulators of one mapping pass. It is never
// shared between compilations.
type patternMapper struct {
	graphVars []*algebra.Variable
	graphIRIs []string
	seenVars  map[string]bool
	seenIRIs  map[string]bool
}

// MapPattern maps a WHERE pattern to the constraint algebra and collects the
// GRAPH selectors it uses.
func MapPattern(p cst.GraphPattern) (*Result, error) {
	m := &patternMapper{
		seenVars: make(map[string]bool),
		seenIRIs: make(map[string]bool),
	}
	expr, err := m.mapPattern(p)
	if err != nil {
		return nil, err
	}
	return &Result{Expr: expr, GraphVariables: m.graphVars, GraphIRIs: m.graphIRIs}, nil
}

func (m *patternMapper) mapPattern(p cst.GraphPattern) (algebra.Expr, error) {
	if p == nil {
		return nil, sparqlerr.New(sparqlerr.CodeUnsupportedPattern, "missing pattern")
	}
	h, ok := patternHandlers[reflect.TypeOf(p)]
	if !ok {
		return nil, sparqlerr.New(sparqlerr.CodeUnsupportedPattern, "unsupported graph pattern",
			sparqlerr.FieldExpression(p), sparqlerr.FieldVariant(p))
	}
	expr, err := h(m, p)
	if err != nil {
		return nil, err
	}
	return m.applyModifiers(expr, p.PatternModifiers())
}

// applyModifiers wraps expr in the pattern's FILTER, then its GRAPH selector
func (m *patternMapper) applyModifiers(expr algebra.Expr, mods *cst.Modifiers) (algebra.Expr, error) {
	if mods.Filter != nil {
		f, err := MapFilter(mods.Filter)
		if err != nil {
			return nil, err
		}
		expr = algebra.NewFiltered(expr, f)
	}
	if mods.Graph != nil {
		graph, err := m.graphSelector(mods.Graph)
		if err != nil {
			return nil, err
		}
		expr = algebra.NewIn(expr, graph)
	}
	return expr, nil
}

func (m *patternMapper) graphSelector(e cst.Expression) (algebra.Element, error) {
	switch g := e.(type) {
	case *cst.Variable:
		v := algebra.Var(g.Name)
		if !m.seenVars[g.Name] {
			m.seenVars[g.Name] = true
			m.graphVars = append(m.graphVars, v)
		}
		return v, nil
	case *cst.IRIReference:
		if !m.seenIRIs[g.IRI] {
			m.seenIRIs[g.IRI] = true
			m.graphIRIs = append(m.graphIRIs, g.IRI)
		}
		return algebra.URI(g.IRI), nil
	}
	return nil, sparqlerr.New(sparqlerr.CodeUnsupportedNode, "GRAPH selector must be a variable or IRI",
		sparqlerr.FieldExpression(e), sparqlerr.FieldVariant(e))
}

func (m *patternMapper) mapGroup(p *cst.GroupPattern) (algebra.Expr, error) {
	var operands []algebra.Expr
	for _, child := range p.Patterns {
		if cst.IsEmpty(child) {
			continue
		}
		expr, err := m.mapPattern(child)
		if err != nil {
			return nil, err
		}
		operands = append(operands, expr)
	}
	return algebra.ConjoinAll(operands), nil
}

// mapUnion maps every branch, empty ones included
func (m *patternMapper) mapUnion(p *cst.UnionPattern) (algebra.Expr, error) {
	operands := make([]algebra.Expr, 0, len(p.Patterns))
	for _, child := range p.Patterns {
		expr, err := m.mapPattern(child)
		if err != nil {
			return nil, err
		}
		operands = append(operands, expr)
	}
	return algebra.DisjoinAll(operands), nil
}

func (m *patternMapper) mapOptional(p *cst.OptionalPattern) (algebra.Expr, error) {
	main, err := m.mapPattern(p.Main)
	if err != nil {
		return nil, err
	}
	opt, err := m.mapPattern(p.Optional)
	if err != nil {
		return nil, err
	}
	if f, ok := opt.(*algebra.Filtered); ok {
		return algebra.NewOptionalJoin(main, f.Expr, f.Filter), nil
	}
	return algebra.NewOptionalJoin(main, opt, filter.True), nil
}

func (m *patternMapper) mapAssignment(p *cst.AssignmentPattern) (algebra.Expr, error) {
	ctx, err := m.mapPattern(p.Main)
	if err != nil {
		return nil, err
	}
	value, err := MapExpression(p.Expression)
	if err != nil {
		return nil, err
	}
	return algebra.NewAssignment(ctx, algebra.Var(p.Var.Name), value), nil
}

func (m *patternMapper) mapTripleList(p *cst.TripleList) (algebra.Expr, error) {
	operands := make([]algebra.Expr, 0, len(p.Triples))
	for _, t := range p.Triples {
		expr, err := m.mapPattern(t)
		if err != nil {
			return nil, err
		}
		operands = append(operands, expr)
	}
	return algebra.ConjoinAll(operands), nil
}

func (m *patternMapper) mapTriple(p *cst.TriplePattern) (algebra.Expr, error) {
	subject, err := Element(p.Subject)
	if err != nil {
		return nil, err
	}
	predicate, err := Element(p.Predicate)
	if err != nil {
		return nil, err
	}

	var objects []algebra.Element
	if i, ok := p.Object.(*cst.IntegerLiteral); ok {
		objects = WidenInteger(i.Value)
	} else {
		object, err := Element(p.Object)
		if err != nil {
			return nil, err
		}
		objects = []algebra.Element{object}
	}

	alternatives := make([]algebra.Expr, 0, len(objects))
	for _, object := range objects {
		alternatives = withPath(alternatives, algebra.NewConstraint(subject, predicate, object), p.Path)
	}
	return algebra.DisjoinAll(alternatives), nil
}

// withPath appends the alternatives for c. A * or + predicate contributes
// the plain triple followed by its closure, so widened objects under a path
// stay one flat disjunction.
func withPath(alternatives []algebra.Expr, c *algebra.Constraint, path cst.PathModifier) []algebra.Expr {
	switch path {
	case cst.PathStar, cst.PathPlus:
		return append(alternatives, c, &algebra.SingleTransitive{Step: c, ZeroStep: path == cst.PathStar})
	}
	return append(alternatives, c)
}

// Element converts a triple position. Untyped numeric and boolean literals
// become typed literals.
func Element(e cst.Expression) (algebra.Element, error) {
	switch e := e.(type) {
	case *cst.Variable:
		return algebra.Var(e.Name), nil
	case *cst.BlankNode:
		return algebra.Var(e.Label), nil
	case *cst.IRIReference:
		return algebra.URI(e.IRI), nil
	case *cst.RDFLiteral:
		lit := &algebra.Literal{Lexical: e.Lexical, Lang: e.Language}
		if e.Datatype != nil {
			lit.Datatype = e.Datatype.IRI
		}
		return lit, nil
	case *cst.IntegerLiteral:
		return algebra.TypedLiteral(strconv.FormatInt(e.Value, 10), sparql.XSDInteger), nil
	case *cst.DecimalLiteral:
		return algebra.TypedLiteral(e.Lexical, sparql.XSDDecimal), nil
	case *cst.DoubleLiteral:
		return algebra.TypedLiteral(e.Lexical, sparql.XSDDouble), nil
	case *cst.BooleanLiteral:
		return algebra.TypedLiteral(strconv.FormatBool(e.Value), sparql.XSDBoolean), nil
	}
	return nil, sparqlerr.New(sparqlerr.CodeUnsupportedNode, "unsupported triple element",
		sparqlerr.FieldExpression(e), sparqlerr.FieldVariant(e))
}

// WidenInteger returns every typed literal an untyped integer matches:
// decimal, integer and long always; int, short and byte when the value fits;
// the sign markers; and the unsigned types for positive values in range.
// Zero carries both non-negative and non-positive markers and no unsigned
// types.
func WidenInteger(v int64) []algebra.Element {
	types := []string{sparql.XSDDecimal, sparql.XSDInteger, sparql.XSDLong}
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		types = append(types, sparql.XSDInt)
	}
	if v >= math.MinInt16 && v <= math.MaxInt16 {
		types = append(types, sparql.XSDShort)
	}
	if v >= math.MinInt8 && v <= math.MaxInt8 {
		types = append(types, sparql.XSDByte)
	}

	switch {
	case v < 0:
		types = append(types, sparql.XSDNonPositiveInteger, sparql.XSDNegativeInteger)
	case v > 0:
		types = append(types, sparql.XSDNonNegativeInteger, sparql.XSDPositiveInteger, sparql.XSDUnsignedLong)
		if v <= math.MaxUint32 {
			types = append(types, sparql.XSDUnsignedInt)
		}
		if v <= math.MaxUint16 {
			types = append(types, sparql.XSDUnsignedShort)
		}
		if v <= math.MaxUint8 {
			types = append(types, sparql.XSDUnsignedByte)
		}
	default:
		types = append(types, sparql.XSDNonNegativeInteger, sparql.XSDNonPositiveInteger)
	}

	lexical := strconv.FormatInt(v, 10)
	elements := make([]algebra.Element, len(types))
	for i, dt := range types {
		elements[i] = algebra.TypedLiteral(lexical, dt)
	}
	return elements
}
