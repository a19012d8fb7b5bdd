// Package mapper translates CST expressions into the filter-value algebra and
// CST graph patterns into the constraint algebra.
//
// Both mappers dispatch through handler tables keyed by CST variant. The
// tables are filled once in init and only read afterwards, so concurrent
// compilations share them without locking.
package mapper

import (
	"reflect"
	"strconv"

	"github.com/wbrown/janus-sparql/sparql"
	"github.com/wbrown/janus-sparql/sparql/cst"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
	"github.com/wbrown/janus-sparql/sparql/filter"
)

type expressionHandler func(cst.Expression) (filter.Term, error)

type relationalHandler func(left, right cst.Expression) (filter.Filter, error)

type builtInHandler struct {
	minArgs int
	maxArgs int
	build   func(call *cst.BuiltInCall) (filter.Term, error)
}

var (
	expressionHandlers = map[reflect.Type]expressionHandler{}
	relationalHandlers = map[cst.RelationalOp]relationalHandler{}
	builtInHandlers    = map[cst.BuiltIn]builtInHandler{}
	arithmeticFolds    = map[cst.ArithmeticOp]func(a, b filter.Numeric, more ...filter.Numeric) filter.Numeric{
		cst.OpAdd:      filter.Add,
		cst.OpSubtract: filter.Subtract,
		cst.OpMultiply: filter.Multiply,
		cst.OpDivide:   filter.Divide,
	}
)

func registerExpression[T cst.Expression](h func(T) (filter.Term, error)) {
	var zero T
	expressionHandlers[reflect.TypeOf(zero)] = func(e cst.Expression) (filter.Term, error) {
		return h(e.(T))
	}
}

func init() {
	registerExpression(func(e *cst.BooleanLiteral) (filter.Term, error) {
		return filter.NewBoolean(e.Value), nil
	})
	registerExpression(func(e *cst.IntegerLiteral) (filter.Term, error) {
		return filter.NewInteger(e.Value), nil
	})
	registerExpression(func(e *cst.DecimalLiteral) (filter.Term, error) {
		return filter.NewNumeric(e.Lexical, sparql.XSDDecimal), nil
	})
	registerExpression(func(e *cst.DoubleLiteral) (filter.Term, error) {
		return filter.NewNumeric(e.Lexical, sparql.XSDDouble), nil
	})
	registerExpression(func(e *cst.Variable) (filter.Term, error) {
		return filter.NewVar(e.Name), nil
	})
	registerExpression(func(e *cst.BlankNode) (filter.Term, error) {
		return filter.NewVar(e.Label), nil
	})
	registerExpression(func(e *cst.RDFLiteral) (filter.Term, error) {
		datatype := ""
		if e.Datatype != nil {
			datatype = e.Datatype.IRI
		}
		return filter.NewLiteral(e.Lexical, e.Language, datatype), nil
	})
	registerExpression(func(e *cst.IRIReference) (filter.Term, error) {
		return &filter.IRI{IRI: e.IRI}, nil
	})
	registerExpression(mapFunctionCall)
	registerExpression(mapUnary)
	registerExpression(mapArithmetic)
	registerExpression(func(e *cst.Relational) (filter.Term, error) {
		h, ok := relationalHandlers[e.Op]
		if !ok {
			return nil, sparqlerr.New(sparqlerr.CodeUnsupportedExpression, "unsupported comparison operator",
				sparqlerr.FieldExpression(e))
		}
		return h(e.Left, e.Right)
	})
	registerExpression(func(e *cst.Not) (filter.Term, error) {
		operand, err := AsLogic(e.Operand)
		if err != nil {
			return nil, err
		}
		return filter.Negation(operand), nil
	})
	registerExpression(mapLogical)
	registerExpression(mapBuiltIn)

	relationalHandlers[cst.OpEQ] = func(l, r cst.Expression) (filter.Filter, error) {
		return mapTerms(l, r, filter.Equals)
	}
	relationalHandlers[cst.OpNE] = func(l, r cst.Expression) (filter.Filter, error) {
		return mapTerms(l, r, filter.NotEquals)
	}
	relationalHandlers[cst.OpLT] = ordering(filter.Less)
	relationalHandlers[cst.OpLTE] = ordering(filter.LessOrEqual)
	relationalHandlers[cst.OpGT] = ordering(filter.Greater)
	relationalHandlers[cst.OpGTE] = ordering(filter.GreaterOrEqual)

	unaryValue := func(build func(filter.Value) filter.Term) builtInHandler {
		return builtInHandler{minArgs: 1, maxArgs: 1, build: func(c *cst.BuiltInCall) (filter.Term, error) {
			v, err := AsValue(c.Args[0])
			if err != nil {
				return nil, err
			}
			return build(v), nil
		}}
	}
	binaryValue := func(build func(a, b filter.Value) filter.Term) builtInHandler {
		return builtInHandler{minArgs: 2, maxArgs: 2, build: func(c *cst.BuiltInCall) (filter.Term, error) {
			args, err := asValues(c.Args)
			if err != nil {
				return nil, err
			}
			return build(args[0], args[1]), nil
		}}
	}

	builtInHandlers[cst.BuiltInBound] = builtInHandler{minArgs: 1, maxArgs: 1, build: mapBound}
	builtInHandlers[cst.BuiltInDatatype] = unaryValue(func(v filter.Value) filter.Term { return filter.Datatype(v) })
	builtInHandlers[cst.BuiltInIsBlank] = unaryValue(func(v filter.Value) filter.Term { return filter.IsBlank(v) })
	builtInHandlers[cst.BuiltInIsIRI] = unaryValue(func(v filter.Value) filter.Term { return filter.IsIRI(v) })
	builtInHandlers[cst.BuiltInIsLiteral] = unaryValue(func(v filter.Value) filter.Term { return filter.IsLiteral(v) })
	builtInHandlers[cst.BuiltInIsURI] = unaryValue(func(v filter.Value) filter.Term { return filter.IsURI(v) })
	builtInHandlers[cst.BuiltInLang] = unaryValue(func(v filter.Value) filter.Term { return filter.Lang(v) })
	builtInHandlers[cst.BuiltInStr] = unaryValue(func(v filter.Value) filter.Term { return filter.Str(v) })
	builtInHandlers[cst.BuiltInLangMatches] = binaryValue(func(a, b filter.Value) filter.Term { return filter.LangMatches(a, b) })
	builtInHandlers[cst.BuiltInSameTerm] = binaryValue(func(a, b filter.Value) filter.Term { return filter.SameTerm(a, b) })
	builtInHandlers[cst.BuiltInRegex] = builtInHandler{minArgs: 2, maxArgs: 3, build: func(c *cst.BuiltInCall) (filter.Term, error) {
		args, err := asValues(c.Args)
		if err != nil {
			return nil, err
		}
		var flags filter.Value
		if len(args) == 3 {
			flags = args[2]
		}
		return filter.Regex(args[0], args[1], flags), nil
	}}
}

// MapExpression maps a CST expression to a filter-value term
func MapExpression(e cst.Expression) (filter.Term, error) {
	if e == nil {
		return nil, sparqlerr.New(sparqlerr.CodeUnsupportedExpression, "missing expression")
	}
	h, ok := expressionHandlers[reflect.TypeOf(e)]
	if !ok {
		return nil, sparqlerr.New(sparqlerr.CodeUnsupportedExpression, "unsupported expression",
			sparqlerr.FieldExpression(e), sparqlerr.FieldVariant(e))
	}
	return h(e)
}

// MapFilter maps the root of a FILTER expression, which must be boolean
func MapFilter(e cst.Expression) (filter.Filter, error) {
	term, err := MapExpression(e)
	if err != nil {
		return nil, err
	}
	f, ok := term.(filter.Filter)
	if !ok {
		return nil, sparqlerr.New(sparqlerr.CodeMalformedFilterStructure, "filter is not boolean-valued",
			sparqlerr.FieldExpression(e), sparqlerr.FieldVariant(term))
	}
	return f, nil
}

// AsNumeric maps e and requires a numeric term
func AsNumeric(e cst.Expression) (filter.Numeric, error) {
	return as[filter.Numeric](e, sparqlerr.CodeNonNumericOperand, "operand is not numeric")
}

// AsLogic maps e and requires a boolean term
func AsLogic(e cst.Expression) (filter.Filter, error) {
	return as[filter.Filter](e, sparqlerr.CodeNonBooleanOperand, "operand is not boolean")
}

// AsComparable maps e and requires an ordered term
func AsComparable(e cst.Expression) (filter.Comparable, error) {
	return as[filter.Comparable](e, sparqlerr.CodeNonComparableOperand, "operand is not comparable")
}

// AsValue maps e and requires a value term
func AsValue(e cst.Expression) (filter.Value, error) {
	return as[filter.Value](e, sparqlerr.CodeNonLiteralValue, "operand is not a value")
}

func as[T filter.Term](e cst.Expression, code sparqlerr.Code, msg string) (T, error) {
	var zero T
	term, err := MapExpression(e)
	if err != nil {
		return zero, err
	}
	t, ok := term.(T)
	if !ok {
		return zero, sparqlerr.New(code, msg, sparqlerr.FieldExpression(e), sparqlerr.FieldVariant(term))
	}
	return t, nil
}

func mapAll(exprs []cst.Expression) ([]filter.Term, error) {
	terms := make([]filter.Term, len(exprs))
	for i, e := range exprs {
		t, err := MapExpression(e)
		if err != nil {
			return nil, err
		}
		terms[i] = t
	}
	return terms, nil
}

func asValues(exprs []cst.Expression) ([]filter.Value, error) {
	values := make([]filter.Value, len(exprs))
	for i, e := range exprs {
		v, err := AsValue(e)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func asNumerics(exprs []cst.Expression) ([]filter.Numeric, error) {
	values := make([]filter.Numeric, len(exprs))
	for i, e := range exprs {
		v, err := AsNumeric(e)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func asLogics(exprs []cst.Expression) ([]filter.Filter, error) {
	values := make([]filter.Filter, len(exprs))
	for i, e := range exprs {
		v, err := AsLogic(e)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func wrongArity(e cst.Expression, want string, got int) error {
	return sparqlerr.Newf(sparqlerr.CodeWrongArity,
		[]sparqlerr.Attr{sparqlerr.FieldExpression(e)},
		"expected %s operands, got %d", want, got)
}

func mapTerms(l, r cst.Expression, build func(a, b filter.Term) *filter.Comparison) (filter.Filter, error) {
	left, err := MapExpression(l)
	if err != nil {
		return nil, err
	}
	right, err := MapExpression(r)
	if err != nil {
		return nil, err
	}
	return build(left, right), nil
}

func ordering(build func(a, b filter.Comparable) *filter.Comparison) relationalHandler {
	return func(l, r cst.Expression) (filter.Filter, error) {
		left, err := AsComparable(l)
		if err != nil {
			return nil, err
		}
		right, err := AsComparable(r)
		if err != nil {
			return nil, err
		}
		return build(left, right), nil
	}
}

// mapFunctionCall passes any mapped term to an unknown function. Known
// functions take values.
func mapFunctionCall(e *cst.FunctionCall) (filter.Term, error) {
	fn, ok := filter.LookupFunction(e.Function.IRI)
	if !ok {
		args, err := mapAll(e.Args)
		if err != nil {
			return nil, err
		}
		return filter.NewExternalFn(e.Function.IRI, args...), nil
	}
	args, err := asValues(e.Args)
	if err != nil {
		return nil, err
	}
	if len(args) != fn.Arity {
		return nil, wrongArity(e, "exactly "+strconv.Itoa(fn.Arity), len(args))
	}
	return fn.Build(args), nil
}

func mapUnary(e *cst.Unary) (filter.Term, error) {
	if e.Op == cst.UnaryPlus {
		return AsNumeric(e.Operand)
	}
	term, err := MapExpression(e.Operand)
	if err != nil {
		return nil, err
	}
	lit, ok := term.(*filter.NumericLiteral)
	if !ok {
		return nil, sparqlerr.New(sparqlerr.CodeCannotNegateNonLiteral, "only numeric literals can be negated",
			sparqlerr.FieldExpression(e), sparqlerr.FieldVariant(term))
	}
	return filter.Negate(lit), nil
}

func mapArithmetic(e *cst.Arithmetic) (filter.Term, error) {
	if len(e.Operands) < 2 {
		return nil, wrongArity(e, "at least 2", len(e.Operands))
	}
	fold, ok := arithmeticFolds[e.Op]
	if !ok {
		return nil, sparqlerr.New(sparqlerr.CodeUnsupportedExpression, "unsupported arithmetic operator",
			sparqlerr.FieldExpression(e))
	}
	operands, err := asNumerics(e.Operands)
	if err != nil {
		return nil, err
	}
	return fold(operands[0], operands[1], operands[2:]...), nil
}

func mapLogical(e *cst.Logical) (filter.Term, error) {
	if len(e.Operands) < 2 {
		return nil, wrongArity(e, "at least 2", len(e.Operands))
	}
	operands, err := asLogics(e.Operands)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case cst.OpAnd:
		return filter.Conjunction(operands[0], operands[1], operands[2:]...), nil
	case cst.OpOr:
		return filter.Disjunction(operands[0], operands[1], operands[2:]...), nil
	}
	return nil, sparqlerr.New(sparqlerr.CodeUnsupportedExpression, "unsupported logical operator",
		sparqlerr.FieldExpression(e))
}

func mapBuiltIn(e *cst.BuiltInCall) (filter.Term, error) {
	h, ok := builtInHandlers[e.Name]
	if !ok {
		return nil, sparqlerr.New(sparqlerr.CodeUnsupportedExpression, "unsupported built-in",
			sparqlerr.FieldExpression(e))
	}
	if n := len(e.Args); n < h.minArgs || n > h.maxArgs {
		want := "exactly " + strconv.Itoa(h.minArgs)
		if h.minArgs != h.maxArgs {
			want = strconv.Itoa(h.minArgs) + " to " + strconv.Itoa(h.maxArgs)
		}
		return nil, wrongArity(e, want, n)
	}
	return h.build(e)
}

func mapBound(e *cst.BuiltInCall) (filter.Term, error) {
	v, ok := e.Args[0].(*cst.Variable)
	if !ok {
		return nil, sparqlerr.New(sparqlerr.CodeNonVariableOperand, "bound requires a variable",
			sparqlerr.FieldExpression(e), sparqlerr.FieldVariant(e.Args[0]))
	}
	return filter.Bound(filter.NewVar(v.Name)), nil
}

