// Package transform is a reusable recursive rewrite over constraint-algebra
// trees. The recursion through composite nodes lives here once; a rewrite
// supplies only how to rebuild each kind of leaf.
package transform

import (
	"reflect"

	"github.com/wbrown/janus-sparql/sparql/algebra"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
)

// Rule rebuilds one kind of leaf
type Rule struct {
	leaf    reflect.Type
	rebuild func(algebra.Expr) (algebra.Expr, error)
}

// Leaf returns the rule for leaves of type T. fn must return its argument
// when the leaf is unchanged.
func Leaf[T algebra.Expr](fn func(T) (algebra.Expr, error)) Rule {
	var zero T
	return Rule{
		leaf: reflect.TypeOf(zero),
		rebuild: func(e algebra.Expr) (algebra.Expr, error) {
			return fn(e.(T))
		},
	}
}

// Transformer applies leaf rules throughout a tree
type Transformer struct {
	rules map[reflect.Type]func(algebra.Expr) (algebra.Expr, error)
}

// New returns a transformer with the given leaf rules. Leaf kinds without a
// rule fail with UnknownConstraintVariant when reached.
func New(rules ...Rule) *Transformer {
	t := &Transformer{rules: make(map[reflect.Type]func(algebra.Expr) (algebra.Expr, error), len(rules))}
	for _, r := range rules {
		t.rules[r.leaf] = r.rebuild
	}
	return t
}

// Transform rewrites e. The result is e itself when no leaf changed.
func (t *Transformer) Transform(e algebra.Expr) (algebra.Expr, error) {
	switch e := e.(type) {
	case *algebra.Contradiction:
		return e, nil

	case *algebra.Filtered:
		inner, err := t.Transform(e.Expr)
		if err != nil {
			return nil, err
		}
		if inner == e.Expr {
			return e, nil
		}
		return algebra.NewFiltered(inner, e.Filter), nil

	case *algebra.In:
		inner, err := t.Transform(e.Expr)
		if err != nil {
			return nil, err
		}
		if inner == e.Expr {
			return e, nil
		}
		return algebra.NewIn(inner, e.Graph), nil

	case *algebra.Assignment:
		ctx, err := t.Transform(e.Context)
		if err != nil {
			return nil, err
		}
		if ctx == e.Context {
			return e, nil
		}
		return algebra.NewAssignment(ctx, e.Var, e.Value), nil

	case *algebra.Conjunction:
		operands, changed, err := t.transformAll(e.Operands)
		if err != nil {
			return nil, err
		}
		if !changed {
			return e, nil
		}
		return &algebra.Conjunction{Operands: operands}, nil

	case *algebra.Disjunction:
		operands, changed, err := t.transformAll(e.Operands)
		if err != nil {
			return nil, err
		}
		if !changed {
			return e, nil
		}
		return &algebra.Disjunction{Operands: operands}, nil

	case *algebra.Difference:
		operands, changed, err := t.transformAll([]algebra.Expr{e.Left, e.Right})
		if err != nil {
			return nil, err
		}
		if !changed {
			return e, nil
		}
		return &algebra.Difference{Left: operands[0], Right: operands[1]}, nil

	case *algebra.OptionalJoin:
		operands, changed, err := t.transformAll([]algebra.Expr{e.Main, e.Optional})
		if err != nil {
			return nil, err
		}
		if !changed {
			return e, nil
		}
		return algebra.NewOptionalJoin(operands[0], operands[1], e.Filter), nil
	}

	if e == nil {
		return nil, sparqlerr.New(sparqlerr.CodeUnknownConstraintVariant, "missing constraint")
	}
	rebuild, ok := t.rules[reflect.TypeOf(e)]
	if !ok {
		return nil, sparqlerr.New(sparqlerr.CodeUnknownConstraintVariant, "no rule for constraint variant",
			sparqlerr.FieldExpression(e), sparqlerr.FieldVariant(e))
	}
	return rebuild(e)
}

// transformAll rewrites exprs, allocating a new slice only if one changed
func (t *Transformer) transformAll(exprs []algebra.Expr) ([]algebra.Expr, bool, error) {
	var out []algebra.Expr
	for i, e := range exprs {
		result, err := t.Transform(e)
		if err != nil {
			return nil, false, err
		}
		if result != e && out == nil {
			out = make([]algebra.Expr, len(exprs))
			copy(out, exprs[:i])
		}
		if out != nil {
			out[i] = result
		}
	}
	if out == nil {
		return exprs, false, nil
	}
	return out, true, nil
}
