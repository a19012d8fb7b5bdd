// Package errors is the coded error taxonomy of the query compiler.
//
// Every failure is either structural (the query is well-formed SPARQL but
// cannot be compiled as written) or unsupported (a CST or algebra variant no
// mapper or rewrite recognizes). Both are fatal; nothing here is retried.
package errors

import (
	"fmt"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
// Codes are dotted: <category>.<component>.<reason>.
type Code string

const (
	CodeNonNumericOperand          Code = "structural.expression.non_numeric_operand"
	CodeNonBooleanOperand          Code = "structural.expression.non_boolean_operand"
	CodeNonComparableOperand       Code = "structural.expression.non_comparable_operand"
	CodeNonLiteralValue            Code = "structural.expression.non_literal_value"
	CodeNonVariableOperand         Code = "structural.expression.non_variable_operand"
	CodeCannotNegateNonLiteral     Code = "structural.expression.cannot_negate_non_literal"
	CodeWrongArity                 Code = "structural.expression.wrong_arity"
	CodeMalformedFilterStructure   Code = "structural.filter.malformed"
	CodeMalformedConstructTemplate Code = "structural.construct.malformed_template"
	CodeIllegalTemplateElement     Code = "structural.construct.illegal_template_element"
	CodeIllegalSelectionElement    Code = "structural.select.illegal_selection_element"
	CodeUnsupportedOrderExpression Code = "structural.order.unsupported_expression"
	CodeMissingWhereClause         Code = "structural.query.missing_where"
	CodeInvalidQuery               Code = "structural.query.invalid"
	CodeUnsupportedExpression      Code = "unsupported.expression.variant"
	CodeUnsupportedPattern         Code = "unsupported.pattern.variant"
	CodeUnsupportedNode            Code = "unsupported.pattern.node"
	CodeUnknownConstraintVariant   Code = "unsupported.constraint.variant"
	CodeUnsupportedOperation       Code = "unsupported.query.operation"
	CodeCatalogFailure             Code = "catalog.store.failure"
	CodeConfigInvalid              Code = "config.load.invalid"
)

const (
	categoryStructural  = "structural"
	categoryUnsupported = "unsupported"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// FieldExpression records the printed form of the offending sub-expression.
func FieldExpression(value fmt.Stringer) Attr {
	if value == nil {
		return Field("expression", "<nil>")
	}
	return Field("expression", value.String())
}

// FieldVariant records the runtime variant that failed a facet check.
func FieldVariant(value any) Attr {
	return Field("variant", fmt.Sprintf("%T", value))
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

// Newf is Errorf with structured fields.
func Newf(code Code, fields []Attr, format string, args ...any) error {
	return oops.Code(code).With(flatten(fields)...).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}
	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

// CodeOf returns the code of the outermost coded error in the chain.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}
	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}
	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}
	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// IsStructural reports whether err is a StructuralError: the query is
// malformed for compilation (wrong facet or arity, bad template, ...).
func IsStructural(err error) bool {
	return category(CodeOf(err)) == categoryStructural
}

// IsUnsupported reports whether err is an UnsupportedOperation: a variant
// with no handler.
func IsUnsupported(err error) bool {
	return category(CodeOf(err)) == categoryUnsupported
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func category(code Code) string {
	raw := string(code)
	if idx := strings.Index(raw, "."); idx > 0 {
		return raw[:idx]
	}
	return raw
}
