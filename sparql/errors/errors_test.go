package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
)

type printed string

func (p printed) String() string { return string(p) }

func TestNewCarriesCodeAndFields(t *testing.T) {
	err := sparqlerr.New(sparqlerr.CodeNonNumericOperand,
		"operand is not numeric",
		sparqlerr.FieldExpression(printed("(+ ?x \"a\")")),
		sparqlerr.FieldVariant(struct{}{}),
	)

	require.Error(t, err)
	assert.Equal(t, sparqlerr.CodeNonNumericOperand, sparqlerr.CodeOf(err))
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeNonNumericOperand))
	assert.Contains(t, err.Error(), "operand is not numeric")

	fields := sparqlerr.FieldsOf(err)
	assert.Equal(t, "(+ ?x \"a\")", fields["expression"])
	assert.Equal(t, "struct {}", fields["variant"])
}

func TestCategories(t *testing.T) {
	tests := []struct {
		code        sparqlerr.Code
		structural  bool
		unsupported bool
	}{
		{sparqlerr.CodeMalformedFilterStructure, true, false},
		{sparqlerr.CodeUnsupportedOrderExpression, true, false},
		{sparqlerr.CodeMissingWhereClause, true, false},
		{sparqlerr.CodeUnsupportedExpression, false, true},
		{sparqlerr.CodeUnknownConstraintVariant, false, true},
		{sparqlerr.CodeCatalogFailure, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := sparqlerr.New(tt.code, "boom")
			assert.Equal(t, tt.structural, sparqlerr.IsStructural(err))
			assert.Equal(t, tt.unsupported, sparqlerr.IsUnsupported(err))
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	inner := stderrors.New("disk full")
	err := sparqlerr.Wrap(inner, sparqlerr.CodeCatalogFailure, "writing default graph")
	require.Error(t, err)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, sparqlerr.CodeCatalogFailure, sparqlerr.CodeOf(err))

	assert.Nil(t, sparqlerr.Wrap(nil, sparqlerr.CodeCatalogFailure, "noop"))
}

func TestPlainErrorsHaveNoCode(t *testing.T) {
	err := stderrors.New("plain")
	assert.Equal(t, sparqlerr.Code(""), sparqlerr.CodeOf(err))
	assert.False(t, sparqlerr.IsStructural(err))
	assert.False(t, sparqlerr.IsUnsupported(err))
	assert.Nil(t, sparqlerr.FieldsOf(err))
}
