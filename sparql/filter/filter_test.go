package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-sparql/sparql"
)

func TestFacets(t *testing.T) {
	tests := []struct {
		name       string
		term       Term
		filter     bool
		numeric    bool
		comparable bool
		value      bool
	}{
		{"variable", NewVar("x"), true, true, true, true},
		{"numeric literal", NewInteger(1), false, true, true, true},
		{"boolean literal", True, true, false, true, true},
		{"simple literal", &SimpleLiteral{Lexical: "a"}, false, false, true, true},
		{"typed literal", &TypedLiteral{Lexical: "2020-01-01", Datatype: sparql.XSDDateTime}, false, false, true, true},
		{"iri", &IRI{IRI: "http://example.org/a"}, false, false, true, true},
		{"arithmetic", Add(NewInteger(1), NewInteger(2)), false, true, true, true},
		{"minus", Negate(NewInteger(1)), false, true, true, true},
		{"comparison", Equals(NewVar("x"), NewInteger(1)), true, false, false, false},
		{"not", Negation(True), true, false, false, false},
		{"and", Conjunction(True, False), true, false, false, false},
		{"test", Bound(NewVar("x")), true, false, false, false},
		{"accessor", Str(NewVar("x")), false, false, true, true},
		{"external", NewExternalFn("http://example.org/f"), true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, isFilter := tt.term.(Filter)
			_, isNumeric := tt.term.(Numeric)
			_, isComparable := tt.term.(Comparable)
			_, isValue := tt.term.(Value)
			assert.Equal(t, tt.filter, isFilter, "filter facet")
			assert.Equal(t, tt.numeric, isNumeric, "numeric facet")
			assert.Equal(t, tt.comparable, isComparable, "comparable facet")
			assert.Equal(t, tt.value, isValue, "value facet")
		})
	}
}

func TestArithmeticFoldsLeft(t *testing.T) {
	a, b, c := NewVar("a"), NewVar("b"), NewVar("c")
	sum := Add(a, b, c)

	outer, ok := sum.(*Arithmetic)
	require.True(t, ok)
	assert.Same(t, c, outer.Right)
	inner, ok := outer.Left.(*Arithmetic)
	require.True(t, ok)
	assert.Same(t, a, inner.Left)
	assert.Same(t, b, inner.Right)
	assert.Equal(t, "(+ (+ ?a ?b) ?c)", sum.String())
}

func TestConjoin(t *testing.T) {
	f := Equals(NewVar("x"), NewInteger(1))

	assert.Same(t, f, Conjoin(True, f))
	assert.Same(t, f, Conjoin(f, True))
	assert.Same(t, True, Conjoin(True, True))

	g := Bound(NewVar("y"))
	both := Conjoin(f, g)
	and, ok := both.(*And)
	require.True(t, ok)
	assert.Equal(t, []Filter{f, g}, and.Operands)

	assert.False(t, IsTrue(False))
	assert.False(t, IsTrue(NewVar("b")))
}

func TestNewLiteral(t *testing.T) {
	tests := []struct {
		name     string
		lexical  string
		lang     string
		datatype string
		expected Value
	}{
		{"plain", "chat", "", "", &SimpleLiteral{Lexical: "chat"}},
		{"language", "chat", "fr", "", &SimpleLiteral{Lexical: "chat", Lang: "fr"}},
		{"numeric", "7", "", sparql.XSDInt, &NumericLiteral{Lexical: "7", Datatype: sparql.XSDInt}},
		{"boolean", "true", "", sparql.XSDBoolean, True},
		{"boolean digit", "0", "", sparql.XSDBoolean, False},
		{"bad boolean", "yes", "", sparql.XSDBoolean, &TypedLiteral{Lexical: "yes", Datatype: sparql.XSDBoolean}},
		{"other", "2020-01-01T00:00:00Z", "", sparql.XSDDateTime,
			&TypedLiteral{Lexical: "2020-01-01T00:00:00Z", Datatype: sparql.XSDDateTime}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewLiteral(tt.lexical, tt.lang, tt.datatype))
		})
	}
}

func TestStringForms(t *testing.T) {
	tests := []struct {
		term     Term
		expected string
	}{
		{NewInteger(-3), "-3"},
		{NewNumeric("5", sparql.XSDByte), `"5"^^xsd:byte`},
		{Negate(NewInteger(1)), "(- 1)"},
		{Less(NewVar("x"), NewInteger(3)), "(< ?x 3)"},
		{Disjunction(True, Negation(False)), "(or true (not false))"},
		{Regex(NewVar("s"), &SimpleLiteral{Lexical: "^a"}, nil), `(regex ?s "^a")`},
		{Regex(NewVar("s"), &SimpleLiteral{Lexical: "^a"}, &SimpleLiteral{Lexical: "i"}), `(regex ?s "^a" "i")`},
		{Lang(NewVar("l")), "(lang ?l)"},
		{NewExternalFn("http://example.org/f", NewVar("x")), "(call <http://example.org/f> ?x)"},
		{&Cast{Datatype: sparql.XSDInteger, Arg: NewVar("x")}, "(xsd:integer ?x)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.term.String())
		})
	}
}

func TestLookupFunction(t *testing.T) {
	f, ok := LookupFunction(sparql.XSDInteger)
	require.True(t, ok)
	assert.Equal(t, 1, f.Arity)

	term := f.Build([]Value{NewVar("x")})
	assert.Equal(t, &Cast{Datatype: sparql.XSDInteger, Arg: NewVar("x")}, term)

	_, ok = LookupFunction("http://example.org/unknown")
	assert.False(t, ok)
}
