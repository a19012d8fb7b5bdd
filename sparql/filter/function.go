package filter

import "github.com/wbrown/janus-sparql/sparql"

// Cast converts its argument to an XSD datatype. Casts are the function
// calls the engine evaluates natively; every other function IRI becomes an
// ExternalFn.
type Cast struct {
	Datatype string
	Arg      Value
}

// ExternalFn is an opaque call to a function the compiler does not know.
// Its result type is unknown until evaluation.
type ExternalFn struct {
	Function string
	Args     []Term
}

// Function describes a known function IRI
type Function struct {
	IRI   string
	Arity int
	Build func(args []Value) Term
}

var functions = map[string]Function{}

func init() {
	for _, dt := range []string{
		sparql.XSDString, sparql.XSDBoolean, sparql.XSDDecimal, sparql.XSDFloat,
		sparql.XSDDouble, sparql.XSDInteger, sparql.XSDDateTime,
	} {
		dt := dt // per-iteration copy (go < 1.22 loop semantics)
		functions[dt] = Function{
			IRI:   dt,
			Arity: 1,
			Build: func(args []Value) Term { return &Cast{Datatype: dt, Arg: args[0]} },
		}
	}
}

// LookupFunction returns the known function for an IRI
func LookupFunction(iri string) (Function, bool) {
	f, ok := functions[iri]
	return f, ok
}

// NewExternalFn returns a call to an unknown function
func NewExternalFn(iri string, args ...Term) *ExternalFn {
	return &ExternalFn{Function: iri, Args: args}
}

func (c *Cast) String() string {
	return "(" + sparql.Compact(c.Datatype) + " " + c.Arg.String() + ")"
}

func (f *ExternalFn) String() string {
	return list("call <"+f.Function+">", f.Args)
}

func (*Cast) term()       {}
func (*Cast) filter()     {}
func (*Cast) numeric()    {}
func (*Cast) comparable() {}
func (*Cast) value()      {}

func (*ExternalFn) term()       {}
func (*ExternalFn) filter()     {}
func (*ExternalFn) numeric()    {}
func (*ExternalFn) comparable() {}
func (*ExternalFn) value()      {}
