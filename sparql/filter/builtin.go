package filter

// Test is a boolean built-in: bound, isBlank, isIRI, isLiteral, isURI,
// langMatches, regex, sameTerm.
type Test struct {
	Name string
	Args []Value
}

// Accessor is a value-producing built-in: datatype, lang, str.
type Accessor struct {
	Name string
	Arg  Value
}

func Bound(v *Var) *Test               { return &Test{Name: "bound", Args: []Value{v}} }
func IsBlank(v Value) *Test            { return &Test{Name: "isBlank", Args: []Value{v}} }
func IsIRI(v Value) *Test              { return &Test{Name: "isIRI", Args: []Value{v}} }
func IsURI(v Value) *Test              { return &Test{Name: "isURI", Args: []Value{v}} }
func IsLiteral(v Value) *Test          { return &Test{Name: "isLiteral", Args: []Value{v}} }
func LangMatches(tag, rng Value) *Test { return &Test{Name: "langMatches", Args: []Value{tag, rng}} }
func SameTerm(a, b Value) *Test        { return &Test{Name: "sameTerm", Args: []Value{a, b}} }

// Regex tests text against pattern. flags may be nil.
func Regex(text, pattern, flags Value) *Test {
	args := []Value{text, pattern}
	if flags != nil {
		args = append(args, flags)
	}
	return &Test{Name: "regex", Args: args}
}

func Datatype(v Value) *Accessor { return &Accessor{Name: "datatype", Arg: v} }
func Lang(v Value) *Accessor     { return &Accessor{Name: "lang", Arg: v} }
func Str(v Value) *Accessor      { return &Accessor{Name: "str", Arg: v} }

func (t *Test) String() string     { return list(t.Name, t.Args) }
func (a *Accessor) String() string { return "(" + a.Name + " " + a.Arg.String() + ")" }

func (*Test) term()   {}
func (*Test) filter() {}

func (*Accessor) term()       {}
func (*Accessor) comparable() {}
func (*Accessor) value()      {}
