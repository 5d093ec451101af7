package language

// Document is the root of one parsed request. Fragment definitions and
// executable operations share the Operations list; callers partition them
// by Kind.
type Document struct {
	Operations []*Operation
}

// OperationKind discriminates top-level definitions.
type OperationKind int8

const (
	Query OperationKind = iota
	Mutation
	Subscription
	Fragment
)

func (k OperationKind) String() string {
	switch k {
	case Query:
		return "query"
	case Mutation:
		return "mutation"
	case Subscription:
		return "subscription"
	case Fragment:
		return "fragment"
	}
	return "unknown"
}

// Operation is one top-level definition: an executable operation or a
// fragment definition (Kind == Fragment, TypeCondition set).
type Operation struct {
	Kind          OperationKind
	Name          string
	TypeCondition string
	Variables     []*VariableDefinition
	SelectionSet  SelectionSet
}

// VariableDefinition declares one operation variable. Default values are
// not part of the grammar.
type VariableDefinition struct {
	Variable string
	Type     string
	NonNull  bool
}

type SelectionSet []Selection

// Selection is the closed set of things a selection set may contain:
// *Field, *FragmentSpread or *InlineFragment.
type Selection interface {
	isSelection()
}

func (*Field) isSelection()          {}
func (*FragmentSpread) isSelection() {}
func (*InlineFragment) isSelection() {}

// Field is a field selection, optionally aliased, with optional arguments
// and an optional nested selection set.
type Field struct {
	Alias        string
	Name         string
	Arguments    []*Argument
	SelectionSet SelectionSet
}

// ResponseKey returns the key the field contributes to the response object.
func (f *Field) ResponseKey() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// FragmentSpread references a named fragment definition.
type FragmentSpread struct {
	Name string
}

// InlineFragment is an inline selection, optionally restricted to a type.
// An empty TypeCondition always applies.
type InlineFragment struct {
	TypeCondition string
	SelectionSet  SelectionSet
}

// Argument is one name/value pair of a field's argument list.
type Argument struct {
	Name  string
	Value *Value
}

// ValueKind discriminates AST argument values.
type ValueKind int8

const (
	IntValue ValueKind = iota
	FloatValue
	StringValue
	BooleanValue
	NullValue
	EnumValue
	VariableValue
	ListValue
	ObjectValue
)

// Value is an argument value as written in the query. Raw holds the literal
// text for scalars, the enum name, or the variable name without '$'.
type Value struct {
	Kind   ValueKind
	Raw    string
	List   []*Value
	Fields []*ObjectValueField
}

// ObjectValueField is one entry of an input object literal.
type ObjectValueField struct {
	Name  string
	Value *Value
}
