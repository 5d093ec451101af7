package schema

import (
	"context"
	"fmt"

	value "github.com/tidegraph/tide/internal/value"
)

// Kind is the introspection-visible category of a Type.
type Kind string

const (
	KindScalar      Kind = "SCALAR"
	KindObject      Kind = "OBJECT"
	KindInputObject Kind = "INPUT_OBJECT"
	KindEnum        Kind = "ENUM"
	KindUnion       Kind = "UNION"
	KindList        Kind = "LIST"
	KindNonNull     Kind = "NON_NULL"
)

// Context is the per-invocation bundle handed to resolvers. A fresh Context
// is built at every field, list-item and fragment descent; Vars is inherited
// unchanged from the operation.
type Context struct {
	Ctx  context.Context
	Data *value.Value // the object being resolved against, nil at the root
	Args map[string]value.Value
	Vars map[string]value.Value
}

// Resolver produces a field's runtime value.
type Resolver func(Context) (value.Value, error)

// TypeResolver names the concrete member type of a union for the value in
// ctx.Data.
type TypeResolver func(Context) string

// Type is one node of the immutable type graph. Construction goes through
// the New* builders; there is no central registry, so two builder calls with
// the same name produce independent instances.
type Type struct {
	kind          Kind
	name          string
	description   string
	fields        []*Field
	inputFields   []*InputValue
	enumValues    []*EnumValue
	possibleTypes []*Type
	resolveType   TypeResolver
	ofType        *Type
}

// Kind returns the type's category.
func (t *Type) Kind() Kind { return t.kind }

// Name renders the type reference: wrapping types use bracket and bang
// notation ("[User]", "User!"), named types their declared name.
func (t *Type) Name() string {
	switch t.kind {
	case KindList:
		return "[" + t.ofType.Name() + "]"
	case KindNonNull:
		return t.ofType.Name() + "!"
	default:
		return t.name
	}
}

func (t *Type) Description() string { return t.description }

// OfType unwraps exactly one List or NonNull layer; nil for named types.
func (t *Type) OfType() *Type {
	if t.kind == KindList || t.kind == KindNonNull {
		return t.ofType
	}
	return nil
}

func (t *Type) Fields() []*Field           { return t.fields }
func (t *Type) InputFields() []*InputValue { return t.inputFields }
func (t *Type) EnumValues() []*EnumValue   { return t.enumValues }
func (t *Type) PossibleTypes() []*Type     { return t.possibleTypes }

// FieldByName looks up a declared field on an Object type, transparently
// unwrapping NonNull (but not List).
func (t *Type) FieldByName(name string) *Field {
	target := t
	if target.kind == KindNonNull {
		target = target.ofType
	}
	if target.kind != KindObject {
		return nil
	}
	for _, f := range target.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// ResolveUnion invokes the union's type resolver and returns the matching
// member type. The resolver naming a type outside the declared members is
// an error.
func (t *Type) ResolveUnion(ctx Context) (*Type, error) {
	if t.kind != KindUnion {
		return nil, fmt.Errorf("type %s is not a union", t.Name())
	}
	name := t.resolveType(ctx)
	for _, member := range t.possibleTypes {
		if member.name == name {
			return member, nil
		}
	}
	return nil, fmt.Errorf("type %q is not a member of union %s", name, t.name)
}

// Field is one resolvable field of an Object type.
type Field struct {
	name        string
	description string
	typ         *Type
	arguments   []*InputValue
	resolver    Resolver
}

func (f *Field) Name() string             { return f.name }
func (f *Field) Description() string      { return f.description }
func (f *Field) Type() *Type              { return f.typ }
func (f *Field) Arguments() []*InputValue { return f.arguments }

// Resolve invokes the field's resolver. A field built without a resolver
// falls back to reading its own name from the parent object value, which is
// what plain data-carrying fields want.
func (f *Field) Resolve(ctx Context) (value.Value, error) {
	if f.resolver == nil {
		if ctx.Data != nil {
			if v, ok := ctx.Data.Get(f.name); ok {
				return v, nil
			}
		}
		return value.Null(), nil
	}
	return f.resolver(ctx)
}

// InputValue declares an argument or an input-object field.
type InputValue struct {
	name        string
	description string
	typ         *Type
}

func (v *InputValue) Name() string        { return v.name }
func (v *InputValue) Description() string { return v.description }
func (v *InputValue) Type() *Type         { return v.typ }

// EnumValue is one declared value of an Enum type.
type EnumValue struct {
	name        string
	description string
}

func (v *EnumValue) Name() string        { return v.name }
func (v *EnumValue) Description() string { return v.description }

// Schema is the immutable root of the type graph: a query type plus optional
// mutation and subscription types. Safe for concurrent use once built.
type Schema struct {
	query        *Type
	mutation     *Type
	subscription *Type
}

func NewSchema(query *Type) *Schema { return &Schema{query: query} }

func (s *Schema) SetMutation(t *Type) *Schema     { s.mutation = t; return s }
func (s *Schema) SetSubscription(t *Type) *Schema { s.subscription = t; return s }

func (s *Schema) Query() *Type        { return s.query }
func (s *Schema) Mutation() *Type     { return s.mutation }
func (s *Schema) Subscription() *Type { return s.subscription }
