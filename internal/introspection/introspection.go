// Package introspection renders a schema's own structure as a value tree
// answering __schema and __type queries, and evaluates nested selections
// over that tree.
//
// There is no central type registry: every builder call produces a fresh
// Type instance, so the closure walk can meet the same type name several
// times. Per name, the instance with the most content wins.
package introspection

import (
	"sort"

	schema "github.com/tidegraph/tide/internal/schema"
	value "github.com/tidegraph/tide/internal/value"
)

// Schema renders the whole __schema object: root type references, the
// reachable type closure, and the (always empty) directive list.
func Schema(s *schema.Schema) value.Value {
	types := AllTypes(s)
	typeValues := make([]value.Value, len(types))
	for i, t := range types {
		typeValues[i] = Type(t)
	}

	fields := []value.ObjectField{
		value.Field("queryType", Type(s.Query())),
		value.Field("mutationType", optionalType(s.Mutation())),
		value.Field("subscriptionType", optionalType(s.Subscription())),
		value.Field("types", value.List(typeValues...)),
		value.Field("directives", value.List()),
	}
	return value.Object(fields...)
}

func optionalType(t *schema.Type) value.Value {
	if t == nil {
		return value.Null()
	}
	return Type(t)
}

// Type renders one type as the full __Type shape.
func Type(t *schema.Type) value.Value {
	return typeValue(t, map[string]bool{})
}

// TypeByName looks up a named type over the reachable closure plus the
// built-in scalars.
func TypeByName(s *schema.Schema, name string) (*schema.Type, bool) {
	for _, t := range AllTypes(s) {
		if t.Name() == name {
			return t, true
		}
	}
	for _, t := range schema.BuiltinScalars() {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// AllTypes walks the type graph reachable from the schema roots and returns
// the named types, deduplicated by name with the most-content instance
// winning. The skip-descent rule below doubles as the cycle breaker for
// self-referential type graphs. Output is name-sorted for determinism.
func AllTypes(s *schema.Schema) []*schema.Type {
	c := &collector{
		best:  make(map[string]*schema.Type),
		count: make(map[string]int),
	}
	c.walk(s.Query())
	c.walk(s.Mutation())
	c.walk(s.Subscription())

	names := make([]string, 0, len(c.best))
	for name := range c.best {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*schema.Type, len(names))
	for i, name := range names {
		out[i] = c.best[name]
	}
	return out
}

type collector struct {
	best  map[string]*schema.Type
	count map[string]int
}

func (c *collector) walk(t *schema.Type) {
	if t == nil {
		return
	}
	if inner := t.OfType(); inner != nil {
		c.walk(inner)
		return
	}

	name := t.Name()
	n := contentCount(t)
	if bestN, seen := c.count[name]; seen && n <= bestN {
		// An equally or more complete instance was already walked; not
		// descending here is what bounds recursive type graphs.
		return
	}
	c.best[name] = t
	c.count[name] = n

	for _, f := range t.Fields() {
		c.walk(f.Type())
		for _, a := range f.Arguments() {
			c.walk(a.Type())
		}
	}
	for _, iv := range t.InputFields() {
		c.walk(iv.Type())
	}
	for _, pt := range t.PossibleTypes() {
		c.walk(pt)
	}
}

func contentCount(t *schema.Type) int {
	return len(t.Fields()) + len(t.EnumValues()) + len(t.InputFields()) + len(t.PossibleTypes())
}

// typeValue renders t recursively. path carries the named types currently
// being rendered; meeting one again emits a minimal {kind, name} reference,
// which keeps the eagerly built tree finite on cyclic schemas.
func typeValue(t *schema.Type, path map[string]bool) value.Value {
	if inner := t.OfType(); inner != nil {
		return value.Object(
			value.Field("kind", value.Enum(string(t.Kind()))),
			value.Field("name", value.Null()),
			value.Field("ofType", typeValue(inner, path)),
		)
	}

	name := t.Name()
	if path[name] {
		return value.Object(
			value.Field("kind", value.Enum(string(t.Kind()))),
			value.Field("name", value.String(name)),
		)
	}
	path[name] = true
	defer delete(path, name)

	fields := []value.ObjectField{
		value.Field("kind", value.Enum(string(t.Kind()))),
		value.Field("name", value.String(name)),
		value.Field("description", optionalString(t.Description())),
	}

	switch t.Kind() {
	case schema.KindObject:
		fieldValues := make([]value.Value, len(t.Fields()))
		for i, f := range t.Fields() {
			fieldValues[i] = fieldValue(f, path)
		}
		fields = append(fields, value.Field("fields", value.List(fieldValues...)))
	case schema.KindInputObject:
		inputValues := make([]value.Value, len(t.InputFields()))
		for i, iv := range t.InputFields() {
			inputValues[i] = inputValueValue(iv, path)
		}
		fields = append(fields, value.Field("inputFields", value.List(inputValues...)))
	case schema.KindEnum:
		enumValues := make([]value.Value, len(t.EnumValues()))
		for i, ev := range t.EnumValues() {
			enumValues[i] = value.Object(
				value.Field("name", value.String(ev.Name())),
				value.Field("description", optionalString(ev.Description())),
			)
		}
		fields = append(fields, value.Field("enumValues", value.List(enumValues...)))
	case schema.KindUnion:
		members := make([]value.Value, len(t.PossibleTypes()))
		for i, pt := range t.PossibleTypes() {
			members[i] = typeValue(pt, path)
		}
		fields = append(fields, value.Field("possibleTypes", value.List(members...)))
	}

	fields = append(fields, value.Field("ofType", value.Null()))
	return value.Object(fields...)
}

func fieldValue(f *schema.Field, path map[string]bool) value.Value {
	args := make([]value.Value, len(f.Arguments()))
	for i, a := range f.Arguments() {
		args[i] = inputValueValue(a, path)
	}
	return value.Object(
		value.Field("name", value.String(f.Name())),
		value.Field("description", optionalString(f.Description())),
		value.Field("args", value.List(args...)),
		value.Field("type", typeValue(f.Type(), path)),
	)
}

func inputValueValue(iv *schema.InputValue, path map[string]bool) value.Value {
	return value.Object(
		value.Field("name", value.String(iv.Name())),
		value.Field("description", optionalString(iv.Description())),
		value.Field("type", typeValue(iv.Type(), path)),
	)
}

func optionalString(s string) value.Value {
	if s == "" {
		return value.Null()
	}
	return value.String(s)
}
