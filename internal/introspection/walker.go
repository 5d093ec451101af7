package introspection

import (
	language "github.com/tidegraph/tide/internal/language"
	value "github.com/tidegraph/tide/internal/value"
)

// Select evaluates a selection set directly over an already-built value
// tree. Introspection objects carry no field descriptors or resolvers, so
// lookup is by key; fragment spreads and inline fragments apply
// unconditionally since a plain value has no declared type to check a
// condition against.
func Select(v value.Value, set language.SelectionSet, fragments map[string]*language.Operation) value.Value {
	return selectValue(v, set, fragments, map[string]bool{})
}

// selectValue walks v. visited carries the "name" fields of the objects on
// the current descent path; meeting one again returns a minimal
// {name, kind} object instead of recursing, which bounds chains like
// type.fields[].type.ofType... on self-referential type graphs.
func selectValue(v value.Value, set language.SelectionSet, fragments map[string]*language.Operation, visited map[string]bool) value.Value {
	switch v.Kind {
	case value.KindList:
		items := make([]value.Value, len(v.List))
		for i, item := range v.List {
			items[i] = selectValue(item, set, fragments, visited)
		}
		return value.List(items...)

	case value.KindObject:
		if name, ok := v.Get("name"); ok && name.Kind == value.KindString {
			if visited[name.Str] {
				kind, _ := v.Get("kind")
				return value.Object(
					value.Field("name", name),
					value.Field("kind", kind),
				)
			}
			visited[name.Str] = true
			defer delete(visited, name.Str)
		}
		b := &objectBuilder{index: make(map[string]int)}
		collectSelections(v, set, fragments, visited, map[string]bool{}, b)
		return value.Object(b.fields...)

	default:
		return v
	}
}

type objectBuilder struct {
	fields []value.ObjectField
	index  map[string]int
}

func (b *objectBuilder) add(key string, v value.Value) {
	if _, ok := b.index[key]; ok {
		return
	}
	b.index[key] = len(b.fields)
	b.fields = append(b.fields, value.Field(key, v))
}

func collectSelections(v value.Value, set language.SelectionSet, fragments map[string]*language.Operation, visited map[string]bool, visitedFragments map[string]bool, b *objectBuilder) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *language.Field:
			child, ok := v.Get(s.Name)
			if !ok {
				b.add(s.ResponseKey(), value.Null())
				continue
			}
			if len(s.SelectionSet) > 0 {
				child = selectValue(child, s.SelectionSet, fragments, visited)
			}
			b.add(s.ResponseKey(), child)

		case *language.InlineFragment:
			collectSelections(v, s.SelectionSet, fragments, visited, visitedFragments, b)

		case *language.FragmentSpread:
			if visitedFragments[s.Name] {
				continue
			}
			visitedFragments[s.Name] = true
			frag, ok := fragments[s.Name]
			if !ok {
				continue
			}
			collectSelections(v, frag.SelectionSet, fragments, visited, visitedFragments, b)
		}
	}
}
