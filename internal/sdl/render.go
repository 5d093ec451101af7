// Package sdl renders a schema's type graph as GraphQL SDL text.
package sdl

import (
	"strings"

	introspection "github.com/tidegraph/tide/internal/introspection"
	schema "github.com/tidegraph/tide/internal/schema"
)

var builtinScalarNames = map[string]bool{
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
	"ID":      true,
}

// Render produces SDL for every named type reachable from the schema roots.
// Deterministic ordering: type names sorted lexicographically (AllTypes
// already sorts); built-in scalars are omitted.
func Render(s *schema.Schema) string {
	if s == nil {
		return ""
	}
	var b strings.Builder

	renderSchemaBlock(&b, s)

	for _, typ := range introspection.AllTypes(s) {
		if builtinScalarNames[typ.Name()] {
			continue
		}
		switch typ.Kind() {
		case schema.KindScalar:
			renderScalar(&b, typ)
		case schema.KindEnum:
			renderEnum(&b, typ)
		case schema.KindInputObject:
			renderInputObject(&b, typ)
		case schema.KindObject:
			renderObject(&b, typ)
		case schema.KindUnion:
			renderUnion(&b, typ)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// ----- render helpers -----

func renderSchemaBlock(b *strings.Builder, s *schema.Schema) {
	b.WriteString("schema {\n")
	b.WriteString("  query: ")
	b.WriteString(s.Query().Name())
	b.WriteString("\n")
	if m := s.Mutation(); m != nil {
		b.WriteString("  mutation: ")
		b.WriteString(m.Name())
		b.WriteString("\n")
	}
	if sub := s.Subscription(); sub != nil {
		b.WriteString("  subscription: ")
		b.WriteString(sub.Name())
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderDescription(b *strings.Builder, desc string, indent string) {
	if desc == "" {
		return
	}
	escaped := strings.ReplaceAll(desc, "\"", "\\\"")
	b.WriteString(indent)
	b.WriteString("\"\"\"\n")
	b.WriteString(indent)
	b.WriteString(escaped)
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString("\"\"\"\n")
}

func renderScalar(b *strings.Builder, typ *schema.Type) {
	renderDescription(b, typ.Description(), "")
	b.WriteString("scalar ")
	b.WriteString(typ.Name())
	b.WriteString("\n\n")
}

func renderEnum(b *strings.Builder, typ *schema.Type) {
	renderDescription(b, typ.Description(), "")
	b.WriteString("enum ")
	b.WriteString(typ.Name())
	b.WriteString(" {\n")
	for _, val := range typ.EnumValues() {
		renderDescription(b, val.Description(), "  ")
		b.WriteString("  ")
		b.WriteString(val.Name())
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderInputObject(b *strings.Builder, typ *schema.Type) {
	renderDescription(b, typ.Description(), "")
	b.WriteString("input ")
	b.WriteString(typ.Name())
	b.WriteString(" {\n")
	for _, field := range typ.InputFields() {
		renderDescription(b, field.Description(), "  ")
		b.WriteString("  ")
		b.WriteString(field.Name())
		b.WriteString(": ")
		b.WriteString(field.Type().Name())
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderObject(b *strings.Builder, typ *schema.Type) {
	renderDescription(b, typ.Description(), "")
	b.WriteString("type ")
	b.WriteString(typ.Name())
	b.WriteString(" {\n")
	for _, field := range typ.Fields() {
		renderField(b, field)
	}
	b.WriteString("}\n\n")
}

func renderUnion(b *strings.Builder, typ *schema.Type) {
	renderDescription(b, typ.Description(), "")
	b.WriteString("union ")
	b.WriteString(typ.Name())
	b.WriteString(" = ")
	for i, member := range typ.PossibleTypes() {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(member.Name())
	}
	b.WriteString("\n\n")
}

func renderField(b *strings.Builder, field *schema.Field) {
	renderDescription(b, field.Description(), "  ")
	b.WriteString("  ")
	b.WriteString(field.Name())
	if args := field.Arguments(); len(args) > 0 {
		b.WriteString("(")
		for i, arg := range args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name())
			b.WriteString(": ")
			b.WriteString(arg.Type().Name())
		}
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(field.Type().Name())
	b.WriteString("\n")
}
