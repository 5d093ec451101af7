package executor

import (
	"strconv"

	language "github.com/tidegraph/tide/internal/language"
	value "github.com/tidegraph/tide/internal/value"
)

// argumentValues materializes a field's AST arguments: variables are taken
// from the operation's variable map, everything else converts literally.
// No coercion against declared argument types is performed.
func (state *executionState) argumentValues(args []*language.Argument) map[string]value.Value {
	out := make(map[string]value.Value, len(args))
	for _, arg := range args {
		out[arg.Name] = state.valueFromAST(arg.Value)
	}
	return out
}

func (state *executionState) valueFromAST(v *language.Value) value.Value {
	if v == nil {
		return value.Null()
	}
	switch v.Kind {
	case language.IntValue:
		i, _ := strconv.ParseInt(v.Raw, 10, 64)
		return value.Int(i)
	case language.FloatValue:
		f, _ := strconv.ParseFloat(v.Raw, 64)
		return value.Float(f)
	case language.StringValue:
		return value.String(v.Raw)
	case language.BooleanValue:
		return value.Boolean(v.Raw == "true")
	case language.NullValue:
		return value.Null()
	case language.EnumValue:
		return value.Enum(v.Raw)
	case language.VariableValue:
		if val, ok := state.vars[v.Raw]; ok {
			return val
		}
		return value.Null()
	case language.ListValue:
		items := make([]value.Value, len(v.List))
		for i, item := range v.List {
			items[i] = state.valueFromAST(item)
		}
		return value.List(items...)
	case language.ObjectValue:
		fields := make([]value.ObjectField, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = value.Field(f.Name, state.valueFromAST(f.Value))
		}
		return value.Object(fields...)
	}
	return value.Null()
}
