package executor

import (
	"context"
	"fmt"

	introspection "github.com/tidegraph/tide/internal/introspection"
	language "github.com/tidegraph/tide/internal/language"
	schema "github.com/tidegraph/tide/internal/schema"
	value "github.com/tidegraph/tide/internal/value"
)

// Executor runs parsed operations against one schema. It is stateless apart
// from the schema and safe for concurrent use.
type Executor struct {
	schema *schema.Schema
}

func NewExecutor(s *schema.Schema) *Executor {
	return &Executor{schema: s}
}

// Execute parses query and runs one executable operation against the schema.
//
// operationName selects among multiple executable operations; when empty the
// first one runs. Parse failures, a missing root type and undefined fragment
// spreads abort the whole request with an error and no partial data. All
// field-level failures are isolated into Response.Errors.
func (e *Executor) Execute(ctx context.Context, query string, operationName string, vars map[string]value.Value) (*Response, error) {
	doc, err := language.Parse(query)
	if err != nil {
		return nil, err
	}
	return e.ExecuteDocument(ctx, doc, operationName, vars)
}

// ExecuteDocument runs one executable operation from an already parsed
// document. Callers that parse up front (the HTTP handler does, to classify
// the operation for events) use this to avoid parsing twice.
func (e *Executor) ExecuteDocument(ctx context.Context, doc *language.Document, operationName string, vars map[string]value.Value) (*Response, error) {
	fragments := make(map[string]*language.Operation)
	var operations []*language.Operation
	for _, op := range doc.Operations {
		if op.Kind == language.Fragment {
			fragments[op.Name] = op
		} else {
			operations = append(operations, op)
		}
	}

	operation := selectOperation(operations, operationName)
	if operation == nil {
		return nil, fmt.Errorf("operation %q not found", operationName)
	}

	var root *schema.Type
	switch operation.Kind {
	case language.Query:
		root = e.schema.Query()
	case language.Mutation:
		root = e.schema.Mutation()
	case language.Subscription:
		root = e.schema.Subscription()
	}
	if root == nil {
		return nil, fmt.Errorf("schema does not define a %s root type", operation.Kind)
	}

	if vars == nil {
		vars = map[string]value.Value{}
	}
	state := &executionState{
		ctx:       ctx,
		schema:    e.schema,
		fragments: fragments,
		vars:      vars,
	}

	if err := state.checkFragmentSpreads(operation.SelectionSet, map[string]bool{}); err != nil {
		return nil, err
	}

	data, errs := state.executeSelectionSet(root, operation.SelectionSet, nil)
	if errs == nil {
		errs = []GraphQLError{}
	}
	return &Response{Data: data, Errors: errs}, nil
}

// Execute is a convenience for one-shot execution of the first operation.
func Execute(ctx context.Context, query string, s *schema.Schema, vars map[string]value.Value) (*Response, error) {
	return NewExecutor(s).Execute(ctx, query, "", vars)
}

func selectOperation(operations []*language.Operation, name string) *language.Operation {
	if name == "" {
		if len(operations) == 0 {
			return nil
		}
		return operations[0]
	}
	for _, op := range operations {
		if op.Name == name {
			return op
		}
	}
	return nil
}

type executionState struct {
	ctx       context.Context
	schema    *schema.Schema
	fragments map[string]*language.Operation
	vars      map[string]value.Value
}

// checkFragmentSpreads resolves every spread reachable from set before any
// field executes; an undefined fragment aborts the request.
func (state *executionState) checkFragmentSpreads(set language.SelectionSet, visited map[string]bool) error {
	for _, sel := range set {
		switch s := sel.(type) {
		case *language.Field:
			if err := state.checkFragmentSpreads(s.SelectionSet, visited); err != nil {
				return err
			}
		case *language.InlineFragment:
			if err := state.checkFragmentSpreads(s.SelectionSet, visited); err != nil {
				return err
			}
		case *language.FragmentSpread:
			if visited[s.Name] {
				continue
			}
			visited[s.Name] = true
			frag, ok := state.fragments[s.Name]
			if !ok {
				return fmt.Errorf("fragment %q referenced but not defined", s.Name)
			}
			if err := state.checkFragmentSpreads(frag.SelectionSet, visited); err != nil {
				return err
			}
		}
	}
	return nil
}

// resultBuilder assembles an object value preserving the order of first
// appearance across direct fields and fragment expansions. Later entries
// with an already-used response key are dropped.
type resultBuilder struct {
	fields []value.ObjectField
	index  map[string]int
}

func newResultBuilder() *resultBuilder {
	return &resultBuilder{index: make(map[string]int)}
}

func (b *resultBuilder) has(key string) bool {
	_, ok := b.index[key]
	return ok
}

func (b *resultBuilder) add(key string, v value.Value) {
	if b.has(key) {
		return
	}
	b.index[key] = len(b.fields)
	b.fields = append(b.fields, value.ObjectField{Name: key, Value: v})
}

// executeSelectionSet evaluates set against objectType, with data as the
// object being resolved against (nil at the root). Returned error paths are
// relative to the produced object.
func (state *executionState) executeSelectionSet(objectType *schema.Type, set language.SelectionSet, data *value.Value) (value.Value, []GraphQLError) {
	b := newResultBuilder()
	var errs []GraphQLError
	state.collect(objectType, set, data, b, map[string]bool{}, &errs)
	return value.Object(b.fields...), errs
}

// collect folds one selection set into b. Fragment expansions splice their
// fields in at the point of the spread; a type-condition mismatch
// contributes nothing and produces no error.
func (state *executionState) collect(objectType *schema.Type, set language.SelectionSet, data *value.Value, b *resultBuilder, visitedFragments map[string]bool, errs *[]GraphQLError) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *language.Field:
			key := s.ResponseKey()
			if b.has(key) {
				continue
			}
			v, ferrs := state.executeField(objectType, s, data)
			b.add(key, v)
			*errs = append(*errs, ferrs...)

		case *language.InlineFragment:
			if s.TypeCondition != "" && s.TypeCondition != objectType.Name() {
				continue
			}
			state.collect(objectType, s.SelectionSet, data, b, visitedFragments, errs)

		case *language.FragmentSpread:
			if visitedFragments[s.Name] {
				continue
			}
			visitedFragments[s.Name] = true
			frag, ok := state.fragments[s.Name]
			if !ok {
				continue
			}
			if frag.TypeCondition != objectType.Name() {
				continue
			}
			state.collect(objectType, frag.SelectionSet, data, b, visitedFragments, errs)
		}
	}
}

// executeField produces the value for one field selection. Returned error
// paths end with this field's response key.
func (state *executionState) executeField(objectType *schema.Type, field *language.Field, data *value.Value) (value.Value, []GraphQLError) {
	key := field.ResponseKey()

	switch field.Name {
	case "__typename":
		return value.String(objectType.Name()), nil
	case "__schema":
		v := introspection.Schema(state.schema)
		if len(field.SelectionSet) > 0 {
			v = introspection.Select(v, field.SelectionSet, state.fragments)
		}
		return v, nil
	case "__type":
		return state.executeTypeByName(field, key)
	}

	fieldDef := objectType.FieldByName(field.Name)
	if fieldDef == nil {
		return value.Null(), []GraphQLError{{
			Message: fmt.Sprintf("Field '%s' not found on type '%s'", field.Name, objectType.Name()),
			Path:    []string{key},
		}}
	}

	rctx := schema.Context{
		Ctx:  state.ctx,
		Data: data,
		Args: state.argumentValues(field.Arguments),
		Vars: state.vars,
	}
	resolved, err := fieldDef.Resolve(rctx)
	if err != nil {
		return value.Null(), []GraphQLError{{Message: err.Error(), Path: []string{key}}}
	}

	if len(field.SelectionSet) == 0 {
		return resolved, nil
	}
	return state.completeSelections(fieldDef.Type(), field, key, resolved)
}

// completeSelections applies a field's nested selection set to its resolved
// value: objects recurse (through union resolution when declared), lists map
// the selections over every item, and any other value ignores the
// selections.
func (state *executionState) completeSelections(declared *schema.Type, field *language.Field, key string, resolved value.Value) (value.Value, []GraphQLError) {
	if declared.Kind() == schema.KindNonNull {
		declared = declared.OfType()
	}

	switch resolved.Kind {
	case value.KindObject:
		concrete := declared
		if declared.Kind() == schema.KindUnion {
			rt, err := declared.ResolveUnion(schema.Context{Ctx: state.ctx, Data: &resolved, Vars: state.vars})
			if err != nil {
				return value.Null(), []GraphQLError{{Message: err.Error(), Path: []string{key}}}
			}
			concrete = rt
		}
		child, cerrs := state.executeSelectionSet(concrete, field.SelectionSet, &resolved)
		return child, appendPathKey(cerrs, key)

	case value.KindList:
		itemType := declared
		if itemType.Kind() == schema.KindList {
			itemType = itemType.OfType()
		}
		if itemType.Kind() == schema.KindNonNull {
			itemType = itemType.OfType()
		}
		items := make([]value.Value, len(resolved.List))
		var errs []GraphQLError
		for i, item := range resolved.List {
			if item.Kind != value.KindObject {
				items[i] = item
				continue
			}
			concrete := itemType
			if itemType.Kind() == schema.KindUnion {
				rt, err := itemType.ResolveUnion(schema.Context{Ctx: state.ctx, Data: &item, Vars: state.vars})
				if err != nil {
					items[i] = value.Null()
					errs = append(errs, GraphQLError{Message: err.Error(), Path: []string{key}})
					continue
				}
				concrete = rt
			}
			child, cerrs := state.executeSelectionSet(concrete, field.SelectionSet, &item)
			items[i] = child
			errs = append(errs, appendPathKey(cerrs, key)...)
		}
		return value.List(items...), errs

	default:
		// Selections on a leaf value are ignored.
		return resolved, nil
	}
}

func (state *executionState) executeTypeByName(field *language.Field, key string) (value.Value, []GraphQLError) {
	args := state.argumentValues(field.Arguments)
	name, ok := args["name"]
	if !ok || name.Kind != value.KindString {
		return value.Null(), []GraphQLError{{
			Message: "__type requires a 'name' argument of type String",
			Path:    []string{key},
		}}
	}
	t, ok := introspection.TypeByName(state.schema, name.Str)
	if !ok {
		return value.Null(), nil
	}
	v := introspection.Type(t)
	if len(field.SelectionSet) > 0 {
		v = introspection.Select(v, field.SelectionSet, state.fragments)
	}
	return v, nil
}

func appendPathKey(errs []GraphQLError, key string) []GraphQLError {
	for i := range errs {
		errs[i].Path = append(errs[i].Path, key)
	}
	return errs
}
