package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	schema "github.com/tidegraph/tide/internal/schema"
	value "github.com/tidegraph/tide/internal/value"
)

// testSchema builds a small catalog schema exercising objects, lists, unions,
// arguments, variables and failing resolvers.
func testSchema() *schema.Schema {
	bookType := schema.NewObject("Book", "").
		AddField(schema.NewField("id", "", schema.NewNonNull(schema.IDType()), nil)).
		AddField(schema.NewField("title", "", schema.StringType(), nil)).
		AddField(schema.NewField("shelf", "", schema.StringType(), func(ctx schema.Context) (value.Value, error) {
			return value.Null(), fmt.Errorf("shelf lookup failed")
		}))

	authorType := schema.NewObject("Author", "").
		AddField(schema.NewField("id", "", schema.NewNonNull(schema.IDType()), nil)).
		AddField(schema.NewField("name", "", schema.StringType(), nil))

	searchResultType := schema.NewUnion("SearchResult", "", func(ctx schema.Context) string {
		if ctx.Data != nil {
			if _, ok := ctx.Data.Get("title"); ok {
				return "Book"
			}
			if _, ok := ctx.Data.Get("name"); ok {
				return "Author"
			}
		}
		return "Unknown"
	}).AddPossibleType(bookType).AddPossibleType(authorType)

	solaris := value.Object(
		value.Field("id", value.String("1")),
		value.Field("title", value.String("Solaris")),
	)
	kindred := value.Object(
		value.Field("id", value.String("2")),
		value.Field("title", value.String("Kindred")),
	)
	lem := value.Object(
		value.Field("id", value.String("10")),
		value.Field("name", value.String("Lem")),
	)

	queryType := schema.NewObject("Query", "").
		AddField(schema.NewField("hello", "", schema.StringType(), func(schema.Context) (value.Value, error) {
			return value.String("world"), nil
		})).
		AddField(schema.NewField("echo", "", schema.StringType(), func(ctx schema.Context) (value.Value, error) {
			if msg, ok := ctx.Args["msg"]; ok {
				return msg, nil
			}
			return value.Null(), nil
		}).AddArgument(schema.NewInputValue("msg", "", schema.StringType()))).
		AddField(schema.NewField("fail", "", schema.StringType(), func(schema.Context) (value.Value, error) {
			return value.Null(), fmt.Errorf("boom")
		})).
		AddField(schema.NewField("book", "", bookType, func(schema.Context) (value.Value, error) {
			return solaris, nil
		})).
		AddField(schema.NewField("books", "", schema.NewList(schema.NewNonNull(bookType)), func(schema.Context) (value.Value, error) {
			return value.List(solaris, kindred), nil
		})).
		AddField(schema.NewField("search", "", schema.NewList(searchResultType), func(schema.Context) (value.Value, error) {
			return value.List(solaris, lem), nil
		})).
		AddField(schema.NewField("tags", "", schema.NewList(schema.StringType()), func(schema.Context) (value.Value, error) {
			return value.List(value.String("a"), value.String("b")), nil
		}))

	mutationType := schema.NewObject("Mutation", "").
		AddField(schema.NewField("touch", "", schema.BooleanType(), func(schema.Context) (value.Value, error) {
			return value.Boolean(true), nil
		}))

	return schema.NewSchema(queryType).SetMutation(mutationType)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func run(t *testing.T, query string) *Response {
	t.Helper()
	res, err := Execute(context.Background(), query, testSchema(), nil)
	require.NoError(t, err)
	return res
}

func TestExecuteHello(t *testing.T) {
	res := run(t, `{ hello }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"hello":"world"}`, mustJSON(t, res.Data))
}

func TestExecuteAlias(t *testing.T) {
	res := run(t, `{ greeting: hello hello }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"greeting":"world","hello":"world"}`, mustJSON(t, res.Data))
}

func TestExecuteArguments(t *testing.T) {
	res := run(t, `{ echo(msg: "hi") }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"echo":"hi"}`, mustJSON(t, res.Data))
}

func TestExecuteVariables(t *testing.T) {
	vars := map[string]value.Value{"m": value.String("from var")}
	res, err := NewExecutor(testSchema()).Execute(context.Background(), `query Q($m: String) { echo(msg: $m) }`, "", vars)
	require.NoError(t, err)
	require.Equal(t, `{"echo":"from var"}`, mustJSON(t, res.Data))
}

func TestExecuteUndefinedVariableIsNull(t *testing.T) {
	res := run(t, `{ echo(msg: $nope) }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"echo":null}`, mustJSON(t, res.Data))
}

func TestExecuteUnknownField(t *testing.T) {
	res := run(t, `{ hello invalid }`)
	require.Equal(t, `{"hello":"world","invalid":null}`, mustJSON(t, res.Data))
	require.Len(t, res.Errors, 1)
	require.Equal(t, "Field 'invalid' not found on type 'Query'", res.Errors[0].Message)
	require.Equal(t, []string{"invalid"}, res.Errors[0].Path)
}

func TestExecuteResolverErrorIsIsolated(t *testing.T) {
	res := run(t, `{ fail hello }`)
	require.Equal(t, `{"fail":null,"hello":"world"}`, mustJSON(t, res.Data))
	require.Len(t, res.Errors, 1)
	require.Equal(t, "boom", res.Errors[0].Message)
	require.Equal(t, []string{"fail"}, res.Errors[0].Path)
}

func TestExecuteNestedErrorPathIsInnermostFirst(t *testing.T) {
	res := run(t, `{ book { title shelf } }`)
	require.Equal(t, `{"book":{"title":"Solaris","shelf":null}}`, mustJSON(t, res.Data))
	require.Len(t, res.Errors, 1)
	require.Equal(t, []string{"shelf", "book"}, res.Errors[0].Path)
}

func TestExecuteListErrorPaths(t *testing.T) {
	res := run(t, `{ books { id shelf } }`)
	require.Equal(t,
		`{"books":[{"id":"1","shelf":null},{"id":"2","shelf":null}]}`,
		mustJSON(t, res.Data))
	require.Len(t, res.Errors, 2)
	for _, e := range res.Errors {
		require.Equal(t, []string{"shelf", "books"}, e.Path)
	}
}

func TestExecuteListOfLeaves(t *testing.T) {
	res := run(t, `{ tags }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"tags":["a","b"]}`, mustJSON(t, res.Data))
}

func TestExecuteDuplicateKeysFirstWins(t *testing.T) {
	res := run(t, `{ hello: echo(msg: "first") hello: echo(msg: "second") }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"hello":"first"}`, mustJSON(t, res.Data))
}

func TestExecuteTypename(t *testing.T) {
	res := run(t, `{ __typename book { __typename } }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"__typename":"Query","book":{"__typename":"Book"}}`, mustJSON(t, res.Data))
}

func TestExecuteFragmentSpread(t *testing.T) {
	res := run(t, `
		fragment Core on Book { id title }
		query { book { ...Core } }
	`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"book":{"id":"1","title":"Solaris"}}`, mustJSON(t, res.Data))
}

func TestExecuteFragmentMergeOrder(t *testing.T) {
	// First occurrence of a response key fixes its position and value.
	res := run(t, `
		fragment Extra on Book { title id }
		query { book { id ...Extra } }
	`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"book":{"id":"1","title":"Solaris"}}`, mustJSON(t, res.Data))
}

func TestExecuteFragmentTypeMismatchContributesNothing(t *testing.T) {
	res := run(t, `
		fragment AuthorBits on Author { name }
		query { book { id ...AuthorBits } }
	`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"book":{"id":"1"}}`, mustJSON(t, res.Data))
}

func TestExecuteInlineFragments(t *testing.T) {
	res := run(t, `{ book { ... on Book { id } ... on Author { name } ... { title } } }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"book":{"id":"1","title":"Solaris"}}`, mustJSON(t, res.Data))
}

func TestExecuteUndefinedFragmentAborts(t *testing.T) {
	_, err := Execute(context.Background(), `{ book { ...Nope } }`, testSchema(), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), `fragment "Nope" referenced but not defined`)
}

func TestExecuteCyclicFragmentsTerminate(t *testing.T) {
	res := run(t, `
		fragment A on Book { id ...B }
		fragment B on Book { title ...A }
		query { book { ...A } }
	`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"book":{"id":"1","title":"Solaris"}}`, mustJSON(t, res.Data))
}

func TestExecuteUnion(t *testing.T) {
	res := run(t, `{ search {
		__typename
		... on Book { title }
		... on Author { name }
	} }`)
	require.Empty(t, res.Errors)
	require.Equal(t,
		`{"search":[{"__typename":"Book","title":"Solaris"},{"__typename":"Author","name":"Lem"}]}`,
		mustJSON(t, res.Data))
}

func TestExecuteUnionResolverFailure(t *testing.T) {
	s := testSchema()
	// A union whose resolver names a non-member yields null plus an error.
	stray := schema.NewUnion("Stray", "", func(schema.Context) string { return "Elsewhere" }).
		AddPossibleType(schema.NewObject("Member", ""))
	s.Query().AddField(schema.NewField("stray", "", stray, func(schema.Context) (value.Value, error) {
		return value.Object(value.Field("x", value.Int(1))), nil
	}))

	res, err := NewExecutor(s).Execute(context.Background(), `{ stray { x } }`, "", nil)
	require.NoError(t, err)
	require.Equal(t, `{"stray":null}`, mustJSON(t, res.Data))
	require.Len(t, res.Errors, 1)
	require.Equal(t, []string{"stray"}, res.Errors[0].Path)
}

func TestExecuteOperationSelection(t *testing.T) {
	doc := `
		query First { hello }
		query Second { echo(msg: "two") }
	`
	exec := NewExecutor(testSchema())

	res, err := exec.Execute(context.Background(), doc, "", nil)
	require.NoError(t, err)
	require.Equal(t, `{"hello":"world"}`, mustJSON(t, res.Data))

	res, err = exec.Execute(context.Background(), doc, "Second", nil)
	require.NoError(t, err)
	require.Equal(t, `{"echo":"two"}`, mustJSON(t, res.Data))

	_, err = exec.Execute(context.Background(), doc, "Third", nil)
	require.Error(t, err)
}

func TestExecuteMutation(t *testing.T) {
	res := run(t, `mutation { touch }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"touch":true}`, mustJSON(t, res.Data))
}

func TestExecuteMissingRootType(t *testing.T) {
	_, err := Execute(context.Background(), `subscription { tick }`, testSchema(), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "schema does not define a subscription root type")
}

func TestExecuteParseErrorAborts(t *testing.T) {
	_, err := Execute(context.Background(), `{ hello`, testSchema(), nil)
	require.Error(t, err)
}

func TestExecuteSelectionsOnLeafAreIgnored(t *testing.T) {
	res := run(t, `{ hello { anything } }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"hello":"world"}`, mustJSON(t, res.Data))
}

func TestResponseJSONShape(t *testing.T) {
	res := run(t, `{ fail }`)
	b, err := json.Marshal(res)
	require.NoError(t, err)
	require.Equal(t, `{"data":{"fail":null},"errors":[{"message":"boom","path":["fail"]}]}`, string(b))

	clean := run(t, `{ hello }`)
	b, err = json.Marshal(clean)
	require.NoError(t, err)
	require.Equal(t, `{"data":{"hello":"world"}}`, string(b))
}

func TestExecuteTypeIntrospection(t *testing.T) {
	res := run(t, `{ __type(name: "Book") { name kind } }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"__type":{"name":"Book","kind":"OBJECT"}}`, mustJSON(t, res.Data))
}

func TestExecuteTypeIntrospectionUnknownName(t *testing.T) {
	res := run(t, `{ __type(name: "Nope") { name } }`)
	require.Empty(t, res.Errors)
	require.Equal(t, `{"__type":null}`, mustJSON(t, res.Data))
}

func TestExecuteTypeIntrospectionMissingArg(t *testing.T) {
	res := run(t, `{ __type { name } }`)
	require.Len(t, res.Errors, 1)
	require.Equal(t, []string{"__type"}, res.Errors[0].Path)
	require.Equal(t, `{"__type":null}`, mustJSON(t, res.Data))
}

func TestExecuteSchemaIntrospectionRoots(t *testing.T) {
	res := run(t, `{ __schema { queryType { name } mutationType { name } subscriptionType { name } } }`)
	require.Empty(t, res.Errors)

	want := value.Object(
		value.Field("__schema", value.Object(
			value.Field("queryType", value.Object(value.Field("name", value.String("Query")))),
			value.Field("mutationType", value.Object(value.Field("name", value.String("Mutation")))),
			value.Field("subscriptionType", value.Null()),
		)),
	)
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("__schema roots mismatch (-want +got):\n%s", diff)
	}
}
