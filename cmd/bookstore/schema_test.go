package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	executor "github.com/tidegraph/tide/internal/executor"
	schema "github.com/tidegraph/tide/internal/schema"
	value "github.com/tidegraph/tide/internal/value"
)

func testStore(t *testing.T) (*store, *schema.Schema) {
	t.Helper()
	st, err := openStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, buildSchema(st)
}

func query(t *testing.T, sch *schema.Schema, q string, vars map[string]value.Value) *executor.Response {
	t.Helper()
	res, err := executor.NewExecutor(sch).Execute(context.Background(), q, "", vars)
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	return res
}

func dataJSON(t *testing.T, res *executor.Response) string {
	t.Helper()
	b, err := json.Marshal(res.Data)
	require.NoError(t, err)
	return string(b)
}

func TestBookLookup(t *testing.T) {
	_, sch := testStore(t)
	res := query(t, sch, `{ book(id: "1") { title format year author { name } } }`, nil)
	require.JSONEq(t, `{
		"book": {
			"title": "The Dispossessed",
			"format": "PAPERBACK",
			"year": 1974,
			"author": {"name": "Ursula K. Le Guin"}
		}
	}`, dataJSON(t, res))
}

func TestBookLookupMissingIsNull(t *testing.T) {
	_, sch := testStore(t)
	res := query(t, sch, `{ book(id: "999") { title } }`, nil)
	require.JSONEq(t, `{"book":null}`, dataJSON(t, res))
}

func TestAuthorBooks(t *testing.T) {
	_, sch := testStore(t)
	res := query(t, sch, `{ author(id: "2") { name books { title } } }`, nil)
	require.JSONEq(t, `{
		"author": {
			"name": "Stanisław Lem",
			"books": [{"title": "Solaris"}, {"title": "The Cyberiad"}]
		}
	}`, dataJSON(t, res))
}

func TestBooksConnectionPagination(t *testing.T) {
	_, sch := testStore(t)

	res := query(t, sch, `{ books(first: 2) {
		edges { node { title } cursor }
		pageInfo { hasNextPage hasPreviousPage endCursor }
	} }`, nil)

	var data struct {
		Books struct {
			Edges []struct {
				Node   struct{ Title string }
				Cursor string
			}
			PageInfo struct {
				HasNextPage     bool
				HasPreviousPage bool
				EndCursor       string
			}
		}
	}
	require.NoError(t, json.Unmarshal([]byte(dataJSON(t, res)), &data))
	require.Len(t, data.Books.Edges, 2)
	require.True(t, data.Books.PageInfo.HasNextPage)
	require.False(t, data.Books.PageInfo.HasPreviousPage)

	// Resume from the cursor.
	vars := map[string]value.Value{"c": value.String(data.Books.PageInfo.EndCursor)}
	res = query(t, sch, `query Next($c: String) { books(first: 2, after: $c) {
		edges { node { title } }
		pageInfo { hasPreviousPage }
	} }`, vars)
	require.JSONEq(t, `{
		"books": {
			"edges": [{"node": {"title": "Solaris"}}, {"node": {"title": "The Cyberiad"}}],
			"pageInfo": {"hasPreviousPage": true}
		}
	}`, dataJSON(t, res))
}

func TestBooksConnectionFilter(t *testing.T) {
	_, sch := testStore(t)
	res := query(t, sch, `{ books(filter: {format: EBOOK}) { edges { node { title format } } } }`, nil)
	require.JSONEq(t, `{
		"books": {
			"edges": [
				{"node": {"title": "The Cyberiad", "format": "EBOOK"}},
				{"node": {"title": "Parable of the Sower", "format": "EBOOK"}}
			]
		}
	}`, dataJSON(t, res))
}

func TestSearchUnion(t *testing.T) {
	_, sch := testStore(t)
	res := query(t, sch, `{ search(term: "le guin") {
		__typename
		... on Book { title }
		... on Author { name }
	} }`, nil)
	require.JSONEq(t, `{
		"search": [{"__typename": "Author", "name": "Ursula K. Le Guin"}]
	}`, dataJSON(t, res))
}

func TestSearchMatchesBooksAndAuthors(t *testing.T) {
	_, sch := testStore(t)
	res := query(t, sch, `{ search(term: "sol") { __typename ... on Book { title } } }`, nil)
	require.JSONEq(t, `{
		"search": [{"__typename": "Book", "title": "Solaris"}]
	}`, dataJSON(t, res))
}

func TestAddBookMutation(t *testing.T) {
	_, sch := testStore(t)

	res := query(t, sch, `mutation {
		addBook(title: "The Word for World is Forest", authorId: "1", format: HARDCOVER, year: 1972) {
			title format year author { name }
		}
	}`, nil)
	require.JSONEq(t, `{
		"addBook": {
			"title": "The Word for World is Forest",
			"format": "HARDCOVER",
			"year": 1972,
			"author": {"name": "Ursula K. Le Guin"}
		}
	}`, dataJSON(t, res))

	// Persisted and visible to subsequent queries.
	check := query(t, sch, `{ author(id: "1") { books { title } } }`, nil)
	require.Contains(t, dataJSON(t, check), "The Word for World is Forest")
}

func TestAddBookUnknownAuthorFails(t *testing.T) {
	_, sch := testStore(t)
	res, err := executor.NewExecutor(sch).Execute(context.Background(),
		`mutation { addBook(title: "x", authorId: "999") { id } }`, "", nil)
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	require.Equal(t, []string{"addBook"}, res.Errors[0].Path)
}

func TestCursorRoundTrip(t *testing.T) {
	c := encodeCursor(42)
	id, err := decodeCursor(c)
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	_, err = decodeCursor("not base64!")
	require.Error(t, err)
	_, err = decodeCursor(encodeCursor(0)[:4])
	require.Error(t, err)
}

func TestIntrospectionOverBookstoreSchema(t *testing.T) {
	_, sch := testStore(t)
	res := query(t, sch, `{ __type(name: "BookFormat") { kind enumValues { name } } }`, nil)
	require.JSONEq(t, `{
		"__type": {
			"kind": "ENUM",
			"enumValues": [{"name": "HARDCOVER"}, {"name": "PAPERBACK"}, {"name": "EBOOK"}]
		}
	}`, dataJSON(t, res))
}
