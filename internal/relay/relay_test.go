package relay

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	executor "github.com/tidegraph/tide/internal/executor"
	schema "github.com/tidegraph/tide/internal/schema"
	value "github.com/tidegraph/tide/internal/value"
)

func TestConnectionTypeShape(t *testing.T) {
	itemType := schema.NewObject("Item", "").
		AddField(schema.NewField("id", "", schema.NewNonNull(schema.IDType()), nil))

	conn := ConnectionType(itemType)
	require.Equal(t, "ItemConnection", conn.Name())

	edges := conn.FieldByName("edges")
	require.NotNil(t, edges)
	require.Equal(t, "[ItemEdge]", edges.Type().Name())

	edgeType := edges.Type().OfType()
	require.Equal(t, "Item", edgeType.FieldByName("node").Type().Name())
	require.Equal(t, "String!", edgeType.FieldByName("cursor").Type().Name())

	pageInfo := conn.FieldByName("pageInfo")
	require.NotNil(t, pageInfo)
	require.Equal(t, "PageInfo!", pageInfo.Type().Name())
}

func TestPageInfoTypeIsShared(t *testing.T) {
	a := ConnectionType(schema.NewObject("A", ""))
	b := ConnectionType(schema.NewObject("B", ""))
	require.Same(t, a.FieldByName("pageInfo").Type().OfType(), b.FieldByName("pageInfo").Type().OfType())
	require.Same(t, PageInfoType(), a.FieldByName("pageInfo").Type().OfType())
}

func TestConnectionExecutesEndToEnd(t *testing.T) {
	itemType := schema.NewObject("Item", "").
		AddField(schema.NewField("id", "", schema.NewNonNull(schema.IDType()), nil))

	queryType := schema.NewObject("Query", "").
		AddField(schema.NewField("items", "", ConnectionType(itemType), func(schema.Context) (value.Value, error) {
			edges := []value.Value{
				EdgeValue(value.Object(value.Field("id", value.String("1"))), "c1"),
				EdgeValue(value.Object(value.Field("id", value.String("2"))), "c2"),
			}
			return ConnectionValue(edges, PageInfo{
				HasNextPage: true,
				StartCursor: "c1",
				EndCursor:   "c2",
			}), nil
		}))

	res, err := executor.Execute(context.Background(), `{
		items {
			edges { node { id } cursor }
			pageInfo { hasNextPage hasPreviousPage startCursor endCursor }
		}
	}`, schema.NewSchema(queryType), nil)
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	b, err := json.Marshal(res.Data)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"items": {
			"edges": [
				{"node": {"id": "1"}, "cursor": "c1"},
				{"node": {"id": "2"}, "cursor": "c2"}
			],
			"pageInfo": {
				"hasNextPage": true,
				"hasPreviousPage": false,
				"startCursor": "c1",
				"endCursor": "c2"
			}
		}
	}`, string(b))
}

func TestConnectionValueEmptyCursorsAreNull(t *testing.T) {
	v := ConnectionValue(nil, PageInfo{})
	info, ok := v.Get("pageInfo")
	require.True(t, ok)
	start, _ := info.Get("startCursor")
	require.True(t, start.IsNull())
	end, _ := info.Get("endCursor")
	require.True(t, end.IsNull())
}
