// Package relay provides cursor-connection helpers in the shape popularized
// by the Relay connection spec: <Node>Connection wrapping a list of
// <Node>Edge plus a PageInfo object.
package relay

import (
	schema "github.com/tidegraph/tide/internal/schema"
	value "github.com/tidegraph/tide/internal/value"
)

var pageInfoType = schema.NewObject("PageInfo", "Information about pagination in a connection.").
	AddField(schema.NewField("hasNextPage", "When paginating forwards, are there more items?", schema.NewNonNull(schema.BooleanType()), nil)).
	AddField(schema.NewField("hasPreviousPage", "When paginating backwards, are there more items?", schema.NewNonNull(schema.BooleanType()), nil)).
	AddField(schema.NewField("startCursor", "When paginating backwards, the cursor to continue.", schema.StringType(), nil)).
	AddField(schema.NewField("endCursor", "When paginating forwards, the cursor to continue.", schema.StringType(), nil))

// PageInfoType returns the shared PageInfo object type. All connections
// reference the same instance so introspection sees a single PageInfo.
func PageInfoType() *schema.Type { return pageInfoType }

// EdgeType builds <Node>Edge for the given node type. Field resolvers are
// nil: edge values are plain objects carrying "node" and "cursor" keys.
func EdgeType(node *schema.Type) *schema.Type {
	return schema.NewObject(node.Name()+"Edge", "An edge in a connection.").
		AddField(schema.NewField("node", "The item at the end of the edge.", node, nil)).
		AddField(schema.NewField("cursor", "A cursor for use in pagination.", schema.NewNonNull(schema.StringType()), nil))
}

// ConnectionType builds <Node>Connection over EdgeType(node). Resolvers are
// nil so the connection reads "edges" and "pageInfo" straight from the value
// produced by ConnectionValue (or any object shaped the same way).
func ConnectionType(node *schema.Type) *schema.Type {
	edge := EdgeType(node)
	return schema.NewObject(node.Name()+"Connection", "A connection to a list of items.").
		AddField(schema.NewField("edges", "A list of edges.", schema.NewList(edge), nil)).
		AddField(schema.NewField("pageInfo", "Information to aid in pagination.", schema.NewNonNull(pageInfoType), nil))
}

// EdgeValue builds one edge object value.
func EdgeValue(node value.Value, cursor string) value.Value {
	return value.Object(
		value.Field("node", node),
		value.Field("cursor", value.String(cursor)),
	)
}

// PageInfo describes one page of results for ConnectionValue.
type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     string
	EndCursor       string
}

// ConnectionValue assembles the object value a ConnectionType resolver
// should return. Empty cursors render as null.
func ConnectionValue(edges []value.Value, info PageInfo) value.Value {
	return value.Object(
		value.Field("edges", value.List(edges...)),
		value.Field("pageInfo", value.Object(
			value.Field("hasNextPage", value.Boolean(info.HasNextPage)),
			value.Field("hasPreviousPage", value.Boolean(info.HasPreviousPage)),
			value.Field("startCursor", optionalCursor(info.StartCursor)),
			value.Field("endCursor", optionalCursor(info.EndCursor)),
		)),
	)
}

func optionalCursor(c string) value.Value {
	if c == "" {
		return value.Null()
	}
	return value.String(c)
}
