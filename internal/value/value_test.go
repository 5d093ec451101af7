package value

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	require.True(t, Null().IsNull())
	require.Equal(t, KindBoolean, Boolean(true).Kind)
	require.Equal(t, int64(7), Int(7).Int)
	require.Equal(t, 1.5, Float(1.5).Float)
	require.Equal(t, "hi", String("hi").Str)
	require.Equal(t, KindEnum, Enum("ASC").Kind)
	require.Len(t, List(Int(1), Int(2)).List, 2)
}

func TestObjectGet(t *testing.T) {
	obj := Object(
		Field("a", Int(1)),
		Field("b", String("x")),
	)
	a, ok := obj.Get("a")
	require.True(t, ok)
	require.Equal(t, int64(1), a.Int)

	_, ok = obj.Get("missing")
	require.False(t, ok)

	_, ok = Null().Get("a")
	require.False(t, ok)
}

func TestMarshalJSONPreservesFieldOrder(t *testing.T) {
	obj := Object(
		Field("zebra", Int(1)),
		Field("apple", Int(2)),
		Field("mango", Int(3)),
	)
	b, err := json.Marshal(obj)
	require.NoError(t, err)
	require.Equal(t, `{"zebra":1,"apple":2,"mango":3}`, string(b))
}

func TestMarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		want string
	}{
		{"null", Null(), `null`},
		{"bool", Boolean(false), `false`},
		{"int", Int(-3), `-3`},
		{"float", Float(2.5), `2.5`},
		{"string", String(`a"b`), `"a\"b"`},
		{"enum as plain string", Enum("HARDCOVER"), `"HARDCOVER"`},
		{"list", List(Int(1), Null(), String("x")), `[1,null,"x"]`},
		{"nested", Object(Field("l", List(Object(Field("a", Int(1)))))), `{"l":[{"a":1}]}`},
		{"empty list", List(), `[]`},
		{"empty object", Object(), `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, string(b))
		})
	}
}

func TestFromAny(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"bool", true, Boolean(true)},
		{"int", 5, Int(5)},
		{"int64", int64(5), Int(5)},
		{"integral float becomes int", float64(3), Int(3)},
		{"fractional float stays float", 3.5, Float(3.5)},
		{"string", "hi", String("hi")},
		{"slice", []any{1, "a"}, List(Int(1), String("a"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, FromAny(tc.in)); diff != "" {
				t.Fatalf("FromAny mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromAnyMapKeysSorted(t *testing.T) {
	got := FromAny(map[string]any{"b": 2, "a": 1, "c": 3})
	require.Equal(t, KindObject, got.Kind)
	require.Len(t, got.Fields, 3)
	require.Equal(t, "a", got.Fields[0].Name)
	require.Equal(t, "b", got.Fields[1].Name)
	require.Equal(t, "c", got.Fields[2].Name)
}

func TestFromAnyMap(t *testing.T) {
	vars := FromAnyMap(map[string]any{"id": "42", "limit": float64(10)})
	require.Equal(t, String("42"), vars["id"])
	require.Equal(t, Int(10), vars["limit"])

	require.Empty(t, FromAnyMap(nil))
}
