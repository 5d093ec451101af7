package schema

var stringType = &Type{
	kind:        KindScalar,
	name:        "String",
	description: "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
}

var intType = &Type{
	kind:        KindScalar,
	name:        "Int",
	description: "The `Int` scalar type represents non-fractional signed whole numeric values.",
}

var floatType = &Type{
	kind:        KindScalar,
	name:        "Float",
	description: "The `Float` scalar type represents signed double-precision fractional values.",
}

var booleanType = &Type{
	kind:        KindScalar,
	name:        "Boolean",
	description: "The `Boolean` scalar type represents `true` or `false`.",
}

var idType = &Type{
	kind:        KindScalar,
	name:        "ID",
	description: "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.",
}

// Built-in scalar singletons. Applications may also build their own scalars
// with the same names; the introspection dedup keeps whichever instance
// carries more content.
func StringType() *Type  { return stringType }
func IntType() *Type     { return intType }
func FloatType() *Type   { return floatType }
func BooleanType() *Type { return booleanType }
func IDType() *Type      { return idType }

// BuiltinScalars returns the built-in scalar types, used by name-based
// introspection lookup for types not otherwise reachable from the roots.
func BuiltinScalars() []*Type {
	return []*Type{stringType, intType, floatType, booleanType, idType}
}
