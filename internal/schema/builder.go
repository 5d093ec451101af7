package schema

// NewScalar declares a leaf type. The engine performs no coercion; scalar
// values pass through resolvers as-is.
func NewScalar(name, description string) *Type {
	return &Type{kind: KindScalar, name: name, description: description}
}

// NewObject declares an object type; populate it with AddField.
func NewObject(name, description string) *Type {
	return &Type{kind: KindObject, name: name, description: description}
}

// NewInputObject declares an input object type; populate it with
// AddInputField.
func NewInputObject(name, description string) *Type {
	return &Type{kind: KindInputObject, name: name, description: description}
}

// NewEnum declares an enum type; populate it with AddEnumValue.
func NewEnum(name, description string) *Type {
	return &Type{kind: KindEnum, name: name, description: description}
}

// NewUnion declares a union type. resolve names the concrete member for a
// runtime value; members are declared with AddPossibleType.
func NewUnion(name, description string, resolve TypeResolver) *Type {
	return &Type{kind: KindUnion, name: name, description: description, resolveType: resolve}
}

// NewList wraps a type in a List layer.
func NewList(of *Type) *Type { return &Type{kind: KindList, ofType: of} }

// NewNonNull wraps a type in a NonNull layer. Doubled NonNull is not
// rejected.
func NewNonNull(of *Type) *Type { return &Type{kind: KindNonNull, ofType: of} }

// AddField appends a field to an Object type.
func (t *Type) AddField(f *Field) *Type {
	if t.kind != KindObject {
		panic("schema: AddField on " + string(t.kind) + " type " + t.Name())
	}
	t.fields = append(t.fields, f)
	return t
}

// AddInputField appends a field to an InputObject type.
func (t *Type) AddInputField(v *InputValue) *Type {
	if t.kind != KindInputObject {
		panic("schema: AddInputField on " + string(t.kind) + " type " + t.Name())
	}
	t.inputFields = append(t.inputFields, v)
	return t
}

// AddEnumValue appends a value to an Enum type.
func (t *Type) AddEnumValue(v *EnumValue) *Type {
	if t.kind != KindEnum {
		panic("schema: AddEnumValue on " + string(t.kind) + " type " + t.Name())
	}
	t.enumValues = append(t.enumValues, v)
	return t
}

// AddPossibleType appends a member to a Union type.
func (t *Type) AddPossibleType(member *Type) *Type {
	if t.kind != KindUnion {
		panic("schema: AddPossibleType on " + string(t.kind) + " type " + t.Name())
	}
	t.possibleTypes = append(t.possibleTypes, member)
	return t
}

// NewField declares a field. A nil resolver reads the field's name from the
// parent object value.
func NewField(name, description string, typ *Type, resolve Resolver) *Field {
	return &Field{name: name, description: description, typ: typ, resolver: resolve}
}

// AddArgument appends an argument declaration to a field.
func (f *Field) AddArgument(v *InputValue) *Field {
	f.arguments = append(f.arguments, v)
	return f
}

// NewInputValue declares an argument or input-object field.
func NewInputValue(name, description string, typ *Type) *InputValue {
	return &InputValue{name: name, description: description, typ: typ}
}

// NewEnumValue declares one enum value.
func NewEnumValue(name, description string) *EnumValue {
	return &EnumValue{name: name, description: description}
}
