package schema

var builtinScalars = []*Type{
	{
		Name:        "String",
		Kind:        TypeKindScalar,
		Description: "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
	},
	{
		Name:        "Int",
		Kind:        TypeKindScalar,
		Description: "The `Int` scalar type represents non-fractional signed whole numeric values.",
	},
	{
		Name:        "Float",
		Kind:        TypeKindScalar,
		Description: "The `Float` scalar type represents signed double-precision fractional values.",
	},
	{
		Name:        "Boolean",
		Kind:        TypeKindScalar,
		Description: "The `Boolean` scalar type represents `true` or `false`.",
	},
	{
		Name:        "ID",
		Kind:        TypeKindScalar,
		Description: "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.",
	},
}

var builtinDirectives = []*Directive{
	{
		Name:        "include",
		Description: "Directs the executor to include this field or fragment only when the `if` argument is true.",
		Arguments: []*InputValue{
			{
				Name:        "if",
				Description: "Included when true.",
				Type:        NonNullType(NamedType("Boolean")),
			},
		},
		Locations: []string{LocationField, LocationFragmentSpread, LocationInlineFragment},
	},
	{
		Name:        "skip",
		Description: "Directs the executor to skip this field or fragment when the `if` argument is true.",
		Arguments: []*InputValue{
			{
				Name:        "if",
				Description: "Skipped when true.",
				Type:        NonNullType(NamedType("Boolean")),
			},
		},
		Locations: []string{LocationField, LocationFragmentSpread, LocationInlineFragment},
	},
	{
		Name:        "async",
		Description: "Marks a field whose resolution may block on I/O; the executor batches such fields per depth.",
		Locations:   []string{"FIELD_DEFINITION"},
	},
	{
		Name:        "deprecated",
		Description: "Marks an element of a GraphQL schema as no longer supported.",
		Arguments: []*InputValue{
			{
				Name:        "reason",
				Description: "Explains why this element was deprecated.",
				Type:        NamedType("String"),
				DefaultValue: "No longer supported",
			},
		},
		Locations: []string{"FIELD_DEFINITION", "ARGUMENT_DEFINITION", "INPUT_FIELD_DEFINITION", "ENUM_VALUE"},
	},
}

// IsBuiltin reports whether name is a builtin scalar or directive name that
// SDL rendering and validation should not re-emit or re-check.
func IsBuiltin(name string) bool {
	switch name {
	case "String", "Int", "Float", "Boolean", "ID",
		"include", "skip", "deprecated", "async":
		return true
	}
	return false
}
