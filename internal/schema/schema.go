// Package schema holds the executable type-system data structures: named
// types, field definitions, type references and directive declarations.
// A Schema is assembled once at build time and is read-only afterwards;
// concurrent requests may read it without synchronization.
package schema

// Schema is the complete type system served by an executor.
type Schema struct {
	QueryType        string
	MutationType     string
	SubscriptionType string
	Types            map[string]*Type
	Directives       map[string]*Directive
	Description      string
}

// NewSchema returns an empty schema with the builtin scalar types and the
// builtin executable directives registered.
func NewSchema(description string) *Schema {
	s := &Schema{
		Types:       map[string]*Type{},
		Directives:  map[string]*Directive{},
		Description: description,
	}
	for _, t := range builtinScalars {
		s.Types[t.Name] = t
	}
	for _, d := range builtinDirectives {
		s.Directives[d.Name] = d
	}
	return s
}

// GetQueryType returns the root query type (nil if absent).
func (s *Schema) GetQueryType() *Type { return s.Types[s.QueryType] }

// GetMutationType returns the root mutation type (nil if absent).
func (s *Schema) GetMutationType() *Type { return s.Types[s.MutationType] }

// GetSubscriptionType returns the root subscription type (nil if absent).
func (s *Schema) GetSubscriptionType() *Type { return s.Types[s.SubscriptionType] }

// AddType registers t, replacing any type with the same name.
func (s *Schema) AddType(t *Type) *Schema {
	s.Types[t.Name] = t
	return s
}

// AddDirective registers d, replacing any directive with the same name.
func (s *Schema) AddDirective(d *Directive) *Schema {
	s.Directives[d.Name] = d
	return s
}

// PossibleTypes returns the concrete object type names a value of the named
// abstract type may take. For objects it returns the type itself; for
// non-abstract, non-object types it returns nil.
func (s *Schema) PossibleTypes(name string) []string {
	t := s.Types[name]
	if t == nil {
		return nil
	}
	switch t.Kind {
	case TypeKindObject:
		return []string{t.Name}
	case TypeKindInterface, TypeKindUnion:
		return t.PossibleTypes
	}
	return nil
}

// IsPossibleType reports whether concrete is a declared member/implementor
// of the named abstract type.
func (s *Schema) IsPossibleType(abstract, concrete string) bool {
	for _, name := range s.PossibleTypes(abstract) {
		if name == concrete {
			return true
		}
	}
	return false
}

// TypeKind identifies the variant of a named type.
type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
)

// Type is a named GraphQL type.
type Type struct {
	Name        string
	Kind        TypeKind
	Description string

	// Fields, in declaration order. For OBJECT and INTERFACE.
	Fields []*Field
	// Interfaces implemented (OBJECT) or extended (INTERFACE).
	Interfaces []string
	// PossibleTypes lists concrete members (UNION) or implementors
	// (INTERFACE), in declaration order.
	PossibleTypes []string

	EnumValues  []*EnumValue  // For ENUM
	InputFields []*InputValue // For INPUT_OBJECT

	SpecifiedByURL *string
	OneOf          bool
}

// IsAbstract reports whether values of this type need runtime type
// resolution before their sub-fields can be executed.
func (t *Type) IsAbstract() bool {
	return t.Kind == TypeKindInterface || t.Kind == TypeKindUnion
}

// Field looks up a field definition by name.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Field is a field on an object or interface type.
type Field struct {
	Name        string
	Description string
	Type        *TypeRef
	Arguments   []*InputValue

	// Directives holds the names of the transformer directives attached to
	// this field definition, in declaration order. Composition order follows
	// this slice: the first directive sees the base resolver's value.
	Directives []string

	// Async marks fields whose resolution may block on I/O; the executor
	// batches them per depth instead of resolving inline.
	Async bool

	IsDeprecated      bool
	DeprecationReason string
}

// Argument looks up an argument definition by name.
func (f *Field) Argument(name string) *InputValue {
	for _, a := range f.Arguments {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// TypeRef is a possibly wrapped reference to a named type.
type TypeRef struct {
	Kind   TypeRefKind
	OfType *TypeRef // for LIST and NON_NULL
	Named  string   // for NAMED
}

type TypeRefKind string

const (
	TypeRefKindNamed   TypeRefKind = "NAMED"
	TypeRefKindList    TypeRefKind = "LIST"
	TypeRefKindNonNull TypeRefKind = "NON_NULL"
)

func NamedType(name string) *TypeRef  { return &TypeRef{Kind: TypeRefKindNamed, Named: name} }
func ListType(t *TypeRef) *TypeRef    { return &TypeRef{Kind: TypeRefKindList, OfType: t} }
func NonNullType(t *TypeRef) *TypeRef { return &TypeRef{Kind: TypeRefKindNonNull, OfType: t} }

// IsNonNull reports whether the reference is wrapped with Non-Null.
func IsNonNull(t *TypeRef) bool { return t != nil && t.Kind == TypeRefKindNonNull }

// IsList reports whether the reference is a list, ignoring one Non-Null wrapper.
func IsList(t *TypeRef) bool {
	if t == nil {
		return false
	}
	if t.Kind == TypeRefKindList {
		return true
	}
	return t.Kind == TypeRefKindNonNull && t.OfType != nil && t.OfType.Kind == TypeRefKindList
}

// Unwrap removes one layer of List or Non-Null wrapping.
func Unwrap(t *TypeRef) *TypeRef {
	if t != nil && (t.Kind == TypeRefKindList || t.Kind == TypeRefKindNonNull) {
		return t.OfType
	}
	return t
}

// GetNamedType returns the innermost named type of the reference.
func GetNamedType(t *TypeRef) string {
	for t != nil {
		if t.Named != "" {
			return t.Named
		}
		t = t.OfType
	}
	return ""
}

// EnumValue is one declared value of an enum type.
type EnumValue struct {
	Name              string
	Description       string
	IsDeprecated      bool
	DeprecationReason string
}

// InputValue is an argument or input-object field definition.
type InputValue struct {
	Name              string
	Description       string
	Type              *TypeRef
	DefaultValue      any
	IsDeprecated      bool
	DeprecationReason string
}

// Directive is a directive declaration. The transformation behavior bound to
// a declared name lives in the directive registry, not here; the schema only
// records that the name exists and where it may be used.
type Directive struct {
	Name         string
	Description  string
	Locations    []string
	Arguments    []*InputValue
	IsRepeatable bool
}

// Directive locations used by this module.
const (
	LocationField           = "FIELD"
	LocationFieldDefinition = "FIELD_DEFINITION"
	LocationFragmentSpread  = "FRAGMENT_SPREAD"
	LocationInlineFragment  = "INLINE_FRAGMENT"
)
