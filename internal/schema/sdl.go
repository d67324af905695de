package schema

import (
	"fmt"
	"strconv"

	language "github.com/phatnguyentan/graph-demo/internal/language"
	"github.com/vektah/gqlparser/v2/ast"
)

// BuildFromSDL parses an SDL document and assembles an executable Schema.
//
// Interpretation beyond plain SDL:
//   - @async on a field definition sets Field.Async and is stripped.
//   - @deprecated sets the deprecation flags and is stripped.
//   - every other field-definition directive is recorded by name, in
//     declaration order, as the field's transformer chain.
//
// The returned schema has interface PossibleTypes back-filled from the
// declared implementors. BuildFromSDL does not validate; run Validate on the
// result before serving.
func BuildFromSDL(name, sdl string) (*Schema, error) {
	doc, err := language.ParseSchema(name, sdl)
	if err != nil {
		return nil, fmt.Errorf("parse sdl: %w", err)
	}

	s := NewSchema("")
	s.QueryType = "Query"

	for _, sd := range doc.Schema {
		if sd.Description != "" {
			s.Description = sd.Description
		}
		for _, op := range sd.OperationTypes {
			switch op.Operation {
			case ast.Query:
				s.QueryType = op.Type
			case ast.Mutation:
				s.MutationType = op.Type
			case ast.Subscription:
				s.SubscriptionType = op.Type
			}
		}
	}

	var declared []string
	for _, def := range doc.Definitions {
		t, err := buildDefinition(def)
		if err != nil {
			return nil, err
		}
		s.AddType(t)
		declared = append(declared, t.Name)
	}
	for _, dd := range doc.Directives {
		s.AddDirective(buildDirectiveDecl(dd))
	}

	backfillInterfaceImplementors(s, declared)
	return s, nil
}

func buildDefinition(def *language.Definition) (*Type, error) {
	switch def.Kind {
	case ast.Object, ast.Interface:
		kind := TypeKindObject
		if def.Kind == ast.Interface {
			kind = TypeKindInterface
		}
		t := &Type{Name: def.Name, Kind: kind, Description: def.Description}
		t.Interfaces = append(t.Interfaces, def.Interfaces...)
		for _, fd := range def.Fields {
			f, err := buildFieldDef(def.Name, fd)
			if err != nil {
				return nil, err
			}
			t.Fields = append(t.Fields, f)
		}
		return t, nil
	case ast.Union:
		t := &Type{Name: def.Name, Kind: TypeKindUnion, Description: def.Description}
		t.PossibleTypes = append(t.PossibleTypes, def.Types...)
		return t, nil
	case ast.Enum:
		t := &Type{Name: def.Name, Kind: TypeKindEnum, Description: def.Description}
		for _, ev := range def.EnumValues {
			value := &EnumValue{Name: ev.Name, Description: ev.Description}
			if d := ev.Directives.ForName("deprecated"); d != nil {
				value.IsDeprecated = true
				value.DeprecationReason = deprecationReason(d)
			}
			t.EnumValues = append(t.EnumValues, value)
		}
		return t, nil
	case ast.InputObject:
		t := &Type{Name: def.Name, Kind: TypeKindInputObject, Description: def.Description}
		if def.Directives.ForName("oneOf") != nil {
			t.OneOf = true
		}
		for _, fd := range def.Fields {
			iv, err := buildInputValue(fd.Name, fd.Description, fd.Type, fd.DefaultValue, fd.Directives)
			if err != nil {
				return nil, err
			}
			t.InputFields = append(t.InputFields, iv)
		}
		return t, nil
	case ast.Scalar:
		t := &Type{Name: def.Name, Kind: TypeKindScalar, Description: def.Description}
		if d := def.Directives.ForName("specifiedBy"); d != nil {
			if arg := d.Arguments.ForName("url"); arg != nil && arg.Value != nil {
				url := arg.Value.Raw
				t.SpecifiedByURL = &url
			}
		}
		return t, nil
	}
	return nil, fmt.Errorf("unsupported definition kind %s for %s", def.Kind, def.Name)
}

func buildFieldDef(typeName string, fd *ast.FieldDefinition) (*Field, error) {
	f := &Field{
		Name:        fd.Name,
		Description: fd.Description,
		Type:        typeRefFromAST(fd.Type),
	}
	for _, ad := range fd.Arguments {
		iv, err := buildInputValue(ad.Name, ad.Description, ad.Type, ad.DefaultValue, ad.Directives)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", typeName, fd.Name, err)
		}
		f.Arguments = append(f.Arguments, iv)
	}
	for _, d := range fd.Directives {
		switch d.Name {
		case "async":
			f.Async = true
		case "deprecated":
			f.IsDeprecated = true
			f.DeprecationReason = deprecationReason(d)
		default:
			f.Directives = append(f.Directives, d.Name)
		}
	}
	return f, nil
}

func buildInputValue(name, description string, t *ast.Type, def *ast.Value, directives ast.DirectiveList) (*InputValue, error) {
	iv := &InputValue{Name: name, Description: description, Type: typeRefFromAST(t)}
	if def != nil {
		v, err := constValueToGo(def)
		if err != nil {
			return nil, fmt.Errorf("default value for %s: %w", name, err)
		}
		iv.DefaultValue = v
	}
	if d := directives.ForName("deprecated"); d != nil {
		iv.IsDeprecated = true
		iv.DeprecationReason = deprecationReason(d)
	}
	return iv, nil
}

func buildDirectiveDecl(dd *ast.DirectiveDefinition) *Directive {
	d := &Directive{
		Name:         dd.Name,
		Description:  dd.Description,
		IsRepeatable: dd.IsRepeatable,
	}
	for _, loc := range dd.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, ad := range dd.Arguments {
		iv, err := buildInputValue(ad.Name, ad.Description, ad.Type, ad.DefaultValue, ad.Directives)
		if err != nil {
			continue
		}
		d.Arguments = append(d.Arguments, iv)
	}
	return d
}

func typeRefFromAST(t *ast.Type) *TypeRef {
	if t == nil {
		return nil
	}
	if t.NonNull {
		inner := &ast.Type{NamedType: t.NamedType, Elem: t.Elem}
		return NonNullType(typeRefFromAST(inner))
	}
	if t.NamedType != "" {
		return NamedType(t.NamedType)
	}
	return ListType(typeRefFromAST(t.Elem))
}

func constValueToGo(v *ast.Value) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch v.Kind {
	case ast.IntValue:
		return strconv.Atoi(v.Raw)
	case ast.FloatValue:
		return strconv.ParseFloat(v.Raw, 64)
	case ast.StringValue, ast.BlockValue, ast.EnumValue:
		return v.Raw, nil
	case ast.BooleanValue:
		return v.Raw == "true", nil
	case ast.NullValue:
		return nil, nil
	case ast.ListValue:
		out := make([]any, 0, len(v.Children))
		for _, c := range v.Children {
			cv, err := constValueToGo(c.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, cv)
		}
		return out, nil
	case ast.ObjectValue:
		out := make(map[string]any, len(v.Children))
		for _, c := range v.Children {
			cv, err := constValueToGo(c.Value)
			if err != nil {
				return nil, err
			}
			out[c.Name] = cv
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported constant value kind %d", v.Kind)
}

func deprecationReason(d *ast.Directive) string {
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return arg.Value.Raw
	}
	return "No longer supported"
}

// backfillInterfaceImplementors records, on every interface type, the object
// types that declare it, preserving the objects' declaration order.
func backfillInterfaceImplementors(s *Schema, names []string) {
	for _, name := range names {
		t := s.Types[name]
		if t.Kind != TypeKindObject {
			continue
		}
		for _, ifaceName := range t.Interfaces {
			iface := s.Types[ifaceName]
			if iface == nil || iface.Kind != TypeKindInterface {
				continue
			}
			if !contains(iface.PossibleTypes, t.Name) {
				iface.PossibleTypes = append(iface.PossibleTypes, t.Name)
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
