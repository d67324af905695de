package executor

import (
	"fmt"
	"strconv"

	language "github.com/phatnguyentan/graph-demo/internal/language"
	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

// coerceVariableValues matches the caller-supplied variables against the
// operation's variable definitions, applying defaults and rejecting missing
// non-null variables. Coercion failures are request errors, not field errors.
func coerceVariableValues(sch *schema.Schema, op *language.OperationDefinition, variables map[string]any) (map[string]any, error) {
	coerced := map[string]any{}
	for _, def := range op.VariableDefinitions {
		varType := typeRefFromAST(def.Type)
		value, ok := variables[def.Variable]
		if !ok {
			if def.DefaultValue != nil {
				coerced[def.Variable] = valueFromAST(def.DefaultValue, nil)
				continue
			}
			if schema.IsNonNull(varType) {
				return nil, fmt.Errorf("variable $%s of required type %s was not provided", def.Variable, renderASTType(def.Type))
			}
			continue
		}
		if value == nil && schema.IsNonNull(varType) {
			return nil, fmt.Errorf("variable $%s of non-null type %s must not be null", def.Variable, renderASTType(def.Type))
		}
		out, err := coerceInputValue(sch, varType, value)
		if err != nil {
			return nil, fmt.Errorf("variable $%s got invalid value: %v", def.Variable, err)
		}
		coerced[def.Variable] = out
	}
	return coerced, nil
}

// coerceArgumentValues builds the argument map for one field node, merging
// query-supplied values with definition defaults. Bad argument values become
// field errors at path rather than request failures.
func coerceArgumentValues(s *execState, fieldDef *schema.Field, arguments language.ArgumentList, path Path) map[string]any {
	args := map[string]any{}
	for _, argDef := range fieldDef.Arguments {
		node := arguments.ForName(argDef.Name)
		if node == nil {
			if argDef.DefaultValue != nil {
				args[argDef.Name] = argDef.DefaultValue
			} else if schema.IsNonNull(argDef.Type) {
				s.addError(fmt.Sprintf("Argument '%s' of required type %s was not provided", argDef.Name, typeRefString(argDef.Type)), path)
			}
			continue
		}
		raw := valueFromAST(node.Value, s.variables)
		if raw == nil && schema.IsNonNull(argDef.Type) {
			s.addError(fmt.Sprintf("Argument '%s' of non-null type %s must not be null", argDef.Name, typeRefString(argDef.Type)), path)
			continue
		}
		if raw == nil {
			args[argDef.Name] = nil
			continue
		}
		out, err := coerceInputValue(s.schema, argDef.Type, raw)
		if err != nil {
			s.addError(fmt.Sprintf("Argument '%s' got invalid value: %v", argDef.Name, err), path)
			continue
		}
		args[argDef.Name] = out
	}
	return args
}

// coerceInputValue checks and converts a Go value against an input type.
func coerceInputValue(sch *schema.Schema, t *schema.TypeRef, value any) (any, error) {
	if schema.IsNonNull(t) {
		if value == nil {
			return nil, fmt.Errorf("expected non-null %s", typeRefString(t))
		}
		return coerceInputValue(sch, schema.Unwrap(t), value)
	}
	if value == nil {
		return nil, nil
	}
	if schema.IsList(t) {
		items, ok := toAnySlice(value)
		if !ok {
			// Single value coerces to a one-element list.
			item, err := coerceInputValue(sch, schema.Unwrap(t), value)
			if err != nil {
				return nil, err
			}
			return []any{item}, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			coerced, err := coerceInputValue(sch, schema.Unwrap(t), item)
			if err != nil {
				return nil, fmt.Errorf("at index %d: %v", i, err)
			}
			out[i] = coerced
		}
		return out, nil
	}

	named := schema.GetNamedType(t)
	typeDef := sch.Types[named]
	if typeDef == nil {
		return nil, fmt.Errorf("unknown type %s", named)
	}
	switch typeDef.Kind {
	case schema.TypeKindScalar:
		return coerceScalarInput(named, value)
	case schema.TypeKindEnum:
		name, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("enum %s expects a name, got %T", named, value)
		}
		for _, ev := range typeDef.EnumValues {
			if ev.Name == name {
				return name, nil
			}
		}
		return nil, fmt.Errorf("%q is not a value of enum %s", name, named)
	case schema.TypeKindInputObject:
		fields, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("input object %s expects a map, got %T", named, value)
		}
		out := map[string]any{}
		for _, inputDef := range typeDef.InputFields {
			fv, present := fields[inputDef.Name]
			if !present {
				if inputDef.DefaultValue != nil {
					out[inputDef.Name] = inputDef.DefaultValue
				} else if schema.IsNonNull(inputDef.Type) {
					return nil, fmt.Errorf("field %s.%s of required type %s was not provided", named, inputDef.Name, typeRefString(inputDef.Type))
				}
				continue
			}
			coerced, err := coerceInputValue(sch, inputDef.Type, fv)
			if err != nil {
				return nil, fmt.Errorf("at field %s: %v", inputDef.Name, err)
			}
			out[inputDef.Name] = coerced
		}
		for name := range fields {
			known := false
			for _, inputDef := range typeDef.InputFields {
				if inputDef.Name == name {
					known = true
					break
				}
			}
			if !known {
				return nil, fmt.Errorf("field %q is not defined on input object %s", name, named)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("type %s cannot be used as input", named)
	}
}

func coerceScalarInput(name string, value any) (any, error) {
	switch name {
	case "Int":
		switch v := value.(type) {
		case int:
			return v, nil
		case int32:
			return int(v), nil
		case int64:
			return int(v), nil
		case float64:
			if v == float64(int(v)) {
				return int(v), nil
			}
			return nil, fmt.Errorf("Int cannot represent %v", v)
		}
		return nil, fmt.Errorf("Int cannot represent %T", value)
	case "Float":
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
		return nil, fmt.Errorf("Float cannot represent %T", value)
	case "String":
		if v, ok := value.(string); ok {
			return v, nil
		}
		return nil, fmt.Errorf("String cannot represent %T", value)
	case "Boolean":
		if v, ok := value.(bool); ok {
			return v, nil
		}
		return nil, fmt.Errorf("Boolean cannot represent %T", value)
	case "ID":
		switch v := value.(type) {
		case string:
			return v, nil
		case int:
			return strconv.Itoa(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		case float64:
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10), nil
			}
		}
		return nil, fmt.Errorf("ID cannot represent %T", value)
	}
	// Custom scalars pass through untouched; the runtime serializes them.
	return value, nil
}

// valueFromAST converts a literal AST value into its Go form, substituting
// variables from the coerced variable map.
func valueFromAST(v *language.Value, variables map[string]any) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case language.Variable:
		return variables[v.Raw]
	case language.IntValue:
		n, err := strconv.Atoi(v.Raw)
		if err != nil {
			return v.Raw
		}
		return n
	case language.FloatValue:
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			return v.Raw
		}
		return f
	case language.StringValue, language.BlockValue, language.EnumValue:
		return v.Raw
	case language.BooleanValue:
		return v.Raw == "true"
	case language.NullValue:
		return nil
	case language.ListValue:
		out := make([]any, 0, len(v.Children))
		for _, child := range v.Children {
			out = append(out, valueFromAST(child.Value, variables))
		}
		return out
	case language.ObjectValue:
		out := map[string]any{}
		for _, child := range v.Children {
			out[child.Name] = valueFromAST(child.Value, variables)
		}
		return out
	}
	return nil
}

// typeRefFromAST mirrors the schema builder's conversion for the variable
// definitions carried on a query document.
func typeRefFromAST(t *language.Type) *schema.TypeRef {
	if t == nil {
		return nil
	}
	var ref *schema.TypeRef
	if t.NamedType != "" {
		ref = schema.NamedType(t.NamedType)
	} else {
		ref = schema.ListType(typeRefFromAST(t.Elem))
	}
	if t.NonNull {
		ref = schema.NonNullType(ref)
	}
	return ref
}

func renderASTType(t *language.Type) string {
	if t == nil {
		return ""
	}
	var out string
	if t.NamedType != "" {
		out = t.NamedType
	} else {
		out = "[" + renderASTType(t.Elem) + "]"
	}
	if t.NonNull {
		out += "!"
	}
	return out
}

func typeRefString(t *schema.TypeRef) string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case schema.TypeRefKindNonNull:
		return typeRefString(t.OfType) + "!"
	case schema.TypeRefKindList:
		return "[" + typeRefString(t.OfType) + "]"
	default:
		return t.Named
	}
}
