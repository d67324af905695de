package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Render produces SDL from the schema. Type and directive names are emitted
// in lexicographic order; builtins are skipped.
func Render(s *Schema) string {
	if s == nil {
		return ""
	}
	var b strings.Builder

	if s.QueryType != "Query" || s.MutationType != "" || s.SubscriptionType != "" {
		b.WriteString("schema {\n")
		if s.QueryType != "" {
			fmt.Fprintf(&b, "  query: %s\n", s.QueryType)
		}
		if s.MutationType != "" {
			fmt.Fprintf(&b, "  mutation: %s\n", s.MutationType)
		}
		if s.SubscriptionType != "" {
			fmt.Fprintf(&b, "  subscription: %s\n", s.SubscriptionType)
		}
		b.WriteString("}\n\n")
	}

	typeNames := make([]string, 0, len(s.Types))
	for name := range s.Types {
		if IsBuiltin(name) {
			continue
		}
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)
	for _, name := range typeNames {
		renderType(&b, s.Types[name])
	}

	directiveNames := make([]string, 0, len(s.Directives))
	for name := range s.Directives {
		if IsBuiltin(name) {
			continue
		}
		directiveNames = append(directiveNames, name)
	}
	sort.Strings(directiveNames)
	for _, name := range directiveNames {
		renderDirectiveDecl(&b, s.Directives[name])
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderType(b *strings.Builder, t *Type) {
	renderDescription(b, t.Description, "")
	switch t.Kind {
	case TypeKindScalar:
		fmt.Fprintf(b, "scalar %s", t.Name)
		if t.SpecifiedByURL != nil {
			fmt.Fprintf(b, " @specifiedBy(url: %s)", strconv.Quote(*t.SpecifiedByURL))
		}
		b.WriteString("\n\n")
	case TypeKindEnum:
		fmt.Fprintf(b, "enum %s {\n", t.Name)
		for _, ev := range t.EnumValues {
			renderDescription(b, ev.Description, "  ")
			fmt.Fprintf(b, "  %s%s\n", ev.Name, deprecatedSuffix(ev.IsDeprecated, ev.DeprecationReason))
		}
		b.WriteString("}\n\n")
	case TypeKindUnion:
		fmt.Fprintf(b, "union %s = %s\n\n", t.Name, strings.Join(t.PossibleTypes, " | "))
	case TypeKindInputObject:
		fmt.Fprintf(b, "input %s", t.Name)
		if t.OneOf {
			b.WriteString(" @oneOf")
		}
		b.WriteString(" {\n")
		for _, iv := range t.InputFields {
			renderDescription(b, iv.Description, "  ")
			fmt.Fprintf(b, "  %s: %s%s%s\n", iv.Name, renderTypeRef(iv.Type), defaultSuffix(iv.DefaultValue), deprecatedSuffix(iv.IsDeprecated, iv.DeprecationReason))
		}
		b.WriteString("}\n\n")
	case TypeKindObject, TypeKindInterface:
		keyword := "type"
		if t.Kind == TypeKindInterface {
			keyword = "interface"
		}
		fmt.Fprintf(b, "%s %s", keyword, t.Name)
		if len(t.Interfaces) > 0 {
			fmt.Fprintf(b, " implements %s", strings.Join(t.Interfaces, " & "))
		}
		b.WriteString(" {\n")
		for _, f := range t.Fields {
			renderField(b, f)
		}
		b.WriteString("}\n\n")
	}
}

func renderField(b *strings.Builder, f *Field) {
	renderDescription(b, f.Description, "  ")
	fmt.Fprintf(b, "  %s", f.Name)
	if len(f.Arguments) > 0 {
		parts := make([]string, len(f.Arguments))
		for i, a := range f.Arguments {
			parts[i] = fmt.Sprintf("%s: %s%s", a.Name, renderTypeRef(a.Type), defaultSuffix(a.DefaultValue))
		}
		fmt.Fprintf(b, "(%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintf(b, ": %s", renderTypeRef(f.Type))
	for _, name := range f.Directives {
		fmt.Fprintf(b, " @%s", name)
	}
	if f.Async {
		b.WriteString(" @async")
	}
	b.WriteString(deprecatedSuffix(f.IsDeprecated, f.DeprecationReason))
	b.WriteString("\n")
}

func renderDirectiveDecl(b *strings.Builder, d *Directive) {
	renderDescription(b, d.Description, "")
	fmt.Fprintf(b, "directive @%s", d.Name)
	if len(d.Arguments) > 0 {
		parts := make([]string, len(d.Arguments))
		for i, a := range d.Arguments {
			parts[i] = fmt.Sprintf("%s: %s%s", a.Name, renderTypeRef(a.Type), defaultSuffix(a.DefaultValue))
		}
		fmt.Fprintf(b, "(%s)", strings.Join(parts, ", "))
	}
	if d.IsRepeatable {
		b.WriteString(" repeatable")
	}
	fmt.Fprintf(b, " on %s\n\n", strings.Join(d.Locations, " | "))
}

func renderTypeRef(t *TypeRef) string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case TypeRefKindNonNull:
		return renderTypeRef(t.OfType) + "!"
	case TypeRefKindList:
		return "[" + renderTypeRef(t.OfType) + "]"
	default:
		return t.Named
	}
}

func renderDescription(b *strings.Builder, desc, indent string) {
	if desc == "" {
		return
	}
	escaped := strings.ReplaceAll(desc, `"""`, `\"""`)
	fmt.Fprintf(b, "%s\"\"\"%s\"\"\"\n", indent, escaped)
}

func defaultSuffix(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return " = " + strconv.Quote(val)
	case bool:
		return fmt.Sprintf(" = %t", val)
	default:
		return fmt.Sprintf(" = %v", val)
	}
}

func deprecatedSuffix(deprecated bool, reason string) string {
	if !deprecated {
		return ""
	}
	if reason == "" || reason == "No longer supported" {
		return " @deprecated"
	}
	return fmt.Sprintf(" @deprecated(reason: %s)", strconv.Quote(reason))
}
