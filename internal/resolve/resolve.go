// Package resolve maps runtime values of abstract (interface or union) types
// to their concrete object type names.
//
// Discrimination is rule-based: each abstract type carries an ordered list of
// discriminant functions registered at schema-build time. A discriminant
// inspects the shape of a value (presence of attributes, attribute values, or
// an explicit type tag) and either names a concrete type or passes. Rules
// are evaluated in registration order and the first rule naming a type wins,
// also for values whose shape satisfies more than one rule. Registration
// order is part of the schema.
//
// A TypeResolver is read-only after Bind and safe for concurrent use across
// requests.
package resolve

import (
	"fmt"

	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

// DiscriminantFunc inspects a runtime value and returns the concrete type
// name it matches, or ok=false to pass to the next rule.
type DiscriminantFunc func(value any) (typeName string, ok bool)

// UnresolvedTypeError reports that no discriminant matched a value of an
// abstract type. It is a field-level, recoverable error: the host reports a
// null result with this error attached and continues with sibling fields.
type UnresolvedTypeError struct {
	AbstractType string
	Value        any
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("cannot resolve concrete type for %s from value %#v", e.AbstractType, e.Value)
}

// TypeResolver holds the discriminant rules for every abstract type in a
// schema. Register rules during schema build, call Bind once, then Resolve
// per request.
type TypeResolver struct {
	rules map[string][]DiscriminantFunc
	sch   *schema.Schema
	bound bool
}

// NewTypeResolver returns an empty resolver.
func NewTypeResolver() *TypeResolver {
	return &TypeResolver{rules: map[string][]DiscriminantFunc{}}
}

// Register appends rules to the abstract type's discriminant list. Order is
// significant. Register panics after Bind; the rule set is part of the
// schema and must not change while requests are served.
func (r *TypeResolver) Register(abstractType string, rules ...DiscriminantFunc) *TypeResolver {
	if r.bound {
		panic("resolve: Register called after Bind")
	}
	r.rules[abstractType] = append(r.rules[abstractType], rules...)
	return r
}

// Bind checks every registered rule set against the schema and freezes the
// resolver. A rule set naming a type that is not a declared interface or
// union, or an abstract type in the schema with no rules at all, is a
// build-time consistency error.
func (r *TypeResolver) Bind(sch *schema.Schema) error {
	var violations []string
	for name := range r.rules {
		t := sch.Types[name]
		switch {
		case t == nil:
			violations = append(violations, fmt.Sprintf("discriminant rules reference undeclared type %q", name))
		case !t.IsAbstract():
			violations = append(violations, fmt.Sprintf("discriminant rules registered for non-abstract type %q (%s)", name, t.Kind))
		}
	}
	for name, t := range sch.Types {
		if t.IsAbstract() && len(r.rules[name]) == 0 {
			violations = append(violations, fmt.Sprintf("abstract type %q has no discriminant rules", name))
		}
	}
	if len(violations) > 0 {
		return &schema.ConsistencyError{Violations: violations}
	}
	r.sch = sch
	r.bound = true
	return nil
}

// Resolve returns the concrete type name for a value of the named abstract
// type. The first registered rule naming a type wins. Resolve is
// deterministic and idempotent for a given value.
//
// When bound to a schema, the winning name is additionally checked against
// the abstract type's declared possible types; a rule naming a type outside
// that set is treated as unresolved rather than trusted.
func (r *TypeResolver) Resolve(abstractType string, value any) (string, error) {
	rules := r.rules[abstractType]
	if len(rules) == 0 {
		return "", fmt.Errorf("no discriminant rules registered for %s", abstractType)
	}
	for _, rule := range rules {
		name, ok := rule(value)
		if !ok || name == "" {
			continue
		}
		if r.sch != nil && !r.sch.IsPossibleType(abstractType, name) {
			continue
		}
		return name, nil
	}
	return "", &UnresolvedTypeError{AbstractType: abstractType, Value: value}
}

// WhenFieldEquals matches map values whose named entry equals want.
func WhenFieldEquals(field string, want any, typeName string) DiscriminantFunc {
	return func(value any) (string, bool) {
		m, ok := value.(map[string]any)
		if !ok {
			return "", false
		}
		if got, present := m[field]; present && got == want {
			return typeName, true
		}
		return "", false
	}
}

// WhenFieldPresent matches map values that carry the named entry with a
// non-nil value, regardless of what it is.
func WhenFieldPresent(field string, typeName string) DiscriminantFunc {
	return func(value any) (string, bool) {
		m, ok := value.(map[string]any)
		if !ok {
			return "", false
		}
		if got, present := m[field]; present && got != nil {
			return typeName, true
		}
		return "", false
	}
}

// WhenTypename matches map values carrying an explicit "__typename" tag and
// resolves to that tag. Useful when the data layer already labels its
// variants.
func WhenTypename() DiscriminantFunc {
	return func(value any) (string, bool) {
		m, ok := value.(map[string]any)
		if !ok {
			return "", false
		}
		name, _ := m["__typename"].(string)
		return name, name != ""
	}
}
