package schema

import (
	"errors"
	"fmt"
)

// ConsistencyError reports a schema defect detected at build time. Build-time
// errors are fatal: a schema that fails validation must never be served.
type ConsistencyError struct {
	Violations []string
}

func (e *ConsistencyError) Error() string {
	if len(e.Violations) == 1 {
		return "schema: " + e.Violations[0]
	}
	return fmt.Sprintf("schema: %d violations, first: %s", len(e.Violations), e.Violations[0])
}

// AsConsistencyError unwraps err into a *ConsistencyError if possible.
func AsConsistencyError(err error) (*ConsistencyError, bool) {
	var ce *ConsistencyError
	ok := errors.As(err, &ce)
	return ce, ok
}

// Validate checks the schema for structural consistency before it is served:
// referenced types exist, root types are objects, union members are objects,
// implementors declare every interface field, and field directives reference
// declared directive names. It returns a *ConsistencyError listing every
// violation found, or nil.
func Validate(s *Schema) error {
	var v []string
	report := func(format string, args ...any) {
		v = append(v, fmt.Sprintf(format, args...))
	}

	checkRoot := func(role, name string, required bool) {
		if name == "" {
			if required {
				report("missing %s root type", role)
			}
			return
		}
		t := s.Types[name]
		switch {
		case t == nil:
			report("%s root type %q is not defined", role, name)
		case t.Kind != TypeKindObject:
			report("%s root type %q must be an object, got %s", role, name, t.Kind)
		}
	}
	checkRoot("query", s.QueryType, true)
	checkRoot("mutation", s.MutationType, false)
	checkRoot("subscription", s.SubscriptionType, false)

	for _, t := range s.Types {
		switch t.Kind {
		case TypeKindObject, TypeKindInterface:
			if len(t.Fields) == 0 {
				report("type %q declares no fields", t.Name)
			}
			for _, f := range t.Fields {
				checkTypeRef(s, report, fmt.Sprintf("%s.%s", t.Name, f.Name), f.Type)
				for _, a := range f.Arguments {
					checkTypeRef(s, report, fmt.Sprintf("%s.%s(%s:)", t.Name, f.Name, a.Name), a.Type)
				}
				for _, name := range f.Directives {
					if _, ok := s.Directives[name]; !ok {
						report("field %s.%s references undeclared directive @%s", t.Name, f.Name, name)
					}
				}
			}
			for _, ifaceName := range t.Interfaces {
				checkImplements(s, report, t, ifaceName)
			}
		case TypeKindUnion:
			if len(t.PossibleTypes) == 0 {
				report("union %q has no member types", t.Name)
			}
			for _, member := range t.PossibleTypes {
				mt := s.Types[member]
				switch {
				case mt == nil:
					report("union %q member %q is not defined", t.Name, member)
				case mt.Kind != TypeKindObject:
					report("union %q member %q must be an object, got %s", t.Name, member, mt.Kind)
				}
			}
		case TypeKindInputObject:
			for _, iv := range t.InputFields {
				checkTypeRef(s, report, fmt.Sprintf("%s.%s", t.Name, iv.Name), iv.Type)
			}
		}
	}

	if len(v) > 0 {
		return &ConsistencyError{Violations: v}
	}
	return nil
}

func checkTypeRef(s *Schema, report func(string, ...any), owner string, t *TypeRef) {
	name := GetNamedType(t)
	if name == "" {
		report("%s has no type", owner)
		return
	}
	if _, ok := s.Types[name]; !ok {
		report("%s references undefined type %q", owner, name)
	}
}

// checkImplements verifies the structural invariant that an object declares a
// superset of its interface's fields with matching type shapes.
func checkImplements(s *Schema, report func(string, ...any), t *Type, ifaceName string) {
	iface := s.Types[ifaceName]
	if iface == nil {
		report("type %q implements undefined interface %q", t.Name, ifaceName)
		return
	}
	if iface.Kind != TypeKindInterface {
		report("type %q implements %q which is not an interface", t.Name, ifaceName)
		return
	}
	for _, want := range iface.Fields {
		got := t.Field(want.Name)
		if got == nil {
			report("type %q is missing field %q required by interface %q", t.Name, want.Name, ifaceName)
			continue
		}
		if !sameTypeRef(got.Type, want.Type) {
			report("field %s.%s has type incompatible with interface %q", t.Name, want.Name, ifaceName)
		}
	}
}

func sameTypeRef(a, b *TypeRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind == b.Kind && a.Named == b.Named && sameTypeRef(a.OfType, b.OfType)
}
