// Package memrt is an in-memory Runtime: field resolvers are plain Go
// functions registered per type and field, abstract types resolve through a
// TypeResolver, and schema-declared transformer directives are composed into
// the effective resolvers once at build time.
package memrt

import (
	"fmt"
	"sort"

	directive "github.com/phatnguyentan/graph-demo/internal/directive"
	resolve "github.com/phatnguyentan/graph-demo/internal/resolve"
	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

// SerializeFunc converts a resolved leaf value into its JSON-safe form.
type SerializeFunc func(value any) (any, error)

// Builder accumulates resolvers and collaborators, then freezes them into a
// Runtime. The zero Builder is not usable; call NewBuilder.
type Builder struct {
	resolvers    map[string]directive.ResolverFunc
	typeResolver *resolve.TypeResolver
	directives   *directive.Registry
	serializers  map[string]SerializeFunc
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		resolvers:   map[string]directive.ResolverFunc{},
		serializers: map[string]SerializeFunc{},
	}
}

// Resolve registers the base resolver for objectType.field. Registering the
// same field twice keeps the last resolver.
func (b *Builder) Resolve(objectType, field string, fn directive.ResolverFunc) *Builder {
	b.resolvers[objectType+"."+field] = fn
	return b
}

// ResolveTypesWith supplies the TypeResolver consulted for interface and
// union values. Bind is called during Build.
func (b *Builder) ResolveTypesWith(tr *resolve.TypeResolver) *Builder {
	b.typeResolver = tr
	return b
}

// Directives supplies the registry used to compose schema-declared field
// directives into the effective resolvers.
func (b *Builder) Directives(reg *directive.Registry) *Builder {
	b.directives = reg
	return b
}

// SerializeScalar registers a custom leaf serializer for a scalar type.
func (b *Builder) SerializeScalar(name string, fn SerializeFunc) *Builder {
	b.serializers[name] = fn
	return b
}

// Build validates the registrations against sch and returns the frozen
// Runtime. Directive composition happens here, once; request execution never
// re-derives a resolver chain. Inconsistencies are reported together as a
// ConsistencyError.
func (b *Builder) Build(sch *schema.Schema) (*Runtime, error) {
	var violations []string

	known := map[string]bool{}
	effective := map[string]directive.ResolverFunc{}
	for _, t := range sch.Types {
		if t.Kind != schema.TypeKindObject {
			continue
		}
		for _, f := range t.Fields {
			key := t.Name + "." + f.Name
			known[key] = true
			base := b.resolvers[key]
			if base == nil {
				base = defaultResolver(f.Name)
			}
			if len(f.Directives) > 0 && b.directives == nil {
				violations = append(violations, fmt.Sprintf("field %s declares directives but no registry is configured", key))
				continue
			}
			fn := base
			if b.directives != nil {
				composed, err := b.directives.Compose(base, f.Directives)
				if err != nil {
					violations = append(violations, fmt.Sprintf("field %s: %v", key, err))
					continue
				}
				fn = composed
			}
			effective[key] = fn
		}
	}

	var orphans []string
	for key := range b.resolvers {
		if !known[key] {
			orphans = append(orphans, key)
		}
	}
	sort.Strings(orphans)
	for _, key := range orphans {
		violations = append(violations, fmt.Sprintf("resolver registered for unknown field %s", key))
	}

	if b.typeResolver != nil {
		if err := b.typeResolver.Bind(sch); err != nil {
			if ce, ok := schema.AsConsistencyError(err); ok {
				violations = append(violations, ce.Violations...)
			} else {
				return nil, err
			}
		}
	}

	if len(violations) > 0 {
		return nil, &schema.ConsistencyError{Violations: violations}
	}

	serializers := make(map[string]SerializeFunc, len(b.serializers))
	for k, v := range b.serializers {
		serializers[k] = v
	}
	return &Runtime{
		schema:       sch,
		effective:    effective,
		typeResolver: b.typeResolver,
		serializers:  serializers,
	}, nil
}
