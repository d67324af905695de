// Package directive implements field-transformer directives: named value
// transformations declared once at schema-build time and composed around a
// field's base resolver into a single effective resolver.
//
// Transforms are type-guarded by convention: a transform applies its effect
// only to values it understands and passes everything else through
// unchanged. A type mismatch is never an error.
package directive

import (
	"context"
	"fmt"
	"strings"

	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

// ResolverFunc produces the value of one field from its parent value and
// coerced arguments. The data layer supplies one per field; this package
// only composes them.
type ResolverFunc func(ctx context.Context, parent any, args map[string]any) (any, error)

// TransformFunc rewrites a resolved value. Transforms must be pure with
// respect to shared state: they may derive a new value but must not mutate
// registries or the schema.
type TransformFunc func(value any) (any, error)

// Definition declares one directive: its name, the locations it may appear
// in, and the transformation applied to resolved field values.
type Definition struct {
	Name        string
	Description string
	Locations   []string
	Transform   TransformFunc
}

// AppliesTo reports whether the definition is declared for the location.
func (d *Definition) AppliesTo(location string) bool {
	for _, loc := range d.Locations {
		if loc == location {
			return true
		}
	}
	return false
}

// ApplicationError reports that a directive's transform failed while
// processing a field value. It is field-level and recoverable: the host
// records it against the field and keeps resolving siblings.
type ApplicationError struct {
	Directive string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("directive @%s: %v", e.Directive, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// Registry maps directive names to definitions. It is populated during
// schema build and read-only afterwards; concurrent requests read it without
// synchronization.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry returns a registry pre-loaded with the given definitions.
func NewRegistry(defs ...*Definition) (*Registry, error) {
	r := &Registry{defs: map[string]*Definition{}}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a definition. Duplicate names are a build-time error.
func (r *Registry) Register(d *Definition) error {
	if d.Name == "" {
		return fmt.Errorf("directive definition has no name")
	}
	if d.Transform == nil {
		return fmt.Errorf("directive @%s has no transform", d.Name)
	}
	if _, exists := r.defs[d.Name]; exists {
		return fmt.Errorf("directive @%s registered twice", d.Name)
	}
	r.defs[d.Name] = d
	return nil
}

// Get returns the definition for name, or nil.
func (r *Registry) Get(name string) *Definition {
	if r == nil {
		return nil
	}
	return r.defs[name]
}

// Apply runs the named directives over value in order. Used for directives
// attached to the query itself (FIELD location), where no resolver is being
// composed. Unknown names are reported as ApplicationError since the query
// was accepted with them; definitions not declared for FIELD pass through.
func (r *Registry) Apply(ctx context.Context, value any, names []string) (any, error) {
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		def := r.Get(name)
		if def == nil {
			return nil, &ApplicationError{Directive: name, Err: fmt.Errorf("not registered")}
		}
		if !def.AppliesTo(schema.LocationField) {
			continue
		}
		next, err := def.Transform(value)
		if err != nil {
			return nil, &ApplicationError{Directive: name, Err: err}
		}
		value = next
	}
	return value, nil
}

// Compose wraps base with the named directives, applied in declaration
// order: the first directive transforms the base resolver's value, the
// second transforms the first's output, and so on. With no names, base is
// returned as-is, so the effective resolver is indistinguishable from the
// base resolver.
//
// Unknown names are a build-time consistency error: composition happens once
// at schema build, before any request is served.
//
// The composed resolver observes ctx between stages so a cancelled request
// stops transforming instead of running the rest of the chain.
func (r *Registry) Compose(base ResolverFunc, names []string) (ResolverFunc, error) {
	if len(names) == 0 {
		return base, nil
	}
	defs := make([]*Definition, len(names))
	var missing []string
	for i, name := range names {
		def := r.Get(name)
		if def == nil {
			missing = append(missing, name)
			continue
		}
		defs[i] = def
	}
	if len(missing) > 0 {
		return nil, &schema.ConsistencyError{Violations: []string{
			fmt.Sprintf("unregistered directive(s) @%s", strings.Join(missing, ", @")),
		}}
	}
	return func(ctx context.Context, parent any, args map[string]any) (any, error) {
		value, err := base(ctx, parent, args)
		if err != nil {
			return nil, err
		}
		for _, def := range defs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			next, terr := def.Transform(value)
			if terr != nil {
				return nil, &ApplicationError{Directive: def.Name, Err: terr}
			}
			value = next
		}
		return value, nil
	}, nil
}
