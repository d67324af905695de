package memrt

import (
	"context"
	"reflect"
	"strings"

	directive "github.com/phatnguyentan/graph-demo/internal/directive"
)

// defaultResolver reads the field straight off the source value: map key
// lookup for maps, exported field match (json tag first, then name,
// case-insensitive) for structs. A nil source resolves to nil.
func defaultResolver(field string) directive.ResolverFunc {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		if source == nil {
			return nil, nil
		}
		if m, ok := source.(map[string]any); ok {
			return m[field], nil
		}
		rv := reflect.ValueOf(source)
		for rv.Kind() == reflect.Ptr {
			if rv.IsNil() {
				return nil, nil
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return nil, nil
		}
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if !sf.IsExported() {
				continue
			}
			if tag, ok := sf.Tag.Lookup("json"); ok {
				name, _, _ := strings.Cut(tag, ",")
				if name == field {
					return rv.Field(i).Interface(), nil
				}
				if name != "" {
					continue
				}
			}
			if strings.EqualFold(sf.Name, field) {
				return rv.Field(i).Interface(), nil
			}
		}
		return nil, nil
	}
}
