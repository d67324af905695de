package executor

import (
	"fmt"
	"reflect"
	"strings"
)

func appendPath(p Path, elem PathElement) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, elem)
}

// pathString renders a path as a dotted key, used for error deduplication
// and tombstone lookups.
func pathString(p Path) string {
	var b strings.Builder
	for i, elem := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		fmt.Fprintf(&b, "%v", elem)
	}
	return b.String()
}

// topLevelFieldPath truncates a path to its first element: Non-Null
// violations from async results propagate all the way to the operation's
// top-level field.
func topLevelFieldPath(p Path) Path {
	if len(p) <= 1 {
		return p
	}
	return p[:1]
}

// setValueAtPath writes value into the nested response tree, replacing the
// placeholder left when the field was queued. Writes under already-nulled
// branches are dropped.
func setValueAtPath(root map[string]any, p Path, value any) {
	var current any = root
	for i, elem := range p {
		last := i == len(p)-1
		switch node := current.(type) {
		case map[string]any:
			key, ok := elem.(string)
			if !ok {
				return
			}
			if last {
				node[key] = value
				return
			}
			current = node[key]
		case []any:
			idx, ok := elem.(int)
			if !ok || idx < 0 || idx >= len(node) {
				return
			}
			if last {
				node[idx] = value
				return
			}
			current = node[idx]
		default:
			return
		}
	}
}

// isNullish treats nil, typed nils and the async placeholder's failure
// surrogate uniformly.
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// toAnySlice normalizes a resolved list value into []any.
func toAnySlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
