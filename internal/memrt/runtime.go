package memrt

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	directive "github.com/phatnguyentan/graph-demo/internal/directive"
	eventbus "github.com/phatnguyentan/graph-demo/internal/eventbus"
	events "github.com/phatnguyentan/graph-demo/internal/events"
	executor "github.com/phatnguyentan/graph-demo/internal/executor"
	resolve "github.com/phatnguyentan/graph-demo/internal/resolve"
	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

// Runtime serves field resolution from in-process resolver functions. It is
// immutable after Build and safe for concurrent use.
type Runtime struct {
	schema       *schema.Schema
	effective    map[string]directive.ResolverFunc
	typeResolver *resolve.TypeResolver
	serializers  map[string]SerializeFunc
}

var _ executor.Runtime = (*Runtime)(nil)

func (r *Runtime) resolver(objectType, field string) directive.ResolverFunc {
	if fn, ok := r.effective[objectType+"."+field]; ok {
		return fn
	}
	return defaultResolver(field)
}

func (r *Runtime) ResolveSync(ctx context.Context, objectType, field string, source any, args map[string]any) (any, error) {
	return r.resolver(objectType, field)(ctx, source, args)
}

// BatchResolveAsync groups tasks by (objectType, field) and runs the groups
// in parallel. Results keep task order; errors stay per-element.
func (r *Runtime) BatchResolveAsync(ctx context.Context, tasks []executor.AsyncResolveTask) []executor.AsyncResolveResult {
	results := make([]executor.AsyncResolveResult, len(tasks))
	if len(tasks) == 0 {
		return results
	}
	started := time.Now()

	type groupKey struct {
		objectType string
		field      string
	}
	type group struct {
		objectType string
		field      string
		idxs       []int
	}
	var groups []group
	idxByKey := map[groupKey]int{}
	for i, t := range tasks {
		k := groupKey{objectType: t.ObjectType, field: t.Field}
		if gi, ok := idxByKey[k]; ok {
			groups[gi].idxs = append(groups[gi].idxs, i)
		} else {
			idxByKey[k] = len(groups)
			groups = append(groups, group{objectType: t.ObjectType, field: t.Field, idxs: []int{i}})
		}
	}

	run := func(g group) {
		fn := r.resolver(g.objectType, g.field)
		for _, idx := range g.idxs {
			t := tasks[idx]
			val, err := fn(ctx, t.Source, t.Args)
			results[idx] = executor.AsyncResolveResult{Value: val, Error: err}
		}
	}

	if len(groups) > 1 {
		var wg sync.WaitGroup
		wg.Add(len(groups))
		for _, g := range groups {
			g := g
			go func() {
				defer wg.Done()
				run(g)
			}()
		}
		wg.Wait()
	} else {
		run(groups[0])
	}

	eventbus.Publish(ctx, events.BatchResolveFinish{
		Tasks:    len(tasks),
		Groups:   len(groups),
		Duration: time.Since(started),
	})
	return results
}

// ResolveType delegates to the bound TypeResolver.
func (r *Runtime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	started := time.Now()
	if r.typeResolver == nil {
		err := fmt.Errorf("no type resolver configured for abstract type %s", abstractType)
		eventbus.Publish(ctx, events.ResolveTypeDone{AbstractType: abstractType, Err: err, Duration: time.Since(started)})
		return "", err
	}
	name, err := r.typeResolver.Resolve(abstractType, value)
	eventbus.Publish(ctx, events.ResolveTypeDone{
		AbstractType: abstractType,
		ResolvedType: name,
		Err:          err,
		Duration:     time.Since(started),
	})
	return name, err
}

// SerializeLeafValue applies a registered scalar serializer when present,
// otherwise passes JSON-safe values through unchanged. Byte slices become
// base64.
func (r *Runtime) SerializeLeafValue(ctx context.Context, leafType string, value any) (any, error) {
	if fn, ok := r.serializers[leafType]; ok {
		return fn(value)
	}
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string, bool, int, int32, int64, float32, float64:
		return v, nil
	case []byte:
		return base64.StdEncoding.EncodeToString(v), nil
	default:
		return v, nil
	}
}
