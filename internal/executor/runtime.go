package executor

import "context"

// Runtime is the host integration surface for field resolution, abstract
// type resolution and leaf serialization.
//
// Contract:
//   - Execution is breadth-first. At each depth the executor drains all sync
//     fields via ResolveSync, then calls BatchResolveAsync once with every
//     async task collected at that depth. The next depth starts only after
//     those results are completed.
//   - ResolveSync is never invoked for fields marked async, and
//     BatchResolveAsync only when at least one async field exists at the
//     current depth.
//   - BatchResolveAsync must return one result per task, in task order;
//     failures are per-element and never abort the batch (partial success).
//   - ResolveType must name a possible type of the abstract type; an error
//     makes the executor record a field-level error and null the field
//     without touching siblings.
//   - Implementations must be safe for concurrent use across operations and
//     must not mutate source or args values.
type Runtime interface {
	// ResolveSync resolves a synchronous field immediately. Returning
	// (nil, nil) produces a null for nullable fields.
	ResolveSync(ctx context.Context, objectType, field string, source any, args map[string]any) (any, error)

	// BatchResolveAsync resolves one execution depth of async tasks.
	// len(results) == len(tasks) and results[i] corresponds to tasks[i].
	BatchResolveAsync(ctx context.Context, tasks []AsyncResolveTask) []AsyncResolveResult

	// ResolveType returns the concrete object type name for a value of an
	// abstract (interface or union) type.
	ResolveType(ctx context.Context, abstractType string, value any) (string, error)

	// SerializeLeafValue coerces a scalar or enum value into a JSON-safe Go
	// value.
	SerializeLeafValue(ctx context.Context, leafType string, value any) (any, error)
}

// AsyncResolveTask is one pending async field resolution.
type AsyncResolveTask struct {
	ObjectType string
	Field      string
	Source     any
	Args       map[string]any
}

// AsyncResolveResult carries the outcome for one task. Error is independent
// per element; other elements in the same batch are unaffected.
type AsyncResolveResult struct {
	Value any
	Error error
}
