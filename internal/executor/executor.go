// Package executor runs GraphQL operations against a Schema and a Runtime.
//
// Execution is breadth-first: synchronous fields are expanded inline while
// asynchronous fields are queued and flushed once per depth through
// Runtime.BatchResolveAsync. Field-level failures (resolver errors,
// unresolved abstract types, directive application failures) are recorded
// against the field's response path and never abort sibling resolution; the
// caller receives partial data plus the error list.
package executor

import (
	"context"
	"fmt"

	directive "github.com/phatnguyentan/graph-demo/internal/directive"
	language "github.com/phatnguyentan/graph-demo/internal/language"
	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

// Executor executes operations. Safe for concurrent use; all per-request
// state lives in the execution state, never on the Executor.
type Executor struct {
	runtime    Runtime
	schema     *schema.Schema
	directives *directive.Registry
}

// Option configures an Executor.
type Option func(*Executor)

// WithDirectives supplies the registry used to apply transformer directives
// attached to query field selections. Without it, only @skip and @include
// are honored at the query level.
func WithDirectives(reg *directive.Registry) Option {
	return func(e *Executor) { e.directives = reg }
}

// NewExecutor creates an Executor over the given runtime and schema.
func NewExecutor(runtime Runtime, sch *schema.Schema, opts ...Option) *Executor {
	e := &Executor{runtime: runtime, schema: sch}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// execState carries the per-request execution state.
type execState struct {
	ctx        context.Context
	runtime    Runtime
	schema     *schema.Schema
	directives *directive.Registry
	document   *language.QueryDocument
	variables  map[string]any

	pending []pendingTask
	errors  []GraphQLError

	// Response-path prefixes nulled by a Non-Null violation; tasks and
	// results under a tombstoned prefix are discarded.
	tombstones map[string]struct{}
}

// pendingTask is one queued async field resolution.
type pendingTask struct {
	task      AsyncResolveTask
	path      Path
	fieldType *schema.TypeRef
	fields    []*language.Field
}

// asyncPlaceholder marks a response slot whose value arrives from a later
// batch flush.
type asyncPlaceholder struct{}

// ExecuteRequest runs one operation from the parsed document and returns
// data plus accumulated field errors. It never panics on bad input; request
// errors come back inside the result.
func (e *Executor) ExecuteRequest(
	ctx context.Context,
	document *language.QueryDocument,
	operationName string,
	variables map[string]any,
	initialValue any,
) *ExecutionResult {
	op := selectOperation(document, operationName)
	if op == nil {
		return &ExecutionResult{Errors: []GraphQLError{{Message: "operation not found"}}}
	}

	coerced, err := coerceVariableValues(e.schema, op, variables)
	if err != nil {
		return &ExecutionResult{Errors: []GraphQLError{{Message: err.Error()}}}
	}

	var rootType *schema.Type
	switch op.Operation {
	case language.Query:
		rootType = e.schema.GetQueryType()
	case language.Mutation:
		rootType = e.schema.GetMutationType()
	case language.Subscription:
		rootType = e.schema.GetSubscriptionType()
	}
	if rootType == nil {
		return &ExecutionResult{Errors: []GraphQLError{{
			Message: fmt.Sprintf("schema does not support %s operations", op.Operation),
		}}}
	}

	state := &execState{
		ctx:        ctx,
		runtime:    e.runtime,
		schema:     e.schema,
		directives: e.directives,
		document:   document,
		variables:  coerced,
		tombstones: map[string]struct{}{},
	}

	root := map[string]any{}
	for k, v := range state.executeSelectionSet(rootType, op.SelectionSet, initialValue, Path{}) {
		root[k] = v
	}

	for len(state.pending) > 0 {
		flushed, results := state.flushPending()
		for i, res := range results {
			state.completeAsync(flushed[i], res, root)
		}
	}

	return &ExecutionResult{Data: root, Errors: state.errors}
}

// executeSelectionSet expands one selection set against objectValue. Sync
// fields complete inline; async fields leave a placeholder and queue a task.
// Returns nil when a Non-Null child forces this object to null.
func (s *execState) executeSelectionSet(objectType *schema.Type, selections language.SelectionSet, objectValue any, path Path) map[string]any {
	result := map[string]any{}
	for _, group := range collectFields(s, objectType, selections) {
		fieldPath := appendPath(path, group.ResponseName)
		value := s.executeFieldGroup(objectType, objectValue, group.Fields, fieldPath)

		if group.Fields[0].Name == typenameField {
			result[group.ResponseName] = value
			continue
		}
		fieldDef := objectType.Field(group.Fields[0].Name)
		if fieldDef == nil {
			// Unknown field: error already recorded, omit from result.
			continue
		}
		if schema.IsNonNull(fieldDef.Type) && isNullish(value) {
			if len(path) > 0 {
				// Async siblings already queued under this object are moot.
				s.tombstone(path)
				return nil
			}
			result[group.ResponseName] = nil
			continue
		}
		if isNullish(value) {
			result[group.ResponseName] = nil
		} else {
			result[group.ResponseName] = value
		}
	}
	return result
}

const typenameField = "__typename"

func (s *execState) executeFieldGroup(objectType *schema.Type, objectValue any, fields []*language.Field, path Path) any {
	field := fields[0]
	if field.Name == typenameField {
		return objectType.Name
	}

	fieldDef := objectType.Field(field.Name)
	if fieldDef == nil {
		s.addError(fmt.Sprintf("Cannot query field '%s' on type '%s'", field.Name, objectType.Name), path)
		return nil
	}

	args := coerceArgumentValues(s, fieldDef, field.Arguments, path)

	if fieldDef.Async {
		s.pending = append(s.pending, pendingTask{
			task: AsyncResolveTask{
				ObjectType: objectType.Name,
				Field:      field.Name,
				Source:     objectValue,
				Args:       args,
			},
			path:      path,
			fieldType: fieldDef.Type,
			fields:    fields,
		})
		return asyncPlaceholder{}
	}

	value, err := s.runtime.ResolveSync(s.ctx, objectType.Name, field.Name, objectValue, args)
	if err != nil {
		s.addError(err.Error(), path)
		return nil
	}
	value, ok := s.applySelectionDirectives(fields, value, path)
	if !ok {
		return nil
	}
	return s.completeValue(fieldDef.Type, fields, value, path)
}

// applySelectionDirectives runs transformer directives attached to the query
// selection itself (e.g. `title @upper`). @skip and @include were already
// consumed during field collection.
func (s *execState) applySelectionDirectives(fields []*language.Field, value any, path Path) (any, bool) {
	if s.directives == nil {
		return value, true
	}
	var names []string
	for _, d := range fields[0].Directives {
		if d.Name == "skip" || d.Name == "include" {
			continue
		}
		names = append(names, d.Name)
	}
	if len(names) == 0 {
		return value, true
	}
	out, err := s.directives.Apply(s.ctx, value, names)
	if err != nil {
		s.addError(err.Error(), path)
		return nil, false
	}
	return out, true
}

// flushPending hands the current depth's live tasks to the runtime in one
// batch. Tasks under tombstoned prefixes are dropped before the call.
func (s *execState) flushPending() ([]pendingTask, []AsyncResolveResult) {
	live := make([]pendingTask, 0, len(s.pending))
	for _, pt := range s.pending {
		if s.underTombstone(pt.path) {
			continue
		}
		live = append(live, pt)
	}
	s.pending = nil

	if len(live) == 0 {
		return nil, nil
	}
	tasks := make([]AsyncResolveTask, len(live))
	for i, pt := range live {
		tasks[i] = pt.task
	}
	return live, s.runtime.BatchResolveAsync(s.ctx, tasks)
}

// completeAsync writes one async result into the response tree, handling
// Non-Null propagation up to the top-level field.
func (s *execState) completeAsync(pt pendingTask, res AsyncResolveResult, root map[string]any) {
	if s.underTombstone(pt.path) {
		return
	}
	nullify := func() {
		top := topLevelFieldPath(pt.path)
		setValueAtPath(root, top, nil)
		s.tombstone(top)
	}

	if res.Error != nil {
		s.addError(res.Error.Error(), pt.path)
		if schema.IsNonNull(pt.fieldType) {
			nullify()
		} else {
			setValueAtPath(root, pt.path, nil)
		}
		return
	}

	value, ok := s.applySelectionDirectives(pt.fields, res.Value, pt.path)
	if !ok {
		if schema.IsNonNull(pt.fieldType) {
			nullify()
		} else {
			setValueAtPath(root, pt.path, nil)
		}
		return
	}

	completed := s.completeValue(pt.fieldType, pt.fields, value, pt.path)
	if schema.IsNonNull(pt.fieldType) && isNullish(completed) {
		nullify()
		return
	}
	if isNullish(completed) {
		setValueAtPath(root, pt.path, nil)
		return
	}
	setValueAtPath(root, pt.path, completed)
}

// completeValue recursively completes a resolved value against its declared
// type: non-null unwrapping, list completion, leaf serialization, object
// sub-selection and abstract type resolution.
func (s *execState) completeValue(fieldType *schema.TypeRef, fields []*language.Field, value any, path Path) any {
	if schema.IsNonNull(fieldType) {
		if isNullish(value) {
			if !s.hasErrorAtPath(path) {
				s.addError(fmt.Sprintf("Cannot return null for non-nullable field %s", pathString(path)), path)
			}
			return nil
		}
		return s.completeValue(schema.Unwrap(fieldType), fields, value, path)
	}
	if isNullish(value) {
		return nil
	}
	if schema.IsList(fieldType) {
		return s.completeListValue(fieldType, fields, value, path)
	}

	namedType := schema.GetNamedType(fieldType)
	typeDef := s.schema.Types[namedType]
	if typeDef == nil {
		s.addError(fmt.Sprintf("Unknown type: %s", namedType), path)
		return nil
	}

	switch typeDef.Kind {
	case schema.TypeKindScalar, schema.TypeKindEnum:
		serialized, err := s.runtime.SerializeLeafValue(s.ctx, namedType, value)
		if err != nil {
			s.addError(err.Error(), path)
			return nil
		}
		return serialized
	case schema.TypeKindObject:
		return s.executeSelectionSet(typeDef, mergeSelectionSets(fields), value, path)
	case schema.TypeKindInterface, schema.TypeKindUnion:
		return s.completeAbstractValue(namedType, fields, value, path)
	default:
		s.addError(fmt.Sprintf("Cannot complete value of kind %s", typeDef.Kind), path)
		return nil
	}
}

// completeAbstractValue asks the runtime for the concrete type of value and
// continues execution as that type. A resolution failure nulls this field
// only; sibling fields keep their values.
func (s *execState) completeAbstractValue(abstractType string, fields []*language.Field, value any, path Path) any {
	typeName, err := s.runtime.ResolveType(s.ctx, abstractType, value)
	if err != nil {
		s.addError(err.Error(), path)
		return nil
	}
	typeDef := s.schema.Types[typeName]
	if typeDef == nil || typeDef.Kind != schema.TypeKindObject {
		s.addError(fmt.Sprintf("Abstract type %s must resolve to an object type, got %q", abstractType, typeName), path)
		return nil
	}
	if !s.schema.IsPossibleType(abstractType, typeName) {
		s.addError(fmt.Sprintf("Runtime type %q is not a possible type of %s", typeName, abstractType), path)
		return nil
	}
	return s.executeSelectionSet(typeDef, mergeSelectionSets(fields), value, path)
}

func (s *execState) completeListValue(listType *schema.TypeRef, fields []*language.Field, value any, path Path) any {
	items, ok := toAnySlice(value)
	if !ok {
		s.addError(fmt.Sprintf("Expected list value, got %T", value), path)
		return nil
	}
	inner := schema.Unwrap(listType)
	completed := make([]any, len(items))
	for i, item := range items {
		v := s.completeValue(inner, fields, item, appendPath(path, i))
		if isNullish(v) {
			if schema.IsNonNull(inner) {
				// Inner completion already recorded the error; null the list.
				s.tombstone(path)
				return nil
			}
			// Normalize typed nils (e.g. a nil map from a nulled-out
			// object item) to plain null.
			completed[i] = nil
			continue
		}
		completed[i] = v
	}
	return completed
}

// --- state helpers ---

func (s *execState) addError(message string, path Path) {
	s.errors = append(s.errors, GraphQLError{Message: message, Path: path})
}

func (s *execState) hasErrorAtPath(path Path) bool {
	key := pathString(path)
	for _, err := range s.errors {
		if pathString(err.Path) == key {
			return true
		}
	}
	return false
}

func (s *execState) tombstone(p Path) {
	if key := pathString(p); key != "" {
		s.tombstones[key] = struct{}{}
	}
}

func (s *execState) underTombstone(p Path) bool {
	if len(s.tombstones) == 0 {
		return false
	}
	prefix := Path{}
	for _, elem := range p {
		prefix = append(prefix, elem)
		if _, ok := s.tombstones[pathString(prefix)]; ok {
			return true
		}
	}
	return false
}
