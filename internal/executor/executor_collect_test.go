package executor_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	executor "github.com/phatnguyentan/graph-demo/internal/executor"
)

func TestCollect_SkipAndInclude(t *testing.T) {
	sch := mustBuildSchema(t, `type Query { a: String b: String c: String }`)
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.a": executor.NewMockValueResolver("A"),
		"Query.b": executor.NewMockValueResolver("B"),
		"Query.c": executor.NewMockValueResolver("C"),
	})

	exec := executor.NewExecutor(rt, sch)
	doc := mustParseQuery(t, `
query Q($yes: Boolean!, $no: Boolean!) {
  a @skip(if: $yes)
  b @include(if: $no)
  c
}`)

	got := exec.ExecuteRequest(context.Background(), doc, "Q", map[string]any{"yes": true, "no": false}, nil)

	want := &executor.ExecutionResult{
		Data: map[string]any{"c": "C"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}

	// Skipped fields never reach the runtime.
	wantCalls := []executor.Call{
		{Kind: "sync", ObjectType: "Query", Field: "c", Args: map[string]any{}},
	}
	if diff := cmp.Diff(wantCalls, rt.GetCalls()); diff != "" {
		t.Fatalf("runtime calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_AliasesAndMerging(t *testing.T) {
	sch := mustBuildSchema(t, `
type Query { node: Node }
interface Node { id: ID! }
type Film implements Node { id: ID! title: String }
`)
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.node": executor.NewMockValueResolver(map[string]any{"__typename": "Film", "id": "f1", "title": "Alien"}),
		"Film.id": func(ctx context.Context, source any, args map[string]any) (any, error) {
			return source.(map[string]any)["id"], nil
		},
		"Film.title": func(ctx context.Context, source any, args map[string]any) (any, error) {
			return source.(map[string]any)["title"], nil
		},
	})

	exec := executor.NewExecutor(rt, sch)
	doc := mustParseQuery(t, `{ node { id } node { __typename } first: node { id } }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := &executor.ExecutionResult{
		Data: map[string]any{
			"node":  map[string]any{"id": "f1", "__typename": "Film"},
			"first": map[string]any{"id": "f1"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}

	// The two unaliased selections merge into a single resolution.
	calls := rt.GetCalls()
	var nodeCalls int
	for _, c := range calls {
		if c.Field == "node" {
			nodeCalls++
		}
	}
	if nodeCalls != 2 {
		t.Fatalf("expected 2 node resolutions (merged + aliased), got %d", nodeCalls)
	}
}

func TestCollect_FragmentTypeConditions(t *testing.T) {
	sch := mustBuildSchema(t, `
type Query { search: [SearchResult!] }
interface Node { id: ID! }
type Film implements Node { id: ID! title: String }
type Person implements Node { id: ID! name: String }
union SearchResult = Film | Person
`)
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.search": executor.NewMockValueResolver([]any{
			map[string]any{"__typename": "Film", "id": "f1", "title": "Alien"},
			map[string]any{"__typename": "Person", "id": "p1", "name": "Ripley"},
		}),
		"Film.id": func(ctx context.Context, source any, args map[string]any) (any, error) {
			return source.(map[string]any)["id"], nil
		},
		"Film.title": func(ctx context.Context, source any, args map[string]any) (any, error) {
			return source.(map[string]any)["title"], nil
		},
		"Person.id": func(ctx context.Context, source any, args map[string]any) (any, error) {
			return source.(map[string]any)["id"], nil
		},
		"Person.name": func(ctx context.Context, source any, args map[string]any) (any, error) {
			return source.(map[string]any)["name"], nil
		},
	})

	exec := executor.NewExecutor(rt, sch)
	// nodeFields has an interface condition: it applies to both union
	// members because each implements Node.
	doc := mustParseQuery(t, `
{
  search {
    ...nodeFields
    ... on Film { title }
    ...personFields
  }
}
fragment nodeFields on Node { id }
fragment personFields on Person { name }
`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := &executor.ExecutionResult{
		Data: map[string]any{"search": []any{
			map[string]any{"id": "f1", "title": "Alien"},
			map[string]any{"id": "p1", "name": "Ripley"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_UndefinedFragmentIsIgnored(t *testing.T) {
	sch := mustBuildSchema(t, `type Query { a: String }`)
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.a": executor.NewMockValueResolver("A"),
	})

	exec := executor.NewExecutor(rt, sch)
	doc := mustParseQuery(t, `{ a ...missing }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := &executor.ExecutionResult{
		Data: map[string]any{"a": "A"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_UnknownFieldIsReported(t *testing.T) {
	sch := mustBuildSchema(t, `type Query { a: String }`)
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.a": executor.NewMockValueResolver("A"),
	})

	exec := executor.NewExecutor(rt, sch)
	doc := mustParseQuery(t, `{ a nope }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := &executor.ExecutionResult{
		Data: map[string]any{"a": "A"},
		Errors: []executor.GraphQLError{
			{Message: "Cannot query field 'nope' on type 'Query'", Path: executor.Path{"nope"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_OperationSelection(t *testing.T) {
	sch := mustBuildSchema(t, `type Query { a: String b: String }`)
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.a": executor.NewMockValueResolver("A"),
		"Query.b": executor.NewMockValueResolver("B"),
	})

	exec := executor.NewExecutor(rt, sch)
	doc := mustParseQuery(t, `query First { a } query Second { b }`)

	t.Run("by name", func(t *testing.T) {
		got := exec.ExecuteRequest(context.Background(), doc, "Second", nil, nil)
		want := &executor.ExecutionResult{Data: map[string]any{"b": "B"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing name with multiple operations", func(t *testing.T) {
		got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)
		want := &executor.ExecutionResult{
			Errors: []executor.GraphQLError{{Message: "operation not found"}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})
}
