package executor_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	directive "github.com/phatnguyentan/graph-demo/internal/directive"
	executor "github.com/phatnguyentan/graph-demo/internal/executor"
	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

func newTestRegistry(t *testing.T, extra ...*directive.Definition) *directive.Registry {
	t.Helper()
	defs := append([]*directive.Definition{directive.Upper(), directive.Lower(), directive.Trim()}, extra...)
	reg, err := directive.NewRegistry(defs...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func TestSelectionDirectives_TransformApplied(t *testing.T) {
	sch := mustBuildSchema(t, `type Query { title: String n: Int }`)
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.title": executor.NewMockValueResolver("Jurassic Park"),
		"Query.n":     executor.NewMockValueResolver(42),
	})

	exec := executor.NewExecutor(rt, sch, executor.WithDirectives(newTestRegistry(t)))
	doc := mustParseQuery(t, `{ title @upper n @upper }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	// String transforms are type-guarded: non-string values pass through.
	want := &executor.ExecutionResult{
		Data: map[string]any{"title": "JURASSIC PARK", "n": 42},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionDirectives_ChainOrder(t *testing.T) {
	suffix := func(s string) *directive.Definition {
		return &directive.Definition{
			Name:      s,
			Locations: []string{schema.LocationField},
			Transform: func(value any) (any, error) {
				str, ok := value.(string)
				if !ok {
					return value, nil
				}
				return str + "-" + s, nil
			},
		}
	}
	sch := mustBuildSchema(t, `type Query { title: String }`)
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.title": executor.NewMockValueResolver("x"),
	})

	exec := executor.NewExecutor(rt, sch, executor.WithDirectives(newTestRegistry(t, suffix("a"), suffix("b"))))
	doc := mustParseQuery(t, `{ title @a @b }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := &executor.ExecutionResult{
		Data: map[string]any{"title": "x-a-b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionDirectives_Failures(t *testing.T) {
	failing := &directive.Definition{
		Name:      "explode",
		Locations: []string{schema.LocationField},
		Transform: func(value any) (any, error) {
			return nil, fmt.Errorf("kaput")
		},
	}
	sch := mustBuildSchema(t, `type Query { a: String b: String }`)

	t.Run("transform error is field-level", func(t *testing.T) {
		rt := executor.NewMockRuntime(map[string]executor.MockResolver{
			"Query.a": executor.NewMockValueResolver("A"),
			"Query.b": executor.NewMockValueResolver("B"),
		})
		exec := executor.NewExecutor(rt, sch, executor.WithDirectives(newTestRegistry(t, failing)))
		doc := mustParseQuery(t, `{ a @explode b }`)

		got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

		want := &executor.ExecutionResult{
			Data: map[string]any{"a": nil, "b": "B"},
			Errors: []executor.GraphQLError{
				{Message: "directive @explode: kaput", Path: executor.Path{"a"}},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unregistered name is field-level", func(t *testing.T) {
		rt := executor.NewMockRuntime(map[string]executor.MockResolver{
			"Query.a": executor.NewMockValueResolver("A"),
		})
		exec := executor.NewExecutor(rt, sch, executor.WithDirectives(newTestRegistry(t)))
		doc := mustParseQuery(t, `{ a @nope }`)

		got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

		want := &executor.ExecutionResult{
			Data: map[string]any{"a": nil},
			Errors: []executor.GraphQLError{
				{Message: "directive @nope: not registered", Path: executor.Path{"a"}},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no registry passes values through", func(t *testing.T) {
		rt := executor.NewMockRuntime(map[string]executor.MockResolver{
			"Query.a": executor.NewMockValueResolver("A"),
		})
		exec := executor.NewExecutor(rt, sch)
		doc := mustParseQuery(t, `{ a @upper }`)

		got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

		want := &executor.ExecutionResult{
			Data: map[string]any{"a": "A"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSelectionDirectives_AsyncField(t *testing.T) {
	sch := mustBuildSchema(t, `type Query { title: String @async }`)
	rt := executor.NewMockRuntime(map[string]executor.MockResolver{
		"Query.title": executor.NewMockValueResolver("jaws"),
	})

	exec := executor.NewExecutor(rt, sch, executor.WithDirectives(newTestRegistry(t)))
	doc := mustParseQuery(t, `{ title @upper }`)

	got := exec.ExecuteRequest(context.Background(), doc, "", nil, nil)

	want := &executor.ExecutionResult{
		Data: map[string]any{"title": "JAWS"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ExecutionResult mismatch (-want +got):\n%s", diff)
	}
}
