package demo_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	demo "github.com/phatnguyentan/graph-demo/internal/demo"
	executor "github.com/phatnguyentan/graph-demo/internal/executor"
	language "github.com/phatnguyentan/graph-demo/internal/language"
)

func execute(t *testing.T, query string, variables map[string]any) *executor.ExecutionResult {
	t.Helper()
	rt, sch, reg, err := demo.Runtime()
	require.NoError(t, err)
	exec := executor.NewExecutor(rt, sch, executor.WithDirectives(reg))
	doc, err := language.ParseQuery(query)
	require.NoError(t, err)
	return exec.ExecuteRequest(context.Background(), doc, "", variables, nil)
}

func TestFilmsWithDeclaredUpper(t *testing.T) {
	res := execute(t, `{ films { id title } }`, nil)
	require.Empty(t, res.Errors)

	// Film.title is declared with @upper; the composed resolver uppercases
	// every title.
	want := map[string]any{"films": []any{
		map[string]any{"id": "f1", "title": "JURASSIC PARK"},
		map[string]any{"id": "f2", "title": "ALIEN"},
		map[string]any{"id": "f3", "title": "ARRIVAL"},
	}}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestFilmByID(t *testing.T) {
	res := execute(t, `query Q($id: ID!) { film(id: $id) { title director } }`, map[string]any{"id": "f2"})
	require.Empty(t, res.Errors)

	want := map[string]any{"film": map[string]any{
		"title":    "ALIEN",
		"director": "Ridley Scott",
	}}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchUnionDiscrimination(t *testing.T) {
	res := execute(t, `{
  search(text: "steven") {
    __typename
    ... on Film { title }
    ... on Person { name }
  }
}`, nil)
	require.Empty(t, res.Errors)

	// "steven" matches nothing in titles but one person; search is shape
	// discriminated, so the person resolves through the name rule.
	want := map[string]any{"search": []any{
		map[string]any{"__typename": "Person", "name": "Steven Spielberg"},
	}}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchMixedResults(t *testing.T) {
	res := execute(t, `{
  search(text: "ar") {
    __typename
    ... on Film { title }
    ... on Person { name }
  }
}`, nil)
	require.Empty(t, res.Errors)

	want := map[string]any{"search": []any{
		map[string]any{"__typename": "Film", "title": "JURASSIC PARK"},
		map[string]any{"__typename": "Film", "title": "ARRIVAL"},
	}}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestBoxesInterfaceDiscrimination(t *testing.T) {
	res := execute(t, `{
  boxes {
    __typename
    size
    ... on RedBox { color }
  }
}`, nil)
	require.Empty(t, res.Errors)

	want := map[string]any{"boxes": []any{
		map[string]any{"__typename": "RedBox", "size": 3, "color": "red"},
		map[string]any{"__typename": "BlueBox", "size": 5},
		map[string]any{"__typename": "RedBox", "size": 8, "color": "red"},
	}}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryLevelDirective(t *testing.T) {
	res := execute(t, `{ film(id: "f1") { director @upper runtime @upper } }`, nil)
	require.Empty(t, res.Errors)

	// @upper at the query level transforms strings and passes the non-string
	// runtime through untouched.
	want := map[string]any{"film": map[string]any{
		"director": "STEVEN SPIELBERG",
		"runtime":  127,
	}}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaValidates(t *testing.T) {
	_, err := demo.Schema()
	require.NoError(t, err)
}
