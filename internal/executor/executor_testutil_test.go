package executor_test

import (
	"testing"

	language "github.com/phatnguyentan/graph-demo/internal/language"
	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

// mustParseQuery parses a GraphQL query and fails the test on error.
func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	d, err := language.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return d
}

// mustBuildSchema builds a schema from SDL and fails the test on error.
func mustBuildSchema(t *testing.T, sdl string) *schema.Schema {
	t.Helper()
	s, err := schema.BuildFromSDL("test", sdl)
	if err != nil {
		t.Fatalf("schema build error: %v", err)
	}
	return s
}
