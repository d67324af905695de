// Package demo is the runnable host data layer: an in-memory film catalog
// with a shape-discriminated search union and a box interface, wired through
// the memrt runtime.
package demo

import (
	"context"
	"strings"

	directive "github.com/phatnguyentan/graph-demo/internal/directive"
	memrt "github.com/phatnguyentan/graph-demo/internal/memrt"
	resolve "github.com/phatnguyentan/graph-demo/internal/resolve"
	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

// SDL is the demo catalog schema.
const SDL = `
directive @upper on FIELD_DEFINITION | FIELD
directive @lower on FIELD_DEFINITION | FIELD
directive @trim on FIELD_DEFINITION | FIELD

type Query {
  films: [Film!] @async
  film(id: ID!): Film @async
  people: [Person!] @async
  search(text: String!): [SearchResult!] @async
  boxes: [Box!]
}

type Film {
  id: ID!
  title: String @upper
  director: String
  runtime: Int
}

type Person {
  id: ID!
  name: String
  birthYear: Int
}

union SearchResult = Film | Person

interface Box {
  size: Int
}

type RedBox implements Box {
  size: Int
  color: String
}

type BlueBox implements Box {
  size: Int
  color: String
}
`

var films = []map[string]any{
	{"id": "f1", "title": "Jurassic Park", "director": "Steven Spielberg", "runtime": 127},
	{"id": "f2", "title": "Alien", "director": "Ridley Scott", "runtime": 117},
	{"id": "f3", "title": "Arrival", "director": "Denis Villeneuve", "runtime": 116},
}

var people = []map[string]any{
	{"id": "p1", "name": "Steven Spielberg", "birthYear": 1946},
	{"id": "p2", "name": "Ridley Scott", "birthYear": 1937},
	{"id": "p3", "name": "Amy Adams", "birthYear": 1974},
}

var boxes = []map[string]any{
	{"size": 3, "color": "red"},
	{"size": 5, "color": "blue"},
	{"size": 8, "color": "red"},
}

// Registry returns the directive registry the demo schema declares.
func Registry() (*directive.Registry, error) {
	return directive.NewRegistry(directive.Upper(), directive.Lower(), directive.Trim())
}

// Schema builds and validates the demo schema.
func Schema() (*schema.Schema, error) {
	sch, err := schema.BuildFromSDL("demo", SDL)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(sch); err != nil {
		return nil, err
	}
	return sch, nil
}

// TypeRules returns the discriminant rules for the demo's abstract types.
// Search results are discriminated by shape: films carry a title, people a
// name. Boxes are discriminated by the color field value.
func TypeRules() *resolve.TypeResolver {
	return resolve.NewTypeResolver().
		Register("SearchResult",
			resolve.WhenFieldPresent("title", "Film"),
			resolve.WhenFieldPresent("name", "Person"),
		).
		Register("Box",
			resolve.WhenFieldEquals("color", "red", "RedBox"),
			resolve.WhenFieldEquals("color", "blue", "BlueBox"),
		)
}

// Runtime assembles the full demo: schema, directive registry, discriminant
// rules and resolvers.
func Runtime() (*memrt.Runtime, *schema.Schema, *directive.Registry, error) {
	sch, err := Schema()
	if err != nil {
		return nil, nil, nil, err
	}
	reg, err := Registry()
	if err != nil {
		return nil, nil, nil, err
	}

	rt, err := memrt.NewBuilder().
		Directives(reg).
		ResolveTypesWith(TypeRules()).
		Resolve("Query", "films", listResolver(films)).
		Resolve("Query", "people", listResolver(people)).
		Resolve("Query", "boxes", listResolver(boxes)).
		Resolve("Query", "film", filmByID).
		Resolve("Query", "search", search).
		Build(sch)
	if err != nil {
		return nil, nil, nil, err
	}
	return rt, sch, reg, nil
}

func listResolver(items []map[string]any) directive.ResolverFunc {
	return func(ctx context.Context, source any, args map[string]any) (any, error) {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item
		}
		return out, nil
	}
}

func filmByID(ctx context.Context, source any, args map[string]any) (any, error) {
	id, _ := args["id"].(string)
	for _, f := range films {
		if f["id"] == id {
			return f, nil
		}
	}
	return nil, nil
}

// search matches films by title and people by name, films first.
func search(ctx context.Context, source any, args map[string]any) (any, error) {
	text, _ := args["text"].(string)
	needle := strings.ToLower(text)
	var out []any
	for _, f := range films {
		if title, ok := f["title"].(string); ok && strings.Contains(strings.ToLower(title), needle) {
			out = append(out, f)
		}
	}
	for _, p := range people {
		if name, ok := p["name"].(string); ok && strings.Contains(strings.ToLower(name), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}
