package schema_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

const boxSDL = `
directive @upper on FIELD_DEFINITION | FIELD

interface Box {
  size: Int!
}

type RedBox implements Box {
  size: Int!
  shade: String
}

type BlueBox implements Box {
  size: Int!
}

union Wrapped = RedBox | BlueBox

type Query {
  boxes: [Box!] @async
  label: String @upper
}
`

func TestBuildFromSDL(t *testing.T) {
	s, err := schema.BuildFromSDL("boxes", boxSDL)
	require.NoError(t, err)
	require.NoError(t, schema.Validate(s))

	t.Run("interface implementors become possible types", func(t *testing.T) {
		box := s.Types["Box"]
		require.NotNil(t, box)
		require.Equal(t, schema.TypeKindInterface, box.Kind)
		require.ElementsMatch(t, []string{"RedBox", "BlueBox"}, box.PossibleTypes)
		require.True(t, s.IsPossibleType("Box", "RedBox"))
		require.False(t, s.IsPossibleType("Box", "Query"))
	})

	t.Run("implementors keep declaration order", func(t *testing.T) {
		// RedBox precedes BlueBox in the SDL even though it sorts after it.
		box := s.Types["Box"]
		require.NotNil(t, box)
		require.Equal(t, []string{"RedBox", "BlueBox"}, box.PossibleTypes)
	})

	t.Run("union members preserve declaration order", func(t *testing.T) {
		wrapped := s.Types["Wrapped"]
		require.NotNil(t, wrapped)
		require.Equal(t, []string{"RedBox", "BlueBox"}, wrapped.PossibleTypes)
	})

	t.Run("@async is stripped into the Async flag", func(t *testing.T) {
		f := s.Types["Query"].Field("boxes")
		require.NotNil(t, f)
		require.True(t, f.Async)
		require.Empty(t, f.Directives)
	})

	t.Run("transformer directives are kept by name in order", func(t *testing.T) {
		f := s.Types["Query"].Field("label")
		require.NotNil(t, f)
		require.False(t, f.Async)
		require.Equal(t, []string{"upper"}, f.Directives)
	})

	t.Run("declared directive is registered", func(t *testing.T) {
		d := s.Directives["upper"]
		require.NotNil(t, d)
		require.Contains(t, d.Locations, "FIELD_DEFINITION")
	})
}

func TestBuildFromSDL_TypeRefs(t *testing.T) {
	s, err := schema.BuildFromSDL("refs", `
type Query {
  names(limit: Int = 10): [String!]!
}
`)
	require.NoError(t, err)
	f := s.Types["Query"].Field("names")
	require.NotNil(t, f)

	require.True(t, schema.IsNonNull(f.Type))
	require.True(t, schema.IsList(f.Type))
	require.Equal(t, "String", schema.GetNamedType(f.Type))

	arg := f.Argument("limit")
	require.NotNil(t, arg)
	require.Equal(t, 10, arg.DefaultValue)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		sdl  string
		want string
	}{
		{
			name: "undeclared field directive",
			sdl:  `type Query { title: String @shout }`,
			want: "undeclared directive @shout",
		},
		{
			name: "union member not an object",
			sdl: `
interface Box { size: Int }
type RedBox implements Box { size: Int }
union U = Box | RedBox
type Query { u: U }
`,
			want: `union "U" member "Box" must be an object`,
		},
		{
			name: "implementor missing interface field",
			sdl: `
interface Box { size: Int }
type RedBox implements Box { shade: String }
type Query { b: Box }
`,
			want: `missing field "size"`,
		},
		{
			name: "undefined type reference",
			sdl:  `type Query { film: Film }`,
			want: `references undefined type "Film"`,
		},
		{
			name: "missing query root",
			sdl:  `type Film { title: String }`,
			want: `query root type "Query" is not defined`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := schema.BuildFromSDL(tc.name, tc.sdl)
			require.NoError(t, err)
			err = schema.Validate(s)
			require.Error(t, err)
			ce, ok := schema.AsConsistencyError(err)
			require.True(t, ok)
			require.Contains(t, strings.Join(ce.Violations, "\n"), tc.want)
		})
	}
}

func TestRenderRoundTrip(t *testing.T) {
	s, err := schema.BuildFromSDL("boxes", boxSDL)
	require.NoError(t, err)

	sdl := schema.Render(s)
	require.Contains(t, sdl, "interface Box {")
	require.Contains(t, sdl, "type RedBox implements Box {")
	require.Contains(t, sdl, "union Wrapped = RedBox | BlueBox")
	require.Contains(t, sdl, "boxes: [Box!] @async")
	require.Contains(t, sdl, "label: String @upper")
	require.Contains(t, sdl, "directive @upper on FIELD_DEFINITION | FIELD")

	// Rendered SDL must build back into an equivalent schema.
	s2, err := schema.BuildFromSDL("rendered", sdl)
	require.NoError(t, err)
	require.NoError(t, schema.Validate(s2))
	require.Equal(t, schema.Render(s2), sdl)
}
