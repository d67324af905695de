package directive

import (
	"strings"

	schema "github.com/phatnguyentan/graph-demo/internal/schema"
)

// fieldLocations are the places a transformer directive may appear: on a
// field definition in the schema, or on a field selection in a query.
var fieldLocations = []string{schema.LocationFieldDefinition, schema.LocationField}

// Upper uppercases string values and passes every other value through.
func Upper() *Definition {
	return &Definition{
		Name:        "upper",
		Description: "Uppercases string results.",
		Locations:   fieldLocations,
		Transform:   stringTransform(strings.ToUpper),
	}
}

// Lower lowercases string values and passes every other value through.
func Lower() *Definition {
	return &Definition{
		Name:        "lower",
		Description: "Lowercases string results.",
		Locations:   fieldLocations,
		Transform:   stringTransform(strings.ToLower),
	}
}

// Trim removes surrounding whitespace from string values.
func Trim() *Definition {
	return &Definition{
		Name:        "trim",
		Description: "Trims surrounding whitespace from string results.",
		Locations:   fieldLocations,
		Transform:   stringTransform(strings.TrimSpace),
	}
}

// stringTransform guards fn behind a string type check; non-string values
// pass through untouched.
func stringTransform(fn func(string) string) TransformFunc {
	return func(value any) (any, error) {
		if s, ok := value.(string); ok {
			return fn(s), nil
		}
		return value, nil
	}
}
