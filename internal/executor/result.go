package executor

// Path locates a field in the response tree; elements are string field
// response names and int list indexes.
type Path []PathElement

type PathElement any

// GraphQLError is a field-level execution error with its response path.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       Path           `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string { return e.Message }

// ExecutionResult is the outcome of one operation: the (possibly partial)
// data tree plus every field-level error collected along the way.
type ExecutionResult struct {
	Data   any            `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}
