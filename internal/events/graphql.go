package events

import "time"

// GraphQLStart is published before an operation executes. RequestID ties the
// operation to its enclosing HTTP request; a batched request publishes one
// Start/Finish pair per operation under the same id.
type GraphQLStart struct {
	RequestID     int64
	Query         string
	OperationName string
	OperationType string
}

// GraphQLFinish is published after execution with the field-level errors the
// result carried.
type GraphQLFinish struct {
	RequestID     int64
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Duration      time.Duration
}
