package events

import (
	"net/http"
	"time"
)

// HTTPStart is published when a request reaches the GraphQL handler.
// RequestID is the id minted for the request; subscribers correlate the
// matching HTTPFinish (and nested GraphQL events) on it.
type HTTPStart struct {
	RequestID int64
	Request   *http.Request
}

// HTTPFinish is published after the handler writes its response.
type HTTPFinish struct {
	RequestID int64
	Request   *http.Request
	Status    int
	Duration  time.Duration
}
