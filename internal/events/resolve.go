package events

import "time"

// ResolveTypeDone is emitted after an abstract type resolution attempt.
type ResolveTypeDone struct {
	AbstractType string
	ResolvedType string
	Err          error
	Duration     time.Duration
}

// BatchResolveFinish is emitted after one async flush completes.
type BatchResolveFinish struct {
	Tasks    int
	Groups   int
	Duration time.Duration
}
