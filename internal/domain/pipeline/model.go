package pipeline

import "time"

type Kind string

const (
	KindReconcile Kind = "reconcile"
	KindLink      Kind = "link"
	KindValidate  Kind = "validate"
)

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is the persisted summary of one batch job. Payload carries the
// kind-specific counters.
type Run struct {
	ID           string
	Kind         Kind
	Status       Status
	WindowStart  time.Time
	WindowEnd    time.Time
	DryRun       bool
	Payload      map[string]any
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
	TraceID      string
	SpanID       string
}

func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
