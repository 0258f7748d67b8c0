package model

import "time"

// EventType classifies a StatusEvent
type EventType string

const (
	EventMessage  EventType = "message"
	EventProgress EventType = "progress"
	EventPrompt   EventType = "prompt"
	EventEnabled  EventType = "enabled"
	EventFinished EventType = "finished"
)

// Severity of a prompt shown to the user
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// StatusEvent is posted by a job's worker and consumed by the interface loop.
// Workers never write presentation state directly.
type StatusEvent struct {
	JobID    string    `json:"job_id,omitempty"`
	Kind     JobKind   `json:"kind"`
	Type     EventType `json:"type"`
	Message  string    `json:"message,omitempty"`
	Title    string    `json:"title,omitempty"`
	Severity Severity  `json:"severity,omitempty"`
	Enabled  bool      `json:"enabled"`
	Progress *Progress `json:"progress,omitempty"`
	Status   JobStatus `json:"status,omitempty"`
	Time     time.Time `json:"time"`
}
