package model

import (
	"fmt"
	"strings"
	"time"
)

// JobKind identifies one of the two independently gated job kinds
type JobKind string

const (
	KindSingle   JobKind = "single"
	KindPlaylist JobKind = "playlist"
)

// String returns the string representation of JobKind
func (k JobKind) String() string {
	return string(k)
}

// Label returns the user-facing name of the job kind
func (k JobKind) Label() string {
	if k == KindPlaylist {
		return "playlist"
	}
	return "single"
}

// DownloadTarget describes one user-initiated download. It is passed by value
// and never modified once a job starts.
type DownloadTarget struct {
	URL            string  `json:"url"`
	Kind           JobKind `json:"kind"`
	AudioOnly      bool    `json:"audio_only"`
	DestinationDir string  `json:"destination_dir"`
}

// Validate reports missing input before a job is dispatched
func (t DownloadTarget) Validate() error {
	if strings.TrimSpace(t.URL) == "" {
		return fmt.Errorf("url is required")
	}
	if strings.TrimSpace(t.DestinationDir) == "" {
		return fmt.Errorf("destination directory is required")
	}
	if t.Kind != KindSingle && t.Kind != KindPlaylist {
		return fmt.Errorf("unknown job kind: %q", t.Kind)
	}
	return nil
}

// Progress is a (current, total) pair, 1-based for playlist items
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// String returns progress formatted as [current/total]
func (p Progress) String() string {
	return fmt.Sprintf("[%d/%d]", p.Current, p.Total)
}

// Percent returns the completed share as 0..100
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return p.Current * 100 / p.Total
}

// JobState is the runner-owned state of the latest job of one kind
type JobState struct {
	JobID      string          `json:"job_id,omitempty"`
	Kind       JobKind         `json:"kind"`
	Status     JobStatus       `json:"status"`
	Message    string          `json:"message"`
	Progress   *Progress       `json:"progress,omitempty"`
	Target     *DownloadTarget `json:"target,omitempty"`
	OutputPath string          `json:"output_path,omitempty"`
	StartedAt  time.Time       `json:"started_at,omitempty"`
	FinishedAt time.Time       `json:"finished_at,omitempty"`
}

// NewIdleState returns the state of a kind that has not run yet
func NewIdleState(kind JobKind) JobState {
	return JobState{Kind: kind, Status: JobStatusIdle}
}

// Duration returns how long the job ran, or has been running
func (s JobState) Duration() time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
