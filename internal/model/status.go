package model

// JobStatus represents the status of a single-item or playlist job
type JobStatus string

const (
	// JobStatusIdle means no job of this kind has run yet
	JobStatusIdle JobStatus = "Idle"

	// JobStatusRunning means the job's worker is resolving or transferring
	JobStatusRunning JobStatus = "Running"

	// JobStatusSucceeded means the job finished successfully
	JobStatusSucceeded JobStatus = "Succeeded"

	// JobStatusFailed means the job stopped on an error
	JobStatusFailed JobStatus = "Failed"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if a worker currently owns the job
func (js JobStatus) IsActive() bool {
	return js == JobStatusRunning
}

// IsFinished returns true if the job is in a terminal state (succeeded or failed)
func (js JobStatus) IsFinished() bool {
	return js == JobStatusSucceeded || js == JobStatusFailed
}
