package constants

// JobStatus is the canonical status for rows in the jobs table.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusPending   JobStatus = "pending"   // created by ingestion, waiting for a worker
	JobStatusRunning   JobStatus = "running"   // claimed by a worker
	JobStatusCompleted JobStatus = "completed" // terminal: all roles processed
	JobStatusError     JobStatus = "error"     // terminal: whole-job fatal failure
)

// Terminal reports whether s is a terminal job status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}
