package history

import "time"

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one recorded build run.
type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     *time.Time
	Status         string
	ToolVersion    string
	ReleaseVersion string
	DictType       string
	DryRun         bool
	Workers        int
	DictCount      int
	TotalBytes     int64
	Error          string
}

// Elapsed returns the run duration, zero while still running.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunInfo describes a run at the moment it begins.
type RunInfo struct {
	ToolVersion    string
	ReleaseVersion string
	DictType       string
	DryRun         bool
	Workers        int
}

// Outcome is one job's recorded classification.
type Outcome struct {
	DictType string
	Source   string
	Target   string
	Class    string
	ExitCode int
}
