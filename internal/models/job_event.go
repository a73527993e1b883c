package models

// JobStatus is the lifecycle status of one pipeline stage run.
type JobStatus string

const (
	StatusQueued  JobStatus = "queued"
	StatusRunning JobStatus = "running"
	StatusDone    JobStatus = "done"
	StatusError   JobStatus = "error"
)

// Terminal reports whether no further updates are expected for this status.
func (s JobStatus) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// JobEvent is one progress update pushed by the gateway, one per stream
// frame. Progress and Total are pointers because the gateway omits them
// when a stage has no meaningful count; absent must stay distinguishable
// from zero.
type JobEvent struct {
	VersionID string    `json:"version_id"`
	Stage     string    `json:"stage"`
	Status    JobStatus `json:"status"`
	Progress  *int      `json:"progress,omitempty"`
	Total     *int      `json:"total,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// ActiveJob is the last-known state of one non-terminal (version, stage)
// pair, derived from the event stream.
type ActiveJob struct {
	VersionID string    `json:"version_id"`
	Stage     string    `json:"stage"`
	Status    JobStatus `json:"status"`
	Progress  int       `json:"progress"`
	Total     int       `json:"total"`
}
