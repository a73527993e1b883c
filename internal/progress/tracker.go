// Package progress folds the gateway's job-event stream into a snapshot of
// currently running pipeline stages, keyed by (version, stage).
package progress

import (
	"sync"

	"github.com/docgate/docgate-go/internal/models"
)

// Key identifies one pipeline stage run.
type Key struct {
	VersionID string
	Stage     string
}

// Tracker keeps the last-known state of every non-terminal job. A terminal
// event (done/error) removes its key; absence of a key means the job either
// never started or already finished.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[Key]models.ActiveJob
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[Key]models.ActiveJob)}
}

// Apply folds one event into the tracker. Fields absent from the event
// (progress, total) keep their previously recorded values; the status is
// always taken from the event.
func (t *Tracker) Apply(ev models.JobEvent) {
	key := Key{VersionID: ev.VersionID, Stage: ev.Stage}

	t.mu.Lock()
	defer t.mu.Unlock()

	if ev.Status.Terminal() {
		delete(t.jobs, key)
		return
	}

	job, ok := t.jobs[key]
	if !ok {
		job = models.ActiveJob{VersionID: ev.VersionID, Stage: ev.Stage}
	}
	job.Status = ev.Status
	if ev.Progress != nil {
		job.Progress = *ev.Progress
	}
	if ev.Total != nil {
		job.Total = *ev.Total
	}
	t.jobs[key] = job
}

// Snapshot returns a copy of the current entries in no particular order.
func (t *Tracker) Snapshot() []models.ActiveJob {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.ActiveJob, 0, len(t.jobs))
	for _, job := range t.jobs {
		out = append(out, job)
	}
	return out
}

// Len returns the number of jobs currently tracked.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.jobs)
}
