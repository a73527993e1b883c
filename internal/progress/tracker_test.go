package progress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgate/docgate-go/internal/models"
	"github.com/docgate/docgate-go/internal/progress"
)

func intp(n int) *int { return &n }

func TestApply_InsertAndUpdate(t *testing.T) {
	tr := progress.NewTracker()

	tr.Apply(models.JobEvent{VersionID: "v1", Stage: "ocr", Status: models.StatusQueued})
	require.Equal(t, 1, tr.Len())

	tr.Apply(models.JobEvent{
		VersionID: "v1", Stage: "ocr", Status: models.StatusRunning,
		Progress: intp(3), Total: intp(10),
	})

	snap := tr.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, models.StatusRunning, snap[0].Status)
	assert.Equal(t, 3, snap[0].Progress)
	assert.Equal(t, 10, snap[0].Total)
}

func TestApply_Idempotent(t *testing.T) {
	tr := progress.NewTracker()
	ev := models.JobEvent{
		VersionID: "v1", Stage: "ocr", Status: models.StatusRunning,
		Progress: intp(3), Total: intp(10),
	}
	tr.Apply(ev)
	tr.Apply(ev)

	snap := tr.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 3, snap[0].Progress)
	assert.Equal(t, 10, snap[0].Total)
}

func TestApply_PartialUpdateKeepsProgress(t *testing.T) {
	tr := progress.NewTracker()
	tr.Apply(models.JobEvent{
		VersionID: "v1", Stage: "embed", Status: models.StatusRunning,
		Progress: intp(7), Total: intp(20),
	})
	// Status-only event must not erase the recorded counts.
	tr.Apply(models.JobEvent{VersionID: "v1", Stage: "embed", Status: models.StatusRunning})

	snap := tr.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, 7, snap[0].Progress)
	assert.Equal(t, 20, snap[0].Total)
}

func TestApply_TerminalRemovesKey(t *testing.T) {
	tr := progress.NewTracker()
	tr.Apply(models.JobEvent{VersionID: "v1", Stage: "chunk", Status: models.StatusRunning})
	tr.Apply(models.JobEvent{VersionID: "v1", Stage: "chunk", Status: models.StatusDone})
	assert.Equal(t, 0, tr.Len())
}

func TestApply_TerminalWithoutPriorEntry(t *testing.T) {
	tr := progress.NewTracker()
	tr.Apply(models.JobEvent{VersionID: "v9", Stage: "finalize", Status: models.StatusError, Error: "boom"})
	assert.Equal(t, 0, tr.Len())
}

func TestApply_SeparateKeysPerStage(t *testing.T) {
	tr := progress.NewTracker()
	tr.Apply(models.JobEvent{VersionID: "v1", Stage: "extract", Status: models.StatusRunning})
	tr.Apply(models.JobEvent{VersionID: "v1", Stage: "ocr", Status: models.StatusQueued})
	tr.Apply(models.JobEvent{VersionID: "v2", Stage: "extract", Status: models.StatusQueued})
	assert.Equal(t, 3, tr.Len())

	tr.Apply(models.JobEvent{VersionID: "v1", Stage: "extract", Status: models.StatusDone})
	assert.Equal(t, 2, tr.Len())
}
