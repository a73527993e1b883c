package gateway

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/docgate/docgate-go/internal/models"
)

// Stage order mirrors the real ingestion worker.
var pipelineStages = []string{"extract", "ocr", "chunk", "embed", "finalize"}

// Pipeline simulates document ingestion runs and publishes their progress
// to the hub, so a client connected to the stream sees realistic traffic.
type Pipeline struct {
	hub       *Hub
	stepDelay time.Duration

	mu   sync.Mutex
	docs []models.Document
	runs int
}

// NewPipeline creates a runner. stepDelay throttles event emission so the
// stream is watchable by a human; tests shrink it.
func NewPipeline(hub *Hub) *Pipeline {
	return &Pipeline{hub: hub, stepDelay: 200 * time.Millisecond}
}

// SetStepDelay overrides the pause between emitted events.
func (p *Pipeline) SetStepDelay(d time.Duration) { p.stepDelay = d }

// Documents returns the fake document listing built up by past runs.
func (p *Pipeline) Documents() []models.Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Document(nil), p.docs...)
}

// Schedule starts periodic runs on the given cadence, plus one immediately.
func (p *Pipeline) Schedule(interval time.Duration) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	if _, err := s.Every(interval).Do(p.RunOnce); err != nil {
		log.Printf("Error scheduling pipeline runs: %v", err)
	}

	log.Printf("Scheduling a fake ingestion run every %s", interval)
	s.StartAsync()
	go p.RunOnce()
	return s
}

// RunOnce walks one new document version through every stage, emitting
// queued/running/done events. Every fourth run fails at the OCR stage to
// exercise the error path.
func (p *Pipeline) RunOnce() {
	versionID := uuid.NewString()

	p.mu.Lock()
	p.runs++
	failOCR := p.runs%4 == 0
	p.docs = append(p.docs, models.Document{
		ID:        newID(),
		Title:     fmt.Sprintf("Document %d", p.runs),
		VersionID: versionID,
		Status:    "processing",
	})
	idx := len(p.docs) - 1
	p.mu.Unlock()

	log.Printf("Starting fake ingestion run for version %s", versionID)
	for _, stage := range pipelineStages {
		if !p.runStage(versionID, stage, failOCR && stage == "ocr") {
			p.setDocStatus(idx, "failed")
			return
		}
	}
	p.setDocStatus(idx, "ready")
}

func (p *Pipeline) setDocStatus(idx int, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.docs[idx].Status = status
}

// runStage emits the event sequence for one stage and reports whether the
// run should continue.
func (p *Pipeline) runStage(versionID, stage string, fail bool) bool {
	p.emit(models.JobEvent{VersionID: versionID, Stage: stage, Status: models.StatusQueued})

	total := 5
	for i := 1; i <= total; i++ {
		if fail && i == 3 {
			p.emit(models.JobEvent{
				VersionID: versionID,
				Stage:     stage,
				Status:    models.StatusError,
				Error:     "simulated OCR failure",
			})
			return false
		}
		progress := i
		p.emit(models.JobEvent{
			VersionID: versionID,
			Stage:     stage,
			Status:    models.StatusRunning,
			Progress:  &progress,
			Total:     &total,
		})
	}

	p.emit(models.JobEvent{VersionID: versionID, Stage: stage, Status: models.StatusDone})
	return true
}

func (p *Pipeline) emit(ev models.JobEvent) {
	p.hub.Publish(ev)
	time.Sleep(p.stepDelay)
}
