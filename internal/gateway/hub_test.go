package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/docgate/docgate-go/internal/models"
)

func TestHub(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	ch := hub.Subscribe()

	hub.Publish(models.JobEvent{VersionID: "v1", Stage: "ocr", Status: models.StatusRunning})

	select {
	case raw := <-ch:
		var ev models.JobEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("Broadcast payload is not a JSON job event: %v", err)
		}
		if ev.VersionID != "v1" || ev.Stage != "ocr" {
			t.Errorf("Client received wrong event: %+v", ev)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Client did not receive broadcast event in time")
	}

	// Unsubscribing closes the client channel.
	hub.Unsubscribe(ch)
	select {
	case _, open := <-ch:
		if open {
			t.Fatal("Expected channel to be closed after unsubscribe")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Channel was not closed after unsubscribe")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	ch := hub.Subscribe()
	// Fill the client's buffer without draining it.
	for i := 0; i < 20; i++ {
		hub.Publish(models.JobEvent{VersionID: "v1", Stage: "chunk", Status: models.StatusRunning})
	}

	// The hub must have closed the channel rather than stall.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, open := <-ch:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("Slow client was never dropped")
		}
	}
}
