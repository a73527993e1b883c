package gateway_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgate/docgate-go/internal/client"
	"github.com/docgate/docgate-go/internal/models"
	"github.com/docgate/docgate-go/internal/progress"
	"github.com/docgate/docgate-go/internal/session"
	"github.com/docgate/docgate-go/internal/stream"
	"github.com/docgate/docgate-go/internal/testutil"
)

// End-to-end: login through the REST client, watch the stream with the
// consumer, fold events with the tracker, and confirm the snapshot drains
// once every stage reaches a terminal status.
func TestClientStreamTrackerRoundTrip(t *testing.T) {
	gw := testutil.SetupGateway(t)

	broker := session.New()
	c := client.New(gw.URL, broker)
	_, err := c.Login(context.Background(), testutil.AdminEmail, testutil.AdminPassword)
	require.NoError(t, err)

	tracker := progress.NewTracker()
	var sawRunning atomic.Bool
	consumer := stream.New(gw.URL+"/api/jobs/stream", broker, stream.WithReconnectDelay(50*time.Millisecond))
	consumer.Subscribe(func(ev models.JobEvent) {
		if ev.Status == models.StatusRunning {
			sawRunning.Store(true)
		}
		tracker.Apply(ev)
	})
	consumer.Start()
	defer consumer.Stop()

	// Give the consumer a moment to connect before traffic starts.
	time.Sleep(100 * time.Millisecond)
	gw.Server.Pipeline().RunOnce()

	require.Eventually(t, func() bool {
		return sawRunning.Load() && tracker.Len() == 0
	}, 5*time.Second, 20*time.Millisecond,
		"all stages should reach a terminal status and leave the snapshot")

	var docs []models.Document
	require.NoError(t, c.Get(context.Background(), "/api/documents", &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "ready", docs[0].Status)
}
