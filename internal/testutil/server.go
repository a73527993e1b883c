// Shared test fixtures: a mock gateway wired up behind httptest, which
// simplifies the client and stream integration tests.

package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docgate/docgate-go/internal/auth"
	"github.com/docgate/docgate-go/internal/config"
	"github.com/docgate/docgate-go/internal/gateway"
)

// AdminEmail and AdminPassword are the fixture gateway's only account.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "test-password"
)

// Gateway bundles a running mock gateway with its base URL.
type Gateway struct {
	Server *gateway.Server
	URL    string
}

// SetupGateway starts a mock gateway on an httptest listener. The pipeline
// is not scheduled; tests publish events through Server.Hub() or trigger
// Server.Pipeline().RunOnce() themselves.
func SetupGateway(t *testing.T) *Gateway {
	t.Helper()

	cfg := &config.Config{}
	cfg.Auth.AccessTTL = 15
	cfg.Auth.RefreshTTL = 1

	hash, err := auth.HashPassword(AdminPassword)
	if err != nil {
		t.Fatalf("Failed to hash fixture password: %v", err)
	}

	srv := gateway.NewServer(cfg, AdminEmail, hash)
	srv.Pipeline().SetStepDelay(time.Millisecond)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &Gateway{Server: srv, URL: ts.URL}
}
