// mockgateway runs a local stand-in for the ingestion gateway: login,
// refresh, logout, a document listing, and the job-progress stream fed by
// fake pipeline runs. Point jobwatch (or any client) at it.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/docgate/docgate-go/internal/auth"
	"github.com/docgate/docgate-go/internal/config"
	"github.com/docgate/docgate-go/internal/gateway"
)

const adminEmail = "admin@example.com"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fatal error loading configuration: %v", err)
	}

	// --- Admin Account Provisioning ---
	password := os.Getenv("DOCGATE_ADMIN_PASSWORD")
	if password == "" {
		password = auth.GeneratePassword(12)
		log.Println("==================================================")
		log.Printf("Admin account: %s", adminEmail)
		log.Printf("Password: %s", password)
		log.Println("==================================================")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Could not hash admin password: %v", err)
	}

	srv := gateway.NewServer(cfg, adminEmail, hash)

	// Keep the stream busy with fake ingestion runs.
	scheduler := srv.Pipeline().Schedule(time.Duration(cfg.Pipeline.Interval) * time.Second)
	defer scheduler.Stop()

	addr := fmt.Sprintf(":%d", cfg.Port)
	if err := srv.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not start server: %v", err)
	}
}
