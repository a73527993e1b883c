// jobwatch: log in to the gateway, follow the job-progress stream, and
// print the set of in-flight pipeline stages as it changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/docgate/docgate-go/internal/client"
	"github.com/docgate/docgate-go/internal/config"
	"github.com/docgate/docgate-go/internal/models"
	"github.com/docgate/docgate-go/internal/progress"
	"github.com/docgate/docgate-go/internal/session"
	"github.com/docgate/docgate-go/internal/stream"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags)

	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	flag.Parse()
	if *email == "" || *password == "" {
		log.Fatal("Usage: jobwatch -email <email> -password <password>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Fatal error loading configuration: %v", err)
	}

	broker := session.New()
	broker.Configure(nil, nil, func() {
		log.Println("Session expired; log in again.")
	})

	c := client.New(cfg.Gateway.URL, broker,
		client.WithAuthPath(cfg.Gateway.AuthPath),
		client.WithTimeout(cfg.HTTPTimeout()),
	)

	ctx := context.Background()
	login, err := c.Login(ctx, *email, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	log.Printf("Logged in as %s (%s)", login.User.Email, login.User.Role)

	tracker := progress.NewTracker()
	consumer := stream.New(cfg.Gateway.URL+cfg.Gateway.StreamPath, broker,
		stream.WithReconnectDelay(cfg.ReconnectDelay()),
	)
	consumer.Subscribe(func(ev models.JobEvent) {
		tracker.Apply(ev)
		render(ev, tracker.Snapshot())
	})
	consumer.Start()
	log.Printf("Watching %s%s (reconnect delay %s)", cfg.Gateway.URL, cfg.Gateway.StreamPath, cfg.ReconnectDelay())

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	consumer.Stop()

	logoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Logout(logoutCtx); err != nil {
		log.Printf("Warning: logout failed: %v", err)
	}
	log.Println("Bye.")
}

// render prints the triggering event and the jobs still in flight.
func render(ev models.JobEvent, jobs []models.ActiveJob) {
	switch {
	case ev.Status == models.StatusError:
		log.Printf("version %s stage %s FAILED: %s", ev.VersionID, ev.Stage, ev.Error)
	case ev.Status == models.StatusDone:
		log.Printf("version %s stage %s done", ev.VersionID, ev.Stage)
	}

	if len(jobs) == 0 {
		log.Println("No jobs in flight.")
		return
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].VersionID != jobs[j].VersionID {
			return jobs[i].VersionID < jobs[j].VersionID
		}
		return jobs[i].Stage < jobs[j].Stage
	})
	for _, job := range jobs {
		line := fmt.Sprintf("  %s %-10s %s", job.VersionID, job.Stage, job.Status)
		if job.Total > 0 {
			line += fmt.Sprintf(" (%d/%d)", job.Progress, job.Total)
		}
		log.Println(line)
	}
}
