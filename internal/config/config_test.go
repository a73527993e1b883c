// This test file verifies the configuration loading logic using Viper.

package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults when no config file", func(t *testing.T) {
		// Ensure no config file exists for this test
		os.Remove("config.yml")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		// Check if default values are set
		if cfg.Gateway.URL != "http://localhost:8000" {
			t.Errorf("Expected default gateway URL, got '%s'", cfg.Gateway.URL)
		}
		if cfg.Gateway.StreamPath != "/api/jobs/stream" {
			t.Errorf("Expected default stream path, got '%s'", cfg.Gateway.StreamPath)
		}
		if cfg.Stream.ReconnectDelay != 3 {
			t.Errorf("Expected default reconnect delay 3, got %d", cfg.Stream.ReconnectDelay)
		}
		if cfg.ReconnectDelay() != 3*time.Second {
			t.Errorf("Expected 3s reconnect delay, got %v", cfg.ReconnectDelay())
		}
		if cfg.HTTPTimeout() != 20*time.Second {
			t.Errorf("Expected 20s http timeout, got %v", cfg.HTTPTimeout())
		}
	})

	t.Run("Loads from config file", func(t *testing.T) {
		// Create a temporary config file for this test
		configContent := `
gateway:
  url: "https://gw.example.com"
  stream_path: "/api/v2/jobs/stream"
stream:
  reconnect_delay: 10
unknown_setting: "should be ignored"
`
		// Create the config file in the current directory so Viper can find it.
		// Note: `t.TempDir()` is not used here because Viper looks in the CWD.
		configPath := "config.yml"
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write test config file: %v", err)
		}
		// Clean up the file after the test
		defer os.Remove(configPath)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned an error: %v", err)
		}

		// Check if values from the file were loaded
		if cfg.Gateway.URL != "https://gw.example.com" {
			t.Errorf("Expected gateway URL from file, got '%s'", cfg.Gateway.URL)
		}
		if cfg.Gateway.StreamPath != "/api/v2/jobs/stream" {
			t.Errorf("Expected stream path from file, got '%s'", cfg.Gateway.StreamPath)
		}
		if cfg.Stream.ReconnectDelay != 10 {
			t.Errorf("Expected reconnect delay 10, got %d", cfg.Stream.ReconnectDelay)
		}
		if cfg.Gateway.AuthPath != "/api/auth" {
			t.Errorf("Expected default auth path, got '%s'", cfg.Gateway.AuthPath)
		}
	})
}
