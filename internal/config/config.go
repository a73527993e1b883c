// This file defines the configuration structure for the client tooling.
package config

import (
	// use Viper for loading the config.yml file.
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all settings for the client and the mock gateway.
// It maps directly to the structure of config.yml.
type Config struct {
	Gateway struct {
		URL        string `mapstructure:"url"`
		AuthPath   string `mapstructure:"auth_path"`
		StreamPath string `mapstructure:"stream_path"`
	} `mapstructure:"gateway"`
	HTTP struct {
		Timeout int `mapstructure:"timeout"` // seconds
	} `mapstructure:"http"`
	Stream struct {
		ReconnectDelay int `mapstructure:"reconnect_delay"` // seconds
	} `mapstructure:"stream"`
	// Settings below only matter to the mock gateway binary.
	Port int `mapstructure:"port"`
	Auth struct {
		AccessTTL  int `mapstructure:"access_ttl"`  // minutes
		RefreshTTL int `mapstructure:"refresh_ttl"` // days
	} `mapstructure:"auth"`
	Pipeline struct {
		Interval int `mapstructure:"interval"` // seconds between fake runs
	} `mapstructure:"pipeline"`
}

// ReconnectDelay returns the stream reconnect delay as a duration.
func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.Stream.ReconnectDelay) * time.Second
}

// HTTPTimeout returns the per-request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.Timeout) * time.Second
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or "yaml"
	viper.AddConfigPath(".")      // looking for config in the current directory

	// --- Environment Variable Overrides ---
	// e.g. DOCGATE_GATEWAY_URL overrides the `gateway.url` key.
	viper.SetEnvPrefix("DOCGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("gateway.url", "http://localhost:8000")
	viper.SetDefault("gateway.auth_path", "/api/auth")
	viper.SetDefault("gateway.stream_path", "/api/jobs/stream")
	viper.SetDefault("http.timeout", 20)
	viper.SetDefault("stream.reconnect_delay", 3)
	viper.SetDefault("port", 8000)
	viper.SetDefault("auth.access_ttl", 15)
	viper.SetDefault("auth.refresh_ttl", 7)
	viper.SetDefault("pipeline.interval", 30)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
