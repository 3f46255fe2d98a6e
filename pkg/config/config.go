package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration.
// Every field has a default, so running without a config file reproduces the
// stock behavior: poll OpenSky every 10 seconds and serve on :8080.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	OpenSky OpenSkyConfig `json:"opensky" yaml:"opensky"`
	Polling PollingConfig `json:"polling" yaml:"polling"`
	Map     MapConfig     `json:"map" yaml:"map"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port string `json:"port" yaml:"port"`

	// Host is the server bind address (default: "0.0.0.0")
	Host string `json:"host" yaml:"host"`

	// TLSEnabled determines if HTTPS should be used
	TLSEnabled bool `json:"tls_enabled" yaml:"tls_enabled"`

	// TLSCertFile is the path to the TLS certificate
	TLSCertFile string `json:"tls_cert_file" yaml:"tls_cert_file"`

	// TLSKeyFile is the path to the TLS private key
	TLSKeyFile string `json:"tls_key_file" yaml:"tls_key_file"`
}

// OpenSkyConfig contains telemetry API settings.
type OpenSkyConfig struct {
	// BaseURL is the REST API root (default: https://opensky-network.org/api)
	BaseURL string `json:"base_url" yaml:"base_url"`

	// TimeoutSeconds bounds each request (default: 10)
	TimeoutSeconds float64 `json:"timeout_seconds" yaml:"timeout_seconds"`

	// MinRequestIntervalSeconds is the minimum time between API calls
	// 0 = default (5 seconds), <0 = no limit
	MinRequestIntervalSeconds float64 `json:"min_request_interval_seconds" yaml:"min_request_interval_seconds"`
}

// PollingConfig controls the telemetry poller.
type PollingConfig struct {
	// IntervalSeconds is how often to fetch a new snapshot (default: 10)
	IntervalSeconds int `json:"interval_seconds" yaml:"interval_seconds"`
}

// MapConfig describes the base map shown by the web client.
type MapConfig struct {
	// TileURL is a Leaflet tile URL template
	TileURL string `json:"tile_url" yaml:"tile_url"`

	// Attribution is the fixed tile attribution text
	Attribution string `json:"attribution" yaml:"attribution"`

	// CenterLatitude/CenterLongitude is the initial view center
	CenterLatitude  float64 `json:"center_latitude" yaml:"center_latitude"`
	CenterLongitude float64 `json:"center_longitude" yaml:"center_longitude"`

	// InitialZoom, MinZoom and MaxZoom are Leaflet zoom levels
	InitialZoom int `json:"initial_zoom" yaml:"initial_zoom"`
	MinZoom     int `json:"min_zoom" yaml:"min_zoom"`
	MaxZoom     int `json:"max_zoom" yaml:"max_zoom"`
}

// LoggingConfig controls where log output goes.
type LoggingConfig struct {
	// File is a log file path; empty means stderr for the server.
	// Terminal clients always log to a file and fall back to DefaultLogFile.
	File string `json:"file" yaml:"file"`

	// MaxSizeMB is the size at which the file is rotated (default: 32)
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is how many rotated files to keep (default: 3)
	MaxBackups int `json:"max_backups" yaml:"max_backups"`

	// MaxAgeDays removes rotated files older than this (0 = keep)
	MaxAgeDays int `json:"max_age_days" yaml:"max_age_days"`

	// Compress gzips rotated files
	Compress bool `json:"compress" yaml:"compress"`
}

// DefaultLogFile is used by the terminal clients when Logging.File is empty.
const DefaultLogFile = "logs/routescope.log"

// Load reads configuration from a JSON or YAML file.
// Files ending in .yaml or .yml are parsed as YAML, anything else as JSON.
// Fields missing from the file keep their defaults.
// If the file doesn't exist, returns a default configuration.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.applyEnvironmentOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Override with environment variables
	cfg.applyEnvironmentOverrides()

	return cfg, nil
}

// Save writes the configuration to a file, as YAML or JSON by extension.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       "8080",
			Host:       "0.0.0.0",
			TLSEnabled: false,
		},
		OpenSky: OpenSkyConfig{
			BaseURL:                   "https://opensky-network.org/api",
			TimeoutSeconds:            10,
			MinRequestIntervalSeconds: 5,
		},
		Polling: PollingConfig{
			IntervalSeconds: 10,
		},
		Map: MapConfig{
			TileURL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution:     "&copy; OpenStreetMap contributors",
			CenterLatitude:  39.5,
			CenterLongitude: -98.35,
			InitialZoom:     4,
			MinZoom:         2,
			MaxZoom:         12,
		},
		Logging: LoggingConfig{
			MaxSizeMB:  32,
			MaxBackups: 3,
			MaxAgeDays: 0,
			Compress:   false,
		},
	}
}

// Validate checks the configuration for values the services cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Server.TLSEnabled && (c.Server.TLSCertFile == "" || c.Server.TLSKeyFile == "") {
		return fmt.Errorf("server.tls_cert_file and server.tls_key_file are required when TLS is enabled")
	}
	u, err := url.Parse(c.OpenSky.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("opensky.base_url %q is not an absolute URL", c.OpenSky.BaseURL)
	}
	if c.OpenSky.TimeoutSeconds < 0 {
		return fmt.Errorf("opensky.timeout_seconds must not be negative")
	}
	if c.Polling.IntervalSeconds <= 0 {
		return fmt.Errorf("polling.interval_seconds must be positive, got %d", c.Polling.IntervalSeconds)
	}
	if c.Map.MinZoom > c.Map.MaxZoom {
		return fmt.Errorf("map.min_zoom (%d) exceeds map.max_zoom (%d)", c.Map.MinZoom, c.Map.MaxZoom)
	}
	return nil
}

// Addr returns the host:port the HTTP server should bind.
func (cfg *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
}

// PollInterval returns the poll interval as a duration.
func (cfg *PollingConfig) PollInterval() time.Duration {
	return time.Duration(cfg.IntervalSeconds) * time.Second
}

// HTTPTimeout returns the request timeout as a duration.
func (cfg *OpenSkyConfig) HTTPTimeout() time.Duration {
	return time.Duration(cfg.TimeoutSeconds * float64(time.Second))
}

// MinRequestInterval returns the limiter spacing as a duration.
// Negative values are passed through to disable limiting.
func (cfg *OpenSkyConfig) MinRequestInterval() time.Duration {
	return time.Duration(cfg.MinRequestIntervalSeconds * float64(time.Second))
}

// LogFileOrDefault returns the configured log file or DefaultLogFile.
func (cfg *LoggingConfig) LogFileOrDefault() string {
	if cfg.File != "" {
		return cfg.File
	}
	return DefaultLogFile
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if port := os.Getenv("ROUTESCOPE_PORT"); port != "" {
		c.Server.Port = port
	}
	if apiURL := os.Getenv("ROUTESCOPE_OPENSKY_URL"); apiURL != "" {
		c.OpenSky.BaseURL = apiURL
	}
	if logFile := os.Getenv("ROUTESCOPE_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}
}
