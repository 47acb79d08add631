package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/classifier"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/scheduler"
)

// Config holds all server configuration.
// Priority: flags > env vars > settings.yaml > defaults.
type Config struct {
	LogLevel          string        `yaml:"log_level"`
	LogFormat         string        `yaml:"log_format"`
	Mode              string        `yaml:"mode"`
	EnabledWorkflows  []string      `yaml:"enabled_workflows"`
	SamplingMaxTokens int           `yaml:"sampling_max_tokens"`
	Transport         string        `yaml:"transport"`
	ListenAddr        string        `yaml:"listen_addr"`
	BaseURL           string        `yaml:"base_url"`
	DBPath            string        `yaml:"db_path"`
	HistoryRetention  time.Duration `yaml:"history_retention"`
	PruneSchedule     string        `yaml:"prune_schedule"`
	TraceStderr       bool          `yaml:"trace_stderr"`
}

const envPrefix = "XCODEBUILDMCP_"

func defaultConfig() Config {
	return Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Mode:              "dynamic",
		SamplingMaxTokens: classifier.DefaultMaxTokens,
		Transport:         "stdio",
		ListenAddr:        ":4110",
		HistoryRetention:  scheduler.DefaultRetention,
		PruneSchedule:     scheduler.DefaultSchedule,
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xcodebuildmcp"
	}
	return filepath.Join(home, ".xcodebuildmcp")
}

func settingsPath() string {
	return filepath.Join(configDir(), "settings.yaml")
}

// loadConfig layers the settings file and environment over the defaults.
// A missing settings file is not an error; a malformed one is.
func loadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		path = getenv(envPrefix + "CONFIG")
	}
	explicit := path != ""
	if !explicit {
		path = settingsPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("MODE", &cfg.Mode)
	str("TRANSPORT", &cfg.Transport)
	str("LISTEN_ADDR", &cfg.ListenAddr)
	str("BASE_URL", &cfg.BaseURL)
	str("DB_PATH", &cfg.DBPath)
	str("PRUNE_SCHEDULE", &cfg.PruneSchedule)

	if v := getenv(envPrefix + "ENABLED_WORKFLOWS"); v != "" {
		cfg.EnabledWorkflows = splitList(v)
	}
	if v := getenv(envPrefix + "SAMPLING_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sSAMPLING_MAX_TOKENS: %w", envPrefix, err)
		}
		cfg.SamplingMaxTokens = n
	}
	if v := getenv(envPrefix + "HISTORY_RETENTION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sHISTORY_RETENTION: %w", envPrefix, err)
		}
		cfg.HistoryRetention = d
	}
	if v := getenv(envPrefix + "TRACE_STDERR"); v != "" {
		cfg.TraceStderr = v == "true" || v == "1"
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// validate checks enumerated fields and fills derived ones.
func (c *Config) validate() error {
	switch c.Mode {
	case "dynamic", "static":
	default:
		return fmt.Errorf("mode must be dynamic or static, got %q", c.Mode)
	}
	switch c.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("transport must be stdio or sse, got %q", c.Transport)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if c.SamplingMaxTokens <= 0 {
		return fmt.Errorf("sampling_max_tokens must be positive, got %d", c.SamplingMaxTokens)
	}
	if c.HistoryRetention <= 0 {
		return fmt.Errorf("history_retention must be positive, got %s", c.HistoryRetention)
	}
	if _, err := scheduler.CalculateNextRun(c.PruneSchedule, time.Now()); err != nil {
		return fmt.Errorf("prune_schedule: %w", err)
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost" + c.ListenAddr
	}
	return nil
}
