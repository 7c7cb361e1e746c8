package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/axel-lord/spel-katalog-script/internal/command"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ScriptsPath is a single script file or a directory searched for them.
	ScriptsPath string

	LogFormat string
	LogLevel  string

	// Timeout is the wall-clock limit per spawned process.
	Timeout time.Duration
}

// NewConfig validates a Config and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScriptsPath == "" {
		return nil, errors.New("ScriptsPath is a required configuration field and cannot be empty")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout cannot be negative, got %s", cfg.Timeout)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = command.DefaultTimeout
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}
