package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings are the optional on-disk defaults for flags the user did not
// pass. Flags always win over settings, settings over built-in defaults.
type Settings struct {
	LogFormat string `yaml:"log-format"`
	LogLevel  string `yaml:"log-level"`

	// Timeout is a duration string such as "45s".
	Timeout string `yaml:"timeout"`
}

// LoadSettings reads a YAML settings file. Unknown keys are rejected so
// typos surface instead of silently doing nothing.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var settings Settings
	if err := decoder.Decode(&settings); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty settings file sets nothing.
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return &settings, nil
}
