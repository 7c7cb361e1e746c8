package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axel-lord/spel-katalog-script/internal/command"
)

func TestNewConfig_Defaults(t *testing.T) {
	config, err := NewConfig(Config{ScriptsPath: "/tmp/scripts"})
	require.NoError(t, err)

	assert.Equal(t, "text", config.LogFormat)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, command.DefaultTimeout, config.Timeout)
}

func TestNewConfig_ExplicitValuesKept(t *testing.T) {
	config, err := NewConfig(Config{
		ScriptsPath: "/tmp/scripts",
		LogFormat:   "json",
		LogLevel:    "debug",
		Timeout:     time.Minute,
	})
	require.NoError(t, err)

	assert.Equal(t, "json", config.LogFormat)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, time.Minute, config.Timeout)
}

func TestNewConfig_RequiresScriptsPath(t *testing.T) {
	_, err := NewConfig(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ScriptsPath")
}

func TestNewConfig_RejectsNegativeTimeout(t *testing.T) {
	_, err := NewConfig(Config{ScriptsPath: "/tmp/scripts", Timeout: -time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}
