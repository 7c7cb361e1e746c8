package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/axel-lord/spel-katalog-script/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating if the program should exit cleanly, or
// an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("spel-katalog-script", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
spel-katalog-script - runs the catalog's per-game script batches.

Usage:
  spel-katalog-script [options] [SCRIPTS_PATH]

Arguments:
  SCRIPTS_PATH
    Path to a single script file or a directory containing .toml, .json
    or .hcl script files, run in lexical path order.

Options:
`)
		flagSet.PrintDefaults()
	}

	scriptsFlag := flagSet.String("scripts", "", "Path to the script file or directory.")
	settingsFlag := flagSet.String("settings", "", "Path to an optional YAML settings file.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Wall-clock limit per spawned process. 0 uses the default of 30s.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *scriptsFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	// Settings fill in whatever the flags left unset.
	logFormat, logLevel, timeout := *logFormatFlag, *logLevelFlag, *timeoutFlag
	if *settingsFlag != "" {
		settings, err := app.LoadSettings(*settingsFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		if logFormat == "" {
			logFormat = settings.LogFormat
		}
		if logLevel == "" {
			logLevel = settings.LogLevel
		}
		if timeout == 0 && settings.Timeout != "" {
			timeout, err = time.ParseDuration(settings.Timeout)
			if err != nil {
				return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid timeout in settings: %v", err)}
			}
		}
	}

	logFormat = strings.ToLower(logFormat)
	if logFormat != "" && logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel = strings.ToLower(logLevel)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ScriptsPath: path,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		Timeout:     timeout,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
