package script

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Format selects the serialization of a script file.
type Format int

const (
	// FormatTOML is the structured-table format.
	FormatTOML Format = iota

	// FormatJSON is the structured-object format.
	FormatJSON

	// FormatHCL is the block format shared with the rest of the catalog's
	// configuration.
	FormatHCL
)

// UnknownExtensionError reports a script-file path whose extension maps to
// no supported format.
type UnknownExtensionError struct {
	Ext string
}

// Error implements the error interface for UnknownExtensionError.
func (e *UnknownExtensionError) Error() string {
	return fmt.Sprintf("unknown script file extension %q", e.Ext)
}

// Extensions lists the recognized script-file extensions.
func Extensions() []string {
	return []string{".toml", ".json", ".hcl"}
}

// FormatForPath chooses the format from a path's extension.
func FormatForPath(path string) (Format, error) {
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return 0, &UnknownExtensionError{Ext: ext}
	}
}

// Parse decodes data in the given format. Malformed input fails as a whole;
// there is no partial parse.
func Parse(data []byte, format Format) (*File, error) {
	switch format {
	case FormatTOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		return fileFromRaw(raw)

	case FormatJSON:
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		return fileFromRaw(raw)

	case FormatHCL:
		return parseHCL(data, "script.hcl")

	default:
		return nil, fmt.Errorf("unsupported script file format %d", format)
	}
}

// Load reads and parses the script file at path, choosing the format from
// the extension and attaching the path for diagnostics.
func Load(path string) (*File, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script file: %w", err)
	}

	file, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	file.Path = path
	return file, nil
}
