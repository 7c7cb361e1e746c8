// Package testutil holds shared helpers for tests that need script files
// on disk.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteScript writes a script file with the given name into dir and returns
// its path. The format is carried by the name's extension.
func WriteScript(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}
