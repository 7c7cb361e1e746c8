package script

import (
	"testing"

	"github.com/axel-lord/spel-katalog-script/internal/command"
	"github.com/axel-lord/spel-katalog-script/internal/dependency"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHCL(t *testing.T) {
	hclSrc := `
script {
  id   = "install-dxvk"
  exec = "setup_dxvk"
  args = ["install"]
}

require {
  values = ["x86_64"]
  in     = ["x86_64", "aarch64"]
}

assert {
  script = "download-dxvk"
  try    = true
}

synced {
  cmd = "wineboot -u"
}

parallel {
  exec = "watcher"
  args = ["-v"]
}

env {
  vars = {
    WINEPREFIX = "/prefix"
  }
  unset     = ["DISPLAY"]
  unset_all = false
}
`
	tomlSrc := `
synced = ["wineboot -u"]
parallel = [{ exec = "watcher", args = ["-v"] }]

[script]
id = "install-dxvk"
exec = "setup_dxvk"
args = ["install"]

[[require]]
values = ["x86_64"]
in = ["x86_64", "aarch64"]

[[assert]]
script = "download-dxvk"
try = true

[env]
unset = ["DISPLAY"]
unset-all = false

[env.vars]
WINEPREFIX = "/prefix"
`

	fromHCL, err := Parse([]byte(hclSrc), FormatHCL)
	require.NoError(t, err)
	fromTOML, err := Parse([]byte(tomlSrc), FormatTOML)
	require.NoError(t, err)

	// The HCL form of a script means exactly what its TOML form means.
	assert.Empty(t, cmp.Diff(fromTOML, fromHCL, cmpopts.EquateEmpty()))
}

func TestParseHCLNumbersLowerToStrings(t *testing.T) {
	file, err := Parse([]byte(`
script {
  id = "bits"
}

require {
  value = 64
  in    = [32, 64]
}
`), FormatHCL)
	require.NoError(t, err)
	require.Len(t, file.Require, 1)
	assert.Equal(t, &dependency.In{Values: []string{"64"}, Collection: []string{"32", "64"}}, file.Require[0].Kind)
}

func TestParseHCLErrors(t *testing.T) {
	t.Run("malformed source", func(t *testing.T) {
		_, err := Parse([]byte(`script {`), FormatHCL)
		require.Error(t, err)
	})

	t.Run("duplicate script block", func(t *testing.T) {
		_, err := Parse([]byte("script {\n  id = \"a\"\n}\n\nscript {\n  id = \"b\"\n}\n"), FormatHCL)
		require.ErrorContains(t, err, "duplicate script block")
	})

	t.Run("unknown block", func(t *testing.T) {
		_, err := Parse([]byte("bogus {\n}\n"), FormatHCL)
		require.Error(t, err)
	})

	t.Run("cmd splits like the other formats", func(t *testing.T) {
		file, err := Parse([]byte("script {\n  id  = \"echo\"\n  cmd = \"echo 'Hello world!'\"\n}\n"), FormatHCL)
		require.NoError(t, err)
		assert.Equal(t, &command.Cmd{Words: []string{"echo", "Hello world!"}}, file.Script.Exec)
	})
}
