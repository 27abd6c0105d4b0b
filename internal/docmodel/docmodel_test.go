package docmodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
)

const sampleYAML = `
- name: pkg
  docstring: Top level package.
  members:
    - kind: class
      name: Client
      docstring: Talks to the server.
      members:
        - kind: function
          name: connect
          signature: '(self, addr: str) -> None'
- name: pkg.util
  members:
    - kind: data
      name: TIMEOUT
      datatype: int
      value: "30"
`

func TestParse_YAML(t *testing.T) {
	modules, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, modules, 2)

	assert.Equal(t, "pkg", modules[0].Name)
	assert.Equal(t, KindClass, modules[0].Members[0].Kind)
	assert.Equal(t, "(self, addr: str) -> None", modules[0].Members[0].Members[0].Signature)
	assert.Equal(t, 3, modules[0].Count())
	assert.Equal(t, "int", modules[1].Members[0].Datatype)
}

func TestParse_JSON(t *testing.T) {
	modules, err := Parse([]byte(`[{"name": "a", "members": [{"kind": "function", "name": "f"}]}]`))
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, KindFunction, modules[0].Members[0].Kind)
}

func TestParse_RejectsNamelessModule(t *testing.T) {
	_, err := Parse([]byte(`[{"docstring": "x"}]`))
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
}

func TestParse_RejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("name: [unterminated"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	modules, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, modules, 2)

	modules, err = Load("")
	require.NoError(t, err)
	assert.Empty(t, modules)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryNotFound))
}
