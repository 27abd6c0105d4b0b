package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NoBlock(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	p, err := Parse(input)
	require.NoError(t, err)
	require.False(t, p.HasBlock)
	require.Empty(t, p.Fields)
	require.Equal(t, input, p.Body)
}

func TestParse_SplitsFieldsAndBody(t *testing.T) {
	p, err := Parse([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, p.HasBlock)
	require.Equal(t, "value", p.Fields["key"])
	require.Equal(t, []byte("# Title\n"), p.Body)
}

func TestParse_Unterminated(t *testing.T) {
	_, err := Parse([]byte("---\nkey: value\n# Title\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnterminated))
}

func TestParse_CRLF(t *testing.T) {
	p, err := Parse([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.Equal(t, "\r\n", p.Newline)
	require.Equal(t, "value", p.Fields["key"])
	require.Equal(t, []byte("# Title\r\n"), p.Body)
}

func TestParse_EmptyBlock(t *testing.T) {
	p, err := Parse([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, p.HasBlock)
	require.Empty(t, p.Fields)
	require.Equal(t, []byte("# Title\n"), p.Body)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("---\n: not yaml\n---\nbody\n"))
	require.Error(t, err)
}

func TestBytes_RoundTrip(t *testing.T) {
	cases := []string{
		"# Title\n\nHello\n",
		"---\nkey: value\n---\n# Title\n",
		"---\r\nkey: value\r\n---\r\n# Title\r\n",
	}
	for _, input := range cases {
		p, err := Parse([]byte(input))
		require.NoError(t, err)
		out, err := p.Bytes()
		require.NoError(t, err)
		assert.Equal(t, input, string(out))
	}
}

func TestBytes_AddsBlockWhenFieldsSet(t *testing.T) {
	p, err := Parse([]byte("# Title\n"))
	require.NoError(t, err)
	p.Fields["title"] = "Home"

	out, err := p.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Home\n---\n# Title\n", string(out))
}

func TestSerialize_SortedAndNested(t *testing.T) {
	out, err := Serialize(map[string]any{
		"b":    1,
		"a":    "x",
		"tags": []string{"one", "two"},
		"meta": map[string]any{"ok": true, "inner": nil},
	}, "\n")
	require.NoError(t, err)
	assert.Equal(t, "a: x\nb: 1\nmeta:\n  inner: null\n  ok: true\ntags:\n  - one\n  - two\n", string(out))
}

func TestSerialize_Empty(t *testing.T) {
	out, err := Serialize(nil, "\n")
	require.NoError(t, err)
	assert.Empty(t, out)
}
