package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitCard(t *testing.T) {
	input := []byte("---\ntitle: Daily killer\npuzzle: N4IgzglgXgpiBcBOANCA5gJwgEwQbT2AF9ljSSzKLryBdJAFzAAt4RCg===\n---\n# Daily killer\n\nNotes\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "# Daily killer\n\nNotes\n", string(body))

	fields, err := ParseYAML(fm)
	require.NoError(t, err)
	require.Equal(t, "Daily killer", fields["title"])
	require.Contains(t, fields["puzzle"], "N4Igzg")
}

func TestSplitNoFrontmatter(t *testing.T) {
	input := []byte("# Just a title\n\nBody\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplitEmptyFrontmatter(t *testing.T) {
	fm, body, had, err := Split([]byte("---\n---\nBody\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, "Body\n", string(body))
}

func TestSplitWindowsNewlines(t *testing.T) {
	fm, body, had, err := Split([]byte("---\r\npuzzle: abc\r\n---\r\nBody\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "puzzle: abc\r\n", string(fm))
	require.Equal(t, "Body\r\n", string(body))
}

func TestSplitUnterminated(t *testing.T) {
	_, _, _, err := Split([]byte("---\npuzzle: abc\n"))
	require.ErrorIs(t, err, ErrUnterminated)
}

func TestParseYAMLEmpty(t *testing.T) {
	fields, err := ParseYAML(nil)
	require.NoError(t, err)
	require.NotNil(t, fields)
	require.Empty(t, fields)
}

func TestParseYAMLInvalid(t *testing.T) {
	_, err := ParseYAML([]byte("title: [unclosed\n"))
	require.Error(t, err)
}
