// Package frontmatter splits YAML frontmatter from Markdown puzzle
// cards. Cards arrive from mirrored pack repositories, so both Unix
// and Windows newline styles are accepted.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrUnterminated indicates a card opened a frontmatter block without
// closing it.
var ErrUnterminated = errors.New("frontmatter opened but never closed")

// Split separates `---` delimited YAML frontmatter from the Markdown
// body. When the card has no frontmatter, had is false and body is the
// full input. The returned frontmatter keeps its trailing newline.
func Split(content []byte) (fm, body []byte, had bool, err error) {
	nl := newlineStyle(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		// Opened and immediately closed.
		return []byte{}, rest[len(open):], true, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		return nil, nil, false, ErrUnterminated
	}
	return rest[: idx+len(nl) : idx+len(nl)], rest[idx+len(closing):], true, nil
}

// ParseYAML decodes raw frontmatter (without the `---` delimiters)
// into a field map. Empty input yields an empty map.
func ParseYAML(fm []byte) (map[string]any, error) {
	var fields map[string]any
	if len(fm) > 0 {
		if err := yaml.Unmarshal(fm, &fields); err != nil {
			return nil, err
		}
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func newlineStyle(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
