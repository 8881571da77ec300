package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	separator = "---\n"
	closing   = "\n---\n"
)

// Note is a Markdown document with a YAML frontmatter block.
type Note struct {
	Meta map[string]any
	Body string
}

// Parse splits content into frontmatter and body. Content without frontmatter yields empty Meta.
func Parse(content string) (Note, error) {
	if !strings.HasPrefix(content, separator) {
		return Note{Meta: map[string]any{}, Body: content}, nil
	}
	rest := strings.TrimPrefix(content, separator)
	raw, body, found := strings.Cut(rest, closing)
	if !found {
		return Note{}, fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
		return Note{}, fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return Note{Meta: meta, Body: body}, nil
}

func (n Note) Render() (string, error) {
	raw, err := yaml.Marshal(n.Meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(n.Body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(n.Body)
	return buf.String(), nil
}

// String returns Meta[key] as a string, or "" when missing or not a string.
func (n Note) String(key string) string {
	s, _ := n.Meta[key].(string)
	return s
}

// Int returns Meta[key] as an int, or 0 when missing or not a whole number.
func (n Note) Int(key string) int {
	switch v := n.Meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return 0
}
