// Package frontmatter reads and writes the YAML front matter block of a
// Markdown page and maintains the generated fields (title, uid, fingerprint).
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrUnterminated is returned for a document that opens a front matter block
// but never closes it.
var ErrUnterminated = errors.New("front matter opening delimiter without closing delimiter")

const delimiter = "---"

// Page is a Markdown page split into front matter fields and body.
type Page struct {
	Fields map[string]any
	Body   []byte
	// HasBlock reports whether the source carried a front matter block.
	HasBlock bool
	// Newline is the line ending detected in the source ("\n" or "\r\n").
	Newline string
}

// Parse splits content into a Page. Content without a leading delimiter line
// is all body.
func Parse(content []byte) (*Page, error) {
	p := &Page{Fields: map[string]any{}, Newline: detectNewline(content)}
	raw, body, found, err := split(content, p.Newline)
	if err != nil {
		return nil, err
	}
	p.Body, p.HasBlock = body, found
	if len(raw) == 0 {
		return p, nil
	}
	if err := yaml.Unmarshal(raw, &p.Fields); err != nil {
		return nil, err
	}
	if p.Fields == nil {
		p.Fields = map[string]any{}
	}
	return p, nil
}

// Bytes renders the page. A block is emitted when the source had one or when
// any field is set.
func (p *Page) Bytes() ([]byte, error) {
	if !p.HasBlock && len(p.Fields) == 0 {
		return p.Body, nil
	}
	nl := p.Newline
	if nl == "" {
		nl = "\n"
	}
	raw, err := Serialize(p.Fields, nl)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(raw) + len(p.Body) + 2*(len(delimiter)+len(nl)))
	buf.WriteString(delimiter + nl)
	buf.Write(raw)
	buf.WriteString(delimiter + nl)
	buf.Write(p.Body)
	return buf.Bytes(), nil
}

func split(content []byte, nl string) (raw, body []byte, found bool, err error) {
	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}
	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return nil, rest[len(open):], true, nil
	}
	closing := []byte(nl + delimiter + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		return nil, nil, false, ErrUnterminated
	}
	return rest[:idx+len(nl)], rest[idx+len(closing):], true, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
