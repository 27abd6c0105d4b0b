// Package markdown inspects and minimally edits Markdown page bodies.
//
// Parsing goes through goldmark; edits are byte-range splices on the original
// source so authored documents keep their formatting.
package markdown

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Heading is an ATX or setext heading found in a body.
type Heading struct {
	Level int
	Text  string
	// LineStart is the byte offset of the line the heading starts on.
	LineStart int
	// First reports whether the heading is the first block of the document.
	First bool
}

func parse(body []byte) gmast.Node {
	return goldmark.New().Parser().Parse(text.NewReader(body))
}

// Headings returns the headings of body in document order. Headings inside
// code blocks and block quotes are not included.
func Headings(body []byte) []Heading {
	root := parse(body)
	var out []Heading
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*gmast.Heading)
		if !ok {
			continue
		}
		heading := Heading{
			Level: h.Level,
			Text:  plainText(h, body),
			First: n == root.FirstChild(),
		}
		if lines := h.Lines(); lines.Len() > 0 {
			heading.LineStart = lineStart(body, lines.At(0).Start)
		}
		out = append(out, heading)
	}
	return out
}

// Title returns the text of the leading level-1 heading, if the body opens
// with one.
func Title(body []byte) (string, bool) {
	hs := Headings(body)
	if len(hs) == 0 || !hs[0].First || hs[0].Level != 1 {
		return "", false
	}
	return hs[0].Text, true
}

// EnsureTitle prepends "# title" unless the body already opens with a
// level-1 heading.
func EnsureTitle(body []byte, title string) []byte {
	if _, ok := Title(body); ok {
		return body
	}
	out, _ := ApplyEdits(body, []Edit{{Start: 0, End: 0, Replacement: []byte("# " + title + "\n\n")}})
	return out
}

// InsertAnchors places an HTML anchor line before every top-level heading so
// the headings can be linked by id. Ids are slugs of the heading text, made
// unique within the body with a numeric suffix.
func InsertAnchors(body []byte) ([]byte, error) {
	seen := map[string]int{}
	var edits []Edit
	for _, h := range Headings(body) {
		id := Slug(h.Text)
		if id == "" {
			continue
		}
		if n := seen[id]; n > 0 {
			seen[id] = n + 1
			id = id + "-" + strconv.Itoa(n)
		} else {
			seen[id] = 1
		}
		edits = append(edits, Edit{Start: h.LineStart, End: h.LineStart, Replacement: []byte(Anchor(id) + "\n\n")})
	}
	return ApplyEdits(body, edits)
}

// Anchor returns the HTML anchor tag for id.
func Anchor(id string) string {
	return `<a id="` + id + `"></a>`
}

// Slug lowercases s, folds accented letters to their base letter and keeps
// letters, digits, dots, underscores and dashes. Runs of anything else become
// a single dash.
func Slug(s string) string {
	folded, _, err := transform.String(foldMarks(), s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(folded)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func plainText(n gmast.Node, source []byte) string {
	var b bytes.Buffer
	_ = gmast.Walk(n, func(child gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func lineStart(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.LastIndexByte(source[:offset], '\n') + 1
}

// foldMarks decomposes text and drops the combining marks. Transformers keep
// state, so each call gets a fresh chain.
func foldMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
