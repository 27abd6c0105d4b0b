// Package pagegen is the Markdown page generator used by the render
// orchestrator. It turns a static document or a module selection into the
// text of one page and writes it to the resolved output path.
package pagegen

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/docwiki/internal/frontmatter"
	"git.home.luguber.info/inful/docwiki/internal/markdown"
	"git.home.luguber.info/inful/docwiki/internal/render"
)

// Markdown implements render.PageGenerator.
type Markdown struct {
	fileMode fs.FileMode
}

var _ render.PageGenerator = (*Markdown)(nil)

// New returns a generator writing pages with mode 0644.
func New() *Markdown {
	return &Markdown{fileMode: 0o644}
}

// RenderDocument copies document, resolved against the context directory, to
// the page. Its own front matter is kept; a leading "# <title>" is added when
// the document does not open with a level-1 heading.
func (m *Markdown) RenderDocument(req render.PageRequest, document string) error {
	src := document
	if !filepath.IsAbs(src) {
		src = filepath.Join(req.Options.ContextDirectory, src)
	}
	data, err := os.ReadFile(src)
	if errors.Is(err, fs.ErrNotExist) {
		return derrors.NotFoundError("page source document not found").
			WithContext("document", document).
			WithContext("path", src).
			Build()
	}
	if err != nil {
		return err
	}

	page, err := frontmatter.Parse(data)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryValidation, "parse document front matter").
			WithContext("path", src).
			Build()
	}
	page.Body = markdown.EnsureTitle(page.Body, req.Page.Title)
	if req.Options.InsertHeaderAnchors {
		if page.Body, err = markdown.InsertAnchors(page.Body); err != nil {
			return err
		}
	}
	return m.write(req, page)
}

// RenderModules writes the modules whose names match any of selectors.
func (m *Markdown) RenderModules(req render.PageRequest, selectors []string) error {
	selected, err := Select(req.Modules, selectors)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteString("# " + req.Page.Title + "\n")
	w := moduleWriter{buf: &buf, anchors: req.Options.InsertHeaderAnchors, typehint: req.Options.RenderTypehint}
	for _, mod := range selected {
		w.module(mod)
	}
	return m.write(req, &frontmatter.Page{Fields: map[string]any{}, Body: buf.Bytes(), Newline: "\n"})
}

func (m *Markdown) write(req render.PageRequest, page *frontmatter.Page) error {
	page.Body = appendNavigation(page.Body, req)
	if req.Options.FrontMatter {
		if err := stamp(page, req); err != nil {
			return err
		}
	}
	out, err := page.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(req.Path, out, m.fileMode)
}

// stamp fills the generated front matter fields. The fingerprint is computed
// last so it covers the title.
func stamp(page *frontmatter.Page, req render.PageRequest) error {
	frontmatter.EnsureTitle(page.Fields, req.Page.Title)
	if _, _, err := frontmatter.EnsureUID(page.Fields, frontmatter.PageUID(req.RelPath)); err != nil {
		return err
	}
	_, _, err := frontmatter.UpdateFingerprint(page.Fields, page.Body)
	return err
}

// appendNavigation lists the pages directly below the page.
func appendNavigation(body []byte, req render.PageRequest) []byte {
	if len(req.Children) == 0 {
		return body
	}
	var buf bytes.Buffer
	buf.Write(bytes.TrimRight(body, "\n"))
	buf.WriteString("\n\n")
	for _, link := range req.Children {
		buf.WriteString("- [" + link.Title + "](" + link.Href + ")\n")
	}
	return buf.Bytes()
}
