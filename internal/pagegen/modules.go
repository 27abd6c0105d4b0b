package pagegen

import (
	"bytes"
	"path"
	"strings"

	"git.home.luguber.info/inful/docwiki/internal/docmodel"
	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/docwiki/internal/markdown"
)

const maxHeadingLevel = 6

// Select returns the modules whose dotted name matches at least one pattern,
// in module order and each at most once. Patterns use path.Match syntax; "*"
// matches every name since module names carry no slashes.
func Select(modules []docmodel.Module, patterns []string) ([]docmodel.Module, error) {
	for _, p := range patterns {
		if _, err := path.Match(p, ""); err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryValidation, "invalid module selector").
				WithContext("selector", p).
				Build()
		}
	}
	var out []docmodel.Module
	for _, mod := range modules {
		for _, p := range patterns {
			if ok, _ := path.Match(p, mod.Name); ok {
				out = append(out, mod)
				break
			}
		}
	}
	return out, nil
}

type moduleWriter struct {
	buf      *bytes.Buffer
	anchors  bool
	typehint bool
}

func (w moduleWriter) module(mod docmodel.Module) {
	w.header(2, mod.Name, mod.Name)
	w.docstring(mod.Docstring)
	for _, obj := range mod.Members {
		w.object(3, mod.Name, obj)
	}
}

func (w moduleWriter) object(level int, parent string, obj docmodel.Object) {
	id := parent + "." + obj.Name
	title := obj.Name
	switch obj.Kind {
	case docmodel.KindClass:
		title = "class " + obj.Name
	case docmodel.KindData:
		if w.typehint && obj.Datatype != "" {
			title = obj.Name + ": " + obj.Datatype
		}
	}
	w.header(level, id, title)

	if code := signature(obj); code != "" {
		w.buf.WriteString("\n```\n" + code + "\n```\n")
	}
	w.docstring(obj.Docstring)
	for _, member := range obj.Members {
		w.object(min(level+1, maxHeadingLevel), id, member)
	}
}

func (w moduleWriter) header(level int, id, title string) {
	w.buf.WriteString("\n")
	if w.anchors {
		w.buf.WriteString(markdown.Anchor(id) + "\n\n")
	}
	w.buf.WriteString(strings.Repeat("#", level) + " " + escape(title) + "\n")
}

func (w moduleWriter) docstring(doc string) {
	if doc = strings.TrimSpace(doc); doc != "" {
		w.buf.WriteString("\n" + doc + "\n")
	}
}

// signature is the code line shown below an object's header.
func signature(obj docmodel.Object) string {
	switch obj.Kind {
	case docmodel.KindFunction:
		if obj.Signature == "" {
			return "def " + obj.Name + "()"
		}
		return "def " + obj.Name + obj.Signature
	case docmodel.KindClass:
		if obj.Signature == "" {
			return ""
		}
		return "class " + obj.Name + obj.Signature
	case docmodel.KindData:
		line := obj.Name
		if obj.Datatype != "" {
			line += ": " + obj.Datatype
		}
		if obj.Value != "" {
			line += " = " + obj.Value
		}
		return line
	}
	return ""
}

var headerEscaper = strings.NewReplacer("_", `\_`, "*", `\*`)

func escape(s string) string { return headerEscaper.Replace(s) }
