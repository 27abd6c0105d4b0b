// Package pages is the page-hierarchy engine of docwiki.
//
// A Tree is an ordered forest of Nodes built once from configuration. Nodes own
// their children by value; there are no parent pointers. Walk produces a lazy,
// restartable depth-first sequence of Items in which the ancestor chain is a
// traversal parameter, and Resolve turns that chain into an output path and the
// relative link context of a page.
//
// Layout rules:
//   - a named node writes <name><ext> in the directory of its named ancestors;
//   - its children go into the sub-directory <name>/;
//   - unnamed (grouping) nodes write nothing and add no directory level.
package pages

import "strings"

// SourceKind tags the variant held by a ContentSource.
type SourceKind int

const (
	// SourceNone marks a node without renderable content.
	SourceNone SourceKind = iota
	// SourceDocument copies a static external document.
	SourceDocument
	// SourceSelector selects modules whose names match one of the patterns.
	SourceSelector
)

func (k SourceKind) String() string {
	switch k {
	case SourceDocument:
		return "document"
	case SourceSelector:
		return "selector"
	default:
		return "none"
	}
}

// ContentSource describes where a page's text comes from.
// Exactly one of Document and Selectors is meaningful, depending on Kind.
type ContentSource struct {
	Kind      SourceKind
	Document  string
	Selectors []string
}

// NoContent is the zero ContentSource.
var NoContent = ContentSource{}

// Document returns a static document source.
func Document(ref string) ContentSource {
	return ContentSource{Kind: SourceDocument, Document: ref}
}

// Selector returns a module selector source.
func Selector(patterns ...string) ContentSource {
	return ContentSource{Kind: SourceSelector, Selectors: append([]string(nil), patterns...)}
}

func (s ContentSource) String() string {
	switch s.Kind {
	case SourceDocument:
		return "document:" + s.Document
	case SourceSelector:
		return "selector:" + strings.Join(s.Selectors, ",")
	default:
		return "none"
	}
}

// Node is one page of the hierarchy.
type Node struct {
	Name     string
	Title    string
	Source   ContentSource
	Children []Node
}

// IsGrouping reports whether the node only groups children and never has a file.
func (n *Node) IsGrouping() bool { return n.Name == "" }

// HasContent reports whether the node has a content source.
func (n *Node) HasContent() bool { return n.Source.Kind != SourceNone }

// Renderable reports whether a file is written for the node.
func (n *Node) Renderable() bool { return !n.IsGrouping() && n.HasContent() }
