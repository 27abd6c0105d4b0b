package pages

import (
	"path"
	"path/filepath"
	"strings"
)

// Resolution is the output location of a node.
type Resolution struct {
	// Path is the absolute (root-joined) output file; empty for grouping nodes.
	Path string
	// RelPath is Path relative to the output root, slash separated.
	RelPath string
	// LinkPrefix climbs from the directory of the page back to the output root:
	// one "../" per directory level. LinkPrefix + other.RelPath links to any page.
	LinkPrefix string
}

// Writable reports whether the resolution names a file.
func (r Resolution) Writable() bool { return r.Path != "" }

// Resolve computes where node is written given its ancestor chain.
// A nil entry in chain is a programming error and panics.
func Resolve(chain []*Node, node *Node, root, ext string) Resolution {
	if node == nil {
		panic("pages: Resolve called with nil node")
	}
	dirs := dirSegments(chain)
	res := Resolution{LinkPrefix: strings.Repeat("../", len(dirs))}
	if node.IsGrouping() {
		return res
	}
	res.RelPath = path.Join(append(dirs, node.Name+ext)...)
	res.Path = filepath.Join(root, filepath.FromSlash(res.RelPath))
	return res
}

// dirSegments returns the directory levels contributed by the chain: one per
// named ancestor, none for grouping ancestors.
func dirSegments(chain []*Node) []string {
	dirs := make([]string, 0, len(chain))
	for _, anc := range chain {
		if anc == nil {
			panic("pages: nil ancestor in chain")
		}
		if !anc.IsGrouping() {
			dirs = append(dirs, anc.Name)
		}
	}
	return dirs
}

// Link returns the relative link from the page of from to the page of to:
// one "../" for every directory level of from that to does not share, then
// the rest of to's path. It returns "" when to has no file.
func Link(from, to Item) string {
	if to.RelPath == "" {
		return ""
	}
	fromDirs := dirSegments(from.Ancestors)
	target := strings.Split(to.RelPath, "/")
	toDirs := target[:len(target)-1]

	common := 0
	for common < len(fromDirs) && common < len(toDirs) && fromDirs[common] == toDirs[common] {
		common++
	}
	return strings.Repeat("../", len(fromDirs)-common) + strings.Join(target[common:], "/")
}

// NavLink is a titled relative link from one page to another.
type NavLink struct {
	Title string
	Href  string
}

// ChildLinks returns links from item's page to the pages directly below it.
// Grouping children are transparent: their renderable children are listed in
// their place. Named children without content have no page and are left out
// together with their subtree.
func ChildLinks(item Item, root, ext string) []NavLink {
	var links []NavLink
	var collect func(chain []*Node, children []Node)
	collect = func(chain []*Node, children []Node) {
		for i := range children {
			child := &children[i]
			if child.IsGrouping() {
				collect(append(chain[:len(chain):len(chain)], child), child.Children)
				continue
			}
			if !child.HasContent() {
				continue
			}
			target := Item{Node: child, Ancestors: chain, Resolution: Resolve(chain, child, root, ext)}
			links = append(links, NavLink{Title: child.Title, Href: Link(item, target)})
		}
	}
	chain := append(item.Ancestors[:len(item.Ancestors):len(item.Ancestors)], item.Node)
	collect(chain, item.Node.Children)
	return links
}
