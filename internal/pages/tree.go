package pages

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/docwiki/internal/config"
	derrors "git.home.luguber.info/inful/docwiki/internal/foundation/errors"
)

// Tree is the root-level ordered sequence of pages. It is immutable once built.
type Tree struct {
	roots []Node
}

// NewTree validates roots and returns a tree owning them.
//
// Besides per-node checks it rejects two named nodes that would be written to
// the same output-relative path, which covers duplicate sibling names as well
// as siblings brought into the same directory through unnamed grouping nodes.
// Collisions that depend on the file extension are left to CheckLayout.
func NewTree(roots ...Node) (Tree, error) {
	t := Tree{roots: roots}
	if err := t.validate(""); err != nil {
		return Tree{}, err
	}
	return t, nil
}

// Build converts page specifications from the configuration into a tree.
func Build(specs []config.PageSpec) (Tree, error) {
	if err := config.ValidatePages(specs); err != nil {
		return Tree{}, err
	}
	return NewTree(fromSpecs(specs)...)
}

func fromSpecs(specs []config.PageSpec) []Node {
	if len(specs) == 0 {
		return nil
	}
	nodes := make([]Node, 0, len(specs))
	for _, spec := range specs {
		node := Node{
			Name:     spec.Name,
			Title:    spec.Title,
			Children: fromSpecs(spec.Children),
		}
		switch {
		case spec.Source != "":
			node.Source = Document(spec.Source)
		case len(spec.Contents) > 0:
			node.Source = Selector(spec.Contents...)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Roots returns the top-level pages. Callers must not modify them.
func (t Tree) Roots() []Node { return t.roots }

// Len returns the number of top-level pages.
func (t Tree) Len() int { return len(t.roots) }

// Count returns the total number of nodes in the tree.
func (t Tree) Count() int {
	var count func([]Node) int
	count = func(nodes []Node) int {
		n := len(nodes)
		for i := range nodes {
			n += count(nodes[i].Children)
		}
		return n
	}
	return count(t.roots)
}

// CheckLayout reports a configuration error when two pages would occupy the
// same output path for extension ext: two files, or the file of one page and
// the directory holding the children of another (node "x" next to a node
// "x.md" with children, for ".md"). It touches no filesystem state, so callers
// run it before cleaning.
func (t Tree) CheckLayout(ext string) error {
	return t.validate(ext)
}

func (t Tree) validate(ext string) error {
	files := make(map[string]string)
	dirs := make(map[string]string) // directory -> RelPath of the page owning it
	for item := range Walk(t, "", ext) {
		node := item.Node
		if strings.TrimSpace(node.Title) == "" {
			return derrors.ConfigError("page title is required").
				WithContext("depth", item.Depth()).
				WithContext("name", node.Name).
				Build()
		}
		if node.IsGrouping() {
			continue
		}
		if node.Name == "." || node.Name == ".." || strings.ContainsAny(node.Name, `/\`) {
			return derrors.ConfigError("page name must be a single path segment").
				WithContext("name", node.Name).
				Build()
		}
		if first, dup := files[item.RelPath]; dup {
			return derrors.ConfigError("duplicate page name").
				WithContext("name", node.Name).
				WithContext("path", item.RelPath).
				WithContext("first", first).
				WithContext("second", node.Title).
				Build()
		}
		if owner, taken := dirs[item.RelPath]; taken {
			return pathCollision(item.RelPath, owner, item.RelPath)
		}
		files[item.RelPath] = node.Title
		if len(node.Children) == 0 {
			continue
		}
		dir := path.Join(path.Dir(item.RelPath), node.Name)
		if _, taken := files[dir]; taken && dir != item.RelPath {
			return pathCollision(dir, item.RelPath, dir)
		}
		dirs[dir] = item.RelPath
	}
	return nil
}

func pathCollision(at, dirOwner, file string) error {
	return derrors.ConfigError("page file collides with a page directory").
		WithContext("path", at).
		WithContext("directory_of", dirOwner).
		WithContext("file_of", file).
		Build()
}
