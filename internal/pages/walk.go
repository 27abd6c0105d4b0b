package pages

import (
	"iter"
	"slices"
)

// Item is one step of a traversal: a node, the chain of its ancestors
// (outermost first) and its resolved output location.
type Item struct {
	Node      *Node
	Ancestors []*Node
	Resolution
}

// Depth is the number of ancestors of the item's node.
func (it Item) Depth() int { return len(it.Ancestors) }

// Walk returns the depth-first traversal of t: a node comes strictly before its
// children and siblings keep their stored order. Output locations are resolved
// against root with the file extension ext.
//
// The sequence is lazy and restartable; every range over it starts a fresh
// traversal and none of them modifies the tree.
func Walk(t Tree, root, ext string) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		walkLevel(t.roots, nil, root, ext, yield)
	}
}

func walkLevel(nodes []Node, chain []*Node, root, ext string, yield func(Item) bool) bool {
	for i := range nodes {
		node := &nodes[i]
		ancestors := slices.Clone(chain)
		item := Item{
			Node:       node,
			Ancestors:  ancestors,
			Resolution: Resolve(ancestors, node, root, ext),
		}
		if !yield(item) {
			return false
		}
		if len(node.Children) == 0 {
			continue
		}
		if !walkLevel(node.Children, append(slices.Clip(ancestors), node), root, ext, yield) {
			return false
		}
	}
	return true
}

// Collect materializes a traversal.
func Collect(seq iter.Seq[Item]) []Item {
	return slices.Collect(seq)
}
