package qsearch

import (
	"iter"

	"github.com/fraglab/qsearch/internal/cowset"
)

// fragmentNode is one node of the fragment graph. It carries
// the interned fragment string, the items attached at this exact fragment,
// and the set of parent nodes for which this node is a length-minus-one
// child (prefix-drop-last or suffix-drop-first).
//
// All mutating methods are only called while the owning Engine's write
// lock is held. items and parents are copy-on-write sets (internal/cowset):
// a reader that obtained a snapshot via Items or Parents keeps observing
// that snapshot even if a writer runs concurrently afterwards.
type fragmentNode[Item comparable] struct {
	fragment string
	items    cowset.Set[Item]
	parents  cowset.Set[*fragmentNode[Item]]
}

func newFragmentNode[Item comparable](fragment string) *fragmentNode[Item] {
	return &fragmentNode[Item]{fragment: fragment}
}

// Items returns a snapshot-safe range iterator over the items attached at
// this node.
func (n *fragmentNode[Item]) Items() iter.Seq[Item] {
	return n.items.All()
}

// ItemCount returns the number of items attached at this node.
func (n *fragmentNode[Item]) ItemCount() int {
	return n.items.Len()
}

// addItem attaches item to the node. Idempotent.
func (n *fragmentNode[Item]) addItem(item Item) {
	n.items = n.items.Add(item)
}

// removeItem detaches item from the node. Idempotent.
func (n *fragmentNode[Item]) removeItem(item Item) {
	n.items = n.items.Remove(item)
}

// Parents returns a snapshot-safe range iterator over the node's parents,
// i.e. the longer fragments this node is a prefix-drop-last or
// suffix-drop-first substring of.
func (n *fragmentNode[Item]) Parents() iter.Seq[*fragmentNode[Item]] {
	return n.parents.All()
}

// ParentCount returns the number of parents currently recorded.
func (n *fragmentNode[Item]) ParentCount() int {
	return n.parents.Len()
}

// addParent records p as a parent of n. Idempotent.
func (n *fragmentNode[Item]) addParent(p *fragmentNode[Item]) {
	n.parents = n.parents.Add(p)
}

// removeParent drops p from n's parents. Idempotent.
func (n *fragmentNode[Item]) removeParent(p *fragmentNode[Item]) {
	n.parents = n.parents.Remove(p)
}

// dropLast and dropFirst compute the two length-minus-one children of a
// fragment: the prefix (drop the last rune) and the suffix (drop the first
// rune). Operating on runes rather than bytes keeps decomposition correct
// for multi-byte UTF-8 keywords; case folding and sanitation are left to
// the caller, but substring decomposition must still respect rune
// boundaries.
func dropLast(fragment string) string {
	r := []rune(fragment)
	return string(r[:len(r)-1])
}

func dropFirst(fragment string) string {
	r := []rune(fragment)
	return string(r[1:])
}

// runeLen returns the number of runes in fragment, used throughout in
// place of len() so multi-byte keywords decompose one rune at a time
// rather than one byte at a time.
func runeLen(fragment string) int {
	n := 0
	for range fragment {
		n++
	}
	return n
}
