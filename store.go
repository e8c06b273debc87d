package qsearch

import (
	"iter"
	"maps"

	"github.com/fraglab/qsearch/internal/iterutil"
)

// fragmentStore is the authoritative directory of live fragment nodes: a
// mapping from fragment string to node handle. The fragmentStore
// exclusively owns every fragmentNode it holds;
// parents edges stored on a node are non-owning back-references into this
// same map.
//
// fragmentStore is not safe for concurrent use on its own; the owning
// Engine serializes all mutation under its write lock.
type fragmentStore[Item comparable] struct {
	nodes map[string]*fragmentNode[Item]
}

func newFragmentStore[Item comparable]() *fragmentStore[Item] {
	return &fragmentStore[Item]{nodes: make(map[string]*fragmentNode[Item])}
}

// get returns the node for fragment, and whether it was present.
func (s *fragmentStore[Item]) get(fragment string) (*fragmentNode[Item], bool) {
	n, ok := s.nodes[fragment]
	return n, ok
}

// put inserts or overwrites the node for its own fragment key.
func (s *fragmentStore[Item]) put(n *fragmentNode[Item]) {
	s.nodes[n.fragment] = n
}

// delete removes the node for fragment from the store.
func (s *fragmentStore[Item]) delete(fragment string) {
	delete(s.nodes, fragment)
}

// len returns the number of live fragment nodes.
func (s *fragmentStore[Item]) len() int {
	return len(s.nodes)
}

// clear empties the store.
func (s *fragmentStore[Item]) clear() {
	s.nodes = make(map[string]*fragmentNode[Item])
}

// all returns a range iterator over every live node. Callers must hold at
// least a read lock on the owning Engine for the duration of iteration;
// unlike fragmentNode's copy-on-write sets, the store's backing map is
// mutated in place and is not safe to range over concurrently with a
// writer.
func (s *fragmentStore[Item]) all() iter.Seq[*fragmentNode[Item]] {
	return iterutil.Right(maps.All(s.nodes))
}
