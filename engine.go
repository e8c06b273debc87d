// Package qsearch implements the fragment graph at the heart of an
// in-memory, incremental, type-free quick-search index: a shared
// multi-root DAG in which every contiguous substring of every registered
// keyword is a node, items attach at keyword nodes, and queries walk
// upward from a short fragment to the longer keywords it is a substring
// of, accumulating a caller-supplied score.
//
// The design — and its locking discipline in particular — is adapted from
// github.com/tigerwill90/fox, a concurrent radix router: a single mutex
// serializes writers, lock-free atomic-pointer snapshots serve hot reads
// (Stats here plays the role fox's atomic.Pointer[[]*node] root swap
// plays for its routing tree), and copy-on-write containers let readers
// observe a stable point-in-time view without blocking writers.
package qsearch

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Stats is an observational snapshot of the engine's size, returned by
// Engine.Stats. Both fields come from one atomically published value, so
// they agree with each other, but because Stats is read lock-free they may
// lag behind the live graph at the instant the caller inspects them.
type Stats struct {
	ItemCount     int
	FragmentCount int
}

// Engine owns the fragment store and item registry and coordinates every
// mutation under a single writer/many-readers lock. Item is the opaque,
// caller-supplied value attached to keywords; it must be comparable
// (hashable and equatable) and is never mutated or duplicated by the
// engine.
type Engine[Item comparable] struct {
	mu       sync.RWMutex
	store    *fragmentStore[Item]
	registry *itemRegistry[Item]
	intern   *interner
	log      *slog.Logger

	// stats is published atomically after every write so Stats() never
	// contends with the write lock, matching fox's lock-free route-count
	// reads off its atomic tree pointer.
	stats atomic.Pointer[Stats]

	// epoch increments on every Register/Deregister/Clear. External
	// collaborators (the cache package) use it to invalidate memoized
	// walk_and_score results without the engine knowing caching exists.
	epoch atomic.Uint64
}

// NewEngine constructs an empty Engine.
func NewEngine[Item comparable](opts ...Option[Item]) *Engine[Item] {
	e := &Engine[Item]{
		store:    newFragmentStore[Item](),
		registry: newItemRegistry[Item](),
		intern:   newInterner(),
		log:      noopLogger,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.publishStats()
	return e
}

func (e *Engine[Item]) publishStats() {
	e.stats.Store(&Stats{
		ItemCount:     e.registry.len(),
		FragmentCount: e.store.len(),
	})
}

// Register atomically adds item as a member of each keyword in keywords,
// generating any missing graph structure. Duplicate keywords in the
// input are a no-op beyond set membership. Re-registering
// an already-registered item with overlapping keywords leaves the graph
// unchanged except for the union recorded in the item registry.
//
// Register returns ErrEmptyKeyword if any keyword is the empty string; no graph structure is modified for a
// call that returns an error, keywords are validated before any mutation
// begins.
func (e *Engine[Item]) Register(item Item, keywords []string) error {
	for _, kw := range keywords {
		if kw == "" {
			return ErrEmptyKeyword
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.store.len()
	for _, kw := range keywords {
		n := e.ensureNode(kw, nil)
		n.addItem(item)
	}
	e.registry.union(item, keywords)
	e.publishStats()
	e.epoch.Add(1)

	e.log.Debug("register",
		slog.Any(LogItemKey, item),
		slog.Int(LogKeywordCountKey, len(keywords)),
		slog.Int(LogNodesTouchedKey, e.store.len()-before),
	)
	return nil
}

// ensureNode is the recursive node-materialization procedure: if a node
// for identity is absent from the store, create it (interning the
// string) and, if it decomposes further, recurse into its two children
// with the new node as their parent, so the entire substring
// decomposition of identity is built in one pass. The item itself is
// never attached here — only the top-level call in Register attaches it,
// to the node for the registered keyword alone: a shared intermediate
// fragment like "ple" below both "apple" and "ample" must not pick up an
// item that was only ever registered under the longer keyword. If parent
// is non-nil, the parent edge is wired whether or not the node already
// existed.
func (e *Engine[Item]) ensureNode(identity string, parent *fragmentNode[Item]) *fragmentNode[Item] {
	n, ok := e.store.get(identity)
	if !ok {
		n = newFragmentNode[Item](e.intern.intern(identity))
		e.store.put(n)
		if runeLen(identity) > 1 {
			e.ensureNode(dropLast(identity), n)
			e.ensureNode(dropFirst(identity), n)
		}
	}
	if parent != nil {
		n.addParent(parent)
	}
	return n
}

// Deregister atomically removes item from every node where it is
// currently attached, collapsing any node that becomes unreferenced.
// Deregistering an item that was never registered, or was already
// removed, is a silent no-op.
func (e *Engine[Item]) Deregister(item Item) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kws, ok := e.registry.get(item)
	if !ok {
		return
	}

	before := e.store.len()
	for kw := range kws.All() {
		n, ok := e.store.get(kw)
		if !ok {
			continue
		}
		n.removeItem(item)
		if n.ItemCount() == 0 {
			e.collapse(n, nil)
		}
	}
	e.registry.delete(item)
	e.publishStats()
	e.epoch.Add(1)

	e.log.Debug("deregister",
		slog.Any(LogItemKey, item),
		slog.Int(LogKeywordCountKey, kws.Len()),
		slog.Int(LogNodesTouchedKey, before-e.store.len()),
	)
}

// collapse is the edge-removal procedure. If node has
// already been removed from the store (by an earlier branch of the same
// recursion, or because it never existed under this path), it returns
// immediately — the child lookup through the store is what makes the
// recursion safe against revisiting an already-collapsed node, since a
// collapsed node is gone from the store before its own children are
// visited.
func (e *Engine[Item]) collapse(node *fragmentNode[Item], parent *fragmentNode[Item]) {
	if _, ok := e.store.get(node.fragment); !ok {
		return
	}
	if parent != nil {
		node.removeParent(parent)
	}
	if node.ParentCount() != 0 || node.ItemCount() != 0 {
		return
	}

	e.store.delete(node.fragment)
	e.intern.forget(node.fragment)

	if runeLen(node.fragment) > 1 {
		if c, ok := e.store.get(dropLast(node.fragment)); ok {
			e.collapse(c, node)
		}
		if c, ok := e.store.get(dropFirst(node.fragment)); ok {
			e.collapse(c, node)
		}
	}
}

// Clear empties both the fragment store and the item registry.
func (e *Engine[Item]) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.clear()
	e.registry.clear()
	e.intern.values = make(map[string]string)
	e.publishStats()
	e.epoch.Add(1)
	e.log.Debug("clear")
}

// Stats returns an approximate, lock-free snapshot of the engine's size.
// The two fields are read from a single atomically
// published value, so they are mutually consistent with each other as of
// some point in time, but that point may be slightly stale relative to a
// write in flight when Stats is called.
func (e *Engine[Item]) Stats() Stats {
	return *e.stats.Load()
}

// FragmentStats summarizes per-node load across the live graph, the kind
// of thing worth exposing on a debug endpoint to explain why the index
// is larger or slower than its ItemCount would suggest on its own.
type FragmentStats struct {
	MaxItemsPerFragment   int
	MaxParentsPerFragment int
}

// InspectFragments walks every live fragment node once under the shared
// read lock and reports the busiest node along each dimension. It is an
// O(FragmentCount) operation, unlike the O(1) Stats snapshot, and is
// meant for occasional diagnostic use rather than a hot path.
func (e *Engine[Item]) InspectFragments() FragmentStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var fs FragmentStats
	for n := range e.store.all() {
		if c := n.ItemCount(); c > fs.MaxItemsPerFragment {
			fs.MaxItemsPerFragment = c
		}
		if c := n.ParentCount(); c > fs.MaxParentsPerFragment {
			fs.MaxParentsPerFragment = c
		}
	}
	return fs
}

// Epoch returns a counter incremented on every Register, Deregister, and
// Clear call. It has no meaning within the core contract; it exists so
// external collaborators (see package cache) can cheaply detect "the graph
// may have changed since I last looked" without taking the engine's lock.
func (e *Engine[Item]) Epoch() uint64 {
	return e.epoch.Load()
}

// KeywordsOf returns the keyword set item was registered with, and
// whether item is known at all. It is read under a brief shared lock:
// Go maps are not safe for unsynchronized concurrent read/write, but the
// cowset.Set value itself is copy-on-write, so the lock only needs to be
// held long enough to copy the set header, not to iterate its elements.
func (e *Engine[Item]) KeywordsOf(item Item) ([]string, bool) {
	e.mu.RLock()
	kws, ok := e.registry.get(item)
	e.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return kws.Snapshot(), true
}
