package qsearch

import "github.com/fraglab/qsearch/internal/cowset"

// itemRegistry is a mapping from item to the set of keywords it was
// registered with. Its sole purpose is to make Deregister O(|keywords|)
// instead of a full graph scan.
//
// Keyword sets are stored as cowset.Set values, not pointers: replacing a
// map entry wholesale on every mutation means a goroutine that read the
// map entry (see Engine.KeywordsOf) under a brief read-lock, copied the
// cowset.Set header, and released the lock can safely range over it even
// if a writer mutates the same item's entry immediately afterwards — it
// observes the pre-mutation keyword set in full, never a torn one. A
// short shared-lock acquisition plus an immutable value header gives
// concurrent readers a consistent snapshot without ever blocking on a
// writer for the duration of their range.
type itemRegistry[Item comparable] struct {
	keywords map[Item]cowset.Set[string]
}

func newItemRegistry[Item comparable]() *itemRegistry[Item] {
	return &itemRegistry[Item]{keywords: make(map[Item]cowset.Set[string])}
}

// get returns the keyword set registered for item, and whether item is
// known at all.
func (r *itemRegistry[Item]) get(item Item) (cowset.Set[string], bool) {
	kws, ok := r.keywords[item]
	return kws, ok
}

// union merges keywords into item's registered set, creating the entry if
// absent. Returns the resulting set.
func (r *itemRegistry[Item]) union(item Item, keywords []string) cowset.Set[string] {
	kws := r.keywords[item]
	for _, kw := range keywords {
		kws = kws.Add(kw)
	}
	r.keywords[item] = kws
	return kws
}

// delete removes item from the registry entirely.
func (r *itemRegistry[Item]) delete(item Item) {
	delete(r.keywords, item)
}

// len returns the number of registered items.
func (r *itemRegistry[Item]) len() int {
	return len(r.keywords)
}

// clear empties the registry.
func (r *itemRegistry[Item]) clear() {
	r.keywords = make(map[Item]cowset.Set[string])
}
