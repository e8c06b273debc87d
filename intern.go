package qsearch

// interner deduplicates fragment strings so that every live copy of the
// same fragment shares one allocation. This lets equality checks in hot
// paths (the walker's visited set, store lookups) stay cheap map/string
// comparisons backed by a single underlying byte array per distinct
// fragment.
//
// interner is only ever touched from code paths already holding the
// engine's write lock (register/deregister); it needs no lock of its own.
type interner struct {
	values map[string]string
}

func newInterner() *interner {
	return &interner{values: make(map[string]string)}
}

// intern returns the canonical copy of s, registering s as canonical on
// first sight.
func (in *interner) intern(s string) string {
	if v, ok := in.values[s]; ok {
		return v
	}
	in.values[s] = s
	return s
}

// forget drops s from the interning table. Called once a fragment node is
// fully collapsed, so the table does not grow without bound across the
// lifetime of a long-running index with heavy churn.
func (in *interner) forget(s string) {
	delete(in.values, s)
}
