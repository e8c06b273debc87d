package qsearch

import "errors"

var (
	// ErrEmptyKeyword is returned by Engine.Register when one of the
	// supplied keywords is the empty string. An empty keyword would
	// create a zero-length fragment node that decomposition can never
	// break down further, so the engine rejects it at the boundary
	// rather than let it reach the graph.
	ErrEmptyKeyword = errors.New("qsearch: empty keyword")
)
