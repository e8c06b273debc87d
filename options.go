package qsearch

// Option configures an Engine at construction time, following the
// functional-options pattern fox uses for its Router (see the now-retired
// options.go this is adapted from).
type Option[Item comparable] func(*Engine[Item])
