// Package scoring provides a handful of ready-made ranking functions for
// the fragment graph's walk. Each type here satisfies qsearch.Scorer by
// structural typing alone (Score(queryFragment, nodeFragment string)
// float64) — this package never imports qsearch, so it can be reused by
// anything else that adopts the same scorer contract.
package scoring

import "strings"

// Func adapts a bare function to the scorer contract, mirroring the
// HandlerFunc adapter the router teacher this module is built on uses for
// its own callback type.
type Func func(queryFragment, nodeFragment string) float64

// Score calls f(queryFragment, nodeFragment).
func (f Func) Score(queryFragment, nodeFragment string) float64 {
	return f(queryFragment, nodeFragment)
}

// Prefix scores 1.0 when queryFragment is a prefix of nodeFragment, 0
// otherwise. This is the scorer literal scenario 1 in the core spec is
// built around: a query fragment matches any keyword it is the leading
// substring of.
type Prefix struct{}

// Score implements the scorer contract.
func (Prefix) Score(queryFragment, nodeFragment string) float64 {
	if strings.HasPrefix(nodeFragment, queryFragment) {
		return 1.0
	}
	return 0
}

// Exact scores 1.0 only when queryFragment and nodeFragment are identical,
// 0 otherwise — useful when only an exact keyword match should surface an
// item, with no credit given to any ancestor substring.
type Exact struct{}

// Score implements the scorer contract.
func (Exact) Score(queryFragment, nodeFragment string) float64 {
	if queryFragment == nodeFragment {
		return 1.0
	}
	return 0
}

// LengthWeighted scores every reachable node by its own rune length, so
// that among several keywords a query fragment is a substring of, the
// longest (most specific) keyword wins the max-rule merge.
type LengthWeighted struct{}

// Score implements the scorer contract.
func (LengthWeighted) Score(_, nodeFragment string) float64 {
	n := 0
	for range nodeFragment {
		n++
	}
	return float64(n)
}
