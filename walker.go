package qsearch

import (
	"log/slog"
)

// Scorer is the external pure-function capability the walker invokes to
// rank a (query fragment, node fragment) pair. Implementations
// must not mutate the graph: Score is called while the engine's read lock
// is held, so a blocking or recursive call back into the Engine is
// undefined behavior (deadlock on the non-reentrant RWMutex).
type Scorer interface {
	Score(queryFragment, nodeFragment string) float64
}

// ScorerFunc adapts a bare function to the Scorer interface, mirroring the
// HandlerFunc adapter fox uses for its own callback type.
type ScorerFunc func(queryFragment, nodeFragment string) float64

// Score calls f(queryFragment, nodeFragment).
func (f ScorerFunc) Score(queryFragment, nodeFragment string) float64 {
	return f(queryFragment, nodeFragment)
}

// Search locates the entry node for fragment and walks upward through
// parent edges, scoring every visited node that carries items and merging
// the result into a per-item accumulator with the maximum rule. It
// returns an empty, non-nil map if fragment has no live node.
//
// Search takes the engine's shared read lock for its entire traversal: a
// concurrent Register or Deregister call will block until Search returns,
// and Search observes a single consistent snapshot of the graph
// throughout. If scorer.Score panics, the read lock is still released (the
// defer runs on every exit path), but the panic itself propagates to the
// caller.
func (e *Engine[Item]) Search(fragment string, scorer Scorer) map[Item]float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make(map[Item]float64)

	entry, ok := e.store.get(fragment)
	if !ok {
		return result
	}

	visited := make(map[string]bool)
	e.walk(entry, fragment, scorer, visited, result)
	return result
}

// walk performs the upward traversal from node, visiting each reachable
// ancestor (including node itself) at most once, keyed by fragment string
// since fragments are interned and unique per live node.
func (e *Engine[Item]) walk(node *fragmentNode[Item], queryFragment string, scorer Scorer, visited map[string]bool, result map[Item]float64) {
	if visited[node.fragment] {
		return
	}
	visited[node.fragment] = true

	if node.ItemCount() > 0 {
		score := scorer.Score(queryFragment, node.fragment)
		if score > 0 {
			for item := range node.Items() {
				if existing, ok := result[item]; !ok || score > existing {
					result[item] = score
				}
			}
		}
	}

	for parent := range node.Parents() {
		e.walk(parent, queryFragment, scorer, visited, result)
	}
}

// The "keep the larger" accumulation rule above treats a NaN score as not
// greater than zero: IEEE-754 comparison makes `NaN > 0` false, so a
// NaN-returning scorer is skipped without any special-casing of
// math.IsNaN.

// LoggingScorer wraps a Scorer and emits a debug log for every call,
// useful for diagnosing which fragments a query actually touches.
type LoggingScorer struct {
	Scorer
	Log *slog.Logger
}

// Score logs the call and delegates to the wrapped Scorer.
func (l LoggingScorer) Score(queryFragment, nodeFragment string) float64 {
	score := l.Scorer.Score(queryFragment, nodeFragment)
	log := l.Log
	if log == nil {
		log = noopLogger
	}
	log.Debug("score",
		slog.String(LogFragmentKey, queryFragment),
		slog.String("node_fragment", nodeFragment),
		slog.Float64("score", score),
	)
	return score
}
