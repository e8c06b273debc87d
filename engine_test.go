package qsearch

import (
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasPrefixScorer(q, k string) float64 {
	if strings.HasPrefix(k, q) {
		return 1.0
	}
	return 0
}

func constScorer(score float64) ScorerFunc {
	return func(string, string) float64 { return score }
}

func lengthScorer(_ string, k string) float64 {
	return float64(len(k))
}

// Scenario 1: basic reachability.
func TestBasicReachability(t *testing.T) {
	e := NewEngine[string]()
	require.NoError(t, e.Register("A", []string{"apple"}))

	result := e.Search("app", ScorerFunc(hasPrefixScorer))
	assert.Equal(t, map[string]float64{"A": 1.0}, result)

	stats := e.Stats()
	assert.Equal(t, 1, stats.ItemCount)
	// "apple" has 15 contiguous substrings by position, but the repeated
	// 'p' means only 14 of them are distinct strings; the fragment store
	// collapses the duplicate pair onto one node.
	assert.Equal(t, distinctSubstringCount("apple"), stats.FragmentCount)
	assert.Equal(t, 14, stats.FragmentCount)
}

func distinctSubstringCount(s string) int {
	seen := make(map[string]struct{})
	r := []rune(s)
	for i := range r {
		for j := i + 1; j <= len(r); j++ {
			seen[string(r[i:j])] = struct{}{}
		}
	}
	return len(seen)
}

// Scenario 2: shared substring.
func TestSharedSubstring(t *testing.T) {
	e := NewEngine[string]()
	require.NoError(t, e.Register("A", []string{"apple"}))
	require.NoError(t, e.Register("B", []string{"ample"}))

	result := e.Search("ple", constScorer(1.0))
	assert.Equal(t, map[string]float64{"A": 1.0, "B": 1.0}, result)
}

// Scenario 3: max rule, single entry for equal scores.
func TestMaxRule(t *testing.T) {
	e := NewEngine[string]()
	require.NoError(t, e.Register("A", []string{"abcd", "abef"}))

	result := e.Search("ab", ScorerFunc(lengthScorer))
	require.Len(t, result, 1)
	assert.Equal(t, 4.0, result["A"])
}

// Scenario 4: deregister collapses everything.
func TestDeregisterCollapses(t *testing.T) {
	e := NewEngine[string]()
	require.NoError(t, e.Register("A", []string{"apple"}))
	e.Deregister("A")

	stats := e.Stats()
	assert.Equal(t, Stats{ItemCount: 0, FragmentCount: 0}, stats)

	result := e.Search("app", ScorerFunc(hasPrefixScorer))
	assert.Empty(t, result)
}

// Scenario 5: partial deregister preserves shared nodes.
func TestPartialDeregisterPreservesSharedNodes(t *testing.T) {
	e := NewEngine[string]()
	require.NoError(t, e.Register("A", []string{"apple"}))
	require.NoError(t, e.Register("B", []string{"ample"}))
	e.Deregister("A")

	result := e.Search("ple", ScorerFunc(lengthScorer))
	assert.Equal(t, map[string]float64{"B": 5.0}, result)

	result = e.Search("apple", ScorerFunc(lengthScorer))
	assert.Empty(t, result)
}

// Scenario 6: re-registration union.
func TestReRegistrationUnion(t *testing.T) {
	e := NewEngine[string]()
	require.NoError(t, e.Register("A", []string{"red"}))
	require.NoError(t, e.Register("A", []string{"shoe"}))

	kws, ok := e.KeywordsOf("A")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"red", "shoe"}, kws)

	r1 := e.Search("red", constScorer(1.0))
	assert.Contains(t, r1, "A")
	r2 := e.Search("shoe", constScorer(1.0))
	assert.Contains(t, r2, "A")
}

func TestRegisterRejectsEmptyKeyword(t *testing.T) {
	e := NewEngine[string]()
	err := e.Register("A", []string{"fine", ""})
	assert.ErrorIs(t, err, ErrEmptyKeyword)
	// no partial mutation on error.
	assert.Equal(t, Stats{}, e.Stats())
}

func TestDeregisterUnknownItemIsNoop(t *testing.T) {
	e := NewEngine[string]()
	require.NoError(t, e.Register("A", []string{"apple"}))
	e.Deregister("nonexistent")
	stats := e.Stats()
	assert.Equal(t, 1, stats.ItemCount)
}

func TestSearchUnknownFragmentReturnsEmpty(t *testing.T) {
	e := NewEngine[string]()
	require.NoError(t, e.Register("A", []string{"apple"}))
	result := e.Search("zzz", constScorer(1.0))
	assert.Empty(t, result)
}

func TestInspectFragments(t *testing.T) {
	e := NewEngine[string]()
	require.NoError(t, e.Register("A", []string{"apple"}))
	require.NoError(t, e.Register("B", []string{"ample"}))

	fs := e.InspectFragments()
	// The single-rune node "p" is a child of "ap", "pp" and "pl" (from
	// "apple") and of "mp" (from "ample"), giving it four parents, more
	// than any other node; the keyword nodes themselves each carry exactly
	// one item.
	assert.Equal(t, 1, fs.MaxItemsPerFragment)
	assert.Equal(t, 4, fs.MaxParentsPerFragment)
}

func TestClearEmptiesGraph(t *testing.T) {
	e := NewEngine[string]()
	require.NoError(t, e.Register("A", []string{"apple"}))
	require.NoError(t, e.Register("B", []string{"banana"}))
	e.Clear()
	assert.Equal(t, Stats{ItemCount: 0, FragmentCount: 0}, e.Stats())
}

// Registering the same item/keywords twice produces the same graph as a single call.
func TestRegisterIdempotent(t *testing.T) {
	e1 := NewEngine[string]()
	require.NoError(t, e1.Register("A", []string{"apple", "ample"}))

	e2 := NewEngine[string]()
	require.NoError(t, e2.Register("A", []string{"apple", "ample"}))
	require.NoError(t, e2.Register("A", []string{"apple", "ample"}))

	assert.Equal(t, e1.Stats(), e2.Stats())
	r1 := e1.Search("ple", constScorer(1.0))
	r2 := e2.Search("ple", constScorer(1.0))
	assert.Equal(t, r1, r2)
}

// Registering then deregistering a whole batch leaves both maps empty.
func TestRegisterThenDeregisterAllLeavesEmpty(t *testing.T) {
	e := NewEngine[string]()
	items := map[string][]string{
		"A": {"apple", "ample"},
		"B": {"grape", "grade"},
		"C": {"shape"},
	}
	for item, kws := range items {
		require.NoError(t, e.Register(item, kws))
	}
	for item := range items {
		e.Deregister(item)
	}
	assert.Equal(t, Stats{ItemCount: 0, FragmentCount: 0}, e.Stats())
}

// The walker never scores the same node twice.
func TestWalkVisitsEachNodeOnce(t *testing.T) {
	e := NewEngine[string]()
	require.NoError(t, e.Register("A", []string{"abcd", "abef"}))

	calls := make(map[string]int)
	var mu sync.Mutex
	counting := ScorerFunc(func(q, k string) float64 {
		mu.Lock()
		calls[k]++
		mu.Unlock()
		return lengthScorer(q, k)
	})

	e.Search("ab", counting)
	for fragment, n := range calls {
		assert.Equalf(t, 1, n, "fragment %q scored %d times, want 1", fragment, n)
	}
}

func TestNaNScoreNeverMerged(t *testing.T) {
	e := NewEngine[string]()
	require.NoError(t, e.Register("A", []string{"apple"}))

	nan := ScorerFunc(func(string, string) float64 {
		var zero float64
		return zero / zero
	})
	result := e.Search("app", nan)
	assert.Empty(t, result)
}

// Concurrency: writers and a search running concurrently must never
// corrupt internal state. Adapted from fox's TestDataRace pattern
// (router_test.go): start a batch of goroutines blocked on a shared gate,
// release them together, and let -race catch any violation.
func TestDataRaceRegisterDeregisterSearch(t *testing.T) {
	e := NewEngine[string]()
	var gate int32
	wait := func() {
		for atomic.LoadInt32(&gate) == 0 {
			time.Sleep(time.Microsecond)
		}
	}

	words := []string{"apple", "ample", "grape", "grade", "shape", "shaped", "banana"}

	var wg sync.WaitGroup
	wg.Add(len(words) * 3)
	for i, w := range words {
		item := w
		kw := w
		idx := i
		go func() {
			defer wg.Done()
			wait()
			_ = e.Register(item, []string{kw})
		}()
		go func() {
			defer wg.Done()
			wait()
			e.Search(kw[:3], constScorer(1.0))
		}()
		go func() {
			defer wg.Done()
			wait()
			if idx%2 == 0 {
				e.Deregister(item)
			}
		}()
	}

	atomic.StoreInt32(&gate, 1)
	wg.Wait()

	// Whatever the final state, stats must remain internally sane: both
	// counts must be >= 0.
	stats := e.Stats()
	assert.GreaterOrEqual(t, stats.ItemCount, 0)
	assert.GreaterOrEqual(t, stats.FragmentCount, 0)
}

// A search result for item equals the maximum score, over every
// ancestor of the query fragment that carries item, that the scorer
// assigns to that ancestor — checked against a brute-force reference for
// a batch of randomly generated registrations.
func TestWalkMaximumProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	alphabet := []rune("abc")

	randomWord := func() string {
		n := 3 + rng.Intn(4)
		r := make([]rune, n)
		for i := range r {
			r[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(r)
	}

	for trial := 0; trial < 20; trial++ {
		e := NewEngine[string]()
		keywordsByItem := make(map[string][]string)
		for i := 0; i < 6; i++ {
			item := string(rune('A' + i))
			kws := []string{randomWord(), randomWord()}
			keywordsByItem[item] = kws
			require.NoError(t, e.Register(item, kws))
		}

		query := randomWord()[:2]
		scorer := ScorerFunc(lengthScorer)

		got := e.Search(query, scorer)
		want := bruteForceWalk(keywordsByItem, query, scorer)
		assert.Equal(t, want, got, "trial %d: query %q", trial, query)
	}
}

// bruteForceWalk recomputes walk_and_score by brute force. A registered
// keyword kw is reachable as an ancestor of query in the fragment graph
// exactly when query occurs as a contiguous substring of kw: kw's own
// decomposition (built in full by ensureNode when kw was registered)
// already supplies a complete chain of live single-character extensions
// from query up to kw, regardless of what other keywords share nodes with
// it. Since items attach only at keyword nodes (not at the intermediate
// substrings those chains pass through), the keyword node itself is the
// only node along that chain that can ever contribute a score.
func bruteForceWalk(byItem map[string][]string, query string, scorer Scorer) map[string]float64 {
	result := make(map[string]float64)
	for item, kws := range byItem {
		best := 0.0
		found := false
		for _, kw := range kws {
			if !strings.Contains(kw, query) {
				continue
			}
			s := scorer.Score(query, kw)
			if s > 0 && (!found || s > best) {
				best = s
				found = true
			}
		}
		if found {
			result[item] = best
		}
	}
	return result
}
