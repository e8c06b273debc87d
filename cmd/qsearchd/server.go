package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tigerwill90/fox"

	"github.com/fraglab/qsearch"
	"github.com/fraglab/qsearch/cache"
	"github.com/fraglab/qsearch/tokenize"
)

// server wires the fragment-graph engine, result cache, and tokenizer
// into an HTTP API, using github.com/tigerwill90/fox as the router — the
// very library this module's core design is adapted from, here consumed
// as an ordinary third-party dependency instead of copied source.
type server struct {
	engine    *qsearch.Engine[string]
	cache     *cache.Cache[string]
	tokenOpts tokenize.Options
	scorer    qsearch.Scorer
	log       *slog.Logger
}

var errEmptyDocument = errors.New("qsearchd: document produced no keywords")

func newRouter(s *server) (*fox.Router, error) {
	router, err := fox.NewRouter(
		fox.WithMiddlewareFor(fox.RouteHandler, requestIDMiddleware),
	)
	if err != nil {
		return nil, err
	}

	if _, err := router.Add([]string{http.MethodPut}, "/items/{id}", s.handlePutItem); err != nil {
		return nil, err
	}
	if _, err := router.Add([]string{http.MethodDelete}, "/items/{id}", s.handleDeleteItem); err != nil {
		return nil, err
	}
	if _, err := router.Add([]string{http.MethodGet}, "/search", s.handleSearch); err != nil {
		return nil, err
	}
	if _, err := router.Add([]string{http.MethodGet}, "/stats", s.handleStats); err != nil {
		return nil, err
	}
	if _, err := router.Add([]string{http.MethodGet}, "/metrics", wrapHandler(promhttp.Handler())); err != nil {
		return nil, err
	}
	return router, nil
}

// requestIDMiddleware generates a fresh request ID for every request and
// returns it in the X-Request-Id response header. The ID is not added to
// the server's log records.
func requestIDMiddleware(next fox.HandlerFunc) fox.HandlerFunc {
	return func(c *fox.Context) {
		id := uuid.NewString()
		c.SetHeader("X-Request-Id", id)
		next(c)
	}
}

func wrapHandler(h http.Handler) fox.HandlerFunc {
	return func(c *fox.Context) {
		h.ServeHTTP(c.Writer(), c.Request())
	}
}

func (s *server) handlePutItem(c *fox.Context) {
	id := c.Param("id")
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	keywords := tokenize.TokenizeWithOptions(string(body), s.tokenOpts)
	if len(keywords) == 0 {
		s.writeError(c, http.StatusBadRequest, errEmptyDocument)
		return
	}

	if err := s.engine.Register(id, keywords); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}
	s.cache.Purge()

	_ = c.Blob(http.StatusOK, "application/json", mustJSON(map[string]any{
		"id":       id,
		"keywords": keywords,
	}))
}

func (s *server) handleDeleteItem(c *fox.Context) {
	id := c.Param("id")
	s.engine.Deregister(id)
	s.cache.Purge()
	c.Writer().WriteHeader(http.StatusNoContent)
}

func (s *server) handleSearch(c *fox.Context) {
	query := c.QueryParam("q")
	tokens := tokenize.TokenizeWithOptions(query, s.tokenOpts)

	merged := make(map[string]float64)
	for _, token := range tokens {
		if cached, ok := s.cache.Get(token); ok {
			mergeMax(merged, cached)
			continue
		}
		result := s.engine.Search(token, s.scorer)
		s.cache.Put(token, result)
		mergeMax(merged, result)
	}

	type hit struct {
		ID    string  `json:"id"`
		Score float64 `json:"score"`
	}
	hits := make([]hit, 0, len(merged))
	for id, score := range merged {
		hits = append(hits, hit{ID: id, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	_ = c.Blob(http.StatusOK, "application/json", mustJSON(hits))
}

func (s *server) handleStats(c *fox.Context) {
	_ = c.Blob(http.StatusOK, "application/json", mustJSON(struct {
		qsearch.Stats
		qsearch.FragmentStats
	}{s.engine.Stats(), s.engine.InspectFragments()}))
}

// mergeMax folds src into dst using the same keep-the-larger rule the
// core engine's own walk uses across ancestors, here applied across the
// several tokens one search query breaks into.
func mergeMax(dst, src map[string]float64) {
	for item, score := range src {
		if existing, ok := dst[item]; !ok || score > existing {
			dst[item] = score
		}
	}
}

func (s *server) writeError(c *fox.Context, code int, err error) {
	s.log.Warn("request failed", slog.Int("status", code), slog.String("error", err.Error()))
	_ = c.Blob(code, "application/json", mustJSON(map[string]string{"error": err.Error()}))
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"error":"internal encoding failure"}`)
	}
	return b
}
