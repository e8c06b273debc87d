package qsearch

import (
	"io"
	"log/slog"
)

// Keys for the structured attributes the Engine attaches to its own debug
// logs, mirroring the LoggerXxxKey constants fox.Logger exposes for its
// HTTP request logger.
const (
	// LogItemKey is the key used for the item argument of Register/Deregister calls.
	LogItemKey = "item"
	// LogKeywordCountKey is the key used for the number of keywords touched by a call.
	LogKeywordCountKey = "keywords"
	// LogNodesTouchedKey is the key used for the number of fragment nodes created or collapsed.
	LogNodesTouchedKey = "nodes_touched"
	// LogFragmentKey is the key used for the query fragment of a Search call.
	LogFragmentKey = "fragment"
)

// noopLogger discards every record; used when NewEngine is given no logger.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger configures the Engine to emit debug-level structured logs
// (via log/slog) on Register, Deregister, and Clear, reporting how many
// fragment nodes were created or collapsed. Engines created without this
// option log nothing, at zero cost beyond the discard handler's no-op
// write.
func WithLogger[Item comparable](logger *slog.Logger) Option[Item] {
	return func(e *Engine[Item]) {
		if logger != nil {
			e.log = logger
		}
	}
}
