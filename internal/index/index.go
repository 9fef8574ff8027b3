// Package index defines the pluggable indexing seam: an Indexer builds one
// kind of index artifact per sealed chunk, and an IndexManager owns a set of
// Indexers plus the storage needed to serve them back.
package index

import (
	"context"
	"errors"
	"log/slog"

	"gastrolog/internal/chunk"
)

var ErrIndexNotFound = errors.New("index not found")

// ManagerFactory creates an IndexManager from configuration parameters.
// Factories validate required params, apply defaults, and return a fully
// constructed manager or a descriptive error.
// Factories must not start goroutines or perform I/O beyond validation.
//
// The chunkManager parameter is required because indexers need to read
// chunk data to build indexes.
//
// The logger parameter is optional. If nil, the manager disables logging.
// Factories should scope the logger with component-specific attributes.
type ManagerFactory func(params map[string]string, chunkManager chunk.ChunkManager, logger *slog.Logger) (IndexManager, error)

// Indexer builds one index artifact per sealed chunk.
type Indexer interface {
	// Name returns a stable identifier for this indexer (e.g. "tindex").
	Name() string

	// Build builds the index for the given sealed chunk.
	// It is expected to:
	// - open its own cursor
	// - read records
	// - write its own index artifacts
	//
	// Build must be idempotent or overwrite existing artifacts.
	Build(ctx context.Context, chunkID chunk.ChunkID) error
}

// IndexManager owns a set of Indexers and the per-chunk storage needed to
// build and serve their results.
type IndexManager interface {
	BuildIndexes(ctx context.Context, chunkID chunk.ChunkID) error
	DeleteIndexes(chunkID chunk.ChunkID) error

	// IndexesComplete reports whether all indexes exist for the given chunk.
	IndexesComplete(chunkID chunk.ChunkID) (bool, error)

	// IndexSizes returns an estimate of the in-memory data footprint for
	// each index. Missing indexes are omitted from the map.
	IndexSizes(chunkID chunk.ChunkID) map[string]int64
}
