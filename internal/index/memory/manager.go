package memory

import (
	"context"
	"log/slog"

	"gastrolog/internal/chunk"
	"gastrolog/internal/index"
	"gastrolog/internal/layertime"
	"gastrolog/internal/logging"
)

// TemporalIndexStore provides access to the per-chunk layered temporal
// inverted index built by internal/index/memory/tindex.
type TemporalIndexStore interface {
	Get(chunkID chunk.ChunkID) (*layertime.Index, bool)
	Delete(chunkID chunk.ChunkID)
}

// Manager manages in-memory index storage.
//
// Logging:
//   - Logger is dependency-injected via NewManager
//   - Manager owns its scoped logger (component="index-manager", type="memory")
//   - Logging is intentionally sparse; only lifecycle events are logged
//   - No logging in hot paths (index lookups)
type Manager struct {
	indexers    []index.Indexer
	tindexStore TemporalIndexStore
	builder     *index.BuildHelper

	// Logger for this manager instance.
	// Scoped with component="index-manager", type="memory" at construction time.
	logger *slog.Logger
}

// NewManager creates an in-memory index manager.
// If logger is nil, logging is disabled.
func NewManager(indexers []index.Indexer, logger *slog.Logger) *Manager {
	return &Manager{
		indexers: indexers,
		builder:  index.NewBuildHelper(),
		logger:   logging.Default(logger).With("component", "index-manager", "type", "memory"),
	}
}

func (m *Manager) BuildIndexes(ctx context.Context, chunkID chunk.ChunkID) error {
	return m.builder.Build(ctx, chunkID, m.indexers)
}

// SetTemporalIndexer wires the layered temporal index into this manager.
// Call once after construction; NewFactory always does this. A nil store leaves OpenTemporalIndex returning
// index.ErrIndexNotFound.
func (m *Manager) SetTemporalIndexer(store TemporalIndexStore) {
	m.tindexStore = store
}

// DeleteIndexes removes all index data for the given chunk from memory stores.
func (m *Manager) DeleteIndexes(chunkID chunk.ChunkID) error {
	if m.tindexStore != nil {
		m.tindexStore.Delete(chunkID)
	}
	return nil
}

// OpenTemporalIndex returns the layered temporal index built for chunkID.
func (m *Manager) OpenTemporalIndex(chunkID chunk.ChunkID) (*layertime.Index, error) {
	if m.tindexStore == nil {
		return nil, index.ErrIndexNotFound
	}
	idx, ok := m.tindexStore.Get(chunkID)
	if !ok {
		return nil, index.ErrIndexNotFound
	}
	return idx, nil
}

// IndexSizes estimates the in-memory data footprint for each index.
func (m *Manager) IndexSizes(chunkID chunk.ChunkID) map[string]int64 {
	sizes := make(map[string]int64)

	if m.tindexStore != nil {
		if idx, ok := m.tindexStore.Get(chunkID); ok {
			var s int64
			for _, stat := range idx.Stats() {
				width := int64(8)
				if stat.Width32 {
					width = 4
				}
				s += int64(stat.Buckets) * width
			}
			sizes["tindex"] = s
		}
	}

	return sizes
}

// IndexesComplete reports whether all indexes exist for the given chunk.
// For in-memory indexes, this checks if all stores have entries for the chunk.
func (m *Manager) IndexesComplete(chunkID chunk.ChunkID) (bool, error) {
	if m.tindexStore != nil {
		if _, ok := m.tindexStore.Get(chunkID); !ok {
			return false, nil
		}
	}
	return true, nil
}
