package memory

import (
	"fmt"
	"log/slog"

	"gastrolog/internal/chunk"
	"gastrolog/internal/index"
	"gastrolog/internal/index/memory/tindex"
	"gastrolog/internal/layertime"
)

// Factory parameter keys.
const (
	ParamMinLevel = "tindexMinLevel"
	ParamMaxLevel = "tindexMaxLevel"
)

// Default values.
const (
	DefaultMinLevel = layertime.LevelSecond
	DefaultMaxLevel = layertime.LevelDay
)

// NewFactory returns a factory function that creates in-memory IndexManagers.
func NewFactory() index.ManagerFactory {
	return func(params map[string]string, chunkManager chunk.ChunkManager, logger *slog.Logger) (index.IndexManager, error) {
		minLevel := DefaultMinLevel
		if v, ok := params[ParamMinLevel]; ok {
			l, ok := layertime.ParseLevel(v)
			if !ok {
				return nil, fmt.Errorf("invalid %s: %q", ParamMinLevel, v)
			}
			minLevel = l
		}

		maxLevel := DefaultMaxLevel
		if v, ok := params[ParamMaxLevel]; ok {
			l, ok := layertime.ParseLevel(v)
			if !ok {
				return nil, fmt.Errorf("invalid %s: %q", ParamMaxLevel, v)
			}
			maxLevel = l
		}
		if minLevel > maxLevel {
			return nil, fmt.Errorf("%s (%s) must not exceed %s (%s)", ParamMinLevel, minLevel, ParamMaxLevel, maxLevel)
		}

		tIdx := tindex.NewIndexer(chunkManager, minLevel, maxLevel, logger)

		mgr := NewManager([]index.Indexer{tIdx}, logger)
		mgr.SetTemporalIndexer(tIdx)
		return mgr, nil
	}
}
