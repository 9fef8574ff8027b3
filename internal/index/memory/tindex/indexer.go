// Package tindex adapts internal/layertime's multi-resolution temporal
// inverted index into this repository's Indexer/IndexManager machinery: it
// reads sealed chunk records, tokenizes each record's raw body, and bulk
// loads the resulting (timestamp, tokens) postings into one
// layertime.Index per chunk.
package tindex

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gastrolog/internal/chunk"
	"gastrolog/internal/layertime"
	"gastrolog/internal/logging"
	"gastrolog/internal/tokenizer"
)

// Indexer builds a layertime.Index per sealed chunk, storing the result in
// memory. One instance covers every chunk the owning Manager knows about;
// each chunk gets its own independent layertime.Index, keyed by chunk ID.
type Indexer struct {
	manager            chunk.ChunkManager
	minLevel, maxLevel layertime.LayerLevel

	mu      sync.Mutex
	indices map[chunk.ChunkID]*layertime.Index

	logger *slog.Logger
}

// NewIndexer creates a temporal-index builder scoped to [minLevel,
// maxLevel]. If logger is nil, logging is disabled.
func NewIndexer(manager chunk.ChunkManager, minLevel, maxLevel layertime.LayerLevel, logger *slog.Logger) *Indexer {
	return &Indexer{
		manager:  manager,
		minLevel: minLevel,
		maxLevel: maxLevel,
		indices:  make(map[chunk.ChunkID]*layertime.Index),
		logger:   logging.Default(logger).With("component", "index-tindex", "type", "memory"),
	}
}

func (t *Indexer) Name() string {
	return "tindex"
}

// Build reads every record in the sealed chunk, tokenizes its raw body, and
// bulk loads the resulting postings into a fresh layertime.Index for this
// chunk. Build is idempotent: calling it again for the same chunk replaces
// that chunk's index wholesale.
func (t *Indexer) Build(ctx context.Context, chunkID chunk.ChunkID) error {
	meta, err := t.manager.Meta(chunkID)
	if err != nil {
		return fmt.Errorf("get chunk meta: %w", err)
	}
	if !meta.Sealed {
		return chunk.ErrChunkNotSealed
	}

	cursor, err := t.manager.OpenCursor(chunkID)
	if err != nil {
		return fmt.Errorf("open cursor: %w", err)
	}
	defer func() { _ = cursor.Close() }()

	var postings []layertime.Posting
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, _, err := cursor.Next()
		if err != nil {
			if err == chunk.ErrNoMoreRecords {
				break
			}
			return fmt.Errorf("read record: %w", err)
		}

		postings = append(postings, layertime.Posting{
			Timestamp: rec.WriteTS,
			Tokens:    recordTokens(rec.Raw),
		})
	}

	idx, err := layertime.New(t.minLevel, t.maxLevel)
	if err != nil {
		return fmt.Errorf("new temporal index: %w", err)
	}
	if err := idx.Load(ctx, postings); err != nil {
		return fmt.Errorf("load temporal index: %w", err)
	}

	t.mu.Lock()
	t.indices[chunkID] = idx
	t.mu.Unlock()

	t.logger.Debug("built temporal index", "chunk", chunkID, "records", len(postings))

	return nil
}

// extractors is the kv pipeline run over every record body in addition to
// plain word tokenization.
var extractors = tokenizer.DefaultExtractors()

// recordTokens derives the indexable token set for one record: word tokens
// from the raw body, plus a key=value token for every structured pair the
// extractors recognize, so a range query can match on either.
func recordTokens(raw []byte) []string {
	tokens := tokenizer.Tokens(raw)
	for _, kv := range tokenizer.CombinedExtract(raw, extractors) {
		tokens = append(tokens, kv.Key+"="+kv.Value)
	}
	return tokens
}

// Get returns the temporal index for chunkID, and false if no build has
// completed for that chunk.
func (t *Indexer) Get(chunkID chunk.ChunkID) (*layertime.Index, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx, ok := t.indices[chunkID]
	return idx, ok
}

// Delete removes the temporal index for chunkID from memory.
func (t *Indexer) Delete(chunkID chunk.ChunkID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.indices, chunkID)
}
