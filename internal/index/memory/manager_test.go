package memory

import (
	"context"
	"testing"
	gotime "time"

	"gastrolog/internal/chunk"
	chunkmemory "gastrolog/internal/chunk/memory"
	"gastrolog/internal/index"
	"gastrolog/internal/index/memory/tindex"
	"gastrolog/internal/layertime"
)

// setupChunkManager seals records into a single in-memory chunk. Records
// carry their WriteTS directly (AppendPreserved) so the temporal buckets
// the indexer derives from them are deterministic.
func setupChunkManager(t *testing.T, records []chunk.Record) (chunk.ChunkManager, chunk.ChunkID) {
	t.Helper()
	manager, err := chunkmemory.NewManager(chunkmemory.Config{})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	for _, rec := range records {
		if _, _, err := manager.AppendPreserved(rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := manager.Seal(); err != nil {
		t.Fatalf("seal: %v", err)
	}
	metas, err := manager.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(metas))
	}
	return manager, metas[0].ID
}

func setupManager(t *testing.T, records []chunk.Record) (*Manager, chunk.ChunkID) {
	t.Helper()
	chunkMgr, chunkID := setupChunkManager(t, records)
	tIdx := tindex.NewIndexer(chunkMgr, layertime.LevelSecond, layertime.LevelDay, nil)
	mgr := NewManager([]index.Indexer{tIdx}, nil)
	mgr.SetTemporalIndexer(tIdx)
	return mgr, chunkID
}

func TestManagerBuildAndOpenTemporalIndex(t *testing.T) {
	attrs := chunk.Attributes{"source": "test"}
	records := []chunk.Record{
		{WriteTS: gotime.Date(1970, 1, 1, 0, 0, 0, 0, gotime.UTC), Attrs: attrs, Raw: []byte("alpha error")},
		{WriteTS: gotime.Date(1970, 1, 1, 0, 0, 1, 0, gotime.UTC), Attrs: attrs, Raw: []byte("beta warning")},
	}
	mgr, chunkID := setupManager(t, records)

	if err := mgr.BuildIndexes(context.Background(), chunkID); err != nil {
		t.Fatalf("build: %v", err)
	}

	idx, err := mgr.OpenTemporalIndex(chunkID)
	if err != nil {
		t.Fatalf("open temporal index: %v", err)
	}

	got := idx.Get(
		gotime.Date(1970, 1, 1, 0, 0, 0, 0, gotime.UTC),
		gotime.Date(1970, 1, 1, 0, 0, 2, 0, gotime.UTC),
	)
	want := map[string]bool{"alpha": true, "error": true, "beta": true, "warning": true}
	if len(got) != len(want) {
		t.Fatalf("Get = %v, want tokens %v", got, want)
	}
}

func TestManagerOpenTemporalIndexNotBuilt(t *testing.T) {
	mgr, chunkID := setupManager(t, nil)

	if _, err := mgr.OpenTemporalIndex(chunkID); err != index.ErrIndexNotFound {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestManagerOpenTemporalIndexUnwired(t *testing.T) {
	mgr := NewManager(nil, nil)

	if _, err := mgr.OpenTemporalIndex(chunk.NewChunkID()); err != index.ErrIndexNotFound {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestManagerDeleteIndexes(t *testing.T) {
	attrs := chunk.Attributes{"source": "test"}
	records := []chunk.Record{
		{WriteTS: gotime.Date(1970, 1, 1, 0, 0, 0, 0, gotime.UTC), Attrs: attrs, Raw: []byte("one")},
	}
	mgr, chunkID := setupManager(t, records)

	if err := mgr.BuildIndexes(context.Background(), chunkID); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := mgr.DeleteIndexes(chunkID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := mgr.OpenTemporalIndex(chunkID); err != index.ErrIndexNotFound {
		t.Fatalf("expected ErrIndexNotFound after delete, got %v", err)
	}
}

func TestManagerIndexesComplete(t *testing.T) {
	attrs := chunk.Attributes{"source": "test"}
	records := []chunk.Record{
		{WriteTS: gotime.Date(1970, 1, 1, 0, 0, 0, 0, gotime.UTC), Attrs: attrs, Raw: []byte("one")},
	}
	mgr, chunkID := setupManager(t, records)

	complete, err := mgr.IndexesComplete(chunkID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if complete {
		t.Fatal("expected incomplete before build")
	}

	if err := mgr.BuildIndexes(context.Background(), chunkID); err != nil {
		t.Fatalf("build: %v", err)
	}

	complete, err = mgr.IndexesComplete(chunkID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !complete {
		t.Fatal("expected complete after build")
	}
}

func TestManagerIndexSizes(t *testing.T) {
	attrs := chunk.Attributes{"source": "test"}
	records := []chunk.Record{
		{WriteTS: gotime.Date(1970, 1, 1, 0, 0, 0, 0, gotime.UTC), Attrs: attrs, Raw: []byte("one two three")},
	}
	mgr, chunkID := setupManager(t, records)

	if err := mgr.BuildIndexes(context.Background(), chunkID); err != nil {
		t.Fatalf("build: %v", err)
	}

	sizes := mgr.IndexSizes(chunkID)
	if _, ok := sizes["tindex"]; !ok {
		t.Fatalf("expected tindex size entry, got %v", sizes)
	}
}
