// Command gastrolog demonstrates the layered temporal inverted index: it
// appends a handful of log records to an in-memory chunk, seals it, builds
// the temporal index, and runs a sample range query against it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gastrolog/internal/chunk"
	chunkmemory "gastrolog/internal/chunk/memory"
	indexmemory "gastrolog/internal/index/memory"
	"gastrolog/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("gastrolog", flag.ContinueOnError)
	debug := fs.Bool("debug", false, "enable debug logging")
	debugComponent := fs.String("debug-component", "", "enable debug logging for one component only (e.g. index-tindex)")
	minLevel := fs.String("min-level", "second", "finest temporal index level")
	maxLevel := fs.String("max-level", "day", "coarsest temporal index level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	filter := logging.NewComponentFilterHandler(base, level)
	if *debugComponent != "" {
		filter.SetLevel(*debugComponent, slog.LevelDebug)
	}
	logger := slog.New(filter)

	chunkMgr, err := chunkmemory.NewManager(chunkmemory.Config{Logger: logger})
	if err != nil {
		return fmt.Errorf("new chunk manager: %w", err)
	}
	defer func() { _ = chunkMgr.Close() }()

	chunkID, err := seedChunk(chunkMgr)
	if err != nil {
		return fmt.Errorf("seed chunk: %w", err)
	}

	factory := indexmemory.NewFactory()
	idxMgr, err := factory(map[string]string{
		indexmemory.ParamMinLevel: *minLevel,
		indexmemory.ParamMaxLevel: *maxLevel,
	}, chunkMgr, logger)
	if err != nil {
		return fmt.Errorf("new index manager: %w", err)
	}

	ctx := context.Background()
	if err := idxMgr.BuildIndexes(ctx, chunkID); err != nil {
		return fmt.Errorf("build indexes: %w", err)
	}

	mgr, ok := idxMgr.(*indexmemory.Manager)
	if !ok {
		return fmt.Errorf("unexpected index manager type %T", idxMgr)
	}
	tindex, err := mgr.OpenTemporalIndex(chunkID)
	if err != nil {
		return fmt.Errorf("open temporal index: %w", err)
	}

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC)
	tokens := tindex.Get(from, to)
	logger.Info("range query", "from", from, "to", to, "tokens", tokens)

	for _, stat := range tindex.Stats() {
		logger.Debug("layer stats", "level", stat.Level, "buckets", stat.Buckets, "width32", stat.Width32)
	}

	return nil
}

// seedChunk appends a small spread of demo records across five minutes and
// seals the chunk so it becomes indexable.
func seedChunk(mgr chunk.ChunkManager) (chunk.ChunkID, error) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lines := []string{
		"starting up service=web",
		"accepted connection from=10.0.0.4",
		"request path=/health status=200",
		"request path=/orders status=500 error=timeout",
		"shutting down service=web",
	}

	var chunkID chunk.ChunkID
	for i, line := range lines {
		id, _, err := mgr.AppendPreserved(chunk.Record{
			WriteTS: base.Add(time.Duration(i) * time.Minute),
			Raw:     []byte(line),
		})
		if err != nil {
			return chunk.ChunkID{}, err
		}
		chunkID = id
	}

	if err := mgr.Seal(); err != nil {
		return chunk.ChunkID{}, err
	}
	return chunkID, nil
}
