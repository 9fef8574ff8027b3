package layertime

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Posting is one time-stamped input record: a timestamp paired with the
// (possibly empty) set of opaque tokens observed at that instant.
type Posting struct {
	Timestamp time.Time
	Tokens    []string
}

// levelsInRange returns every level from min to max, inclusive, ascending.
func levelsInRange(min, max LayerLevel) []LayerLevel {
	out := make([]LayerLevel, 0, int(max-min)+1)
	for l := min; l <= max; l++ {
		out = append(out, l)
	}
	return out
}

// levelGroups is the per-level grouping result produced by groupLevel:
// sorted bucket starts and, parallel to them, the deduplicated token
// strings seen in each bucket. Building this per level requires no shared
// mutable state, so every level can be grouped concurrently; token
// interning into the shared dictionary happens afterwards, sequentially.
type levelGroups struct {
	level  LayerLevel
	starts []uint64
	tokens [][]string
}

// groupLevel buckets postings for a single level: compute
// vi(trunc(level, t)) for every posting, group by that coordinate, union
// the token sets within each group, and sort groups ascending by vi.
//
// A posting with no tokens still establishes (or reuses) a bucket boundary;
// it just contributes nothing to that bucket's token set.
func groupLevel(level LayerLevel, postings []Posting) levelGroups {
	sets := make(map[uint64]map[string]struct{}, len(postings))
	for _, p := range postings {
		b := vi(trunc(level, p.Timestamp))
		set, ok := sets[b]
		if !ok {
			set = make(map[string]struct{})
			sets[b] = set
		}
		for _, tok := range p.Tokens {
			set[tok] = struct{}{}
		}
	}

	starts := make([]uint64, 0, len(sets))
	for b := range sets {
		starts = append(starts, b)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	tokens := make([][]string, len(starts))
	for i, b := range starts {
		set := sets[b]
		toks := make([]string, 0, len(set))
		for t := range set {
			toks = append(toks, t)
		}
		tokens[i] = toks
	}

	return levelGroups{level: level, starts: starts, tokens: tokens}
}

// load builds a brand new layerStore from postings and returns it, without
// touching the Index's currently published store. Per-level grouping is
// independent work, fanned out with errgroup the same way
// internal/index/build.go parallelizes independent per-chunk indexer
// builds; the final interning pass is sequential because it writes into
// one shared token dictionary.
func load(ctx context.Context, minLevel, maxLevel LayerLevel, postings []Posting) (*layerStore, error) {
	for _, p := range postings {
		if err := checkEpoch(p.Timestamp); err != nil {
			return nil, err
		}
	}

	levels := levelsInRange(minLevel, maxLevel)
	results := make([]levelGroups, len(levels))

	g, gctx := errgroup.WithContext(ctx)
	for i, lvl := range levels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = groupLevel(lvl, postings)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dict := newTokenDict()
	layers := make(map[LayerLevel]*layer, len(results))
	for _, r := range results {
		postingsIDs := make([][]uint32, len(r.starts))
		for i, toks := range r.tokens {
			ids := make([]uint32, 0, len(toks))
			for _, t := range toks {
				ids = append(ids, dict.intern(t))
			}
			sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
			postingsIDs[i] = ids
		}
		layers[r.level] = &layer{starts: newViArray(r.starts), postings: postingsIDs}
	}

	return &layerStore{minLevel: minLevel, maxLevel: maxLevel, layers: layers, dict: dict}, nil
}
