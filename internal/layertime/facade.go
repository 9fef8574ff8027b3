package layertime

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrLevelRange is returned by New when minLevel is coarser than maxLevel.
var ErrLevelRange = errors.New("layertime: min level after max level")

// Index is a bulk-loaded, in-memory, multi-resolution temporal inverted
// index. The zero-value-adjacent way to obtain one is New; an Index starts
// in the Empty state (every Get returns nothing) until the first successful
// Load publishes a store.
//
// An Index is safe for concurrent use: Load may run concurrently with any
// number of Get calls. A reader's Get either observes the store as it was
// before a concurrent Load's publish point, or entirely as it is after —
// never a partially built store.
type Index struct {
	minLevel, maxLevel LayerLevel
	store              atomic.Pointer[layerStore]
	lastUpdate         atomic.Pointer[time.Time]
}

// New constructs an Index scoped to [minLevel, maxLevel]. Both bounds
// default to the full LevelNone..LevelYear range when this package's
// MinLevel/MaxLevel constants are passed. Returns ErrLevelRange if
// minLevel is coarser than maxLevel.
func New(minLevel, maxLevel LayerLevel) (*Index, error) {
	if minLevel > maxLevel {
		return nil, ErrLevelRange
	}
	x := &Index{minLevel: minLevel, maxLevel: maxLevel}
	x.store.Store(emptyStore(minLevel, maxLevel))
	return x, nil
}

// URI is the opaque backing-store identifier. The in-memory variant is
// always ":memory:".
func (x *Index) URI() string { return ":memory:" }

// MinLevel and MaxLevel report the range this Index was constructed with.
func (x *Index) MinLevel() LayerLevel { return x.minLevel }
func (x *Index) MaxLevel() LayerLevel { return x.maxLevel }

// Load bulk-loads postings, replacing any previously loaded data. It
// builds the new layer store entirely off to the side and only then
// publishes it with a single atomic pointer store, so concurrent readers
// never observe a half-built store. On error (an out-of-epoch timestamp,
// or ctx cancellation) the previous state, empty or a prior loaded
// snapshot, is left untouched.
func (x *Index) Load(ctx context.Context, postings []Posting) error {
	newStore, err := load(ctx, x.minLevel, x.maxLevel, postings)
	if err != nil {
		return err
	}
	x.store.Store(newStore)
	now := time.Now().UTC()
	x.lastUpdate.Store(&now)
	return nil
}

// Get answers the half-open range [tFrom, tTo) with the deduplicated union
// of tokens from every posting whose timestamp falls inside it, after
// first truncating both endpoints to this Index's min level. A
// window narrower than one min-level bucket, or one that does not straddle
// a bucket boundary, becomes empty after truncation — this is the
// precision-loss tradeoff the layered design makes in exchange for
// coarse-bucket skipping.
//
// The range is half-open: a posting whose truncated timestamp equals tTo
// (after tTo is itself truncated) is excluded. An inverted or empty range
// (tFrom >= tTo) always returns an empty, non-nil slice.
func (x *Index) Get(tFrom, tTo time.Time) []string {
	if !tFrom.Before(tTo) {
		return []string{}
	}

	store := x.store.Load()

	tFromTrunc := trunc(store.minLevel, tFrom)
	tToTrunc := trunc(store.minLevel, tTo)

	lo := vi(tFromTrunc)
	hi := vi(tToTrunc)
	if lo >= hi {
		return []string{}
	}

	ids := search(store, store.maxLevel, lo, hi)
	return dedupeTokens(store, ids)
}

// LastUpdate returns the timestamp of the most recent successful Load, and
// false if no load has ever succeeded.
func (x *Index) LastUpdate() (time.Time, bool) {
	t := x.lastUpdate.Load()
	if t == nil {
		return time.Time{}, false
	}
	return *t, true
}

// LevelStat summarizes one level's bucket count and chosen vi width, for
// operational introspection and size estimation.
type LevelStat struct {
	Level   LayerLevel
	Buckets int
	Width32 bool
}

// Stats reports per-level bucket counts and width selection for the
// currently published store.
func (x *Index) Stats() []LevelStat {
	store := x.store.Load()
	levels := levelsInRange(store.minLevel, store.maxLevel)
	out := make([]LevelStat, 0, len(levels))
	for _, l := range levels {
		ly := store.layers[l]
		if ly == nil {
			out = append(out, LevelStat{Level: l})
			continue
		}
		out = append(out, LevelStat{Level: l, Buckets: ly.starts.len(), Width32: ly.width32()})
	}
	return out
}

// dedupeTokens rehydrates token IDs to strings, dropping duplicates and
// empty tokens. Order is not part of the contract; callers that need a
// stable order should sort the result themselves.
func dedupeTokens(store *layerStore, ids []uint32) []string {
	if len(ids) == 0 {
		return []string{}
	}
	seen := make(map[uint32]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if tok := store.dict.get(id); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
