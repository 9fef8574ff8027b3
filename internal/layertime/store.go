package layertime

import "sort"

// viArray is a sorted array of vi coordinates, backed by the narrowest
// unsigned width that holds every value (u32 when possible, u64
// otherwise — per-level, not per-store, since a deep level hierarchy may
// have early, compact levels and a far-future-spanning coarse level in the
// same store).
type viArray interface {
	at(i int) uint64
	len() int
}

type viArray32 []uint32

func (a viArray32) at(i int) uint64 { return uint64(a[i]) }
func (a viArray32) len() int        { return len(a) }

type viArray64 []uint64

func (a viArray64) at(i int) uint64 { return a[i] }
func (a viArray64) len() int        { return len(a) }

// widthFor reports whether every value in vals fits in 32 bits.
func widthFor(vals []uint64) bool {
	for _, v := range vals {
		if v > 0xFFFFFFFF {
			return false
		}
	}
	return true
}

// newViArray picks the narrowest representation for vals: u32 when every
// value fits, u64 otherwise.
func newViArray(vals []uint64) viArray {
	if widthFor(vals) {
		out := make(viArray32, len(vals))
		for i, v := range vals {
			out[i] = uint32(v)
		}
		return out
	}
	out := make(viArray64, len(vals))
	copy(out, vals)
	return out
}

// lowerBound returns the first index i in a such that a.at(i) >= key, or
// a.len() if no such index exists. Standard "first index whose element is
// >= the key" binary search.
func lowerBound(a viArray, key uint64) int {
	return sort.Search(a.len(), func(i int) bool { return a.at(i) >= key })
}

// layer holds one granularity's bucket starts and postings lists, after
// load. starts is strictly increasing; postings has the same length, each
// entry being the dense token-ID set observed for that bucket.
type layer struct {
	starts   viArray
	postings [][]uint32
}

func (l *layer) width32() bool {
	_, ok := l.starts.(viArray32)
	return ok
}

// layerStore is the immutable, published snapshot behind Index's atomic
// pointer. A fresh one is built entirely off to the side by Load and then
// swapped in with a single pointer store, so a reader never observes a
// partially built store.
type layerStore struct {
	minLevel, maxLevel LayerLevel
	layers             map[LayerLevel]*layer
	dict               *tokenDict
}

// emptyStore is the zero-state snapshot: Get against it always returns
// nothing.
func emptyStore(minLevel, maxLevel LayerLevel) *layerStore {
	return &layerStore{minLevel: minLevel, maxLevel: maxLevel, layers: map[LayerLevel]*layer{}, dict: newTokenDict()}
}
