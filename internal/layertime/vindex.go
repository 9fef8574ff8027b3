package layertime

import (
	"errors"
	"time"
)

// ErrOutOfEpoch is returned by Load when a posting's timestamp precedes the
// Unix epoch. vi is unsigned, so a pre-epoch timestamp would silently wrap
// to a huge coordinate; rejecting it at the boundary is the only sound
// behavior.
var ErrOutOfEpoch = errors.New("layertime: timestamp before epoch")

// vi maps a UTC timestamp to a monotone, injective unsigned microsecond
// coordinate since the Unix epoch. vi(epoch) == 0. Comparisons on vi are
// equivalent to comparisons on the originating timestamp, which is what
// lets the range searcher binary-search sorted vi arrays instead of
// comparing time.Time values directly.
func vi(t time.Time) uint64 {
	return uint64(t.UTC().UnixMicro())
}

// checkEpoch reports ErrOutOfEpoch if t is strictly before the Unix epoch.
func checkEpoch(t time.Time) error {
	if t.UTC().UnixMicro() < 0 {
		return ErrOutOfEpoch
	}
	return nil
}
