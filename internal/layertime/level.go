// Package layertime implements a multi-resolution layered temporal inverted
// index: a bulk-loaded, in-memory structure that maps time-stamped postings
// to deduplicated token sets and answers half-open range queries
// [t_from, t_to) by descending a hierarchy of granularities, taking coarse
// buckets wholesale and recursing to finer granularity only at the two
// edges of the query window.
package layertime

import "time"

// LayerLevel is a granularity at which timestamps are bucketed. Levels form
// a closed, totally ordered enumeration from NONE (no truncation) to YEAR
// (coarsest). Arithmetic on the underlying ordinal implements deeper/
// shallower.
type LayerLevel uint8

const (
	LevelNone LayerLevel = iota
	LevelSecond
	LevelMinute
	LevelHour
	LevelDay
	LevelMonth
	LevelQuarter
	LevelYear
)

// MinLevel and MaxLevel bound the enumeration.
const (
	MinLevel = LevelNone
	MaxLevel = LevelYear
)

func (l LayerLevel) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelSecond:
		return "second"
	case LevelMinute:
		return "minute"
	case LevelHour:
		return "hour"
	case LevelDay:
		return "day"
	case LevelMonth:
		return "month"
	case LevelQuarter:
		return "quarter"
	case LevelYear:
		return "year"
	default:
		return "invalid"
	}
}

// ParseLevel parses a level name as produced by String. Used by the
// factory/config layer to turn configuration strings into levels.
func ParseLevel(s string) (LayerLevel, bool) {
	switch s {
	case "none":
		return LevelNone, true
	case "second":
		return LevelSecond, true
	case "minute":
		return LevelMinute, true
	case "hour":
		return LevelHour, true
	case "day":
		return LevelDay, true
	case "month":
		return LevelMonth, true
	case "quarter":
		return LevelQuarter, true
	case "year":
		return LevelYear, true
	default:
		return 0, false
	}
}

// deeper returns the next finer level. Undefined below LevelNone; callers
// only invoke it when the current level is known to be above the search's
// min level.
func (l LayerLevel) deeper() LayerLevel {
	return l - 1
}

// shallower returns the next coarser level. Undefined above LevelYear.
func (l LayerLevel) shallower() LayerLevel {
	return l + 1
}

// trunc snaps t to the start of its bucket at level l. It is idempotent
// (trunc(l, trunc(l, t)) == trunc(l, t)) and monotone in t.
func trunc(l LayerLevel, t time.Time) time.Time {
	t = t.UTC()
	switch l {
	case LevelNone:
		return t
	case LevelSecond:
		return t.Truncate(time.Second)
	case LevelMinute:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	case LevelHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
	case LevelDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case LevelMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case LevelQuarter:
		m := int(t.Month())
		qStart := 1 + 3*((m-1)/3)
		return time.Date(t.Year(), time.Month(qStart), 1, 0, 0, 0, 0, time.UTC)
	case LevelYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return t
	}
}
