package series

import (
	"strconv"
	"strings"
	"time"
)

// layouts accepted by ParseStamp, most specific first.
var layouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseStamp parses the timestamp spellings market-data APIs use:
// RFC3339, "YYYY-MM-DD hh:mm:ss", "YYYY-MM-DD" and unix epochs in seconds or
// milliseconds. Unparseable input returns the zero time.
func ParseStamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FromEpoch(v)
	}
	return time.Time{}
}

// FromEpoch converts seconds or milliseconds since the epoch.
func FromEpoch(v int64) time.Time {
	if v <= 0 {
		return time.Time{}
	}
	if v > 1_000_000_000_000 { // ms
		return time.UnixMilli(v).UTC()
	}
	return time.Unix(v, 0).UTC()
}

// Latest returns the item with the newest timestamp.
// For equal timestamps, later input wins. Items with a zero timestamp only
// win when nothing else has a timestamp; among those the first one is kept.
func Latest[T any](items []T, at func(T) time.Time) (T, bool) {
	var best T
	if len(items) == 0 {
		return best, false
	}
	best = items[0]
	bestAt := at(best)
	for _, it := range items[1:] {
		ts := at(it)
		if ts.IsZero() {
			continue
		}
		if bestAt.IsZero() || ts.After(bestAt) || ts.Equal(bestAt) {
			best, bestAt = it, ts
		}
	}
	return best, true
}

// LatestKey returns the newest entry of a series keyed by timestamp strings,
// e.g. an intraday "Time Series (1min)" object. Keys that do not parse are
// compared lexically after every parseable key.
func LatestKey[V any](points map[string]V) (string, V, bool) {
	var (
		bestKey string
		bestAt  time.Time
		best    V
		found   bool
	)
	for k, v := range points {
		ts := ParseStamp(k)
		switch {
		case !found:
		case ts.IsZero() && bestAt.IsZero():
			if k <= bestKey {
				continue
			}
		case ts.IsZero():
			continue
		case !bestAt.IsZero() && (ts.Before(bestAt) || (ts.Equal(bestAt) && k <= bestKey)):
			continue
		}
		bestKey, bestAt, best, found = k, ts, v, true
	}
	return bestKey, best, found
}
