package extract

import (
	"sort"
	"time"
)

// Bucket layouts. Lexicographic order of the keys equals chronological
// order, which later "most-recent-first" re-sorts rely on.
const (
	dayLayout  = "2006-01-02"
	hourLayout = "2006-01-02 15"
)

// DayBucket returns the stable day key for a timestamp.
func DayBucket(t time.Time) string {
	return t.Format(dayLayout)
}

// HourBucket returns the stable hour key for a timestamp.
func HourBucket(t time.Time) string {
	return t.Format(hourLayout)
}

// BucketCount is one bucket with its event count.
type BucketCount struct {
	Key   string
	Count int
}

// CountByBucket groups timestamps with the given bucket function and
// returns counts sorted ascending by key.
func CountByBucket(ts []time.Time, bucket func(time.Time) string) []BucketCount {
	counts := make(map[string]int, len(ts))
	for _, t := range ts {
		counts[bucket(t)]++
	}
	out := make([]BucketCount, 0, len(counts))
	for key, n := range counts {
		out = append(out, BucketCount{Key: key, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
