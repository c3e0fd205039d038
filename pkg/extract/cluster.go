package extract

import (
	"sort"
	"time"
)

// DefaultSessionGap is the inactivity threshold commonly used to split
// activity into sessions.
const DefaultSessionGap = 5 * time.Minute

// Span is one contiguous run of activity.
type Span struct {
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// ClusterSessions sorts the timestamps ascending and starts a new span
// whenever the gap between consecutive events exceeds gap. A span of
// one event has zero duration. Empty input yields no spans.
func ClusterSessions(ts []time.Time, gap time.Duration) []Span {
	if len(ts) == 0 {
		return nil
	}
	sorted := make([]time.Time, len(ts))
	copy(sorted, ts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var spans []Span
	start, end := sorted[0], sorted[0]
	for _, t := range sorted[1:] {
		if t.Sub(end) > gap {
			spans = append(spans, Span{Start: start, End: end, Duration: end.Sub(start)})
			start = t
		}
		end = t
	}
	spans = append(spans, Span{Start: start, End: end, Duration: end.Sub(start)})
	return spans
}
