package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterSessionsSplitsOnGap(t *testing.T) {
	t0 := time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)
	ts := []time.Time{t0, t0.Add(1 * time.Minute), t0.Add(10 * time.Minute)}

	spans := ClusterSessions(ts, 5*time.Minute)
	require.Len(t, spans, 2)
	assert.Equal(t, t0, spans[0].Start)
	assert.Equal(t, t0.Add(1*time.Minute), spans[0].End)
	assert.Equal(t, 1*time.Minute, spans[0].Duration)
	assert.Equal(t, t0.Add(10*time.Minute), spans[1].Start)
	assert.Equal(t, time.Duration(0), spans[1].Duration)
}

func TestClusterSessionsGapIsExclusive(t *testing.T) {
	t0 := time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)

	// A gap of exactly the threshold stays in the same span.
	spans := ClusterSessions([]time.Time{t0, t0.Add(5 * time.Minute)}, 5*time.Minute)
	require.Len(t, spans, 1)
	assert.Equal(t, 5*time.Minute, spans[0].Duration)

	spans = ClusterSessions([]time.Time{t0, t0.Add(5*time.Minute + time.Second)}, 5*time.Minute)
	assert.Len(t, spans, 2)
}

func TestClusterSessionsSortsInput(t *testing.T) {
	t0 := time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)
	ts := []time.Time{t0.Add(2 * time.Minute), t0, t0.Add(1 * time.Minute)}

	spans := ClusterSessions(ts, DefaultSessionGap)
	require.Len(t, spans, 1)
	assert.Equal(t, t0, spans[0].Start)
	assert.Equal(t, 2*time.Minute, spans[0].Duration)
}

func TestClusterSessionsEdges(t *testing.T) {
	assert.Nil(t, ClusterSessions(nil, DefaultSessionGap))

	t0 := time.Now()
	spans := ClusterSessions([]time.Time{t0}, DefaultSessionGap)
	require.Len(t, spans, 1)
	assert.Equal(t, time.Duration(0), spans[0].Duration)
	assert.Equal(t, spans[0].Start, spans[0].End)
}
