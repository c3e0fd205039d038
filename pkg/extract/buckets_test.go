package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketKeysSortChronologically(t *testing.T) {
	a := time.Date(2023, 9, 30, 23, 5, 0, 0, time.UTC)
	b := time.Date(2023, 10, 1, 8, 30, 0, 0, time.UTC)

	assert.Equal(t, "2023-09-30", DayBucket(a))
	assert.Equal(t, "2023-10-01 08", HourBucket(b))
	assert.Less(t, DayBucket(a), DayBucket(b))
	assert.Less(t, HourBucket(a), HourBucket(b))
}

func TestCountByBucket(t *testing.T) {
	base := time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)
	ts := []time.Time{
		base.Add(25 * time.Hour), // later day first, output must still be ascending
		base,
		base.Add(10 * time.Minute),
		base.Add(26 * time.Hour),
	}

	got := CountByBucket(ts, DayBucket)
	assert.Equal(t, []BucketCount{
		{Key: "2023-10-01", Count: 2},
		{Key: "2023-10-02", Count: 2},
	}, got)

	byHour := CountByBucket(ts, HourBucket)
	assert.Equal(t, []BucketCount{
		{Key: "2023-10-01 12", Count: 2},
		{Key: "2023-10-02 13", Count: 1},
		{Key: "2023-10-02 14", Count: 1},
	}, byHour)

	assert.Empty(t, CountByBucket(nil, DayBucket))
}
