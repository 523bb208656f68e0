package collector

import (
	"maps"
	"slices"
	"time"

	"SMASentinel/internal/model"
)

// ResampleToClose buckets samples into fixed steps aligned to the Unix epoch and keeps
// the latest observation of each bucket. The output keeps that observation's own
// timestamp, not the bucket start.
func ResampleToClose(samples []model.Sample, step time.Duration) []model.Sample {
	stepSecs := int64(step / time.Second)
	if stepSecs <= 0 {
		return slices.Clone(samples)
	}

	buckets := make(map[int64]model.Sample)
	for _, s := range samples {
		key := floorDiv(s.Time.Unix(), stepSecs) * stepSecs
		if prev, ok := buckets[key]; !ok || s.Time.After(prev.Time) {
			buckets[key] = s
		}
	}

	out := make([]model.Sample, 0, len(buckets))
	for _, key := range slices.Sorted(maps.Keys(buckets)) {
		out = append(out, buckets[key])
	}
	return out
}

// ResampleHours is ResampleToClose with an N-hour step. hours <= 0 returns the input unchanged.
func ResampleHours(samples []model.Sample, hours int) []model.Sample {
	return ResampleToClose(samples, time.Duration(hours)*time.Hour)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
