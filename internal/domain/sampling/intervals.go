package sampling

import (
	"errors"
	"fmt"
	"math"

	"github.com/forPelevin/videin/internal/types"
)

var (
	ErrEmptyTimeline = errors.New("timeline has no duration")
	ErrNoIntervals   = errors.New("total duration is shorter than one interval")
)

// Partition carves [0, total) into floor(output/sampleInterval) equal source
// intervals. Only the aggregate timeline length matters here, not the files.
func Partition(total, sampleInterval, output float64) ([]types.Interval, error) {
	if total <= 0 {
		return nil, ErrEmptyTimeline
	}
	if sampleInterval <= 0 || output <= 0 {
		return nil, fmt.Errorf("interval (%v) and total (%v) must be > 0", sampleInterval, output)
	}
	n := int(math.Floor(output / sampleInterval))
	if n == 0 {
		return nil, fmt.Errorf("%w: total %gs < interval %gs", ErrNoIntervals, output, sampleInterval)
	}

	step := total / float64(n)
	out := make([]types.Interval, n)
	for i := range out {
		out[i] = types.Interval{
			ID:    i,
			Start: float64(i) * step,
			End:   float64(i+1) * step,
		}
	}
	return out, nil
}

// MapFiles sets each interval's file list to the files whose half-open span
// overlaps it and returns the ids of intervals left without files. Existing
// lists are replaced, so repeated calls give the same result.
func MapFiles(files []types.SourceFile, intervals []types.Interval) []int {
	var empty []int
	for i := range intervals {
		iv := &intervals[i]
		iv.Files = nil
		for _, f := range files {
			if f.TimelineEnd > iv.Start && f.TimelineStart < iv.End {
				iv.Files = append(iv.Files, f)
			}
		}
		if len(iv.Files) == 0 {
			empty = append(empty, iv.ID)
		}
	}
	return empty
}
