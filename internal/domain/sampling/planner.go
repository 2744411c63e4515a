package sampling

import (
	"math/rand/v2"

	"github.com/forPelevin/videin/internal/domain/timeline"
	"github.com/forPelevin/videin/internal/types"
)

const DefaultMaxAttempts = 100

// Planner picks one random window per interval that lies entirely inside a
// single source file.
//
// Every interval draws from its own PCG stream keyed by (Seed, interval id),
// so a plan is reproducible for a given seed regardless of the order or
// concurrency in which intervals are planned.
type Planner struct {
	Seed        uint64
	MaxAttempts int
}

func (p Planner) attempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

// Plan returns samples in interval order plus the intervals that produced none.
// files must be the timeline-ordered list from timeline.Build.
func (p Planner) Plan(intervals []types.Interval, files []types.SourceFile, sampleDur float64) types.Plan {
	var plan types.Plan
	for _, iv := range intervals {
		s, skip, ok := p.PlanInterval(iv, files, sampleDur)
		if !ok {
			plan.Skipped = append(plan.Skipped, skip)
			continue
		}
		plan.Samples = append(plan.Samples, s)
	}
	return plan
}

// PlanInterval runs the bounded retry loop for one interval. It only reads
// its arguments and is safe to call concurrently.
func (p Planner) PlanInterval(iv types.Interval, files []types.SourceFile, sampleDur float64) (types.Sample, types.Skip, bool) {
	if len(iv.Files) == 0 {
		return types.Sample{}, types.Skip{IntervalID: iv.ID, Reason: types.SkipEmpty}, false
	}

	// A window may run past the interval end when the interval is shorter
	// than sampleDur, but never past the end of its file.
	maxStart := max(iv.Start, iv.End-sampleDur)
	rng := rand.New(rand.NewPCG(p.Seed, uint64(iv.ID)))

	n := p.attempts()
	for range n {
		start := iv.Start
		if maxStart > iv.Start {
			start += rng.Float64() * (maxStart - iv.Start)
		}

		src, ok := timeline.FileAt(files, start)
		if !ok {
			continue
		}
		if start+sampleDur > src.TimelineEnd {
			continue
		}
		return types.Sample{
			IntervalID:    iv.ID,
			TimelineStart: start,
			Source:        src,
			FileOffset:    start - src.TimelineStart,
			Duration:      sampleDur,
		}, types.Skip{}, true
	}
	return types.Sample{}, types.Skip{IntervalID: iv.ID, Reason: types.SkipExhausted, Attempts: n}, false
}
