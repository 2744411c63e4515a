package sampling

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/videin/internal/domain/timeline"
	"github.com/forPelevin/videin/internal/types"
)

const eps = 1e-9

func mapped(t *testing.T, interval, output float64, durations ...float64) ([]types.SourceFile, []types.Interval) {
	t.Helper()
	files := buildFiles(t, durations...)
	ivs, err := Partition(timeline.TotalDuration(files), interval, output)
	require.NoError(t, err)
	MapFiles(files, ivs)
	return files, ivs
}

func TestPlan_ThreeAlignedFiles(t *testing.T) {
	files, ivs := mapped(t, 5, 15, 10, 10, 10)

	for seed := uint64(0); seed < 200; seed++ {
		plan := Planner{Seed: seed}.Plan(ivs, files, 5)
		require.Len(t, plan.Samples, 3)
		require.Empty(t, plan.Skipped)

		s := plan.Samples[0]
		assert.Equal(t, 0, s.IntervalID)
		assert.GreaterOrEqual(t, s.TimelineStart, 0.0)
		assert.LessOrEqual(t, s.TimelineStart, 5.0)
		assert.Equal(t, "a", s.Source.Name)

		for i, s := range plan.Samples {
			assert.Equal(t, i, s.IntervalID)
			assert.Equal(t, files[i].Name, s.Source.Name)
		}
	}
}

func TestPlan_SampleInvariants(t *testing.T) {
	files, ivs := mapped(t, 4, 60, 13.2, 2, 31.7, 9.9, 0.4, 44, 6.1)
	const dur = 4.0

	for seed := uint64(0); seed < 50; seed++ {
		plan := Planner{Seed: seed}.Plan(ivs, files, dur)
		assert.Equal(t, len(ivs), len(plan.Samples)+len(plan.Skipped))

		prev := -1
		for _, s := range plan.Samples {
			iv := ivs[s.IntervalID]
			assert.Greater(t, s.IntervalID, prev, "samples in interval order")
			prev = s.IntervalID

			assert.GreaterOrEqual(t, s.FileOffset, 0.0)
			assert.LessOrEqual(t, s.FileOffset+s.Duration, s.Source.Duration+eps)
			assert.Equal(t, dur, s.Duration)
			assert.GreaterOrEqual(t, s.TimelineStart, iv.Start)
			assert.LessOrEqual(t, s.TimelineStart, max(iv.Start, iv.End-dur)+eps)
			assert.InDelta(t, s.TimelineStart-s.Source.TimelineStart, s.FileOffset, eps)
			assert.True(t, s.Source.Contains(s.TimelineStart))
		}
	}
}

func TestPlan_ShortFileExhausts(t *testing.T) {
	files, ivs := mapped(t, 5, 5, 3)
	require.Len(t, ivs, 1)

	plan := Planner{Seed: 7}.Plan(ivs, files, 5)
	assert.Empty(t, plan.Samples)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, types.Skip{IntervalID: 0, Reason: types.SkipExhausted, Attempts: DefaultMaxAttempts}, plan.Skipped[0])
}

func TestPlan_ShortIntervalMayExtendPastEnd(t *testing.T) {
	// One 20s file split into 4 intervals of 5s, sampled with 12s windows:
	// max start collapses to the interval start.
	files, ivs := mapped(t, 12, 48, 20)
	require.Len(t, ivs, 4)

	plan := Planner{Seed: 1}.Plan(ivs, files, 12)
	require.Len(t, plan.Samples, 2)
	assert.Equal(t, 0.0, plan.Samples[0].TimelineStart)
	assert.Equal(t, 5.0, plan.Samples[1].TimelineStart)
	assert.Greater(t, plan.Samples[1].TimelineStart+12, ivs[1].End)

	// Starts at 10 and 15 would read past the 20s file.
	require.Len(t, plan.Skipped, 2)
	assert.Equal(t, 2, plan.Skipped[0].IntervalID)
	assert.Equal(t, 3, plan.Skipped[1].IntervalID)
}

func TestPlan_EmptyIntervalSpendsNoAttempts(t *testing.T) {
	files := buildFiles(t, 10)
	ivs := []types.Interval{{ID: 0, Start: 20, End: 30}}
	MapFiles(files, ivs)

	plan := Planner{}.Plan(ivs, files, 1)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, types.SkipEmpty, plan.Skipped[0].Reason)
	assert.Zero(t, plan.Skipped[0].Attempts)
}

func TestPlan_NeverStraddlesBoundary(t *testing.T) {
	// Interval [0,20) covers two 10s files; 6s windows must not cross t=10.
	files, ivs := mapped(t, 6, 6, 10, 10)
	require.Len(t, ivs, 1)

	for seed := uint64(0); seed < 300; seed++ {
		s, _, ok := Planner{Seed: seed}.PlanInterval(ivs[0], files, 6)
		if !ok {
			continue
		}
		end := s.TimelineStart + s.Duration
		assert.False(t, s.TimelineStart < 10 && end > 10, "seed %d straddles: %v..%v", seed, s.TimelineStart, end)
	}
}

func TestPlan_Reproducible(t *testing.T) {
	files, ivs := mapped(t, 3, 30, 17, 23, 8, 41)
	p := Planner{Seed: 42}

	a := p.Plan(ivs, files, 3)
	b := p.Plan(ivs, files, 3)
	assert.Equal(t, a, b)

	c := Planner{Seed: 43}.Plan(ivs, files, 3)
	assert.NotEqual(t, a.Samples, c.Samples)
}

func TestPlanInterval_OrderIndependent(t *testing.T) {
	files, ivs := mapped(t, 2, 40, 25, 30, 12)
	p := Planner{Seed: 9}
	want := p.Plan(ivs, files, 2)

	got := make([]types.Sample, len(ivs))
	oks := make([]bool, len(ivs))
	var wg sync.WaitGroup
	for i := len(ivs) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _, oks[i] = p.PlanInterval(ivs[i], files, 2)
		}(i)
	}
	wg.Wait()

	var samples []types.Sample
	for i, ok := range oks {
		if ok {
			samples = append(samples, got[i])
		}
	}
	assert.Equal(t, want.Samples, samples)
}

func TestPlanner_MaxAttempts(t *testing.T) {
	files, ivs := mapped(t, 5, 5, 3)
	_, skip, ok := Planner{MaxAttempts: 3}.PlanInterval(ivs[0], files, 5)
	assert.False(t, ok)
	assert.Equal(t, 3, skip.Attempts)
}
