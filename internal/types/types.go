package types

import "time"

// SourceFile is one discovered recording laid onto the virtual timeline.
// TimelineStart/TimelineEnd are seconds on the global axis, half-open.
type SourceFile struct {
	Path      string
	Name      string
	Timestamp time.Time
	Duration  float64

	TimelineStart float64
	TimelineEnd   float64
}

// Contains reports whether pos lies in [TimelineStart, TimelineEnd).
func (f SourceFile) Contains(pos float64) bool {
	return f.TimelineStart <= pos && pos < f.TimelineEnd
}

type Interval struct {
	ID    int
	Start float64
	End   float64
	Files []SourceFile
}

func (iv Interval) Length() float64 { return iv.End - iv.Start }

type Sample struct {
	IntervalID    int
	TimelineStart float64
	Source        SourceFile
	FileOffset    float64
	Duration      float64
}

type SkipReason string

const (
	SkipEmpty     SkipReason = "empty"
	SkipExhausted SkipReason = "exhausted"
)

type Skip struct {
	IntervalID int
	Reason     SkipReason
	Attempts   int
}

type Plan struct {
	Samples []Sample
	Skipped []Skip
}

type ClipResult struct {
	Sample   Sample
	Path     string
	Duration float64
	Err      error
}
