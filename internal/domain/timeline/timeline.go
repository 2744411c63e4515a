package timeline

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/forPelevin/videin/internal/types"
)

var (
	ErrNoTimestamp = errors.New("no _YYMMDD-HHMMSS timestamp in filename")
	ErrNoFiles     = errors.New("no source files")
)

var reStamp = regexp.MustCompile(`_(\d{2})(\d{2})(\d{2})-(\d{2})(\d{2})(\d{2})`)

// ParseTimestamp extracts the capture time from names like cam_240131-235959.ts.
// The two-digit year is an offset from 2000; the result is UTC.
func ParseTimestamp(name string) (time.Time, error) {
	m := reStamp.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, fmt.Errorf("%q: %w", name, ErrNoTimestamp)
	}
	var f [6]int
	for i := range f {
		f[i], _ = strconv.Atoi(m[i+1])
	}
	year, month, day, hour, minute, sec := 2000+f[0], f[1], f[2], f[3], f[4], f[5]

	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
	// time.Date normalizes overflow (month 13 -> next January); a round trip catches it.
	if t.Month() != time.Month(month) || t.Day() != day || t.Hour() != hour ||
		t.Minute() != minute || t.Second() != sec {
		return time.Time{}, fmt.Errorf("%q: invalid timestamp %s", name, m[0][1:])
	}
	return t, nil
}

// Build orders files by capture timestamp and lays them end to end starting at 0.
// Ties keep discovery order. The input slice is not modified.
func Build(files []types.SourceFile) ([]types.SourceFile, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	out := append([]types.SourceFile(nil), files...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	cursor := 0.0
	for i := range out {
		out[i].TimelineStart = cursor
		out[i].TimelineEnd = cursor + out[i].Duration
		cursor = out[i].TimelineEnd
	}
	return out, nil
}

// TotalDuration is the end of the last span, i.e. the sum of all durations.
func TotalDuration(files []types.SourceFile) float64 {
	if len(files) == 0 {
		return 0
	}
	return files[len(files)-1].TimelineEnd
}

// FileAt returns the file whose span contains pos. Spans never overlap, so
// the first match is the only one.
func FileAt(files []types.SourceFile, pos float64) (types.SourceFile, bool) {
	for _, f := range files {
		if f.Contains(pos) {
			return f, true
		}
	}
	return types.SourceFile{}, false
}
