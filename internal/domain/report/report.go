package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/forPelevin/videin/internal/types"
)

// FormatDuration renders seconds as HH:MM:SS.mmm.
func FormatDuration(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	ms := int64(math.Round(sec * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func rule(w io.Writer, n int) { fmt.Fprintln(w, strings.Repeat("-", n)) }

func banner(w io.Writer, title string, n int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", n))
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", n))
}

func Discovery(w io.Writer, files []types.SourceFile) {
	const width = 70
	banner(w, "VIDEO FILE DISCOVERY RESULTS", width)
	fmt.Fprintf(w, "\n%-4s %-40s %-15s %s\n", "#", "Filename", "Duration", "Timestamp")
	rule(w, width)

	total := 0.0
	for i, f := range files {
		total += f.Duration
		fmt.Fprintf(w, "%-4d %-40s %-15s %s\n", i+1, f.Name, FormatDuration(f.Duration), f.Timestamp.Format("2006-01-02 15:04:05"))
	}
	rule(w, width)
	fmt.Fprintf(w, "%-45s %s\n", "Total files:", humanize.Comma(int64(len(files))))
	fmt.Fprintf(w, "%-45s %s\n", "Total duration:", FormatDuration(total))
	fmt.Fprintln(w, strings.Repeat("=", width))
}

func Timeline(w io.Writer, intervals []types.Interval, sampleDur float64) {
	const width = 80
	banner(w, "TIMELINE STRUCTURE", width)
	fmt.Fprintf(w, "\nNumber of intervals: %d\n", len(intervals))
	fmt.Fprintf(w, "Sample duration per interval: %g seconds\n", sampleDur)
	src := "N/A"
	if len(intervals) > 0 {
		src = FormatDuration(intervals[0].Length())
	}
	fmt.Fprintf(w, "Source duration per interval: %s\n", src)

	fmt.Fprintf(w, "\n%-6s %-18s %-18s %-8s %s\n", "#", "Start Time", "End Time", "Files", "File Names")
	rule(w, width)
	for _, iv := range intervals {
		fmt.Fprintf(w, "%-6d %-18s %-18s %-8d %s\n",
			iv.ID, FormatDuration(iv.Start), FormatDuration(iv.End), len(iv.Files), fileNames(iv.Files, 3, 20))
	}
	fmt.Fprintln(w, strings.Repeat("=", width))
}

func fileNames(files []types.SourceFile, limit, width int) string {
	names := make([]string, 0, limit)
	for i, f := range files {
		if i == limit {
			break
		}
		n := f.Name
		if len(n) > width {
			n = n[:width]
		}
		names = append(names, n)
	}
	s := strings.Join(names, ", ")
	if len(files) > limit {
		s += "..."
	}
	return s
}

func Plan(w io.Writer, plan types.Plan) {
	const width = 100
	banner(w, "SAMPLING PLAN", width)
	fmt.Fprintf(w, "\n%-6s %-18s %-18s %-12s %s\n", "#", "Timeline Start", "File Offset", "Duration", "Source File")
	rule(w, width)
	for _, s := range plan.Samples {
		fmt.Fprintf(w, "%-6d %-18s %-18s %-12s %s\n",
			s.IntervalID, FormatDuration(s.TimelineStart), FormatDuration(s.FileOffset), FormatDuration(s.Duration), s.Source.Name)
	}
	rule(w, width)
	fmt.Fprintf(w, "Total samples: %d\n", len(plan.Samples))
	if len(plan.Skipped) > 0 {
		ids := make([]string, len(plan.Skipped))
		for i, sk := range plan.Skipped {
			ids[i] = fmt.Sprintf("%d (%s)", sk.IntervalID, sk.Reason)
		}
		fmt.Fprintf(w, "Skipped intervals: %s\n", strings.Join(ids, ", "))
	}
	fmt.Fprintln(w, strings.Repeat("=", width))
}

func Extraction(w io.Writer, clips []types.ClipResult) {
	const width = 80
	banner(w, "EXTRACTED SAMPLES", width)
	ok := 0
	for i, c := range clips {
		if c.Err != nil {
			fmt.Fprintf(w, "%-4d %-40s @ %s  ERROR: %s\n", i, c.Sample.Source.Name, FormatDuration(c.Sample.FileOffset), firstLine(c.Err.Error(), 200))
			continue
		}
		ok++
		fmt.Fprintf(w, "%-4d %-40s @ %s  OK (%s)\n", i, c.Sample.Source.Name, FormatDuration(c.Sample.FileOffset), FormatDuration(c.Duration))
	}
	fmt.Fprintf(w, "\nExtracted %d / %d samples\n", ok, len(clips))
	fmt.Fprintln(w, strings.Repeat("=", width))
}

func firstLine(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > n {
		s = s[:n]
	}
	return s
}

func Output(w io.Writer, path string, duration float64, size int64) {
	const width = 80
	banner(w, "OUTPUT INFORMATION", width)
	fmt.Fprintf(w, "\nOutput file:    %s\n", path)
	fmt.Fprintf(w, "Duration:       %s\n", FormatDuration(duration))
	fmt.Fprintf(w, "File size:      %s\n", humanize.IBytes(uint64(size)))
	fmt.Fprintln(w, strings.Repeat("=", width))
}
