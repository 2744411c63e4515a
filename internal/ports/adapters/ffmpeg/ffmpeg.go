package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ExtractClip(ctx context.Context, in string, offset, dur float64, out string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, extractArgs(in, offset, dur, out)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract clip: %w\n%s", err, string(b))
	}
	if _, err := os.Stat(out); err != nil {
		return fmt.Errorf("ffmpeg extract clip: output not created: %w", err)
	}
	return nil
}

// extractArgs seeks after -i so the cut is frame accurate, and re-encodes
// without B-frames so clips concatenate cleanly with stream copy.
func extractArgs(in string, offset, dur float64, out string) []string {
	return []string{
		"-y",
		"-i", in,
		"-ss", fmtSeconds(offset),
		"-t", fmtSeconds(dur),
		"-c:v", "libx264",
		"-preset", "slow",
		"-crf", "18",
		"-tune", "zerolatency",
		"-x264-params", "bframes=0",
		"-c:a", "aac",
		"-shortest",
		"-fflags", "+genpts",
		"-avoid_negative_ts", "make_zero",
		out,
	}
}

func (a *Adapter) Concat(ctx context.Context, listFile string, clips []string, out string) error {
	if err := os.WriteFile(listFile, []byte(concatList(clips)), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		"-fflags", "+genpts",
		out,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg concat: %w\n%s", err, string(b))
	}
	return nil
}

// concatList renders the concat demuxer script. Inside single quotes the
// demuxer only needs ' closed, escaped and reopened.
func concatList(clips []string) string {
	var b strings.Builder
	for _, c := range clips {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(c, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	return parseDuration(string(b))
}

func parseDuration(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "N/A" || s == "" {
		return 0, fmt.Errorf("ffprobe duration: not available")
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if sec < 0 {
		return 0, fmt.Errorf("negative duration %v", sec)
	}
	return sec, nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
