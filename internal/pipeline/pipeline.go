package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/forPelevin/videin/internal/domain/sampling"
	"github.com/forPelevin/videin/internal/logging"
	"github.com/forPelevin/videin/internal/ports"
	"github.com/forPelevin/videin/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/videin/internal/ports/adapters/localfs"
	"github.com/forPelevin/videin/internal/usecase"
)

type Config struct {
	Dir         string
	IntervalDur float64
	TotalDur    float64
	// Output defaults to <Dir>/output.mp4.
	Output string
	Ext    string

	Seed        uint64
	MaxAttempts int
	Jobs        int

	// TempDir is where the scratch workspace is created. Empty means os.TempDir().
	TempDir string

	FFmpegPath  string
	FFprobePath string

	Logger *slog.Logger
	Stdout io.Writer
}

func (c Config) Validate() error {
	if c.Dir == "" {
		return errors.New("path is empty")
	}
	st, err := os.Stat(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", c.Dir)
		}
		return fmt.Errorf("stat path: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("path is not a directory: %s", c.Dir)
	}
	if c.IntervalDur <= 0 {
		return fmt.Errorf("interval duration must be > 0")
	}
	if c.TotalDur <= 0 {
		return fmt.Errorf("total duration must be > 0")
	}
	if c.TotalDur < c.IntervalDur {
		return fmt.Errorf("%w: total %gs < interval %gs", sampling.ErrNoIntervals, c.TotalDur, c.IntervalDur)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be >= 1")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("attempts must be >= 1")
	}
	if st, err := os.Stat(c.outputPath()); err == nil && st.IsDir() {
		return fmt.Errorf("output is a directory: %s", c.outputPath())
	}
	return nil
}

func (c Config) outputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return filepath.Join(c.Dir, "output.mp4")
}

func Run(ctx context.Context, cfg Config) error {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = io.Discard
	}

	// adapters
	v := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	fsys := localfs.New(cfg.Ext)

	uc := usecase.New(usecase.Deps{
		Files: fsys,
		Video: v,
	})

	out := cfg.outputPath()
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}

	work, err := os.MkdirTemp(cfg.TempDir, workspacePattern(cfg.Dir))
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	defer func() {
		log.Info("cleaning up workspace", "dir", work)
		if err := os.RemoveAll(work); err != nil {
			log.Warn("cleanup failed", "dir", work, "err", err)
		}
	}()
	log.Info("workspace", "dir", work, "seed", cfg.Seed)

	res, err := uc.Run(ctx, usecase.Input{
		Dir:         cfg.Dir,
		IntervalDur: cfg.IntervalDur,
		TotalDur:    cfg.TotalDur,
		Output:      out,
		WorkDir:     work,
		Seed:        cfg.Seed,
		MaxAttempts: cfg.MaxAttempts,
		Jobs:        cfg.Jobs,
		Logger:      logging.WithComponent(log, "usecase"),
		Report:      stdout,
	})
	if err != nil {
		return err
	}
	log.Info("done", "output", res.Output, "samples", len(res.Plan.Samples), "intervals", len(res.Intervals))
	return nil
}

func workspacePattern(dir string) string {
	name := normalizePathSegment(filepath.Base(filepath.Clean(dir)))
	if name == "" {
		return "videin_*"
	}
	return "videin_" + name + "_*"
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.Discoverer = (*localfs.Discoverer)(nil)
