package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/forPelevin/videin/internal/domain/report"
	"github.com/forPelevin/videin/internal/domain/sampling"
	"github.com/forPelevin/videin/internal/domain/timeline"
	"github.com/forPelevin/videin/internal/ports"
	"github.com/forPelevin/videin/internal/types"
)

var (
	ErrNoSamples = errors.New("no samples were extracted")
	ErrConcat    = errors.New("concatenation failed")
)

type Deps struct {
	Files ports.Discoverer
	Video ports.VideoTool
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Dir         string
	IntervalDur float64
	TotalDur    float64
	Output      string
	WorkDir     string

	Seed        uint64
	MaxAttempts int
	Jobs        int

	Logger *slog.Logger
	Report io.Writer
}

type FileSkip struct {
	Name string
	Err  error
}

type Result struct {
	Files          []types.SourceFile
	SkippedFiles   []FileSkip
	Intervals      []types.Interval
	EmptyIntervals []int
	Plan           types.Plan
	Clips          []types.ClipResult
	Output         string
	OutputDuration float64
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := in.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rep := in.Report
	if rep == nil {
		rep = io.Discard
	}
	jobs := max(in.Jobs, 1)

	var res Result

	found, err := u.d.Files.Discover(ctx, in.Dir)
	if err != nil {
		return res, err
	}
	if len(found) == 0 {
		return res, fmt.Errorf("%w in %s", timeline.ErrNoFiles, in.Dir)
	}

	files, skipped, err := u.probeAll(ctx, found, jobs)
	if err != nil {
		return res, err
	}
	res.SkippedFiles = skipped
	for _, s := range skipped {
		log.Warn("skipping file", "file", s.Name, "err", s.Err)
	}
	if len(files) == 0 {
		return res, fmt.Errorf("%w: none of %d files were readable", timeline.ErrNoFiles, len(found))
	}
	report.Discovery(rep, files)

	res.Files, err = timeline.Build(files)
	if err != nil {
		return res, err
	}

	res.Intervals, err = sampling.Partition(timeline.TotalDuration(res.Files), in.IntervalDur, in.TotalDur)
	if err != nil {
		return res, err
	}
	res.EmptyIntervals = sampling.MapFiles(res.Files, res.Intervals)
	report.Timeline(rep, res.Intervals, in.IntervalDur)

	planner := sampling.Planner{Seed: in.Seed, MaxAttempts: in.MaxAttempts}
	res.Plan = planner.Plan(res.Intervals, res.Files, in.IntervalDur)
	for _, s := range res.Plan.Skipped {
		switch s.Reason {
		case types.SkipEmpty:
			log.Warn("no video files in interval", "interval", s.IntervalID)
		default:
			log.Warn("could not find valid sample", "interval", s.IntervalID, "attempts", s.Attempts)
		}
	}
	report.Plan(rep, res.Plan)
	if n, want := len(res.Plan.Samples), len(res.Intervals); n != want {
		log.Warn("fewer samples than intervals", "samples", n, "intervals", want)
	}
	if len(res.Plan.Samples) == 0 {
		return res, ErrNoSamples
	}

	res.Clips, err = u.extractAll(ctx, res.Plan.Samples, in.WorkDir, jobs, log)
	if err != nil {
		return res, err
	}
	report.Extraction(rep, res.Clips)

	var clips []string
	for _, c := range res.Clips {
		if c.Err == nil {
			clips = append(clips, c.Path)
		}
	}
	if len(clips) == 0 {
		return res, ErrNoSamples
	}

	log.Info("concatenating", "clips", len(clips), "output", in.Output)
	if err := u.d.Video.Concat(ctx, filepath.Join(in.WorkDir, "concat.txt"), clips, in.Output); err != nil {
		return res, fmt.Errorf("%w: %w", ErrConcat, err)
	}
	res.Output = in.Output

	var size int64
	if st, err := os.Stat(in.Output); err == nil {
		size = st.Size()
	} else {
		log.Warn("stat output", "err", err)
	}
	if d, err := u.d.Video.ProbeDuration(ctx, in.Output); err == nil {
		res.OutputDuration = d
	} else {
		log.Warn("probe output", "err", err)
	}
	report.Output(rep, in.Output, res.OutputDuration, size)
	return res, nil
}

// probeAll parses timestamps and reads durations, keeping discovery order.
// Per-file failures are returned as skips; only cancellation aborts.
func (u Usecase) probeAll(ctx context.Context, found []ports.Found, jobs int) ([]types.SourceFile, []FileSkip, error) {
	files := make([]types.SourceFile, len(found))
	errs := make([]error, len(found))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, f := range found {
		g.Go(func() error {
			ts, err := timeline.ParseTimestamp(f.Name)
			if err != nil {
				errs[i] = err
				return nil
			}
			dur, err := u.d.Video.ProbeDuration(ctx, f.Path)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				errs[i] = err
				return nil
			}
			files[i] = types.SourceFile{Path: f.Path, Name: f.Name, Timestamp: ts, Duration: dur}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var ok []types.SourceFile
	var skipped []FileSkip
	for i, f := range found {
		if errs[i] != nil {
			skipped = append(skipped, FileSkip{Name: f.Name, Err: errs[i]})
			continue
		}
		ok = append(ok, files[i])
	}
	return ok, skipped, nil
}

// extractAll cuts every sample into workDir/sample_NNN.mp4 and verifies the
// result by probing it. A failed sample is recorded, not returned.
func (u Usecase) extractAll(ctx context.Context, samples []types.Sample, workDir string, jobs int, log *slog.Logger) ([]types.ClipResult, error) {
	out := make([]types.ClipResult, len(samples))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, s := range samples {
		g.Go(func() error {
			path := filepath.Join(workDir, fmt.Sprintf("sample_%03d.mp4", i))
			res := types.ClipResult{Sample: s, Path: path}

			log.Info("extracting sample", "index", i, "file", s.Source.Name, "offset", report.FormatDuration(s.FileOffset))
			err := u.d.Video.ExtractClip(ctx, s.Source.Path, s.FileOffset, s.Duration, path)
			if err == nil {
				res.Duration, err = u.d.Video.ProbeDuration(ctx, path)
				if err != nil {
					err = fmt.Errorf("verify clip: %w", err)
				}
			}
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn("sample dropped", "index", i, "interval", s.IntervalID, "err", err)
				res.Err = err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
