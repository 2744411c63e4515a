package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/videin/internal/logging"
	"github.com/forPelevin/videin/internal/pipeline"
	"github.com/forPelevin/videin/internal/ports/adapters/ffmpeg"
)

func run(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("out")
	ext, _ := cmd.Flags().GetString("ext")
	seed, _ := cmd.Flags().GetUint64("seed")
	jobs, _ := cmd.Flags().GetInt("jobs")
	attempts, _ := cmd.Flags().GetInt("attempts")
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = getenvDefault("VIDEIN_LOG_LEVEL", "info")
	}
	if !cmd.Flags().Changed("seed") {
		seed = uint64(time.Now().UnixNano())
	}

	interval, err := parseSeconds("interval_duration", args[1])
	if err != nil {
		return err
	}
	total, err := parseSeconds("total_duration", args[2])
	if err != nil {
		return err
	}

	log := logging.NewLogger(level, cmd.ErrOrStderr())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tools, err := ffmpeg.NewResolver().Resolve(ctx)
	if err != nil {
		return err
	}
	log.Info("using ffmpeg", "ffmpeg", tools.FFmpeg, "ffprobe", tools.FFprobe)

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if outPath != "" {
		if outPath, err = filepath.Abs(outPath); err != nil {
			return err
		}
	}

	cfg := pipeline.Config{
		Dir:         dir,
		IntervalDur: interval,
		TotalDur:    total,
		Output:      outPath,
		Ext:         ext,

		Seed:        seed,
		MaxAttempts: attempts,
		Jobs:        jobs,

		FFmpegPath:  tools.FFmpeg,
		FFprobePath: tools.FFprobe,

		Logger: log,
		Stdout: cmd.OutOrStdout(),
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log.Info("scanning", "dir", dir, "ext", ext, "interval", interval, "total", total)
	return pipeline.Run(ctx, cfg)
}

func parseSeconds(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: not a number", name, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be > 0", name, s)
	}
	return v, nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
