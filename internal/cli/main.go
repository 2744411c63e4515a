package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/forPelevin/videin/internal/domain/sampling"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "videin <path> <interval_duration> <total_duration>",
		Short:        "Sample random intervals from .ts recordings and concatenate them into one MP4",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("out", "", "Output file (default <path>/output.mp4)")
	root.Flags().String("ext", ".ts", "Source file extension")
	root.Flags().Uint64("seed", 0, "Random seed (default: time based)")
	root.Flags().Int("jobs", 1, "Parallel ffprobe/ffmpeg processes")
	root.Flags().String("log-level", "", "Log level: debug, info, warn, error (env VIDEIN_LOG_LEVEL)")

	// Hidden tuning flag (internal)
	root.Flags().Int("attempts", sampling.DefaultMaxAttempts, "Sampling attempts per interval")
	_ = root.Flags().MarkHidden("attempts")

	return root
}
