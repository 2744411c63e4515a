package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var ErrNotFound = errors.New("not found")

const (
	EnvFFmpegPath  = "FFMPEG_PATH"
	EnvFFprobePath = "FFPROBE_PATH"
)

// Tools holds the resolved binaries. It is passed explicitly to New.
type Tools struct {
	FFmpeg  string
	FFprobe string
}

// Resolver locates ffmpeg and ffprobe. A candidate counts only if it answers
// `-version` successfully.
type Resolver struct {
	Getenv   func(string) string
	LookPath func(string) (string, error)
	// Check runs `<path> -version`.
	Check func(ctx context.Context, path string) error
	GOOS  string
}

func NewResolver() *Resolver {
	return &Resolver{
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		Check:    checkVersion,
		GOOS:     runtime.GOOS,
	}
}

// Resolve finds both tools with precedence: env override (must work if set),
// then PATH, then common install locations.
func (r *Resolver) Resolve(ctx context.Context) (Tools, error) {
	ff, err := r.find(ctx, "ffmpeg", EnvFFmpegPath)
	if err != nil {
		return Tools{}, err
	}
	fp, err := r.find(ctx, "ffprobe", EnvFFprobePath)
	if err != nil {
		return Tools{}, err
	}
	return Tools{FFmpeg: ff, FFprobe: fp}, nil
}

func (r *Resolver) find(ctx context.Context, name, env string) (string, error) {
	if p := strings.TrimSpace(r.Getenv(env)); p != "" {
		if err := r.Check(ctx, p); err != nil {
			return "", fmt.Errorf("%s %w: %s=%q does not run: %v", name, ErrNotFound, env, p, err)
		}
		return p, nil
	}

	var candidates []string
	if p, err := r.LookPath(name); err == nil {
		candidates = append(candidates, p)
	}
	candidates = append(candidates, commonLocations(name, r.GOOS)...)

	for _, c := range candidates {
		if err := r.Check(ctx, c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("%s %w: install FFmpeg (https://ffmpeg.org/download.html) or set %s", name, ErrNotFound, env)
}

func commonLocations(name, goos string) []string {
	switch goos {
	case "windows":
		return []string{
			`C:\Program Files\ffmpeg\bin\` + name + ".exe",
			`C:\ffmpeg\bin\` + name + ".exe",
		}
	case "darwin":
		return []string{"/opt/homebrew/bin/" + name, "/usr/local/bin/" + name}
	default:
		return []string{"/usr/bin/" + name, "/usr/local/bin/" + name}
	}
}

func checkVersion(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, path, "-version")
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w\n%s", err, string(b))
	}
	return nil
}
