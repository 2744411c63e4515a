package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractArgs(t *testing.T) {
	args := extractArgs("/in/cam_240101-000000.ts", 12.3456, 5, "/tmp/sample_000.mp4")
	joined := strings.Join(args, " ")

	iIn := strings.Index(joined, "-i /in/cam_240101-000000.ts")
	iSS := strings.Index(joined, "-ss 12.346")
	if iIn < 0 || iSS < 0 || iSS < iIn {
		t.Fatalf("expected -ss after -i, got: %s", joined)
	}
	for _, want := range []string{"-t 5.000", "-c:v libx264", "bframes=0", "-avoid_negative_ts make_zero"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in %s", want, joined)
		}
	}
	if args[len(args)-1] != "/tmp/sample_000.mp4" {
		t.Fatalf("output must be last arg: %v", args)
	}
}

func TestConcatList_EscapesQuotes(t *testing.T) {
	got := concatList([]string{"/tmp/a.mp4", "/tmp/it's.mp4"})
	want := "file '/tmp/a.mp4'\nfile '/tmp/it'\\''s.mp4'\n"
	if got != want {
		t.Fatalf("concatList = %q, want %q", got, want)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.480000\n", 12.48, false},
		{" 0 ", 0, false},
		{"N/A\n", 0, true},
		{"", 0, true},
		{"abc", 0, true},
		{"-1", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseDuration(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseDuration(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConcat_WritesListBeforeFailing(t *testing.T) {
	tmp := t.TempDir()
	list := filepath.Join(tmp, "concat.txt")
	a := New(filepath.Join(tmp, "missing-ffmpeg"), "")

	err := a.Concat(context.Background(), list, []string{"/x/1.mp4"}, filepath.Join(tmp, "out.mp4"))
	if err == nil {
		t.Fatalf("expected error from missing binary")
	}
	b, rerr := os.ReadFile(list)
	if rerr != nil {
		t.Fatalf("read list: %v", rerr)
	}
	if string(b) != "file '/x/1.mp4'\n" {
		t.Fatalf("unexpected list: %q", string(b))
	}
}

func TestResolve(t *testing.T) {
	ok := map[string]bool{
		"/env/ffmpeg":      true,
		"/path/ffmpeg":     true,
		"/path/ffprobe":    true,
		"/usr/bin/ffprobe": true,
	}
	check := func(_ context.Context, p string) error {
		if ok[p] {
			return nil
		}
		return errors.New("exec failed")
	}

	tests := []struct {
		name    string
		env     map[string]string
		path    map[string]string
		want    Tools
		wantErr bool
	}{
		{
			name: "path lookup",
			path: map[string]string{"ffmpeg": "/path/ffmpeg", "ffprobe": "/path/ffprobe"},
			want: Tools{FFmpeg: "/path/ffmpeg", FFprobe: "/path/ffprobe"},
		},
		{
			name: "env wins",
			env:  map[string]string{EnvFFmpegPath: "/env/ffmpeg"},
			path: map[string]string{"ffmpeg": "/path/ffmpeg", "ffprobe": "/path/ffprobe"},
			want: Tools{FFmpeg: "/env/ffmpeg", FFprobe: "/path/ffprobe"},
		},
		{
			name:    "broken env is fatal",
			env:     map[string]string{EnvFFmpegPath: "/nope/ffmpeg"},
			path:    map[string]string{"ffmpeg": "/path/ffmpeg"},
			wantErr: true,
		},
		{
			name: "common location fallback",
			path: map[string]string{"ffmpeg": "/path/ffmpeg"},
			want: Tools{FFmpeg: "/path/ffmpeg", FFprobe: "/usr/bin/ffprobe"},
		},
		{
			name:    "nothing found",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{
				Getenv: func(k string) string { return tt.env[k] },
				LookPath: func(n string) (string, error) {
					if p, ok := tt.path[n]; ok {
						return p, nil
					}
					return "", errors.New("not in PATH")
				},
				Check: check,
				GOOS:  "linux",
			}
			if tt.name == "nothing found" {
				r.Check = func(context.Context, string) error { return errors.New("exec failed") }
			}
			got, err := r.Resolve(context.Background())
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
