package ports

import "context"

// Found is one candidate source file as seen on disk.
type Found struct {
	Path string
	Name string
}

type Discoverer interface {
	Discover(ctx context.Context, dir string) ([]Found, error)
}

type VideoTool interface {
	// ProbeDuration returns the playable duration in seconds.
	ProbeDuration(ctx context.Context, path string) (float64, error)
	// ExtractClip re-encodes [offset, offset+dur) of in into a standalone clip.
	ExtractClip(ctx context.Context, in string, offset, dur float64, out string) error
	// Concat stream-copies clips, in order, into out. listFile is scratch space
	// for the demuxer list.
	Concat(ctx context.Context, listFile string, clips []string, out string) error
}
