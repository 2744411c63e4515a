package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/forPelevin/videin/internal/ports"
)

// Discoverer lists regular files in a single directory (non-recursive)
// whose extension matches Ext, case-insensitively.
type Discoverer struct {
	Ext string
}

func New(ext string) *Discoverer {
	if ext == "" {
		ext = ".ts"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Discoverer{Ext: strings.ToLower(ext)}
}

func (d *Discoverer) Discover(ctx context.Context, dir string) ([]ports.Found, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	out := make([]ports.Found, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if strings.ToLower(filepath.Ext(name)) != d.Ext {
			continue
		}
		out = append(out, ports.Found{Path: filepath.Join(dir, name), Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
