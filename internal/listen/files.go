package listen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"voxbot/pkg/audioconv"
)

// Files replays a directory of recorded clips, one per Capture, in name order.
type Files struct {
	paths []string
	next  int
}

func NewFiles(dir string) (*Files, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read clip dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if slices.Contains(audioconv.Extensions, ext) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)

	return &Files{paths: paths}, nil
}

func (f *Files) Calibrate(context.Context, time.Duration) error { return nil }

func (f *Files) Capture(ctx context.Context, _, phraseLimit time.Duration) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.next >= len(f.paths) {
		return nil, ErrExhausted
	}
	path := f.paths[f.next]
	f.next++

	opt := audioconv.Options{}
	if phraseLimit > 0 {
		opt.MaxSamples = int(phraseLimit.Seconds() * audioconv.TargetRate)
	}
	pcm, err := audioconv.DecodeFile(path, opt)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return pcm, nil
}
