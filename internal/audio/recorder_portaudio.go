//go:build !headless

package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
)

func (r *Recorder) Init() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	return nil
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Calibrate samples room noise for dur and sets the speech threshold above it.
func (r *Recorder) Calibrate(ctx context.Context, dur time.Duration) error {
	var levels []float64

	err := r.withStream(func(stream *portaudio.Stream, buf []float32) error {
		frames := int(dur / frameDuration())
		if frames < 1 {
			frames = 1
		}
		for i := 0; i < frames; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := stream.Read(); err != nil {
				return fmt.Errorf("read: %w", err)
			}
			levels = append(levels, frameRMS(buf))
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.threshold = calibrationThreshold(levels)
	return nil
}

// Capture records one phrase. The input stream is open only for the duration
// of the call.
func (r *Recorder) Capture(ctx context.Context, timeout, phraseLimit time.Duration) ([]float32, error) {
	seg := &segmenter{
		threshold:   r.threshold,
		frame:       frameDuration(),
		timeout:     timeout,
		phraseLimit: phraseLimit,
		pause:       r.pause,
	}
	out := make([]float32, 0, SampleRate*3)

	err := r.withStream(func(stream *portaudio.Stream, buf []float32) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := stream.Read(); err != nil {
				return fmt.Errorf("read: %w", err)
			}

			keep, done, err := seg.feed(frameRMS(buf))
			if err != nil {
				return err
			}
			if keep {
				out = append(out, buf...)
			}
			if done {
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *Recorder) withStream(fn func(*portaudio.Stream, []float32) error) error {
	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	defer stream.Stop()

	return fn(stream, buf)
}
