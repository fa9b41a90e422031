//go:build headless

package audio

import (
	"context"
	"errors"
	"time"
)

var errNoMicrophone = errors.New("microphone not available: rebuild without -tags headless")

func (r *Recorder) Init() error { return errNoMicrophone }

func (r *Recorder) Close() {}

func (r *Recorder) Calibrate(context.Context, time.Duration) error { return errNoMicrophone }

func (r *Recorder) Capture(context.Context, time.Duration, time.Duration) ([]float32, error) {
	return nil, errNoMicrophone
}
