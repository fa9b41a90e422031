// Package listen captures one spoken phrase per call and hands back a
// normalized utterance. Every failure is folded into the no-result sentinel;
// nothing here returns an error to the caller.
package listen

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"voxbot/internal/domain"
	"voxbot/pkg/stt"
)

var (
	// ErrNoSpeech is returned by a Capturer when nothing crossed the speech
	// threshold before the timeout.
	ErrNoSpeech = errors.New("no speech before timeout")
	// ErrExhausted is returned by finite capturers when they run out of input.
	ErrExhausted = errors.New("input exhausted")
)

type Capturer interface {
	Calibrate(ctx context.Context, dur time.Duration) error
	Capture(ctx context.Context, timeout, phraseLimit time.Duration) ([]float32, error)
}

type Options struct {
	Timeout     time.Duration
	PhraseLimit time.Duration
	Calibration time.Duration
}

type Gateway struct {
	capture Capturer
	stt     stt.Transcriber
	opt     Options
	logger  *slog.Logger

	calibrated bool
}

func NewGateway(c Capturer, tr stt.Transcriber, opt Options, logger *slog.Logger) *Gateway {
	if opt.Timeout <= 0 {
		opt.Timeout = 5 * time.Second
	}
	if opt.PhraseLimit <= 0 {
		opt.PhraseLimit = 10 * time.Second
	}
	if opt.Calibration <= 0 {
		opt.Calibration = time.Second
	}
	return &Gateway{
		capture: c,
		stt:     tr,
		opt:     opt,
		logger:  logger,
	}
}

func (g *Gateway) Listen(ctx context.Context) domain.Utterance {
	if !g.calibrated {
		g.calibrated = true
		if err := g.capture.Calibrate(ctx, g.opt.Calibration); err != nil {
			g.logger.Warn("ambient noise calibration failed, using default threshold", "err", err)
		}
	}

	g.logger.Info("Listening...")

	pcm, err := g.capture.Capture(ctx, g.opt.Timeout, g.opt.PhraseLimit)
	switch {
	case errors.Is(err, ErrNoSpeech):
		g.logger.Info("Listening timeout")
		return domain.NoResult(domain.FailureNoSpeech)
	case errors.Is(err, ErrExhausted):
		g.logger.Info("Input exhausted")
		return domain.NoResult(domain.FailureEndOfInput)
	case err != nil:
		g.logger.Error("Capture failed", "err", err)
		return domain.NoResult(domain.FailureService)
	}

	g.logger.Debug("Recognizing...", "samples", len(pcm))

	text, err := g.stt.Transcribe(ctx, pcm)
	switch {
	case errors.Is(err, stt.ErrUnintelligible):
		g.logger.Info("Could not understand audio")
		return domain.NoResult(domain.FailureUnintelligible)
	case err != nil:
		g.logger.Error("Could not request results", "err", err)
		return domain.NoResult(domain.FailureService)
	}

	u := domain.NewUtterance(text)
	g.logger.Info("User said", "text", u.Text)
	return u
}
