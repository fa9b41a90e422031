//go:build headless

package stt

import (
	"context"
	"errors"
)

var errNoWhisper = errors.New("whisper not available: rebuild without -tags headless")

type Whisper struct{}

func NewWhisper(string, WhisperOptions) (*Whisper, error) { return nil, errNoWhisper }

func (w *Whisper) Close() error { return nil }

func (w *Whisper) Transcribe(context.Context, []float32) (string, error) {
	return "", errNoWhisper
}
