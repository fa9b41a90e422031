// Package stt wraps the speech-to-text providers: a local whisper.cpp model
// and the OpenAI transcription endpoint.
package stt

import (
	"context"
	"errors"
	"strings"
)

// ErrUnintelligible means the provider ran but produced no usable text.
var ErrUnintelligible = errors.New("audio not intelligible")

// Transcriber turns 16 kHz mono PCM into text. Any error other than
// ErrUnintelligible is a provider failure.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm16k []float32) (string, error)
}

type WhisperOptions struct {
	Language string // "en", "auto", ...
	Threads  int    // <=0 => NumCPU()
	Prompt   string
}

// whisper emits these for silence or noise instead of an empty result
var nonSpeechMarkers = []string{"[blank_audio]", "[silence]", "[music]", "[noise]", "(silence)"}

func cleanTranscript(text string) (string, error) {
	t := strings.TrimSpace(text)
	for _, m := range nonSpeechMarkers {
		t = strings.ReplaceAll(t, m, "")
		t = strings.ReplaceAll(t, strings.ToUpper(m), "")
	}
	t = strings.TrimSpace(t)
	if t == "" {
		return "", ErrUnintelligible
	}
	return t, nil
}
