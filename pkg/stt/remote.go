package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/openai/openai-go/v3"

	"voxbot/pkg/audioconv"
)

// Remote uploads the capture to the OpenAI transcription endpoint.
type Remote struct {
	client   openai.Client
	model    string
	language string
	timeout  time.Duration
}

func NewRemote(client openai.Client, model, language string, timeout time.Duration) *Remote {
	if model == "" {
		model = string(openai.AudioModelWhisper1)
	}
	return &Remote{
		client:   client,
		model:    model,
		language: language,
		timeout:  timeout,
	}
}

func (r *Remote) Transcribe(ctx context.Context, pcm16k []float32) (string, error) {
	if len(pcm16k) == 0 {
		return "", ErrUnintelligible
	}

	wav, err := audioconv.EncodeWAV(pcm16k)
	if err != nil {
		return "", err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(wav), "capture.wav", "audio/wav"),
		Model: openai.AudioModel(r.model),
	}
	if r.language != "" && r.language != "auto" {
		params.Language = openai.String(r.language)
	}

	resp, err := r.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	if resp == nil {
		return "", errors.New("empty transcription response")
	}

	return cleanTranscript(resp.Text)
}
