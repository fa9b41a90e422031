//go:build headless

package tts

import (
	"context"
	"errors"
)

var errNoEspeak = errors.New("espeak not available: rebuild without -tags headless")

type Espeak struct{}

func NewEspeak(Options) (*Espeak, error) { return nil, errNoEspeak }

func (e *Espeak) Speak(context.Context, string) error { return errNoEspeak }

func (e *Espeak) Close() error { return nil }
