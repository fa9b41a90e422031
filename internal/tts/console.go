// Package tts speaks assistant replies. Every Speaker blocks until the text
// has been delivered.
package tts

import (
	"context"
	"fmt"
	"io"
)

// Console prints replies instead of voicing them; used in text mode.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Speak(_ context.Context, text string) error {
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintf(c.w, "Assistant: %s\n", text)
	return err
}

func (c *Console) Close() error { return nil }
