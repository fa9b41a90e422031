package listen

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"sync"

	"voxbot/internal/domain"
)

// Console reads typed utterances line by line, skipping transcription.
type Console struct {
	lines  chan string
	logger *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
	stopped   chan struct{}
}

func NewConsole(r io.Reader, logger *slog.Logger) *Console {
	c := &Console{
		lines:   make(chan string),
		logger:  logger,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go c.read(r)
	return c
}

func (c *Console) read(r io.Reader) {
	defer close(c.stopped)
	defer close(c.lines)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case c.lines <- sc.Text():
		case <-c.done:
			return
		}
	}
}

// Close stops handing out lines. A reader blocked in Read is left to the
// process exit.
func (c *Console) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *Console) Listen(ctx context.Context) domain.Utterance {
	select {
	case <-ctx.Done():
		return domain.NoResult(domain.FailureNoSpeech)
	case line, ok := <-c.lines:
		if !ok {
			return domain.NoResult(domain.FailureEndOfInput)
		}
		u := domain.NewUtterance(line)
		if u.Text == "" {
			return domain.NoResult(domain.FailureNoSpeech)
		}
		c.logger.Info("User said", "text", u.Text)
		return u
	}
}
