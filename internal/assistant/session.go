// Package assistant runs the turn-taking loop: greet, then listen, dispatch
// and speak, one utterance at a time, until told to stop.
package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"voxbot/internal/domain"
)

const (
	Greeting = "Hello! I'm your voice assistant. How can I help you today?"
	Goodbye  = "Goodbye!"
	Apology  = "Sorry, I encountered an error. Please try again."
)

type Listener interface {
	Listen(ctx context.Context) domain.Utterance
}

// Speaker must block until the text has been played.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, u domain.Utterance) domain.Outcome
}

type Cue interface {
	Play(ctx context.Context) error
}

type Ducker interface {
	Duck(ctx context.Context) error
	Restore(ctx context.Context) error
}

type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

type Session struct {
	listener   Listener
	speaker    Speaker
	dispatcher Dispatcher
	cue        Cue
	ducker     Ducker
	logger     *slog.Logger

	state State
}

type Option func(*Session)

// WithCue plays c before every listen.
func WithCue(c Cue) Option {
	return func(s *Session) { s.cue = c }
}

// WithDucker lowers other audio while the assistant talks.
func WithDucker(d Ducker) Option {
	return func(s *Session) { s.ducker = d }
}

func NewSession(l Listener, sp Speaker, d Dispatcher, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		listener:   l,
		speaker:    sp,
		dispatcher: d,
		logger:     logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) State() State { return s.state }

// Run blocks until the user says goodbye, the input ends, or ctx is
// cancelled. A cancelled ctx is a normal stop and returns nil.
func (s *Session) Run(ctx context.Context) error {
	s.state = Running
	defer func() { s.state = Stopped }()

	if err := s.say(ctx, Greeting); err != nil {
		s.logger.Error("Failed to speak greeting", "err", err)
	}

	for {
		if ctx.Err() != nil {
			s.farewell(ctx)
			return nil
		}

		stop, err := s.cycle(ctx)
		switch {
		case stop:
			return nil
		case ctx.Err() != nil:
			s.farewell(ctx)
			return nil
		case err != nil:
			s.logger.Error("Cycle failed", "err", err)
			if err := s.say(ctx, Apology); err != nil {
				s.logger.Error("Failed to speak apology", "err", err)
			}
		}
	}
}

func (s *Session) cycle(ctx context.Context) (stop bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			stop, err = false, fmt.Errorf("panic: %v", r)
		}
	}()

	if s.cue != nil {
		if err := s.cue.Play(ctx); err != nil {
			s.logger.Debug("Listening cue failed", "err", err)
		}
	}

	u := s.listener.Listen(ctx)
	if u.Failure == domain.FailureEndOfInput {
		s.farewell(ctx)
		return true, nil
	}
	if ctx.Err() != nil {
		return false, nil
	}

	out := s.dispatcher.Dispatch(ctx, u)
	if ctx.Err() != nil {
		return false, nil
	}

	if out.Speak {
		if err := s.say(ctx, out.Response); err != nil {
			return false, fmt.Errorf("speak: %w", err)
		}
	}

	if out.Control == domain.Terminate {
		s.logger.Info("Exit requested")
		return true, nil
	}
	return false, nil
}

func (s *Session) say(ctx context.Context, text string) error {
	s.logger.Info("Assistant", "text", text)

	if s.ducker != nil {
		if err := s.ducker.Duck(ctx); err != nil {
			s.logger.Debug("Duck failed", "err", err)
		}
		defer func() {
			if err := s.ducker.Restore(context.WithoutCancel(ctx)); err != nil {
				s.logger.Debug("Restore failed", "err", err)
			}
		}()
	}

	return s.speaker.Speak(ctx, text)
}

// farewell is best-effort: the session is ending either way.
func (s *Session) farewell(ctx context.Context) {
	if err := s.say(context.WithoutCancel(ctx), Goodbye); err != nil {
		s.logger.Warn("Failed to speak farewell", "err", err)
	}
}
