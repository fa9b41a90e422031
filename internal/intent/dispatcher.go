package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voxbot/internal/domain"
	"voxbot/internal/wiki"
)

const (
	Farewell        = "Goodbye! Have a great day!"
	WeatherStub     = "I'd need a weather API to get current weather for your location. This is a placeholder response."
	WikiUnavailable = "Sorry, I couldn't search Wikipedia right now."

	timeLayout = "03:04 PM"
	dateLayout = "Monday, January 02, 2006"

	maxOptions = 3
)

type Opener interface {
	Open(ctx context.Context, url string) error
}

type Lookup interface {
	Summarize(ctx context.Context, topic string) (string, error)
}

type Responder interface {
	Ask(ctx context.Context, question string) (string, error)
}

type Dispatcher struct {
	matcher   Matcher
	opener    Opener
	lookup    Lookup
	responder Responder
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Dispatcher)

func WithMatcher(m Matcher) Option {
	return func(d *Dispatcher) { d.matcher = m }
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

func NewDispatcher(opener Opener, lookup Lookup, responder Responder, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		matcher:   NewRules(),
		opener:    opener,
		lookup:    lookup,
		responder: responder,
		now:       time.Now,
		logger:    logger,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch runs the action for u and returns what should be said. It does
// not speak; the caller does that before listening again.
func (d *Dispatcher) Dispatch(ctx context.Context, u domain.Utterance) domain.Outcome {
	in := d.matcher.Match(u)
	d.logger.Debug("Matched intent", "intent", in.Kind, "utterance", u.String())

	switch in.Kind {
	case domain.IntentNoOp:
		return domain.Silent()

	case domain.IntentOpenSite:
		if err := d.opener.Open(ctx, in.Site.URL); err != nil {
			d.logger.Warn("Failed to open browser", "url", in.Site.URL, "err", err)
		}
		return domain.Say("Opening " + in.Site.Name)

	case domain.IntentTime:
		return domain.Say("The current time is " + d.now().Format(timeLayout))

	case domain.IntentDate:
		return domain.Say("Today is " + d.now().Format(dateLayout))

	case domain.IntentWeather:
		return domain.Say(WeatherStub)

	case domain.IntentWikiLookup:
		return domain.Say(d.searchWikipedia(ctx, in.Topic))

	case domain.IntentExit:
		return domain.Outcome{Response: Farewell, Speak: true, Control: domain.Terminate}

	default:
		reply, err := d.responder.Ask(ctx, in.Query)
		if err != nil {
			d.logger.Error("Generative responder failed", "err", err)
			return domain.Say(fmt.Sprintf("Sorry, I encountered an error: %v", err))
		}
		return domain.Say(reply)
	}
}

func (d *Dispatcher) searchWikipedia(ctx context.Context, raw string) string {
	topic := wiki.CleanTopic(raw)

	summary, err := d.lookup.Summarize(ctx, topic)
	if err == nil {
		return summary
	}

	var amb *wiki.AmbiguousError
	switch {
	case errors.As(err, &amb):
		opts := amb.Options
		if len(opts) > maxOptions {
			opts = opts[:maxOptions]
		}
		return "Multiple results found. Please be more specific. Options include: " + strings.Join(opts, ", ")
	case errors.Is(err, wiki.ErrNotFound):
		return fmt.Sprintf("No Wikipedia page found for '%s'", topic)
	default:
		d.logger.Error("Wikipedia lookup failed", "topic", topic, "err", err)
		return WikiUnavailable
	}
}
