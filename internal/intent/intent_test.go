package intent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"voxbot/internal/domain"
	"voxbot/internal/wiki"
)

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(_ context.Context, url string) error {
	f.opened = append(f.opened, url)
	return f.err
}

type fakeLookup struct {
	topics  []string
	summary string
	err     error
}

func (f *fakeLookup) Summarize(_ context.Context, topic string) (string, error) {
	f.topics = append(f.topics, topic)
	return f.summary, f.err
}

type fakeResponder struct {
	questions []string
	reply     string
	err       error
}

func (f *fakeResponder) Ask(_ context.Context, q string) (string, error) {
	f.questions = append(f.questions, q)
	return f.reply, f.err
}

type fixture struct {
	opener    *fakeOpener
	lookup    *fakeLookup
	responder *fakeResponder
	d         *Dispatcher
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		opener:    &fakeOpener{},
		lookup:    &fakeLookup{summary: "A summary."},
		responder: &fakeResponder{reply: "A generated reply."},
	}
	f.d = NewDispatcher(f.opener, f.lookup, f.responder,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithClock(func() time.Time { return now }),
	)
	return f
}

func (f *fixture) dispatch(text string) domain.Outcome {
	return f.d.Dispatch(context.Background(), domain.NewUtterance(text))
}

func TestRulesPrecedence(t *testing.T) {
	r := NewRules()
	tests := []struct {
		text string
		want domain.IntentKind
	}{
		{"open youtube please", domain.IntentOpenSite},
		{"open github and tell me the time", domain.IntentOpenSite},
		{"what's the time in wikipedia", domain.IntentTime},
		{"what is the date and time", domain.IntentTime},
		{"what's the date", domain.IntentDate},
		{"update the weather", domain.IntentDate},
		{"how is the weather", domain.IntentWeather},
		{"search wikipedia for weather balloons", domain.IntentWeather},
		{"search wikipedia for alan turing", domain.IntentWikiLookup},
		{"wikipedia goodbye", domain.IntentWikiLookup},
		{"ok goodbye", domain.IntentExit},
		{"tell me a joke", domain.IntentGenericQuery},
		{"", domain.IntentGenericQuery},
	}

	for _, tt := range tests {
		if got := r.Match(domain.NewUtterance(tt.text)).Kind; got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.text, tt.want, got)
		}
	}
}

func TestDispatchNoResultIsSilent(t *testing.T) {
	f := newFixture(time.Now())
	for _, fl := range []domain.Failure{domain.FailureNoSpeech, domain.FailureUnintelligible, domain.FailureService} {
		out := f.d.Dispatch(context.Background(), domain.NoResult(fl))
		if out.Speak || out.Response != "" || out.Control != domain.Continue {
			t.Errorf("%s: expected silent continue, got %+v", fl, out)
		}
	}
	if len(f.opener.opened)+len(f.lookup.topics)+len(f.responder.questions) != 0 {
		t.Error("no_op must not touch any collaborator")
	}
}

func TestDispatchExitWords(t *testing.T) {
	for _, w := range ExitWords {
		f := newFixture(time.Now())
		out := f.dispatch("alright " + w + " for now")
		if out.Control != domain.Terminate || out.Response != Farewell || !out.Speak {
			t.Errorf("%q: expected farewell + terminate, got %+v", w, out)
		}
	}

	// substring of a longer word still counts
	f := newFixture(time.Now())
	if out := f.dispatch("please stopwatch"); out.Control != domain.Terminate {
		t.Errorf("expected substring match to terminate, got %+v", out)
	}
}

func TestDispatchOpenSite(t *testing.T) {
	f := newFixture(time.Now())
	out := f.dispatch("open youtube please")

	if len(f.opener.opened) != 1 || f.opener.opened[0] != "https://www.youtube.com" {
		t.Fatalf("expected exactly the YouTube URL, got %v", f.opener.opened)
	}
	if out.Response != "Opening YouTube" || out.Control != domain.Continue {
		t.Errorf("unexpected outcome: %+v", out)
	}

	f.opener.err = errors.New("xdg-open: not found")
	if out := f.dispatch("open github"); out.Response != "Opening GitHub" {
		t.Errorf("browser failure should still confirm, got %+v", out)
	}
}

func TestDispatchTimeAndDate(t *testing.T) {
	f := newFixture(time.Date(2024, time.March, 7, 14, 5, 0, 0, time.Local))

	if out := f.dispatch("what time is it"); out.Response != "The current time is 02:05 PM" {
		t.Errorf("unexpected time response: %q", out.Response)
	}
	if out := f.dispatch("what's the date today"); out.Response != "Today is Thursday, March 07, 2024" {
		t.Errorf("unexpected date response: %q", out.Response)
	}
}

func TestDispatchWeatherStub(t *testing.T) {
	f := newFixture(time.Now())
	if out := f.dispatch("how's the weather"); out.Response != WeatherStub {
		t.Errorf("unexpected weather response: %q", out.Response)
	}
}

func TestDispatchWikipedia(t *testing.T) {
	f := newFixture(time.Now())
	out := f.dispatch("search wikipedia alan turing")
	if out.Response != "A summary." {
		t.Errorf("unexpected response: %q", out.Response)
	}
	if len(f.lookup.topics) != 1 || f.lookup.topics[0] != "alan turing" {
		t.Errorf("expected cleaned topic, got %v", f.lookup.topics)
	}
}

func TestDispatchWikipediaFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		notWant string
	}{
		{
			name:    "ambiguous",
			err:     &wiki.AmbiguousError{Topic: "x", Options: []string{"A", "B", "C", "D"}},
			want:    "Multiple results found. Please be more specific. Options include: A, B, C",
			notWant: "D",
		},
		{
			name: "not found",
			err:  wiki.ErrNotFound,
			want: "No Wikipedia page found for 'zzyzx'",
		},
		{
			name: "unavailable",
			err:  wiki.ErrUnavailable,
			want: WikiUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(time.Now())
			f.lookup.err = tt.err
			out := f.dispatch("wikipedia zzyzx")
			if out.Response != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out.Response)
			}
			if tt.notWant != "" && strings.Contains(out.Response, tt.notWant) {
				t.Errorf("response must not contain %q: %q", tt.notWant, out.Response)
			}
			if out.Control != domain.Continue {
				t.Error("lookup failures must not terminate")
			}
		})
	}
}

func TestDispatchGenericQuery(t *testing.T) {
	f := newFixture(time.Now())
	out := f.dispatch("tell me a joke")
	if out.Response != "A generated reply." {
		t.Errorf("unexpected response: %q", out.Response)
	}
	if len(f.responder.questions) != 1 || f.responder.questions[0] != "tell me a joke" {
		t.Errorf("expected the full utterance to be forwarded, got %v", f.responder.questions)
	}

	f.responder.err = errors.New("insufficient_quota: You exceeded your current quota")
	out = f.dispatch("tell me another")
	if !strings.Contains(out.Response, "insufficient_quota: You exceeded your current quota") {
		t.Errorf("expected failure reason in response, got %q", out.Response)
	}
	if !strings.HasPrefix(out.Response, "Sorry, I encountered an error: ") {
		t.Errorf("unexpected apology: %q", out.Response)
	}
}

type alwaysWeather struct{}

func (alwaysWeather) Match(domain.Utterance) domain.Intent {
	return domain.Intent{Kind: domain.IntentWeather}
}

func TestDispatchWithCustomMatcher(t *testing.T) {
	d := NewDispatcher(&fakeOpener{}, &fakeLookup{}, &fakeResponder{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithMatcher(alwaysWeather{}),
	)
	if out := d.Dispatch(context.Background(), domain.NewUtterance("open youtube")); out.Response != WeatherStub {
		t.Errorf("custom matcher ignored: %+v", out)
	}
}
