// Package intent classifies utterances and carries out the matching action.
package intent

import (
	"strings"

	"voxbot/internal/domain"
)

// Matcher picks exactly one intent for an utterance.
type Matcher interface {
	Match(u domain.Utterance) domain.Intent
}

var (
	Sites = []domain.Site{
		{Name: "YouTube", URL: "https://www.youtube.com"},
		{Name: "Google", URL: "https://www.google.com"},
		{Name: "GitHub", URL: "https://www.github.com"},
	}

	ExitWords = []string{"bye", "goodbye", "exit", "quit", "stop"}
)

type rule struct {
	match func(text string) bool
	build func(text string) domain.Intent
}

// Rules is the ordered first-match substring matcher. Order is precedence:
// "what's the time in wikipedia" is a time request, not a lookup.
type Rules struct {
	rules []rule
}

func NewRules() *Rules {
	var rules []rule

	for _, s := range Sites {
		site := s
		rules = append(rules, rule{
			match: contains("open " + strings.ToLower(site.Name)),
			build: func(string) domain.Intent {
				return domain.Intent{Kind: domain.IntentOpenSite, Site: site}
			},
		})
	}

	rules = append(rules,
		rule{match: contains("time"), build: kind(domain.IntentTime)},
		rule{match: contains("date"), build: kind(domain.IntentDate)},
		rule{match: contains("weather"), build: kind(domain.IntentWeather)},
		rule{
			// "search wikipedia" is already covered by "wikipedia"; kept for parity
			match: anyOf("wikipedia", "search wikipedia"),
			build: func(text string) domain.Intent {
				return domain.Intent{Kind: domain.IntentWikiLookup, Topic: text}
			},
		},
		rule{match: anyOf(ExitWords...), build: kind(domain.IntentExit)},
	)

	return &Rules{rules: rules}
}

func (r *Rules) Match(u domain.Utterance) domain.Intent {
	if u.IsNoResult() {
		return domain.Intent{Kind: domain.IntentNoOp}
	}
	for _, rl := range r.rules {
		if rl.match(u.Text) {
			return rl.build(u.Text)
		}
	}
	return domain.Intent{Kind: domain.IntentGenericQuery, Query: u.Text}
}

func contains(sub string) func(string) bool {
	return func(text string) bool { return strings.Contains(text, sub) }
}

func anyOf(subs ...string) func(string) bool {
	return func(text string) bool {
		for _, s := range subs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}

func kind(k domain.IntentKind) func(string) domain.Intent {
	return func(string) domain.Intent { return domain.Intent{Kind: k} }
}
