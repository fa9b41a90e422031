package domain

type IntentKind string

const (
	IntentNoOp         IntentKind = "no_op"
	IntentOpenSite     IntentKind = "open_site"
	IntentTime         IntentKind = "get_time"
	IntentDate         IntentKind = "get_date"
	IntentWeather      IntentKind = "get_weather"
	IntentWikiLookup   IntentKind = "wiki_lookup"
	IntentExit         IntentKind = "exit"
	IntentGenericQuery IntentKind = "generic_query"
)

type Site struct {
	Name string
	URL  string
}

// Intent is the single classification result for one utterance. Only the
// field matching Kind is populated.
type Intent struct {
	Kind  IntentKind
	Site  Site
	Topic string
	Query string
}

type Control int

const (
	Continue Control = iota
	Terminate
)

func (c Control) String() string {
	if c == Terminate {
		return "terminate"
	}
	return "continue"
}

// Outcome is what dispatch hands back to the loop. Speak is false only for
// no_op, in which case Response is empty and nothing is said.
type Outcome struct {
	Response string
	Speak    bool
	Control  Control
}

func Say(text string) Outcome {
	return Outcome{Response: text, Speak: true, Control: Continue}
}

func Silent() Outcome {
	return Outcome{Control: Continue}
}
