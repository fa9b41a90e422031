package domain

import "strings"

// Failure tags why a listen produced no usable text.
type Failure int

const (
	FailureNone Failure = iota
	FailureNoSpeech
	FailureUnintelligible
	FailureService
	// FailureEndOfInput is reported by finite sources (stdin, clip directory)
	// once they are exhausted.
	FailureEndOfInput
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureNoSpeech:
		return "no_speech"
	case FailureUnintelligible:
		return "unintelligible"
	case FailureService:
		return "service"
	case FailureEndOfInput:
		return "end_of_input"
	default:
		return "unknown"
	}
}

// Utterance is the normalized text of one capture. A zero Failure means Text
// is a real (possibly empty) transcript.
type Utterance struct {
	Text    string
	Failure Failure
}

func NewUtterance(raw string) Utterance {
	return Utterance{Text: strings.ToLower(strings.TrimSpace(raw))}
}

func NoResult(f Failure) Utterance {
	if f == FailureNone {
		f = FailureUnintelligible
	}
	return Utterance{Failure: f}
}

func (u Utterance) IsNoResult() bool {
	return u.Failure != FailureNone
}

func (u Utterance) String() string {
	if u.IsNoResult() {
		return "<" + u.Failure.String() + ">"
	}
	return u.Text
}
