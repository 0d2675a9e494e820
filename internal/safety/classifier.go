// Package safety decides whether a message must be refused before any scope
// or model work happens.
package safety

import "github.com/miru4128/gaayatri-project/internal/textmatch"

// Reason names why a message was refused. The empty Reason means no refusal.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonSelfHarm    Reason = "self_harm"
	ReasonViolence    Reason = "violence"
	ReasonHumanHealth Reason = "human_health"
)

// Classifier applies the refusal rules over a Lexicon.
type Classifier struct {
	lex *textmatch.Lexicon
}

// NewClassifier creates a classifier. A nil lexicon selects the default one.
func NewClassifier(lex *textmatch.Lexicon) *Classifier {
	if lex == nil {
		lex = textmatch.DefaultLexicon()
	}
	return &Classifier{lex: lex}
}

// Lexicon returns the term lists the classifier matches against.
func (c *Classifier) Lexicon() *textmatch.Lexicon {
	return c.lex
}

// Refusal returns the refusal reason for message, or ReasonNone.
//
// Self-harm is checked first and ignores hasCattleContext. Violence and
// human-health refusals only apply while the conversation is not already
// about an animal, so "my cow needs medicine" is never read as a request for
// human treatment.
func (c *Classifier) Refusal(message string, hasCattleContext bool) Reason {
	normalized := textmatch.Normalize(message)
	if c.lex.HasSelfHarmTerm(normalized) {
		return ReasonSelfHarm
	}
	if hasCattleContext {
		return ReasonNone
	}
	if c.lex.HasViolenceTerm(normalized) {
		return ReasonViolence
	}
	if c.humanHealthIntent(normalized) || c.lex.HasExplicitHumanHealthRequest(normalized) {
		return ReasonHumanHealth
	}
	return ReasonNone
}

// humanHealthIntent fires only when no animal is mentioned at all, a health
// term is present and a personal-affliction cue co-occurs. Any animal noun
// anywhere suppresses it, even in an unrelated clause.
func (c *Classifier) humanHealthIntent(normalized string) bool {
	if c.lex.HasBovinePossessive(normalized) {
		return false
	}
	if c.lex.HasAnimalNoun(normalized) {
		return false
	}
	if !c.lex.HasHumanHealthTerm(normalized) {
		return false
	}
	return c.lex.HasHumanHealthCue(normalized)
}
