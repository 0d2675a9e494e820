package textmatch

import "strings"

// Normalize lowercases text and collapses whitespace runs to single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// ContainsAny reports whether any term is a substring of the normalised text.
func ContainsAny(normalized string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(normalized, term) {
			return true
		}
	}
	return false
}

// RedactIP removes anything that looks like an IPv4 or IPv6 address.
func RedactIP(text string) string {
	return ipPattern.ReplaceAllString(text, "")
}

// ContainsIP reports whether text holds an IP address.
func ContainsIP(text string) bool {
	return ipPattern.MatchString(text)
}

// The matchers below take text already passed through Normalize.

func (l *Lexicon) MatchesGreeting(normalized string) bool {
	return l.Greeting != nil && l.Greeting.MatchString(normalized)
}

// HasCattleKeyword reports whether a cattle keyword appears as a whole word.
func (l *Lexicon) HasCattleKeyword(normalized string) bool {
	if l.CattlePattern == nil {
		return false
	}
	return l.CattlePattern.MatchString(normalized)
}

// HasBovineHint reports whether any bovine core term appears anywhere.
func (l *Lexicon) HasBovineHint(normalized string) bool {
	return ContainsAny(normalized, l.BovineCoreTerms)
}

// HasBovinePossessive reports whether a "my <bovine term>" phrase appears.
func (l *Lexicon) HasBovinePossessive(normalized string) bool {
	for _, term := range l.BovineCoreTerms {
		if strings.Contains(normalized, "my "+term) {
			return true
		}
	}
	return false
}

func (l *Lexicon) HasAnimalNoun(normalized string) bool {
	return ContainsAny(normalized, l.AnimalNouns)
}

func (l *Lexicon) HasHumanHealthTerm(normalized string) bool {
	return ContainsAny(normalized, l.HumanHealthTerms)
}

func (l *Lexicon) HasHumanHealthCue(normalized string) bool {
	return ContainsAny(normalized, l.HumanHealthCues)
}

func (l *Lexicon) HasExplicitHumanHealthRequest(normalized string) bool {
	return ContainsAny(normalized, l.HumanHealthRequests)
}

func (l *Lexicon) HasSelfHarmTerm(normalized string) bool {
	return ContainsAny(normalized, l.SelfHarmTerms)
}

func (l *Lexicon) HasViolenceTerm(normalized string) bool {
	return ContainsAny(normalized, l.ViolenceTerms)
}
