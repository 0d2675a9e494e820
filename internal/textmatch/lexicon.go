// Package textmatch provides the pure text canonicalisation and term matching
// used by the intake pipeline. The refusal term lists match by
// case-insensitive substring containment. Cattle keywords match as whole
// words, and greeting and IP detection use regular expressions.
package textmatch

import (
	"regexp"
	"strings"
)

// Lexicon is the set of term lists and patterns the classifiers match
// against. Terms are stored lowercase. A Lexicon is not modified after
// construction and may be shared between goroutines.
type Lexicon struct {
	Greeting *regexp.Regexp

	// CattleKeywords mark a message as explicitly about cattle or dairy. They
	// match whole words only; a plural "s" or "es" is accepted and a trailing
	// "*" marks a stem ("vaccin*" matches "vaccination").
	CattleKeywords []string
	// CattlePattern is compiled from CattleKeywords by KeywordPattern.
	CattlePattern *regexp.Regexp
	// BovineCoreTerms are the animal nouns used for the "my <term>" check
	// and for the bovine hint in refusal scoping.
	BovineCoreTerms []string
	// AnimalNouns suppress the human-health heuristic wherever they appear.
	AnimalNouns []string

	HumanHealthTerms []string
	// HumanHealthCues imply a personal affliction ("i have", "my fever").
	HumanHealthCues []string
	// HumanHealthRequests are explicit phrasings that are refused even
	// without the full heuristic.
	HumanHealthRequests []string

	SelfHarmTerms []string
	ViolenceTerms []string
}

var (
	greetingPattern = regexp.MustCompile(`^\s*(hi+|hello+|hey+|hiya|namaste|namaskar(am)?|ram ram|good\s+(morning|afternoon|evening|day)|greetings)(\s+(there|ji|sir|madam|everyone|gaayatri|bot))?\s*[!.,?]*\s*$`)

	ipPattern = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b|\b(?:[0-9a-fA-F]{1,4}:){2,7}[0-9a-fA-F]{0,4}\b`)
)

// KeywordPattern compiles whole-word terms into one case-insensitive regexp.
// Spaces inside a term match any whitespace run.
func KeywordPattern(terms []string) *regexp.Regexp {
	alts := make([]string, 0, len(terms))
	for _, term := range terms {
		stem := strings.HasSuffix(term, "*")
		words := strings.Fields(strings.TrimSuffix(term, "*"))
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alt := strings.Join(words, `\s+`)
		if stem {
			alt += `\w*`
		} else {
			alt += `(?:s|es)?`
		}
		alts = append(alts, alt)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)
}

// DefaultLexicon returns the term lists used in production.
func DefaultLexicon() *Lexicon {
	lex := &Lexicon{
		Greeting: greetingPattern,
		CattleKeywords: []string{
			"cow", "cattle", "buffalo", "calf", "calves", "heifer", "bull", "bullock",
			"bovine", "livestock", "dairy", "milk*", "udder", "teat", "mastitis",
			"lactat*", "calving", "insemin*", "fodder", "silage", "deworm*", "vaccin*",
			"veterinar*", "rumen", "hoof", "hooves", "estrus", "dung", "gobar",
			"foot and mouth", "lumpy skin", "brucell*", "gir", "sahiwal", "jersey",
			"holstein", "murrah", "tharparkar", "red sindhi", "gaushala", "cowshed",
		},
		BovineCoreTerms: []string{
			"cow", "cows", "cattle", "buffalo", "buffaloes", "calf", "calves",
			"heifer", "heifers", "bull", "bulls", "bullock",
		},
		AnimalNouns: []string{
			"cow", "buffalo", "cattle", "calf", "heifer", "bull", "livestock", "animal",
		},
		HumanHealthTerms: []string{
			"fever", "headache", "cough", "cold", "diabetes", "blood pressure",
			"chest pain", "pain", "pregnan", "periods", "medicine", "tablet",
			"covid", "infection", "vomit", "diarrh", "rash", "allerg", "cancer",
			"asthma", "migraine", "injury", "sugar level", "thyroid",
		},
		HumanHealthCues: []string{
			"i have", "i am having", "i'm having", "i feel", "i am feeling",
			"i'm feeling", "i got", "i've got", "i've been", "i am suffering",
			"i'm suffering", "my fever", "my head", "my body", "my stomach",
			"my chest", "my back", "my throat", "my skin", "my tooth",
			"my wife", "my husband", "my son", "my daughter", "my child",
			"my baby", "my mother", "my father", "for me",
		},
		HumanHealthRequests: []string{
			"medicine for me", "treatment for me", "i need medicine",
		},
		SelfHarmTerms: []string{
			"suicide", "kill myself", "end my life", "take my life", "self harm",
			"self-harm", "hurt myself", "want to die", "don't want to live",
			"do not want to live", "cut myself", "no reason to live",
		},
		ViolenceTerms: []string{
			"kill someone", "kill him", "kill her", "kill them", "kill my neighbour",
			"kill my neighbor", "murder", "poison someone", "poison my neighbour",
			"poison my neighbor", "make a bomb", "build a bomb", "attack someone",
			"shoot someone", "stab him", "stab someone", "beat him", "beat her", "hurt someone", "weapon",
		},
	}
	lex.CattlePattern = KeywordPattern(lex.CattleKeywords)
	return lex
}
