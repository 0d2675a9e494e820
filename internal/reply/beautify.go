// Package reply formats assistant text for display and holds the fixed,
// reviewed replies used when the model is not consulted.
package reply

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	paragraphBreak  = regexp.MustCompile(`\n{2,}`)
)

// Beautify restructures raw model text: horizontal whitespace is collapsed,
// blank lines separate paragraphs, and in a paragraph of several sentences the
// first sentence becomes a lead line followed by one bullet per remaining
// sentence.
func Beautify(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	text = horizontalSpace.ReplaceAllString(text, " ")

	var paragraphs []string
	for _, p := range paragraphBreak.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		sentences := splitSentences(p)
		if len(sentences) <= 1 {
			paragraphs = append(paragraphs, p)
			continue
		}
		lines := make([]string, 0, len(sentences))
		lines = append(lines, sentences[0])
		for _, s := range sentences[1:] {
			lines = append(lines, "- "+s)
		}
		paragraphs = append(paragraphs, strings.Join(lines, "\n"))
	}
	if len(paragraphs) == 0 {
		return text
	}
	return strings.Join(paragraphs, "\n\n")
}

// splitSentences cuts after '.', '!' or '?' when whitespace follows.
func splitSentences(p string) []string {
	var out []string
	start := 0
	for i := 0; i < len(p); {
		r, size := utf8.DecodeRuneInString(p[i:])
		i += size
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i
		for j < len(p) {
			next, n := utf8.DecodeRuneInString(p[j:])
			if !unicode.IsSpace(next) {
				break
			}
			j += n
		}
		if j == i {
			continue
		}
		if s := strings.TrimSpace(p[start:i]); s != "" {
			out = append(out, s)
		}
		start, i = j, j
	}
	if s := strings.TrimSpace(p[start:]); s != "" {
		out = append(out, s)
	}
	return out
}
