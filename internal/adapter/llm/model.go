package llm

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "llama-3.1-8b-instant"

// deprecatedModels maps retired model identifiers to their replacements.
var deprecatedModels = map[string]string{
	"llama3-8b-8192":          "llama-3.1-8b-instant",
	"llama3-70b-8192":         "llama-3.3-70b-versatile",
	"mixtral-8x7b-32768":      "llama-3.3-70b-versatile",
	"gemma-7b-it":             "gemma2-9b-it",
	"llama-3.1-70b-versatile": "llama-3.3-70b-versatile",
}

// ResolveModel returns the model to request for the configured name.
func ResolveModel(configured string) string {
	name := strings.TrimSpace(configured)
	if name == "" {
		return DefaultModel
	}
	if replacement, ok := deprecatedModels[strings.ToLower(name)]; ok {
		log.Warn().
			Str("model", name).
			Str("replacement", replacement).
			Msg("configured model is retired; using replacement")
		return replacement
	}
	return name
}
