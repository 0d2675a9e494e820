// Package animalctx turns free-form context payloads into validated
// domain.AnimalContext values and enriches them from stored animal records.
package animalctx

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/miru4128/gaayatri-project/internal/domain"
)

var truthy = map[string]bool{"1": true, "true": true, "yes": true, "y": true}

// Normalise validates raw against the allow-listed context fields. Anything
// that is not a mapping yields the empty context. Unknown keys, nil and empty
// string values are dropped; numbers that cannot be parsed are dropped. A
// non-empty result without a source is marked manual.
func Normalise(raw any) domain.AnimalContext {
	fields, ok := raw.(map[string]any)
	if !ok {
		return domain.AnimalContext{}
	}

	var c domain.AnimalContext
	for key, value := range fields {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		switch key {
		case "source":
			c.Source = parseSource(value)
		case "animal_id":
			c.AnimalID = stringify(value)
		case "name":
			c.Name = stringify(value)
		case "tag_number":
			c.TagNumber = stringify(value)
		case "breed":
			c.Breed = stringify(value)
		case "age_years":
			c.AgeYears = coerceNumber(value)
		case "milk_yield":
			c.MilkYield = coerceNumber(value)
		case "issue":
			c.Issue = stringify(value)
		case "notes":
			c.Notes = stringify(value)
		case "lactation_stage":
			c.LactationStage = stringify(value)
		case "last_vaccination_date":
			c.LastVaccinationDate = stringify(value)
		case "is_sick":
			c.IsSick = coerceBool(value)
		}
	}

	if !c.IsEmpty() && c.Source == "" {
		c.Source = domain.SourceManual
	}
	return c
}

// NormaliseJSON decodes a raw JSON payload and normalises it. Malformed JSON
// degrades to the empty context.
func NormaliseJSON(data json.RawMessage) domain.AnimalContext {
	if len(data) == 0 {
		return domain.AnimalContext{}
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.AnimalContext{}
	}
	return Normalise(raw)
}

// CoerceNumber keeps whole numbers exact and rounds others to two decimals.
func CoerceNumber(v float64) float64 {
	if v == math.Trunc(v) {
		return v
	}
	return math.Round(v*100) / 100
}

func coerceNumber(value any) *float64 {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case int32:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		n = f
	case bool:
		if v {
			n = 1
		}
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		n = f
	default:
		return nil
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	n = CoerceNumber(n)
	return &n
}

func coerceBool(value any) *bool {
	if b, ok := value.(bool); ok {
		return &b
	}
	b := truthy[strings.ToLower(stringify(value))]
	return &b
}

func parseSource(value any) domain.Source {
	switch domain.Source(strings.ToLower(stringify(value))) {
	case domain.SourceManual:
		return domain.SourceManual
	case domain.SourceSaved:
		return domain.SourceSaved
	}
	return ""
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		// Nested objects and lists are not context values.
		return ""
	}
}
