package domain

import (
	"strconv"
	"strings"
)

// AnimalContext holds the facts about the animal or health topic under
// discussion in a session. Values are only produced by the normaliser in
// package animalctx; the zero value is the empty context.
type AnimalContext struct {
	Source              Source   `json:"source,omitempty"`
	AnimalID            string   `json:"animal_id,omitempty"`
	Name                string   `json:"name,omitempty"`
	TagNumber           string   `json:"tag_number,omitempty"`
	Breed               string   `json:"breed,omitempty"`
	AgeYears            *float64 `json:"age_years,omitempty"`
	MilkYield           *float64 `json:"milk_yield,omitempty"`
	Issue               string   `json:"issue,omitempty"`
	Notes               string   `json:"notes,omitempty"`
	LactationStage      string   `json:"lactation_stage,omitempty"`
	LastVaccinationDate string   `json:"last_vaccination_date,omitempty"`
	IsSick              *bool    `json:"is_sick,omitempty"`
}

// IsEmpty reports whether no field is set.
func (c AnimalContext) IsEmpty() bool {
	return c.Equal(AnimalContext{})
}

// Equal reports exact structural equality: same set of present fields with
// the same values.
func (c AnimalContext) Equal(o AnimalContext) bool {
	return c.Source == o.Source &&
		c.AnimalID == o.AnimalID &&
		c.Name == o.Name &&
		c.TagNumber == o.TagNumber &&
		c.Breed == o.Breed &&
		equalFloat(c.AgeYears, o.AgeYears) &&
		equalFloat(c.MilkYield, o.MilkYield) &&
		c.Issue == o.Issue &&
		c.Notes == o.Notes &&
		c.LactationStage == o.LactationStage &&
		c.LastVaccinationDate == o.LastVaccinationDate &&
		equalBool(c.IsSick, o.IsSick)
}

// ToMap returns the present fields as a plain mapping, the shape the
// normaliser accepts. Whole numbers are emitted as int64.
func (c AnimalContext) ToMap() map[string]any {
	m := make(map[string]any)
	put := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	put("source", string(c.Source))
	put("animal_id", c.AnimalID)
	put("name", c.Name)
	put("tag_number", c.TagNumber)
	put("breed", c.Breed)
	if c.AgeYears != nil {
		m["age_years"] = numberValue(*c.AgeYears)
	}
	if c.MilkYield != nil {
		m["milk_yield"] = numberValue(*c.MilkYield)
	}
	put("issue", c.Issue)
	put("notes", c.Notes)
	put("lactation_stage", c.LactationStage)
	put("last_vaccination_date", c.LastVaccinationDate)
	if c.IsSick != nil {
		m["is_sick"] = *c.IsSick
	}
	return m
}

// Summary renders the human-readable description used in prompts and
// greetings: name, breed, age, milk yield, issue and lactation stage, in that
// order, joined by commas. Zero numbers are left out.
func (c AnimalContext) Summary() string {
	var parts []string
	if c.Name != "" {
		parts = append(parts, c.Name)
	}
	if c.Breed != "" {
		parts = append(parts, c.Breed+" breed")
	}
	if c.AgeYears != nil && *c.AgeYears != 0 {
		parts = append(parts, FormatNumber(*c.AgeYears)+" years old")
	}
	if c.MilkYield != nil && *c.MilkYield != 0 {
		parts = append(parts, FormatNumber(*c.MilkYield)+" L/day")
	}
	if c.Issue != "" {
		parts = append(parts, "Issue: "+c.Issue)
	}
	if c.LactationStage != "" {
		parts = append(parts, "Stage: "+c.LactationStage)
	}
	return strings.Join(parts, ", ")
}

// FormatNumber prints whole numbers without a fraction and others with the
// shortest exact representation.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func numberValue(v float64) any {
	if v == float64(int64(v)) {
		return int64(v)
	}
	return v
}

func equalFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
