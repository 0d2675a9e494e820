package animalctx

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miru4128/gaayatri-project/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestNormaliseNonMapping(t *testing.T) {
	assert.True(t, Normalise(nil).IsEmpty())
	assert.True(t, Normalise("cow").IsEmpty())
	assert.True(t, Normalise([]any{"a"}).IsEmpty())
	assert.True(t, Normalise(map[string]any{}).IsEmpty())
}

func TestNormaliseAllowList(t *testing.T) {
	got := Normalise(map[string]any{
		"name":         "  Tulsi ",
		"breed":        "Jersey",
		"owner_secret": "drop me",
		"notes":        "",
		"issue":        nil,
		"tag_number":   42.0,
	})
	want := domain.AnimalContext{
		Source:    domain.SourceManual,
		Name:      "Tulsi",
		Breed:     "Jersey",
		TagNumber: "42",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected context (-want +got):\n%s", diff)
	}
}

func TestNormaliseNumbers(t *testing.T) {
	got := Normalise(map[string]any{
		"age_years":  "6.0",
		"milk_yield": "11.23456",
	})
	require.NotNil(t, got.AgeYears)
	require.NotNil(t, got.MilkYield)
	assert.Equal(t, 6.0, *got.AgeYears)
	assert.Equal(t, 11.23, *got.MilkYield)
	assert.Equal(t, int64(6), got.ToMap()["age_years"])

	bad := Normalise(map[string]any{"age_years": "six", "breed": "Gir"})
	assert.Nil(t, bad.AgeYears)
	assert.Equal(t, "Gir", bad.Breed)
}

func TestNormaliseBoolean(t *testing.T) {
	for input, want := range map[any]bool{
		true:    true,
		false:   false,
		"YES":   true,
		"y":     true,
		"1":     true,
		"no":    false,
		"maybe": false,
		1.0:     true,
	} {
		got := Normalise(map[string]any{"is_sick": input})
		require.NotNil(t, got.IsSick, "input %v", input)
		assert.Equal(t, want, *got.IsSick, "input %v", input)
	}
}

func TestNormaliseSource(t *testing.T) {
	assert.Equal(t, domain.SourceSaved, Normalise(map[string]any{"source": "Saved", "breed": "Gir"}).Source)
	assert.Equal(t, domain.SourceManual, Normalise(map[string]any{"source": "bogus", "breed": "Gir"}).Source)
}

func TestNormaliseIsIdempotent(t *testing.T) {
	inputs := []map[string]any{
		{"age_years": "6.0", "milk_yield": "11.23456", "breed": " Gir "},
		{"animal_id": 5, "is_sick": "yes", "issue": "Fever", "source": "saved"},
		{"last_vaccination_date": "2024-01-15", "lactation_stage": "mid", "notes": "calm"},
		{"unknown": "x"},
	}
	for _, in := range inputs {
		once := Normalise(in)
		twice := Normalise(once.ToMap())
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("normalise not idempotent for %v (-once +twice):\n%s", in, diff)
		}
	}
}

func TestNormaliseJSON(t *testing.T) {
	got := NormaliseJSON(json.RawMessage(`{"animal_id":"12","issue":"Mastitis"}`))
	assert.Equal(t, "12", got.AnimalID)
	assert.Equal(t, "Mastitis", got.Issue)
	assert.Equal(t, domain.SourceManual, got.Source)

	assert.True(t, NormaliseJSON(json.RawMessage(`not json`)).IsEmpty())
	assert.True(t, NormaliseJSON(json.RawMessage(`[1,2]`)).IsEmpty())
	assert.True(t, NormaliseJSON(nil).IsEmpty())
}
