package animalctx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/miru4128/gaayatri-project/internal/domain"
)

type fakeAnimals struct {
	records map[int64]*domain.AnimalRecord
	err     error
	calls   int
}

func (f *fakeAnimals) GetAnimal(_ context.Context, id int64, owner string) (*domain.AnimalRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.records[id]
	if !ok || r.OwnerID != owner {
		return nil, nil
	}
	return r, nil
}

func newFakeAnimals() *fakeAnimals {
	vaccinated := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	return &fakeAnimals{records: map[int64]*domain.AnimalRecord{
		5: {
			AnimalID:            5,
			OwnerID:             "farmer1",
			Name:                "Gauri",
			TagNumber:           "T-101",
			Breed:               "Gir",
			AgeYears:            ptr(5.0),
			DailyMilkYield:      ptr(12.456),
			LastVaccinationDate: &vaccinated,
		},
	}}
}

func TestAugmentFillsMissingFieldsOnly(t *testing.T) {
	e := NewEnricher(newFakeAnimals())
	in := Normalise(map[string]any{"animal_id": 5, "breed": "Jersey"})

	got := e.Augment(context.Background(), "farmer1", in)

	assert.Equal(t, domain.SourceSaved, got.Source)
	assert.Equal(t, "5", got.AnimalID)
	assert.Equal(t, "Jersey", got.Breed)
	assert.Equal(t, "Gauri", got.Name)
	assert.Equal(t, "T-101", got.TagNumber)
	assert.Equal(t, 5.0, *got.AgeYears)
	assert.Equal(t, 12.46, *got.MilkYield)
	assert.Equal(t, "2024-03-09", got.LastVaccinationDate)
}

func TestAugmentCanonicalisesID(t *testing.T) {
	e := NewEnricher(newFakeAnimals())
	got := e.Augment(context.Background(), "farmer1", Normalise(map[string]any{"animal_id": "005"}))
	assert.Equal(t, "5", got.AnimalID)
}

func TestAugmentStripsUnverifiedReference(t *testing.T) {
	animals := newFakeAnimals()
	e := NewEnricher(animals)
	ctx := context.Background()

	for name, tc := range map[string]struct {
		owner string
		ref   any
	}{
		"other owner": {"farmer2", 5},
		"unknown id":  {"farmer1", 99},
		"bad id":      {"farmer1", "abc"},
		"zero id":     {"farmer1", 0},
	} {
		t.Run(name, func(t *testing.T) {
			got := e.Augment(ctx, tc.owner, Normalise(map[string]any{"animal_id": tc.ref, "issue": "Fever"}))
			assert.Empty(t, got.AnimalID)
			assert.Equal(t, domain.SourceManual, got.Source)
			assert.Equal(t, "Fever", got.Issue)
			assert.Empty(t, got.Name)
		})
	}
}

func TestAugmentLookupErrorDegrades(t *testing.T) {
	animals := newFakeAnimals()
	animals.err = errors.New("db down")
	got := NewEnricher(animals).Augment(context.Background(), "farmer1", Normalise(map[string]any{"animal_id": 5, "issue": "Fever"}))
	assert.Empty(t, got.AnimalID)
	assert.Equal(t, "Fever", got.Issue)
}

func TestAugmentEmptyContext(t *testing.T) {
	animals := newFakeAnimals()
	got := NewEnricher(animals).Augment(context.Background(), "farmer1", domain.AnimalContext{})
	assert.True(t, got.IsEmpty())
	assert.Zero(t, animals.calls)
}
