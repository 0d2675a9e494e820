package animalctx

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/miru4128/gaayatri-project/internal/domain"
)

// AnimalLookup reads a farmer's registered animal. It returns nil, nil when
// no animal with that id belongs to ownerID.
type AnimalLookup interface {
	GetAnimal(ctx context.Context, animalID int64, ownerID string) (*domain.AnimalRecord, error)
}

// Enricher fills a context from the stored record it references.
type Enricher struct {
	animals AnimalLookup
}

// NewEnricher creates an Enricher backed by animals.
func NewEnricher(animals AnimalLookup) *Enricher {
	return &Enricher{animals: animals}
}

// Augment verifies c's animal reference against ownerID. A verified
// reference marks the context saved, canonicalises the id and fills only the
// fields the farmer left blank. A reference that cannot be verified is
// removed.
func (e *Enricher) Augment(ctx context.Context, ownerID string, c domain.AnimalContext) domain.AnimalContext {
	if c.IsEmpty() {
		return domain.AnimalContext{}
	}

	record := e.lookup(ctx, ownerID, c.AnimalID)
	if record == nil {
		c.AnimalID = ""
		return c
	}

	c.AnimalID = strconv.FormatInt(record.AnimalID, 10)
	c.Source = domain.SourceSaved
	if c.Name == "" {
		c.Name = record.Name
	}
	if c.TagNumber == "" {
		c.TagNumber = record.TagNumber
	}
	if c.Breed == "" {
		c.Breed = record.Breed
	}
	if c.AgeYears == nil && record.AgeYears != nil {
		age := CoerceNumber(*record.AgeYears)
		c.AgeYears = &age
	}
	if c.MilkYield == nil && record.DailyMilkYield != nil {
		milk := CoerceNumber(*record.DailyMilkYield)
		c.MilkYield = &milk
	}
	if c.LastVaccinationDate == "" && record.LastVaccinationDate != nil {
		c.LastVaccinationDate = record.LastVaccinationDate.Format("2006-01-02")
	}
	return c
}

func (e *Enricher) lookup(ctx context.Context, ownerID, ref string) *domain.AnimalRecord {
	if ref == "" || e.animals == nil {
		return nil
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	record, err := e.animals.GetAnimal(ctx, id, ownerID)
	if err != nil {
		log.Warn().Err(err).Int64("animal_id", id).Str("owner", ownerID).Msg("animal lookup failed; dropping reference")
		return nil
	}
	return record
}
