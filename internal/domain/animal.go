package domain

import "time"

// AnimalRecord is a farmer's registered animal. The assistant only reads it.
type AnimalRecord struct {
	AnimalID            int64      `json:"animal_id"`
	OwnerID             string     `json:"owner_id"`
	Name                string     `json:"name"`
	TagNumber           string     `json:"tag_number"`
	Breed               string     `json:"breed"`
	AgeYears            *float64   `json:"age_years,omitempty"`
	DailyMilkYield      *float64   `json:"daily_milk_yield,omitempty"`
	LastVaccinationDate *time.Time `json:"last_vaccination_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}
