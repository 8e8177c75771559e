package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event sources.
const (
	SourceCalc   = "calc"
	SourceCounty = "county"
)

// CalculationEvent records one successful pathway calculation for downstream
// consumers.
type CalculationEvent struct {
	ID                 string        `json:"id"`
	Pathway            Pathway       `json:"pathway"`
	Source             string        `json:"source"`
	County             string        `json:"county_name,omitempty"`
	InputValue         float64       `json:"input_value"`
	InputUnit          Unit          `json:"input_unit"`
	FeedstockKgPerHour float64       `json:"feedstock_kg_per_hr"`
	Product            string        `json:"product"`
	Output             float64       `json:"output"`
	Price              float64       `json:"price"`
	GWP                float64       `json:"gwp"`
	Configuration      Configuration `json:"configuration"`
	ComputedAt         time.Time     `json:"computed_at"`
}

// NewCalculationEvent stamps a fresh id and the current UTC time.
func NewCalculationEvent() CalculationEvent {
	return CalculationEvent{
		ID:         uuid.NewString(),
		ComputedAt: clock.Now().UTC(),
	}
}
