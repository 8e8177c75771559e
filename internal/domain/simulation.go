package domain

import (
	"context"
	"fmt"
	"maps"
	"math"
	"sort"
	"strings"
)

// UtilityFactors are the GWP characterization factors for the power utility,
// in kg CO2e/kWh, applied to net consumption or net production.
type UtilityFactors struct {
	Consumption float64 `json:"consumption" yaml:"consumption"`
	Production  float64 `json:"production" yaml:"production"`
}

// Configuration is the pricing and characterization state applied to the
// simulator before a run.
type Configuration struct {
	FeedstockPrice float64            `json:"feedstock_price" yaml:"feedstock_price"` // USD/kg
	UtilityPrice   float64            `json:"utility_price" yaml:"utility_price"`     // USD/kWh
	UtilityGWP     UtilityFactors     `json:"utility_gwp" yaml:"utility_gwp"`
	GWPFactors     map[string]float64 `json:"gwp_factors" yaml:"gwp_factors"` // kg CO2e/kg by material
}

// Clone returns a deep copy so callers can hand configurations across
// goroutines without sharing the factor map.
func (c Configuration) Clone() Configuration {
	c.GWPFactors = maps.Clone(c.GWPFactors)
	return c
}

// Materials returns the characterized material names in sorted order.
func (c Configuration) Materials() []string {
	names := make([]string, 0, len(c.GWPFactors))
	for name := range c.GWPFactors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Overrides are optional per-request replacements for a pathway's default
// Configuration.
type Overrides struct {
	FeedstockPrice *float64
	UtilityPrice   *float64
	GWPFactors     map[string]float64
}

// Apply returns base with the overrides applied. Only materials already
// characterized in base may be overridden.
func (o Overrides) Apply(base Configuration) (Configuration, error) {
	cfg := base.Clone()
	if o.FeedstockPrice != nil {
		if !isFinite(*o.FeedstockPrice) {
			return Configuration{}, Errorf(ErrInvalidType, "feedstock_price must be a finite number")
		}
		cfg.FeedstockPrice = *o.FeedstockPrice
	}
	if o.UtilityPrice != nil {
		if !isFinite(*o.UtilityPrice) {
			return Configuration{}, Errorf(ErrInvalidType, "utility_price must be a finite number")
		}
		cfg.UtilityPrice = *o.UtilityPrice
	}
	for material, cf := range o.GWPFactors {
		if _, ok := cfg.GWPFactors[material]; !ok {
			return Configuration{}, Errorf(ErrUnknownMaterial,
				"unknown material %q, expected one of %s", material, strings.Join(base.Materials(), ", "))
		}
		if !isFinite(cf) {
			return Configuration{}, Errorf(ErrInvalidType, "characterization factor for %q must be a finite number", material)
		}
		cfg.GWPFactors[material] = cf
	}
	return cfg, nil
}

// Result holds the three standard metrics of one simulation run.
type Result struct {
	Output float64 `json:"output"` // product per year, pathway-specific unit
	Price  float64 `json:"price"`  // solved break-even price per product unit
	GWP    float64 `json:"gwp"`    // CO2e per product unit
}

// Validate rejects non-finite metrics, which cannot be serialized as JSON.
func (r Result) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"output", r.Output}, {"price", r.Price}, {"gwp", r.GWP}} {
		if !isFinite(f.v) {
			return fmt.Errorf("simulation returned a non-finite %s", f.name)
		}
	}
	return nil
}

// Simulator is the external process-simulation collaborator. Configure mutates
// state shared by every subsequent Simulate call, so a Configure/Simulate pair
// must not interleave with another.
type Simulator interface {
	Configure(ctx context.Context, p Pathway, cfg Configuration) error
	Simulate(ctx context.Context, p Pathway, feedKgPerHour float64) (Result, error)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
