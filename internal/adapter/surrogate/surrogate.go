// Package surrogate provides an in-process stand-in for the process simulator.
// Each pathway is a linear model in the feedstock flow, so results are
// deterministic and cheap while keeping the simulator's configure-then-run
// contract.
package surrogate

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var defaultModels []byte

// Model is the per-kg-feedstock description of one pathway.
type Model struct {
	Yield          float64            `yaml:"yield"`
	Hours          float64            `yaml:"hours"`
	OutputScale    float64            `yaml:"output_scale"`
	PowerKWhPerKg  float64            `yaml:"power_kwh_per_kg"`
	ConversionCost float64            `yaml:"conversion_cost"`
	GWPScale       float64            `yaml:"gwp_scale"`
	Usage          map[string]float64 `yaml:"usage"`
}

// Simulator is a domain.Simulator backed by linear models. Configuration set
// by Configure persists until the next Configure for the same pathway.
type Simulator struct {
	models map[domain.Pathway]Model

	mu      sync.Mutex
	configs map[domain.Pathway]domain.Configuration
}

// New returns a Simulator using the embedded models.
func New() (*Simulator, error) {
	models, err := ParseModels(defaultModels)
	if err != nil {
		return nil, err
	}
	return NewWithModels(models), nil
}

// NewWithModels returns a Simulator using the given models.
func NewWithModels(models map[domain.Pathway]Model) *Simulator {
	return &Simulator{
		models:  models,
		configs: make(map[domain.Pathway]domain.Configuration),
	}
}

// ParseModels decodes a models document keyed by pathway name.
func ParseModels(data []byte) (map[domain.Pathway]Model, error) {
	var raw map[string]Model
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse surrogate models: %w", err)
	}
	models := make(map[domain.Pathway]Model, len(raw))
	for name, m := range raw {
		p, ok := domain.ParsePathway(name)
		if !ok {
			return nil, fmt.Errorf("surrogate model for unknown pathway %q", name)
		}
		if m.Yield <= 0 || m.Hours <= 0 || m.OutputScale <= 0 || m.GWPScale <= 0 {
			return nil, fmt.Errorf("surrogate model %q: yield, hours, output_scale and gwp_scale must be positive", name)
		}
		models[p] = m
	}
	return models, nil
}

// Configure stores cfg as the pathway's active configuration.
func (s *Simulator) Configure(_ context.Context, p domain.Pathway, cfg domain.Configuration) error {
	if _, ok := s.models[p]; !ok {
		return fmt.Errorf("no model for pathway %q", p)
	}
	s.mu.Lock()
	s.configs[p] = cfg.Clone()
	s.mu.Unlock()
	return nil
}

// Simulate evaluates the pathway's model at feedKgPerHour under the active
// configuration.
func (s *Simulator) Simulate(ctx context.Context, p domain.Pathway, feedKgPerHour float64) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	m, ok := s.models[p]
	if !ok {
		return domain.Result{}, fmt.Errorf("no model for pathway %q", p)
	}

	s.mu.Lock()
	cfg, ok := s.configs[p]
	s.mu.Unlock()
	if !ok {
		return domain.Result{}, fmt.Errorf("pathway %q has not been configured", p)
	}

	if feedKgPerHour <= 0 {
		return domain.Result{}, fmt.Errorf("%s system did not converge: feedstock flow must be positive", p)
	}
	return m.evaluate(cfg, feedKgPerHour), nil
}

func (m Model) evaluate(cfg domain.Configuration, feed float64) domain.Result {
	unitsPerHour := m.Yield * feed
	power := m.PowerKWhPerKg * feed

	costPerHour := feed*(cfg.FeedstockPrice+m.ConversionCost) + cfg.UtilityPrice*power

	impactPerHour := 0.0
	// Sorted so the floating-point sum is identical on every run.
	for _, material := range slices.Sorted(maps.Keys(m.Usage)) {
		impactPerHour += cfg.GWPFactors[material] * m.Usage[material] * feed
	}
	if power >= 0 {
		impactPerHour += cfg.UtilityGWP.Consumption * power
	} else {
		impactPerHour += cfg.UtilityGWP.Production * power
	}

	return domain.Result{
		Output: unitsPerHour * m.Hours * m.OutputScale,
		Price:  costPerHour / unitsPerHour,
		GWP:    impactPerHour / unitsPerHour * m.GWPScale,
	}
}
