// Package service turns pathway requests into simulation results: it
// normalizes quantities or resolves counties, merges configuration overrides,
// runs the simulation through the gateway and publishes the outcome.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/biomass-pathways-api/internal/catalog"
	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
	"github.com/couchcryptid/biomass-pathways-api/internal/observability"
)

// Simulator runs one configured simulation with exclusive access.
type Simulator interface {
	Simulate(ctx context.Context, p domain.Pathway, kgPerHour float64, cfg domain.Configuration) (domain.Result, error)
	CheckReadiness(ctx context.Context) error
}

// Publisher delivers calculation events downstream.
type Publisher interface {
	Publish(ctx context.Context, event domain.CalculationEvent) error
}

// Quantity is a feedstock amount in a caller-chosen unit.
type Quantity struct {
	Value float64
	Unit  string
}

// Calculation is the outcome of one request.
type Calculation struct {
	Pathway        *catalog.Pathway
	County         string      // canonical county name; empty for direct quantities
	CountyQuantity float64     // county feedstock in the table's native unit
	CountyUnit     domain.Unit // unit of CountyQuantity
	KgPerHour      float64
	Result         domain.Result
	Configuration  domain.Configuration
}

// DefaultPublishTimeout bounds event publication when Options leaves it unset.
const DefaultPublishTimeout = 5 * time.Second

// Options tune the service.
type Options struct {
	PublishTimeout time.Duration // upper bound a response waits on event publication
}

// Service implements the calc and county operations.
type Service struct {
	catalog   *catalog.Catalog
	sim       Simulator
	publisher Publisher // nil disables publishing
	opts      Options
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New creates a Service. publisher may be nil.
func New(cat *catalog.Catalog, sim Simulator, publisher Publisher, opts Options, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = DefaultPublishTimeout
	}
	return &Service{
		catalog:   cat,
		sim:       sim,
		publisher: publisher,
		opts:      opts,
		metrics:   metrics,
		logger:    logger,
	}
}

// Lookup returns the configured pathway named name.
func (s *Service) Lookup(name string) (*catalog.Pathway, error) {
	p, ok := domain.ParsePathway(name)
	if ok {
		if pw, found := s.catalog.Lookup(p); found {
			return pw, nil
		}
	}
	return nil, domain.Errorf(domain.ErrNotFound, "pathway %q not found", name)
}

// Pathways returns every configured pathway.
func (s *Service) Pathways() []*catalog.Pathway {
	return s.catalog.Pathways()
}

// Calculate converts q to kg/hr and simulates the pathway at that flow.
func (s *Service) Calculate(ctx context.Context, pathway string, q Quantity, o domain.Overrides) (Calculation, error) {
	pw, err := s.Lookup(pathway)
	if err != nil {
		return Calculation{}, err
	}
	kgPerHour, err := domain.Normalize(q.Value, q.Unit, pw.Name)
	if err != nil {
		return Calculation{}, err
	}
	cfg, err := o.Apply(pw.Defaults)
	if err != nil {
		return Calculation{}, err
	}

	calc, err := s.simulate(ctx, pw, kgPerHour, cfg)
	if err != nil {
		return Calculation{}, err
	}

	unit, _ := domain.ParseUnit(q.Unit)
	s.publish(ctx, calc, domain.SourceCalc, q.Value, unit)
	return calc, nil
}

// CalculateCounty simulates the pathway at the named county's feedstock flow.
func (s *Service) CalculateCounty(ctx context.Context, pathway, county string, o domain.Overrides) (Calculation, error) {
	pw, err := s.Lookup(pathway)
	if err != nil {
		return Calculation{}, err
	}
	rec, err := pw.Counties.Resolve(county)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.metrics.CountyLookups.WithLabelValues(string(pw.Name), "miss").Inc()
		return Calculation{}, err
	case err != nil:
		s.logger.Error("county table defect", "pathway", pw.Name, "county", county, "error", err)
		return Calculation{}, err
	}
	s.metrics.CountyLookups.WithLabelValues(string(pw.Name), "hit").Inc()

	cfg, err := o.Apply(pw.Defaults)
	if err != nil {
		return Calculation{}, err
	}

	calc, err := s.simulate(ctx, pw, rec.KgPerHour, cfg)
	if err != nil {
		return Calculation{}, err
	}
	calc.County = rec.Name
	calc.CountyQuantity = rec.Quantity
	calc.CountyUnit = pw.Counties.Schema().QuantityUnit

	value, unit := rec.Quantity, calc.CountyUnit
	if unit == "" {
		value, unit = rec.KgPerHour, domain.UnitKgPerHour
	}
	s.publish(ctx, calc, domain.SourceCounty, value, unit)
	return calc, nil
}

// CheckReadiness reports whether every county table is usable and the
// simulator is reachable.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if err := s.catalog.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := s.sim.CheckReadiness(ctx); err != nil {
		return fmt.Errorf("simulator: %w", err)
	}
	return nil
}

func (s *Service) simulate(ctx context.Context, pw *catalog.Pathway, kgPerHour float64, cfg domain.Configuration) (Calculation, error) {
	res, err := s.sim.Simulate(ctx, pw.Name, kgPerHour, cfg)
	if err != nil {
		return Calculation{}, err
	}
	return Calculation{
		Pathway:       pw,
		KgPerHour:     kgPerHour,
		Result:        res,
		Configuration: cfg,
	}, nil
}

// publish is best effort; the response never depends on it and waits at most
// PublishTimeout for it.
func (s *Service) publish(ctx context.Context, calc Calculation, source string, value float64, unit domain.Unit) {
	if s.publisher == nil {
		return
	}
	event := domain.NewCalculationEvent()
	event.Pathway = calc.Pathway.Name
	event.Source = source
	event.County = calc.County
	event.InputValue = value
	event.InputUnit = unit
	event.FeedstockKgPerHour = calc.KgPerHour
	event.Product = calc.Pathway.Product
	event.Output = calc.Result.Output
	event.Price = calc.Result.Price
	event.GWP = calc.Result.GWP
	event.Configuration = calc.Configuration

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.PublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, event); err != nil {
		s.metrics.EventsPublished.WithLabelValues("error").Inc()
		s.logger.Warn("publish calculation event failed", "event_id", event.ID, "pathway", event.Pathway, "error", err)
		return
	}
	s.metrics.EventsPublished.WithLabelValues("success").Inc()
}
