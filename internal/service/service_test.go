package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/biomass-pathways-api/internal/catalog"
	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
	"github.com/couchcryptid/biomass-pathways-api/internal/observability"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	pathway   domain.Pathway
	kgPerHour float64
	cfg       domain.Configuration
}

type mockSimulator struct {
	mu       sync.Mutex
	calls    []call
	err      error
	readyErr error
}

func (m *mockSimulator) Simulate(_ context.Context, p domain.Pathway, kgPerHour float64, cfg domain.Configuration) (domain.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{p, kgPerHour, cfg})
	if m.err != nil {
		return domain.Result{}, m.err
	}
	return domain.Result{Output: kgPerHour / 1000, Price: cfg.FeedstockPrice + 1, GWP: 2}, nil
}

func (m *mockSimulator) CheckReadiness(context.Context) error { return m.readyErr }

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.CalculationEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, e domain.CalculationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return m.err
}

// blockingPublisher never completes a publish until its context ends, like a
// broker that accepts connections but never acknowledges.
type blockingPublisher struct {
	hadDeadline bool
}

func (b *blockingPublisher) Publish(ctx context.Context, _ domain.CalculationEvent) error {
	_, b.hadDeadline = ctx.Deadline()
	<-ctx.Done()
	return ctx.Err()
}

func newTestService(t *testing.T, sim Simulator, pub Publisher) *Service {
	t.Helper()
	cat, err := catalog.Load("")
	require.NoError(t, err)
	return New(cat, sim, pub, Options{}, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCalculate_NormalizesAndUsesDefaults(t *testing.T) {
	sim := &mockSimulator{}
	svc := newTestService(t, sim, nil)

	calc, err := svc.Calculate(context.Background(), "fermentation", Quantity{Value: 100, Unit: "tons"}, domain.Overrides{})
	require.NoError(t, err)

	assert.InDelta(t, 10.3556, calc.KgPerHour, 1e-3)
	assert.Equal(t, domain.Fermentation, calc.Pathway.Name)
	assert.Empty(t, calc.County)
	require.Len(t, sim.calls, 1)
	if diff := cmp.Diff(calc.Pathway.Defaults, sim.calls[0].cfg); diff != "" {
		t.Errorf("configuration mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculate_AppliesOverrides(t *testing.T) {
	sim := &mockSimulator{}
	svc := newTestService(t, sim, nil)
	price := 0.5

	calc, err := svc.Calculate(context.Background(), "htl", Quantity{Value: 10, Unit: "mgd"},
		domain.Overrides{FeedstockPrice: &price, GWPFactors: map[string]float64{"hydrogen": 9}})
	require.NoError(t, err)

	assert.InDelta(t, 10*1000.0/24, calc.KgPerHour, 1e-9)
	assert.InDelta(t, 1.5, calc.Result.Price, 1e-12)
	assert.InDelta(t, 9, sim.calls[0].cfg.GWPFactors["hydrogen"], 0)

	// Defaults are untouched for the next request.
	htl, err := svc.Lookup("htl")
	require.NoError(t, err)
	assert.InDelta(t, 11.6, htl.Defaults.GWPFactors["hydrogen"], 0)
}

func TestCalculate_ValidationPrecedesSimulation(t *testing.T) {
	tests := []struct {
		name     string
		pathway  string
		quantity Quantity
		o        domain.Overrides
		kind     error
	}{
		{"unknown pathway", "gasification", Quantity{Value: 1, Unit: "kghr"}, domain.Overrides{}, domain.ErrNotFound},
		{"invalid unit", "htl", Quantity{Value: 50, Unit: "bogus"}, domain.Overrides{}, domain.ErrInvalidUnit},
		{"volumetric unit on mass pathway", "fermentation", Quantity{Value: 50, Unit: "mgd"}, domain.Overrides{}, domain.ErrInvalidUnit},
		{"negative quantity", "combustion", Quantity{Value: -1, Unit: "kghr"}, domain.Overrides{}, domain.ErrInvalidType},
		{"unknown material", "combustion", Quantity{Value: 1, Unit: "kghr"},
			domain.Overrides{GWPFactors: map[string]float64{"unobtainium": 1}}, domain.ErrUnknownMaterial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := &mockSimulator{}
			pub := &mockPublisher{}
			svc := newTestService(t, sim, pub)

			_, err := svc.Calculate(context.Background(), tt.pathway, tt.quantity, tt.o)
			require.ErrorIs(t, err, tt.kind)
			assert.Empty(t, sim.calls)
			assert.Empty(t, pub.events)
		})
	}
}

func TestCalculate_SimulationErrorPassesThrough(t *testing.T) {
	simErr := domain.WrapError(domain.ErrSimulation, errors.New("Failed to converge"))
	pub := &mockPublisher{}
	svc := newTestService(t, &mockSimulator{err: simErr}, pub)

	_, err := svc.Calculate(context.Background(), "htl", Quantity{Value: 1, Unit: "kghr"}, domain.Overrides{})
	require.ErrorIs(t, err, domain.ErrSimulation)
	assert.Equal(t, "Failed to converge", err.Error())
	assert.Empty(t, pub.events)
}

func TestCalculate_PublishesEvent(t *testing.T) {
	pub := &mockPublisher{}
	svc := newTestService(t, &mockSimulator{}, pub)

	_, err := svc.Calculate(context.Background(), "fermentation", Quantity{Value: 100, Unit: "TONS_PER_YEAR"}, domain.Overrides{})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	e := pub.events[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, domain.Fermentation, e.Pathway)
	assert.Equal(t, domain.SourceCalc, e.Source)
	assert.Equal(t, domain.UnitTonsPerYear, e.InputUnit)
	assert.InDelta(t, 100, e.InputValue, 0)
	assert.InDelta(t, 10.3556, e.FeedstockKgPerHour, 1e-3)
	assert.Equal(t, "ethanol", e.Product)
	assert.Empty(t, e.County)
}

func TestCalculate_PublishFailureIgnored(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker unavailable")}
	svc := newTestService(t, &mockSimulator{}, pub)

	_, err := svc.Calculate(context.Background(), "combustion", Quantity{Value: 5, Unit: "kghr"}, domain.Overrides{})
	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(svc.metrics.EventsPublished.WithLabelValues("error")), 0)
}

func TestCalculate_StalledPublisherIsBounded(t *testing.T) {
	pub := &blockingPublisher{}
	cat, err := catalog.Load("")
	require.NoError(t, err)
	svc := New(cat, &mockSimulator{}, pub, Options{PublishTimeout: 50 * time.Millisecond},
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	calc, err := svc.Calculate(ctx, "combustion", Quantity{Value: 5, Unit: "kghr"}, domain.Overrides{})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.InDelta(t, 5, calc.KgPerHour, 0)
	assert.True(t, pub.hadDeadline, "publish context should carry a deadline")
	assert.Less(t, elapsed, 2*time.Second)
	assert.InDelta(t, 1, testutil.ToFloat64(svc.metrics.EventsPublished.WithLabelValues("error")), 0)
}

func TestNew_DefaultPublishTimeout(t *testing.T) {
	svc := newTestService(t, &mockSimulator{}, nil)
	assert.Equal(t, DefaultPublishTimeout, svc.opts.PublishTimeout)
}

func TestCalculateCounty(t *testing.T) {
	sim := &mockSimulator{}
	pub := &mockPublisher{}
	svc := newTestService(t, sim, pub)

	calc, err := svc.CalculateCounty(context.Background(), "htl", "  cape MAY ", domain.Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "Cape May", calc.County)
	assert.InDelta(t, 779.17, calc.KgPerHour, 1e-9)
	assert.InDelta(t, 18.7, calc.CountyQuantity, 1e-9)
	assert.Equal(t, domain.UnitMGD, calc.CountyUnit)
	require.Len(t, sim.calls, 1)
	assert.InDelta(t, 779.17, sim.calls[0].kgPerHour, 1e-9)

	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.SourceCounty, pub.events[0].Source)
	assert.Equal(t, "Cape May", pub.events[0].County)
	assert.Equal(t, domain.UnitMGD, pub.events[0].InputUnit)
	assert.InDelta(t, 18.7, pub.events[0].InputValue, 1e-9)
	assert.InDelta(t, 779.17, pub.events[0].FeedstockKgPerHour, 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(svc.metrics.CountyLookups.WithLabelValues("htl", "hit")), 0)
}

func TestCalculateCounty_FermentationDryTons(t *testing.T) {
	pub := &mockPublisher{}
	svc := newTestService(t, &mockSimulator{}, pub)

	calc, err := svc.CalculateCounty(context.Background(), "fermentation", "atlantic", domain.Overrides{})
	require.NoError(t, err)

	assert.InDelta(t, 98500, calc.CountyQuantity, 0)
	assert.Equal(t, domain.UnitTonsPerYear, calc.CountyUnit)
	assert.InDelta(t, 10200.65, calc.KgPerHour, 1e-9)
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.UnitTonsPerYear, pub.events[0].InputUnit)
	assert.InDelta(t, 98500, pub.events[0].InputValue, 0)
}

func TestCalculateCounty_NotFound(t *testing.T) {
	sim := &mockSimulator{}
	svc := newTestService(t, sim, nil)

	_, err := svc.CalculateCounty(context.Background(), "fermentation", "Unknown County", domain.Overrides{})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, `county "Unknown County" not found`, err.Error())
	assert.Empty(t, sim.calls)
	assert.InDelta(t, 1, testutil.ToFloat64(svc.metrics.CountyLookups.WithLabelValues("fermentation", "miss")), 0)
}

func TestCalculateCounty_UnknownPathway(t *testing.T) {
	svc := newTestService(t, &mockSimulator{}, nil)

	_, err := svc.CalculateCounty(context.Background(), "gasification", "Cape May", domain.Overrides{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckReadiness(t *testing.T) {
	sim := &mockSimulator{}
	svc := newTestService(t, sim, nil)
	require.NoError(t, svc.CheckReadiness(context.Background()))

	sim.readyErr = errors.New("connection refused")
	err := svc.CheckReadiness(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulator: connection refused")
}

func TestPathways(t *testing.T) {
	svc := newTestService(t, &mockSimulator{}, nil)
	assert.Len(t, svc.Pathways(), 3)

	pw, err := svc.Lookup("HTL")
	require.NoError(t, err)
	assert.Equal(t, domain.HTL, pw.Name)
}
