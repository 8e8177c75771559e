// Package gateway owns the process-wide simulator. Configuring the simulator
// mutates state that the following run reads, so the gateway admits one
// configure-and-simulate sequence at a time and queues the rest.
package gateway

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
	"github.com/couchcryptid/biomass-pathways-api/internal/observability"
)

// Options bound how long a request may wait for and hold the simulator.
type Options struct {
	QueueTimeout time.Duration // zero waits until the caller gives up
	RunTimeout   time.Duration // zero leaves the run unbounded
}

// Gateway serializes access to a domain.Simulator.
type Gateway struct {
	sim     domain.Simulator
	slot    *slotPool
	opts    Options
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New wraps sim in a single-slot gateway.
func New(sim domain.Simulator, opts Options, metrics *observability.Metrics, logger *slog.Logger) *Gateway {
	return &Gateway{
		sim:     sim,
		slot:    newSlotPool(1),
		opts:    opts,
		metrics: metrics,
		logger:  logger,
	}
}

// Simulate applies cfg to the simulator and runs pathway p at kgPerHour.
//
// Cancelling ctx while queued abandons the request. Once the simulator is held
// the run ignores ctx cancellation and is bounded by RunTimeout instead, so a
// configure is never left without its run.
func (g *Gateway) Simulate(ctx context.Context, p domain.Pathway, kgPerHour float64, cfg domain.Configuration) (domain.Result, error) {
	if math.IsNaN(kgPerHour) || math.IsInf(kgPerHour, 0) {
		return domain.Result{}, domain.Errorf(domain.ErrInvalidType, "feedstock flow must be a finite number")
	}

	queued := time.Now()
	release, ok := g.slot.acquire(ctx, g.opts.QueueTimeout)
	g.metrics.SimulationWait.Observe(time.Since(queued).Seconds())
	if !ok {
		if err := ctx.Err(); err != nil {
			return domain.Result{}, err
		}
		g.metrics.Simulations.WithLabelValues(string(p), "busy").Inc()
		g.logger.Warn("simulator queue timeout", "pathway", p, "wait", g.opts.QueueTimeout)
		return domain.Result{}, domain.Errorf(domain.ErrSimulatorBusy, "simulator is busy, try again later")
	}
	defer release()

	g.metrics.SimulationInFlight.Set(1)
	defer g.metrics.SimulationInFlight.Set(0)

	start := time.Now()
	res, err := g.run(ctx, p, kgPerHour, cfg)
	g.metrics.SimulationDuration.WithLabelValues(string(p)).Observe(time.Since(start).Seconds())

	if err != nil {
		g.metrics.Simulations.WithLabelValues(string(p), "error").Inc()
		g.logger.Error("simulation failed", "pathway", p, "kg_per_hr", kgPerHour, "error", err)
		return domain.Result{}, domain.WrapError(domain.ErrSimulation, err)
	}
	g.metrics.Simulations.WithLabelValues(string(p), "success").Inc()
	g.logger.Debug("simulation complete", "pathway", p, "kg_per_hr", kgPerHour, "duration", time.Since(start))
	return res, nil
}

func (g *Gateway) run(ctx context.Context, p domain.Pathway, kgPerHour float64, cfg domain.Configuration) (domain.Result, error) {
	runCtx := context.WithoutCancel(ctx)
	if g.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, g.opts.RunTimeout)
		defer cancel()
	}

	if err := g.sim.Configure(runCtx, p, cfg); err != nil {
		return domain.Result{}, err
	}
	res, err := g.sim.Simulate(runCtx, p, kgPerHour)
	if err != nil {
		return domain.Result{}, err
	}
	if err := res.Validate(); err != nil {
		return domain.Result{}, err
	}
	return res, nil
}

// CheckReadiness delegates to the simulator when it can report readiness.
func (g *Gateway) CheckReadiness(ctx context.Context) error {
	if rc, ok := g.sim.(interface {
		CheckReadiness(context.Context) error
	}); ok {
		return rc.CheckReadiness(ctx)
	}
	return nil
}
