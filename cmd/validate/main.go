// Command validate checks the pathway catalog and its county tables: every
// table parses, every derived Kilogram/hr value matches its quantity column
// after unit conversion, and every pathway simulates cleanly at each county's
// flow with the built-in surrogate.
//
// Usage:
//
//	go run ./cmd/validate                    # embedded catalog
//	go run ./cmd/validate -data-dir ./data   # catalog on disk
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/biomass-pathways-api/internal/adapter/surrogate"
	"github.com/couchcryptid/biomass-pathways-api/internal/catalog"
	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "", "catalog directory containing pathways.yaml (default: embedded catalog)")
	tolerance := flag.Float64("tolerance", 0.01, "allowed kg/hr difference between the flow column and the converted quantity")
	flag.Parse()

	if *tolerance < 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataDir, *tolerance); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string, tolerance float64) int {
	fmt.Println("=== Pathway Catalog Validation ===")
	fmt.Println()

	cat, err := catalog.Load(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load catalog: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCoverage(cat),
		validateTables(cat),
		validateFlows(cat, tolerance),
		validateSimulation(cat),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	for _, pw := range cat.Pathways() {
		fmt.Printf("%-13s %d counties\n", pw.Name, pw.Counties.Len())
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Coverage ──
// Every supported pathway is configured with a non-empty county table.

func validateCoverage(cat *catalog.Catalog) *phase {
	p := &phase{name: "Phase 1: Pathway coverage"}
	for _, name := range domain.Pathways() {
		pw, ok := cat.Lookup(name)
		if !ok {
			p.errorf("%s: not configured", name)
			continue
		}
		if pw.Counties.Len() == 0 {
			p.errorf("%s: county table %s has no rows", name, pw.CountyFile)
		}
		if !isFinite(pw.Defaults.FeedstockPrice) || !isFinite(pw.Defaults.UtilityPrice) {
			p.errorf("%s: default prices must be finite", name)
		}
	}
	return p
}

// ── Phase 2: Table schema ──

func validateTables(cat *catalog.Catalog) *phase {
	p := &phase{name: "Phase 2: County table schema"}
	for _, pw := range cat.Pathways() {
		if err := pw.Counties.Validate(); err != nil {
			p.errorf("%s (%s): %v", pw.Name, pw.CountyFile, err)
		}
	}
	return p
}

// ── Phase 3: Derived flows ──
// The flow column must equal the quantity column converted to kg/hr.

func validateFlows(cat *catalog.Catalog, tolerance float64) *phase {
	p := &phase{name: "Phase 3: Derived Kilogram/hr values"}
	for _, pw := range cat.Pathways() {
		schema := pw.Counties.Schema()
		if schema.QuantityUnit == "" {
			continue
		}
		for _, county := range pw.Counties.Names() {
			rec, err := pw.Counties.Resolve(county)
			if err != nil {
				// Reported by phase 2.
				continue
			}
			want, err := domain.Normalize(rec.Quantity, string(schema.QuantityUnit), pw.Name)
			if err != nil {
				p.errorf("%s %s: %v", pw.Name, rec.Name, err)
				continue
			}
			if math.Abs(want-rec.KgPerHour) > tolerance {
				p.errorf("%s %s: %s=%.2f but %v %s converts to %.2f",
					pw.Name, rec.Name, schema.FlowColumn, rec.KgPerHour, rec.Quantity, schema.QuantityUnit, want)
			}
		}
	}
	return p
}

// ── Phase 4: Simulation ──
// Every county flow produces finite metrics under the default configuration.

func validateSimulation(cat *catalog.Catalog) *phase {
	p := &phase{name: "Phase 4: Surrogate simulation"}

	sim, err := surrogate.New()
	if err != nil {
		p.errorf("load surrogate models: %v", err)
		return p
	}

	ctx := context.Background()
	for _, pw := range cat.Pathways() {
		if err := sim.Configure(ctx, pw.Name, pw.Defaults); err != nil {
			p.errorf("%s: configure: %v", pw.Name, err)
			continue
		}
		for _, county := range pw.Counties.Names() {
			rec, err := pw.Counties.Resolve(county)
			if err != nil {
				continue
			}
			if rec.KgPerHour <= 0 {
				// The simulator cannot converge without feedstock.
				continue
			}
			res, err := sim.Simulate(ctx, pw.Name, rec.KgPerHour)
			if err == nil {
				err = res.Validate()
			}
			if err != nil {
				p.errorf("%s %s at %.2f kg/hr: %v", pw.Name, rec.Name, rec.KgPerHour, err)
			}
		}
	}
	return p
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
