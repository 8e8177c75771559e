package httpadapter

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/biomass-pathways-api/internal/catalog"
	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
	"github.com/couchcryptid/biomass-pathways-api/internal/service"
)

// Service is the application API the handlers call.
type Service interface {
	Lookup(name string) (*catalog.Pathway, error)
	Pathways() []*catalog.Pathway
	Calculate(ctx context.Context, pathway string, q service.Quantity, o domain.Overrides) (service.Calculation, error)
	CalculateCounty(ctx context.Context, pathway, county string, o domain.Overrides) (service.Calculation, error)
	CheckReadiness(ctx context.Context) error
}

type handlers struct {
	svc    Service
	logger *slog.Logger
}

// handleCalc converts a feedstock quantity and runs the pathway simulation.
// @Summary Simulate a pathway for a feedstock quantity
// @Description Converts the quantity to kg/hr and returns annual output, break-even price and GWP.
// @Description fermentation and combustion read "mass"; htl reads "sludge". The response echoes the
// @Description normalized kg/hr under the same key and reports output under the product name.
// @Description GWP characterization factors are overridden per material with gwp_<material>=<kg CO2e/kg>,
// @Description e.g. gwp_cornstover=0.5; /pathways lists each pathway's materials under defaults.gwp_factors.
// @Tags pathways
// @Produce json
// @Param pathway path string true "Pathway" Enums(fermentation, htl, combustion)
// @Param mass query number false "Feedstock quantity (fermentation, combustion)"
// @Param sludge query number false "Sludge quantity (htl)"
// @Param unit query string false "Quantity unit" default(kghr) Enums(kghr, tons, tonnes, mgd, m3d)
// @Param feedstock_price query number false "Feedstock price override (USD/kg)"
// @Param utility_price query number false "Power price override (USD/kWh)"
// @Success 200 {object} map[string]interface{} "e.g. {\"mass\": 10.36, \"ethanol\": 0.0069, \"price\": 2.94, \"gwp\": 1.64}"
// @Failure 400 {object} ErrorResponse "Missing or non-numeric parameter"
// @Failure 404 {object} ErrorResponse "Unknown pathway"
// @Failure 422 {object} ErrorResponse "Unit not accepted by the pathway, or unknown material"
// @Failure 500 {object} ErrorResponse "Simulation failure"
// @Failure 503 {object} ErrorResponse "Simulator busy"
// @Router /{pathway}/calc [get]
func (h *handlers) handleCalc(w http.ResponseWriter, r *http.Request) {
	pw, err := h.svc.Lookup(r.PathValue("pathway"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	quantity, err := parseQuantity(q, pw.InputParam)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	overrides, err := parseOverrides(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	calc, err := h.svc.Calculate(r.Context(), string(pw.Name), quantity, overrides)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calculationBody(calc))
}

// handleCounty runs the pathway simulation at a county's estimated feedstock flow.
// @Summary Simulate a pathway for a county
// @Description Looks up the county (case-insensitive) and simulates its feedstock flow in kg/hr.
// @Description The response adds the county's feedstock in the table's native unit (dry_tons for
// @Description fermentation and combustion, wastewater_mgd for htl).
// @Description GWP characterization factors are overridden per material with gwp_<material>=<kg CO2e/kg>,
// @Description e.g. gwp_cornstover=0.5; /pathways lists each pathway's materials under defaults.gwp_factors.
// @Tags pathways
// @Produce json
// @Param pathway path string true "Pathway" Enums(fermentation, htl, combustion)
// @Param county_name query string true "County name" example(Cape May)
// @Param feedstock_price query number false "Feedstock price override (USD/kg)"
// @Param utility_price query number false "Power price override (USD/kWh)"
// @Success 200 {object} map[string]interface{} "e.g. {\"county_name\": \"Cape May\", \"wastewater_mgd\": 18.7, \"sludge\": 779.17, \"diesel\": 0.42, \"price\": 4.25, \"gwp\": 2.1}"
// @Failure 400 {object} ErrorResponse "Missing county_name"
// @Failure 404 {object} ErrorResponse "Unknown pathway or county"
// @Failure 500 {object} ErrorResponse "Simulation failure or dataset defect"
// @Failure 503 {object} ErrorResponse "Simulator busy"
// @Router /{pathway}/county [get]
func (h *handlers) handleCounty(w http.ResponseWriter, r *http.Request) {
	pw, err := h.svc.Lookup(r.PathValue("pathway"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	county, err := requiredParam(q, paramCountyName)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	overrides, err := parseOverrides(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	calc, err := h.svc.CalculateCounty(r.Context(), string(pw.Name), county, overrides)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calculationBody(calc))
}

// handlePathways lists the configured pathways.
// @Summary List pathways
// @Description Input parameter, product, accepted units, display labels and default configuration per pathway.
// @Tags pathways
// @Produce json
// @Success 200 {array} PathwayInfo
// @Router /pathways [get]
func (h *handlers) handlePathways(w http.ResponseWriter, _ *http.Request) {
	pathways := h.svc.Pathways()
	out := make([]PathwayInfo, 0, len(pathways))
	for _, p := range pathways {
		out = append(out, pathwayInfo(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := statusFor(err); status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		h.logger.Error("request failed",
			"request_id", requestIDFrom(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeError(w, err)
}
