package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/biomass-pathways-api/internal/catalog"
	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
	"github.com/couchcryptid/biomass-pathways-api/internal/service"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"missing required parameter 'mass'"`
}

// PathwayInfo describes one pathway in the catalog listing.
type PathwayInfo struct {
	Name       string               `json:"name" example:"fermentation"`
	Title      string               `json:"title"`
	InputParam string               `json:"input_param" example:"mass"`
	Product    string               `json:"product" example:"ethanol"`
	Units      []string             `json:"units"`
	Labels     catalog.Labels       `json:"labels"`
	Defaults   domain.Configuration `json:"defaults"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingParameter), errors.Is(err, domain.ErrInvalidType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidUnit), errors.Is(err, domain.ErrUnknownMaterial):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSimulatorBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the client-facing text. Classified errors carry a
// user-facing message; anything else is reported generically.
func errorMessage(err error) string {
	for _, kind := range []error{
		domain.ErrMissingParameter, domain.ErrInvalidType, domain.ErrInvalidUnit,
		domain.ErrUnknownMaterial, domain.ErrNotFound, domain.ErrSchema,
		domain.ErrSimulation, domain.ErrSimulatorBusy,
	} {
		if errors.Is(err, kind) {
			return err.Error()
		}
	}
	return "internal server error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, status, ErrorResponse{Error: errorMessage(err)})
}

// calculationBody is the success envelope. The input and product keys are
// pathway-specific, e.g. {"mass", "ethanol", "price", "gwp"}. County responses
// add the county name and, when the catalog names a key for it, the county's
// feedstock in the table's native unit (e.g. "dry_tons").
func calculationBody(calc service.Calculation) map[string]any {
	body := map[string]any{
		calc.Pathway.InputParam: calc.KgPerHour,
		calc.Pathway.Product:    calc.Result.Output,
		"price":                 calc.Result.Price,
		"gwp":                   calc.Result.GWP,
	}
	if calc.County != "" {
		body[paramCountyName] = calc.County
		if key := calc.Pathway.CountyKey; key != "" {
			body[key] = calc.CountyQuantity
		}
	}
	return body
}

func pathwayInfo(p *catalog.Pathway) PathwayInfo {
	units := make([]string, len(p.Units))
	for i, u := range p.Units {
		units[i] = string(u)
	}
	return PathwayInfo{
		Name:       string(p.Name),
		Title:      p.Title,
		InputParam: p.InputParam,
		Product:    p.Product,
		Units:      units,
		Labels:     p.Labels,
		Defaults:   p.Defaults,
	}
}
