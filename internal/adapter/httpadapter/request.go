package httpadapter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/biomass-pathways-api/internal/domain"
	"github.com/couchcryptid/biomass-pathways-api/internal/service"
)

// Query parameter names shared by every pathway.
const (
	paramUnit           = "unit"
	paramCountyName     = "county_name"
	paramFeedstockPrice = "feedstock_price"
	paramUtilityPrice   = "utility_price"
	gwpParamPrefix      = "gwp_"
)

func requiredParam(q url.Values, name string) (string, error) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return "", domain.Errorf(domain.ErrMissingParameter, "missing required parameter '%s'", name)
	}
	return v, nil
}

func numberParam(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.Errorf(domain.ErrInvalidType, "parameter '%s' must be a number", name)
	}
	return v, nil
}

// parseQuantity reads the pathway's input parameter and the optional unit.
func parseQuantity(q url.Values, inputParam string) (service.Quantity, error) {
	raw, err := requiredParam(q, inputParam)
	if err != nil {
		return service.Quantity{}, err
	}
	v, err := numberParam(inputParam, raw)
	if err != nil {
		return service.Quantity{}, err
	}
	unit := strings.TrimSpace(q.Get(paramUnit))
	if unit == "" {
		unit = string(domain.DefaultUnit)
	}
	return service.Quantity{Value: v, Unit: unit}, nil
}

// parseOverrides collects feedstock_price, utility_price and gwp_<material>
// parameters. Materials are checked against the pathway later.
func parseOverrides(q url.Values) (domain.Overrides, error) {
	var o domain.Overrides
	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{paramFeedstockPrice, &o.FeedstockPrice},
		{paramUtilityPrice, &o.UtilityPrice},
	} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		v, err := numberParam(p.name, raw)
		if err != nil {
			return domain.Overrides{}, err
		}
		*p.dst = &v
	}

	for name, values := range q {
		material, ok := strings.CutPrefix(name, gwpParamPrefix)
		if !ok || material == "" || len(values) == 0 {
			continue
		}
		v, err := numberParam(name, strings.TrimSpace(values[0]))
		if err != nil {
			return domain.Overrides{}, err
		}
		if o.GWPFactors == nil {
			o.GWPFactors = make(map[string]float64)
		}
		o.GWPFactors[material] = v
	}
	return o, nil
}
