package domain

import (
	"math"
	"strings"
)

// Unit is a feedstock quantity unit code.
type Unit string

const (
	UnitKgPerHour     Unit = "kghr"
	UnitTonsPerYear   Unit = "tons"
	UnitTonnesPerYear Unit = "tonnes"
	UnitMGD           Unit = "mgd"
	UnitM3PerDay      Unit = "m3d"
)

// DefaultUnit is assumed when a request does not name a unit.
const DefaultUnit = UnitKgPerHour

// Conversion constants.
const (
	KgPerShortTon                = 907.185
	KgPerTonne                   = 1000.0
	HoursPerYear                 = 8760.0
	HoursPerDay                  = 24.0
	CubicMetersPerMillionGallons = 3785.411784
	DrySludgeTonnesPerMGD        = 1.0
)

var unitAliases = map[string]Unit{
	"kg_per_hr":               UnitKgPerHour,
	"tons_per_year":           UnitTonsPerYear,
	"tonnes_per_year":         UnitTonnesPerYear,
	"million_gallons_per_day": UnitMGD,
	"cubic_meters_per_day":    UnitM3PerDay,
}

var toKgPerHour = map[Unit]func(float64) float64{
	UnitKgPerHour:     func(v float64) float64 { return v },
	UnitTonsPerYear:   func(v float64) float64 { return v * KgPerShortTon / HoursPerYear },
	UnitTonnesPerYear: func(v float64) float64 { return v * KgPerTonne / HoursPerYear },
	UnitMGD:           mgdToKgPerHour,
	UnitM3PerDay:      func(v float64) float64 { return mgdToKgPerHour(v / CubicMetersPerMillionGallons) },
}

func mgdToKgPerHour(v float64) float64 {
	return v * DrySludgeTonnesPerMGD * KgPerTonne / HoursPerDay
}

var pathwayUnits = map[Pathway][]Unit{
	Fermentation: {UnitKgPerHour, UnitTonsPerYear, UnitTonnesPerYear},
	HTL:          {UnitKgPerHour, UnitTonsPerYear, UnitTonnesPerYear, UnitMGD, UnitM3PerDay},
	Combustion:   {UnitKgPerHour, UnitTonsPerYear, UnitTonnesPerYear},
}

// Units returns the unit codes accepted for pathway p.
func Units(p Pathway) []Unit {
	return append([]Unit(nil), pathwayUnits[p]...)
}

// ParseUnit resolves a unit code or long-form alias, ignoring case.
func ParseUnit(s string) (Unit, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if u, ok := unitAliases[key]; ok {
		return u, true
	}
	u := Unit(key)
	if _, ok := toKgPerHour[u]; ok {
		return u, true
	}
	return "", false
}

// Normalize converts value expressed in unit to kg/hr for pathway p.
func Normalize(value float64, unit string, p Pathway) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, Errorf(ErrInvalidType, "quantity must be a non-negative number")
	}
	u, ok := ParseUnit(unit)
	if !ok || !allowsUnit(p, u) {
		return 0, Errorf(ErrInvalidUnit, "unit must be one of %s", quoteUnits(pathwayUnits[p]))
	}
	return toKgPerHour[u](value), nil
}

func allowsUnit(p Pathway, u Unit) bool {
	for _, allowed := range pathwayUnits[p] {
		if allowed == u {
			return true
		}
	}
	return false
}

func quoteUnits(units []Unit) string {
	quoted := make([]string, len(units))
	for i, u := range units {
		quoted[i] = "'" + string(u) + "'"
	}
	return strings.Join(quoted, ", ")
}
