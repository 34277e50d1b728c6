package service

import (
	"fmt"
	"strings"
)

type unitDef struct {
	toBase float64
}

// base = kg
var weightUnits = map[string]unitDef{
	"kg":  {toBase: 1},
	"g":   {toBase: 0.001},
	"lb":  {toBase: 0.45359237},
	"lbs": {toBase: 0.45359237},
	"st":  {toBase: 6.35029318},
}

// base = cm
var heightUnits = map[string]unitDef{
	"cm": {toBase: 1},
	"m":  {toBase: 100},
	"in": {toBase: 2.54},
	"ft": {toBase: 30.48},
}

func ConvertWeightToKg(value float64, unit string) (float64, error) {
	if value <= 0 {
		return 0, fmt.Errorf("%w: weight must be > 0", ErrInvalidInput)
	}
	def, ok := resolveUnit(weightUnits, unit, "kg")
	if !ok {
		return 0, fmt.Errorf("%w: weight unit %q (use kg, g, lb, or st)", ErrInvalidInput, unit)
	}
	return value * def.toBase, nil
}

func WeightFromKg(weightKg float64, unit string) (float64, error) {
	def, ok := resolveUnit(weightUnits, unit, "kg")
	if !ok {
		return 0, fmt.Errorf("%w: weight unit %q (use kg, g, lb, or st)", ErrInvalidInput, unit)
	}
	return weightKg / def.toBase, nil
}

func ConvertHeightToCm(value float64, unit string) (float64, error) {
	if value <= 0 {
		return 0, fmt.Errorf("%w: height must be > 0", ErrInvalidInput)
	}
	def, ok := resolveUnit(heightUnits, unit, "cm")
	if !ok {
		return 0, fmt.Errorf("%w: height unit %q (use cm, m, in, or ft)", ErrInvalidInput, unit)
	}
	return value * def.toBase, nil
}

func resolveUnit(table map[string]unitDef, unit, fallback string) (unitDef, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = fallback
	}
	def, ok := table[u]
	return def, ok
}
