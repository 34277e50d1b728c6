package energy

import (
	"errors"
	"fmt"
	"math"

	"github.com/Terry7788/caloric-intake-calculator/internal/model"
)

var (
	ErrInvalidActivityLevel = errors.New("invalid activity level")
	ErrInvalidProfile       = errors.New("invalid profile")
	ErrInvalidAdjustment    = errors.New("invalid goal adjustment")
)

// GoalAdjustmentKcal is the daily deficit or surplus applied for lose/gain
// goals. 500 kcal/day is roughly 1 lb (0.45 kg) per week.
const GoalAdjustmentKcal = 500

const (
	proteinShare = 0.25
	carbsShare   = 0.45
	fatShare     = 0.30

	proteinKcalPerGram = 4
	carbsKcalPerGram   = 4
	fatKcalPerGram     = 9
)

const (
	maxAgeYears = 130
	maxHeightCM = 300
	maxWeightKG = 700
)

// bmrFormula holds the coefficients of a + b·weight + c·height − d·age.
type bmrFormula struct {
	a, b, c, d float64
}

func (f bmrFormula) apply(weightKG, heightCM float64, age int) float64 {
	return f.a + f.b*weightKG + f.c*heightCM - f.d*float64(age)
}

// Harris-Benedict, revised (Roza and Shizgal).
var bmrCoefficients = map[model.Sex]bmrFormula{
	model.SexMale:   {a: 88.362, b: 13.397, c: 4.799, d: 5.677},
	model.SexFemale: {a: 447.593, b: 9.247, c: 3.098, d: 4.330},
}

// ActivityMultipliers maps each activity level to its TDEE multiplier. Levels
// missing from this table are rejected, never defaulted.
var ActivityMultipliers = map[model.ActivityLevel]float64{
	model.ActivitySedentary:  1.2,
	model.ActivityLight:      1.375,
	model.ActivityModerate:   1.55,
	model.ActivityActive:     1.725,
	model.ActivityVeryActive: 1.9,
}

func ActivityMultiplier(level model.ActivityLevel) (float64, error) {
	mult, ok := ActivityMultipliers[level]
	if !ok {
		return 0, fmt.Errorf("%w %q (use sedentary, light, moderate, active, or very_active)", ErrInvalidActivityLevel, level)
	}
	return mult, nil
}

// Estimate computes BMR, TDEE, the goal-adjusted calorie target, and the macro
// split for p using the default goal adjustment.
func Estimate(p model.Profile) (model.EnergyEstimate, error) {
	return EstimateWithAdjustment(p, GoalAdjustmentKcal)
}

// EstimateWithAdjustment is Estimate with a caller-chosen daily deficit or
// surplus for lose/gain goals.
//
// Rounding (half away from zero) is applied only to the reported figures;
// TDEE, target, and macros are derived from the unrounded values.
func EstimateWithAdjustment(p model.Profile, adjustmentKcal int) (model.EnergyEstimate, error) {
	if adjustmentKcal < 0 {
		return model.EnergyEstimate{}, fmt.Errorf("%w: must be >= 0, got %d", ErrInvalidAdjustment, adjustmentKcal)
	}
	if err := ValidateProfile(p); err != nil {
		return model.EnergyEstimate{}, err
	}
	mult, err := ActivityMultiplier(p.ActivityLevel)
	if err != nil {
		return model.EnergyEstimate{}, err
	}

	bmr := bmrCoefficients[p.Sex].apply(p.WeightKG, p.HeightCM, p.Age)
	if bmr < 0.5 {
		return model.EnergyEstimate{}, fmt.Errorf("%w: measurements yield a non-positive BMR", ErrInvalidProfile)
	}
	tdee := bmr * mult
	target := targetCalories(tdee, p.Goal, adjustmentKcal)

	return model.EnergyEstimate{
		BMR:               roundKcal(bmr),
		TDEE:              roundKcal(tdee),
		TargetCalories:    roundKcal(target),
		RecommendedIntake: macroSplit(target),
	}, nil
}

// MacroSplit converts a calorie target into protein, carb, and fat grams.
// Each macro is rounded on its own, so the grams need not add back up to
// exactly targetKcal.
func MacroSplit(targetKcal int) model.MacroTargets {
	return macroSplit(float64(targetKcal))
}

func macroSplit(t float64) model.MacroTargets {
	if t <= 0 {
		return model.MacroTargets{}
	}
	return model.MacroTargets{
		ProteinG: roundKcal(t * proteinShare / proteinKcalPerGram),
		CarbsG:   roundKcal(t * carbsShare / carbsKcalPerGram),
		FatG:     roundKcal(t * fatShare / fatKcalPerGram),
	}
}

func ValidateProfile(p model.Profile) error {
	if _, ok := bmrCoefficients[p.Sex]; !ok {
		return fmt.Errorf("%w: sex %q (use male or female)", ErrInvalidProfile, p.Sex)
	}
	if p.Age <= 0 || p.Age > maxAgeYears {
		return fmt.Errorf("%w: age must be between 1 and %d", ErrInvalidProfile, maxAgeYears)
	}
	if !(p.HeightCM > 0 && p.HeightCM <= maxHeightCM) {
		return fmt.Errorf("%w: height must be > 0 and <= %d cm", ErrInvalidProfile, maxHeightCM)
	}
	if !(p.WeightKG > 0 && p.WeightKG <= maxWeightKG) {
		return fmt.Errorf("%w: weight must be > 0 and <= %d kg", ErrInvalidProfile, maxWeightKG)
	}
	switch p.Goal {
	case model.GoalLose, model.GoalMaintain, model.GoalGain:
	default:
		return fmt.Errorf("%w: goal %q (use lose, maintain, or gain)", ErrInvalidProfile, p.Goal)
	}
	return nil
}

func targetCalories(tdee float64, goal model.Goal, adjustmentKcal int) float64 {
	target := tdee
	switch goal {
	case model.GoalLose:
		target -= float64(adjustmentKcal)
	case model.GoalGain:
		target += float64(adjustmentKcal)
	}
	return math.Max(0, target)
}

func roundKcal(v float64) int {
	return int(math.Round(v))
}
