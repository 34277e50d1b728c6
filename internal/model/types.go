package model

import "time"

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// ActivityLevels lists activity levels from least to most active.
var ActivityLevels = []ActivityLevel{
	ActivitySedentary,
	ActivityLight,
	ActivityModerate,
	ActivityActive,
	ActivityVeryActive,
}

type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// Profile is the biometric input to the energy estimator.
type Profile struct {
	Age           int           `json:"age"`
	Sex           Sex           `json:"sex"`
	HeightCM      float64       `json:"height_cm"`
	WeightKG      float64       `json:"weight_kg"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          Goal          `json:"goal"`
}

// StoredProfile is a profile version persisted with the date it takes effect.
type StoredProfile struct {
	ID            int64
	Name          string
	Profile       Profile
	EffectiveDate string
	CreatedAt     time.Time
}

type MacroTargets struct {
	ProteinG int `json:"protein"`
	CarbsG   int `json:"carbs"`
	FatG     int `json:"fat"`
}

type EnergyEstimate struct {
	BMR               int          `json:"bmr"`
	TDEE              int          `json:"tdee"`
	TargetCalories    int          `json:"target_calories"`
	RecommendedIntake MacroTargets `json:"recommended_intake"`
}

type FoodItem struct {
	ID                 int64    `json:"id,omitempty"`
	Name               string   `json:"name"`
	CaloriesPerServing float64  `json:"calories_per_serving"`
	ServingSize        string   `json:"serving_size"`
	ProteinG           *float64 `json:"protein_g,omitempty"`
	CarbsG             *float64 `json:"carbs_g,omitempty"`
	FatG               *float64 `json:"fat_g,omitempty"`
	Brand              string   `json:"brand,omitempty"`
	Barcode            string   `json:"barcode,omitempty"`
	Verified           bool     `json:"verified"`
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists meal types in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

func (m MealType) Valid() bool {
	for _, t := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

type FoodEntry struct {
	ID       string   `json:"id"`
	Food     FoodItem `json:"food_item"`
	Quantity float64  `json:"quantity"`
}

func (e FoodEntry) Calories() float64 {
	return e.Food.CaloriesPerServing * e.Quantity
}

type Meal struct {
	Type    MealType    `json:"type"`
	Entries []FoodEntry `json:"foods"`
}

func (m Meal) TotalCalories() float64 {
	total := 0.0
	for _, e := range m.Entries {
		total += e.Calories()
	}
	return total
}

// MacroTotals holds consumed macro grams. Entries whose food has no value for
// a macro contribute nothing to it.
type MacroTotals struct {
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

func (m Meal) TotalMacros() MacroTotals {
	var out MacroTotals
	for _, e := range m.Entries {
		if e.Food.ProteinG != nil {
			out.ProteinG += *e.Food.ProteinG * e.Quantity
		}
		if e.Food.CarbsG != nil {
			out.CarbsG += *e.Food.CarbsG * e.Quantity
		}
		if e.Food.FatG != nil {
			out.FatG += *e.Food.FatG * e.Quantity
		}
	}
	return out
}

type DailyEntry struct {
	Date           Day    `json:"date"`
	Meals          []Meal `json:"meals"`
	TargetCalories int    `json:"target_calories"`
}

func (d DailyEntry) TotalCalories() float64 {
	total := 0.0
	for _, m := range d.Meals {
		total += m.TotalCalories()
	}
	return total
}

func (d DailyEntry) TotalMacros() MacroTotals {
	var out MacroTotals
	for _, m := range d.Meals {
		mm := m.TotalMacros()
		out.ProteinG += mm.ProteinG
		out.CarbsG += mm.CarbsG
		out.FatG += mm.FatG
	}
	return out
}

// Meal returns the meal of the given type, or nil when nothing was logged for it.
func (d *DailyEntry) Meal(t MealType) *Meal {
	for i := range d.Meals {
		if d.Meals[i].Type == t {
			return &d.Meals[i]
		}
	}
	return nil
}

func (d DailyEntry) EntryCount() int {
	n := 0
	for _, m := range d.Meals {
		n += len(m.Entries)
	}
	return n
}

type DaySummary struct {
	Date      Day `json:"date"`
	Consumed  int `json:"consumed"`
	Target    int `json:"target"`
	Remaining int `json:"remaining"`
}

func (s DaySummary) OverTarget() bool {
	return s.Consumed > s.Target
}
