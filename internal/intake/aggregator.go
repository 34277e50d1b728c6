package intake

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Terry7788/caloric-intake-calculator/internal/model"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrInvalidMealType = errors.New("invalid meal type")
)

// MaxEntryCalories caps the calories of a single entry so day and range totals
// stay finite.
const MaxEntryCalories = 100000

// TargetFunc supplies the calorie target snapshot for a day logged for the
// first time.
type TargetFunc func(date model.Day) (int, error)

// Aggregator folds food entries into days. It holds no per-day state; every
// operation takes the current DailyEntry and returns a new one, leaving its
// input untouched.
type Aggregator struct {
	defaultTarget TargetFunc
	newID         func() string
}

func NewAggregator(defaultTarget TargetFunc) *Aggregator {
	return &Aggregator{
		defaultTarget: defaultTarget,
		newID:         uuid.NewString,
	}
}

// AddEntry appends entry to the named meal of day. A nil day means nothing has
// been logged for date yet; the new DailyEntry takes its target from the
// aggregator's TargetFunc.
func (a *Aggregator) AddEntry(day *model.DailyEntry, date model.Day, meal model.MealType, entry model.FoodEntry) (*model.DailyEntry, error) {
	if err := validateEntry(meal, entry); err != nil {
		return nil, err
	}
	out, err := a.prepareDay(day, date)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(entry.ID) == "" {
		entry.ID = a.newID()
	} else if _, _, ok := findEntry(out, entry.ID); ok {
		return nil, fmt.Errorf("entry %s already logged on %s", entry.ID, out.Date)
	}

	m := out.Meal(meal)
	if m == nil {
		out.Meals = append(out.Meals, model.Meal{Type: meal})
		m = &out.Meals[len(out.Meals)-1]
	}
	m.Entries = append(m.Entries, entry)
	return out, nil
}

// RemoveEntry drops the entry with entryID from the named meal. The meal stays
// on the day even when it becomes empty.
func (a *Aggregator) RemoveEntry(day *model.DailyEntry, meal model.MealType, entryID string) (*model.DailyEntry, error) {
	if !meal.Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidMealType, meal)
	}
	if day == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, entryID, meal)
	}
	out := cloneDay(*day)
	m := out.Meal(meal)
	if m == nil {
		return nil, fmt.Errorf("%w: %s in %s on %s", ErrEntryNotFound, entryID, meal, out.Date)
	}
	idx := -1
	for i := range m.Entries {
		if m.Entries[i].ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s in %s on %s", ErrEntryNotFound, entryID, meal, out.Date)
	}
	m.Entries = append(m.Entries[:idx], m.Entries[idx+1:]...)
	return out, nil
}

// ReplaceEntry swaps the entry with entryID for entry, keeping its position
// and ID. Logged entries are never edited in place.
func (a *Aggregator) ReplaceEntry(day *model.DailyEntry, meal model.MealType, entryID string, entry model.FoodEntry) (*model.DailyEntry, error) {
	if err := validateEntry(meal, entry); err != nil {
		return nil, err
	}
	if day == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, entryID, meal)
	}
	out := cloneDay(*day)
	m := out.Meal(meal)
	if m == nil {
		return nil, fmt.Errorf("%w: %s in %s on %s", ErrEntryNotFound, entryID, meal, out.Date)
	}
	for i := range m.Entries {
		if m.Entries[i].ID == entryID {
			entry.ID = entryID
			m.Entries[i] = entry
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s on %s", ErrEntryNotFound, entryID, meal, out.Date)
}

func (a *Aggregator) prepareDay(day *model.DailyEntry, date model.Day) (*model.DailyEntry, error) {
	if day != nil {
		out := cloneDay(*day)
		return out, nil
	}
	if date.IsZero() {
		return nil, fmt.Errorf("date is required for a new day")
	}
	target := 0
	if a.defaultTarget != nil {
		t, err := a.defaultTarget(date)
		if err != nil {
			return nil, fmt.Errorf("resolve target for %s: %w", date, err)
		}
		target = t
	}
	if target < 0 {
		return nil, fmt.Errorf("target calories must be >= 0")
	}
	return &model.DailyEntry{Date: date, TargetCalories: target}, nil
}

func validateEntry(meal model.MealType, entry model.FoodEntry) error {
	if !meal.Valid() {
		return fmt.Errorf("%w %q (use breakfast, lunch, dinner, or snack)", ErrInvalidMealType, meal)
	}
	if !(entry.Quantity > 0) || math.IsInf(entry.Quantity, 0) {
		return fmt.Errorf("%w: quantity must be a finite number > 0", ErrInvalidQuantity)
	}
	if !(entry.Food.CaloriesPerServing > 0) || math.IsInf(entry.Food.CaloriesPerServing, 0) {
		return fmt.Errorf("%w: calories per serving must be a finite number > 0", ErrInvalidQuantity)
	}
	if !(entry.Calories() <= MaxEntryCalories) {
		return fmt.Errorf("%w: entry exceeds %d kcal", ErrInvalidQuantity, MaxEntryCalories)
	}
	for name, v := range map[string]*float64{"protein": entry.Food.ProteinG, "carbs": entry.Food.CarbsG, "fat": entry.Food.FatG} {
		if v == nil {
			continue
		}
		if !(*v >= 0) || math.IsInf(*v, 0) {
			return fmt.Errorf("%w: %s per serving must be a finite number >= 0", ErrInvalidQuantity, name)
		}
		if !(*v*entry.Quantity <= MaxEntryCalories) {
			return fmt.Errorf("%w: %s exceeds %d g", ErrInvalidQuantity, name, MaxEntryCalories)
		}
	}
	return nil
}

func findEntry(day *model.DailyEntry, id string) (model.MealType, int, bool) {
	for _, m := range day.Meals {
		for i, e := range m.Entries {
			if e.ID == id {
				return m.Type, i, true
			}
		}
	}
	return "", 0, false
}

func cloneDay(d model.DailyEntry) *model.DailyEntry {
	out := d
	out.Meals = make([]model.Meal, len(d.Meals))
	for i, m := range d.Meals {
		out.Meals[i] = model.Meal{Type: m.Type, Entries: append([]model.FoodEntry(nil), m.Entries...)}
	}
	return &out
}
